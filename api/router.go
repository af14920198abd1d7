package api

import (
	"github.com/fyerfyer/resume-parser/api/handler"
	"github.com/fyerfyer/resume-parser/api/middleware"
	"github.com/gin-gonic/gin"
)

// RouterConfig 路由配置
type RouterConfig struct {
	EnableCORS bool // 是否允许跨域请求
}

// SetupRouter 设置API路由
// 配置所有的API端点并应用中间件
func SetupRouter(
	cfg RouterConfig,
	resumeHandler *handler.ResumeHandler,
	taskHandler *handler.TaskHandler,
	webHandler *handler.WebHandler,
) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = resumeHandler.MaxUploadSize()

	if cfg.EnableCORS {
		router.Use(Cors())
	}
	router.Use(middleware.SetTraceID())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorMiddleware())

	// 在调试模式下记录请求体和响应体
	if gin.Mode() == gin.DebugMode {
		router.Use(middleware.RequestBodyLog())
		router.Use(middleware.ResponseLogger())
	}

	// 网页上传表单
	router.GET("/", webHandler.Index)
	router.POST("/", webHandler.Upload)

	api := router.Group("/api")
	{
		resumeGroup := api.Group("/resumes")
		{
			// 上传并解析简历 - POST /api/resumes
			resumeGroup.POST("", resumeHandler.ParseUpload)

			// 解析简历文本 - POST /api/resumes/text
			resumeGroup.POST("/text", resumeHandler.ParseText)

			// 异步解析 - POST /api/resumes/async, POST /api/resumes/text/async
			resumeGroup.POST("/async", resumeHandler.SubmitUpload)
			resumeGroup.POST("/text/async", resumeHandler.SubmitText)
		}

		taskGroup := api.Group("/tasks")
		{
			// 查询任务 - GET /api/tasks/:id
			taskGroup.GET("/:id", taskHandler.GetTask)

			// 删除任务 - DELETE /api/tasks/:id
			taskGroup.DELETE("/:id", taskHandler.DeleteTask)
		}

		// 健康检查API
		api.GET("/health", resumeHandler.Health)
	}

	return router
}

// Cors 跨域资源共享中间件
func Cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Trace-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
