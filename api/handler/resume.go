package handler

import (
	"fmt"
	"net/http"

	"github.com/fyerfyer/resume-parser/api/middleware"
	"github.com/fyerfyer/resume-parser/api/model"
	"github.com/fyerfyer/resume-parser/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// DefaultMaxUploadSize 默认上传大小上限（10MB）
const DefaultMaxUploadSize int64 = 10 << 20

// ResumeHandler 处理简历解析相关的API请求
type ResumeHandler struct {
	svc           *services.ResumeService // 简历服务
	maxUploadSize int64                   // 上传大小上限（字节）
	logger        *logrus.Logger          // 日志记录器
}

// NewResumeHandler 创建简历处理器，maxUploadSize<=0时使用默认值
func NewResumeHandler(svc *services.ResumeService, maxUploadSize int64) *ResumeHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &ResumeHandler{
		svc:           svc,
		maxUploadSize: maxUploadSize,
		logger:        middleware.GetLogger(),
	}
}

// MaxUploadSize 返回上传大小上限
func (h *ResumeHandler) MaxUploadSize() int64 {
	return h.maxUploadSize
}

// ParseUpload 上传并同步解析简历文件
// POST /api/resumes
func (h *ResumeHandler) ParseUpload(c *gin.Context) {
	req, ok := h.bindUpload(c)
	if !ok {
		return
	}

	file, err := req.File.Open()
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("Failed to open uploaded file", err.Error()))
		return
	}
	defer file.Close()

	result, err := h.svc.ParseUpload(c.Request.Context(), file, req.File.Filename)
	if err != nil {
		middleware.HandleError(c, toAppError(err, h.svc.AllowedExtensions()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(result))
}

// ParseText 同步解析简历文本
// POST /api/resumes/text
func (h *ResumeHandler) ParseText(c *gin.Context) {
	var req model.ResumeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Invalid request body", err.Error()))
		return
	}

	result, err := h.svc.ParseText(c.Request.Context(), *req.Text)
	if err != nil {
		middleware.HandleError(c, toAppError(err, h.svc.AllowedExtensions()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(result))
}

// SubmitUpload 上传简历文件并提交异步解析任务
// POST /api/resumes/async
func (h *ResumeHandler) SubmitUpload(c *gin.Context) {
	req, ok := h.bindUpload(c)
	if !ok {
		return
	}

	file, err := req.File.Open()
	if err != nil {
		middleware.HandleError(c, middleware.NewInternalError("Failed to open uploaded file", err.Error()))
		return
	}
	defer file.Close()

	taskID, err := h.svc.SubmitUpload(c.Request.Context(), file, req.File.Filename)
	if err != nil {
		middleware.HandleError(c, toAppError(err, h.svc.AllowedExtensions()))
		return
	}

	h.accepted(c, taskID)
}

// SubmitText 提交异步解析文本的任务
// POST /api/resumes/text/async
func (h *ResumeHandler) SubmitText(c *gin.Context) {
	var req model.ResumeTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Invalid request body", err.Error()))
		return
	}

	taskID, err := h.svc.SubmitText(c.Request.Context(), *req.Text)
	if err != nil {
		middleware.HandleError(c, toAppError(err, h.svc.AllowedExtensions()))
		return
	}

	h.accepted(c, taskID)
}

// Health 健康检查
// GET /api/health
func (h *ResumeHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:     "ok",
		Async:      h.svc.AsyncEnabled(),
		Extensions: h.svc.AllowedExtensions(),
	})
}

// bindUpload 绑定上传表单并检查文件大小
func (h *ResumeHandler) bindUpload(c *gin.Context) (*model.ResumeUploadRequest, bool) {
	var req model.ResumeUploadRequest
	if err := c.ShouldBind(&req); err != nil || req.File == nil {
		middleware.HandleError(c, middleware.NewValidationError("No file selected"))
		return nil, false
	}
	if req.File.Filename == "" {
		middleware.HandleError(c, middleware.NewValidationError("No file selected"))
		return nil, false
	}
	if req.File.Size > h.maxUploadSize {
		middleware.HandleError(c, middleware.NewValidationError(
			fmt.Sprintf("File too large. Maximum size is %d MB.", h.maxUploadSize>>20)))
		return nil, false
	}
	return &req, true
}

func (h *ResumeHandler) accepted(c *gin.Context, taskID string) {
	h.logger.WithFields(logrus.Fields{
		middleware.FieldTraceID: c.GetString(middleware.TraceIDKey),
		"task_id":               taskID,
	}).Info("Resume parse task accepted")

	c.JSON(http.StatusAccepted, model.NewSuccessResponse(model.TaskSubmitResponse{
		TaskID: taskID,
		Status: "pending",
	}))
}
