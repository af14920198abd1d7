package handler

import (
	"net/http"
	"time"

	"github.com/fyerfyer/resume-parser/api/middleware"
	"github.com/fyerfyer/resume-parser/api/model"
	"github.com/fyerfyer/resume-parser/internal/services"
	"github.com/fyerfyer/resume-parser/pkg/taskqueue"
	"github.com/gin-gonic/gin"
)

// TaskHandler 处理异步解析任务查询
type TaskHandler struct {
	svc *services.ResumeService
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(svc *services.ResumeService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// GetTask 查询任务状态和结果，wait参数可等待任务结束
// GET /api/tasks/:id?wait=5
func (h *TaskHandler) GetTask(c *gin.Context) {
	var req model.TaskRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Invalid task id", err.Error()))
		return
	}
	var query model.TaskQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Invalid wait parameter", err.Error()))
		return
	}

	task, err := h.svc.GetTask(c.Request.Context(), req.ID, time.Duration(query.Wait)*time.Second)
	if err != nil {
		middleware.HandleError(c, toAppError(err, h.svc.AllowedExtensions()))
		return
	}

	c.JSON(http.StatusOK, model.NewSuccessResponse(taskqueue.NewTaskInfo(task)))
}

// DeleteTask 删除任务记录
// DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	var req model.TaskRequest
	if err := c.ShouldBindUri(&req); err != nil {
		middleware.HandleError(c, middleware.NewValidationError("Invalid task id", err.Error()))
		return
	}

	if err := h.svc.DeleteTask(c.Request.Context(), req.ID); err != nil {
		middleware.HandleError(c, toAppError(err, h.svc.AllowedExtensions()))
		return
	}

	c.Status(http.StatusNoContent)
}
