package handler

import (
	"errors"
	"net/http"

	"github.com/fyerfyer/resume-parser/api/middleware"
	"github.com/fyerfyer/resume-parser/internal/report"
	"github.com/fyerfyer/resume-parser/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const pageTitle = "Resume Parser"

// WebHandler 提供上传表单和结果页面
type WebHandler struct {
	svc           *services.ResumeService
	maxUploadSize int64
	logger        *logrus.Logger
}

// NewWebHandler 创建网页处理器
func NewWebHandler(svc *services.ResumeService, maxUploadSize int64) *WebHandler {
	if maxUploadSize <= 0 {
		maxUploadSize = DefaultMaxUploadSize
	}
	return &WebHandler{
		svc:           svc,
		maxUploadSize: maxUploadSize,
		logger:        middleware.GetLogger(),
	}
}

// Index 显示上传表单
// GET /
func (h *WebHandler) Index(c *gin.Context) {
	h.render(c, nil, "")
}

// Upload 处理表单上传，成功时显示解析结果，失败时在表单上方提示
// POST /
func (h *WebHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("resume")
	if err != nil || header.Filename == "" {
		h.render(c, nil, "No file selected")
		return
	}
	if header.Size > h.maxUploadSize {
		h.render(c, nil, "Error: file too large")
		return
	}

	file, err := header.Open()
	if err != nil {
		h.render(c, nil, "Error: "+err.Error())
		return
	}
	defer file.Close()

	result, err := h.svc.ParseUpload(c.Request.Context(), file, header.Filename)
	if errors.Is(err, services.ErrUnsupportedFile) {
		h.render(c, nil, unsupportedTypeMessage(h.svc.AllowedExtensions()))
		return
	}
	if err != nil {
		h.logger.WithError(err).WithFields(logrus.Fields{
			middleware.FieldTraceID: c.GetString(middleware.TraceIDKey),
			"filename":              header.Filename,
		}).Warn("Form upload failed")
		h.render(c, nil, "Error: "+err.Error())
		return
	}

	h.render(c, report.HTML(result), "")
}

func (h *WebHandler) render(c *gin.Context, body []byte, message string) {
	page, err := report.Page(pageTitle, body, message, h.svc.AllowedExtensions())
	if err != nil {
		middleware.HandleError(c, err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
