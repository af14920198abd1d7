package handler

import (
	"context"
	"errors"
	"strings"

	"github.com/fyerfyer/resume-parser/api/middleware"
	"github.com/fyerfyer/resume-parser/internal/document"
	"github.com/fyerfyer/resume-parser/internal/resume"
	"github.com/fyerfyer/resume-parser/internal/services"
	"github.com/fyerfyer/resume-parser/pkg/taskqueue"
)

// unsupportedTypeMessage 生成不支持文件类型的提示，如 "Please upload PDF, DOCX, DOC, TXT, or RTF."
func unsupportedTypeMessage(allowed []string) string {
	names := make([]string, len(allowed))
	for i, ext := range allowed {
		names[i] = strings.ToUpper(strings.TrimPrefix(ext, "."))
	}

	var list string
	switch len(names) {
	case 0:
	case 1:
		list = names[0]
	case 2:
		list = names[0] + " or " + names[1]
	default:
		list = strings.Join(names[:len(names)-1], ", ") + ", or " + names[len(names)-1]
	}
	return "File type not supported. Please upload " + list + "."
}

// toAppError 将服务层错误转换为带HTTP状态码的应用错误
func toAppError(err error, allowed []string) error {
	var parseErr *document.ParseError

	switch {
	case errors.Is(err, services.ErrUnsupportedFile):
		return middleware.NewValidationError(unsupportedTypeMessage(allowed))
	case errors.Is(err, services.ErrAsyncDisabled), errors.Is(err, services.ErrStorageRequired):
		return middleware.NewUnavailableError("Async parsing is not enabled")
	case errors.Is(err, taskqueue.ErrTaskNotFound):
		return middleware.NewNotFoundError("Task not found")
	case errors.As(err, &parseErr):
		return middleware.NewUnprocessableError(parseErr.Error())
	case errors.Is(err, resume.ErrExtractionFailed):
		return middleware.NewUpstreamError("Entity recognition failed", err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return middleware.NewUpstreamError("Parsing timed out")
	default:
		return err
	}
}
