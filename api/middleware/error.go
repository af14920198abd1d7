package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/fyerfyer/resume-parser/api/model"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// 定义应用中的错误类型常量
const (
	ErrorTypeValidation    = "VALIDATION_ERROR"    // 输入验证错误
	ErrorTypeNotFound      = "NOT_FOUND_ERROR"     // 资源不存在错误
	ErrorTypeUnprocessable = "UNPROCESSABLE_ERROR" // 文件无法解析
	ErrorTypeUpstream      = "UPSTREAM_ERROR"      // 实体识别等依赖服务错误
	ErrorTypeUnavailable   = "UNAVAILABLE_ERROR"   // 功能未启用
	ErrorTypeInternal      = "INTERNAL_ERROR"      // 内部服务器错误
)

// AppError 应用错误结构体
type AppError struct {
	Type    string // 错误类型
	Message string // 错误消息
	Details string // 详细错误信息
	Code    int    // HTTP状态码
}

// Error 实现error接口的方法
func (e AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// NewValidationError 创建输入验证错误
func NewValidationError(message string, details ...string) AppError {
	return AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Details: strings.Join(details, "; "),
		Code:    http.StatusBadRequest,
	}
}

// NewNotFoundError 创建资源不存在错误
func NewNotFoundError(message string) AppError {
	return AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
		Code:    http.StatusNotFound,
	}
}

// NewUnprocessableError 创建文件无法解析错误
func NewUnprocessableError(message string) AppError {
	return AppError{
		Type:    ErrorTypeUnprocessable,
		Message: message,
		Code:    http.StatusUnprocessableEntity,
	}
}

// NewUpstreamError 创建依赖服务错误
func NewUpstreamError(message string, details ...string) AppError {
	return AppError{
		Type:    ErrorTypeUpstream,
		Message: message,
		Details: strings.Join(details, "; "),
		Code:    http.StatusBadGateway,
	}
}

// NewUnavailableError 创建功能未启用错误
func NewUnavailableError(message string) AppError {
	return AppError{
		Type:    ErrorTypeUnavailable,
		Message: message,
		Code:    http.StatusServiceUnavailable,
	}
}

// NewInternalError 创建内部服务器错误
func NewInternalError(message string, details ...string) AppError {
	return AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Details: strings.Join(details, "; "),
		Code:    http.StatusInternalServerError,
	}
}

// ErrorMiddleware 统一错误处理中间件
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.WithFields(logrus.Fields{
					"error":      err,
					"stack":      string(debug.Stack()),
					FieldPath:    c.Request.URL.Path,
					FieldTraceID: c.GetString(TraceIDKey),
				}).Error("Panic recovered in API request")

				errResp := model.NewErrorResponse(http.StatusInternalServerError, "An unexpected error occurred")
				if gin.Mode() == gin.DebugMode {
					errResp.Message = fmt.Sprintf("Panic: %v", err)
				}
				errResp.TraceID = c.GetString(TraceIDKey)

				c.AbortWithStatusJSON(http.StatusInternalServerError, errResp)
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		traceID := c.GetString(TraceIDKey)
		fields := logrus.Fields{
			FieldTraceID: traceID,
			FieldPath:    c.Request.URL.Path,
		}

		var appErr AppError
		var appErrPtr *AppError
		switch {
		case errors.As(err, &appErr):
		case errors.As(err, &appErrPtr):
			appErr = *appErrPtr
		default:
			log.WithFields(fields).Error(err.Error())

			appErr = NewInternalError("Internal server error")
			if gin.Mode() == gin.DebugMode {
				appErr.Message = err.Error()
			}
		}

		if appErr.Type != ErrorTypeInternal {
			fields["error_type"] = appErr.Type
			if appErr.Code >= http.StatusInternalServerError {
				log.WithFields(fields).Error(appErr.Error())
			} else {
				log.WithFields(fields).Warn(appErr.Error())
			}
		}

		errResp := model.NewErrorResponse(appErr.Code, appErr.Message)
		errResp.TraceID = traceID
		c.AbortWithStatusJSON(appErr.Code, errResp)
	}
}

// HandleError 在处理器中使用的错误处理辅助函数
func HandleError(c *gin.Context, err error) {
	_ = c.Error(err)
}
