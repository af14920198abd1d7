package middleware

import (
	"bytes"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var log = logrus.New()

// 初始化日志配置
func init() {
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})

	if os.Getenv("DEBUG") == "true" {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.InfoLevel)
	}
}

// LogOptions 日志输出配置
type LogOptions struct {
	Level      string // debug/info/warn/error
	File       string // 日志文件路径，为空时只输出到标准输出
	MaxSize    int    // 单个文件最大MB
	MaxBackups int    // 保留的旧文件数
	MaxAge     int    // 保留天数
	Compress   bool   // 是否压缩旧文件
}

// ConfigureLogger 按配置设置全局日志级别和输出
// 设置了文件时同时写入标准输出和滚动日志文件
func ConfigureLogger(opts LogOptions) *logrus.Logger {
	if opts.Level != "" {
		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			log.WithField("level", opts.Level).Warn("Unknown log level, keeping current level")
		} else {
			log.SetLevel(level)
		}
	}

	if opts.File != "" {
		log.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSize,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAge,
			Compress:   opts.Compress,
		}))
	} else {
		log.SetOutput(os.Stdout)
	}
	return log
}

// Logger 日志中间件
// 记录请求信息和响应时间
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.WithFields(logrus.Fields{
			FieldTraceID:  c.GetString(TraceIDKey),
			FieldStatus:   c.Writer.Status(),
			FieldLatency:  time.Since(start).String(),
			FieldClientIP: c.ClientIP(),
			FieldMethod:   c.Request.Method,
			FieldPath:     path,
			"user_agent":  c.Request.UserAgent(),
		}).Info("HTTP request")
	}
}

// RequestBodyLog 请求体日志中间件
// 在DEBUG模式下记录JSON请求体，文件上传不记录
func RequestBodyLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		if log.Level >= logrus.DebugLevel && strings.HasPrefix(c.ContentType(), "application/json") {
			var buf bytes.Buffer
			body, _ := io.ReadAll(io.TeeReader(c.Request.Body, &buf))
			c.Request.Body = io.NopCloser(&buf)

			if len(body) > 0 {
				log.WithFields(logrus.Fields{
					FieldTraceID: c.GetString(TraceIDKey),
					FieldMethod:  c.Request.Method,
					FieldPath:    c.Request.URL.Path,
					"body":       string(body),
				}).Debug("Request body")
			}
		}

		c.Next()
	}
}

// ResponseLogger 响应日志中间件
// 记录JSON响应体，仅用于开发调试
func ResponseLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		if log.Level < logrus.DebugLevel {
			c.Next()
			return
		}

		writer := &responseBodyWriter{
			ResponseWriter: c.Writer,
			body:           bytes.NewBufferString(""),
		}
		c.Writer = writer

		c.Next()

		if strings.HasPrefix(writer.Header().Get("Content-Type"), "application/json") {
			log.WithFields(logrus.Fields{
				FieldTraceID: c.GetString(TraceIDKey),
				FieldMethod:  c.Request.Method,
				FieldPath:    c.Request.URL.Path,
				FieldStatus:  c.Writer.Status(),
				"response":   writer.body.String(),
			}).Debug("Response body")
		}
	}
}

// responseBodyWriter 捕获响应体的写入器
type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

// Write 将响应体同时写入buffer
func (r *responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// SetTraceID 将追踪ID设置到上下文和响应头中
func SetTraceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.New().String()
		}

		c.Set(TraceIDKey, traceID)
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}

const (
	// TraceIDHeader 追踪ID请求/响应头
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey 追踪ID在gin上下文中的键
	TraceIDKey = "TraceID"
)

// 常用日志字段
const (
	FieldTraceID  = "trace_id"    // 追踪ID
	FieldPath     = "path"        // 请求路径
	FieldMethod   = "method"      // 请求方法
	FieldStatus   = "status_code" // 状态码
	FieldLatency  = "latency"     // 延迟时间
	FieldClientIP = "client_ip"   // 客户端IP
)

// GetLogger 返回全局日志记录器
func GetLogger() *logrus.Logger {
	return log
}
