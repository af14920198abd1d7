package ner

import (
	"context"
	"fmt"
	"sort"
	"time"
)

// 实体类型
const (
	LabelPerson = "PERSON" // 人名
	LabelGPE    = "GPE"    // 地名
	LabelOrg    = "ORG"    // 组织机构
)

// Entity 识别出的命名实体
type Entity struct {
	Text  string `json:"text"`  // 实体文本
	Label string `json:"label"` // 实体类型
}

// Recognizer 命名实体识别器接口
// 给定文本，按文档顺序返回 (实体文本, 实体类型) 序列
type Recognizer interface {
	// Recognize 识别文本中的命名实体
	Recognize(ctx context.Context, text string) ([]Entity, error)

	// Name 返回识别器名称
	Name() string
}

// Config 识别器配置
type Config struct {
	BaseURL    string        // 远程服务地址（python识别器使用）
	Timeout    time.Duration // 单次调用超时
	MaxRetries int           // 最大重试次数，默认不重试
	RetryDelay time.Duration // 重试间隔
}

// Option 识别器配置选项
type Option func(*Config)

// WithBaseURL 设置远程服务地址
func WithBaseURL(url string) Option {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithTimeout 设置调用超时
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		if timeout > 0 {
			c.Timeout = timeout
		}
	}
}

// WithMaxRetries 设置最大重试次数
func WithMaxRetries(retries int) Option {
	return func(c *Config) {
		if retries >= 0 {
			c.MaxRetries = retries
		}
	}
}

// WithRetryDelay 设置重试间隔
func WithRetryDelay(delay time.Duration) Option {
	return func(c *Config) {
		if delay > 0 {
			c.RetryDelay = delay
		}
	}
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		BaseURL:    "http://localhost:8000/api",
		Timeout:    10 * time.Second,
		MaxRetries: 0,
		RetryDelay: time.Second,
	}
}

// Factory 识别器工厂函数
type Factory func(cfg *Config) (Recognizer, error)

var factories = make(map[string]Factory)

// RegisterRecognizer 注册识别器实现
func RegisterRecognizer(name string, factory Factory) {
	factories[name] = factory
}

// Providers 返回已注册的识别器名称
func Providers() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewRecognizer 根据名称创建识别器
func NewRecognizer(name string, opts ...Option) (Recognizer, error) {
	factory, ok := factories[name]
	if !ok {
		return nil, NewRecognizerError(ErrCodeUnknownProvider, "recognizer not registered: "+name)
	}

	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return factory(cfg)
}

// RecognizerError 识别器错误
type RecognizerError struct {
	Code    int    // 错误码
	Message string // 错误消息
}

// Error 实现error接口
func (e RecognizerError) Error() string {
	return fmt.Sprintf("ner error (code=%d): %s", e.Code, e.Message)
}

// 错误码
const (
	ErrCodeUnknownProvider = 2001 // 未注册的识别器
	ErrCodeInvalidInput    = 2002 // 输入无法处理（如编码错误）
	ErrCodeServiceError    = 2003 // 远程服务错误
	ErrCodeTimeout         = 2004 // 调用超时
)

// NewRecognizerError 创建识别器错误
func NewRecognizerError(code int, message string) RecognizerError {
	return RecognizerError{Code: code, Message: message}
}
