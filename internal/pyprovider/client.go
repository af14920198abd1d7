package pyprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Client 是Python服务的HTTP客户端接口
type Client interface {
	// Get 发送GET请求
	Get(ctx context.Context, path string, result interface{}) error
	// Post 发送POST请求
	Post(ctx context.Context, path string, data interface{}, result interface{}) error
	// GetConfig 获取客户端配置
	GetConfig() *PyServiceConfig
}

// HTTPClient 实现了Python服务的HTTP客户端
type HTTPClient struct {
	client  *http.Client
	config  *PyServiceConfig
	headers map[string]string
	logger  *logrus.Logger
}

// APIError 表示API调用返回的错误
type APIError struct {
	StatusCode int    `json:"status_code"`
	Message    string `json:"message"`
	Detail     string `json:"detail"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (status code: %d): %s - %s", e.StatusCode, e.Message, e.Detail)
}

// NewClient 创建一个新的Python服务HTTP客户端
func NewClient(config *PyServiceConfig) (*HTTPClient, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.BaseURL == "" {
		return nil, fmt.Errorf("python service base url is empty")
	}

	client := &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	return &HTTPClient{
		client: client,
		config: config,
		headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
			"User-Agent":   "Resume-Parser-Go-Client/1.0",
		},
		logger: logrus.StandardLogger(),
	}, nil
}

// Get 发送GET请求到Python服务
func (c *HTTPClient) Get(ctx context.Context, path string, result interface{}) error {
	return c.doRequestWithRetry(ctx, http.MethodGet, path, nil, result)
}

// Post 发送POST请求到Python服务
func (c *HTTPClient) Post(ctx context.Context, path string, data interface{}, result interface{}) error {
	var payload []byte
	if data != nil {
		jsonData, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal request data: %w", err)
		}
		payload = jsonData
	}
	return c.doRequestWithRetry(ctx, http.MethodPost, path, payload, result)
}

// newRequest 每次尝试都重新构造请求，保证请求体可重复读取
func (c *HTTPClient) newRequest(ctx context.Context, method, path string, payload []byte) (*http.Request, error) {
	url := fmt.Sprintf("%s%s", c.config.BaseURL, path)

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}
	return req, nil
}

// doRequestWithRetry 执行HTTP请求并支持重试
// 只对网络错误重试，服务端返回的错误直接返回
func (c *HTTPClient) doRequestWithRetry(ctx context.Context, method, path string, payload []byte, result interface{}) error {
	var lastErr error
	var resp *http.Response

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return fmt.Errorf("request context canceled: %w", ctx.Err())
			case <-time.After(c.config.RetryDelay * time.Duration(attempt)):
			}
		}

		req, err := c.newRequest(ctx, method, path, payload)
		if err != nil {
			return err
		}

		resp, lastErr = c.client.Do(req)
		if lastErr == nil {
			break
		}

		c.logger.WithFields(logrus.Fields{
			"attempt": attempt + 1,
			"path":    path,
			"error":   lastErr.Error(),
		}).Warn("Python service request failed")
	}

	if lastErr != nil {
		return fmt.Errorf("HTTP request failed: %w", lastErr)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    "API call failed",
		}

		var errResp struct {
			Detail string `json:"detail"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Detail != "" {
			apiErr.Detail = errResp.Detail
		} else {
			apiErr.Detail = string(body)
		}

		return apiErr
	}

	if result != nil && len(body) > 0 {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("failed to unmarshal response JSON: %w", err)
		}
	}

	return nil
}

// GetConfig 返回客户端配置
func (c *HTTPClient) GetConfig() *PyServiceConfig {
	return c.config
}

// WithHeader 添加自定义请求头
func (c *HTTPClient) WithHeader(key, value string) *HTTPClient {
	c.headers[key] = value
	return c
}

// WithLogger 设置日志记录器
func (c *HTTPClient) WithLogger(logger *logrus.Logger) *HTTPClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}
