package model

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`               // 响应状态码，0表示成功
	Message string      `json:"message"`            // 响应消息
	Data    interface{} `json:"data,omitempty"`     // 响应数据，可能为空
	TraceID string      `json:"trace_id,omitempty"` // 调用链追踪ID
}

// NewSuccessResponse 创建成功响应
func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Code:    0,
		Message: "success",
		Data:    data,
	}
}

// NewErrorResponse 创建错误响应
func NewErrorResponse(code int, message string) *Response {
	return &Response{
		Code:    code,
		Message: message,
	}
}

// TaskSubmitResponse 异步解析提交响应
type TaskSubmitResponse struct {
	TaskID string `json:"task_id"` // 任务ID
	Status string `json:"status"`  // 任务状态
}

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status     string   `json:"status"`
	Async      bool     `json:"async"`      // 是否启用异步解析
	Extensions []string `json:"extensions"` // 允许上传的扩展名
}
