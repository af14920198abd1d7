package pyprovider

import (
	"context"
	"errors"
)

// nerPath 实体识别接口路径
const nerPath = "/python/ner"

// NERRequest 实体识别请求
type NERRequest struct {
	Text string `json:"text"`
}

// NEREntity 服务返回的单个实体
type NEREntity struct {
	Text  string `json:"text"`
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

// NERResponse 实体识别响应
type NERResponse struct {
	Success  bool        `json:"success"`
	Model    string      `json:"model"`
	Entities []NEREntity `json:"entities"`
}

// NERClient 是Python实体识别服务（spaCy）的客户端
type NERClient struct {
	client Client
}

// NewNERClient 创建实体识别客户端
func NewNERClient(client Client) *NERClient {
	return &NERClient{client: client}
}

// Recognize 调用Python服务识别文本中的实体，实体按文档顺序返回
func (c *NERClient) Recognize(ctx context.Context, text string) ([]NEREntity, error) {
	if c.client == nil {
		return nil, errors.New("python client uninitialized")
	}

	var resp NERResponse
	if err := c.client.Post(ctx, nerPath, &NERRequest{Text: text}, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, &APIError{StatusCode: 200, Message: "ner request unsuccessful", Detail: resp.Model}
	}
	return resp.Entities, nil
}
