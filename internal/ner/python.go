package ner

import (
	"context"
	"errors"

	"github.com/fyerfyer/resume-parser/internal/pyprovider"
)

// PythonRecognizer 通过Python服务（spaCy）识别实体
type PythonRecognizer struct {
	client *pyprovider.NERClient
}

// NewPythonRecognizer 创建远程识别器
func NewPythonRecognizer(client *pyprovider.NERClient) *PythonRecognizer {
	return &PythonRecognizer{client: client}
}

// Name 返回识别器名称
func (r *PythonRecognizer) Name() string {
	return "python"
}

// Recognize 识别文本中的命名实体
func (r *PythonRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	ents, err := r.client.Recognize(ctx, text)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, NewRecognizerError(ErrCodeTimeout, err.Error())
		}
		var apiErr *pyprovider.APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == 422 {
			return nil, NewRecognizerError(ErrCodeInvalidInput, apiErr.Detail)
		}
		return nil, NewRecognizerError(ErrCodeServiceError, err.Error())
	}

	entities := make([]Entity, 0, len(ents))
	for _, ent := range ents {
		entities = append(entities, Entity{Text: ent.Text, Label: ent.Label})
	}
	return entities, nil
}

func init() {
	RegisterRecognizer("python", func(cfg *Config) (Recognizer, error) {
		pyCfg := pyprovider.DefaultConfig().
			WithBaseURL(cfg.BaseURL).
			WithTimeout(cfg.Timeout).
			WithRetry(cfg.MaxRetries, cfg.RetryDelay)

		httpClient, err := pyprovider.NewClient(pyCfg)
		if err != nil {
			return nil, NewRecognizerError(ErrCodeServiceError, err.Error())
		}
		return NewPythonRecognizer(pyprovider.NewNERClient(httpClient)), nil
	})
}
