package ner

import (
	"context"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

// ProseRecognizer 基于prose的本地命名实体识别器
type ProseRecognizer struct{}

// NewProseRecognizer 创建本地识别器
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

// Name 返回识别器名称
func (r *ProseRecognizer) Name() string {
	return "prose"
}

// Recognize 识别文本中的命名实体
func (r *ProseRecognizer) Recognize(ctx context.Context, text string) ([]Entity, error) {
	if !utf8.ValidString(text) {
		return nil, NewRecognizerError(ErrCodeInvalidInput, "text is not valid UTF-8")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, NewRecognizerError(ErrCodeInvalidInput, err.Error())
	}

	ents := doc.Entities()
	entities := make([]Entity, 0, len(ents))
	for _, ent := range ents {
		entities = append(entities, Entity{Text: ent.Text, Label: ent.Label})
	}
	return entities, nil
}

func init() {
	RegisterRecognizer("prose", func(cfg *Config) (Recognizer, error) {
		return NewProseRecognizer(), nil
	})
}
