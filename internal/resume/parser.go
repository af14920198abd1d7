package resume

import (
	"context"
	"errors"

	"github.com/fyerfyer/resume-parser/internal/ner"
)

// ErrExtractionFailed 实体识别失败时返回的错误，调用方应视为可恢复的请求级错误
var ErrExtractionFailed = errors.New("extraction failed")

// Parser 简历解析器
// 只持有不可变状态，可被多个goroutine同时使用
type Parser struct {
	recognizer ner.Recognizer // 命名实体识别器，可为nil
	taxonomy   *Taxonomy      // 技能分类表
}

// Option 解析器配置选项
type Option func(*Parser)

// WithRecognizer 设置命名实体识别器
func WithRecognizer(r ner.Recognizer) Option {
	return func(p *Parser) {
		p.recognizer = r
	}
}

// WithTaxonomy 设置技能分类表
func WithTaxonomy(t *Taxonomy) Option {
	return func(p *Parser) {
		if t != nil {
			p.taxonomy = t
		}
	}
}

// NewParser 创建简历解析器
func NewParser(opts ...Option) *Parser {
	p := &Parser{taxonomy: DefaultTaxonomy()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Taxonomy 返回解析器使用的技能分类表
func (p *Parser) Taxonomy() *Taxonomy {
	return p.taxonomy
}

// Parse 解析简历文本
// 空文本返回各字段为空的结果；仅当实体识别器出错时返回 ErrExtractionFailed
func (p *Parser) Parse(ctx context.Context, text string) (*ParseResult, error) {
	sections := ExtractSections(text)

	contact, err := p.ExtractContact(ctx, text)
	if err != nil {
		return nil, err
	}

	return &ParseResult{
		Contact:    contact,
		Experience: extractExperience(text, sections),
		Education:  extractEducation(text, sections),
		Skills:     p.extractSkills(text, sections),
		Sections:   sections.Labels(),
		RawText:    truncateRawText(text),
	}, nil
}
