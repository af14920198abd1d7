package resume

import (
	"context"
	"fmt"
	"strings"

	"github.com/fyerfyer/resume-parser/internal/ner"
	"github.com/go-playground/validator/v10"
)

// nameScanLines 回退姓名识别时扫描的行数
const nameScanLines = 10

var validate = validator.New()

// ExtractContact 提取联系方式
// 只有实体识别器本身出错时才返回错误
func (p *Parser) ExtractContact(ctx context.Context, text string) (ContactInfo, error) {
	entities, err := p.recognize(ctx, text)
	if err != nil {
		return ContactInfo{}, err
	}
	return buildContact(text, entities), nil
}

// recognize 调用实体识别器，空文本或未配置识别器时直接返回
func (p *Parser) recognize(ctx context.Context, text string) ([]ner.Entity, error) {
	if p.recognizer == nil || strings.TrimSpace(text) == "" {
		return nil, nil
	}
	entities, err := p.recognizer.Recognize(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %s recognizer: %v", ErrExtractionFailed, p.recognizer.Name(), err)
	}
	return entities, nil
}

func buildContact(text string, entities []ner.Entity) ContactInfo {
	contact := ContactInfo{
		Name:   extractName(text, entities),
		Emails: extractEmails(text),
		Phones: dedupe(MatchPhones(text)),
	}
	if loc, ok := MatchLocation(text); ok {
		contact.Location = loc
	}
	return contact
}

// extractEmails 收集语法合法的邮箱并去重
func extractEmails(text string) []string {
	var emails []string
	for _, candidate := range MatchEmails(text) {
		if validate.Var(candidate, "required,email") != nil {
			continue
		}
		emails = append(emails, candidate)
	}
	return dedupe(emails)
}

// extractName 优先取第一个至少两个词的PERSON实体，其次扫描前10行
func extractName(text string, entities []ner.Entity) string {
	for _, ent := range entities {
		if ent.Label == ner.LabelPerson && len(strings.Fields(ent.Text)) >= 2 {
			return strings.TrimSpace(ent.Text)
		}
	}

	lines := strings.Split(text, "\n")
	if len(lines) > nameScanLines {
		lines = lines[:nameScanLines]
	}
	for _, line := range lines {
		if MatchName(line) {
			return strings.TrimSpace(line)
		}
	}

	return NotFound
}

// dedupe 保留首次出现顺序去重，结果非nil
func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
