package resume

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
)

// Category 技能分类及其有序关键词
type Category struct {
	Name     string   `toml:"name" json:"name"`
	Keywords []string `toml:"keywords" json:"keywords"`
}

// builtinCategories 内置技能分类
var builtinCategories = []Category{
	{
		Name: "accounting",
		Keywords: []string{"general ledger", "accounts payable", "financial reporting", "GAAP",
			"reconciliation", "budgeting", "ERP", "DEAMS", "GAFS"},
	},
	{
		Name: "finance",
		Keywords: []string{"financial analysis", "cost accounting", "auditing", "tax accounting",
			"financial planning", "forecasting", "FMFIA"},
	},
	{
		Name:     "tools",
		Keywords: []string{"Excel", "SAP", "Oracle", "QuickBooks", "DTS", "Louis II"},
	},
	{
		Name: "management",
		Keywords: []string{"team leadership", "process improvement", "strategic planning",
			"performance metrics", "compliance"},
	},
}

var defaultTaxonomy = mustTaxonomy(builtinCategories)

// Taxonomy 技能分类表，构建后只读，可并发使用
type Taxonomy struct {
	categories []compiledCategory
}

type compiledCategory struct {
	name     string
	keywords []compiledKeyword
}

type compiledKeyword struct {
	text    string
	pattern *regexp.Regexp
}

// NewTaxonomy 根据分类定义构建技能分类表
func NewTaxonomy(categories []Category) (*Taxonomy, error) {
	if len(categories) == 0 {
		return nil, errors.New("taxonomy has no categories")
	}

	seen := make(map[string]struct{}, len(categories))
	t := &Taxonomy{categories: make([]compiledCategory, 0, len(categories))}
	for _, c := range categories {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			return nil, errors.New("taxonomy category name is empty")
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("duplicate taxonomy category: %s", name)
		}
		seen[name] = struct{}{}

		cc := compiledCategory{name: name, keywords: make([]compiledKeyword, 0, len(c.Keywords))}
		for _, kw := range c.Keywords {
			if strings.TrimSpace(kw) == "" {
				continue
			}
			pattern, err := keywordPattern(kw)
			if err != nil {
				return nil, fmt.Errorf("invalid keyword %q in category %s: %w", kw, name, err)
			}
			cc.keywords = append(cc.keywords, compiledKeyword{text: kw, pattern: pattern})
		}
		t.categories = append(t.categories, cc)
	}
	return t, nil
}

// wordClass 与 isWordRune 一致的单词字符类
const wordClass = `\p{L}\p{N}_`

// keywordPattern 构造大小写无关的整词匹配
// RE2 的 \b 只识别ASCII单词字符，这里按Unicode单词字符判断边界
func keywordPattern(kw string) (*regexp.Regexp, error) {
	first, _ := utf8.DecodeRuneInString(kw)
	last, _ := utf8.DecodeLastRuneInString(kw)
	return regexp.Compile(`(?i)` + boundary(first, "^") + regexp.QuoteMeta(kw) + boundary(last, "$"))
}

// boundary 关键词边缘是单词字符时，相邻位置必须是文本端点或非单词字符；
// 边缘不是单词字符时，相邻位置必须是单词字符
func boundary(edge rune, anchor string) string {
	if isWordRune(edge) {
		if anchor == "^" {
			return `(?:^|[^` + wordClass + `])`
		}
		return `(?:$|[^` + wordClass + `])`
	}
	return `[` + wordClass + `]`
}

func mustTaxonomy(categories []Category) *Taxonomy {
	t, err := NewTaxonomy(categories)
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultTaxonomy 返回内置技能分类表
func DefaultTaxonomy() *Taxonomy {
	return defaultTaxonomy
}

// LoadTaxonomy 从TOML文件加载技能分类表
//
//	[[category]]
//	name = "tools"
//	keywords = ["Excel", "SAP"]
func LoadTaxonomy(path string) (*Taxonomy, error) {
	var file struct {
		Category []Category `toml:"category"`
	}
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("failed to read taxonomy file: %w", err)
	}
	return NewTaxonomy(file.Category)
}

// CategoryNames 按定义顺序返回分类名
func (t *Taxonomy) CategoryNames() []string {
	names := make([]string, len(t.categories))
	for i, c := range t.categories {
		names[i] = c.name
	}
	return names
}

// Categories 返回分类定义的副本
func (t *Taxonomy) Categories() []Category {
	out := make([]Category, len(t.categories))
	for i, c := range t.categories {
		keywords := make([]string, len(c.keywords))
		for j, kw := range c.keywords {
			keywords[j] = kw.text
		}
		out[i] = Category{Name: c.name, Keywords: keywords}
	}
	return out
}

// Match 在文本中按分类查找关键词，每个分类都会出现在结果中
func (t *Taxonomy) Match(text string) SkillMap {
	found := make(SkillMap, len(t.categories))
	for _, c := range t.categories {
		hits := []string{}
		for _, kw := range c.keywords {
			if kw.pattern.MatchString(text) {
				hits = append(hits, kw.text)
			}
		}
		found[c.name] = hits
	}
	return found
}
