package resume

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// sectionHeaders 识别分区标题用的子串，按行做子串匹配（非整词）
var sectionHeaders = [...]string{
	"experience",
	"education",
	"skills",
	"certifications",
	"accomplishments",
	"summary",
	"highlights",
}

// SectionHeaders 返回分区标题子串列表的副本
func SectionHeaders() []string {
	out := make([]string, len(sectionHeaders))
	copy(out, sectionHeaders[:])
	return out
}

// SectionMap 分区标签到正文的有序映射
// 同名标签再次出现时保留原位置，但正文被清空重新累积
type SectionMap struct {
	labels []string
	bodies map[string][]string
}

func newSectionMap() *SectionMap {
	return &SectionMap{bodies: make(map[string][]string)}
}

// open 打开（或重置）一个分区
func (m *SectionMap) open(label string) {
	if _, ok := m.bodies[label]; !ok {
		m.labels = append(m.labels, label)
	}
	m.bodies[label] = []string{}
}

// add 向分区追加一行
func (m *SectionMap) add(label, line string) {
	if _, ok := m.bodies[label]; !ok {
		m.labels = append(m.labels, label)
	}
	m.bodies[label] = append(m.bodies[label], line)
}

// Labels 按首次出现顺序返回所有分区标签
func (m *SectionMap) Labels() []string {
	out := make([]string, len(m.labels))
	copy(out, m.labels)
	return out
}

// Get 返回分区正文，多行以换行符连接；不存在时返回空串
func (m *SectionMap) Get(label string) string {
	return strings.Join(m.bodies[label], "\n")
}

// Has 判断分区是否存在
func (m *SectionMap) Has(label string) bool {
	_, ok := m.bodies[label]
	return ok
}

// Len 分区数量
func (m *SectionMap) Len() int {
	return len(m.labels)
}

// ExtractSections 按常见标题把简历切分为分区
func ExtractSections(text string) *SectionMap {
	sections := newSectionMap()
	current := PreambleSection

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		lower := strings.ToLower(trimmed)

		if isSectionHeader(lower) {
			current = lower
			sections.open(current)
			continue
		}
		if trimmed != "" {
			sections.add(current, trimmed)
		}
	}

	return sections
}

// isSectionHeader 判断小写行是否包含任一标题子串
func isSectionHeader(lower string) bool {
	for _, header := range sectionHeaders {
		if strings.Contains(lower, header) {
			return true
		}
	}
	return false
}

// splitEntries 在"换行后紧跟单词字符"的位置切分条目
func splitEntries(body string) []string {
	var entries []string
	start := 0
	for i := 0; i < len(body); i++ {
		if body[i] != '\n' {
			continue
		}
		r, _ := utf8.DecodeRuneInString(body[i+1:])
		if isWordRune(r) {
			entries = append(entries, body[start:i])
			start = i + 1
		}
	}
	return append(entries, body[start:])
}

// nextEntryBoundary 从 from 开始查找下一个"换行+单词字符"的位置，找不到返回文本末尾
func nextEntryBoundary(text string, from int) int {
	for i := from; i < len(text); i++ {
		if text[i] != '\n' {
			continue
		}
		r, _ := utf8.DecodeRuneInString(text[i+1:])
		if isWordRune(r) {
			return i
		}
	}
	return len(text)
}

// isWordRune 单词字符：Unicode字母、数字或下划线
func isWordRune(r rune) bool {
	if r == utf8.RuneError {
		return false
	}
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}
