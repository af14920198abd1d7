package resume

import "strings"

const (
	// SkillsSection 技能分区标签
	SkillsSection = "skills"
	// HighlightsSection 亮点分区标签
	HighlightsSection = "highlights"
)

// ExtractSkills 按技能分类表匹配技能
func (p *Parser) ExtractSkills(text string) SkillMap {
	return p.extractSkills(text, ExtractSections(text))
}

// extractSkills 优先在 skills/highlights 分区中查找，两者都为空时查找全文
func (p *Parser) extractSkills(text string, sections *SectionMap) SkillMap {
	scope := sections.Get(SkillsSection) + sections.Get(HighlightsSection)
	if strings.TrimSpace(scope) == "" {
		scope = text
	}
	return p.taxonomy.Match(scope)
}
