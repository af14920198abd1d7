package resume

import "strings"

// EducationSection 结构化模式使用的分区标签
const EducationSection = "education"

// ExtractEducation 提取教育经历，最多返回5条
func ExtractEducation(text string) []EducationEntry {
	return extractEducation(text, ExtractSections(text))
}

func extractEducation(text string, sections *SectionMap) []EducationEntry {
	var entries []EducationEntry
	if body := sections.Get(EducationSection); body != "" {
		entries = educationFromSection(body)
	} else {
		entries = scanEducation(text)
	}

	if len(entries) > MaxEducationEntries {
		entries = entries[:MaxEducationEntries]
	}
	if entries == nil {
		entries = []EducationEntry{}
	}
	return entries
}

// educationFromSection 结构化模式：匹配失败时整条文本作为学校名
func educationFromSection(body string) []EducationEntry {
	var entries []EducationEntry
	for _, entry := range splitEntries(body) {
		if matched, ok := MatchEducationEntry(entry); ok {
			entries = append(entries, matched)
			continue
		}
		entries = append(entries, EducationEntry{Institution: strings.TrimSpace(entry)})
	}
	return entries
}

// scanEducation 回退模式：全文查找 "学校, 年份 - 年份|present"
func scanEducation(text string) []EducationEntry {
	var entries []EducationEntry
	for _, m := range educationScanPattern.FindAllStringSubmatch(text, -1) {
		entries = append(entries, EducationEntry{
			Institution: strings.TrimSpace(m[1]),
			Year:        strings.TrimSpace(m[3]),
		})
	}
	return entries
}
