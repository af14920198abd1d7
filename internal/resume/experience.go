package resume

import (
	"strings"
	"unicode/utf8"
)

// ExperienceSection 结构化模式使用的分区标签
const ExperienceSection = "experience"

// ExtractExperience 提取工作经历，最多返回10条
func ExtractExperience(text string) []ExperienceEntry {
	return extractExperience(text, ExtractSections(text))
}

func extractExperience(text string, sections *SectionMap) []ExperienceEntry {
	var entries []ExperienceEntry
	if body := sections.Get(ExperienceSection); body != "" {
		entries = experienceFromSection(body)
	} else {
		entries = scanExperience(text)
	}

	if len(entries) > MaxExperienceEntries {
		entries = entries[:MaxExperienceEntries]
	}
	if entries == nil {
		entries = []ExperienceEntry{}
	}
	return entries
}

// experienceFromSection 结构化模式：逐条匹配，没有日期的条目直接丢弃
func experienceFromSection(body string) []ExperienceEntry {
	var entries []ExperienceEntry
	for _, entry := range splitEntries(body) {
		position, dates, ok := MatchExperienceEntry(entry)
		if !ok {
			continue
		}
		entries = append(entries, ExperienceEntry{
			Position:    position,
			Dates:       dates,
			Description: removeAll(entry, position, dates),
		})
	}
	return entries
}

// scanExperience 回退模式：在全文中查找"前缀+日期区间"，
// 匹配延伸到下一个以单词字符开头的行之前（或文本末尾）
func scanExperience(text string) []ExperienceEntry {
	var entries []ExperienceEntry
	pos := 0
	for pos < len(text) {
		// 前缀至少一个字符
		_, size := utf8.DecodeRuneInString(text[pos:])
		dateStart, dateEnd, ok := nextDateRange(text, pos+size)
		if !ok {
			break
		}
		// 日期之后至少还要有一个字符
		if dateEnd >= len(text) {
			break
		}
		end := nextEntryBoundary(text, dateEnd+1)

		headEnd := max(pos+size, trimSpaceLeft(text, dateStart))
		position := strings.TrimSpace(text[pos:headEnd])
		dates := text[dateStart:dateEnd]
		entries = append(entries, ExperienceEntry{
			Position:    position,
			Dates:       dates,
			Description: removeAll(text[pos:end], position, dates),
		})
		pos = end
	}
	return entries
}

// nextDateRange 从 from 开始找第一个两端都落在单词边界上的日期区间
func nextDateRange(text string, from int) (int, int, bool) {
	for from < len(text) {
		loc := experienceDatePattern.FindStringIndex(text[from:])
		if loc == nil {
			return 0, 0, false
		}
		start, end := from+loc[0], from+loc[1]
		if strings.HasPrefix(text[start:end], "present") ||
			(wordBoundaryBefore(text, start) && wordBoundaryAfter(text, end)) {
			return start, end, true
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		from = start + size
	}
	return 0, 0, false
}

func wordBoundaryBefore(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return !isWordRune(r)
}

func wordBoundaryAfter(text string, i int) bool {
	if i >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[i:])
	return !isWordRune(r)
}

// trimSpaceLeft 回退到 i 之前连续空白的起点
func trimSpaceLeft(text string, i int) int {
	for i > 0 && strings.IndexByte(" \t\n\f\r", text[i-1]) >= 0 {
		i--
	}
	return i
}
