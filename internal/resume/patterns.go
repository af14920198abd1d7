package resume

import (
	"regexp"
	"strings"
)

const (
	monthPrefix = `(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)`
	// looseDate 月份+年份或单独的四位年份，左右边界由调用方按Unicode单词字符检查
	looseDate = `(?:` + monthPrefix + `[a-z]* \d{4}|\d{4})`
	// dateSeparator 紧跟单词 to 的两侧必须有空白
	dateSeparator = `(?:\s*[–-]\s*|\s+to\s+)`
)

var (
	// emailCandidatePattern 邮箱候选，最终由validator校验
	emailCandidatePattern = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	// phonePattern 可选国家码、可选括号区号，分隔符为 . - 或空白
	phonePattern = regexp.MustCompile(`(\+?\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)

	// namePattern 恰好两个首字母大写的单词
	namePattern = regexp.MustCompile(`^[A-Z][a-z]+ [A-Z][a-z]+$`)

	// locationPattern 城市, 州缩写
	locationPattern = regexp.MustCompile(`[A-Z][a-zA-Z]+\s*,\s*[A-Z]{2}`)

	// experienceEntryPattern 经历分区内单条记录：职位 + 日期区间
	experienceEntryPattern = regexp.MustCompile(
		`(.+?)\s*(` + monthPrefix + `[a-z]* \d{4}\s+to\s+` + monthPrefix + `[a-z]* \d{4}|\d{4}\s+to\s+\d{4}|present)`)

	// experienceDatePattern 全文回退扫描的日期区间或 present
	experienceDatePattern = regexp.MustCompile(looseDate + dateSeparator + looseDate + `|present`)

	// educationEntryPattern 学校, 学位, 年份
	educationEntryPattern = regexp.MustCompile(`(.+?)\s*,\s*(.+?)\s*,\s*(\d{4})`)

	// educationScanPattern 全文回退扫描：学校, 起始年 - 结束年|present
	educationScanPattern = regexp.MustCompile(`(.+?)\s*,\s*(\d{4})\s*(?:-|to)\s*(\d{4}|present)`)
)

// MatchEmails 返回文本中的邮箱候选
func MatchEmails(text string) []string {
	return emailCandidatePattern.FindAllString(text, -1)
}

// MatchPhones 返回文本中全部电话号码（去除首尾空白）
func MatchPhones(text string) []string {
	matches := phonePattern.FindAllString(text, -1)
	for i, m := range matches {
		matches[i] = strings.TrimSpace(m)
	}
	return matches
}

// MatchName 判断一行是否形如 "John Smith"
func MatchName(line string) bool {
	return namePattern.MatchString(strings.TrimSpace(line))
}

// MatchLocation 返回第一个 "City, ST" 形式的子串
func MatchLocation(text string) (string, bool) {
	loc := locationPattern.FindString(text)
	return loc, loc != ""
}

// MatchExperienceEntry 在单条经历中查找职位和日期
func MatchExperienceEntry(entry string) (position, dates string, ok bool) {
	m := experienceEntryPattern.FindStringSubmatch(entry)
	if m == nil {
		return "", "", false
	}
	return strings.TrimSpace(m[1]), strings.TrimSpace(m[2]), true
}

// MatchEducationEntry 在单条教育经历中查找学校、学位、年份
func MatchEducationEntry(entry string) (EducationEntry, bool) {
	m := educationEntryPattern.FindStringSubmatch(entry)
	if m == nil {
		return EducationEntry{}, false
	}
	return EducationEntry{
		Institution: strings.TrimSpace(m[1]),
		Degree:      strings.TrimSpace(m[2]),
		Year:        strings.TrimSpace(m[3]),
	}, true
}

// removeAll 依次删除文本中出现的各个子串
// 纯子串删除，不考虑位置，可能误删其他位置上的相同文本
func removeAll(text string, parts ...string) string {
	for _, p := range parts {
		if p == "" {
			continue
		}
		text = strings.ReplaceAll(text, p, "")
	}
	return strings.TrimSpace(text)
}
