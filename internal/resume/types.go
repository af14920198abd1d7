package resume

// NotFound 未识别出姓名时使用的占位值
const NotFound = "Not Found"

// PreambleSection 第一个标题之前内容所属的分区标签
const PreambleSection = "preamble"

const (
	// MaxExperienceEntries 工作经历最多返回条数
	MaxExperienceEntries = 10
	// MaxEducationEntries 教育经历最多返回条数
	MaxEducationEntries = 5
	// RawTextLimit 结果中保留的原文字符数
	RawTextLimit = 1000
	// TruncationMarker 原文被截断时追加的标记
	TruncationMarker = "..."
)

// ContactInfo 联系方式
type ContactInfo struct {
	Name     string   `json:"name"`               // 姓名，未找到时为 "Not Found"
	Emails   []string `json:"emails"`             // 邮箱（去重）
	Phones   []string `json:"phones"`             // 电话（去重）
	Location string   `json:"location,omitempty"` // 所在地，如 "Austin, TX"
}

// ExperienceEntry 一条工作经历
type ExperienceEntry struct {
	Position    string `json:"position"`    // 职位（日期之前的文本）
	Dates       string `json:"dates"`       // 原始日期区间
	Description string `json:"description"` // 其余描述
}

// EducationEntry 一条教育经历
type EducationEntry struct {
	Institution string `json:"institution"` // 学校
	Degree      string `json:"degree"`      // 学位，可能为空
	Year        string `json:"year"`        // 年份，可能为空
}

// SkillMap 技能分类 -> 命中的关键词
type SkillMap map[string][]string

// ParseResult 简历解析结果
type ParseResult struct {
	Contact    ContactInfo       `json:"contact"`
	Experience []ExperienceEntry `json:"experience"`
	Education  []EducationEntry  `json:"education"`
	Skills     SkillMap          `json:"skills"`
	Sections   []string          `json:"sections"`
	RawText    string            `json:"raw_text"`
}

// truncateRawText 截断原文，超过上限时追加省略标记
func truncateRawText(text string) string {
	runes := []rune(text)
	if len(runes) <= RawTextLimit {
		return text
	}
	return string(runes[:RawTextLimit]) + TruncationMarker
}
