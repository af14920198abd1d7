package report

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/fyerfyer/resume-parser/internal/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *resume.ParseResult {
	return &resume.ParseResult{
		Contact: resume.ContactInfo{
			Name:     "John Smith",
			Emails:   []string{"john.smith@email.com"},
			Phones:   []string{"(555) 123-4567"},
			Location: "Austin, TX",
		},
		Experience: []resume.ExperienceEntry{
			{Position: "Senior Accountant", Dates: "Jan 2019 to Mar 2021", Description: "Managed *all* ledgers"},
		},
		Education: []resume.EducationEntry{
			{Institution: "State University", Degree: "Bachelor of Science", Year: "2015"},
		},
		Skills: resume.SkillMap{
			"tools":      {"Excel"},
			"accounting": {"GAAP", "Audit"},
			"languages":  {},
		},
		Sections: []string{"preamble", "experience", "education", "skills"},
		RawText:  "John Smith\n<script>alert(1)</script>",
	}
}

func parseHTML(t *testing.T, data []byte) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	require.NoError(t, err)
	return doc
}

func TestMarkdown(t *testing.T) {
	md := Markdown(sampleResult())

	assert.True(t, strings.HasPrefix(md, "# John Smith\n"))
	assert.Contains(t, md, "**Email:** john.smith@email.com")
	assert.Contains(t, md, "**Location:** Austin, TX")
	assert.Contains(t, md, `Managed \*all\* ledgers`)
	assert.Contains(t, md, "| accounting | GAAP, Audit |")
	assert.NotContains(t, md, "| languages |")
	assert.Less(t, strings.Index(md, "| accounting"), strings.Index(md, "| tools"))
}

func TestMarkdownEmptyResult(t *testing.T) {
	result, err := resume.NewParser().Parse(context.Background(), "")
	require.NoError(t, err)

	md := Markdown(result)
	assert.Contains(t, md, "# Not Found")
	assert.Contains(t, md, "**Email:** _None found_")
	assert.Contains(t, md, "## Experience\n\n_None found_")
	assert.NotContains(t, md, "**Location:**")
}

func TestCodeFence(t *testing.T) {
	assert.Equal(t, "```", codeFence("plain"))
	assert.Equal(t, "````", codeFence("a ``` b"))
}

func TestHTML(t *testing.T) {
	doc := parseHTML(t, HTML(sampleResult()))

	assert.Equal(t, "John Smith", doc.Find("h1").First().Text())
	assert.Equal(t, "Senior Accountant", doc.Find("h3").First().Text())
	assert.Contains(t, doc.Text(), "Managed *all* ledgers")

	assert.Equal(t, 3, doc.Find("table tr").Length())
	assert.Equal(t, "accounting", doc.Find("table td").First().Text())

	// 原文中的HTML只能以文本形式出现
	assert.Equal(t, 0, doc.Find("script").Length())
	assert.Contains(t, doc.Find("pre code").Text(), "<script>alert(1)</script>")
}

func TestPage(t *testing.T) {
	page, err := Page("Resume Parser", HTML(sampleResult()), "", []string{"pdf", "docx"})
	require.NoError(t, err)

	doc := parseHTML(t, page)
	assert.Equal(t, "Resume Parser", doc.Find("title").Text())
	assert.Equal(t, 0, doc.Find(".flash").Length())
	assert.Equal(t, "John Smith", doc.Find(".result h1").Text())

	accept, _ := doc.Find("input[type=file]").Attr("accept")
	assert.Equal(t, ".pdf,.docx", accept)
	name, _ := doc.Find("input[type=file]").Attr("name")
	assert.Equal(t, "resume", name)

	page, err = Page("Resume Parser", nil, "No file selected <b>", nil)
	require.NoError(t, err)
	doc = parseHTML(t, page)
	assert.Equal(t, "No file selected <b>", doc.Find(".flash").Text())
	assert.Equal(t, 0, doc.Find(".result").Length())
}
