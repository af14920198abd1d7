// Package report 将解析结果渲染为Markdown和HTML页面
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"sort"
	"strings"

	"github.com/fyerfyer/resume-parser/internal/resume"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const noneFound = "_None found_"

var mdEscaper = strings.NewReplacer(
	`\`, `\\`, "*", `\*`, "_", `\_`, "`", "\\`", "[", `\[`, "]", `\]`,
	"#", `\#`, "|", `\|`, "<", "&lt;", ">", "&gt;",
)

// escape 转义行内Markdown特殊字符，并把换行压成空格
func escape(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return mdEscaper.Replace(s)
}

// Markdown 生成解析结果的Markdown摘要
func Markdown(result *resume.ParseResult) string {
	var b strings.Builder

	c := result.Contact
	fmt.Fprintf(&b, "# %s\n\n", escape(c.Name))
	writeField(&b, "Email", c.Emails)
	writeField(&b, "Phone", c.Phones)
	if c.Location != "" {
		writeField(&b, "Location", []string{c.Location})
	}

	b.WriteString("## Experience\n\n")
	if len(result.Experience) == 0 {
		b.WriteString(noneFound + "\n\n")
	}
	for _, e := range result.Experience {
		fmt.Fprintf(&b, "### %s\n\n", escape(orDash(e.Position)))
		fmt.Fprintf(&b, "*%s*\n\n", escape(e.Dates))
		if d := escape(e.Description); d != "" {
			b.WriteString(d + "\n\n")
		}
	}

	b.WriteString("## Education\n\n")
	if len(result.Education) == 0 {
		b.WriteString(noneFound + "\n\n")
	} else {
		for _, e := range result.Education {
			line := "- **" + escape(e.Institution) + "**"
			if e.Degree != "" {
				line += ", " + escape(e.Degree)
			}
			if e.Year != "" {
				line += " (" + escape(e.Year) + ")"
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("## Skills\n\n")
	writeSkills(&b, result.Skills)

	b.WriteString("## Sections\n\n")
	if len(result.Sections) == 0 {
		b.WriteString(noneFound + "\n\n")
	} else {
		b.WriteString(escape(strings.Join(result.Sections, ", ")) + "\n\n")
	}

	b.WriteString("## Raw Text\n\n")
	fence := codeFence(result.RawText)
	fmt.Fprintf(&b, "%stext\n%s\n%s\n", fence, result.RawText, fence)

	return b.String()
}

func writeField(b *strings.Builder, label string, values []string) {
	value := noneFound
	if len(values) > 0 {
		escaped := make([]string, len(values))
		for i, v := range values {
			escaped[i] = escape(v)
		}
		value = strings.Join(escaped, ", ")
	}
	fmt.Fprintf(b, "**%s:** %s\n\n", label, value)
}

// writeSkills 以表格输出命中的技能，分类按名称排序
func writeSkills(b *strings.Builder, skills resume.SkillMap) {
	categories := make([]string, 0, len(skills))
	for name, hits := range skills {
		if len(hits) > 0 {
			categories = append(categories, name)
		}
	}
	if len(categories) == 0 {
		b.WriteString(noneFound + "\n\n")
		return
	}
	sort.Strings(categories)

	b.WriteString("| Category | Skills |\n| --- | --- |\n")
	for _, name := range categories {
		fmt.Fprintf(b, "| %s | %s |\n", escape(name), escape(strings.Join(skills[name], ", ")))
	}
	b.WriteString("\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// codeFence 返回比文本中最长反引号序列更长的围栏
func codeFence(text string) string {
	longest, run := 0, 0
	for _, r := range text {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

// HTML 将解析结果渲染为HTML片段，原始HTML会被丢弃
func HTML(result *resume.ParseResult) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	doc := p.Parse([]byte(Markdown(result)))

	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.SkipHTML})
	return markdown.Render(doc, renderer)
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 52rem; margin: 2rem auto; padding: 0 1rem; }
.flash { padding: .75rem 1rem; margin-bottom: 1rem; background: #fdecea; border: 1px solid #f5c2c0; }
table { border-collapse: collapse; }
td, th { border: 1px solid #ccc; padding: .25rem .5rem; }
pre { background: #f6f8fa; padding: 1rem; white-space: pre-wrap; }
</style>
</head>
<body>
<h1 class="page-title">{{.Title}}</h1>
{{if .Message}}<div class="flash">{{.Message}}</div>{{end}}
<form method="post" action="/" enctype="multipart/form-data">
<input type="file" name="resume" accept="{{.Accept}}">
<button type="submit">Parse</button>
</form>
{{if .Body}}<section class="result">{{.Body}}</section>{{end}}
</body>
</html>
`))

// Page 生成完整的HTML页面，body为空时只显示上传表单
func Page(title string, body []byte, message string, accept []string) ([]byte, error) {
	exts := make([]string, len(accept))
	for i, ext := range accept {
		exts[i] = "." + strings.TrimPrefix(ext, ".")
	}

	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title   string
		Message string
		Accept  string
		Body    template.HTML
	}{
		Title:   title,
		Message: message,
		Accept:  strings.Join(exts, ","),
		Body:    template.HTML(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}
	return buf.Bytes(), nil
}
