package document

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

// DocxParser Word 2007+ 文档解析器
type DocxParser struct{}

// NewDocxParser 创建DOCX解析器
func NewDocxParser() Parser {
	return &DocxParser{}
}

// Parse 解析DOCX文件
func (p *DocxParser) Parse(filePath string) (string, error) {
	return parseFile(p, filePath)
}

// ParseReader 读取document.xml并按段落输出文本
func (p *DocxParser) ParseReader(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read docx content: %w", err)
	}

	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return documentXMLText(doc.Editable().GetContent()), nil
}

var (
	paragraphEnd = regexp.MustCompile(`</w:p>`)
	lineBreak    = regexp.MustCompile(`<w:(?:br|cr)\b[^>]*/>`)
	tabElement   = regexp.MustCompile(`<w:tab\b[^>]*/>`)
	xmlTag       = regexp.MustCompile(`<[^>]+>`)
)

// documentXMLText 段落之间以换行分隔，去掉其余标签
func documentXMLText(content string) string {
	content = paragraphEnd.ReplaceAllString(content, "\n")
	content = lineBreak.ReplaceAllString(content, "\n")
	content = tabElement.ReplaceAllString(content, "\t")
	content = xmlTag.ReplaceAllString(content, "")
	return strings.TrimRight(html.UnescapeString(content), "\n")
}
