package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFParser PDF文档解析器
// 优先使用ledongthuc/pdf按页提取文本，失败或无文本时退回pdfcpu内容流提取
type PDFParser struct{}

// NewPDFParser 创建一个新的PDF解析器
func NewPDFParser() Parser {
	return &PDFParser{}
}

// Parse 解析PDF文件并提取其文本内容
func (p *PDFParser) Parse(filePath string) (string, error) {
	return parseFile(p, filePath)
}

// ParseReader 从Reader解析PDF内容
func (p *PDFParser) ParseReader(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read pdf content: %w", err)
	}

	text, primaryErr := extractPageText(data)
	if primaryErr == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}

	text, err = extractContentStreams(data)
	if err != nil {
		if primaryErr != nil {
			return "", fmt.Errorf("failed to extract text from PDF: %v; fallback: %w", primaryErr, err)
		}
		return "", fmt.Errorf("failed to extract text from PDF: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

// extractPageText 逐页提取文本，每页后追加换行
func extractPageText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return "", fmt.Errorf("failed to read page %d: %w", i, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// extractContentStreams 使用pdfcpu导出页面内容流，再从文本绘制操作符中取出字符串
func extractContentStreams(data []byte) (string, error) {
	tmpDir, err := os.MkdirTemp("", "pdfcpu_extract_")
	if err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	conf := model.NewDefaultConfiguration()
	if err := api.ExtractContent(bytes.NewReader(data), tmpDir, "resume", nil, conf); err != nil {
		return "", err
	}

	entries, err := os.ReadDir(tmpDir)
	if err != nil {
		return "", fmt.Errorf("failed to read extracted content dir: %w", err)
	}
	// 按文件名排序（页码顺序）
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var sb strings.Builder
	for _, e := range entries {
		if !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(tmpDir, e.Name()))
		if err != nil {
			continue
		}
		sb.WriteString(textFromContentStream(string(content)))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

var (
	// 文本对象中的换行类操作符
	lineBreakOps = regexp.MustCompile(`(?:T\*|Td|TD|')\s*$`)
	// 括号字符串（允许转义括号）
	literalString = regexp.MustCompile(`\(((?:\\.|[^\\()])*)\)`)
)

// textFromContentStream 从内容流中抽取 Tj/TJ/' 操作符的字面字符串
func textFromContentStream(stream string) string {
	var sb strings.Builder
	for _, line := range strings.Split(stream, "\n") {
		line = strings.TrimSpace(line)
		if line == "ET" {
			sb.WriteString("\n")
			continue
		}
		if lineBreakOps.MatchString(line) && sb.Len() > 0 {
			sb.WriteString("\n")
		}
		if !strings.HasSuffix(line, "Tj") && !strings.HasSuffix(line, "TJ") && !strings.HasSuffix(line, "'") {
			continue
		}
		for _, m := range literalString.FindAllStringSubmatch(line, -1) {
			sb.WriteString(unescapePDFString(m[1]))
		}
	}
	return sb.String()
}

var pdfEscapes = strings.NewReplacer(`\(`, "(", `\)`, ")", `\\`, `\`, `\n`, "\n", `\r`, "", `\t`, "\t")

func unescapePDFString(s string) string {
	return pdfEscapes.Replace(s)
}
