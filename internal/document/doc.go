package document

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// minRunLength 保留的可打印字符串最短长度
const minRunLength = 4

// DocParser 旧版Word二进制文档解析器
// 不解析OLE结构，只提取其中连续的可打印文本
type DocParser struct{}

// NewDocParser 创建DOC解析器
func NewDocParser() Parser {
	return &DocParser{}
}

// Parse 解析DOC文件
func (p *DocParser) Parse(filePath string) (string, error) {
	return parseFile(p, filePath)
}

// ParseReader 提取二进制内容中的可打印文本
func (p *DocParser) ParseReader(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read doc content: %w", err)
	}

	text := PrintableText(data)
	if text == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

var (
	controlBytes = regexp.MustCompile(`[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]`)
	spaceRun     = regexp.MustCompile(`[ \t]+`)
)

// PrintableText 把控制字节和非ASCII字节替换为空格，
// 按行压缩空白，丢弃过短的碎片
func PrintableText(data []byte) string {
	buf := make([]byte, len(data))
	for i, b := range data {
		if b >= 0x80 {
			buf[i] = ' '
			continue
		}
		buf[i] = b
	}
	cleaned := controlBytes.ReplaceAllString(string(buf), " ")
	cleaned = strings.ReplaceAll(cleaned, "\r\n", "\n")
	cleaned = strings.ReplaceAll(cleaned, "\r", "\n")

	var lines []string
	for _, line := range strings.Split(cleaned, "\n") {
		line = strings.TrimSpace(spaceRun.ReplaceAllString(line, " "))
		if len(line) < minRunLength {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
