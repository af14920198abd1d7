package document

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"
)

// PlainTextParser 纯文本解析器
type PlainTextParser struct{}

// NewPlainTextParser 创建一个新的纯文本解析器
func NewPlainTextParser() Parser {
	return &PlainTextParser{}
}

// Parse 解析纯文本文件
func (p *PlainTextParser) Parse(filePath string) (string, error) {
	return parseFile(p, filePath)
}

// ParseReader 读取UTF-8文本
func (p *PlainTextParser) ParseReader(r io.Reader, filename string) (string, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	if !utf8.Valid(content) {
		return "", errors.New("text file is not valid UTF-8")
	}
	return string(content), nil
}
