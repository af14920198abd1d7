package document

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedType 不支持的文件类型
	ErrUnsupportedType = errors.New("unsupported document type")
	// ErrEmptyContent 文档中没有可提取的文本
	ErrEmptyContent = errors.New("no text content found")
)

// ParseError 提取文件文本失败
type ParseError struct {
	Filename string // 文件名（不含目录）
	Err      error  // 底层错误
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("could not parse file %s: %v", e.Filename, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Parser 文档解析器接口
// 负责将不同格式的简历文件解析为纯文本
type Parser interface {
	// Parse 解析文档，返回文本内容
	Parse(filePath string) (string, error)

	// ParseReader 从Reader解析文档，返回文本内容
	// filename用于确定文档类型
	ParseReader(r io.Reader, filename string) (string, error)
}

// ContentType 表示文档的内容类型
type ContentType string

const (
	// PDF 文档类型
	PDF ContentType = "pdf"
	// DOCX Word 2007+ 文档
	DOCX ContentType = "docx"
	// DOC 旧版Word二进制文档
	DOC ContentType = "doc"
	// RTF 富文本
	RTF ContentType = "rtf"
	// PlainText 纯文本类型
	PlainText ContentType = "plaintext"
	// Unknown 未知类型
	Unknown ContentType = "unknown"
)

// DefaultAllowedExtensions 默认允许上传的扩展名
var DefaultAllowedExtensions = []string{"pdf", "docx", "doc", "txt", "rtf"}

// ParserFactory 解析器工厂函数，根据文件类型创建对应的解析器
func ParserFactory(filePath string) (Parser, error) {
	switch DetectContentType(filePath) {
	case PDF:
		return NewPDFParser(), nil
	case DOCX:
		return NewDocxParser(), nil
	case DOC:
		return NewDocParser(), nil
	case RTF:
		return NewRTFParser(), nil
	case PlainText:
		return NewPlainTextParser(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, filepath.Ext(filePath))
	}
}

// DetectContentType 根据文件扩展名检测内容类型
func DetectContentType(filePath string) ContentType {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".pdf":
		return PDF
	case ".docx":
		return DOCX
	case ".doc":
		return DOC
	case ".rtf":
		return RTF
	case ".txt":
		return PlainText
	default:
		return Unknown
	}
}

// IsAllowed 判断文件扩展名是否在允许列表中（不区分大小写，不含点号）
func IsAllowed(filename string, allowed []string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	if ext == "" {
		return false
	}
	for _, a := range allowed {
		if strings.TrimPrefix(strings.ToLower(a), ".") == ext {
			return true
		}
	}
	return false
}

// ExtractText 按扩展名选择解析器并提取文件文本
func ExtractText(filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", &ParseError{Filename: filepath.Base(filePath), Err: err}
	}
	defer f.Close()

	return ExtractTextReader(f, filePath)
}

// ExtractTextReader 从Reader提取文本，filename决定文档类型
func ExtractTextReader(r io.Reader, filename string) (string, error) {
	parser, err := ParserFactory(filename)
	if err != nil {
		return "", &ParseError{Filename: filepath.Base(filename), Err: err}
	}

	text, err := parser.ParseReader(r, filename)
	if err != nil {
		return "", &ParseError{Filename: filepath.Base(filename), Err: err}
	}
	return text, nil
}

// parseFile 打开文件并交给ParseReader处理
func parseFile(p Parser, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	return p.ParseReader(f, filePath)
}
