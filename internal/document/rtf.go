package document

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RTFParser 富文本解析器
type RTFParser struct{}

// NewRTFParser 创建RTF解析器
func NewRTFParser() Parser {
	return &RTFParser{}
}

// Parse 解析RTF文件
func (p *RTFParser) Parse(filePath string) (string, error) {
	return parseFile(p, filePath)
}

// ParseReader 去除控制字和元数据分组，保留正文
func (p *RTFParser) ParseReader(r io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read rtf content: %w", err)
	}
	content := string(data)
	if !strings.HasPrefix(strings.TrimSpace(content), `{\rtf`) {
		return "", fmt.Errorf("not an rtf document")
	}
	return StripRTF(content), nil
}

// 这些目标分组的内容不属于正文
var skipDestinations = map[string]bool{
	"fonttbl": true, "colortbl": true, "stylesheet": true, "info": true,
	"pict": true, "header": true, "footer": true, "listtable": true,
	"listoverridetable": true, "rsidtbl": true, "generator": true,
}

// StripRTF 把RTF转换为纯文本
func StripRTF(content string) string {
	var sb strings.Builder
	// skipDepth>0 表示正处于需要忽略的分组内
	depth, skipDepth := 0, 0

	for i := 0; i < len(content); i++ {
		c := content[i]
		switch c {
		case '{':
			depth++
		case '}':
			if skipDepth > 0 && depth == skipDepth {
				skipDepth = 0
			}
			depth--
		case '\r', '\n':
		case '\\':
			word, param, next := readControl(content, i+1)
			i = next - 1
			if skipDepth > 0 {
				continue
			}
			switch {
			case word == "*" || skipDestinations[word]:
				skipDepth = depth
			case word == "par" || word == "line" || word == "row":
				sb.WriteByte('\n')
			case word == "tab" || word == "cell":
				sb.WriteByte('\t')
			case word == "'":
				if b, err := strconv.ParseUint(param, 16, 8); err == nil {
					sb.WriteRune(rune(b))
				}
			case word == "u":
				if n, err := strconv.Atoi(param); err == nil {
					if n < 0 {
						n += 65536
					}
					sb.WriteRune(rune(n))
					// 跳过紧随其后的替代字符
					if i+1 < len(content) && content[i+1] == '?' {
						i++
					}
				}
			case len(word) == 1 && strings.ContainsAny(word, `\{}`):
				sb.WriteString(word)
			case word == "~":
				sb.WriteByte(' ')
			}
		default:
			if skipDepth == 0 {
				sb.WriteByte(c)
			}
		}
	}

	return strings.TrimSpace(sb.String())
}

// readControl 读取从 start 开始的控制字，返回控制字、参数和下一个读取位置
func readControl(content string, start int) (word, param string, next int) {
	if start >= len(content) {
		return "", "", start
	}

	c := content[start]
	if !isASCIILetter(c) {
		// 控制符号，如 \' \* \{ \\
		if c == '\'' && start+2 < len(content) {
			return "'", content[start+1 : start+3], start + 3
		}
		return string(c), "", start + 1
	}

	i := start
	for i < len(content) && isASCIILetter(content[i]) {
		i++
	}
	word = content[start:i]

	j := i
	if j < len(content) && content[j] == '-' {
		j++
	}
	for j < len(content) && content[j] >= '0' && content[j] <= '9' {
		j++
	}
	param = content[i:j]

	// 控制字后的单个空格是分隔符
	if j < len(content) && content[j] == ' ' {
		j++
	}
	return word, param, j
}

func isASCIILetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
