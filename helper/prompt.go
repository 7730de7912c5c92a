package helper

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// PromptYesNo 从 in 读取 y/n 回答，空行返回 defaultYes；输入结束时返回 io.EOF
func PromptYesNo(in io.Reader, out io.Writer, prompt string, defaultYes bool) (bool, error) {
	fmt.Fprint(out, prompt)
	scanner := bufio.NewScanner(in)
	// 同时支持 \n、\r\n 与单独的 \r
	scanner.Split(scanAnyLine)
	for {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return defaultYes, err
			}
			return defaultYes, io.EOF
		}
		ans := strings.TrimSpace(scanner.Text())
		if ans == "" {
			return defaultYes, nil
		}
		switch normalizeYN(ans) {
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		default:
			fmt.Fprint(out, "Please enter y or n: ")
		}
	}
}

func scanAnyLine(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		if i > 0 && data[i-1] == '\r' {
			return i + 1, data[:i-1], nil
		}
		return i + 1, data[:i], nil
	}
	if i := bytes.IndexByte(data, '\r'); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// normalizeYN 全角字符转半角，并识别常见的中文回答
func normalizeYN(s string) string {
	s = strings.TrimSpace(strings.ToLower(s))
	rs := []rune(s)
	for i, r := range rs {
		if r >= 0xFF01 && r <= 0xFF5E {
			rs[i] = r - 0xFEE0
		}
	}
	s = string(rs)
	switch s {
	case "是", "好", "确定":
		return "yes"
	case "否", "不":
		return "no"
	}
	return s
}
