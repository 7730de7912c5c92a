package json

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalNoEscape 编码为紧凑 JSON，不转义 <、>、&，去掉 Encoder 追加的换行
func MarshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("编码为JSON失败: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// NewDecoder 创建保留数字原文的解码器
func NewDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec
}

// ExpectDelim 读取下一个 token 并确认是指定的分隔符
func ExpectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// FirstByte 返回第一个非空白字节
func FirstByte(data []byte) byte {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
