package project

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	jsonx "github.com/sjzsdu/dirtree/helper/json"
)

// 清单中的键顺序固定为 path、name、kind、children，然后是按插入顺序的属性

// MarshalJSON 实现 json.Marshaler
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeNode(&buf, n); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSON 多根时编码为数组，否则编码为单个对象
func (f *Forest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if f.Multi {
		buf.WriteByte('[')
		for i, root := range f.Roots {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeNode(&buf, root); err != nil {
				return nil, err
			}
		}
		buf.WriteByte(']')
		return buf.Bytes(), nil
	}
	root := f.Root()
	if root == nil {
		return []byte("null"), nil
	}
	if err := encodeNode(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeNode(buf *bytes.Buffer, n *Node) error {
	buf.WriteByte('{')
	if err := writeField(buf, "path", n.Path, true); err != nil {
		return err
	}
	if err := writeField(buf, "name", n.Name, false); err != nil {
		return err
	}
	if err := writeField(buf, "kind", string(n.kind), false); err != nil {
		return err
	}
	if n.kind == KindDirectory {
		buf.WriteString(`,"children":[`)
		for i, child := range n.children {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := encodeNode(buf, child); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	}
	for _, attr := range n.Attrs.items {
		if err := writeField(buf, attr.Key, attr.Value, false); err != nil {
			return fmt.Errorf("attribute %q of %s: %w", attr.Key, n.Path, err)
		}
	}
	buf.WriteByte('}')
	return nil
}

func writeField(buf *bytes.Buffer, key string, value any, first bool) error {
	if !first {
		buf.WriteByte(',')
	}
	k, err := jsonx.MarshalNoEscape(key)
	if err != nil {
		return err
	}
	v, err := jsonx.MarshalNoEscape(value)
	if err != nil {
		return err
	}
	buf.Write(k)
	buf.WriteByte(':')
	buf.Write(v)
	return nil
}

// UnmarshalJSON 按出现顺序解析属性，数字保留为 json.Number
func (n *Node) UnmarshalJSON(data []byte) error {
	dec := jsonx.NewDecoder(data)
	parsed, err := decodeNode(dec)
	if err != nil {
		return err
	}
	*n = *parsed
	return nil
}

// UnmarshalJSON 数组解析为多根森林，对象解析为单根森林
func (f *Forest) UnmarshalJSON(data []byte) error {
	dec := jsonx.NewDecoder(data)
	switch jsonx.FirstByte(data) {
	case '[':
		if err := jsonx.ExpectDelim(dec, '['); err != nil {
			return err
		}
		roots := []*Node{}
		for dec.More() {
			n, err := decodeNode(dec)
			if err != nil {
				return err
			}
			roots = append(roots, n)
		}
		if err := jsonx.ExpectDelim(dec, ']'); err != nil {
			return err
		}
		f.Roots, f.Multi = roots, true
	case '{':
		n, err := decodeNode(dec)
		if err != nil {
			return err
		}
		f.Roots, f.Multi = []*Node{n}, false
	case 'n':
		f.Roots, f.Multi = nil, false
	default:
		return errors.New("manifest must be a JSON object or array")
	}
	return nil
}

func decodeNode(dec *json.Decoder) (*Node, error) {
	if err := jsonx.ExpectDelim(dec, '{'); err != nil {
		return nil, err
	}
	n := &Node{}
	var (
		kind        string
		hasChildren bool
		children    []*Node
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		switch key {
		case "path":
			err = dec.Decode(&n.Path)
		case "name":
			err = dec.Decode(&n.Name)
		case "kind":
			err = dec.Decode(&kind)
		case "children":
			children, err = decodeChildren(dec)
			hasChildren = children != nil
		default:
			var v any
			if err = dec.Decode(&v); err == nil {
				n.Attrs.put(key, v)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("decode %q: %w", key, err)
		}
	}
	if err := jsonx.ExpectDelim(dec, '}'); err != nil {
		return nil, err
	}

	switch Kind(kind) {
	case KindFile:
		if hasChildren {
			return nil, fmt.Errorf("%w: %s", ErrChildOfFile, n.Path)
		}
		n.kind = KindFile
	case KindDirectory:
		n.kind = KindDirectory
	case "":
		// 缺少 kind 时按是否带 children 推断
		if hasChildren {
			n.kind = KindDirectory
		} else {
			n.kind = KindFile
		}
	default:
		return nil, fmt.Errorf("%w: %q at %s", ErrInvalidKind, kind, n.Path)
	}
	if n.kind == KindDirectory {
		n.children = children
		if n.children == nil {
			n.children = []*Node{}
		}
	}
	return n, nil
}

func decodeChildren(dec *json.Decoder) ([]*Node, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if tok == nil {
		return nil, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("children must be an array, got %v", tok)
	}
	children := []*Node{}
	for dec.More() {
		child, err := decodeNode(dec)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	if err := jsonx.ExpectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return children, nil
}
