package project

import (
	"sort"
	"strings"

	"github.com/spf13/cast"
)

// Options 只读的选项集合
//
// 没有导出的修改方法；With 和 Merge 都返回新的副本。
// 嵌套的 map 与切片在存入和取出时都会深拷贝，调用方拿到的值可以随意修改。
type Options struct {
	values map[string]any
}

// NewOptions 复制 m 构造选项集合
func NewOptions(m map[string]any) Options {
	return Options{values: cloneMap(m)}
}

// Get 读取值的副本
func (o Options) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return cloneValue(v), ok
}

// Has 是否包含某个键
func (o Options) Has(key string) bool {
	_, ok := o.values[key]
	return ok
}

// String 以字符串读取
func (o Options) String(key string) string {
	return cast.ToString(o.values[key])
}

// Strings 以字符串切片读取，逗号分隔的字符串会被拆分
func (o Options) Strings(key string) []string {
	v, ok := o.values[key]
	if !ok || v == nil {
		return nil
	}
	if s, ok := v.(string); ok {
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return cast.ToStringSlice(cloneValue(v))
}

// Bool 以布尔值读取，缺失或无法转换时返回 def
func (o Options) Bool(key string, def bool) bool {
	v, ok := o.values[key]
	if !ok {
		return def
	}
	b, err := cast.ToBoolE(v)
	if err != nil {
		return def
	}
	return b
}

// Int 以整数读取，缺失或无法转换时返回 def
func (o Options) Int(key string, def int) int {
	v, ok := o.values[key]
	if !ok {
		return def
	}
	i, err := cast.ToIntE(v)
	if err != nil {
		return def
	}
	return i
}

// Keys 排序后的键列表
func (o Options) Keys() []string {
	keys := make([]string, 0, len(o.values))
	for k := range o.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len 键个数
func (o Options) Len() int {
	return len(o.values)
}

// Map 返回底层数据的深拷贝
func (o Options) Map() map[string]any {
	return cloneMap(o.values)
}

// With 返回设置了 key 的新副本
func (o Options) With(key string, value any) Options {
	m := o.Map()
	m[key] = cloneValue(value)
	return Options{values: m}
}

// Merge 返回 o 与 top 的并集，键冲突时以 top 为准
func (o Options) Merge(top Options) Options {
	m := o.Map()
	for k, v := range top.values {
		m[k] = cloneValue(v)
	}
	return Options{values: m}
}

func cloneMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue 深拷贝配置里常见的容器类型，其余值原样返回
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		if t == nil {
			return t
		}
		return cloneMap(t)
	case map[any]any:
		if t == nil {
			return t
		}
		out := make(map[any]any, len(t))
		for k, e := range t {
			out[k] = cloneValue(e)
		}
		return out
	case map[string]string:
		if t == nil {
			return t
		}
		out := make(map[string]string, len(t))
		for k, e := range t {
			out[k] = e
		}
		return out
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		if t == nil {
			return t
		}
		return append([]string{}, t...)
	case []int:
		if t == nil {
			return t
		}
		return append([]int{}, t...)
	default:
		return v
	}
}
