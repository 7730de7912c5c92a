package project

import "fmt"

// 序列化时由节点自身字段占用的键
var reservedKeys = map[string]bool{
	"path":     true,
	"name":     true,
	"kind":     true,
	"children": true,
}

// Attribute 单个附加属性
type Attribute struct {
	Key   string
	Value any
}

// Attributes 保持插入顺序的属性集合，保证清单每次序列化的键顺序一致
type Attributes struct {
	items []Attribute
}

// Set 设置属性；已存在的键保持原位置，新键追加到末尾
func (a *Attributes) Set(key string, value any) error {
	if reservedKeys[key] {
		return fmt.Errorf("%w: %q", ErrReservedAttr, key)
	}
	a.put(key, value)
	return nil
}

func (a *Attributes) put(key string, value any) {
	for i := range a.items {
		if a.items[i].Key == key {
			a.items[i].Value = value
			return
		}
	}
	a.items = append(a.items, Attribute{Key: key, Value: value})
}

// Get 读取属性
func (a Attributes) Get(key string) (any, bool) {
	for _, item := range a.items {
		if item.Key == key {
			return item.Value, true
		}
	}
	return nil, false
}

// Delete 删除属性
func (a *Attributes) Delete(key string) {
	for i := range a.items {
		if a.items[i].Key == key {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return
		}
	}
}

// Keys 按插入顺序返回所有键
func (a Attributes) Keys() []string {
	keys := make([]string, 0, len(a.items))
	for _, item := range a.items {
		keys = append(keys, item.Key)
	}
	return keys
}

// Len 属性个数
func (a Attributes) Len() int {
	return len(a.items)
}

// Each 按插入顺序遍历
func (a Attributes) Each(fn func(key string, value any)) {
	for _, item := range a.items {
		fn(item.Key, item.Value)
	}
}
