package project

import (
	"fmt"
	"path/filepath"
	"strings"
)

// NewFile 创建文件节点
func NewFile(path string) *Node {
	return &Node{
		Path: path,
		Name: filepath.Base(path),
		kind: KindFile,
	}
}

// NewDirectory 创建目录节点，children 按给定顺序追加
func NewDirectory(path string, children ...*Node) *Node {
	n := &Node{
		Path:     path,
		Name:     filepath.Base(path),
		kind:     KindDirectory,
		children: make([]*Node, 0, len(children)),
	}
	n.children = append(n.children, children...)
	return n
}

// Kind 返回节点类型
func (n *Node) Kind() Kind {
	return n.kind
}

// IsDir 是否为目录节点
func (n *Node) IsDir() bool {
	return n.kind == KindDirectory
}

// Children 返回子节点（扫描顺序）。文件节点返回 nil。
// 返回的切片与节点共享底层数组，只读使用。
func (n *Node) Children() []*Node {
	if n.kind != KindDirectory {
		return nil
	}
	return n.children
}

// AddChild 追加子节点
func (n *Node) AddChild(child *Node) error {
	if n.kind != KindDirectory {
		return fmt.Errorf("%w: %s", ErrChildOfFile, n.Path)
	}
	if child == nil {
		return fmt.Errorf("nil child for %s", n.Path)
	}
	n.children = append(n.children, child)
	return nil
}

// CountNodes 计算节点及其子节点的总数
func (n *Node) CountNodes() int {
	if n == nil {
		return 0
	}
	count := 1
	for _, child := range n.Children() {
		count += child.CountNodes()
	}
	return count
}

// Validate 递归检查节点不变式：类型合法、文件无子节点、子节点路径以父路径为前缀
func (n *Node) Validate() error {
	if !n.kind.Valid() {
		return fmt.Errorf("%w: %q at %s", ErrInvalidKind, n.kind, n.Path)
	}
	if n.kind == KindFile && len(n.children) > 0 {
		return fmt.Errorf("%w: %s", ErrChildOfFile, n.Path)
	}
	for _, child := range n.children {
		if !hasPathPrefix(child.Path, n.Path) {
			return fmt.Errorf("child %s is not under %s", child.Path, n.Path)
		}
		if err := child.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func hasPathPrefix(path, parent string) bool {
	if parent == "" {
		return true
	}
	path = filepath.Clean(path)
	parent = filepath.Clean(parent)
	if parent == "." {
		return !filepath.IsAbs(path)
	}
	if !strings.HasSuffix(parent, string(filepath.Separator)) {
		parent += string(filepath.Separator)
	}
	return strings.HasPrefix(path, parent)
}
