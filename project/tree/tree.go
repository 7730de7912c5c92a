// Package tree 以类似 Unix tree 命令的形式展示目录树
package tree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/sjzsdu/dirtree/project"
	"github.com/spf13/cast"
)

// Options 展示选项
type Options struct {
	ShowFiles  bool
	ShowHidden bool
	// MaxDepth <= 0 表示不限制
	MaxDepth int
}

// DefaultOptions 显示文件，不显示隐藏文件，不限深度
func DefaultOptions() Options {
	return Options{ShowFiles: true}
}

// Tree 使用默认选项渲染
func Tree(node *project.Node) string {
	return Render(node, DefaultOptions())
}

// Render 渲染单棵树
func Render(node *project.Node, opts Options) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	render(&b, node, "", true, true, 0, opts)
	return b.String()
}

// RenderForest 依次渲染每个根，根之间空一行
func RenderForest(f *project.Forest, opts Options) string {
	if f == nil {
		return ""
	}
	parts := make([]string, 0, len(f.Roots))
	for _, root := range f.Roots {
		parts = append(parts, Render(root, opts))
	}
	return strings.Join(parts, "\n")
}

// Size 读取节点的 size 属性，扫描得到的 int64 与从清单读回的数字都能识别
func Size(node *project.Node) (int64, bool) {
	v, ok := node.Attrs.Get(project.AttrSize)
	if !ok {
		return 0, false
	}
	size, err := cast.ToInt64E(v)
	if err != nil {
		return 0, false
	}
	return size, true
}

func render(b *strings.Builder, node *project.Node, prefix string, isLast, isRoot bool, depth int, opts Options) {
	if !isRoot {
		if isLast {
			b.WriteString(prefix + "└── ")
		} else {
			b.WriteString(prefix + "├── ")
		}
	}

	children := visible(node, opts)
	if node.IsDir() {
		if isRoot {
			b.WriteString(node.Path)
		} else {
			b.WriteString(node.Name + "/")
		}
		if len(children) > 0 {
			fmt.Fprintf(b, " [%d items]", len(children))
		}
	} else {
		b.WriteString(node.Name)
		if size, ok := Size(node); ok {
			fmt.Fprintf(b, " (%s)", humanize.Bytes(uint64(size)))
		}
	}
	b.WriteString("\n")

	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return
	}

	var next string
	switch {
	case isRoot:
		next = ""
	case isLast:
		next = prefix + "    "
	default:
		next = prefix + "│   "
	}
	for i, child := range children {
		render(b, child, next, i == len(children)-1, false, depth+1, opts)
	}
}

// visible 过滤后排序：目录优先，然后按名称
func visible(node *project.Node, opts Options) []*project.Node {
	var out []*project.Node
	for _, child := range node.Children() {
		if !opts.ShowHidden && strings.HasPrefix(child.Name, ".") {
			continue
		}
		if !opts.ShowFiles && !child.IsDir() {
			continue
		}
		out = append(out, child)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsDir() != out[j].IsDir() {
			return out[i].IsDir()
		}
		return out[i].Name < out[j].Name
	})
	return out
}
