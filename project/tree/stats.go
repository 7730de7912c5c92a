package tree

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/sjzsdu/dirtree/project"
)

// Statistics 树的统计信息
type Statistics struct {
	TotalNodes     int   // 总节点数
	DirectoryCount int   // 目录数量
	FileCount      int   // 文件数量
	TotalSize      int64 // 文件大小之和（字节）
	MaxDepth       int   // 最大深度，根为 0
}

// Stats 返回单棵树的统计信息
func Stats(node *project.Node) Statistics {
	var s Statistics
	if node != nil {
		s.collect(node, 0)
	}
	return s
}

// ForestStats 汇总所有根的统计信息
func ForestStats(f *project.Forest) Statistics {
	var s Statistics
	if f == nil {
		return s
	}
	for _, root := range f.Roots {
		s.collect(root, 0)
	}
	return s
}

func (s *Statistics) collect(node *project.Node, depth int) {
	s.TotalNodes++
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	if !node.IsDir() {
		s.FileCount++
		if size, ok := Size(node); ok {
			s.TotalSize += size
		}
		return
	}
	s.DirectoryCount++
	for _, child := range node.Children() {
		s.collect(child, depth+1)
	}
}

// String 返回统计信息的字符串表示
func (s Statistics) String() string {
	return fmt.Sprintf("%d directories, %d files, %s total",
		s.DirectoryCount, s.FileCount, humanize.Bytes(uint64(s.TotalSize)))
}
