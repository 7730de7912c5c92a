package project

import (
	"context"

	"github.com/sjzsdu/dirtree/helper/coroutine"
)

// Builder 对每个配置的根路径调用一次扫描器
type Builder struct {
	Scanner Scanner
	// Workers 并发扫描的根目录数，<= 0 时使用 CPU 数
	Workers int
}

// NewBuilder 创建构建器，scanner 为 nil 时使用基于操作系统文件系统的 FSScanner
func NewBuilder(scanner Scanner) *Builder {
	if scanner == nil {
		scanner = NewFSScanner(nil)
	}
	return &Builder{Scanner: scanner}
}

// Build 按输入顺序扫描所有根路径
//
// 任一根路径失败即返回 *ScanError，不重试也不跳过。
// multi 为 true 或根路径多于一个时结果序列化为数组。
func (b *Builder) Build(ctx context.Context, roots []string, multi bool, opts Options) (*Forest, error) {
	if len(roots) == 0 {
		return nil, ErrNoRoots
	}

	nodes, errs := coroutine.Map(ctx, b.Workers, roots, func(ctx context.Context, root string) (*Node, error) {
		return b.Scanner.Scan(ctx, root, opts)
	})
	for i, err := range errs {
		if err != nil {
			return nil, &ScanError{Root: roots[i], Err: err}
		}
	}
	return NewForest(multi, nodes...), nil
}
