// Package pipeline 将目录树构建接入宿主构建流水线的生命周期。
//
// 宿主在每个构建周期先触发 compile 钩子，再触发 emit 钩子；
// emit 钩子通过 Compilation 告诉宿主需要跟踪哪些文件，
// 并且必须恰好调用一次 done。
package pipeline

import (
	"context"
	"sync"
)

// CompileHook 在构建树之前触发
type CompileHook func(ctx context.Context) error

// EmitHook 在产物输出阶段触发，完成后必须调用且只调用一次 done
type EmitHook func(ctx context.Context, c *Compilation, done func(error))

// Compiler 宿主流水线需要提供的钩子注册接口
type Compiler interface {
	OnCompile(name string, hook CompileHook)
	OnEmit(name string, hook EmitHook)
}

// Compilation 单个构建周期的上下文
type Compilation struct {
	Cycle int

	mu       sync.Mutex
	fileDeps []string
}

// NewCompilation 创建构建周期上下文
func NewCompilation(cycle int) *Compilation {
	return &Compilation{Cycle: cycle}
}

// AddFileDependencies 追加需要跟踪的文件，允许重复
func (c *Compilation) AddFileDependencies(paths ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fileDeps = append(c.fileDeps, paths...)
}

// FileDependencies 返回已登记文件的副本
func (c *Compilation) FileDependencies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.fileDeps...)
}
