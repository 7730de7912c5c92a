package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sjzsdu/dirtree/share"
)

type namedCompile struct {
	name string
	hook CompileHook
}

type namedEmit struct {
	name string
	hook EmitHook
}

// Host 进程内的最小构建宿主：按注册顺序执行钩子，周期之间串行
type Host struct {
	Log logrus.FieldLogger

	// DoneGrace ctx 取消后继续等待 done 的时间，超时后周期锁被释放
	DoneGrace time.Duration

	mu       sync.Mutex // 串行化构建周期
	compiles []namedCompile
	emits    []namedEmit
	cycle    int
	dupDone  atomic.Int64
}

// NewHost 创建宿主
func NewHost() *Host {
	return &Host{Log: share.Component("host"), DoneGrace: share.DONE_GRACE}
}

// OnCompile 实现 Compiler
func (h *Host) OnCompile(name string, hook CompileHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.compiles = append(h.compiles, namedCompile{name: name, hook: hook})
}

// OnEmit 实现 Compiler
func (h *Host) OnEmit(name string, hook EmitHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.emits = append(h.emits, namedEmit{name: name, hook: hook})
}

// DuplicateDone 钩子重复调用 done 的累计次数
func (h *Host) DuplicateDone() int64 {
	return h.dupDone.Load()
}

// Run 执行一个构建周期，上一个周期的所有 done 返回之前不会开始新周期
func (h *Host) Run(ctx context.Context) (*Compilation, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.cycle++
	c := NewCompilation(h.cycle)
	log := h.Log.WithField("cycle", c.Cycle)

	for _, hc := range h.compiles {
		if err := hc.hook(ctx); err != nil {
			return c, fmt.Errorf("%s compile: %w", hc.name, err)
		}
	}

	for _, he := range h.emits {
		if err := h.emit(ctx, c, he, log); err != nil {
			return c, err
		}
	}
	log.WithField("files", len(c.FileDependencies())).Debug("cycle finished")
	return c, nil
}

func (h *Host) emit(ctx context.Context, c *Compilation, he namedEmit, log logrus.FieldLogger) error {
	result := make(chan error, 1)
	var calls atomic.Int32
	done := func(err error) {
		if calls.Add(1) > 1 {
			h.dupDone.Add(1)
			log.WithField("hook", he.name).Warn("done called more than once")
			return
		}
		result <- err
	}

	go he.hook(ctx, c, done)

	select {
	case err := <-result:
		if err != nil {
			return fmt.Errorf("%s emit: %w", he.name, err)
		}
		return nil
	case <-ctx.Done():
	}

	// 取消后钩子可能仍在写镜像，等它结束再放开周期锁
	if h.DoneGrace > 0 {
		timer := time.NewTimer(h.DoneGrace)
		defer timer.Stop()
		select {
		case <-result:
		case <-timer.C:
			log.WithField("hook", he.name).Warn("done not called after cancellation")
		}
	}
	return fmt.Errorf("%s emit: %w", he.name, ctx.Err())
}
