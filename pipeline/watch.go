package pipeline

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sjzsdu/dirtree/share"
)

// WatchOptions 监听配置
type WatchOptions struct {
	// Roots 递归监听的目录
	Roots []string
	// Ignore 这些路径及其子路径上的事件不会触发构建，通常是插件自己的输出
	Ignore []string
	// Debounce 事件合并间隔，<= 0 时使用 share.DEBOUNCE
	Debounce time.Duration
	// OnCycle 每个周期结束后回调
	OnCycle func(c *Compilation, err error)
}

// Watch 先执行一个周期，之后在文件变化时重新执行，直到 ctx 被取消
//
// 每个周期结束后，登记的文件依赖所在目录也会加入监听。
func (h *Host) Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Debounce <= 0 {
		opts.Debounce = share.DEBOUNCE
	}
	ignore := make([]string, 0, len(opts.Ignore))
	for _, p := range opts.Ignore {
		if abs, err := filepath.Abs(p); err == nil {
			ignore = append(ignore, abs)
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	watched := make(map[string]bool)
	addDir := func(dir string) {
		if watched[dir] || ignored(ignore, dir) {
			return
		}
		if err := w.Add(dir); err != nil {
			h.Log.WithField("path", dir).WithError(err).Debug("cannot watch directory")
			return
		}
		watched[dir] = true
	}
	addTree := func(root string) {
		filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			if !d.IsDir() {
				return nil
			}
			if d.Name() == ".git" || ignored(ignore, absPath(path)) {
				return filepath.SkipDir
			}
			addDir(absPath(path))
			return nil
		})
	}

	runCycle := func() {
		c, err := h.Run(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			h.Log.WithError(err).Error("build cycle failed")
		}
		if c != nil {
			for _, dep := range c.FileDependencies() {
				addDir(filepath.Dir(absPath(dep)))
			}
		}
		if opts.OnCycle != nil {
			opts.OnCycle(c, err)
		}
	}

	for _, root := range opts.Roots {
		addTree(root)
	}
	runCycle()

	timer := time.NewTimer(opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ignored(ignore, ev.Name) || isTempFile(ev.Name) {
				continue
			}
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					addTree(ev.Name)
				}
			}
			h.Log.WithField("path", ev.Name).WithField("op", ev.Op.String()).Debug("change detected")
			timer.Reset(opts.Debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			h.Log.WithError(err).Warn("watcher error")
		case <-timer.C:
			runCycle()
		}
	}
}

func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

// ignored 判断 path 是否等于或位于某个忽略路径之下
func ignored(ignore []string, path string) bool {
	path = absPath(path)
	for _, p := range ignore {
		if path == p || strings.HasPrefix(path, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// isTempFile 原子写入过程中的临时文件，形如 .name.tmp-123
func isTempFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && strings.Contains(base, ".tmp-")
}
