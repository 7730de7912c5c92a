// Package testfs 测试用的 afero.Fs 包装：统计写入次数，按路径注入失败
package testfs

import (
	"errors"
	"os"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// ErrInjected 由 FailOn 注入的错误
var ErrInjected = errors.New("injected failure")

// Fs 包装任意 afero.Fs
//
// 原子写入以 Rename 收尾，因此 Rename 的目标路径即一次写入。
type Fs struct {
	afero.Fs

	mu     sync.Mutex
	writes map[string]int
	fail   []string
}

// New 包装 base，base 为 nil 时使用内存文件系统
func New(base afero.Fs) *Fs {
	if base == nil {
		base = afero.NewMemMapFs()
	}
	return &Fs{Fs: base, writes: make(map[string]int)}
}

// FailOn 对以 prefix 开头的路径的写操作返回 ErrInjected
func (f *Fs) FailOn(prefix string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = append(f.fail, prefix)
}

// Writes 某个路径被写入的次数
func (f *Fs) Writes(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.writes[path]
}

// TotalWrites 所有路径的写入次数之和
func (f *Fs) TotalWrites() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, n := range f.writes {
		total += n
	}
	return total
}

func (f *Fs) failing(path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, prefix := range f.fail {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (f *Fs) Rename(oldname, newname string) error {
	if f.failing(newname) {
		return ErrInjected
	}
	if err := f.Fs.Rename(oldname, newname); err != nil {
		return err
	}
	f.mu.Lock()
	f.writes[newname]++
	f.mu.Unlock()
	return nil
}

func (f *Fs) Create(name string) (afero.File, error) {
	if f.failing(name) {
		return nil, ErrInjected
	}
	return f.Fs.Create(name)
}

func (f *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_CREATE) != 0 && f.failing(name) {
		return nil, ErrInjected
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func (f *Fs) MkdirAll(path string, perm os.FileMode) error {
	if f.failing(path) {
		return ErrInjected
	}
	return f.Fs.MkdirAll(path, perm)
}
