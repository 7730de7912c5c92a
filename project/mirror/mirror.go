// Package mirror 将被监听的源文件复制到独立的镜像目录，内容相同时跳过写入。
package mirror

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/sjzsdu/dirtree/helper"
	"github.com/sjzsdu/dirtree/helper/coroutine"
	"github.com/sjzsdu/dirtree/share"
	"github.com/spf13/afero"
)

// Strategy 镜像文件命名策略
type Strategy string

const (
	// StrategyMirror 在目标目录下保留原有的子目录结构
	StrategyMirror Strategy = "mirror"
	// StrategyUnderline 将相对路径各段用分隔符拼成单个文件名
	StrategyUnderline Strategy = "underline"
)

// ErrOutsideWorkDir 源文件不在工作目录之下，无法计算镜像路径
var ErrOutsideWorkDir = errors.New("path is outside the working directory")

// ParseStrategy 解析配置中的 filename 字段，空值表示 mirror
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyMirror:
		return StrategyMirror, nil
	case StrategyUnderline:
		return StrategyUnderline, nil
	default:
		return "", fmt.Errorf("unknown filename strategy %q", s)
	}
}

// Config 镜像配置
type Config struct {
	Dir      string
	Strategy Strategy
	Sep      string
}

// FileError 单个文件镜像失败
type FileError struct {
	Src  string
	Dest string
	Op   string
	Err  error
}

func (e *FileError) Error() string {
	if e.Dest == "" {
		return fmt.Sprintf("mirror %s %s: %v", e.Op, e.Src, e.Err)
	}
	return fmt.Sprintf("mirror %s %s -> %s: %v", e.Op, e.Src, e.Dest, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Mirror 镜像写入器
type Mirror struct {
	Fs      afero.Fs
	Config  Config
	WorkDir string
	// Workers 并发处理的文件数，<= 0 时使用 CPU 数
	Workers int
	Log     logrus.FieldLogger
	// Observe 每个文件处理完后调用，可能并发调用
	Observe func(r Result, total int)
}

// New 创建镜像写入器。workDir 为计算相对路径的基准目录，cfg.Dir 为相对路径时也以它为基准。
func New(fs afero.Fs, cfg Config, workDir string) *Mirror {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if cfg.Strategy == "" {
		cfg.Strategy = StrategyMirror
	}
	if cfg.Sep == "" {
		cfg.Sep = share.DEFAULT_SEPARATOR
	}
	workDir = filepath.Clean(workDir)
	cfg.Dir = helper.ResolvePath(workDir, cfg.Dir)
	return &Mirror{
		Fs:      fs,
		Config:  cfg,
		WorkDir: workDir,
		Log:     share.Component("mirror"),
	}
}

// Destination 计算源文件在镜像目录中的路径
func (m *Mirror) Destination(src string) (string, error) {
	abs := helper.ResolvePath(m.WorkDir, src)
	rel, err := filepath.Rel(m.WorkDir, abs)
	if err != nil {
		return "", err
	}
	if rel == "." || helper.IsOutside(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideWorkDir, abs)
	}

	if m.Config.Strategy == StrategyUnderline {
		parts := strings.Split(rel, string(filepath.Separator))
		return filepath.Join(m.Config.Dir, strings.Join(parts, m.Config.Sep)), nil
	}
	return filepath.Join(m.Config.Dir, rel), nil
}

// File 镜像单个文件
//
// 源文件不存在返回 StatusMissing 且不报错；内容相同返回 StatusUnchanged，不写入。
func (m *Mirror) File(src string) (Status, string, error) {
	abs := helper.ResolvePath(m.WorkDir, src)
	dest, err := m.Destination(abs)
	if err != nil {
		return StatusFailed, "", &FileError{Src: abs, Op: "resolve", Err: err}
	}

	data, ok, err := helper.ReadFileIfExists(m.Fs, abs)
	if err != nil {
		return StatusFailed, dest, &FileError{Src: abs, Dest: dest, Op: "read", Err: err}
	}
	if !ok {
		return StatusMissing, dest, nil
	}

	current, exists, err := helper.ReadFileIfExists(m.Fs, dest)
	if err != nil {
		return StatusFailed, dest, &FileError{Src: abs, Dest: dest, Op: "read", Err: err}
	}
	if exists && bytes.Equal(current, data) {
		return StatusUnchanged, dest, nil
	}

	if err := helper.EnsureDir(m.Fs, filepath.Dir(dest)); err != nil {
		return StatusFailed, dest, &FileError{Src: abs, Dest: dest, Op: "mkdir", Err: err}
	}
	if err := helper.WriteFileAtomic(m.Fs, dest, data); err != nil {
		return StatusFailed, dest, &FileError{Src: abs, Dest: dest, Op: "write", Err: err}
	}
	return StatusCopied, dest, nil
}

// All 并发镜像一批文件，所有文件处理完成后才返回
//
// 每个文件互相独立，单个文件失败不影响其他文件。
func (m *Mirror) All(ctx context.Context, paths []string) *Report {
	results, errs := coroutine.Map(ctx, m.Workers, paths, func(ctx context.Context, src string) (Result, error) {
		status, dest, err := m.File(src)
		r := Result{Src: src, Dest: dest, Status: status, Err: err}
		if m.Observe != nil {
			m.Observe(r, len(paths))
		}
		return r, err
	})

	report := &Report{Results: results}
	for i := range results {
		r := &report.Results[i]
		if r.Src == "" {
			// 因 ctx 取消而未执行
			r.Src, r.Status, r.Err = paths[i], StatusFailed, errs[i]
		}
		m.logResult(*r)
	}
	return report
}

func (m *Mirror) logResult(r Result) {
	log := m.Log.WithField("path", r.Src)
	if r.Dest != "" {
		log = log.WithField("dest", r.Dest)
	}
	switch r.Status {
	case StatusCopied:
		log.Info("mirrored")
	case StatusUnchanged:
		log.Debug("mirror up to date")
	case StatusMissing:
		log.Debug("source missing, nothing to do")
	default:
		log.WithError(r.Err).Warn("mirror failed")
	}
}
