package project

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
	"github.com/sirupsen/logrus"
	"github.com/sjzsdu/dirtree/helper"
	"github.com/sjzsdu/dirtree/share"
	"github.com/spf13/afero"
)

// 扫描选项中识别的键，其余键原样忽略
const (
	OptExclude    = "exclude"
	OptExtensions = "extensions"
	OptGitignore  = "gitignore"
	OptDepth      = "depth"
	OptAttributes = "attributes"
	OptHidden     = "hidden"
)

// 扫描器可写入的属性
const (
	AttrSize      = "size"
	AttrExtension = "extension"
	AttrMode      = "mode"
	AttrModified  = "modified"
)

// Scanner 目录扫描服务：将一个根路径扫描为一棵树
type Scanner interface {
	Scan(ctx context.Context, root string, opts Options) (*Node, error)
}

// ScannerFunc 函数适配器
type ScannerFunc func(ctx context.Context, root string, opts Options) (*Node, error)

// Scan 实现 Scanner 接口
func (f ScannerFunc) Scan(ctx context.Context, root string, opts Options) (*Node, error) {
	return f(ctx, root, opts)
}

// FSScanner 基于 afero.Fs 的默认扫描器
type FSScanner struct {
	Fs  afero.Fs
	Log logrus.FieldLogger
	// Skip 返回 true 的条目不进入结果，目录则整棵跳过
	Skip func(path string, isDir bool) bool
}

// NewFSScanner 创建扫描器，fs 为 nil 时使用操作系统文件系统
func NewFSScanner(fs afero.Fs) *FSScanner {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FSScanner{Fs: fs, Log: share.Component("scanner")}
}

// walkOptions 从 Options 中解析出的扫描配置
type walkOptions struct {
	excludes   []string
	extensions map[string]bool
	gitignore  bool
	hidden     bool
	maxDepth   int
	attributes map[string]bool
}

// DefaultAttributes 未配置 attributes 时写入的属性
func DefaultAttributes() []string {
	return []string{AttrSize, AttrExtension}
}

func parseWalkOptions(opts Options) (walkOptions, error) {
	w := walkOptions{
		excludes:  opts.Strings(OptExclude),
		gitignore: opts.Bool(OptGitignore, false),
		hidden:    opts.Bool(OptHidden, true),
		maxDepth:  opts.Int(OptDepth, -1),
	}
	for _, pattern := range w.excludes {
		if !doublestar.ValidatePattern(pattern) {
			return w, fmt.Errorf("invalid exclude pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	exts := opts.Strings(OptExtensions)
	if len(exts) > 0 {
		w.extensions = make(map[string]bool, len(exts))
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "*" {
				w.extensions = nil
				break
			}
			w.extensions[strings.TrimPrefix(ext, ".")] = true
		}
	}

	attrs := DefaultAttributes()
	if opts.Has(OptAttributes) {
		attrs = opts.Strings(OptAttributes)
	}
	w.attributes = make(map[string]bool, len(attrs))
	for _, a := range attrs {
		w.attributes[strings.ToLower(strings.TrimSpace(a))] = true
	}
	return w, nil
}

// Scan 扫描 root。root 是文件时返回单个文件节点。
func (s *FSScanner) Scan(ctx context.Context, root string, opts Options) (*Node, error) {
	w, err := parseWalkOptions(opts)
	if err != nil {
		return nil, err
	}
	root = filepath.Clean(root)
	info, err := s.Fs.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return s.fileNode(root, info, w), nil
	}

	node := NewDirectory(root)
	if err := s.scanDir(ctx, node, nil, nil, 0, w); err != nil {
		return nil, err
	}
	s.setDirAttrs(node, info, w)
	return node, nil
}

// scanDir 递归扫描目录，parts 为相对根目录的路径分段
func (s *FSScanner) scanDir(ctx context.Context, dir *Node, parts []string, patterns []gitignore.Pattern, depth int, w walkOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.maxDepth >= 0 && depth >= w.maxDepth {
		return nil
	}

	if w.gitignore {
		// 限制容量，避免兄弟目录共享底层数组
		patterns = append(patterns[:len(patterns):len(patterns)], s.readGitignore(dir.Path, parts)...)
	}
	matcher := gitignore.NewMatcher(patterns)

	entries, err := afero.ReadDir(s.Fs, dir.Path)
	if err != nil {
		if depth == 0 {
			return err
		}
		// 子目录无法读取时保留空目录继续扫描
		s.Log.WithField("path", dir.Path).WithError(err).Warn("skip unreadable directory")
		return nil
	}

	for _, info := range entries {
		name := info.Name()
		childParts := append(append([]string{}, parts...), name)
		rel := strings.Join(childParts, "/")

		if !w.hidden && strings.HasPrefix(name, ".") {
			continue
		}
		if w.gitignore && info.IsDir() && name == ".git" {
			continue
		}
		if w.gitignore && matcher.Match(childParts, info.IsDir()) {
			continue
		}
		if excluded(w.excludes, rel, name) {
			continue
		}

		childPath := filepath.Join(dir.Path, name)
		if s.Skip != nil && s.Skip(childPath, info.IsDir()) {
			continue
		}
		if info.IsDir() {
			child := NewDirectory(childPath)
			if err := s.scanDir(ctx, child, childParts, patterns, depth+1, w); err != nil {
				return err
			}
			s.setDirAttrs(child, info, w)
			dir.children = append(dir.children, child)
			continue
		}

		if !w.includesExt(name) {
			continue
		}
		dir.children = append(dir.children, s.fileNode(childPath, info, w))
	}
	return nil
}

func (s *FSScanner) readGitignore(dir string, parts []string) []gitignore.Pattern {
	data, ok, err := helper.ReadFileIfExists(s.Fs, filepath.Join(dir, ".gitignore"))
	if err != nil {
		s.Log.WithField("path", dir).WithError(err).Debug("cannot read .gitignore")
		return nil
	}
	if !ok {
		return nil
	}

	domain := append([]string{}, parts...)
	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	return patterns
}

func excluded(patterns []string, rel, name string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (w walkOptions) includesExt(name string) bool {
	if w.extensions == nil {
		return true
	}
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	return ext != "" && w.extensions[ext]
}

func (s *FSScanner) fileNode(path string, info os.FileInfo, w walkOptions) *Node {
	n := NewFile(path)
	if w.attributes[AttrSize] {
		n.Attrs.put(AttrSize, info.Size())
	}
	if w.attributes[AttrExtension] {
		n.Attrs.put(AttrExtension, strings.ToLower(filepath.Ext(path)))
	}
	s.setCommonAttrs(n, info, w)
	return n
}

func (s *FSScanner) setDirAttrs(n *Node, info os.FileInfo, w walkOptions) {
	if w.attributes[AttrSize] {
		var total int64
		for _, child := range n.children {
			if v, ok := child.Attrs.Get(AttrSize); ok {
				if size, ok := v.(int64); ok {
					total += size
				}
			}
		}
		n.Attrs.put(AttrSize, total)
	}
	s.setCommonAttrs(n, info, w)
}

func (s *FSScanner) setCommonAttrs(n *Node, info os.FileInfo, w walkOptions) {
	if w.attributes[AttrMode] {
		n.Attrs.put(AttrMode, info.Mode().Perm().String())
	}
	if w.attributes[AttrModified] {
		n.Attrs.put(AttrModified, info.ModTime().UTC().Format(time.RFC3339))
	}
}
