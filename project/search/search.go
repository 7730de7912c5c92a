// Package search 在目录树中按名称、glob 与扩展名筛选节点
package search

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/sjzsdu/dirtree/project"
)

// Options 定义搜索选项
type Options struct {
	// 名称包含（子串匹配）
	NameContains string
	// 名称正则（优先于 NameContains）
	NameRegex string
	// 相对根节点路径的 glob，如 "src/**/*.go"；不含 / 的模式只匹配名称
	Glob string
	// 仅对文件生效的扩展名过滤，如 []string{"go","md"}；为空或包含 "*" 表示不过滤
	Extensions []string
	// 是否包含隐藏文件/目录（以 . 开头），为 false 时隐藏目录整棵跳过
	IncludeHidden bool
	// 是否在结果中包含目录
	IncludeDirs bool
	// 是否在结果中包含文件
	IncludeFiles bool
	// 限制搜索深度，0 表示不限制；根深度为 0
	MaxDepth int
	// 名称匹配大小写不敏感（对子串与正则均生效）
	CaseInsensitive bool
}

// DefaultOptions 只返回文件，跳过隐藏项
func DefaultOptions() Options {
	return Options{
		IncludeFiles:    true,
		CaseInsensitive: true,
	}
}

// Search 在森林中搜索，结果保持深度优先的遍历顺序
func Search(f *project.Forest, opts Options) ([]*project.Node, error) {
	if f == nil {
		return nil, nil
	}
	m, err := newMatcher(opts)
	if err != nil {
		return nil, err
	}

	c := &collector{m: m, maxDepth: opts.MaxDepth, hidden: opts.IncludeHidden}
	for _, root := range f.Roots {
		c.base = root.Path
		if err := project.Walk(root, c); err != nil {
			return nil, err
		}
	}
	return c.matched, nil
}

// collector 实现 project.NodeVisitor，按遍历顺序收集命中节点
type collector struct {
	m        *matcher
	base     string
	maxDepth int
	hidden   bool
	matched  []*project.Node
}

func (c *collector) skip(n *project.Node, depth int) bool {
	if c.maxDepth > 0 && depth > c.maxDepth {
		return true
	}
	return depth > 0 && !c.hidden && strings.HasPrefix(n.Name, ".")
}

func (c *collector) VisitDirectory(n *project.Node, depth int) error {
	if c.skip(n, depth) {
		return project.SkipChildren
	}
	c.visit(n)
	return nil
}

func (c *collector) VisitFile(n *project.Node, depth int) error {
	if !c.skip(n, depth) {
		c.visit(n)
	}
	return nil
}

func (c *collector) visit(n *project.Node) {
	if c.m.match(n, relPath(c.base, n.Path)) {
		c.matched = append(c.matched, n)
	}
}

type matcher struct {
	opts   Options
	nameRe *regexp.Regexp
}

func newMatcher(opts Options) (*matcher, error) {
	m := &matcher{opts: opts}
	if opts.NameRegex != "" {
		pattern := opts.NameRegex
		if opts.CaseInsensitive && !strings.HasPrefix(pattern, "(?i)") {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, err
		}
		m.nameRe = re
	}
	if opts.Glob != "" && !doublestar.ValidatePattern(opts.Glob) {
		return nil, fmt.Errorf("invalid glob %q: %w", opts.Glob, doublestar.ErrBadPattern)
	}
	return m, nil
}

func (m *matcher) match(n *project.Node, rel string) bool {
	if n.IsDir() && !m.opts.IncludeDirs {
		return false
	}
	if !n.IsDir() && !m.opts.IncludeFiles {
		return false
	}
	if !n.IsDir() && !allowByExt(n.Name, m.opts.Extensions) {
		return false
	}
	return m.matchName(n.Name) && m.matchGlob(n.Name, rel)
}

func (m *matcher) matchName(name string) bool {
	if m.nameRe != nil {
		return m.nameRe.MatchString(name)
	}
	if m.opts.NameContains == "" {
		return true
	}
	if m.opts.CaseInsensitive {
		return strings.Contains(strings.ToLower(name), strings.ToLower(m.opts.NameContains))
	}
	return strings.Contains(name, m.opts.NameContains)
}

func (m *matcher) matchGlob(name, rel string) bool {
	if m.opts.Glob == "" {
		return true
	}
	target := rel
	if !strings.Contains(m.opts.Glob, "/") {
		target = name
	}
	ok, _ := doublestar.Match(m.opts.Glob, target)
	return ok
}

func allowByExt(name string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	for _, e := range exts {
		if e == "*" || e == "" {
			return true
		}
	}
	// 提取扩展名（不含点）
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return false
	}
	ext := name[i+1:]
	for _, e := range exts {
		if strings.EqualFold(ext, strings.TrimPrefix(e, ".")) {
			return true
		}
	}
	return false
}

// relPath 相对根节点的 / 分隔路径，根本身为 "."
func relPath(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
