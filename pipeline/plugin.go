package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sjzsdu/dirtree/config"
	"github.com/sjzsdu/dirtree/helper"
	"github.com/sjzsdu/dirtree/project"
	"github.com/sjzsdu/dirtree/project/manifest"
	"github.com/sjzsdu/dirtree/project/mirror"
	"github.com/sjzsdu/dirtree/share"
	"github.com/spf13/afero"
)

// PluginName 注册钩子时使用的名称
const PluginName = "DirectoryTreePlugin"

// CycleResult 一个构建周期的结果
type CycleResult struct {
	Forest      *project.Forest
	Written     bool
	ManifestErr error
	WatchPaths  []string
	Mirror      *mirror.Report
}

// Plugin 目录树插件：扫描、增强、写清单，watch 模式下镜像文件并登记文件依赖
type Plugin struct {
	cfg      *config.Plugin
	fs       afero.Fs
	scanner  project.Scanner
	builder  *project.Builder
	writer   *manifest.Writer
	enhance  project.EnhanceFunc
	workDir  string
	roots    []string // 扫描根目录，设置了工作目录时已按其解析
	path     string   // 清单路径，解析规则同 roots
	log      logrus.FieldLogger
	observe  func(r mirror.Result, total int)
	scanOpts project.Options
	topOpts  project.Options

	mu      sync.Mutex
	pending *CycleResult // compile 钩子留给同一周期 emit 钩子的结果
	last    *CycleResult
}

// Option 插件选项
type Option func(*Plugin)

// WithEnhancer 设置节点增强函数
func WithEnhancer(fn project.EnhanceFunc) Option {
	return func(p *Plugin) {
		p.enhance = fn
	}
}

// WithFs 设置文件系统，默认使用操作系统文件系统
func WithFs(fs afero.Fs) Option {
	return func(p *Plugin) {
		p.fs = fs
	}
}

// WithScanner 替换默认的目录扫描器
func WithScanner(s project.Scanner) Option {
	return func(p *Plugin) {
		p.scanner = s
	}
}

// WithWorkDir 设置计算镜像路径的工作目录，默认为进程当前目录
func WithWorkDir(dir string) Option {
	return func(p *Plugin) {
		p.workDir = dir
	}
}

// WithMirrorObserver 每个文件镜像完成后回调，用于展示进度
func WithMirrorObserver(fn func(r mirror.Result, total int)) Option {
	return func(p *Plugin) {
		p.observe = fn
	}
}

// WithLogger 设置日志
func WithLogger(l logrus.FieldLogger) Option {
	return func(p *Plugin) {
		p.log = l
	}
}

// New 创建插件，cfg 会先被校验
func New(cfg *config.Plugin, opts ...Option) (*Plugin, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%s: nil config", PluginName)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &Plugin{
		cfg:      cfg,
		workDir:  cfg.WorkDir,
		log:      share.Component("plugin"),
		scanOpts: cfg.ScanOptions(),
		topOpts:  cfg.TopOptions(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.fs == nil {
		p.fs = afero.NewOsFs()
	}

	override := p.workDir != ""
	workDir, err := helper.WorkDir(p.workDir)
	if err != nil {
		return nil, fmt.Errorf("resolve work dir: %w", err)
	}
	p.workDir = workDir

	// 指定了工作目录时相对路径按它解析；未指定时保留相对路径
	p.roots = append([]string(nil), cfg.Dirs...)
	p.path = cfg.Path
	if override {
		for i, dir := range p.roots {
			p.roots[i] = helper.ResolvePath(workDir, dir)
		}
		p.path = helper.ResolvePath(workDir, cfg.Path)
	}

	if p.scanner == nil {
		s := project.NewFSScanner(p.fs)
		s.Skip = p.ownOutput
		p.scanner = s
	}
	p.builder = project.NewBuilder(p.scanner)
	p.builder.Workers = cfg.Workers
	p.writer = manifest.NewWriter(p.fs, p.path)
	return p, nil
}

// Apply 向宿主注册 compile 与 emit 钩子
func (p *Plugin) Apply(c Compiler) {
	c.OnCompile(PluginName, p.compile)
	c.OnEmit(PluginName, p.emit)
}

// Config 返回插件配置
func (p *Plugin) Config() *config.Plugin {
	return p.cfg
}

// WorkDir 返回解析后的工作目录
func (p *Plugin) WorkDir() string {
	return p.workDir
}

// Roots 解析后的扫描根目录（绝对路径），供宿主监听
func (p *Plugin) Roots() []string {
	roots := make([]string, len(p.roots))
	for i, dir := range p.roots {
		roots[i] = helper.ResolvePath(p.workDir, dir)
	}
	return roots
}

// ManifestPath 清单实际写入的路径
func (p *Plugin) ManifestPath() string {
	return p.path
}

// LastResult 最近一次完成的构建周期结果
func (p *Plugin) LastResult() *CycleResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Build 扫描、增强并按需写入清单
//
// 扫描失败返回错误；清单写入失败在 strict 模式下返回错误，
// 否则记录日志并写入 CycleResult.ManifestErr 后继续。
func (p *Plugin) Build(ctx context.Context) (*CycleResult, error) {
	forest, err := p.builder.Build(ctx, p.roots, p.cfg.Multi, p.scanOpts)
	if err != nil {
		return nil, err
	}
	project.Enhance(forest, p.enhance, p.topOpts, p.scanOpts)

	res := &CycleResult{Forest: forest}
	res.Written, err = p.writer.Write(forest)
	if err != nil {
		if p.cfg.Strict {
			return res, err
		}
		p.log.WithError(err).Error("failure building directory tree")
		res.ManifestErr = err
	}
	return res, nil
}

// Run 不经过宿主执行一个完整周期
func (p *Plugin) Run(ctx context.Context) (*CycleResult, error) {
	res, err := p.Build(ctx)
	if err != nil {
		return res, err
	}
	if err := p.syncWatch(ctx, res); err != nil {
		return res, err
	}
	p.setLast(res)
	return res, nil
}

func (p *Plugin) compile(ctx context.Context) error {
	res, err := p.Build(ctx)
	if err != nil {
		return err
	}
	p.mu.Lock()
	p.pending = res
	p.mu.Unlock()
	return nil
}

// emit 所有路径最终都经过同一个 finish，done 只会被调用一次
func (p *Plugin) emit(ctx context.Context, c *Compilation, done func(error)) {
	var once sync.Once
	finish := func(err error) {
		once.Do(func() { done(err) })
	}
	defer func() {
		if r := recover(); r != nil {
			finish(fmt.Errorf("%s: panic: %v", PluginName, r))
		}
	}()

	finish(p.emitCycle(ctx, c))
}

func (p *Plugin) emitCycle(ctx context.Context, c *Compilation) error {
	p.mu.Lock()
	res := p.pending
	p.pending = nil
	p.mu.Unlock()

	if res == nil {
		var err error
		if res, err = p.Build(ctx); err != nil {
			return err
		}
	}
	if err := p.syncWatch(ctx, res); err != nil {
		return err
	}
	c.AddFileDependencies(res.WatchPaths...)
	p.setLast(res)
	return nil
}

// syncWatch 提取文件路径并镜像到 watch 目录；未开启 watch 时什么都不做
func (p *Plugin) syncWatch(ctx context.Context, res *CycleResult) error {
	if !p.cfg.WatchEnabled() {
		return nil
	}
	mcfg, err := p.cfg.MirrorConfig()
	if err != nil {
		return err
	}

	m := mirror.New(p.fs, mcfg, p.workDir)
	m.Workers = p.cfg.Workers
	m.Observe = p.observe

	paths := res.Forest.FilePaths()
	watch := make([]string, len(paths))
	for i, path := range paths {
		watch[i] = helper.ResolvePath(p.workDir, path)
	}
	res.WatchPaths = watch
	res.Mirror = m.All(ctx, watch)

	p.log.WithFields(logrus.Fields{
		"files":     res.Mirror.Len(),
		"copied":    res.Mirror.Count(mirror.StatusCopied),
		"unchanged": res.Mirror.Count(mirror.StatusUnchanged),
		"missing":   res.Mirror.Count(mirror.StatusMissing),
		"failed":    res.Mirror.Count(mirror.StatusFailed),
	}).Debug("mirror pass finished")
	return nil
}

func (p *Plugin) setLast(res *CycleResult) {
	p.mu.Lock()
	p.last = res
	p.mu.Unlock()
}

// OutputPaths 插件自己写出的路径（清单文件与镜像目录），宿主监听时应忽略
func (p *Plugin) OutputPaths() []string {
	out := []string{helper.ResolvePath(p.workDir, p.path)}
	if p.cfg.WatchEnabled() {
		out = append(out, helper.ResolvePath(p.workDir, p.cfg.Watch.Dir))
	}
	return out
}

// ownOutput 默认扫描器跳过插件自己的输出，避免清单和镜像文件被再次扫描
func (p *Plugin) ownOutput(path string, _ bool) bool {
	abs := helper.ResolvePath(p.workDir, path)
	for _, out := range p.OutputPaths() {
		if abs == out || strings.HasPrefix(abs, out+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
