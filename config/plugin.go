package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sjzsdu/dirtree/project"
	"github.com/sjzsdu/dirtree/project/mirror"
	"github.com/sjzsdu/dirtree/share"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// 插件自身使用的顶层键，其余键作为扫描选项原样交给扫描器
const (
	FieldDir     = "dir"
	FieldPath    = "path"
	FieldWatch   = "watch"
	FieldStrict  = "strict"
	FieldWorkers = "workers"
	FieldWorkDir = "workdir"
)

var topLevelFields = map[string]bool{
	FieldDir:     true,
	FieldPath:    true,
	FieldWatch:   true,
	FieldStrict:  true,
	FieldWorkers: true,
	FieldWorkDir: true,
}

// Watch 镜像配置
type Watch struct {
	Dir      string `yaml:"dir"`
	Filename string `yaml:"filename,omitempty"`
	Sep      string `yaml:"sep,omitempty"`
}

// Plugin 一次构建周期使用的静态配置，加载后不再修改
type Plugin struct {
	Dirs    []string       `yaml:"dir"`
	Multi   bool           `yaml:"-"`
	Path    string         `yaml:"path"`
	Watch   *Watch         `yaml:"watch,omitempty"`
	Strict  bool           `yaml:"strict,omitempty"`
	Workers int            `yaml:"workers,omitempty"`
	WorkDir string         `yaml:"workdir,omitempty"`
	Scan    map[string]any `yaml:",inline"`
}

// Load 通过 viper 查找并读取配置文件（yaml/json/toml），环境变量 DIRTREE_* 覆盖文件中的值
//
// file 为空时依次在当前目录和 ~/.dirtree 下查找 dirtree.*，找不到则只使用环境变量与默认值。
func Load(file string) (*Plugin, error) {
	p, err := LoadUnchecked(file)
	if err != nil {
		return nil, err
	}
	return p, p.Validate()
}

// LoadUnchecked 与 Load 相同但不校验，供调用方先叠加命令行参数
func LoadUnchecked(file string) (*Plugin, error) {
	v := viper.New()
	v.SetConfigName(share.CONFIG_NAME)
	v.AddConfigPath(".")
	v.AddConfigPath(Home())
	if file != "" {
		v.SetConfigFile(file)
	}

	v.SetEnvPrefix(strings.TrimSuffix(share.PREFIX, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range []string{FieldDir, FieldPath, FieldStrict, FieldWorkers, FieldWorkDir, "watch.dir", "watch.filename", "watch.sep"} {
		v.BindEnv(key)
	}
	v.SetDefault(FieldPath, share.DEFAULT_MANIFEST)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	return FromMap(v.AllSettings())
}

// ConfigFile 未显式指定配置文件时使用持久化的 config_file 设置
func ConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	return GetConfig(KeyConfig)
}

// ApplySettings 用持久化设置补齐配置文件中缺省的字段
func (p *Plugin) ApplySettings() {
	if p.Workers == 0 {
		p.Workers = cast.ToInt(GetConfig(KeyWorkers))
	}
}

// FromMap 从键值集合构造配置，不做校验
func FromMap(m map[string]any) (*Plugin, error) {
	p := &Plugin{Scan: map[string]any{}}

	for key, value := range m {
		key = strings.ToLower(key)
		if !topLevelFields[key] {
			p.Scan[key] = value
			continue
		}
		var err error
		switch key {
		case FieldDir:
			p.Dirs, p.Multi, err = parseDirs(value)
		case FieldPath:
			p.Path, err = cast.ToStringE(value)
		case FieldWatch:
			p.Watch, err = parseWatch(value)
		case FieldStrict:
			p.Strict, err = cast.ToBoolE(value)
		case FieldWorkers:
			p.Workers, err = cast.ToIntE(value)
		case FieldWorkDir:
			p.WorkDir, err = cast.ToStringE(value)
		}
		if err != nil {
			return nil, fmt.Errorf("config %q: %w", key, err)
		}
	}
	return p, nil
}

// parseDirs 字符串为单根，列表为多根（即使只有一个元素）
func parseDirs(value any) ([]string, bool, error) {
	switch v := value.(type) {
	case nil:
		return nil, false, nil
	case string:
		if v == "" {
			return nil, false, nil
		}
		return []string{v}, false, nil
	default:
		dirs, err := cast.ToStringSliceE(v)
		return dirs, true, err
	}
}

func parseWatch(value any) (*Watch, error) {
	if value == nil {
		return nil, nil
	}
	m, err := cast.ToStringMapE(value)
	if err != nil {
		return nil, err
	}
	if len(m) == 0 {
		return nil, nil
	}
	w := &Watch{
		Dir:      cast.ToString(m["dir"]),
		Filename: cast.ToString(m["filename"]),
		Sep:      cast.ToString(m["sep"]),
	}
	return w, nil
}

// Validate 检查必填项与枚举值
func (p *Plugin) Validate() error {
	if len(p.Dirs) == 0 {
		return errors.New("config: dir is required")
	}
	for _, d := range p.Dirs {
		if strings.TrimSpace(d) == "" {
			return errors.New("config: dir contains an empty path")
		}
	}
	if p.Path == "" {
		return errors.New("config: path is required")
	}
	if p.Watch != nil {
		if p.Watch.Dir == "" {
			return errors.New("config: watch.dir is required when watch is set")
		}
		if _, err := mirror.ParseStrategy(p.Watch.Filename); err != nil {
			return fmt.Errorf("config: watch.filename: %w", err)
		}
	}
	if p.Workers < 0 {
		return errors.New("config: workers must not be negative")
	}
	return nil
}

// WatchEnabled 是否开启镜像
func (p *Plugin) WatchEnabled() bool {
	return p.Watch != nil && p.Watch.Dir != ""
}

// MirrorConfig 转换为镜像配置
func (p *Plugin) MirrorConfig() (mirror.Config, error) {
	if !p.WatchEnabled() {
		return mirror.Config{}, errors.New("watch is not configured")
	}
	strategy, err := mirror.ParseStrategy(p.Watch.Filename)
	if err != nil {
		return mirror.Config{}, err
	}
	sep := p.Watch.Sep
	if sep == "" {
		sep = share.DEFAULT_SEPARATOR
	}
	return mirror.Config{Dir: p.Watch.Dir, Strategy: strategy, Sep: sep}, nil
}

// ScanOptions 交给扫描器的选项
func (p *Plugin) ScanOptions() project.Options {
	return project.NewOptions(p.Scan)
}

// TopOptions 插件顶层选项，合并时优先于扫描选项
func (p *Plugin) TopOptions() project.Options {
	top := map[string]any{
		FieldPath: p.Path,
	}
	if p.Multi {
		top[FieldDir] = append([]string{}, p.Dirs...)
	} else if len(p.Dirs) > 0 {
		top[FieldDir] = p.Dirs[0]
	}
	if p.Watch != nil {
		top[FieldWatch] = map[string]any{
			"dir":      p.Watch.Dir,
			"filename": p.Watch.Filename,
			"sep":      p.Watch.Sep,
		}
	}
	return project.NewOptions(top)
}

// MarshalYAML 单根配置输出为字符串，多根输出为列表，保证读回后 Multi 不变
func (p Plugin) MarshalYAML() (any, error) {
	type plain struct {
		Dir     any            `yaml:"dir"`
		Path    string         `yaml:"path"`
		Watch   *Watch         `yaml:"watch,omitempty"`
		Strict  bool           `yaml:"strict,omitempty"`
		Workers int            `yaml:"workers,omitempty"`
		WorkDir string         `yaml:"workdir,omitempty"`
		Scan    map[string]any `yaml:",inline"`
	}
	out := plain{
		Path:    p.Path,
		Watch:   p.Watch,
		Strict:  p.Strict,
		Workers: p.Workers,
		WorkDir: p.WorkDir,
		Scan:    p.Scan,
	}
	if p.Multi {
		out.Dir = p.Dirs
	} else if len(p.Dirs) > 0 {
		out.Dir = p.Dirs[0]
	}
	return out, nil
}

// Starter init 命令生成的初始配置
func Starter() *Plugin {
	return &Plugin{
		Dirs: []string{"src"},
		Path: share.DEFAULT_MANIFEST,
		Scan: map[string]any{
			project.OptGitignore: true,
			project.OptExclude:   []string{"**/node_modules/**"},
		},
	}
}
