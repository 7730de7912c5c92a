package cmd

import (
	"github.com/sjzsdu/dirtree/config"
	"github.com/sjzsdu/dirtree/lang"
	"github.com/sjzsdu/dirtree/pipeline"
	"github.com/spf13/cobra"
)

// 构建类命令共用的覆盖参数
var (
	dirOverride  []string
	pathOverride string
	strictMode   bool
)

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&dirOverride, "dir", "d", nil, lang.T("Root directories, overrides the config file"))
	cmd.Flags().StringVarP(&pathOverride, "out", "o", "", lang.T("Manifest output path"))
	cmd.Flags().BoolVar(&strictMode, "strict", false, lang.T("Fail the cycle when the manifest cannot be written"))
}

// loadPluginConfig 读取配置文件并应用命令行覆盖
func loadPluginConfig(cmd *cobra.Command) (*config.Plugin, error) {
	cfg, err := loadConfig(cmd, configFile)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// loadConfig 未指定 --config 时使用持久化的 config_file 设置
func loadConfig(cmd *cobra.Command, file string) (*config.Plugin, error) {
	cfg, err := config.LoadUnchecked(config.ConfigFile(file))
	if err != nil {
		return nil, err
	}

	if len(dirOverride) > 0 {
		cfg.Dirs = dirOverride
		cfg.Multi = len(dirOverride) > 1
	}
	if pathOverride != "" {
		cfg.Path = pathOverride
	}
	if flag := cmd.Flags().Lookup("strict"); flag != nil && flag.Changed {
		cfg.Strict = strictMode
	}
	if workDir != "" {
		cfg.WorkDir = workDir
	}
	cfg.ApplySettings()
	return cfg, nil
}

func newPlugin(cmd *cobra.Command, opts ...pipeline.Option) (*pipeline.Plugin, error) {
	cfg, err := loadPluginConfig(cmd)
	if err != nil {
		return nil, err
	}
	return pipeline.New(cfg, opts...)
}
