package cmd

import (
	"fmt"
	"sort"

	"github.com/sjzsdu/dirtree/config"
	"github.com/sjzsdu/dirtree/lang"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: lang.T("Show or set configuration"),
	Long: lang.T(`Without flags, print the effective plugin configuration as YAML.
With setting flags, persist the values under ~/.dirtree/config.`),
	Args: cobra.NoArgs,
	RunE: handleConfigCommand,
}

var showAllConfigs bool

func init() {
	configCmd.Flags().BoolVarP(&showAllConfigs, "list", "l", false, lang.T("List all persisted settings"))

	// 通过遍历 ConfigKeys 自动添加所有配置项
	for key, info := range config.ConfigKeys {
		configCmd.Flags().String(key, "", lang.T(info.Description))
	}
	rootCmd.AddCommand(configCmd)
}

func handleConfigCommand(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if showAllConfigs {
		fmt.Fprintln(out, lang.T("Current configurations:"))
		keys := make([]string, 0, len(config.ConfigKeys))
		for key := range config.ConfigKeys {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if value := config.GetConfig(key); value != "" {
				fmt.Fprintf(out, "%s=%s\n", config.GetEnvKey(key), value)
			}
		}
		return nil
	}

	changed := false
	for key := range config.ConfigKeys {
		flag := cmd.Flag(key)
		if flag == nil || !flag.Changed {
			continue
		}
		value := flag.Value.String()
		if !config.IsValidConfigOption(key, value) {
			return fmt.Errorf(lang.T("Invalid value %q for %s, expected one of %v"), value, key, config.GetConfigOptions(key))
		}
		config.SetConfig(key, value)
		changed = true
	}
	if changed {
		if err := config.SaveConfig(); err != nil {
			return fmt.Errorf(lang.T("Error saving config")+": %w", err)
		}
		fmt.Fprintln(out, lang.T("Configuration saved"))
		return nil
	}

	cfg, err := loadConfig(cmd, configFile)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
