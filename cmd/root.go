package cmd

import (
	"fmt"
	"os"

	"github.com/sjzsdu/dirtree/config"
	"github.com/sjzsdu/dirtree/lang"
	"github.com/sjzsdu/dirtree/share"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

var (
	configFile string
	workDir    string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   share.BUILDNAME,
	Short: lang.T("Directory tree manifest tool"),
	Long:  lang.T("Scan directories into a JSON manifest, written only when it changes, and mirror watched files"),
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(); err != nil {
			return fmt.Errorf(lang.T("Error loading config")+": %w", err)
		}
		if lg := config.GetConfig(config.KeyLang); lg != "" {
			lang.SetLanguage(lg)
		}
		share.SetDebug(debugMode || cast.ToBool(config.GetConfig(config.KeyDebug)))
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			cmd.Help()
			return
		}
		fmt.Fprintln(os.Stderr, lang.T("Invalid arguments")+": ", args)
		os.Exit(1)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", lang.T("Plugin config file"))
	rootCmd.PersistentFlags().StringVarP(&workDir, "workdir", "w", "", lang.T("Work directory used for mirror paths"))
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "v", false, lang.T("Debug mode"))
}
