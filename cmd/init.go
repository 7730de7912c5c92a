package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sjzsdu/dirtree/config"
	"github.com/sjzsdu/dirtree/helper"
	"github.com/sjzsdu/dirtree/lang"
	"github.com/sjzsdu/dirtree/share"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: lang.T("Create a starter config file"),
	Long:  lang.T("Write dirtree.yaml with default settings into the work directory"),
	Args:  cobra.NoArgs,
	RunE:  handleInitCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, lang.T("Overwrite an existing config file"))
	rootCmd.AddCommand(initCmd)
}

func handleInitCommand(cmd *cobra.Command, args []string) error {
	base, err := helper.WorkDir(workDir)
	if err != nil {
		return err
	}
	configPath := filepath.Join(base, share.CONFIG_NAME+".yaml")

	fs := afero.NewOsFs()
	if _, err := fs.Stat(configPath); err == nil && !forceInit {
		ok, err := helper.PromptYesNo(cmd.InOrStdin(), cmd.OutOrStdout(),
			fmt.Sprintf(lang.T("%s already exists, overwrite? [y/N] "), configPath), false)
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		if !ok {
			return fmt.Errorf(lang.T("Config file already exists")+": %s", configPath)
		}
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	data, err := yaml.Marshal(config.Starter())
	if err != nil {
		return err
	}
	if err := helper.WriteFileAtomic(fs, configPath, data); err != nil {
		return fmt.Errorf(lang.T("Failed to write config file")+": %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), lang.T("Config file created")+": "+configPath)
	return nil
}
