package cmd

import (
	"fmt"

	"github.com/sjzsdu/dirtree/helper"
	"github.com/sjzsdu/dirtree/lang"
	"github.com/sjzsdu/dirtree/project"
	"github.com/sjzsdu/dirtree/project/manifest"
	"github.com/sjzsdu/dirtree/project/search"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	absPaths   bool
	pathsGlob  string
	pathsRegex string
	pathsExts  []string
	pathsDirs  bool
)

var pathsCmd = &cobra.Command{
	Use:   "paths [manifest]",
	Short: lang.T("List the file paths recorded in a manifest"),
	Long: lang.T(`Read a manifest and print every file path in depth-first order.
Without an argument the manifest path from the config is used.`),
	Args: cobra.MaximumNArgs(1),
	RunE: runPaths,
}

func init() {
	pathsCmd.Flags().BoolVarP(&absPaths, "abs", "a", false, lang.T("Resolve paths against the work directory"))
	pathsCmd.Flags().StringVarP(&pathsGlob, "match", "g", "", lang.T("Only print paths matching this glob"))
	pathsCmd.Flags().StringVar(&pathsRegex, "regex", "", lang.T("Only print paths whose name matches this regular expression"))
	pathsCmd.Flags().StringSliceVarP(&pathsExts, "ext", "e", nil, lang.T("Only print files with these extensions"))
	pathsCmd.Flags().BoolVar(&pathsDirs, "dirs", false, lang.T("Print directories instead of files"))
	rootCmd.AddCommand(pathsCmd)
}

func runPaths(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) > 0 {
		path = args[0]
	} else {
		cfg, err := loadConfig(cmd, configFile)
		if err != nil {
			return err
		}
		path = cfg.Path
	}

	f, err := manifest.Load(afero.NewOsFs(), path)
	if err != nil {
		return err
	}

	base, err := helper.WorkDir(workDir)
	if err != nil {
		return err
	}
	paths, err := selectPaths(f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range paths {
		if absPaths {
			p = helper.ResolvePath(base, p)
		}
		fmt.Fprintln(out, p)
	}
	return nil
}

func selectPaths(f *project.Forest) ([]string, error) {
	if pathsGlob == "" && pathsRegex == "" && len(pathsExts) == 0 && !pathsDirs {
		return f.FilePaths(), nil
	}
	nodes, err := search.Search(f, search.Options{
		Glob:            pathsGlob,
		NameRegex:       pathsRegex,
		Extensions:      pathsExts,
		IncludeHidden:   true,
		IncludeDirs:     pathsDirs,
		IncludeFiles:    !pathsDirs,
		CaseInsensitive: true,
	})
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(nodes))
	for _, n := range nodes {
		paths = append(paths, n.Path)
	}
	return paths, nil
}
