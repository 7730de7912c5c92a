package cmd

import (
	"fmt"

	"github.com/sjzsdu/dirtree/lang"
	"github.com/sjzsdu/dirtree/project"
	"github.com/sjzsdu/dirtree/project/manifest"
	"github.com/sjzsdu/dirtree/project/tree"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var (
	depth        int
	showFiles    bool
	showHidden   bool
	noFiles      bool
	showStats    bool
	fromManifest string
	noGitignore  bool
)

var treeCmd = &cobra.Command{
	Use:   "tree [path]",
	Short: lang.T("Show a directory as a tree"),
	Long: lang.T(`tree scans a directory, or reads an existing manifest, and prints it as a tree.

Examples:
  dirtree tree                      # current directory
  dirtree tree /path/to/dir         # a given directory
  dirtree tree --depth 2            # limit the depth to 2 levels
  dirtree tree --no-files           # directories only
  dirtree tree --hidden             # include hidden files
  dirtree tree --manifest tree.json # render a manifest
  dirtree tree --stats              # print statistics`),
	Args: cobra.MaximumNArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().IntVarP(&depth, "depth", "", -1, lang.T("Limit the display depth (-1 means unlimited)"))
	treeCmd.Flags().BoolVarP(&showFiles, "files", "f", true, lang.T("Show files"))
	treeCmd.Flags().BoolVarP(&showHidden, "hidden", "a", false, lang.T("Show hidden files"))
	treeCmd.Flags().BoolVarP(&noFiles, "no-files", "", false, lang.T("Show directories only"))
	treeCmd.Flags().BoolVarP(&showStats, "stats", "s", false, lang.T("Show statistics"))
	treeCmd.Flags().StringVarP(&fromManifest, "manifest", "m", "", lang.T("Render an existing manifest instead of scanning"))
	treeCmd.Flags().BoolVarP(&noGitignore, "no-gitignore", "n", false, lang.T("Disable .gitignore rules"))
	rootCmd.AddCommand(treeCmd)
}

func runTree(cmd *cobra.Command, args []string) error {
	f, err := treeForest(cmd, args)
	if err != nil {
		return err
	}

	if noFiles {
		showFiles = false
	}
	opts := tree.Options{ShowFiles: showFiles, ShowHidden: showHidden, MaxDepth: depth}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, tree.RenderForest(f, opts))
	if showStats {
		fmt.Fprintf(out, "\n%s\n", tree.ForestStats(f).String())
	}
	return nil
}

func treeForest(cmd *cobra.Command, args []string) (*project.Forest, error) {
	fs := afero.NewOsFs()
	if fromManifest != "" {
		return manifest.Load(fs, fromManifest)
	}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	opts := project.NewOptions(map[string]any{
		project.OptGitignore: !noGitignore,
		project.OptHidden:    true,
		project.OptDepth:     depth,
	})
	root, err := project.NewFSScanner(fs).Scan(cmd.Context(), target, opts)
	if err != nil {
		return nil, err
	}
	return project.NewForest(false, root), nil
}
