package cmd

import (
	"fmt"

	"github.com/sjzsdu/dirtree/helper"
	"github.com/sjzsdu/dirtree/lang"
	"github.com/sjzsdu/dirtree/pipeline"
	"github.com/sjzsdu/dirtree/project/mirror"
	"github.com/sjzsdu/dirtree/project/tree"
	"github.com/sjzsdu/dirtree/share"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: lang.T("Build the directory tree manifest once"),
	Long: lang.T(`Scan the configured roots and write the manifest if its content changed.
When watch is configured the scanned files are also mirrored.`),
	Args: cobra.NoArgs,
	RunE: runBuild,
}

var showProgress bool

func init() {
	addBuildFlags(buildCmd)
	buildCmd.Flags().BoolVarP(&showProgress, "progress", "p", false, lang.T("Show mirror progress"))
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	var opts []pipeline.Option
	var bar *helper.Progress
	if showProgress {
		bar = helper.NewProgress(cmd.ErrOrStderr(), lang.T("Mirroring"), 0)
		opts = append(opts, pipeline.WithMirrorObserver(func(r mirror.Result, total int) {
			bar.SetTotal(total)
			bar.Increment()
		}))
	}

	p, err := newPlugin(cmd, opts...)
	if err != nil {
		return err
	}
	res, err := p.Run(cmd.Context())
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		return err
	}
	printCycle(cmd, p, res)
	return nil
}

func printCycle(cmd *cobra.Command, p *pipeline.Plugin, res *pipeline.CycleResult) {
	out := cmd.OutOrStdout()
	path := p.ManifestPath()

	switch {
	case res.ManifestErr != nil:
		fmt.Fprintf(out, "%s: %v\n", lang.T("Manifest not written"), res.ManifestErr)
	case res.Written:
		fmt.Fprintf(out, "%s: %s\n", lang.T("Manifest written"), path)
	default:
		fmt.Fprintf(out, "%s: %s\n", lang.T("Manifest unchanged"), path)
	}
	fmt.Fprintln(out, tree.ForestStats(res.Forest).String())

	if res.Mirror != nil {
		fmt.Fprintf(out, lang.T("Mirrored %d files: %d copied, %d unchanged, %d missing, %d failed")+"\n",
			res.Mirror.Len(),
			res.Mirror.Count(mirror.StatusCopied),
			res.Mirror.Count(mirror.StatusUnchanged),
			res.Mirror.Count(mirror.StatusMissing),
			res.Mirror.Count(mirror.StatusFailed))
		for _, err := range res.Mirror.Errors() {
			fmt.Fprintf(cmd.ErrOrStderr(), "  %v\n", err)
		}
		if share.IsDebug() {
			for _, r := range res.Mirror.Results {
				if r.Status == mirror.StatusCopied {
					fmt.Fprintf(out, "  %s -> %s\n", r.Src, r.Dest)
				}
			}
		}
	}
}
