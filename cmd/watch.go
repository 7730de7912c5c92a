package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sjzsdu/dirtree/lang"
	"github.com/sjzsdu/dirtree/pipeline"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: lang.T("Rebuild the manifest whenever files change"),
	Long: lang.T(`Run a build cycle, then watch the roots and every registered file
and run a new cycle after changes settle. Stop with Ctrl+C.`),
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	addBuildFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	p, err := newPlugin(cmd)
	if err != nil {
		return err
	}

	host := pipeline.NewHost()
	p.Apply(host)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(cmd.OutOrStdout(), lang.T("Watching for changes, press Ctrl+C to stop"))
	return host.Watch(ctx, pipeline.WatchOptions{
		Roots:  p.Roots(),
		Ignore: p.OutputPaths(),
		OnCycle: func(c *pipeline.Compilation, err error) {
			if err != nil {
				if ctx.Err() == nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", lang.T("Build failed"), err)
				}
				return
			}
			if res := p.LastResult(); res != nil {
				printCycle(cmd, p, res)
			}
		},
	})
}

