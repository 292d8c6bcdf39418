package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rcforge/fileenum/internal/enumerate"
	"github.com/rcforge/fileenum/internal/watch"
	"github.com/spf13/cobra"
)

var watchDebounce time.Duration

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watch.DefaultDebounce, "Quiet period before regenerating after a change")
	rootCmd.AddCommand(watchCmd)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the manifest whenever the tree changes",
	Long: `Generate the manifest, then keep watching the root directory and regenerate
the whole manifest after files are added, removed or renamed. Stops on Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	opts, err := enumerateOptions()
	if err != nil {
		return err
	}

	w, err := watch.New(opts, logger, watchDebounce)
	if err != nil {
		return err
	}
	w.OnGenerate = func(res *enumerate.Result) {
		if !flagQuiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", len(res.Entries), res.ManifestPath)
		}
	}
	w.OnError = func(err error) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !flagQuiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl-C to stop)\n", opts.Root)
	}
	if err := w.Run(ctx); err != nil {
		return fmt.Errorf("watching %s: %w", opts.Root, err)
	}
	return nil
}
