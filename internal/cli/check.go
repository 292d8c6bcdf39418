package cli

import (
	"errors"
	"fmt"

	"github.com/rcforge/fileenum/internal/enumerate"
	"github.com/spf13/cobra"
)

// ErrStale is returned by the check command when the manifest is out of date.
var ErrStale = errors.New("manifest is stale")

func init() {
	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the manifest matches the directory tree",
	Long: `Enumerate the root directory and compare the result with the manifest on
disk without rewriting it. Exits non-zero when the manifest is missing or stale.`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	opts, err := enumerateOptions()
	if err != nil {
		return err
	}

	drift, err := enumerate.Check(opts)
	if err != nil {
		return fmt.Errorf("checking manifest: %w", err)
	}

	out := cmd.OutOrStdout()
	if !drift.Stale() {
		if !flagQuiet {
			fmt.Fprintln(out, "Manifest is up to date.")
		}
		return nil
	}

	switch {
	case drift.Missing:
		fmt.Fprintf(out, "Manifest %s does not exist.\n", drift.ManifestPath)
	case drift.Reordered:
		fmt.Fprintf(out, "Manifest %s lists the right files in the wrong order.\n", drift.ManifestPath)
	default:
		fmt.Fprintf(out, "Manifest %s is out of date:\n", drift.ManifestPath)
	}
	if !drift.Missing {
		for _, e := range drift.Added {
			fmt.Fprintf(out, "  + %s\n", e)
		}
		for _, e := range drift.Removed {
			fmt.Fprintf(out, "  - %s\n", e)
		}
	}
	return ErrStale
}
