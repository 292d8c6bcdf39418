package cli

import (
	"fmt"

	"github.com/rcforge/fileenum/internal/enumerate"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(generateCmd)
}

var generateCmd = &cobra.Command{
	Use:     "generate",
	Aliases: []string{"gen"},
	Short:   "Write the manifest file",
	Long: `Enumerate every file under the root directory and overwrite the manifest
with their root-relative paths, one per line. The manifest never lists itself.`,
	Args: cobra.NoArgs,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	opts, err := enumerateOptions()
	if err != nil {
		return err
	}

	res, err := enumerate.Generate(opts)
	if err != nil {
		return fmt.Errorf("generating manifest: %w", err)
	}

	if !flagQuiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d entries to %s\n", len(res.Entries), res.ManifestPath)
	}
	return nil
}
