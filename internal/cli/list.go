package cli

import (
	"encoding/json"
	"fmt"

	"github.com/rcforge/fileenum/internal/enumerate"
	"github.com/spf13/cobra"
)

var listJSON bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the entries the manifest would contain",
	Long:  `Enumerate the root directory and print the entries to stdout without writing the manifest.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	opts, err := enumerateOptions()
	if err != nil {
		return err
	}

	entries, err := enumerate.Collect(opts)
	if err != nil {
		return fmt.Errorf("enumerating %s: %w", opts.Root, err)
	}

	if listJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}
	return enumerate.WriteManifest(cmd.OutOrStdout(), entries)
}
