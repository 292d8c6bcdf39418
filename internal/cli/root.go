package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/rcforge/fileenum/internal/branding"
	"github.com/rcforge/fileenum/internal/config"
	"github.com/rcforge/fileenum/internal/enumerate"
	"github.com/rcforge/fileenum/internal/logging"
	"github.com/rcforge/fileenum/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	flagRoot    string
	flagOutput  string
	flagOrder   string
	flagConfig  string
	flagVerbose bool
	flagQuiet   bool
)

// Set by PersistentPreRunE for every command that needs configuration.
var (
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` walks a resource directory and writes a manifest listing every file
in it, one root-relative path per line, into a file inside the same directory.

Run without a subcommand to regenerate defaultrc/enumerated.txt.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runGenerate,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flagRoot, config.KeyRoot, "r", enumerate.DefaultRoot, "Directory to enumerate")
	pf.StringVarP(&flagOutput, config.KeyOutput, "o", enumerate.DefaultManifestName, "Manifest file name, written inside the root")
	pf.StringVar(&flagOrder, config.KeyOrder, string(enumerate.OrderSorted), "Entry order: sorted or traversal")
	pf.StringVar(&flagConfig, "config", "", "Config file (default ./"+config.DefaultPath()+")")
	pf.BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress informational output")
}

// setup loads configuration and the logger. Commands that must work with a
// broken or absent config skip it.
func setup(cmd *cobra.Command, args []string) error {
	name := cmd.Name()
	if name == "version" || name == "validate" || name == "set" || name == "help" {
		return nil
	}

	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if err := c.BindFlags(cmd.Flags()); err != nil {
		return err
	}

	l, err := logging.New(logging.Options{
		Verbose: flagVerbose,
		Level:   c.Get(config.KeyLogLevel),
	})
	if err != nil {
		return err
	}

	if err := version.Require(buildVersion, c.Get(config.KeyRequireVersion)); err != nil {
		if errors.Is(err, version.ErrUnsatisfied) {
			return fmt.Errorf("%s requires %s %s; install a matching release: %w",
				c.Path(), branding.CLIName(), c.Get(config.KeyRequireVersion), err)
		}
		return fmt.Errorf("checking %s in %s: %w", config.KeyRequireVersion, c.Path(), err)
	}

	cfg, logger = c, l
	logger.Debug("configuration loaded",
		zap.String("config", c.Path()),
		zap.Bool("file", c.FileUsed()))
	return nil
}

// enumerateOptions returns generator options for the effective configuration.
func enumerateOptions() (enumerate.Options, error) {
	opts, err := cfg.EnumerateOptions()
	if err != nil {
		return enumerate.Options{}, err
	}
	opts.Logger = logger
	return opts, nil
}

// Execute runs the root command with build info injected via ldflags.
func Execute(ver, commit, date string) error {
	buildVersion = ver
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}
