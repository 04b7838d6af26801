// Package cli is the parserbot command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yourusername/tg-channel-parser/config"
	"github.com/yourusername/tg-channel-parser/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// SetVersionInfo is called from main with build-time values
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	a := &app{}
	err := newRootCmd(a).Execute()
	a.close()
	_ = logging.Close()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Config is loaded and logging set up
// before any subcommand runs; only the bot logs to stdout.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "parserbot",
		Short:        "Keyword search over public Telegram channels",
		Long:         "parserbot searches recent posts of public Telegram channels for keywords, through a Telegram bot or from the command line.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			a.cfg = cfg
			logging.Init(logging.Config{
				Dir:    cfg.LogDir,
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Quiet:  cmd.Name() != "bot",
			})
			return nil
		},
	}

	root.AddCommand(
		newBotCmd(a),
		newAuthCmd(a),
		newProbeCmd(a),
		newSearchCmd(a),
		newCacheCmd(a),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "parserbot %s (commit: %s, built: %s)\n", version, commit, date)
		},
	}
}
