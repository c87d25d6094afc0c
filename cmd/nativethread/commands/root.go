package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/haivivi/nativethread/pkg/cli"
)

var (
	// Global flags
	verbose    bool
	configPath string
)

var rootCmd = &cobra.Command{
	Use:   "nativethread",
	Short: "Run and interrupt hard-cancellable native threads",
	Long: `nativethread - launch native routines on threads that can be
brutally stopped mid-execution.

Each run spawns one detached OS thread, executes a native entry point and
fires exactly one outcome callback: ok on normal return, cancelled when an
interrupt lands first. Outcomes are journaled to a local BadgerDB store so
runs that died with the process can be found afterwards.

Configuration is stored in ~/.nativethread/config.yaml.

Examples:
  # Run the built-in sleeping routine to completion
  nativethread run --entry sleep --sleep 200ms

  # Launch a spin loop and kill it after half a second
  nativethread run --entry spin --interrupt-after 500ms

  # Inspect past runs
  nativethread runs`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
}

// loadConfig loads the CLI configuration, honoring --config.
func loadConfig() (*cli.Config, error) {
	cfg, err := cli.LoadConfigWithPath(configPath)
	if err != nil {
		return nil, fmt.Errorf("config not available: %w", err)
	}
	return cfg, nil
}

// newLogger builds the CLI logger from config and the --verbose flag.
func newLogger(cfg *cli.Config) *slog.Logger {
	level := cfg.SlogLevel()
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
