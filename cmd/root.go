// -- cmd/root.go --
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/forceps-cli/internal/config"
	"github.com/xkilldash9x/forceps-cli/internal/observability"
)

// NewRootCommand builds the root command and wires up all subcommands. A
// fresh instance per invocation keeps flag state from leaking between runs.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	var cfg *config.Config

	rootCmd := &cobra.Command{
		Use:     "forceps",
		Short:   "Forceps generates robust XPath locators from HTML and a target description.",
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Runs before any command: load config, then initialize logging.
			loaded, err := config.Load(cfgFile)
			if err != nil {
				observability.InitializeLogger(config.LoggerConfig{
					Level: "info", Format: "console", ServiceName: "forceps-cli",
				})
				return fmt.Errorf("failed to load config: %w", err)
			}
			cfg = loaded
			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting forceps-cli", zap.String("version", Version))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml or ~/.forceps/config.yaml)")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	// Subcommands receive the loaded config through the accessor rather than
	// a global, so tests can build commands with their own config.
	getCfg := func() *config.Config {
		if cfg == nil {
			return config.NewDefaultConfig()
		}
		return cfg
	}

	rootCmd.AddCommand(newResolveCmd(getCfg))
	rootCmd.AddCommand(newAnalyzeCmd(getCfg))
	rootCmd.AddCommand(newServeCmd(getCfg))
	return rootCmd
}

// Execute runs the root command with a signal-aware context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	defer observability.Sync()

	if err := NewRootCommand().ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("Command execution failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
