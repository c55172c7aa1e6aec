// File: cmd/serve.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
	"github.com/xkilldash9x/forceps-cli/internal/agent"
	"github.com/xkilldash9x/forceps-cli/internal/config"
	"github.com/xkilldash9x/forceps-cli/internal/locator"
	"github.com/xkilldash9x/forceps-cli/internal/observability"
	"github.com/xkilldash9x/forceps-cli/internal/server"
)

// newServeCmd creates the `serve` command: run the HTTP shell around the
// resolution engine.
func newServeCmd(getCfg func() *config.Config) *cobra.Command {
	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Runs the HTTP API for locator generation and HTML analysis",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			// Bind flags so they override config file and env values.
			if err := viper.BindPFlag("server.port", cmd.Flags().Lookup("port")); err != nil {
				return err
			}
			return viper.BindPFlag("server.host", cmd.Flags().Lookup("host"))
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()
			logger := observability.GetLogger()

			if viper.IsSet("server.port") {
				cfg.Server.Port = viper.GetInt("server.port")
			}
			if viper.IsSet("server.host") {
				cfg.Server.Host = viper.GetString("server.host")
			}

			engine := locator.NewEngine(logger, cfg.Engine.MaxAlternates)

			// The AI source is optional; without it the shell serves
			// rule-based results only.
			var source schemas.CandidateSource
			if cfg.Agent.Enabled {
				llm, err := agent.NewGeminiClient(cmd.Context(), cfg.Agent.LLM, logger)
				if err != nil {
					return fmt.Errorf("failed to initialize LLM client: %w", err)
				}
				defer llm.Close()
				source = agent.NewXPathSource(llm, cfg.Agent.LLM, logger)
				logger.Info("AI candidate source enabled", zap.String("model", cfg.Agent.LLM.Model))
			} else {
				logger.Info("AI candidate source disabled; rule-based resolution only")
			}

			return server.New(cfg.Server, engine, source, logger).Start(cmd.Context())
		},
	}

	serveCmd.Flags().Int("port", 0, "listen port (overrides config)")
	serveCmd.Flags().String("host", "", "listen host (overrides config)")
	return serveCmd
}
