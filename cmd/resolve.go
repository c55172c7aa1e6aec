// File: cmd/resolve.go
package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
	"github.com/xkilldash9x/forceps-cli/internal/config"
	"github.com/xkilldash9x/forceps-cli/internal/dom"
	"github.com/xkilldash9x/forceps-cli/internal/locator"
	"github.com/xkilldash9x/forceps-cli/internal/observability"
	"github.com/xkilldash9x/forceps-cli/internal/reporting"
)

// newResolveCmd creates the `resolve` command: resolve one or more target
// descriptions against an HTML file.
func newResolveCmd(getCfg func() *config.Config) *cobra.Command {
	var (
		htmlPath    string
		elementType string
		output      string
		format      string
	)

	resolveCmd := &cobra.Command{
		Use:   "resolve [descriptions...]",
		Short: "Resolves target descriptions into unique XPath locators",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := getCfg()
			logger := observability.GetLogger()
			requestID := uuid.NewString()

			raw, err := os.ReadFile(htmlPath)
			if err != nil {
				return fmt.Errorf("failed to read HTML file: %w", err)
			}

			// Parse once; the document is immutable and safe to share across
			// the concurrent resolutions below.
			doc, err := dom.Parse(string(raw))
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", htmlPath, err)
			}

			engine := locator.NewEngine(logger, cfg.Engine.MaxAlternates)

			logger.Info("Resolving locators",
				zap.String("requestID", requestID),
				zap.String("html", htmlPath),
				zap.Int("descriptions", len(args)))

			results := make([]schemas.ResolutionResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(cfg.Engine.ResolveConcurrency)
			for i, desc := range args {
				g.Go(func() error {
					if err := ctx.Err(); err != nil {
						return err
					}
					results[i] = engine.Resolve(doc, desc, elementType)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			reporter, err := reporting.New(format, output)
			if err != nil {
				return err
			}
			failures := 0
			for i, desc := range args {
				if !results[i].Success {
					failures++
				}
				if err := reporter.Write(desc, results[i]); err != nil {
					reporter.Close()
					return fmt.Errorf("failed to write result: %w", err)
				}
			}
			if err := reporter.Close(); err != nil {
				return fmt.Errorf("failed to finalize report: %w", err)
			}

			if failures > 0 {
				return fmt.Errorf("%d of %d descriptions could not be resolved", failures, len(args))
			}
			return nil
		},
	}

	resolveCmd.Flags().StringVarP(&htmlPath, "html", "f", "", "path to the HTML file to resolve against (required)")
	resolveCmd.Flags().StringVarP(&elementType, "type", "t", "", "restrict matching to this element tag (e.g. button)")
	resolveCmd.Flags().StringVarP(&output, "output", "o", "", "output path (default stdout)")
	resolveCmd.Flags().StringVar(&format, "format", "text", "output format: text or json")
	resolveCmd.MarkFlagRequired("html")

	return resolveCmd
}
