// File: cmd/analyze.go
package cmd

import (
	"fmt"
	"os"

	json "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/xkilldash9x/forceps-cli/internal/config"
	"github.com/xkilldash9x/forceps-cli/internal/dom"
	"github.com/xkilldash9x/forceps-cli/internal/scenario"
)

// newAnalyzeCmd creates the `analyze` command: report the structure of an
// HTML document, optionally with generated test scenarios.
func newAnalyzeCmd(getCfg func() *config.Config) *cobra.Command {
	var withScenarios bool

	analyzeCmd := &cobra.Command{
		Use:   "analyze <html-file>",
		Short: "Analyzes HTML structure: tag counts, depth, identified and interactive elements",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read HTML file: %w", err)
			}

			doc, err := dom.Parse(string(raw))
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
			summary := doc.Summary()

			payload := map[string]any{"analysis": summary}
			if withScenarios {
				payload["scenarios"] = scenario.Generate(summary)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		},
	}

	analyzeCmd.Flags().BoolVar(&withScenarios, "scenarios", false, "include generated test scenarios")
	return analyzeCmd
}
