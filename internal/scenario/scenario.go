// File: internal/scenario/scenario.go

// Package scenario derives test scenarios from a document structure summary.
// It is a reporting convenience on top of the analyzer, not part of the
// resolution core.
package scenario

import (
	"fmt"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
)

// scenarioTags are the interactive element types worth a generated scenario.
var scenarioTags = map[string]bool{
	"button": true,
	"input":  true,
	"a":      true,
}

// Generate builds one functional scenario per interactive element in the
// summary. Elements carrying an id get high priority: they are the ones a
// stable locator can be generated for.
func Generate(summary schemas.DocumentSummary) []schemas.TestScenario {
	var out []schemas.TestScenario
	for _, el := range summary.Interactive {
		if !scenarioTags[el.Tag] {
			continue
		}

		label := el.Text
		if label == "" {
			label = el.Tag
		}

		priority := "medium"
		if el.ID != "" {
			priority = "high"
		}

		out = append(out, schemas.TestScenario{
			ID:          fmt.Sprintf("scenario_%d", len(out)+1),
			Name:        fmt.Sprintf("Test %s functionality", label),
			Description: fmt.Sprintf("Verify %s works correctly", label),
			Steps: []string{
				"Navigate to the page",
				fmt.Sprintf("Locate the %s element", label),
				fmt.Sprintf("Interact with %s", label),
				"Verify the expected behavior",
			},
			ExpectedResult: fmt.Sprintf("%s should work as expected", label),
			Priority:       priority,
		})
	}
	return out
}
