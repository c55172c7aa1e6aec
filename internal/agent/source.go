// File: internal/agent/source.go
package agent

import (
	"context"
	"fmt"
	"strings"

	json "github.com/json-iterator/go"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
	"github.com/xkilldash9x/forceps-cli/internal/config"
)

const systemPrompt = `You are an expert in writing XPath locators for web test automation.
Given an HTML document and a description of a target element, respond with a JSON
array of up to 5 candidate XPath expressions, strongest first. Respond with the
JSON array only, no prose, no markdown fences.
Example: ["//button[@id='submit-btn']", "//button[text()='Submit']"]`

// maxSuggestions caps how many expressions one Suggest call returns.
const maxSuggestions = 5

// XPathSource asks an LLM for locator suggestions. It implements
// schemas.CandidateSource; its output is raw expressions that the caller must
// re-verify against the document. The source itself never claims uniqueness.
type XPathSource struct {
	llm         schemas.LLMClient
	limiter     *rate.Limiter
	logger      *zap.Logger
	temperature float64
	timeout     config.LLMConfig
}

// Statically assert the CandidateSource contract.
var _ schemas.CandidateSource = (*XPathSource)(nil)

// NewXPathSource wraps an LLM client in a rate-limited candidate source.
func NewXPathSource(llm schemas.LLMClient, cfg config.LLMConfig, logger *zap.Logger) *XPathSource {
	return &XPathSource{
		llm:         llm,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		logger:      logger.Named("xpath_source"),
		temperature: cfg.Temperature,
		timeout:     cfg,
	}
}

// Suggest prompts the model for XPath candidates for the described target.
// The returned expressions are unverified suggestions only.
func (s *XPathSource) Suggest(ctx context.Context, html, description, elementType string) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait aborted: %w", err)
	}

	if s.timeout.APITimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout.APITimeout)
		defer cancel()
	}

	var prompt strings.Builder
	fmt.Fprintf(&prompt, "Target element: %s\n", description)
	if elementType != "" {
		fmt.Fprintf(&prompt, "Element type: %s\n", elementType)
	}
	fmt.Fprintf(&prompt, "\nHTML:\n%s\n", html)

	raw, err := s.llm.Generate(ctx, schemas.GenerationRequest{
		SystemPrompt: systemPrompt,
		UserPrompt:   prompt.String(),
		Options: schemas.GenerationOptions{
			Temperature:     s.temperature,
			ForceJSONFormat: true,
		},
	})
	if err != nil {
		return nil, err
	}

	exprs, err := parseSuggestions(raw)
	if err != nil {
		s.logger.Warn("Unparseable LLM suggestion payload", zap.Error(err))
		return nil, err
	}
	s.logger.Debug("LLM suggested candidates", zap.Int("count", len(exprs)))
	return exprs, nil
}

// parseSuggestions extracts the expression list from the model output,
// stripping markdown fences the model sometimes adds despite instructions.
func parseSuggestions(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var exprs []string
	if err := json.Unmarshal([]byte(raw), &exprs); err != nil {
		return nil, fmt.Errorf("suggestion payload is not a JSON string array: %w", err)
	}

	seen := make(map[string]bool, len(exprs))
	var out []string
	for _, e := range exprs {
		e = strings.TrimSpace(e)
		if e == "" || seen[e] {
			continue
		}
		seen[e] = true
		out = append(out, e)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out, nil
}
