package schemas

import "context"

// -- LLM Client Schemas & Interface --

// GenerationOptions provides parameters to control the text generation
// process of the LLM.
type GenerationOptions struct {
	Temperature     float64 `json:"temperature"`       // Controls randomness. Lower is more deterministic.
	ForceJSONFormat bool    `json:"force_json_format"` // If true, forces the model to output valid JSON.
}

// GenerationRequest encapsulates a complete request to the LLM, including the
// system and user prompts and generation options.
type GenerationRequest struct {
	SystemPrompt string            `json:"system_prompt"`
	UserPrompt   string            `json:"user_prompt"`
	Options      GenerationOptions `json:"options"`
}

// LLMClient defines a standard interface for interacting with a Large
// Language Model, abstracting the specifics of the underlying provider
// (e.g., Gemini).
type LLMClient interface {
	// Generate produces a text completion based on the provided request.
	Generate(ctx context.Context, req GenerationRequest) (string, error)
	// Close cleans up any resources held by the client.
	Close() error
}

// CandidateSource is an external producer of locator suggestions, typically
// AI-backed. Suggestions are raw expressions only; the caller is required to
// pass every one of them back through the uniqueness verifier before trusting
// it. A source never bypasses that check.
type CandidateSource interface {
	// Suggest returns zero or more XPath expressions for the described target
	// within the given HTML. An empty slice is a valid answer.
	Suggest(ctx context.Context, html, description, elementType string) ([]string, error)
}
