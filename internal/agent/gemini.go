// File: internal/agent/gemini.go
package agent

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
	"github.com/xkilldash9x/forceps-cli/internal/config"
)

// GeminiClient implements schemas.LLMClient on top of the Google GenAI SDK.
type GeminiClient struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// Statically assert that GeminiClient implements the LLMClient interface.
var _ schemas.LLMClient = (*GeminiClient)(nil)

// NewGeminiClient creates a client for the configured Gemini model.
func NewGeminiClient(ctx context.Context, cfg config.LLMConfig, logger *zap.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: failed to create client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  cfg.Model,
		logger: logger.Named("gemini"),
	}, nil
}

// Generate produces a text completion for the request.
func (g *GeminiClient) Generate(ctx context.Context, req schemas.GenerationRequest) (string, error) {
	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Options.Temperature)),
	}
	if req.SystemPrompt != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}
	if req.Options.ForceJSONFormat {
		genCfg.ResponseMIMEType = "application/json"
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(req.UserPrompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generation failed: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty response from model %s", g.model)
	}
	g.logger.Debug("LLM response received", zap.Int("length", len(text)))
	return text, nil
}

// Close releases client resources. The SDK holds no persistent connections,
// so this is a no-op kept for interface symmetry.
func (g *GeminiClient) Close() error { return nil }
