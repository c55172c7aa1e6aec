// File: internal/server/server.go
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/forceps-cli/api/schemas"
	"github.com/xkilldash9x/forceps-cli/internal/config"
	"github.com/xkilldash9x/forceps-cli/internal/dom"
	"github.com/xkilldash9x/forceps-cli/internal/locator"
	"github.com/xkilldash9x/forceps-cli/internal/scenario"
)

// Server is the HTTP orchestration shell around the resolution engine. The
// engine does the work; the server only decodes requests, applies the
// optional AI augmentation, and encodes results.
type Server struct {
	cfg    config.ServerConfig
	engine *locator.Engine
	// source is the optional AI candidate source. Nil means rule-based only
	// (the original "fallback mode"). Suggestions from the source are never
	// trusted without re-verification.
	source schemas.CandidateSource
	logger *zap.Logger
	srv    *http.Server
}

// New builds a Server. source may be nil.
func New(cfg config.ServerConfig, engine *locator.Engine, source schemas.CandidateSource, logger *zap.Logger) *Server {
	s := &Server{
		cfg:    cfg,
		engine: engine,
		source: source,
		logger: logger.Named("server"),
	}
	s.srv = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.Router(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Router assembles the chi route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Get("/api", s.handleAPIInfo)
	r.Get("/health", s.handleHealth)
	r.Post("/generate-xpath", s.handleGenerateXPath)
	r.Post("/analyze-html", s.handleAnalyzeHTML)
	r.Post("/generate-test-scenarios", s.handleScenarios)
	return r
}

// Start runs the server until the context is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", zap.String("addr", s.cfg.Addr()))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("Shutting down HTTP server")
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}

// -- handlers --

func (s *Server) handleGenerateXPath(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeResolveRequest(w, r)
	if !ok {
		return
	}
	if req.TargetDescription == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("target_description is required"))
		return
	}

	doc, err := dom.Parse(req.HTMLContent)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	result := s.engine.Resolve(doc, req.TargetDescription, req.ElementType)
	reasoning := "rule-based resolution"

	if s.source != nil {
		result, reasoning = s.augment(r.Context(), doc, req, result)
	}

	s.writeJSON(w, http.StatusOK, schemas.ResolveResponse{
		RequestID: uuid.NewString(),
		Result:    result,
		Reasoning: reasoning,
	})
}

// augment asks the AI source for suggestions and folds the verified-unique
// ones into the result. An AI expression only ever enters the result after
// passing the same uniqueness verification as rule based candidates.
func (s *Server) augment(ctx context.Context, doc *dom.Document, req schemas.ResolveRequest, result schemas.ResolutionResult) (schemas.ResolutionResult, string) {
	desc := req.TargetDescription
	if req.AdditionalContext != "" {
		desc = desc + " (" + req.AdditionalContext + ")"
	}

	suggestions, err := s.source.Suggest(ctx, req.HTMLContent, desc, req.ElementType)
	if err != nil {
		s.logger.Warn("AI candidate source failed; keeping rule-based result", zap.Error(err))
		return result, "rule-based resolution (AI source unavailable)"
	}

	var verified []schemas.Candidate
	for _, expr := range suggestions {
		cand, err := s.engine.VerifyExternal(doc, expr)
		if err != nil {
			// Malformed suggestion; the verifier is the gatekeeper.
			s.logger.Debug("Rejected malformed AI suggestion", zap.String("expression", expr))
			continue
		}
		if cand.Verdict == schemas.VerdictUnique {
			verified = append(verified, cand)
		}
	}
	if len(verified) == 0 {
		return result, "rule-based resolution (no verified AI candidates)"
	}

	if result.Success {
		// The rule-based winner stands; verified AI candidates join the
		// alternates.
		result.Alternates = append(result.Alternates, verified...)
		return result, "rule-based resolution with AI alternates"
	}

	// Rule-based resolution failed; promote the strongest verified AI
	// candidate.
	best := verified[0]
	for _, c := range verified[1:] {
		if c.Confidence > best.Confidence {
			best = c
		}
	}
	return schemas.ResolutionResult{
		Success:    true,
		Candidate:  &best,
		Alternates: allExcept(verified, best),
		Attempted:  result.Attempted,
	}, "AI-augmented resolution (verified against document)"
}

func allExcept(cands []schemas.Candidate, skip schemas.Candidate) []schemas.Candidate {
	var out []schemas.Candidate
	for _, c := range cands {
		if c.Expression != skip.Expression {
			out = append(out, c)
		}
	}
	return out
}

func (s *Server) handleAnalyzeHTML(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeResolveRequest(w, r)
	if !ok {
		return
	}
	summary, err := s.engine.AnalyzeStructure(req.HTMLContent)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"analysis": summary,
	})
}

func (s *Server) handleScenarios(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeResolveRequest(w, r)
	if !ok {
		return
	}
	summary, err := s.engine.AnalyzeStructure(req.HTMLContent)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}
	scenarios := scenario.Generate(summary)
	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"scenarios":       scenarios,
		"total_scenarios": len(scenarios),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	aiStatus := "fallback mode"
	if s.source != nil {
		aiStatus = "ready"
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"components": map[string]string{
			"resolution_engine": "ready",
			"html_parser":       "ready",
			"ai_source":         aiStatus,
		},
	})
}

func (s *Server) handleAPIInfo(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"platform":    "forceps-cli",
		"description": "XPath locator generation and HTML structure analysis",
		"endpoints": map[string]string{
			"generate_xpath":          "/generate-xpath",
			"analyze_html":            "/analyze-html",
			"generate_test_scenarios": "/generate-test-scenarios",
			"health":                  "/health",
		},
	})
}

// -- helpers --

func (s *Server) decodeResolveRequest(w http.ResponseWriter, r *http.Request) (schemas.ResolveRequest, bool) {
	var req schemas.ResolveRequest
	body := http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, errors.New("invalid JSON request body"))
		return req, false
	}
	if req.HTMLContent == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("html_content is required"))
		return req, false
	}
	return req, true
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, map[string]any{
		"success": false,
		"error":   err.Error(),
	})
}
