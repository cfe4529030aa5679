// Package llm holds the text generation backends used to rewrite articles.
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/julienpequegnot/newsforge/internal/config"
)

var (
	// ErrUnavailable is returned when no backend is configured.
	ErrUnavailable = errors.New("llm: no generator available")
	// ErrBudgetExhausted is returned once a Budget has spent every request.
	ErrBudgetExhausted = errors.New("llm: request budget exhausted")
)

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New builds the generator selected by cfg.Provider. Provider "none" returns
// ErrUnavailable so callers can run in fallback mode. The returned close
// function is never nil.
func New(ctx context.Context, cfg config.LLMConfig, l *slog.Logger) (Generator, func() error, error) {
	noop := func() error { return nil }
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second

	var (
		gen     Generator
		closeFn = noop
	)

	switch strings.ToLower(cfg.Provider) {
	case "gemini":
		if cfg.APIKey == "" {
			return nil, noop, fmt.Errorf("gemini: missing API key: %w", ErrUnavailable)
		}
		g, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model, timeout)
		if err != nil {
			return nil, noop, err
		}
		gen, closeFn = g, g.Close
	case "ollama":
		gen = NewOllamaClient(cfg.BaseURL, cfg.Model, timeout)
	case "", "none":
		return nil, noop, ErrUnavailable
	default:
		return nil, noop, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	if cfg.MaxRequests > 0 {
		gen = WithBudget(gen, cfg.MaxRequests, l)
	}
	return gen, closeFn, nil
}
