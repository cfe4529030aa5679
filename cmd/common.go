package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/feed"
	"github.com/julienpequegnot/newsforge/internal/llm"
	"github.com/julienpequegnot/newsforge/internal/logger"
	"github.com/julienpequegnot/newsforge/internal/persona"
	"github.com/julienpequegnot/newsforge/internal/pipeline"
	"github.com/julienpequegnot/newsforge/internal/rewrite"
	"github.com/julienpequegnot/newsforge/internal/scorer"
	"github.com/julienpequegnot/newsforge/internal/seo"
)

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFile(configPath)
	}
	return config.Load()
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	return logger.New(level, cfg.Log.Format)
}

func configFile() string {
	if configPath != "" {
		return configPath
	}
	return config.Path()
}

// readInput returns the text named by arg: "-" reads stdin, an http(s) URL
// is fetched and reduced to its article text, anything else is a file path.
func readInput(ctx context.Context, cfg *config.Config, l *slog.Logger, arg string) (title, text string, err error) {
	switch {
	case arg == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return "", string(data), nil
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		return feed.NewFetcher(cfg.Fetch, l).FetchArticle(ctx, arg)
	default:
		data, err := os.ReadFile(arg)
		if err != nil {
			return "", "", err
		}
		return "", string(data), nil
	}
}

// services bundles the scorers and the rewrite controller built from one
// config.
type services struct {
	relevance *scorer.RelevanceScorer
	estimator *scorer.SimilarityEstimator
	seo       *seo.Scorer
	personas  *persona.Registry
	rewriter  *rewrite.Controller
	close     func() error
}

// newServices builds every scorer. Without a configured generator the
// rewrite controller runs in fallback mode.
func newServices(ctx context.Context, cfg *config.Config, l *slog.Logger) (*services, error) {
	gen, closeGen, err := llm.New(ctx, cfg.LLM, l)
	switch {
	case errors.Is(err, llm.ErrUnavailable):
		l.Warn("no text generator configured", "provider", cfg.LLM.Provider, "error", err)
		gen = nil
	case err != nil:
		return nil, err
	}

	s := &services{
		relevance: scorer.NewRelevanceScorer(cfg.Scoring, l),
		estimator: scorer.NewSimilarityEstimator(l),
		seo:       seo.NewScorer(l),
		personas:  persona.NewRegistry(cfg.Personas),
		close:     closeGen,
	}
	s.rewriter = rewrite.NewController(gen, s.personas, s.estimator, rewrite.Options{
		Threshold: cfg.Thresholds.RewriteSimilarity,
		Logger:    l,
	})
	return s, nil
}

func (s *services) processor(cfg *config.Config, l *slog.Logger) *pipeline.Processor {
	return pipeline.NewProcessor(s.relevance, s.rewriter, s.seo, pipeline.Options{
		Concurrency: cfg.Pipeline.Concurrency,
		Timeout:     time.Duration(cfg.Pipeline.TimeoutSeconds) * time.Second,
		Logger:      l,
	})
}

// forcedPersona resolves a --persona flag value.
func forcedPersona(name string) (persona.Persona, error) {
	p, ok := persona.Parse(name)
	if !ok {
		known := make([]string, 0, len(persona.All()))
		for _, k := range persona.All() {
			known = append(known, k.String())
		}
		return p, fmt.Errorf("unknown persona %q (known: %s)", name, strings.Join(known, ", "))
	}
	return p, nil
}

// writeJSON prints v as indented JSON to stdout, or to path when set.
func writeJSON(v any, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}
