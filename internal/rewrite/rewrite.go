// Package rewrite turns scraped text into an original article through a text
// generator, retrying once with a stricter prompt when the first rewrite
// stays too close to the source.
package rewrite

import (
	"context"
	"log/slog"

	"github.com/julienpequegnot/newsforge/internal/content"
	"github.com/julienpequegnot/newsforge/internal/llm"
	"github.com/julienpequegnot/newsforge/internal/logger"
	"github.com/julienpequegnot/newsforge/internal/persona"
	"github.com/julienpequegnot/newsforge/internal/scorer"
)

// DefaultThreshold is the similarity above which a rewrite is attempted again.
const DefaultThreshold = 0.3

type Request struct {
	Title    string
	Text     string
	Persona  persona.Persona
	Category string
	Length   Length
}

// Attempt is one model answer and its similarity to the original text.
type Attempt struct {
	Draft      content.Draft           `json:"draft"`
	Similarity scorer.SimilarityReport `json:"similarity"`
}

type Result struct {
	content.Draft
	WordCount  int                     `json:"word_count"`
	Persona    string                  `json:"persona"`
	Similarity scorer.SimilarityReport `json:"similarity"`
	IsOriginal bool                    `json:"is_original"`
	Fallback   bool                    `json:"fallback"`
	Attempts   []Attempt               `json:"attempts,omitempty"`
}

type TitleSummary struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

type Options struct {
	// Threshold defaults to DefaultThreshold when zero.
	Threshold float64
	Logger    *slog.Logger
}

// Controller is safe for concurrent use; it keeps no state between calls.
type Controller struct {
	gen       llm.Generator
	personas  *persona.Registry
	estimator *scorer.SimilarityEstimator
	threshold float64
	logger    *slog.Logger
}

// NewController wires a generator to the similarity gate. A nil generator
// puts the controller in degraded mode: every call uses the local fallback.
func NewController(gen llm.Generator, personas *persona.Registry, estimator *scorer.SimilarityEstimator, opts Options) *Controller {
	c := &Controller{
		gen:       gen,
		personas:  personas,
		estimator: estimator,
		threshold: opts.Threshold,
		logger:    logger.OrDefault(opts.Logger),
	}
	if c.threshold <= 0 {
		c.threshold = DefaultThreshold
	}
	if c.estimator == nil {
		c.estimator = scorer.NewSimilarityEstimator(c.logger)
	}
	if gen == nil {
		c.logger.Warn("rewrite capability unavailable, using fallback rewrites")
	}
	return c
}

func (c *Controller) Threshold() float64 {
	return c.threshold
}

// Rewrite produces an original version of req.Text. Similarity is always
// measured against req.Text, never against an earlier attempt. Generator
// failures fall back to a local rewrite; only a done context is returned as
// an error.
func (c *Controller) Rewrite(ctx context.Context, req Request) (Result, error) {
	if _, ok := lengthBands[req.Length]; !ok {
		req.Length = Medium
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	if c.gen == nil {
		return c.fallback(req), nil
	}

	first, err := c.attempt(ctx, req, false)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		c.logger.Warn("rewrite failed, using fallback", "title", req.Title, "error", err)
		return c.fallback(req), nil
	}

	res := c.result(req, first)

	if first.Similarity.Score > c.threshold {
		c.logger.Info("rewrite too similar, retrying",
			"title", req.Title, "similarity", first.Similarity.Score, "threshold", c.threshold)

		second, err := c.attempt(ctx, req, true)
		switch {
		case err == nil:
			res = c.result(req, first, second)
		case ctx.Err() != nil:
			return Result{}, ctx.Err()
		default:
			c.logger.Warn("second rewrite failed, keeping first attempt", "title", req.Title, "error", err)
		}
	}

	res.IsOriginal = res.Similarity.Score < c.threshold
	c.logger.Debug("rewrite done",
		"title", req.Title, "attempts", len(res.Attempts), "similarity", res.Similarity.Score, "original", res.IsOriginal)
	return res, nil
}

func (c *Controller) attempt(ctx context.Context, req Request, aggressive bool) (Attempt, error) {
	response, err := c.gen.Generate(ctx, c.buildPrompt(req, aggressive))
	if err != nil {
		return Attempt{}, err
	}

	d, err := parseDraft(response)
	if err != nil {
		return Attempt{}, err
	}

	return Attempt{Draft: d, Similarity: c.estimator.Estimate(req.Text, d.Content)}, nil
}

// result reports the last attempt.
func (c *Controller) result(req Request, attempts ...Attempt) Result {
	last := attempts[len(attempts)-1]
	return Result{
		Draft:      last.Draft,
		WordCount:  last.Draft.WordCount(),
		Persona:    req.Persona.String(),
		Similarity: last.Similarity,
		Attempts:   attempts,
	}
}

func (c *Controller) fallback(req Request) Result {
	d := fallbackDraft(req)
	return Result{
		Draft:      d,
		WordCount:  d.WordCount(),
		Persona:    req.Persona.String(),
		Similarity: c.estimator.Estimate(req.Text, d.Content),
		Fallback:   true,
	}
}

// GenerateTitleAndSummary asks the generator for a title and summary of an
// already rewritten text, using the first sentences when it cannot answer.
func (c *Controller) GenerateTitleAndSummary(ctx context.Context, text string, p persona.Persona) TitleSummary {
	if c.gen == nil {
		return fallbackTitleSummary(text)
	}

	response, err := c.gen.Generate(ctx, c.buildTitlePrompt(text, p))
	if err != nil {
		c.logger.Warn("title generation failed, using fallback", "error", err)
		return fallbackTitleSummary(text)
	}

	ts, ok := parseTitleSummary(response)
	if !ok {
		c.logger.Debug("unparseable title response, using fallback")
		return fallbackTitleSummary(text)
	}
	return ts
}
