// Package pipeline runs batches of scraped items through relevance
// filtering, rewriting, scoring and the admission gate.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/julienpequegnot/newsforge/internal/content"
	"github.com/julienpequegnot/newsforge/internal/logger"
	"github.com/julienpequegnot/newsforge/internal/rewrite"
	"github.com/julienpequegnot/newsforge/internal/scorer"
	"github.com/julienpequegnot/newsforge/internal/seo"
	"github.com/julienpequegnot/newsforge/internal/topic"
	"golang.org/x/sync/errgroup"
)

// ErrNoItems means no item could be obtained for a batch. A batch where no
// item passes the gate is not an error.
var ErrNoItems = errors.New("no items to process")

const (
	slugLength = 100

	// fallbackQualityFactor discounts drafts that were not rewritten.
	fallbackQualityFactor = 0.5
)

// Source supplies the raw items of a batch.
type Source interface {
	Items(ctx context.Context) ([]content.Item, error)
}

type Result struct {
	BatchID     string            `json:"batch_id"`
	Kind        Kind              `json:"kind"`
	GeneratedAt time.Time         `json:"generated_at"`
	Articles    []content.Article `json:"articles"`
	Considered  int               `json:"considered"`
	Rejected    int               `json:"rejected"`
	Dropped     int               `json:"dropped"`
}

type Options struct {
	Concurrency int
	// Timeout bounds a whole batch; zero means no limit.
	Timeout time.Duration
	Logger  *slog.Logger
	Now     func() time.Time
}

// Processor is safe for concurrent use; its collaborators are read-only.
type Processor struct {
	relevance   *scorer.RelevanceScorer
	rewriter    *rewrite.Controller
	seo         *seo.Scorer
	concurrency int
	timeout     time.Duration
	logger      *slog.Logger
	now         func() time.Time
}

func NewProcessor(relevance *scorer.RelevanceScorer, rewriter *rewrite.Controller, seoScorer *seo.Scorer, opts Options) *Processor {
	p := &Processor{
		relevance:   relevance,
		rewriter:    rewriter,
		seo:         seoScorer,
		concurrency: max(opts.Concurrency, 1),
		timeout:     opts.Timeout,
		logger:      logger.OrDefault(opts.Logger),
		now:         opts.Now,
	}
	if p.now == nil {
		p.now = time.Now
	}
	return p
}

// Process collects items from src and runs the batch. Failing to obtain any
// item is the only batch level error.
func (p *Processor) Process(ctx context.Context, req Request, src Source) (*Result, error) {
	if _, err := req.voice(""); err != nil {
		return nil, err
	}
	items, err := src.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to collect items: %w", err)
	}
	return p.ProcessItems(ctx, req, items)
}

type outcome int

const (
	dropped outcome = iota
	rejected
	scored
)

func (p *Processor) ProcessItems(ctx context.Context, req Request, items []content.Item) (*Result, error) {
	if _, err := req.voice(""); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNoItems
	}

	now := p.now()
	if req.Kind == News && req.HoursAgo > 0 {
		items = recent(items, now, time.Duration(req.HoursAgo)*time.Hour)
	}

	res := &Result{
		BatchID:     uuid.NewString(),
		Kind:        req.Kind,
		GeneratedAt: now,
		Articles:    []content.Article{},
		Considered:  len(items),
	}

	batchCtx := ctx
	if p.timeout > 0 {
		var cancel context.CancelFunc
		batchCtx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	articles := make([]content.Article, len(items))
	outcomes := make([]outcome, len(items))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for i, item := range items {
		g.Go(func() error {
			if batchCtx.Err() != nil {
				return nil
			}
			a, err := p.ScoreItem(batchCtx, req, item)
			switch {
			case err != nil:
				p.logger.Warn("item dropped", "title", item.Title, "error", err)
			case !a.Admitted:
				outcomes[i] = rejected
				p.logger.Debug("item rejected", "title", item.Title, "score", a.FinalScore)
			default:
				articles[i], outcomes[i] = a, scored
			}
			return nil
		})
	}
	g.Wait()

	for i, o := range outcomes {
		switch o {
		case scored:
			res.Articles = append(res.Articles, articles[i])
		case rejected:
			res.Rejected++
		default:
			res.Dropped++
		}
	}

	p.arrange(req, res)

	p.logger.Info("batch done",
		"batch", res.BatchID, "kind", res.Kind, "considered", res.Considered,
		"admitted", len(res.Articles), "rejected", res.Rejected, "dropped", res.Dropped)
	return res, nil
}

// ScoreItem runs one item through the whole chain and reports whether it
// passes the gate. An item below the relevance pre-filter is returned
// unscored and not admitted. Only an unknown persona or a done context
// yields an error.
func (p *Processor) ScoreItem(ctx context.Context, req Request, item content.Item) (content.Article, error) {
	if _, err := req.voice(""); err != nil {
		return content.Article{}, err
	}
	now := p.now()
	text := item.Text()
	published := item.Published(now)

	category := item.Category
	if category == "" {
		category = topic.DetectCategory(item.Title + " " + text)
	}

	pre := p.relevance.Score(item.Title, text, category, published)
	if pre < req.MinContentScore {
		return content.Article{
			Title:          item.Title,
			Category:       category,
			OriginalURL:    item.SourceURL,
			Source:         item.Source,
			RelevanceScore: pre,
			PublishedAt:    published,
		}, nil
	}

	voice, err := req.voice(category)
	if err != nil {
		return content.Article{}, err
	}

	rw, err := p.rewriter.Rewrite(ctx, rewrite.Request{
		Title:    item.Title,
		Text:     text,
		Persona:  voice,
		Category: category,
		Length:   req.Length,
	})
	if err != nil {
		return content.Article{}, err
	}
	if err := ctx.Err(); err != nil {
		return content.Article{}, err
	}

	draft := rw.Draft
	if len(draft.Keywords) == 0 {
		draft.Keywords = seo.ExtractKeywords(draft.Content, 10)
	}
	if draft.MetaDescription == "" {
		draft.MetaDescription = seo.MetaDescription(draft.Content, draft.Keywords)
	}

	relevance := p.relevance.Score(draft.Title, draft.Content, category, published)
	quality := scorer.Quality(draft)
	if rw.Fallback {
		quality *= fallbackQualityFactor
	}
	seoScore := p.seo.Score(draft.Title, draft.Content, draft.MetaDescription, draft.Keywords)
	breakdown := scorer.NewBreakdown(relevance, quality, seoScore, 1-rw.Similarity.Score)

	gate := scorer.DefaultGate()
	gate.MinScore = req.MinScore
	if req.FeaturedScore > 0 {
		gate.FeaturedScore = req.FeaturedScore
	}
	decision := gate.Evaluate(breakdown.Final)

	return content.Article{
		Title:           draft.Title,
		Slug:            seo.Slug(draft.Title, slugLength),
		Content:         draft.Content,
		Summary:         draft.Summary,
		Category:        category,
		Persona:         rw.Persona,
		Keywords:        draft.Keywords,
		MetaDescription: draft.MetaDescription,
		OriginalURL:     item.SourceURL,
		Source:          item.Source,
		RelevanceScore:  breakdown.Relevance,
		QualityScore:    breakdown.Quality,
		FinalScore:      breakdown.Final,
		PublishedAt:     published,
		Featured:        decision.Featured,
		Admitted:        decision.Admitted,
		Fallback:        rw.Fallback,
		IsOriginal:      rw.IsOriginal,
		Similarity:      rw.Similarity.Score,
		Scores:          breakdown,
	}, nil
}

func recent(items []content.Item, now time.Time, window time.Duration) []content.Item {
	cutoff := now.Add(-window)
	var out []content.Item
	for _, item := range items {
		if !item.Published(now).Before(cutoff) {
			out = append(out, item)
		}
	}
	return out
}

// arrange orders admitted articles for the batch kind and applies the limit.
func (p *Processor) arrange(req Request, res *Result) {
	articles := res.Articles

	byScore := func(i, j int) bool {
		return articles[i].FinalScore > articles[j].FinalScore
	}

	switch req.Kind {
	case News:
		sort.SliceStable(articles, func(i, j int) bool {
			if !articles[i].PublishedAt.Equal(articles[j].PublishedAt) {
				return articles[i].PublishedAt.After(articles[j].PublishedAt)
			}
			return articles[i].FinalScore > articles[j].FinalScore
		})
	case Featured:
		sort.SliceStable(articles, byScore)
		for i := range articles {
			articles[i].Featured = true
		}
		if req.MixCategories {
			articles = mixCategories(articles)
		}
	default:
		sort.SliceStable(articles, byScore)
	}

	if req.Limit > 0 && len(articles) > req.Limit {
		articles = articles[:req.Limit]
	}
	res.Articles = articles
}

// mixCategories interleaves categories round-robin, keeping the order within
// each category. Categories take turns in order of their best article.
func mixCategories(articles []content.Article) []content.Article {
	var order []string
	groups := make(map[string][]content.Article)
	for _, a := range articles {
		if _, ok := groups[a.Category]; !ok {
			order = append(order, a.Category)
		}
		groups[a.Category] = append(groups[a.Category], a)
	}

	out := make([]content.Article, 0, len(articles))
	for len(out) < len(articles) {
		for _, c := range order {
			if g := groups[c]; len(g) > 0 {
				out = append(out, g[0])
				groups[c] = g[1:]
			}
		}
	}
	return out
}
