package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/content"
	"github.com/julienpequegnot/newsforge/internal/logger"
	"golang.org/x/sync/errgroup"
)

// MultiSource fetches several feeds concurrently and merges their items in
// source order.
type MultiSource struct {
	fetcher     *Fetcher
	sources     []config.Source
	perSource   int
	concurrency int
	logger      *slog.Logger
}

func NewMultiSource(f *Fetcher, sources []config.Source, perSource, concurrency int, l *slog.Logger) *MultiSource {
	return &MultiSource{
		fetcher:     f,
		sources:     sources,
		perSource:   perSource,
		concurrency: max(concurrency, 1),
		logger:      logger.OrDefault(l),
	}
}

// Items fails only when every source failed; a single broken feed is
// logged and skipped.
func (m *MultiSource) Items(ctx context.Context) ([]content.Item, error) {
	if len(m.sources) == 0 {
		return nil, errors.New("no sources configured")
	}

	results := make([][]content.Item, len(m.sources))
	var (
		mu   sync.Mutex
		errs []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.concurrency)
	for i, src := range m.sources {
		g.Go(func() error {
			items, err := m.fetcher.FetchFeed(gctx, src, m.perSource)
			if err != nil {
				m.logger.Warn("source failed", "source", src.Name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", src.Name, err))
				mu.Unlock()
				return nil
			}
			results[i] = items
			return nil
		})
	}
	g.Wait()

	if len(errs) == len(m.sources) {
		return nil, fmt.Errorf("all %d sources failed: %w", len(m.sources), errors.Join(errs...))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var items []content.Item
	for _, r := range results {
		items = append(items, r...)
	}
	m.logger.Info("collected items", "sources", len(m.sources), "failed", len(errs), "items", len(items))
	return items, nil
}
