package llm

import (
	"context"
	"log/slog"
	"sync"

	"github.com/julienpequegnot/newsforge/internal/logger"
)

// Budget caps the number of requests a run may send to a generator. Calls
// over the cap fail with ErrBudgetExhausted without reaching the backend.
type Budget struct {
	gen    Generator
	max    int
	logger *slog.Logger

	mu     sync.Mutex
	used   int
	warned bool
}

func WithBudget(gen Generator, max int, l *slog.Logger) *Budget {
	return &Budget{gen: gen, max: max, logger: logger.OrDefault(l)}
}

func (b *Budget) Generate(ctx context.Context, prompt string) (string, error) {
	if !b.take() {
		return "", ErrBudgetExhausted
	}
	return b.gen.Generate(ctx, prompt)
}

func (b *Budget) take() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.max > 0 && b.used >= b.max {
		if !b.warned {
			b.logger.Warn("llm request budget reached", "limit", b.max)
			b.warned = true
		}
		return false
	}
	b.used++
	b.logger.Debug("llm usage", "used", b.used, "limit", b.max)
	return true
}

// Used reports how many requests were let through.
func (b *Budget) Used() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.used
}
