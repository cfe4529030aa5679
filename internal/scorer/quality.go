package scorer

import (
	"unicode/utf8"

	"github.com/julienpequegnot/newsforge/internal/content"
)

// Quality is a structural heuristic over a rewritten draft, distinct from
// SEO. Each satisfied check adds a fixed increment; the total is capped at 1.
func Quality(d content.Draft) float64 {
	score := 0.0

	switch n := utf8.RuneCountInString(d.Content); {
	case n > 500:
		score += 0.3
	case n > 200:
		score += 0.2
	}

	if n := utf8.RuneCountInString(d.Title); n > 20 && n < 100 {
		score += 0.2
	}
	if len(d.Keywords) >= 3 {
		score += 0.2
	}
	if utf8.RuneCountInString(d.MetaDescription) > 50 {
		score += 0.2
	}
	if utf8.RuneCountInString(d.Summary) > 100 {
		score += 0.1
	}

	return min(score, 1.0)
}
