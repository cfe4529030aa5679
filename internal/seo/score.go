// Package seo rates how well an article is prepared for search engines and
// derives the metadata (slug, meta description, keywords) the output needs.
package seo

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/julienpequegnot/newsforge/internal/logger"
)

// MaxScore is the sum of every rubric clause, the best score an article can
// reach.
const MaxScore = 0.85

type Scorer struct {
	logger *slog.Logger
	// inspect measures an article against the rubric; replaced in tests.
	inspect func(title, content, meta string, keywords []string) rubric
}

func NewScorer(l *slog.Logger) *Scorer {
	return &Scorer{logger: logger.OrDefault(l), inspect: check}
}

// Score applies the additive rubric. Lengths are counted in characters, not
// bytes. A failure while scoring yields 0.
func (s *Scorer) Score(title, content, meta string, keywords []string) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("seo score failed", "panic", r)
			score = 0
		}
	}()

	c := s.inspect(title, content, meta, keywords)

	if c.titleLen >= 30 && c.titleLen <= 60 {
		score += 0.15
	}
	if c.keywordInTitle {
		score += 0.05
	}
	if c.metaLen >= 120 && c.metaLen <= 160 {
		score += 0.10
	}
	if c.keywordInMeta {
		score += 0.05
	}
	if c.words >= 300 && c.words <= 2000 {
		score += 0.15
	}
	if c.hasDensity {
		switch {
		case c.density >= 0.02 && c.density <= 0.04:
			score += 0.10
		case c.density <= 0.06:
			score += 0.05
		}
	}
	if c.structured {
		score += 0.10
	}
	if c.paragraphs >= 3 {
		score += 0.05
	}
	if c.hasLink {
		score += 0.10
	}

	return min(score, 1.0)
}

// Suggestions lists one fixed message per rubric clause that misses its
// target band.
func (s *Scorer) Suggestions(title, content, meta string, keywords []string) []string {
	c := s.inspect(title, content, meta, keywords)
	var out []string

	switch {
	case c.titleLen < 30:
		out = append(out, "Title too short. Ideal: 30-60 characters.")
	case c.titleLen > 60:
		out = append(out, "Title too long. Ideal: 30-60 characters.")
	}
	if len(keywords) > 0 && !containsAny(title, keywords, 2) {
		out = append(out, fmt.Sprintf("Add the keyword '%s' to the title.", keywords[0]))
	}

	switch {
	case c.metaLen < 120:
		out = append(out, "Meta description too short. Ideal: 120-160 characters.")
	case c.metaLen > 160:
		out = append(out, "Meta description too long. Ideal: 120-160 characters.")
	}

	if c.words < 300 {
		out = append(out, "Content too short. Recommended minimum: 300 words.")
	}
	if !c.structured {
		out = append(out, "Add subtitles (##) to improve the structure.")
	}

	if c.hasDensity {
		switch {
		case c.density < 0.01:
			out = append(out, "Keyword density too low. Include more keywords naturally.")
		case c.density > 0.05:
			out = append(out, "Keyword density too high. It may be considered spam.")
		}
	}

	return out
}

type rubric struct {
	titleLen       int
	metaLen        int
	words          int
	paragraphs     int
	density        float64
	hasDensity     bool
	keywordInTitle bool
	keywordInMeta  bool
	structured     bool
	hasLink        bool
}

func check(title, content, meta string, keywords []string) rubric {
	r := rubric{
		titleLen:   utf8.RuneCountInString(title),
		metaLen:    utf8.RuneCountInString(meta),
		words:      len(strings.Fields(content)),
		paragraphs: len(strings.Split(content, "\n\n")),
		structured: strings.Contains(content, "##") || strings.Count(content, "\n\n") >= 2,
		hasLink:    strings.Contains(content, "[") && strings.Contains(content, "]("),
	}

	if len(keywords) > 0 {
		r.keywordInTitle = containsAny(title, keywords, 1)
		r.keywordInMeta = containsAny(meta, keywords, 2)
	}

	if len(keywords) > 0 && r.words > 0 {
		lowered := strings.ToLower(content)
		var hits int
		for _, kw := range keywords[:min(3, len(keywords))] {
			if kw = strings.ToLower(kw); kw != "" {
				hits += strings.Count(lowered, kw)
			}
		}
		r.density = float64(hits) / float64(r.words)
		r.hasDensity = true
	}

	return r
}

// containsAny reports whether text holds one of the first n keywords,
// ignoring case.
func containsAny(text string, keywords []string, n int) bool {
	lowered := strings.ToLower(text)
	for _, kw := range keywords[:min(n, len(keywords))] {
		if kw != "" && strings.Contains(lowered, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
