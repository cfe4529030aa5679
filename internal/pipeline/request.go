package pipeline

import (
	"fmt"
	"strings"

	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/persona"
	"github.com/julienpequegnot/newsforge/internal/rewrite"
)

// Kind selects how a batch is filtered and ordered.
type Kind string

const (
	Articles Kind = "articles"
	News     Kind = "news"
	Featured Kind = "featured"
)

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case Articles, News, Featured:
		return k, nil
	default:
		return "", fmt.Errorf("unknown batch kind %q", s)
	}
}

type Request struct {
	Kind Kind
	// Persona forces one editorial voice; empty picks one per category.
	Persona string
	Limit   int
	// MinScore is the admission gate on the final score.
	MinScore float64
	// FeaturedScore defaults to the gate's 0.9 when zero.
	FeaturedScore float64
	// MinContentScore is the relevance an item needs before it is rewritten.
	MinContentScore float64
	// HoursAgo bounds the age of news items.
	HoursAgo      int
	MixCategories bool
	Length        rewrite.Length
}

// NewRequest fills a request from the batch settings of cfg.
func NewRequest(kind Kind, cfg *config.Config) Request {
	var b config.BatchSettings
	switch kind {
	case News:
		b = cfg.Batches.News
	case Featured:
		b = cfg.Batches.Featured
	default:
		kind = Articles
		b = cfg.Batches.Articles
	}

	length, _ := rewrite.ParseLength(cfg.LLM.TargetLength)
	return Request{
		Kind:            kind,
		Limit:           b.Limit,
		MinScore:        b.MinScore,
		FeaturedScore:   b.FeaturedScore,
		MinContentScore: cfg.Thresholds.MinContentScore,
		HoursAgo:        b.HoursAgo,
		MixCategories:   b.MixCategories,
		Length:          length,
	}
}

// voice resolves the forced persona, or the one suited to category when none
// is forced.
func (r Request) voice(category string) (persona.Persona, error) {
	if r.Persona == "" {
		return persona.SuggestForCategory(category), nil
	}
	p, ok := persona.Parse(r.Persona)
	if !ok {
		return p, fmt.Errorf("unknown persona %q", r.Persona)
	}
	return p, nil
}
