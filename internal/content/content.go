// Package content holds the records that flow through the scoring pipeline.
package content

import (
	"strings"
	"time"
)

// Item is one raw scraped unit. It is never modified once handed to the
// pipeline.
type Item struct {
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	PublishedAt time.Time `json:"published_at"`
	SourceURL   string    `json:"source_url"`
	Source      string    `json:"source"`
	Category    string    `json:"category"`
}

// Text returns the body, or the title when the body is empty.
func (i Item) Text() string {
	if strings.TrimSpace(i.Body) == "" {
		return i.Title
	}
	return i.Body
}

// Published returns PublishedAt, or now when it is unknown.
func (i Item) Published(now time.Time) time.Time {
	if i.PublishedAt.IsZero() {
		return now
	}
	return i.PublishedAt
}

// Draft is the structured text produced by one rewrite.
type Draft struct {
	Title           string   `json:"title"`
	Content         string   `json:"content"`
	Summary         string   `json:"summary"`
	Keywords        []string `json:"keywords"`
	MetaDescription string   `json:"meta_description"`
}

func (d Draft) WordCount() int {
	return len(strings.Fields(d.Content))
}

type ScoreBreakdown struct {
	Relevance   float64 `json:"relevance"`
	Quality     float64 `json:"quality"`
	SEO         float64 `json:"seo"`
	Originality float64 `json:"originality"`
	Final       float64 `json:"final"`
}

// Article is the record emitted for an admitted item.
type Article struct {
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	Content         string         `json:"content"`
	Summary         string         `json:"summary"`
	Category        string         `json:"category"`
	Persona         string         `json:"persona"`
	Keywords        []string       `json:"keywords"`
	MetaDescription string         `json:"meta_description"`
	OriginalURL     string         `json:"original_url"`
	Source          string         `json:"source"`
	RelevanceScore  float64        `json:"relevance_score"`
	QualityScore    float64        `json:"quality_score"`
	FinalScore      float64        `json:"final_score"`
	PublishedAt     time.Time      `json:"published_at"`
	Featured        bool           `json:"featured"`
	Admitted        bool           `json:"admitted"`
	Fallback        bool           `json:"fallback"`
	IsOriginal      bool           `json:"is_original"`
	Similarity      float64        `json:"similarity"`
	Scores          ScoreBreakdown `json:"scores"`
}

type Event struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date_event"`
	URL         string    `json:"url_event"`
	Source      string    `json:"source"`
}
