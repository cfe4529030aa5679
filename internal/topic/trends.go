package topic

import (
	"sort"
	"strings"
	"time"

	"github.com/julienpequegnot/newsforge/internal/content"
)

// Trend is one topic ranked by how much recent coverage it gets.
type Trend struct {
	Topic string `json:"topic"`
	// Category is the category most items mentioning the topic belong to.
	Category string `json:"category"`
	Count    int    `json:"count"`
	// Recent lists the ids of the items published inside the window.
	Recent []string `json:"recent"`
	// Boost is the configured trending weight of the topic, 0 when the topic
	// is a bare category.
	Boost float64 `json:"boost"`
	Score float64 `json:"score"`
}

// TrendAnalyzer ranks the configured trending keywords by their coverage in
// a set of items. An item that mentions none of them counts towards its
// category instead. It is not safe for concurrent use.
type TrendAnalyzer struct {
	boosts   map[string]float64
	keywords []string
	topics   map[string]*topicStats
	seen     map[string]bool
	now      func() time.Time
}

type topicStats struct {
	mentions   []mention
	categories map[string]int
}

type mention struct {
	id        string
	published time.Time
}

// NewTrendAnalyzer builds an analyzer over a keyword to weight table, usually
// the scoring.trending section of the configuration.
func NewTrendAnalyzer(boosts map[string]float64) *TrendAnalyzer {
	ta := &TrendAnalyzer{
		boosts: make(map[string]float64, len(boosts)),
		topics: make(map[string]*topicStats),
		seen:   make(map[string]bool),
		now:    time.Now,
	}
	for k, w := range boosts {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		ta.boosts[k] = w
		ta.keywords = append(ta.keywords, k)
	}
	sort.Strings(ta.keywords)
	return ta
}

// Observe files an item under the trending keywords its title and text
// mention. The category is detected when the item carries none.
func (ta *TrendAnalyzer) Observe(id string, item content.Item, now time.Time) {
	text := item.Title + " " + item.Text()
	category := item.Category
	if category == "" {
		category = DetectCategory(text)
	}
	ta.AddItem(id, category, ta.match(text), item.Published(now))
}

func (ta *TrendAnalyzer) match(text string) []string {
	text = strings.ToLower(text)
	var found []string
	for _, k := range ta.keywords {
		if containsWord(text, k) {
			found = append(found, k)
		}
	}
	return found
}

// AddItem records one item. Without topics the item is filed under its
// category. An id already seen is ignored.
func (ta *TrendAnalyzer) AddItem(id, category string, topics []string, publishedAt time.Time) {
	if ta.seen[id] {
		return
	}
	ta.seen[id] = true

	category = strings.ToLower(strings.TrimSpace(category))
	if len(topics) == 0 {
		if category == "" {
			return
		}
		topics = []string{category}
	}
	for _, t := range topics {
		st, ok := ta.topics[t]
		if !ok {
			st = &topicStats{categories: make(map[string]int)}
			ta.topics[t] = st
		}
		st.mentions = append(st.mentions, mention{id: id, published: publishedAt})
		if category != "" {
			st.categories[category]++
		}
	}
}

// GetTrends ranks topics over a window of days. Mentions inside the window
// weigh double, and a topic seen lately gets up to twice its weight. The
// configured boost then scales the result by up to 2x.
func (ta *TrendAnalyzer) GetTrends(days int, limit int) []Trend {
	if days < 1 {
		days = 1
	}
	now := ta.now()
	window := float64(days)
	cutoff := now.AddDate(0, 0, -days)

	trends := make([]Trend, 0, len(ta.topics))
	for name, st := range ta.topics {
		var latest time.Time
		recent := []string{}
		for _, m := range st.mentions {
			if m.published.After(cutoff) {
				recent = append(recent, m.id)
			}
			if m.published.After(latest) {
				latest = m.published
			}
		}
		sort.Strings(recent)

		recency := 1.0
		if since := now.Sub(latest).Hours() / 24; since < window {
			recency += (window - max(since, 0)) / window
		}

		boost := ta.boosts[name]
		activity := float64(2*len(recent) + len(st.mentions))
		trends = append(trends, Trend{
			Topic:    name,
			Category: majority(st.categories),
			Count:    len(st.mentions),
			Recent:   recent,
			Boost:    boost,
			Score:    activity * recency * (1 + boost),
		})
	}

	sort.Slice(trends, func(i, j int) bool {
		if trends[i].Score == trends[j].Score {
			return trends[i].Topic < trends[j].Topic
		}
		return trends[i].Score > trends[j].Score
	})

	if limit > 0 && len(trends) > limit {
		trends = trends[:limit]
	}
	return trends
}

// majority returns the most frequent category; ties go to the name that
// sorts first.
func majority(counts map[string]int) string {
	best, bestCount := "", 0
	for name, n := range counts {
		if n > bestCount || (n == bestCount && name < best) {
			best, bestCount = name, n
		}
	}
	return best
}
