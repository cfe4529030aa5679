package scorer

import (
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/logger"
	"github.com/julienpequegnot/newsforge/internal/topic"
)

const (
	keywordWeight    = 0.3
	seasonalWeight   = 0.2
	categoryWeight   = 0.2
	freshnessWeight  = 0.15
	engagementWeight = 0.15

	neutralRelevance = 0.5
)

// RelevanceBreakdown holds the five relevance sub-scores and their weighted
// total.
type RelevanceBreakdown struct {
	Keyword    float64 `json:"keyword"`
	Seasonal   float64 `json:"seasonal"`
	Category   float64 `json:"category"`
	Freshness  float64 `json:"freshness"`
	Engagement float64 `json:"engagement"`
	Total      float64 `json:"total"`
}

// RelevanceScorer is safe for concurrent use; its tables are never modified
// after construction.
type RelevanceScorer struct {
	trending   *keywordTable
	seasonal   map[time.Month]*keywordTable
	categories map[string]float64
	engaging   *keywordTable
	logger     *slog.Logger

	// Now is the clock used for freshness and seasonality.
	Now func() time.Time
}

func NewRelevanceScorer(tables config.ScoringConfig, l *slog.Logger) *RelevanceScorer {
	s := &RelevanceScorer{
		trending:   newKeywordTable(tables.Trending),
		seasonal:   make(map[time.Month]*keywordTable),
		categories: make(map[string]float64, len(tables.Categories)),
		engaging:   newKeywordTable(tables.Engaging),
		logger:     logger.OrDefault(l),
		Now:        time.Now,
	}

	for m := time.January; m <= time.December; m++ {
		if table, ok := tables.Seasonal[strings.ToLower(m.String())]; ok && len(table) > 0 {
			s.seasonal[m] = newKeywordTable(table)
		}
	}
	for name, w := range tables.Categories {
		s.categories[strings.ToLower(name)] = w
	}
	return s
}

// Score returns the relevance of an item in [0,1]. A zero publishedAt means
// now. Any internal failure yields the neutral 0.5.
func (s *RelevanceScorer) Score(title, content, category string, publishedAt time.Time) float64 {
	return s.Breakdown(title, content, category, publishedAt).Total
}

func (s *RelevanceScorer) Breakdown(title, content, category string, publishedAt time.Time) (b RelevanceBreakdown) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("relevance scoring failed", "title", title, "panic", r)
			b = RelevanceBreakdown{Total: neutralRelevance}
		}
	}()

	now := s.Now()
	if publishedAt.IsZero() {
		publishedAt = now
	}
	text := strings.ToLower(title + " " + content)

	b = RelevanceBreakdown{
		Keyword:    s.keywordScore(text),
		Seasonal:   s.seasonalScore(text, publishedAt),
		Category:   s.categoryScore(category),
		Freshness:  freshnessScore(now.Sub(publishedAt)),
		Engagement: s.engagementScore(title),
	}
	b.Total = clamp01(b.Keyword*keywordWeight +
		b.Seasonal*seasonalWeight +
		b.Category*categoryWeight +
		b.Freshness*freshnessWeight +
		b.Engagement*engagementWeight)

	s.logger.Debug("relevance",
		"keyword", b.Keyword, "seasonal", b.Seasonal, "category", b.Category,
		"freshness", b.Freshness, "engagement", b.Engagement, "total", b.Total)
	return b
}

// keywordScore averages the weights of matched trending keywords; content
// with none scores 0.3.
func (s *RelevanceScorer) keywordScore(text string) float64 {
	avg, n := s.trending.average(text)
	if n == 0 {
		return 0.3
	}
	return min(avg, 1.0)
}

// seasonalScore looks at the month of publication. A month without a table
// is neutral (0.5); a table with no hit scores 0.4.
func (s *RelevanceScorer) seasonalScore(text string, date time.Time) float64 {
	table, ok := s.seasonal[date.Month()]
	if !ok || table.empty() {
		return 0.5
	}
	avg, n := table.average(text)
	if n == 0 {
		return 0.4
	}
	return min(avg, 1.0)
}

func (s *RelevanceScorer) categoryScore(category string) float64 {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(category)), " ", "-")
	if w, ok := s.categories[key]; ok {
		return w
	}
	return 0.5
}

func freshnessScore(age time.Duration) float64 {
	hours := age.Hours()
	switch {
	case hours <= 1:
		return 1.0
	case hours <= 6:
		return 0.9
	case hours <= 24:
		return 0.8
	case hours <= 72:
		return 0.7
	case hours <= 168:
		return 0.5
	default:
		return 0.3
	}
}

// engagementScore starts at 0.4, adds a tenth of the weight of each engaging
// word in the title, 0.1 for a 40-70 character title and 0.05 for a digit.
func (s *RelevanceScorer) engagementScore(title string) float64 {
	score := 0.4 + 0.1*s.engaging.sum(strings.ToLower(title))

	if n := utf8.RuneCountInString(title); n >= 40 && n <= 70 {
		score += 0.1
	}
	if strings.IndexFunc(title, unicode.IsDigit) >= 0 {
		score += 0.05
	}
	return min(score, 1.0)
}

type TrendingTopic struct {
	Keyword  string  `json:"keyword"`
	Score    float64 `json:"score"`
	Category string  `json:"category"`
}

// TrendingTopics returns the heaviest trending keywords with a guessed
// category.
func (s *RelevanceScorer) TrendingTopics(limit int) []TrendingTopic {
	topics := make([]TrendingTopic, 0, len(s.trending.phrases))
	for i, kw := range s.trending.phrases {
		topics = append(topics, TrendingTopic{
			Keyword:  kw,
			Score:    s.trending.weights[i],
			Category: guessKeywordCategory(kw),
		})
	}

	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].Score > topics[j].Score
	})
	if limit > 0 && len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

func guessKeywordCategory(keyword string) string {
	kw := strings.ToLower(keyword)
	hasAny := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(kw, w) {
				return true
			}
		}
		return false
	}

	switch {
	case hasAny("game", "jogo", "fps", "rpg"):
		return "games"
	case hasAny("filme", "cinema", "netflix"):
		return "filmes"
	case hasAny("tech", "iphone", "ia", "ai"):
		return "tecnologia"
	case hasAny("anime", "manga", "one piece"):
		return "hqs"
	default:
		return "cultura-pop"
	}
}

type Competition struct {
	Score           float64            `json:"competition_score"`
	Keywords        map[string]float64 `json:"keyword_competition"`
	Difficulty      string             `json:"difficulty"`
	Recommendations []string           `json:"recommendations"`
}

var competitionStopWords = map[string]bool{
	"de": true, "da": true, "do": true, "a": true, "o": true, "e": true,
	"para": true, "com": true, "em": true, "na": true, "no": true, "por": true,
}

// AnalyzeCompetition estimates how crowded the niche of a text is from its
// five most repeated words.
func (s *RelevanceScorer) AnalyzeCompetition(title, content string) Competition {
	keywords := topic.TopKeywords(title+" "+content, competitionStopWords, 5)

	c := Competition{Keywords: make(map[string]float64, len(keywords)), Score: 0.5}
	if len(keywords) > 0 {
		var sum float64
		for _, kw := range keywords {
			v := s.keywordCompetition(kw)
			c.Keywords[kw] = v
			sum += v
		}
		c.Score = sum / float64(len(keywords))
	}

	c.Difficulty = difficulty(c.Score)
	c.Recommendations = competitionRecommendations(c.Score)
	return c
}

func (s *RelevanceScorer) keywordCompetition(keyword string) float64 {
	for _, p := range s.trending.phrases {
		if p == keyword {
			return 0.8
		}
	}
	switch n := utf8.RuneCountInString(keyword); {
	case n <= 4:
		return 0.9
	case n >= 10:
		return 0.3
	default:
		return 0.5
	}
}

func difficulty(score float64) string {
	switch {
	case score >= 0.8:
		return "very high"
	case score >= 0.6:
		return "high"
	case score >= 0.4:
		return "medium"
	case score >= 0.2:
		return "low"
	default:
		return "very low"
	}
}

func competitionRecommendations(score float64) []string {
	switch {
	case score >= 0.8:
		return []string{
			"Focus on more specific long-tail keywords",
			"Add unique angles to the content",
			"Consider less competitive niches",
			"Invest in depth and quality",
		}
	case score >= 0.5:
		return []string{
			"Good opportunity with moderate effort",
			"Add unique value to the content",
			"Optimize SEO carefully",
		}
	default:
		return []string{
			"Excellent opportunity",
			"Low competition, publish quickly",
			"Focus on quality to own the niche",
		}
	}
}
