package scorer

import (
	"math"
	"sync"
	"testing"
	"time"

	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/logger"
)

var fixedNow = time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)

func newTestRelevance(now time.Time) *RelevanceScorer {
	s := NewRelevanceScorer(config.Default().Scoring, logger.Discard())
	s.Now = func() time.Time { return now }
	return s
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestRelevanceBreakdown(t *testing.T) {
	s := newTestRelevance(fixedNow)

	b := s.Breakdown("GTA 6 trailer revelado", "A Rockstar mostrou GTA 6 em detalhes.", "games", fixedNow)

	if !approx(b.Keyword, 0.95) {
		t.Errorf("expected keyword 0.95, got %f", b.Keyword)
	}
	if !approx(b.Seasonal, 0.4) {
		t.Errorf("expected seasonal 0.4 for October without hits, got %f", b.Seasonal)
	}
	if !approx(b.Category, 1.0) {
		t.Errorf("expected category 1.0, got %f", b.Category)
	}
	if !approx(b.Freshness, 1.0) {
		t.Errorf("expected freshness 1.0, got %f", b.Freshness)
	}
	// 0.4 base + 0.1*(0.8 trailer + 0.8 revelado) + 0.05 digit
	if !approx(b.Engagement, 0.61) {
		t.Errorf("expected engagement 0.61, got %f", b.Engagement)
	}
	want := 0.95*0.3 + 0.4*0.2 + 1.0*0.2 + 1.0*0.15 + 0.61*0.15
	if !approx(b.Total, want) {
		t.Errorf("expected total %f, got %f", want, b.Total)
	}
}

func TestRelevanceKeywordDefault(t *testing.T) {
	s := newTestRelevance(fixedNow)

	b := s.Breakdown("Receita de bolo", "Nada de tendências aqui.", "culinaria", fixedNow)
	if !approx(b.Keyword, 0.3) {
		t.Errorf("expected keyword default 0.3, got %f", b.Keyword)
	}
	if !approx(b.Category, 0.5) {
		t.Errorf("expected unknown category 0.5, got %f", b.Category)
	}
}

func TestRelevanceKeywordAveragesMatches(t *testing.T) {
	s := newTestRelevance(fixedNow)

	b := s.Breakdown("Netflix e Marvel", "", "filmes", fixedNow)
	if !approx(b.Keyword, (0.80+0.85)/2) {
		t.Errorf("expected averaged keyword weight, got %f", b.Keyword)
	}
}

func TestRelevanceSeasonal(t *testing.T) {
	december := time.Date(2025, time.December, 20, 12, 0, 0, 0, time.UTC)
	s := newTestRelevance(december)

	b := s.Breakdown("Especial de Natal", "", "games", december)
	if !approx(b.Seasonal, 0.9) {
		t.Errorf("expected seasonal 0.9 for natal in December, got %f", b.Seasonal)
	}

	march := time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)
	s = newTestRelevance(march)
	b = s.Breakdown("Especial de Natal", "", "games", march)
	if !approx(b.Seasonal, 0.5) {
		t.Errorf("expected neutral 0.5 for a month without table, got %f", b.Seasonal)
	}
}

func TestRelevanceCategoryNormalization(t *testing.T) {
	s := newTestRelevance(fixedNow)

	if got := s.Breakdown("x", "", "Cultura Pop", fixedNow).Category; !approx(got, 0.7) {
		t.Errorf("expected 'Cultura Pop' to map to cultura-pop 0.7, got %f", got)
	}
}

func TestFreshnessBands(t *testing.T) {
	tests := []struct {
		age  time.Duration
		want float64
	}{
		{-48 * time.Hour, 1.0},
		{30 * time.Minute, 1.0},
		{5 * time.Hour, 0.9},
		{20 * time.Hour, 0.8},
		{48 * time.Hour, 0.7},
		{100 * time.Hour, 0.5},
		{500 * time.Hour, 0.3},
	}

	for _, tt := range tests {
		if got := freshnessScore(tt.age); got != tt.want {
			t.Errorf("freshnessScore(%v) = %v, want %v", tt.age, got, tt.want)
		}
	}
}

func TestRelevanceFutureDate(t *testing.T) {
	s := newTestRelevance(fixedNow)

	b := s.Breakdown("Evento futuro", "texto", "games", fixedNow.Add(72*time.Hour))
	if b.Freshness != 1.0 {
		t.Errorf("expected future date in the freshest band, got %f", b.Freshness)
	}
	if b.Total < 0 || b.Total > 1 {
		t.Errorf("relevance out of range: %f", b.Total)
	}
}

func TestRelevanceZeroDateMeansNow(t *testing.T) {
	s := newTestRelevance(fixedNow)

	if got := s.Breakdown("x", "", "games", time.Time{}).Freshness; got != 1.0 {
		t.Errorf("expected zero time to count as now, got %f", got)
	}
}

func TestEngagementCapsAtOne(t *testing.T) {
	s := newTestRelevance(fixedNow)

	title := "Exclusivo: trailer oficial revelado e confirmado, breaking top 10"
	if got := s.engagementScore(title); got != 1.0 {
		t.Errorf("expected engagement capped at 1.0, got %f", got)
	}
}

func TestRelevanceRangeAndConcurrency(t *testing.T) {
	s := newTestRelevance(fixedNow)

	titles := []string{"", "GTA 6", "Top 10 filmes de terror para o Halloween", "Tesla iPhone 15 ChatGPT Netflix"}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		for _, title := range titles {
			wg.Add(1)
			go func(title string) {
				defer wg.Done()
				score := s.Score(title, title, "games", fixedNow.Add(-time.Duration(i)*time.Hour))
				if score < 0 || score > 1 {
					t.Errorf("score out of range for %q: %f", title, score)
				}
			}(title)
		}
	}
	wg.Wait()
}

func TestTrendingTopics(t *testing.T) {
	s := newTestRelevance(fixedNow)

	topics := s.TrendingTopics(3)
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(topics))
	}
	if topics[0].Keyword != "gta 6" || topics[1].Keyword != "inteligência artificial" {
		t.Errorf("unexpected order: %+v", topics)
	}
	if topics[1].Category != "tecnologia" {
		t.Errorf("expected tecnologia category, got %q", topics[1].Category)
	}
	if topics[2].Score != 0.90 {
		t.Errorf("expected third topic weight 0.90, got %f", topics[2].Score)
	}
}

func TestAnalyzeCompetition(t *testing.T) {
	s := newTestRelevance(fixedNow)

	c := s.AnalyzeCompetition("Trailer novo", "O trailer mostra gameplay. Mais gameplay no trailer.")
	if len(c.Keywords) != 2 {
		t.Fatalf("expected 2 keywords, got %v", c.Keywords)
	}
	if !approx(c.Score, 0.5) || c.Difficulty != "medium" {
		t.Errorf("expected medium competition 0.5, got %f %q", c.Score, c.Difficulty)
	}

	empty := s.AnalyzeCompetition("", "")
	if empty.Score != 0.5 || len(empty.Recommendations) == 0 {
		t.Errorf("expected neutral competition for empty text, got %+v", empty)
	}
}

func TestRelevanceFailureIsNeutral(t *testing.T) {
	s := NewRelevanceScorer(config.Default().Scoring, logger.Discard())
	s.Now = func() time.Time { panic("clock") }

	b := s.Breakdown("GTA 6 trailer revelado", "A Rockstar mostrou GTA 6.", "games", fixedNow)
	if b != (RelevanceBreakdown{Total: 0.5}) {
		t.Errorf("expected only a neutral total, got %+v", b)
	}
	if got := s.Score("GTA 6 trailer revelado", "A Rockstar mostrou GTA 6.", "games", fixedNow); got != 0.5 {
		t.Errorf("expected neutral score 0.5, got %f", got)
	}
}
