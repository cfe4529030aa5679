package topic

import (
	"testing"
	"time"

	"github.com/julienpequegnot/newsforge/internal/content"
)

var trendNow = time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)

func newTestAnalyzer(boosts map[string]float64) *TrendAnalyzer {
	ta := NewTrendAnalyzer(boosts)
	ta.now = func() time.Time { return trendNow }
	return ta
}

func TestTrendAnalyzerRanksKeywords(t *testing.T) {
	ta := newTestAnalyzer(map[string]float64{"GTA 6": 0.95, "zelda": 0.5})

	items := map[string]content.Item{
		"a": {Title: "GTA 6 ganha trailer", Category: "games", PublishedAt: trendNow.Add(-time.Hour)},
		"b": {Title: "Novo trailer de GTA 6", Body: "O jogo chega ao console em 2026.", PublishedAt: trendNow.Add(-2 * time.Hour)},
		"c": {Title: "Zelda recebe data", Category: "games", PublishedAt: trendNow.AddDate(0, 0, -30)},
		"d": {Title: "Bilheteria do fim de semana", Category: "filmes", PublishedAt: trendNow.Add(-3 * time.Hour)},
	}
	for _, id := range []string{"a", "b", "c", "d"} {
		ta.Observe(id, items[id], trendNow)
	}
	// Seen ids are not counted twice.
	ta.Observe("a", items["a"], trendNow)

	trends := ta.GetTrends(7, 10)
	if len(trends) != 3 {
		t.Fatalf("expected 3 trends, got %+v", trends)
	}

	top := trends[0]
	if top.Topic != "gta 6" || top.Category != "games" || top.Count != 2 {
		t.Errorf("unexpected top trend %+v", top)
	}
	if top.Boost != 0.95 || len(top.Recent) != 2 {
		t.Errorf("expected boost 0.95 and 2 recent items, got %+v", top)
	}
	if trends[1].Topic != "filmes" || trends[1].Boost != 0 || trends[1].Category != "filmes" {
		t.Errorf("expected the unmatched item to count towards its category, got %+v", trends[1])
	}
	if trends[2].Topic != "zelda" || len(trends[2].Recent) != 0 {
		t.Errorf("expected zelda last without recent items, got %+v", trends[2])
	}
}

func TestTrendScore(t *testing.T) {
	ta := newTestAnalyzer(map[string]float64{"hollow knight": 0, "silksong": 1})

	ta.AddItem("1", "games", []string{"hollow knight"}, trendNow)
	ta.AddItem("2", "games", []string{"silksong"}, trendNow)
	ta.AddItem("3", "games", []string{"hollow knight"}, trendNow.AddDate(0, -2, 0))

	trends := ta.GetTrends(7, 0)
	scores := make(map[string]float64)
	for _, tr := range trends {
		scores[tr.Topic] = tr.Score
	}

	// One recent mention: (2*1 + 1) * 2 recency * 2 boost.
	if scores["silksong"] != 12 {
		t.Errorf("expected silksong score 12, got %f", scores["silksong"])
	}
	// One recent and one old mention: (2*1 + 2) * 2 recency.
	if scores["hollow knight"] != 8 {
		t.Errorf("expected hollow knight score 8, got %f", scores["hollow knight"])
	}
	if trends[0].Topic != "silksong" {
		t.Errorf("expected the boosted topic first, got %s", trends[0].Topic)
	}
}

func TestTrendCategoryMajority(t *testing.T) {
	ta := newTestAnalyzer(map[string]float64{"marvel": 0.8})

	ta.AddItem("1", "filmes", []string{"marvel"}, trendNow)
	ta.AddItem("2", "hqs", []string{"marvel"}, trendNow)
	ta.AddItem("3", "hqs", []string{"marvel"}, trendNow)
	ta.AddItem("4", "", nil, trendNow)

	trends := ta.GetTrends(7, 5)
	if len(trends) != 1 {
		t.Fatalf("expected an item without topic or category to be skipped, got %+v", trends)
	}
	if trends[0].Category != "hqs" {
		t.Errorf("expected majority category hqs, got %s", trends[0].Category)
	}

	if got := majority(map[string]int{"series": 1, "filmes": 1}); got != "filmes" {
		t.Errorf("expected ties to go to the first name, got %s", got)
	}
}

func TestTrendLimit(t *testing.T) {
	ta := newTestAnalyzer(nil)
	for _, c := range []string{"games", "filmes", "series"} {
		ta.AddItem(c, c, nil, trendNow)
	}
	if got := ta.GetTrends(7, 2); len(got) != 2 {
		t.Errorf("expected 2 trends, got %d", len(got))
	}
}
