package event

import (
	"strings"
	"testing"
	"time"

	"github.com/julienpequegnot/newsforge/internal/content"
)

var now = time.Date(2025, time.October, 15, 12, 0, 0, 0, time.UTC)

func TestExtractLocation(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"A convenção acontece em São Paulo, com muitos convidados.", "São Paulo"},
		{"Venue: Expo Center Norte", "Expo Center Norte"},
		{"Live stream para todos", DefaultLocation},
		{"", DefaultLocation},
		{"Encontro de fãs Curitiba PR amanhã", "Curitiba PR"},
	}

	for _, tt := range tests {
		if got := ExtractLocation(tt.text); got != tt.want {
			t.Errorf("ExtractLocation(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestExtractDate(t *testing.T) {
	published := time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		item content.Item
		want time.Time
	}{
		{"day first", content.Item{Body: "Dia 05/11/2025 no centro"}, time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)},
		{"iso", content.Item{Title: "Evento 2025-12-01"}, time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC)},
		{"month name", content.Item{Body: "Começa em Novembro 20, 2025"}, time.Date(2025, time.November, 20, 0, 0, 0, 0, time.UTC)},
		{"portuguese long form", content.Item{Body: "No dia 3 de março de 2026"}, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC)},
		{"invalid day falls back to published", content.Item{Body: "31/02/2025", PublishedAt: published}, published},
		{"published", content.Item{Body: "sem data", PublishedAt: published}, published},
		{"undated", content.Item{Body: "sem data"}, now.Add(15 * 24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDate(tt.item, now); !got.Equal(tt.want) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestBuild(t *testing.T) {
	items := []content.Item{
		{Title: "CCXP", Body: "Evento em São Paulo, dia 04/12/2025", SourceURL: "https://ccxp", Source: "Comic Con Events"},
		{Title: "Game Jam", Body: "Online dia 20/10/2025"},
		{Title: "Distante", Body: "Local: Rio de Janeiro, 01/03/2026"},
		{Title: "Anime Fest", Body: "Evento em São Paulo, dia 25/10/2025"},
	}

	events := Build(items, Options{DaysAhead: 60, Now: now})
	if len(events) != 3 {
		t.Fatalf("expected 3 events within 60 days, got %d", len(events))
	}
	if events[0].Title != "Game Jam" || events[1].Title != "Anime Fest" || events[2].Title != "CCXP" {
		t.Errorf("expected events sorted by date, got %s, %s, %s", events[0].Title, events[1].Title, events[2].Title)
	}
	if events[2].URL != "https://ccxp" || events[2].Source != "Comic Con Events" {
		t.Errorf("expected url and source kept, got %+v", events[2])
	}

	filtered := Build(items, Options{DaysAhead: 60, Location: "são paulo", Limit: 1, Now: now})
	if len(filtered) != 1 || filtered[0].Title != "Anime Fest" {
		t.Errorf("expected the first event in São Paulo, got %+v", filtered)
	}
}

func TestFromItemTruncatesDescription(t *testing.T) {
	ev := FromItem(content.Item{Title: "T", Body: strings.Repeat("é", 600)}, now)
	if n := len([]rune(ev.Description)); n != maxDescription {
		t.Errorf("expected %d characters, got %d", maxDescription, n)
	}

	ev = FromItem(content.Item{Title: "Só título"}, now)
	if ev.Description != "Só título" || ev.Location != DefaultLocation {
		t.Errorf("unexpected event %+v", ev)
	}
}
