package topic

import (
	"reflect"
	"testing"
)

func TestExtractTopics(t *testing.T) {
	content := "Novo trailer do jogo para PlayStation chega junto com a nova temporada da série"

	topics := ExtractTopics(content)

	want := []string{"games", "series"}
	if !reflect.DeepEqual(topics, want) {
		t.Errorf("expected %v, got %v", want, topics)
	}
}

func TestExtractTopicsRespectsWordBoundaries(t *testing.T) {
	// "hq" inside "hqx" and "chip" inside "chipmunk" must not count
	topics := ExtractTopics("the chipmunk hqx")

	if len(topics) != 0 {
		t.Errorf("expected no topics, got %v", topics)
	}
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{"Review do novo jogo de RPG para Xbox e PlayStation", "games"},
		{"O novo iPhone traz um chip com inteligência artificial", "tecnologia"},
		{"Crunchyroll anuncia anime de One Piece", "hqs"},
		{"Receita de bolo de cenoura", "cultura-pop"},
	}

	for _, tt := range tests {
		if got := DetectCategory(tt.content); got != tt.want {
			t.Errorf("DetectCategory(%q) = %q, want %q", tt.content, got, tt.want)
		}
	}
}

func TestTopKeywords(t *testing.T) {
	text := "Trailer novo. O trailer mostra gameplay; gameplay e trailer. Para para para."

	got := TopKeywords(text, map[string]bool{"para": true}, 10)

	want := []string{"trailer", "gameplay"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestTopKeywordsLimit(t *testing.T) {
	text := "alpha alpha beta beta gamma gamma delta delta"

	got := TopKeywords(text, nil, 2)
	if len(got) != 2 || got[0] != "alpha" || got[1] != "beta" {
		t.Errorf("expected first two keywords in order, got %v", got)
	}
}
