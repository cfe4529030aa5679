package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/logger"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>Games</title>
  <item>
    <title>GTA 6 trailer revelado</title>
    <link>https://example.com/gta-6</link>
    <pubDate>Wed, 15 Oct 2025 10:00:00 +0000</pubDate>
    <description><![CDATA[<p>A Rockstar mostrou <b>GTA 6</b>.</p><p>Segundo parágrafo.</p>]]></description>
  </item>
  <item>
    <title>Sem data</title>
    <link>https://example.com/sem-data</link>
    <description>Texto simples</description>
  </item>
  <item>
    <title>Terceiro</title>
    <link>https://example.com/terceiro</link>
    <description>Mais um</description>
  </item>
</channel>
</rss>`

func testFetchConfig() config.FetchConfig {
	return config.FetchConfig{TimeoutSeconds: 5, Retries: 1, UserAgent: "newsforge-test"}
}

func TestFetchFeed(t *testing.T) {
	var agent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	f := NewFetcher(testFetchConfig(), logger.Discard())
	items, err := f.FetchFeed(context.Background(), config.Source{Name: "Test", URL: server.URL, Category: "games"}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 2 {
		t.Fatalf("expected 2 items with limit, got %d", len(items))
	}
	if agent != "newsforge-test" {
		t.Errorf("expected user agent to be sent, got %q", agent)
	}

	first := items[0]
	if first.Title != "GTA 6 trailer revelado" || first.SourceURL != "https://example.com/gta-6" {
		t.Errorf("unexpected item %+v", first)
	}
	if first.Body != "A Rockstar mostrou GTA 6.\n\nSegundo parágrafo." {
		t.Errorf("expected cleaned body, got %q", first.Body)
	}
	if first.Category != "games" || first.Source != "Test" {
		t.Errorf("expected source metadata, got %+v", first)
	}
	if first.PublishedAt.IsZero() {
		t.Error("expected parsed publication date")
	}
	if !items[1].PublishedAt.IsZero() {
		t.Error("expected zero date for item without pubDate")
	}
}

func TestMultiSourceToleratesFailures(t *testing.T) {
	ok := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer ok.Close()
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer broken.Close()

	f := NewFetcher(testFetchConfig(), logger.Discard())
	m := NewMultiSource(f, []config.Source{
		{Name: "broken", URL: broken.URL},
		{Name: "ok", URL: ok.URL},
	}, 0, 2, logger.Discard())

	items, err := m.Items(context.Background())
	if err != nil {
		t.Fatalf("expected partial success, got %v", err)
	}
	if len(items) != 3 {
		t.Errorf("expected 3 items, got %d", len(items))
	}
}

func TestMultiSourceAllFailed(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusInternalServerError)
	}))
	defer broken.Close()

	f := NewFetcher(testFetchConfig(), logger.Discard())
	m := NewMultiSource(f, []config.Source{{Name: "a", URL: broken.URL}, {Name: "b", URL: broken.URL}}, 0, 2, logger.Discard())

	_, err := m.Items(context.Background())
	if err == nil || !strings.Contains(err.Error(), "all 2 sources failed") {
		t.Errorf("expected all-failed error, got %v", err)
	}
}

func TestCleanHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"texto puro", "texto puro"},
		{"<div>sem   <i>parágrafos</i></div>", "sem parágrafos"},
		{"<p>um</p><script>x()</script><p>dois</p>", "um\n\ndois"},
	}

	for _, tt := range tests {
		if got := CleanHTML(tt.in); got != tt.want {
			t.Errorf("CleanHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFetchArticle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Página</title></head><body><h1>Manchete</h1><article><p>Primeiro.</p><p>Segundo.</p></article></body></html>`))
	}))
	defer server.Close()

	f := NewFetcher(testFetchConfig(), logger.Discard())
	title, text, err := f.FetchArticle(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if title != "Manchete" || text != "Primeiro.\n\nSegundo." {
		t.Errorf("unexpected article %q / %q", title, text)
	}
}

func TestDiscoverFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><link rel="alternate" type="application/rss+xml" href="/rss.xml"></head></html>`))
	}))
	defer server.Close()

	got, err := DiscoverFeed(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if got != server.URL+"/rss.xml" {
		t.Errorf("expected resolved feed URL, got %q", got)
	}
}

func TestDiscoverFeedProbesPaths(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/atom.xml" {
			return
		}
		if r.URL.Path == "/" {
			w.Write([]byte("<html></html>"))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	got, err := DiscoverFeed(context.Background(), server.URL)
	if err != nil {
		t.Fatal(err)
	}
	if got != server.URL+"/atom.xml" {
		t.Errorf("expected the atom fallback path, got %q", got)
	}
}
