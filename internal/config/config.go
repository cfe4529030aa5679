package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Personas   map[string]PersonaConfig `yaml:"personas"`
	Scoring    ScoringConfig            `yaml:"scoring"`
	Thresholds ThresholdConfig          `yaml:"thresholds"`
	Batches    BatchConfig              `yaml:"batches"`
	LLM        LLMConfig                `yaml:"llm"`
	Fetch      FetchConfig              `yaml:"fetch"`
	Pipeline   PipelineConfig           `yaml:"pipeline"`
	Daemon     DaemonConfig             `yaml:"daemon"`
	Log        LogConfig                `yaml:"log"`
	Sources    []Source                 `yaml:"sources"`
}

type PersonaConfig struct {
	Tone  string   `yaml:"tone"`
	Style string   `yaml:"style"`
	Focus []string `yaml:"focus"`
}

// ScoringConfig holds the static tables used by the relevance scorer.
// Seasonal tables are keyed by lowercase English month name.
type ScoringConfig struct {
	Trending   map[string]float64            `yaml:"trending"`
	Seasonal   map[string]map[string]float64 `yaml:"seasonal"`
	Categories map[string]float64            `yaml:"categories"`
	Engaging   map[string]float64            `yaml:"engaging"`
}

type ThresholdConfig struct {
	MinContentScore   float64 `yaml:"min_content_score"`
	RewriteSimilarity float64 `yaml:"rewrite_similarity"`
}

type BatchConfig struct {
	Articles BatchSettings `yaml:"articles"`
	News     BatchSettings `yaml:"news"`
	Featured BatchSettings `yaml:"featured"`
	Events   EventSettings `yaml:"events"`
}

type BatchSettings struct {
	MinScore      float64 `yaml:"min_score"`
	FeaturedScore float64 `yaml:"featured_score"`
	Limit         int     `yaml:"limit"`
	MaxLimit      int     `yaml:"max_limit"`
	HoursAgo      int     `yaml:"hours_ago,omitempty"`
	PerSource     int     `yaml:"per_source"`
	MixCategories bool    `yaml:"mix_categories,omitempty"`
}

type EventSettings struct {
	Limit     int      `yaml:"limit"`
	DaysAhead int      `yaml:"days_ahead"`
	PerSource int      `yaml:"per_source"`
	Sources   []Source `yaml:"sources"`
}

type LLMConfig struct {
	Provider       string `yaml:"provider"`
	Model          string `yaml:"model"`
	BaseURL        string `yaml:"base_url,omitempty"`
	APIKey         string `yaml:"api_key,omitempty"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	MaxRequests    int    `yaml:"max_requests"`
	TargetLength   string `yaml:"target_length"`
}

type FetchConfig struct {
	Concurrency    int    `yaml:"concurrency"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Retries        int    `yaml:"retries"`
	RetryDelayMs   int    `yaml:"retry_delay_ms"`
	UserAgent      string `yaml:"user_agent"`
}

type PipelineConfig struct {
	Concurrency    int `yaml:"concurrency"`
	TimeoutSeconds int `yaml:"timeout_seconds"`
}

type DaemonConfig struct {
	IntervalHours int    `yaml:"interval_hours"`
	OutputDir     string `yaml:"output_dir,omitempty"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

func Default() *Config {
	return &Config{
		Personas: map[string]PersonaConfig{
			"games": {
				Tone:  "casual e entusiasmado",
				Style: "linguagem gamer, referências técnicas",
				Focus: []string{"gameplay", "reviews", "news"},
			},
			"cinema": {
				Tone:  "analítico e cinematográfico",
				Style: "crítico especializado, referências artísticas",
				Focus: []string{"análises", "bastidores", "tendências"},
			},
			"tech": {
				Tone:  "informativo e preciso",
				Style: "técnico mas acessível, foco em inovação",
				Focus: []string{"gadgets", "tendências", "análises técnicas"},
			},
		},
		Scoring: ScoringConfig{
			Trending: map[string]float64{
				"gta 6":                   0.95,
				"baldurs gate 3":          0.90,
				"cyberpunk":               0.85,
				"fortnite":                0.80,
				"valorant":                0.75,
				"marvel":                  0.85,
				"netflix":                 0.80,
				"disney plus":             0.75,
				"stranger things":         0.70,
				"inteligência artificial": 0.95,
				"chatgpt":                 0.90,
				"iphone 15":               0.85,
				"tesla":                   0.80,
				"one piece":               0.90,
				"demon slayer":            0.85,
				"attack on titan":         0.80,
			},
			Seasonal: map[string]map[string]float64{
				"december": {"natal": 0.9, "ano novo": 0.85, "férias": 0.8, "games natal": 0.85},
				"january":  {"lançamentos": 0.8, "preview": 0.75, "ces": 0.9},
				"june":     {"e3": 0.95, "summer game fest": 0.9, "nintendo direct": 0.85},
				"october":  {"halloween": 0.85, "horror games": 0.9, "filmes terror": 0.85},
			},
			Categories: map[string]float64{
				"games":       1.0,
				"filmes":      0.9,
				"series":      0.85,
				"tecnologia":  0.8,
				"hqs":         0.75,
				"cultura-pop": 0.7,
			},
			Engaging: map[string]float64{
				"exclusivo":  0.9,
				"revelado":   0.8,
				"confirmado": 0.8,
				"oficial":    0.7,
				"trailer":    0.8,
				"gameplay":   0.8,
				"review":     0.7,
				"novidade":   0.6,
				"lançamento": 0.7,
				"breaking":   0.9,
				"primeiro":   0.6,
				"último":     0.6,
				"melhor":     0.5,
				"pior":       0.5,
				"top":        0.6,
				"lista":      0.5,
			},
		},
		Thresholds: ThresholdConfig{
			MinContentScore:   0.7,
			RewriteSimilarity: 0.3,
		},
		Batches: BatchConfig{
			Articles: BatchSettings{MinScore: 0.7, FeaturedScore: 0.9, Limit: 20, MaxLimit: 50, PerSource: 10},
			News:     BatchSettings{MinScore: 0.6, FeaturedScore: 0.9, Limit: 15, MaxLimit: 30, HoursAgo: 24, PerSource: 5},
			Featured: BatchSettings{MinScore: 0.85, FeaturedScore: 0.85, Limit: 10, MaxLimit: 20, PerSource: 10, MixCategories: true},
			Events: EventSettings{
				Limit:     10,
				DaysAhead: 30,
				PerSource: 5,
				Sources: []Source{
					{Name: "Eventbrite Geek", URL: "https://www.eventbrite.com/rss/organizer_list_events/123456789", Category: "events"},
					{Name: "Comic Con Events", URL: "https://www.comic-con.org/events.rss", Category: "events"},
				},
			},
		},
		LLM: LLMConfig{
			Provider:       "gemini",
			Model:          "gemini-1.5-flash",
			BaseURL:        "http://localhost:11434",
			TimeoutSeconds: 120,
			TargetLength:   "medium",
		},
		Fetch: FetchConfig{
			Concurrency:    10,
			TimeoutSeconds: 30,
			Retries:        3,
			RetryDelayMs:   1000,
			UserAgent:      "newsforge/1.0",
		},
		Pipeline: PipelineConfig{
			Concurrency:    4,
			TimeoutSeconds: 300,
		},
		Daemon: DaemonConfig{
			IntervalHours: 6,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Sources: []Source{
			{Name: "Anime News Network", URL: "https://www.animenewsnetwork.com/all/rss.xml", Category: "animes"},
			{Name: "Crunchyroll News", URL: "https://www.crunchyroll.com/news/rss", Category: "animes"},
			{Name: "Manga Updates", URL: "https://www.mangaupdates.com/rss.php", Category: "manga"},
			{Name: "VIZ Media", URL: "https://www.viz.com/rss/manga-news", Category: "manga"},
			{Name: "The Verge Entertainment", URL: "https://www.theverge.com/entertainment/rss/index.xml", Category: "filmes"},
			{Name: "ComingSoon", URL: "https://www.comingsoon.net/feed", Category: "filmes"},
			{Name: "Screen Rant", URL: "https://screenrant.com/feed/", Category: "filmes"},
			{Name: "Studio Ghibli News", URL: "https://www.ghibli.jp/rss/news.xml", Category: "studios"},
			{Name: "Disney Studios", URL: "https://www.disney.com/news/rss", Category: "studios"},
			{Name: "GameSpot", URL: "https://www.gamespot.com/feeds/news/", Category: "games"},
			{Name: "IGN Games", URL: "https://feeds.ign.com/ign/games-all", Category: "games"},
			{Name: "Polygon", URL: "https://www.polygon.com/rss/index.xml", Category: "games"},
			{Name: "TechCrunch", URL: "https://techcrunch.com/feed/", Category: "tech"},
			{Name: "Ars Technica", URL: "https://feeds.arstechnica.com/arstechnica/index", Category: "tech"},
		},
	}
}

func Dir() string {
	if dir := os.Getenv("NEWSFORGE_HOME"); dir != "" {
		return dir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".newsforge")
}

func Path() string {
	return filepath.Join(Dir(), "config.yaml")
}

func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads the config at path on top of Default. A missing file is not
// an error. Keyword tables and personas present in the file replace the
// defaults instead of being merged into them.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		var supplied Config
		if err := yaml.Unmarshal(data, &supplied); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		cfg.replaceTables(&supplied)
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// replaceTables swaps in every map the file supplied. yaml.v3 decodes a
// mapping into an existing map by adding keys, which would keep the default
// entries alongside the user's.
func (c *Config) replaceTables(supplied *Config) {
	if supplied.Personas != nil {
		c.Personas = supplied.Personas
	}
	if supplied.Scoring.Trending != nil {
		c.Scoring.Trending = supplied.Scoring.Trending
	}
	if supplied.Scoring.Seasonal != nil {
		c.Scoring.Seasonal = supplied.Scoring.Seasonal
	}
	if supplied.Scoring.Categories != nil {
		c.Scoring.Categories = supplied.Scoring.Categories
	}
	if supplied.Scoring.Engaging != nil {
		c.Scoring.Engaging = supplied.Scoring.Engaging
	}
}

func (c *Config) applyEnv() {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" && c.LLM.APIKey == "" {
		c.LLM.APIKey = key
	}
	if url := os.Getenv("OLLAMA_URL"); url != "" {
		c.LLM.BaseURL = url
	}
	if os.Getenv("DEBUG") == "true" {
		c.Log.Level = "debug"
	}
}

func (c *Config) Validate() error {
	var errs []error
	unit := func(name string, v float64) {
		if v < 0 || v > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0,1], got %g", name, v))
		}
	}

	unit("thresholds.min_content_score", c.Thresholds.MinContentScore)
	unit("thresholds.rewrite_similarity", c.Thresholds.RewriteSimilarity)
	for name, b := range map[string]BatchSettings{
		"articles": c.Batches.Articles,
		"news":     c.Batches.News,
		"featured": c.Batches.Featured,
	} {
		unit("batches."+name+".min_score", b.MinScore)
		unit("batches."+name+".featured_score", b.FeaturedScore)
		if b.Limit < 0 || (b.MaxLimit > 0 && b.Limit > b.MaxLimit) {
			errs = append(errs, fmt.Errorf("batches.%s.limit %d out of range", name, b.Limit))
		}
	}
	for _, table := range []map[string]float64{c.Scoring.Trending, c.Scoring.Categories, c.Scoring.Engaging} {
		for k, v := range table {
			unit("scoring weight "+k, v)
		}
	}
	for month, table := range c.Scoring.Seasonal {
		for k, v := range table {
			unit("scoring.seasonal."+month+" "+k, v)
		}
	}
	if c.Pipeline.Concurrency < 1 {
		errs = append(errs, errors.New("pipeline.concurrency must be at least 1"))
	}
	if c.Pipeline.TimeoutSeconds < 0 {
		errs = append(errs, errors.New("pipeline.timeout_seconds must not be negative"))
	}

	return errors.Join(errs...)
}

// SourcesFor returns the configured sources of one category, or every source
// when category is empty.
func (c *Config) SourcesFor(category string) []Source {
	if category == "" {
		return c.Sources
	}
	var out []Source
	for _, s := range c.Sources {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

func Save(cfg *Config) error {
	return SaveFile(cfg, Path())
}

func SaveFile(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
