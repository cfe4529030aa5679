package rewrite

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/content"
	"github.com/julienpequegnot/newsforge/internal/llm"
	"github.com/julienpequegnot/newsforge/internal/logger"
	"github.com/julienpequegnot/newsforge/internal/persona"
	"github.com/julienpequegnot/newsforge/internal/scorer"
)

// scriptedGenerator answers with its responses in order and records prompts.
type scriptedGenerator struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	prompts   []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.responses) {
		return g.responses[i], nil
	}
	return "", errors.New("no scripted response")
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

var (
	gtaSentence = "O trailer de GTA 6 foi revelado pela Rockstar Games nesta manhã."
	fillers     = []string{
		"A empresa mostrou as ruas de Vice City com muitos detalhes visuais.",
		"Os fãs esperavam por esse momento há mais de dez anos.",
		"O lançamento está previsto para o próximo ano nos consoles atuais.",
		"Analistas acreditam que o jogo vai bater recordes de vendas.",
	}
	unrelated = []string{
		"Lucas prepara biscoitos caseiros toda quinta feira.",
		"Marina cultiva tulipas amarelas perto do quintal.",
		"Vizinhos adoram passear junto ao riacho gelado.",
	}
)

// gtaArticle is a 600 word article that mentions gta 6 three times.
func gtaArticle() string {
	var paragraphs, current []string
	words, mentions := 0, 0

	for i := 0; words < 600; i++ {
		s := fillers[i%len(fillers)]
		if i%10 == 0 && mentions < 3 {
			s = gtaSentence
			mentions++
		}
		current = append(current, s)
		words += len(strings.Fields(s))
		if len(current) == 5 {
			paragraphs = append(paragraphs, strings.Join(current, " "))
			current = nil
		}
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, " "))
	}
	return strings.Join(paragraphs, "\n\n")
}

func unrelatedText(sentences int) string {
	out := make([]string, sentences)
	for i := range out {
		out[i] = unrelated[i%len(unrelated)]
	}
	return strings.Join(out, " ")
}

func draftResponse(t *testing.T, title, body string) string {
	t.Helper()
	data, err := json.Marshal(map[string]any{
		"title":            title,
		"content":          body,
		"summary":          "Resumo da matéria.",
		"keywords":         []string{"gta 6", "rockstar", "trailer"},
		"meta_description": "Descrição da matéria.",
	})
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func newTestController(gen *scriptedGenerator) *Controller {
	var g llm.Generator
	if gen != nil {
		g = gen
	}
	return NewController(g, persona.NewRegistry(config.Default().Personas),
		scorer.NewSimilarityEstimator(logger.Discard()), Options{Logger: logger.Discard()})
}

func TestRewriteRetriesNearVerbatimCopy(t *testing.T) {
	item := content.Item{Title: "GTA 6 trailer revelado", Body: gtaArticle(), Category: "games"}
	if n := strings.Count(strings.ToLower(item.Body), "gta 6"); n != 3 {
		t.Fatalf("fixture mentions gta 6 %d times", n)
	}
	if n := len(strings.Fields(item.Body)); n < 600 {
		t.Fatalf("fixture has %d words", n)
	}

	copied := strings.Replace(item.Body, "revelado", "divulgado", 1)
	gen := &scriptedGenerator{responses: []string{
		"```json\n" + draftResponse(t, item.Title, copied) + "\n```",
		draftResponse(t, "Receitas do bairro", unrelatedText(30)),
	}}
	c := newTestController(gen)

	res, err := c.Rewrite(context.Background(), Request{
		Title:    item.Title,
		Text:     item.Body,
		Persona:  persona.Games,
		Category: item.Category,
		Length:   Medium,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gen.calls() != 2 {
		t.Fatalf("expected exactly 2 generator calls, got %d", gen.calls())
	}
	if len(res.Attempts) != 2 {
		t.Fatalf("expected 2 attempts, got %d", len(res.Attempts))
	}

	first := res.Attempts[0].Similarity
	if first.Score <= c.Threshold() {
		t.Errorf("expected first attempt above threshold, got %s", first)
	}
	if res.Similarity.Sequence >= first.Sequence {
		t.Errorf("expected final sequence ratio %f below first %f", res.Similarity.Sequence, first.Sequence)
	}
	if !res.IsOriginal || res.Fallback {
		t.Errorf("expected original non-fallback result, got original=%v fallback=%v (%s)", res.IsOriginal, res.Fallback, res.Similarity)
	}
	if res.Title != "Receitas do bairro" || res.Persona != "games" {
		t.Errorf("expected second draft to win, got %q/%q", res.Title, res.Persona)
	}
	if !strings.Contains(gen.prompts[1], "Reorganize the structure completely") {
		t.Error("expected the second prompt to be the aggressive one")
	}
	if strings.Contains(gen.prompts[0], "Reorganize the structure completely") {
		t.Error("expected the first prompt to be the regular one")
	}
}

func TestRewriteSingleCallWhenOriginal(t *testing.T) {
	body := gtaArticle()
	gen := &scriptedGenerator{responses: []string{draftResponse(t, "Receitas", unrelatedText(12))}}
	c := newTestController(gen)

	res, err := c.Rewrite(context.Background(), Request{Title: "GTA 6", Text: body, Persona: persona.Games})
	if err != nil {
		t.Fatal(err)
	}
	if gen.calls() != 1 {
		t.Errorf("expected exactly 1 call, got %d", gen.calls())
	}
	if !res.IsOriginal || len(res.Attempts) != 1 {
		t.Errorf("expected a single original attempt, got %+v", res.Attempts)
	}
	if res.WordCount != len(strings.Fields(unrelatedText(12))) {
		t.Errorf("unexpected word count %d", res.WordCount)
	}
}

func TestRewriteKeepsFirstWhenRetryFails(t *testing.T) {
	body := gtaArticle()
	gen := &scriptedGenerator{
		responses: []string{draftResponse(t, "Cópia", body)},
		errs:      []error{nil, errors.New("quota exceeded")},
	}
	c := newTestController(gen)

	res, err := c.Rewrite(context.Background(), Request{Title: "GTA 6", Text: body, Persona: persona.Games})
	if err != nil {
		t.Fatal(err)
	}
	if gen.calls() != 2 {
		t.Errorf("expected 2 calls, got %d", gen.calls())
	}
	if res.Fallback || res.IsOriginal || res.Title != "Cópia" {
		t.Errorf("expected the first, non-original draft, got %+v", res)
	}
}

func TestRewriteUnavailableCapability(t *testing.T) {
	c := newTestController(nil)
	body := gtaArticle()

	res, err := c.Rewrite(context.Background(), Request{Title: "GTA 6 trailer revelado", Text: body, Persona: persona.Games})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !res.Fallback || res.IsOriginal {
		t.Errorf("expected fallback=true original=false, got fallback=%v original=%v", res.Fallback, res.IsOriginal)
	}
	if res.Title != "[GAMES] GTA 6 trailer revelado" {
		t.Errorf("unexpected fallback title %q", res.Title)
	}
	if !strings.HasSuffix(res.Content, "...") || len(strings.Fields(res.Content)) != fallbackWords {
		t.Errorf("expected content truncated to %d words", fallbackWords)
	}
}

func TestRewriteGeneratorFailureFallsBack(t *testing.T) {
	gen := &scriptedGenerator{errs: []error{errors.New("connection refused")}}
	c := newTestController(gen)

	res, err := c.Rewrite(context.Background(), Request{Title: "Notícia", Text: "Texto curto da notícia.", Persona: persona.Tech})
	if err != nil {
		t.Fatal(err)
	}
	if gen.calls() != 1 || !res.Fallback || res.IsOriginal {
		t.Errorf("expected one call then fallback, got calls=%d %+v", gen.calls(), res)
	}
	if res.Title != "[TECH] Notícia" || res.Content != "Texto curto da notícia." {
		t.Errorf("unexpected fallback draft %+v", res.Draft)
	}
}

func TestRewriteCancelled(t *testing.T) {
	gen := &scriptedGenerator{}
	c := newTestController(gen)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := c.Rewrite(ctx, Request{Text: "texto"}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if gen.calls() != 0 {
		t.Errorf("expected no calls on a cancelled context, got %d", gen.calls())
	}
}

func TestPromptUsesPersona(t *testing.T) {
	c := newTestController(&scriptedGenerator{})
	p := c.buildPrompt(Request{Text: "texto", Persona: persona.Cinema, Category: "filmes", Length: Short}, false)

	for _, want := range []string{"analítico e cinematográfico", "filmes", "150 and 300 words", "Brazilian Portuguese"} {
		if !strings.Contains(p, want) {
			t.Errorf("expected prompt to contain %q", want)
		}
	}
}

func TestParseDraft(t *testing.T) {
	d, err := parseDraft("Aqui está:\n" + `{"title": "T", "content": "Corpo", "summary": "S", "keywords": ["a"], "meta_description": "M"}` + "\nFim.")
	if err != nil {
		t.Fatal(err)
	}
	if d.Title != "T" || d.Content != "Corpo" || d.MetaDescription != "M" {
		t.Errorf("unexpected draft %+v", d)
	}

	d, err = parseDraft("# Título em destaque\nPrimeira linha do corpo.\nSegunda linha.")
	if err != nil {
		t.Fatal(err)
	}
	if d.Title != "Título em destaque" || d.Content != "Primeira linha do corpo.\nSegunda linha." {
		t.Errorf("unexpected plain draft %+v", d)
	}

	// A JSON reply without every field is treated as plain text.
	d, _ = parseDraft(`{"title": "T"}`)
	if d.Title != `{"title": "T"}` {
		t.Errorf("expected plain fallback for partial JSON, got %+v", d)
	}

	if _, err := parseDraft("  ```json\n```  "); err == nil {
		t.Error("expected error for empty response")
	}
}

func TestParseLength(t *testing.T) {
	if l, ok := ParseLength("LONG"); !ok || l != Long {
		t.Errorf("expected long, got %v %v", l, ok)
	}
	if l, ok := ParseLength("huge"); ok || l != Medium {
		t.Errorf("expected medium fallback, got %v %v", l, ok)
	}
	if lo, hi := Length("x").Words(); lo != 400 || hi != 600 {
		t.Errorf("expected medium band, got %d-%d", lo, hi)
	}
}

func TestGenerateTitleAndSummary(t *testing.T) {
	gen := &scriptedGenerator{responses: []string{"```json\n{\"title\": \"Novo título\", \"summary\": \"Resumo curto.\"}\n```"}}
	c := newTestController(gen)

	ts := c.GenerateTitleAndSummary(context.Background(), "Texto qualquer.", persona.Games)
	if ts.Title != "Novo título" || ts.Summary != "Resumo curto." {
		t.Errorf("unexpected title/summary %+v", ts)
	}

	ts = newTestController(nil).GenerateTitleAndSummary(context.Background(), "Primeira frase. Segunda frase. Terceira frase.", persona.Games)
	if ts.Title != "Primeira frase" || ts.Summary != "Primeira frase. Segunda frase." {
		t.Errorf("unexpected fallback title/summary %+v", ts)
	}
}
