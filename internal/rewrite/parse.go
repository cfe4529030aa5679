package rewrite

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"

	"github.com/julienpequegnot/newsforge/internal/content"
	"github.com/julienpequegnot/newsforge/internal/seo"
)

var (
	errEmptyResponse = errors.New("empty rewrite response")
	codeFence        = regexp.MustCompile("```(?:json)?\\n?")
)

type draftJSON struct {
	Title           *string  `json:"title"`
	Content         *string  `json:"content"`
	Summary         *string  `json:"summary"`
	Keywords        []string `json:"keywords"`
	MetaDescription *string  `json:"meta_description"`
}

// parseDraft reads the structured reply of the model. Replies that are not
// the requested JSON are split into a title line and a body.
func parseDraft(response string) (content.Draft, error) {
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(strings.TrimSpace(response), ""))
	if cleaned == "" {
		return content.Draft{}, errEmptyResponse
	}

	if d, ok := decodeDraft(cleaned); ok {
		return d, nil
	}
	if start, end := strings.IndexByte(cleaned, '{'), strings.LastIndexByte(cleaned, '}'); start >= 0 && end > start {
		if d, ok := decodeDraft(cleaned[start : end+1]); ok {
			return d, nil
		}
	}

	return plainDraft(cleaned), nil
}

func decodeDraft(s string) (content.Draft, bool) {
	var raw draftJSON
	if err := json.Unmarshal([]byte(s), &raw); err != nil {
		return content.Draft{}, false
	}
	if raw.Title == nil || raw.Content == nil || raw.Summary == nil || raw.MetaDescription == nil || raw.Keywords == nil {
		return content.Draft{}, false
	}
	if strings.TrimSpace(*raw.Content) == "" {
		return content.Draft{}, false
	}

	return content.Draft{
		Title:           strings.TrimSpace(*raw.Title),
		Content:         strings.TrimSpace(*raw.Content),
		Summary:         strings.TrimSpace(*raw.Summary),
		Keywords:        raw.Keywords,
		MetaDescription: strings.TrimSpace(*raw.MetaDescription),
	}, true
}

// plainDraft uses the first line as the title and the rest as the body.
func plainDraft(text string) content.Draft {
	lines := strings.Split(text, "\n")

	title := strings.TrimSpace(strings.NewReplacer("#", "", "*", "").Replace(lines[0]))
	body := text
	if len(lines) > 1 {
		body = strings.TrimSpace(strings.Join(lines[1:], "\n"))
	}

	words := strings.Fields(body)
	summary := body
	if len(words) > 30 {
		summary = strings.Join(words[:30], " ") + "..."
	}
	summary = cut(summary, 300)

	return content.Draft{
		Title:           cut(title, 200),
		Content:         body,
		Summary:         summary,
		Keywords:        seo.ExtractKeywords(body, 5),
		MetaDescription: cut(summary, 160),
	}
}

type titleSummaryJSON struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

func parseTitleSummary(response string) (TitleSummary, bool) {
	cleaned := strings.TrimSpace(codeFence.ReplaceAllString(strings.TrimSpace(response), ""))
	if start, end := strings.IndexByte(cleaned, '{'), strings.LastIndexByte(cleaned, '}'); start >= 0 && end > start {
		cleaned = cleaned[start : end+1]
	}

	var ts titleSummaryJSON
	if err := json.Unmarshal([]byte(cleaned), &ts); err != nil {
		return TitleSummary{}, false
	}
	ts.Title, ts.Summary = strings.TrimSpace(ts.Title), strings.TrimSpace(ts.Summary)
	if ts.Title == "" || ts.Summary == "" {
		return TitleSummary{}, false
	}
	return TitleSummary{Title: ts.Title, Summary: ts.Summary}, true
}

// cut keeps at most n characters of s.
func cut(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
