package rewrite

import (
	"strings"

	"github.com/julienpequegnot/newsforge/internal/content"
	"github.com/julienpequegnot/newsforge/internal/seo"
)

const fallbackWords = 100

// fallbackDraft is the local rewrite used when no model answer is available:
// the text is tagged with the persona and truncated, never rephrased.
func fallbackDraft(req Request) content.Draft {
	title := req.Title
	if strings.TrimSpace(title) == "" {
		title, _, _ = strings.Cut(req.Text, "\n")
	}
	title = cut(strings.TrimSpace(title), 100)

	body := req.Text
	if words := strings.Fields(req.Text); len(words) > fallbackWords {
		body = strings.Join(words[:fallbackWords], " ") + "..."
	}

	summary := body
	if len([]rune(summary)) > 200 {
		summary = cut(summary, 200) + "..."
	}

	return content.Draft{
		Title:           "[" + strings.ToUpper(req.Persona.String()) + "] " + title,
		Content:         body,
		Summary:         summary,
		Keywords:        seo.ExtractKeywords(req.Text, 5),
		MetaDescription: cut(summary, 160),
	}
}

// fallbackTitleSummary takes the first sentence as title and the first two
// as summary.
func fallbackTitleSummary(text string) TitleSummary {
	parts := strings.SplitAfter(strings.TrimSpace(text), ". ")

	title := strings.TrimSuffix(strings.TrimSpace(parts[0]), ".")
	summary := strings.TrimSpace(strings.Join(parts[:min(2, len(parts))], ""))

	return TitleSummary{
		Title:   cut(title, 100),
		Summary: cut(summary, 300),
	}
}
