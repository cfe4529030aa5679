package rewrite

import (
	"fmt"
	"strings"

	"github.com/julienpequegnot/newsforge/internal/persona"
)

const responseFormat = `Reply ONLY with valid JSON in this format:
{
  "title": "Rewritten title optimized for SEO",
  "content": "Full rewritten content",
  "summary": "Summary in 2-3 sentences",
  "keywords": ["keyword1", "keyword2", "keyword3"],
  "meta_description": "SEO meta description (max 160 characters)"
}`

func (c *Controller) buildPrompt(req Request, aggressive bool) string {
	g := c.personas.Guidelines(req.Persona, persona.Article)

	var sb strings.Builder
	fmt.Fprintf(&sb, "Completely rewrite the following %s content in Brazilian Portuguese.\n\n", req.Category)
	fmt.Fprintf(&sb, "Tone: %s\n", g.Tone)
	fmt.Fprintf(&sb, "Language: %s\n", g.Style)
	fmt.Fprintf(&sb, "Focus: %s\n", strings.Join(g.FocusAreas, ", "))
	fmt.Fprintf(&sb, "Vocabulary: %s\n", g.VocabularyLevel)
	if len(g.Structure) > 0 {
		fmt.Fprintf(&sb, "Structure: %s\n", strings.Join(g.Structure, " -> "))
	}
	fmt.Fprintf(&sb, "Length: %s\n\n", req.Length.instruction())

	if req.Title != "" {
		fmt.Fprintf(&sb, "Original title: %s\n", req.Title)
	}
	fmt.Fprintf(&sb, "Original content:\n%s\n\n", req.Text)

	sb.WriteString("IMPORTANT:\n")
	sb.WriteString("- Keep every factual detail\n")
	sb.WriteString("- Use entirely your own words\n")
	sb.WriteString("- Adapt the tone for a Brazilian audience\n")
	if aggressive {
		sb.WriteString("- The previous rewrite was too close to the original\n")
		sb.WriteString("- Reorganize the structure completely and change the order of the information\n")
		sb.WriteString("- Replace the vocabulary: do not reuse sentences or expressions from the original\n")
		sb.WriteString("- Add your own analysis, context and opinion\n")
	} else {
		sb.WriteString("- Be original and creative\n")
	}
	sb.WriteString("\n")
	sb.WriteString(responseFormat)

	return sb.String()
}

func (c *Controller) buildTitlePrompt(text string, p persona.Persona) string {
	prof := c.personas.Profile(p)
	return fmt.Sprintf(`Write a title and a summary in Brazilian Portuguese for the article below.

Tone: %s
Language: %s

The title must have between 30 and 60 characters. The summary must have 2-3 sentences.

Article:
%s

Reply ONLY with valid JSON: {"title": "...", "summary": "..."}`, prof.Tone, prof.Style, text)
}
