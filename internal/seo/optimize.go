package seo

import (
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/julienpequegnot/newsforge/internal/topic"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	maxTitleLen = 60
	maxMetaLen  = 160

	// SlugLength is the slug size used for search metadata.
	SlugLength = 50

	publisherName = "Plataforma Geek"
)

var stopWords = map[string]bool{
	"a": true, "o": true, "e": true, "de": true, "do": true, "da": true, "em": true,
	"um": true, "uma": true, "para": true, "com": true, "por": true, "ao": true,
	"dos": true, "das": true, "na": true, "no": true, "se": true, "que": true,
	"não": true, "mais": true, "como": true, "mas": true, "já": true, "até": true,
	"ou": true, "sua": true, "seu": true, "ela": true, "ele": true, "eles": true,
	"elas": true, "isso": true, "esta": true, "este": true, "essa": true, "esse": true,
	"são": true, "foi": true, "ser": true, "ter": true, "seus": true, "duas": true,
}

var titleCase = cases.Title(language.Und)

// ExtractKeywords returns up to limit repeated words of the content, most
// frequent first, skipping Portuguese stop words.
func ExtractKeywords(content string, limit int) []string {
	return topic.TopKeywords(content, stopWords, limit)
}

// OptimizeTitle prefixes the primary keyword when none of the first two
// keywords appears in the title and there is room for it, then caps the title
// at 60 characters.
func OptimizeTitle(title string, keywords []string) string {
	optimized := strings.TrimSpace(title)

	if len(keywords) > 0 && !containsAny(optimized, keywords, 2) {
		if utf8.RuneCountInString(optimized)+utf8.RuneCountInString(keywords[0])+3 <= maxTitleLen {
			optimized = titleCase.String(keywords[0]) + ": " + optimized
		}
	}

	return truncate(optimized, maxTitleLen)
}

var (
	nonSlug    = regexp.MustCompile(`[^a-z0-9]+`)
	stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
)

// Slug turns a title into a lowercase ASCII, hyphen separated identifier of
// at most limit characters. Accents are folded rather than dropped. A title
// with no Latin letters or digits gets a stable "post-" slug derived from it.
func Slug(title string, limit int) string {
	folded, _, err := transform.String(stripMarks, title)
	if err != nil {
		folded = title
	}

	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(folded), "-"), "-")
	if slug == "" {
		if t := strings.TrimSpace(title); t != "" {
			slug = "post-" + uuid.NewSHA1(uuid.NameSpaceURL, []byte(t)).String()[:8]
		}
	}
	if limit > 0 && len(slug) > limit {
		slug = strings.TrimRight(slug[:limit], "-")
	}
	return slug
}

// MetaDescription builds a description from the first three sentences of the
// content, appends missing top keywords while they fit and caps the result at
// 160 characters.
func MetaDescription(content string, keywords []string) string {
	sentences := strings.Split(strings.TrimSpace(content), ". ")
	description := strings.Join(sentences[:min(3, len(sentences))], ". ")

	for _, kw := range keywords[:min(2, len(keywords))] {
		if strings.Contains(strings.ToLower(description), strings.ToLower(kw)) {
			continue
		}
		if utf8.RuneCountInString(description)+utf8.RuneCountInString(kw)+2 <= maxMetaLen {
			description += " " + titleCase.String(kw) + "."
		}
	}

	return truncate(description, maxMetaLen)
}

// OptimizeStructure makes sure the first paragraph mentions the primary
// keyword and, for longer texts without headings, adds keyword subtitles.
func OptimizeStructure(content string, keywords []string) string {
	paragraphs := strings.Split(content, "\n\n")

	if len(keywords) > 0 && !strings.Contains(strings.ToLower(paragraphs[0]), strings.ToLower(keywords[0])) {
		words := strings.Fields(paragraphs[0])
		if len(words) > 10 {
			at := len(words) / 3
			words = append(words[:at], append([]string{keywords[0]}, words[at:]...)...)
			paragraphs[0] = strings.Join(words, " ")
		}
	}

	if len(paragraphs) <= 3 || strings.Contains(content, "#") {
		return strings.Join(paragraphs, "\n\n")
	}

	out := make([]string, 0, len(paragraphs)+len(keywords))
	for i, p := range paragraphs {
		if i%2 == 1 && i-1 < len(keywords) {
			out = append(out, "## "+titleCase.String(keywords[i-1]))
		}
		out = append(out, p)
	}
	return strings.Join(out, "\n\n")
}

type Organization struct {
	Type string     `json:"@type"`
	Name string     `json:"name"`
	Logo *ImageLink `json:"logo,omitempty"`
}

type ImageLink struct {
	Type string `json:"@type"`
	URL  string `json:"url"`
}

type WebPage struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

// StructuredData is the schema.org Article JSON-LD document for one article.
type StructuredData struct {
	Context          string       `json:"@context"`
	Type             string       `json:"@type"`
	Headline         string       `json:"headline"`
	Description      string       `json:"description"`
	ArticleSection   string       `json:"articleSection"`
	URL              string       `json:"url"`
	DatePublished    *time.Time   `json:"datePublished"`
	DateModified     *time.Time   `json:"dateModified"`
	Author           Organization `json:"author"`
	Publisher        Organization `json:"publisher"`
	MainEntityOfPage WebPage      `json:"mainEntityOfPage"`
}

// NewStructuredData leaves the publication dates empty; they are set once
// the article is published.
func NewStructuredData(title, description, category, slug string) StructuredData {
	return StructuredData{
		Context:        "https://schema.org",
		Type:           "Article",
		Headline:       title,
		Description:    description,
		ArticleSection: category,
		URL:            "/" + slug,
		Author:         Organization{Type: "Organization", Name: publisherName},
		Publisher: Organization{
			Type: "Organization",
			Name: publisherName,
			Logo: &ImageLink{Type: "ImageObject", URL: "/logo.png"},
		},
		MainEntityOfPage: WebPage{Type: "WebPage", ID: "/" + slug},
	}
}

type Result struct {
	Title           string         `json:"title"`
	Slug            string         `json:"slug"`
	MetaTitle       string         `json:"meta_title"`
	MetaDescription string         `json:"meta_description"`
	Keywords        []string       `json:"keywords"`
	Content         string         `json:"optimized_content"`
	StructuredData  StructuredData `json:"structured_data"`
	Score           float64        `json:"seo_score"`
	Suggestions     []string       `json:"suggestions,omitempty"`
}

// Optimize derives every piece of search metadata for an article. Keywords
// are extracted from the content when none are given.
func (s *Scorer) Optimize(title, content, category string, keywords []string) Result {
	if len(keywords) == 0 {
		keywords = ExtractKeywords(content, 10)
	}

	optimizedTitle := OptimizeTitle(title, keywords[:min(3, len(keywords))])
	slug := Slug(optimizedTitle, SlugLength)
	meta := MetaDescription(content, keywords[:min(2, len(keywords))])
	body := OptimizeStructure(content, keywords)

	return Result{
		Title:           optimizedTitle,
		Slug:            slug,
		MetaTitle:       truncateRunes(optimizedTitle, maxTitleLen),
		MetaDescription: meta,
		Keywords:        keywords,
		Content:         body,
		StructuredData:  NewStructuredData(optimizedTitle, meta, category, slug),
		Score:           s.Score(optimizedTitle, body, meta, keywords),
		Suggestions:     s.Suggestions(optimizedTitle, body, meta, keywords),
	}
}

// truncate cuts text longer than limit characters to limit-3 characters
// plus an ellipsis.
func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}
	return string([]rune(text)[:limit-3]) + "..."
}

func truncateRunes(text string, limit int) string {
	r := []rune(text)
	if len(r) <= limit {
		return text
	}
	return string(r[:limit])
}
