// Package feed collects raw items from RSS and Atom sources.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/julienpequegnot/newsforge/internal/config"
	"github.com/julienpequegnot/newsforge/internal/content"
	"github.com/julienpequegnot/newsforge/internal/logger"
	"github.com/julienpequegnot/newsforge/internal/retry"
	"github.com/mmcdole/gofeed"
)

type Fetcher struct {
	parser  *gofeed.Parser
	client  *http.Client
	retry   retry.Config
	timeout time.Duration
	agent   string
	logger  *slog.Logger
}

func NewFetcher(cfg config.FetchConfig, l *slog.Logger) *Fetcher {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	client := &http.Client{Timeout: timeout}

	parser := gofeed.NewParser()
	parser.UserAgent = cfg.UserAgent
	parser.Client = client

	return &Fetcher{
		parser:  parser,
		client:  client,
		timeout: timeout,
		agent:   cfg.UserAgent,
		retry: retry.Config{
			MaxAttempts: cfg.Retries,
			Delay:       time.Duration(cfg.RetryDelayMs) * time.Millisecond,
			Backoff:     true,
		},
		logger: logger.OrDefault(l),
	}
}

// FetchFeed returns at most limit items of a source, newest first as the
// feed lists them. A limit of zero keeps every item. HTML bodies are
// reduced to plain text.
func (f *Fetcher) FetchFeed(ctx context.Context, src config.Source, limit int) ([]content.Item, error) {
	var feed *gofeed.Feed
	err := retry.Do(ctx, f.retry, func() error {
		reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
		defer cancel()

		var err error
		feed, err = f.parser.ParseURLWithContext(src.URL, reqCtx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", src.Name, err)
	}

	var items []content.Item
	for _, it := range feed.Items {
		if limit > 0 && len(items) >= limit {
			break
		}

		item := content.Item{
			Title:     strings.TrimSpace(it.Title),
			SourceURL: it.Link,
			Source:    src.Name,
			Category:  src.Category,
		}

		if it.PublishedParsed != nil {
			item.PublishedAt = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			item.PublishedAt = *it.UpdatedParsed
		}

		if it.Content != "" {
			item.Body = CleanHTML(it.Content)
		} else {
			item.Body = CleanHTML(it.Description)
		}

		items = append(items, item)
	}

	f.logger.Debug("fetched feed", "source", src.Name, "items", len(items))
	return items, nil
}

// FetchArticle downloads a page and extracts its title and paragraph text.
func (f *Fetcher) FetchArticle(ctx context.Context, pageURL string) (string, string, error) {
	var title, text string
	err := retry.Do(ctx, f.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
		if err != nil {
			return err
		}
		if f.agent != "" {
			req.Header.Set("User-Agent", f.agent)
		}

		resp, err := f.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("HTTP %d", resp.StatusCode)
		}

		doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, 5*1024*1024))
		if err != nil {
			return fmt.Errorf("failed to parse HTML: %w", err)
		}
		title, text = extractTitle(doc), extractText(doc)
		return nil
	})
	if err != nil {
		return "", "", err
	}
	if text == "" {
		return "", "", fmt.Errorf("no content found at %s", pageURL)
	}
	return title, text, nil
}

// CleanHTML returns the readable text of an HTML fragment. Paragraphs are
// separated by blank lines.
func CleanHTML(html string) string {
	if !strings.Contains(html, "<") {
		return strings.TrimSpace(html)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return strings.TrimSpace(html)
	}
	if text := extractText(doc); text != "" {
		return text
	}
	return collapse(doc.Text())
}

var contentSelectors = []string{
	"article p",
	".article p",
	".content p",
	".post-content p",
	".entry-content p",
	"main p",
	"p",
}

func extractText(doc *goquery.Document) string {
	doc.Find("script, style, noscript").Remove()

	var paragraphs []string
	for _, selector := range contentSelectors {
		doc.Find(selector).Each(func(i int, s *goquery.Selection) {
			if text := collapse(s.Text()); text != "" {
				paragraphs = append(paragraphs, text)
			}
		})
		if len(paragraphs) > 0 {
			break
		}
	}

	return strings.Join(paragraphs, "\n\n")
}

func extractTitle(doc *goquery.Document) string {
	for _, selector := range []string{"h1", "title", ".entry-title"} {
		if title := collapse(doc.Find(selector).First().Text()); title != "" {
			return title
		}
	}
	return ""
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
