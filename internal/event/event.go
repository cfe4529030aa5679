// Package event turns feed items from event listings into dated, located
// events.
package event

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/julienpequegnot/newsforge/internal/content"
)

const (
	// DefaultLocation is used when no place is mentioned.
	DefaultLocation = "Online/Virtual"

	maxDescription = 500
	// undatedOffset places events without any date two weeks ahead.
	undatedOffset = 15 * 24 * time.Hour
)

type Options struct {
	Limit     int
	DaysAhead int
	// Location keeps only events whose location contains it, ignoring case.
	Location string
	Now      time.Time
}

// Build extracts events from items, drops those beyond the horizon or
// outside the requested location and returns them soonest first.
func Build(items []content.Item, opts Options) []content.Event {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	horizon := now.AddDate(0, 0, opts.DaysAhead)
	wanted := strings.ToLower(strings.TrimSpace(opts.Location))

	var events []content.Event
	for _, item := range items {
		ev := FromItem(item, now)
		if opts.DaysAhead > 0 && ev.Date.After(horizon) {
			continue
		}
		if wanted != "" && !strings.Contains(strings.ToLower(ev.Location), wanted) {
			continue
		}
		events = append(events, ev)
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})

	if opts.Limit > 0 && len(events) > opts.Limit {
		events = events[:opts.Limit]
	}
	return events
}

func FromItem(item content.Item, now time.Time) content.Event {
	description := item.Body
	if strings.TrimSpace(description) == "" {
		description = item.Title
	}
	if r := []rune(description); len(r) > maxDescription {
		description = string(r[:maxDescription])
	}

	return content.Event{
		Title:       item.Title,
		Description: description,
		Location:    ExtractLocation(item.Body),
		Date:        ExtractDate(item, now),
		URL:         item.SourceURL,
		Source:      item.Source,
	}
}

var locationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:em|in|at|local:?)\s+([^,\n]{3,50})`),
	regexp.MustCompile(`(?i)\b(?:local|location|venue):?\s*([^,\n]{3,50})`),
	regexp.MustCompile(`\b([A-Z][a-z]+,?\s+[A-Z]{2,})\b`),
}

// ExtractLocation returns the first place mentioned in text, or
// DefaultLocation.
func ExtractLocation(text string) string {
	for _, re := range locationPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			if loc := strings.TrimSpace(m[1]); loc != "" {
				return loc
			}
		}
	}
	return DefaultLocation
}

var months = map[string]time.Month{
	"janeiro": time.January, "fevereiro": time.February, "março": time.March,
	"abril": time.April, "maio": time.May, "junho": time.June,
	"julho": time.July, "agosto": time.August, "setembro": time.September,
	"outubro": time.October, "novembro": time.November, "dezembro": time.December,
}

const monthNames = `janeiro|fevereiro|março|abril|maio|junho|julho|agosto|setembro|outubro|novembro|dezembro`

var (
	dayFirstDate = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	isoDate      = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	monthDayDate = regexp.MustCompile(`(?i)\b(` + monthNames + `)\s+(\d{1,2}),?\s+(\d{4})\b`)
	dayMonthDate = regexp.MustCompile(`(?i)\b(\d{1,2})\s+de\s+(` + monthNames + `)\s+de\s+(\d{4})\b`)
)

// ExtractDate looks for a date written in the title or body first, since the
// publication date of a listing is rarely the event date. Without either the
// event is assumed to happen in 15 days.
func ExtractDate(item content.Item, now time.Time) time.Time {
	if d, ok := parseDate(item.Title+" "+item.Body, now.Location()); ok {
		return d
	}
	if !item.PublishedAt.IsZero() {
		return item.PublishedAt
	}
	return now.Add(undatedOffset)
}

func parseDate(text string, loc *time.Location) (time.Time, bool) {
	if m := dayFirstDate.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(m[3], month(m[2]), m[1], loc); ok {
			return d, true
		}
	}
	if m := isoDate.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(m[1], month(m[2]), m[3], loc); ok {
			return d, true
		}
	}
	if m := monthDayDate.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(m[3], months[strings.ToLower(m[1])], m[2], loc); ok {
			return d, true
		}
	}
	if m := dayMonthDate.FindStringSubmatch(text); m != nil {
		if d, ok := makeDate(m[3], months[strings.ToLower(m[2])], m[1], loc); ok {
			return d, true
		}
	}
	return time.Time{}, false
}

func month(s string) time.Month {
	n, _ := strconv.Atoi(s)
	return time.Month(n)
}

// makeDate rejects dates that time.Date would normalize, such as 31/02.
func makeDate(year string, m time.Month, day string, loc *time.Location) (time.Time, bool) {
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	d, err := strconv.Atoi(day)
	if err != nil {
		return time.Time{}, false
	}

	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	if t.Year() != y || t.Month() != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}
