package scorer

import (
	"sort"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// keywordTable matches a weighted phrase table against text in one pass.
// Matching is by substring, like strings.Contains for each phrase.
type keywordTable struct {
	phrases []string
	weights []float64
	matcher *ahocorasick.Matcher
}

func newKeywordTable(table map[string]float64) *keywordTable {
	t := &keywordTable{}
	for phrase := range table {
		t.phrases = append(t.phrases, strings.ToLower(phrase))
	}
	sort.Strings(t.phrases)

	lookup := make(map[string]float64, len(table))
	for phrase, w := range table {
		lookup[strings.ToLower(phrase)] = w
	}
	for _, p := range t.phrases {
		t.weights = append(t.weights, lookup[p])
	}

	if len(t.phrases) > 0 {
		t.matcher = ahocorasick.NewStringMatcher(t.phrases)
	}
	return t
}

func (t *keywordTable) empty() bool {
	return t == nil || len(t.phrases) == 0
}

// match returns the indexes of distinct phrases found in lowered text.
func (t *keywordTable) match(lowered string) []int {
	if t.empty() {
		return nil
	}
	hits := t.matcher.MatchThreadSafe([]byte(lowered))

	seen := make(map[int]bool, len(hits))
	out := hits[:0]
	for _, h := range hits {
		if !seen[h] {
			seen[h] = true
			out = append(out, h)
		}
	}
	sort.Ints(out)
	return out
}

// average returns the mean weight of matched phrases and the match count.
func (t *keywordTable) average(lowered string) (float64, int) {
	hits := t.match(lowered)
	if len(hits) == 0 {
		return 0, 0
	}
	var sum float64
	for _, h := range hits {
		sum += t.weights[h]
	}
	return sum / float64(len(hits)), len(hits)
}

// sum adds the weights of matched phrases.
func (t *keywordTable) sum(lowered string) float64 {
	var total float64
	for _, h := range t.match(lowered) {
		total += t.weights[h]
	}
	return total
}
