package scorer

import (
	"errors"
	"math"
	"strings"
	"unicode"
)

var errEmptyVocabulary = errors.New("empty vocabulary")

// corpus is a tiny TF-IDF model over a fixed set of documents. Terms are
// word n-grams of length 1 to maxNgram.
type corpus struct {
	documents    []map[string]float64 // doc -> term -> raw count
	documentFreq map[string]int       // term -> doc count
}

const maxNgram = 3

func newCorpus(texts ...string) (*corpus, error) {
	c := &corpus{
		documentFreq: make(map[string]int),
	}

	for _, text := range texts {
		counts := make(map[string]float64)
		for _, term := range ngrams(tokenize(text), maxNgram) {
			counts[term]++
		}
		for term := range counts {
			c.documentFreq[term]++
		}
		c.documents = append(c.documents, counts)
	}

	if len(c.documentFreq) == 0 {
		return nil, errEmptyVocabulary
	}
	return c, nil
}

// idf uses the smoothed form ln((1+n)/(1+df)) + 1, so a term shared by every
// document still carries weight.
func (c *corpus) idf(term string) float64 {
	n := float64(len(c.documents))
	df := float64(c.documentFreq[term])
	return math.Log((1+n)/(1+df)) + 1
}

func (c *corpus) vector(i int) map[string]float64 {
	vec := make(map[string]float64, len(c.documents[i]))
	for term, count := range c.documents[i] {
		vec[term] = count * c.idf(term)
	}
	return vec
}

// cosine returns the cosine similarity of documents i and j.
func (c *corpus) cosine(i, j int) float64 {
	v1, v2 := c.vector(i), c.vector(j)

	var dotProduct, norm1, norm2 float64
	for term, w1 := range v1 {
		norm1 += w1 * w1
		if w2, ok := v2[term]; ok {
			dotProduct += w1 * w2
		}
	}
	for _, w2 := range v2 {
		norm2 += w2 * w2
	}

	if norm1 == 0 || norm2 == 0 {
		return 0
	}
	return clamp01(dotProduct / (math.Sqrt(norm1) * math.Sqrt(norm2)))
}

// tokenize lowercases content and splits it into word tokens of at least two
// characters. Accented letters are word characters.
func tokenize(content string) []string {
	content = strings.ToLower(content)

	var tokens []string
	var current strings.Builder
	runes := 0

	flush := func() {
		if runes >= 2 {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		runes = 0
	}

	for _, r := range content {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			current.WriteRune(r)
			runes++
		} else if runes > 0 {
			flush()
		}
	}
	flush()

	return tokens
}

func ngrams(tokens []string, n int) []string {
	var out []string
	for size := 1; size <= n; size++ {
		for i := 0; i+size <= len(tokens); i++ {
			out = append(out, strings.Join(tokens[i:i+size], " "))
		}
	}
	return out
}
