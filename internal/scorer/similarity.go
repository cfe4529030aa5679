package scorer

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/julienpequegnot/newsforge/internal/logger"
	"github.com/pmezard/go-difflib/difflib"
)

// SimilarityReport describes textual overlap between two texts. Score is
// 0.3*Sequence + 0.4*Lexical + 0.3*Phrase, where 1 means identical.
type SimilarityReport struct {
	Score    float64 `json:"score"`
	Sequence float64 `json:"sequence"`
	Lexical  float64 `json:"lexical"`
	Phrase   float64 `json:"phrase"`
}

const (
	sequenceWeight = 0.3
	lexicalWeight  = 0.4
	phraseWeight   = 0.3

	// neutralSimilarity is reported when the whole estimate fails.
	neutralSimilarity = 0.5

	minPhraseChars    = 20
	phraseMatchRatio  = 0.8
	similarPhraseRate = 0.7
)

func newReport(sequence, lexical, phrase float64) SimilarityReport {
	return SimilarityReport{
		Score:    clamp01(sequence*sequenceWeight + lexical*lexicalWeight + phrase*phraseWeight),
		Sequence: sequence,
		Lexical:  lexical,
		Phrase:   phrase,
	}
}

func (r SimilarityReport) Risk() RiskLevel {
	return ClassifyRisk(r.Score)
}

type RiskLevel int

const (
	RiskMinimal RiskLevel = iota
	RiskLow
	RiskMedium
	RiskHigh
)

func (l RiskLevel) String() string {
	switch l {
	case RiskHigh:
		return "high: possible duplication"
	case RiskMedium:
		return "medium: insufficient rewrite"
	case RiskLow:
		return "low: acceptable similarity"
	default:
		return "minimal: original content"
	}
}

// ClassifyRisk is for diagnostics only. Gating compares the raw score with a
// threshold.
func ClassifyRisk(score float64) RiskLevel {
	switch {
	case score >= 0.8:
		return RiskHigh
	case score >= 0.6:
		return RiskMedium
	case score >= 0.4:
		return RiskLow
	default:
		return RiskMinimal
	}
}

func Recommendations(score float64) []string {
	switch ClassifyRisk(score) {
	case RiskHigh:
		return []string{
			"Rewrite the content completely",
			"Change the narrative structure",
			"Use synonyms and different expressions",
			"Add your own analysis and context",
		}
	case RiskMedium:
		return []string{
			"Modify more paragraphs",
			"Vary the vocabulary",
			"Reorganize the information",
			"Add editorial insights",
		}
	case RiskLow:
		return []string{
			"Good level of originality",
			"Consider adding more of your own context",
			"Check that the facts were preserved",
		}
	default:
		return []string{"Excellent originality"}
	}
}

type SimilarityEstimator struct {
	logger *slog.Logger
	// combine merges the component scores; replaced in tests.
	combine func(sequence, lexical, phrase float64) SimilarityReport
}

func NewSimilarityEstimator(l *slog.Logger) *SimilarityEstimator {
	return &SimilarityEstimator{logger: logger.OrDefault(l), combine: newReport}
}

// Estimate compares two texts. It never fails: a component that cannot be
// computed counts as 0 and a failure of the whole estimate yields a neutral
// 0.5 score.
func (e *SimilarityEstimator) Estimate(a, b string) (report SimilarityReport) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("similarity estimate failed", "panic", r)
			report = SimilarityReport{Score: neutralSimilarity}
		}
	}()

	cleanA, cleanB := normalize(a), normalize(b)
	if cleanA == cleanB {
		return newReport(1, 1, 1)
	}

	sequence := e.component("sequence", func() (float64, error) {
		return sequenceRatio(cleanA, cleanB), nil
	})
	lexical := e.component("lexical", func() (float64, error) {
		c, err := newCorpus(cleanA, cleanB)
		if err != nil {
			return 0, err
		}
		return c.cosine(0, 1), nil
	})
	phrase := e.component("phrase", func() (float64, error) {
		return phraseSimilarity(a, b), nil
	})

	report = e.combine(sequence, lexical, phrase)
	e.logger.Debug("similarity",
		"sequence", sequence, "lexical", lexical, "phrase", phrase, "score", report.Score)
	return report
}

func (e *SimilarityEstimator) component(name string, fn func() (float64, error)) (v float64) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("similarity component failed", "component", name, "panic", r)
			v = 0
		}
	}()

	v, err := fn()
	if err != nil {
		e.logger.Debug("similarity component unavailable", "component", name, "error", err)
		return 0
	}
	return clamp01(v)
}

// CompareMany estimates target against each reference, in order.
func (e *SimilarityEstimator) CompareMany(target string, references []string) []SimilarityReport {
	out := make([]SimilarityReport, len(references))
	for i, ref := range references {
		out[i] = e.Estimate(target, ref)
	}
	return out
}

type PhraseMatch struct {
	Sentence string  `json:"sentence"`
	Match    string  `json:"match"`
	Ratio    float64 `json:"ratio"`
}

// FindSimilarPhrases lists sentence pairs of at least minWords words each
// whose ratio exceeds 0.7, most similar first.
func (e *SimilarityEstimator) FindSimilarPhrases(a, b string, minWords int) []PhraseMatch {
	var matches []PhraseMatch
	sentencesB := sentences(b)

	for _, s1 := range sentences(a) {
		if len(strings.Fields(s1)) < minWords {
			continue
		}
		for _, s2 := range sentencesB {
			if len(strings.Fields(s2)) < minWords {
				continue
			}
			ratio := sequenceRatio(strings.ToLower(s1), strings.ToLower(s2))
			if ratio > similarPhraseRate {
				matches = append(matches, PhraseMatch{Sentence: s1, Match: s2, Ratio: ratio})
			}
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Ratio > matches[j].Ratio
	})
	return matches
}

// normalize lowercases text, turns every rune that is not a letter or digit
// into a space and collapses whitespace.
func normalize(text string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' {
			return r
		}
		return ' '
	}, strings.ToLower(text))
	return strings.Join(strings.Fields(mapped), " ")
}

// sequenceRatio is the diff ratio 2*M/(len(a)+len(b)) over runes, M being
// the number of characters in matching blocks.
func sequenceRatio(a, b string) float64 {
	m := difflib.NewMatcherWithJunk(splitRunes(a), splitRunes(b), false, nil)
	return m.Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// sentences splits on terminal punctuation and drops fragments of 10
// characters or fewer.
func sentences(text string) []string {
	var out []string
	for _, s := range sentenceSplit.Split(text, -1) {
		s = strings.TrimSpace(s)
		if len([]rune(s)) > 10 {
			out = append(out, s)
		}
	}
	return out
}

// phraseSimilarity is the share of sentence pairs, both longer than 20
// characters, whose ratio is above 0.8.
func phraseSimilarity(a, b string) float64 {
	var similar, total int
	sentencesB := sentences(b)

	for _, s1 := range sentences(a) {
		if len([]rune(s1)) <= minPhraseChars {
			continue
		}
		low1 := strings.ToLower(s1)
		for _, s2 := range sentencesB {
			if len([]rune(s2)) <= minPhraseChars {
				continue
			}
			total++
			if sequenceRatio(low1, strings.ToLower(s2)) > phraseMatchRatio {
				similar++
			}
		}
	}

	if total == 0 {
		return 0
	}
	return float64(similar) / float64(total)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}

func (r SimilarityReport) String() string {
	return fmt.Sprintf("%.3f (sequence %.3f, lexical %.3f, phrase %.3f)", r.Score, r.Sequence, r.Lexical, r.Phrase)
}
