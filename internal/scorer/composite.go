package scorer

import "github.com/julienpequegnot/newsforge/internal/content"

// Composite weights. They sum to 1.
const (
	RelevanceWeight   = 0.4
	QualityWeight     = 0.3
	SEOWeight         = 0.2
	OriginalityWeight = 0.1
)

// Composite combines the four sub-scores into the final score. Inputs are
// clamped to [0,1] so the result is too, and it never decreases when an
// input grows.
func Composite(relevance, quality, seo, originality float64) float64 {
	return clamp01(clamp01(relevance)*RelevanceWeight +
		clamp01(quality)*QualityWeight +
		clamp01(seo)*SEOWeight +
		clamp01(originality)*OriginalityWeight)
}

func NewBreakdown(relevance, quality, seo, originality float64) content.ScoreBreakdown {
	return content.ScoreBreakdown{
		Relevance:   relevance,
		Quality:     quality,
		SEO:         seo,
		Originality: originality,
		Final:       Composite(relevance, quality, seo, originality),
	}
}

// Gate admits items whose final score reaches MinScore and flags those at
// or above FeaturedScore.
type Gate struct {
	MinScore      float64
	FeaturedScore float64
}

type Decision struct {
	Score    float64
	Admitted bool
	Featured bool
}

func DefaultGate() Gate {
	return Gate{MinScore: 0.7, FeaturedScore: 0.9}
}

func (g Gate) Evaluate(final float64) Decision {
	return Decision{
		Score:    final,
		Admitted: final >= g.MinScore,
		Featured: final >= g.FeaturedScore,
	}
}
