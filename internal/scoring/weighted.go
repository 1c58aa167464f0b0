package scoring

import "github.com/kqlbench/kqlbench/internal/models"

// WeightedScorer collapses a score vector into one scalar using an audience
// weight profile. Profiles are validated when loaded (weights sum to 1.0);
// the scorer assumes a valid profile and never re-checks at scoring time.
type WeightedScorer struct {
	profile models.AudienceWeightProfile
}

// NewWeightedScorer returns a scorer for the given profile.
func NewWeightedScorer(profile models.AudienceWeightProfile) *WeightedScorer {
	return &WeightedScorer{profile: profile}
}

// Total computes Σ(weight·score) over the dimensions present in the vector,
// divided by the sum of those dimensions' weights. Renormalizing over the
// present weights means a missing dimension is genuinely ignored instead of
// dragging the total down as an implicit zero.
func (s *WeightedScorer) Total(scores models.ScoreVector) float64 {
	weightedSum := 0.0
	weightSum := 0.0
	for d, w := range s.profile.Weights {
		score, ok := scores[d]
		if !ok {
			continue
		}
		weightedSum += w * score
		weightSum += w
	}
	if weightSum == 0 {
		return 0.0
	}
	return weightedSum / weightSum
}
