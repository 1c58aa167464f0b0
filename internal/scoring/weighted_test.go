package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kqlbench/kqlbench/internal/models"
)

func scorerFor(t *testing.T, audience models.Audience) *WeightedScorer {
	t.Helper()
	profile, err := models.ProfileFor(audience)
	require.NoError(t, err)
	return NewWeightedScorer(profile)
}

func fullVector(score float64) models.ScoreVector {
	v := models.ScoreVector{}
	for _, d := range models.AllDimensions() {
		v[d] = score
	}
	return v
}

func TestTotal_UniformScores(t *testing.T) {
	// Weights sum to 1.0, so a uniform vector collapses to that value for
	// every audience.
	for _, a := range models.AllAudiences() {
		t.Run(string(a), func(t *testing.T) {
			s := scorerFor(t, a)
			assert.InDelta(t, 5.0, s.Total(fullVector(5.0)), 1e-9)
			assert.InDelta(t, 3.0, s.Total(fullVector(3.0)), 1e-9)
		})
	}
}

func TestTotal_WeightsFavorTheRightDimensions(t *testing.T) {
	s := scorerFor(t, models.AudienceSRE)

	actionable := fullVector(3.0)
	actionable[models.DimActionability] = 5.0

	wordy := fullVector(3.0)
	wordy[models.DimConciseness] = 5.0

	// Actionability carries 0.25 for SREs, conciseness only 0.05.
	assert.Greater(t, s.Total(actionable), s.Total(wordy))
}

func TestTotal_MissingDimensionRenormalizes(t *testing.T) {
	s := scorerFor(t, models.AudienceDeveloper)

	v := fullVector(4.0)
	delete(v, models.DimConciseness)

	// Renormalizing over the present weights keeps a uniform vector at its
	// value instead of dragging it down by the missing weight.
	assert.InDelta(t, 4.0, s.Total(v), 1e-9)
}

func TestTotal_AnalystIgnoresConciseness(t *testing.T) {
	s := scorerFor(t, models.AudienceAnalyst)

	base := fullVector(4.0)
	terse := fullVector(4.0)
	terse[models.DimConciseness] = 1.0

	assert.InDelta(t, s.Total(base), s.Total(terse), 1e-9)
}

func TestTotal_EmptyVector(t *testing.T) {
	s := scorerFor(t, models.AudienceDeveloper)
	assert.Equal(t, 0.0, s.Total(models.ScoreVector{}))
}
