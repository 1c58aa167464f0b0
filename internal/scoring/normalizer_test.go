package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kqlbench/kqlbench/internal/models"
)

func verdict(judgeID string, scores models.ScoreVector) models.JudgeVerdict {
	return models.JudgeVerdict{JudgeID: judgeID, Scores: scores, Confidence: 4}
}

func TestNormalize_EmptyHistoryPassesRawThrough(t *testing.T) {
	n := NewNormalizer(NewSessionHistory())

	out := n.Normalize([]models.JudgeVerdict{
		verdict("a", models.ScoreVector{models.DimClarity: 4.0, models.DimStructure: 2.0}),
		verdict("b", models.ScoreVector{models.DimClarity: 2.0}),
	})

	assert.InDelta(t, 3.0, out[models.DimClarity], 1e-9)
	assert.InDelta(t, 2.0, out[models.DimStructure], 1e-9)
}

func TestNormalize_OneSampleIsStillRaw(t *testing.T) {
	history := NewSessionHistory()
	history.Record([]models.JudgeVerdict{
		verdict("a", models.ScoreVector{models.DimClarity: 1.0}),
	})

	n := NewNormalizer(history)
	out := n.Normalize([]models.JudgeVerdict{
		verdict("a", models.ScoreVector{models.DimClarity: 5.0}),
	})

	assert.InDelta(t, 5.0, out[models.DimClarity], 1e-9)
}

func TestNormalize_CorrectsHarshJudge(t *testing.T) {
	// Judge a scored low and spread out; judge b scored a constant 4.
	history := NewSessionHistory()
	history.Record([]models.JudgeVerdict{
		verdict("a", models.ScoreVector{models.DimClarity: 1.0}),
		verdict("b", models.ScoreVector{models.DimClarity: 4.0}),
	})
	history.Record([]models.JudgeVerdict{
		verdict("a", models.ScoreVector{models.DimClarity: 3.0}),
		verdict("b", models.ScoreVector{models.DimClarity: 4.0}),
	})

	n := NewNormalizer(history)
	out := n.Normalize([]models.JudgeVerdict{
		verdict("a", models.ScoreVector{models.DimClarity: 4.0}),
		verdict("b", models.ScoreVector{models.DimClarity: 5.0}),
	})

	// Judge a: mean 2, stddev 1, so a 4 is z=+2; rescaled onto the panel
	// distribution (mean 3, stddev ~1.2247) that lands above 5 and clamps.
	// Judge b: zero spread, z degrades to 0, score becomes the panel mean 3.
	assert.InDelta(t, (5.0+3.0)/2.0, out[models.DimClarity], 1e-9)
}

func TestNormalize_OmittedDimensionAbsentFromResult(t *testing.T) {
	n := NewNormalizer(NewSessionHistory())

	out := n.Normalize([]models.JudgeVerdict{
		verdict("a", models.ScoreVector{models.DimClarity: 4.0}),
	})

	_, ok := out[models.DimActionability]
	assert.False(t, ok)
	assert.Len(t, out, 1)
}

func TestSessionHistory(t *testing.T) {
	h := NewSessionHistory()
	assert.Equal(t, ScopeRun, h.Scope())
	assert.Empty(t, h.JudgeSamples("a", models.DimClarity))

	h.Record([]models.JudgeVerdict{
		verdict("a", models.ScoreVector{models.DimClarity: 2.0}),
		verdict("b", models.ScoreVector{models.DimClarity: 4.0}),
	})
	h.Record([]models.JudgeVerdict{
		verdict("a", models.ScoreVector{models.DimClarity: 3.0}),
	})

	assert.Equal(t, []float64{2.0, 3.0}, h.JudgeSamples("a", models.DimClarity))
	assert.Equal(t, []float64{4.0}, h.JudgeSamples("b", models.DimClarity))
	require.Len(t, h.PanelSamples(models.DimClarity), 3)

	h.Reset()
	assert.Empty(t, h.JudgeSamples("a", models.DimClarity))
	assert.Empty(t, h.PanelSamples(models.DimClarity))
}
