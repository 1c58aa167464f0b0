package scoring

import (
	"log/slog"

	"github.com/kqlbench/kqlbench/internal/models"
	"github.com/kqlbench/kqlbench/internal/statistics"
)

// minBiasSamples is how many prior scores a judge needs (per dimension,
// within the session) before bias correction kicks in. Below this the raw
// score passes through unchanged.
const minBiasSamples = 2

// Normalizer corrects for judges that are systematically lenient or harsh.
// Each judge's score is converted to a z-score against that judge's own
// in-session distribution, rescaled onto the panel's distribution, and
// clamped back into the 1-5 range. Normalization never fails: whenever the
// statistics are undefined it degrades to the raw score.
type Normalizer struct {
	history *SessionHistory
}

// NewNormalizer returns a normalizer backed by the given session history.
func NewNormalizer(history *SessionHistory) *Normalizer {
	return &Normalizer{history: history}
}

// Normalize computes the bias-corrected panel average for one explanation:
// per dimension, the mean across judges of each judge's normalized score.
// A judge that omitted a dimension is excluded from that dimension's average;
// if every judge omitted it, the entry is absent from the result.
func (n *Normalizer) Normalize(verdicts []models.JudgeVerdict) models.ScoreVector {
	out := models.ScoreVector{}
	for _, d := range models.AllDimensions() {
		sum := 0.0
		count := 0
		for _, v := range verdicts {
			s, ok := v.Scores[d]
			if !ok {
				continue
			}
			sum += n.normalizeOne(v.JudgeID, d, s)
			count++
		}
		if count > 0 {
			out[d] = sum / float64(count)
		}
	}
	return out
}

func (n *Normalizer) normalizeOne(judgeID string, d models.Dimension, score float64) float64 {
	samples := n.history.JudgeSamples(judgeID, d)
	if len(samples) < minBiasSamples {
		// Expected steady state early in a session, not an error.
		slog.Debug("insufficient judge history, using raw score",
			"judge", judgeID, "dimension", d, "samples", len(samples))
		return score
	}

	judgeMean, judgeStdDev := statistics.MeanStdDev(samples)
	z := 0.0
	if judgeStdDev > 0 {
		z = (score - judgeMean) / judgeStdDev
	}

	panelMean, panelStdDev := statistics.MeanStdDev(n.history.PanelSamples(d))
	return models.ClampScore(panelMean + z*panelStdDev)
}
