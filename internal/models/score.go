package models

// Score bounds for the 1-5 rubric scale.
const (
	ScoreMin = 1.0
	ScoreMax = 5.0
)

// ClampScore forces v into the [ScoreMin, ScoreMax] range.
func ClampScore(v float64) float64 {
	if v < ScoreMin {
		return ScoreMin
	}
	if v > ScoreMax {
		return ScoreMax
	}
	return v
}

// ScoreVector maps rubric dimensions to scores on the 1-5 scale. A missing
// key means the dimension was not scored, which is distinct from a zero.
type ScoreVector map[Dimension]float64

// Clone returns a copy of the vector.
func (v ScoreVector) Clone() ScoreVector {
	out := make(ScoreVector, len(v))
	for d, s := range v {
		out[d] = s
	}
	return out
}

// InBounds reports whether every present value lies within [ScoreMin, ScoreMax].
func (v ScoreVector) InBounds() bool {
	for _, s := range v {
		if s < ScoreMin || s > ScoreMax {
			return false
		}
	}
	return true
}

// JudgeVerdict is one judge's assessment of one explanation.
// Verdicts are immutable after creation.
type JudgeVerdict struct {
	JudgeID    string      `json:"judge_id"`
	Scores     ScoreVector `json:"scores"`
	Confidence float64     `json:"confidence"`
	Notes      string      `json:"notes,omitempty"`
}

// DimensionStats summarizes the judge panel's agreement on one dimension.
type DimensionStats struct {
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Range   float64 `json:"range"`
	Samples int     `json:"samples"`
}

// ConsensusReport holds per-dimension dispersion statistics over the raw
// verdicts for one explanation. Every rubric dimension has an entry even when
// some (or all) judges omitted it; dimensions with fewer than two scores
// report StdDev=0 and Range=0 by convention and are never flagged.
type ConsensusReport struct {
	Dimensions        map[Dimension]DimensionStats `json:"dimensions"`
	HighDisagreement  []Dimension                  `json:"high_disagreement,omitempty"`
	AverageConfidence float64                      `json:"average_confidence"`
}

// Flagged reports whether d was marked as a high-disagreement dimension.
func (c *ConsensusReport) Flagged(d Dimension) bool {
	for _, flagged := range c.HighDisagreement {
		if flagged == d {
			return true
		}
	}
	return false
}
