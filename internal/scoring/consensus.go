package scoring

import (
	"github.com/kqlbench/kqlbench/internal/models"
	"github.com/kqlbench/kqlbench/internal/statistics"
)

// ConsensusAnalyzer measures how much the judge panel agreed on each rubric
// dimension, using the raw (pre-normalization) verdicts.
type ConsensusAnalyzer struct {
	thresholds models.DisagreementThresholds
}

// NewConsensusAnalyzer returns an analyzer with the given disagreement
// thresholds.
func NewConsensusAnalyzer(thresholds models.DisagreementThresholds) *ConsensusAnalyzer {
	return &ConsensusAnalyzer{thresholds: thresholds}
}

// Analyze builds the consensus report for one explanation. Every rubric
// dimension gets an entry; a dimension with fewer than two scores reports
// stdDev=0 and range=0 by convention and cannot be flagged. A judge that
// omitted a dimension is excluded from its statistics, not treated as zero.
func (a *ConsensusAnalyzer) Analyze(verdicts []models.JudgeVerdict) *models.ConsensusReport {
	report := &models.ConsensusReport{
		Dimensions: make(map[models.Dimension]models.DimensionStats, len(models.AllDimensions())),
	}

	for _, d := range models.AllDimensions() {
		var scores []float64
		for _, v := range verdicts {
			if s, ok := v.Scores[d]; ok {
				scores = append(scores, s)
			}
		}

		stats := models.DimensionStats{Samples: len(scores)}
		if len(scores) > 0 {
			stats.Mean = statistics.Mean(scores)
			stats.Min = scores[0]
			stats.Max = scores[0]
			for _, s := range scores[1:] {
				if s < stats.Min {
					stats.Min = s
				}
				if s > stats.Max {
					stats.Max = s
				}
			}
		}
		if len(scores) >= 2 {
			stats.StdDev = statistics.StdDev(scores)
			stats.Range = stats.Max - stats.Min
			if stats.StdDev > a.thresholds.StdDev || stats.Range > a.thresholds.Range {
				report.HighDisagreement = append(report.HighDisagreement, d)
			}
		}
		report.Dimensions[d] = stats
	}

	report.AverageConfidence = averageConfidence(verdicts)
	return report
}

// averageConfidence is the mean of the judges' self-reported confidence,
// counting only judges that scored at least one dimension.
func averageConfidence(verdicts []models.JudgeVerdict) float64 {
	sum := 0.0
	count := 0
	for _, v := range verdicts {
		if len(v.Scores) == 0 {
			continue
		}
		sum += v.Confidence
		count++
	}
	if count == 0 {
		return 0.0
	}
	return sum / float64(count)
}
