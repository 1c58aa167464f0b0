package orchestration

import (
	"sort"

	"github.com/kqlbench/kqlbench/internal/models"
	"github.com/kqlbench/kqlbench/internal/statistics"
)

// Aggregator collapses a finished run's per-pair results into a cross-query
// ranking. Only pairs with genuine judge scores participate in the means;
// placeholder results count toward totals but never toward averages.
type Aggregator struct{}

// NewAggregator returns an aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// Aggregate computes each model's cross-query summary and orders the models
// by descending mean weighted total. Ties break on mean faithfulness, then
// on model id so the ranking is deterministic. Models with zero succeeded
// pairs are listed separately instead of ranking at zero.
func (a *Aggregator) Aggregate(run *models.BenchmarkRun) *models.RankedResults {
	out := &models.RankedResults{}

	for _, modelID := range run.Models {
		agg := a.aggregateModel(modelID, run.PerModel[modelID])
		if agg.CompletedCount == 0 {
			out.NoData = append(out.NoData, agg)
			continue
		}
		out.Ranking = append(out.Ranking, agg)
	}

	sort.SliceStable(out.Ranking, func(i, j int) bool {
		a, b := out.Ranking[i], out.Ranking[j]
		if a.MeanWeightedTotal != b.MeanWeightedTotal {
			return a.MeanWeightedTotal > b.MeanWeightedTotal
		}
		if a.FaithfulnessMean() != b.FaithfulnessMean() {
			return a.FaithfulnessMean() > b.FaithfulnessMean()
		}
		return a.ModelID < b.ModelID
	})
	sort.SliceStable(out.NoData, func(i, j int) bool {
		return out.NoData[i].ModelID < out.NoData[j].ModelID
	})

	return out
}

func (a *Aggregator) aggregateModel(modelID string, results []models.ModelRunResult) models.ModelAggregate {
	agg := models.ModelAggregate{
		ModelID:    modelID,
		TotalCount: len(results),
	}

	dimSums := map[models.Dimension]float64{}
	dimCounts := map[models.Dimension]int{}
	var weightedTotals []float64

	for i := range results {
		r := &results[i]
		if !r.Succeeded() {
			continue
		}
		agg.CompletedCount++
		weightedTotals = append(weightedTotals, r.WeightedTotal)
		for d, s := range r.NormalizedAverage {
			dimSums[d] += s
			dimCounts[d]++
		}
	}

	if agg.CompletedCount == 0 {
		return agg
	}

	agg.MeanScores = models.ScoreVector{}
	for d, sum := range dimSums {
		agg.MeanScores[d] = sum / float64(dimCounts[d])
	}
	agg.MeanWeightedTotal = statistics.Mean(weightedTotals)

	if len(weightedTotals) >= 2 {
		ci := statistics.BootstrapCI(weightedTotals, 0.95)
		agg.CI = &ci
	}

	return agg
}
