package models

import (
	"time"

	"github.com/kqlbench/kqlbench/internal/statistics"
)

// ScoreSource tags whether a result's scores came from the judge panel or
// from placeholder substitution after a panel failure. Placeholder scores are
// rendered but never blended into aggregate means.
type ScoreSource string

const (
	ScoreSourceReal        ScoreSource = "real"
	ScoreSourcePlaceholder ScoreSource = "placeholder"
)

// PairStatus is the outcome of one (model, test case) evaluation pair.
type PairStatus string

const (
	PairCompleted PairStatus = "completed"
	PairError     PairStatus = "error"
)

// ModelRunResult is the scored outcome of one model explaining one test case.
// It is owned by the orchestrator until the run freezes, then read-only.
type ModelRunResult struct {
	ModelID     string      `json:"model_id"`
	TestID      string      `json:"test_id"`
	Status      PairStatus  `json:"status"`
	ScoreSource ScoreSource `json:"score_source"`

	Explanation       string           `json:"explanation,omitempty"`
	Verdicts          []JudgeVerdict   `json:"verdicts,omitempty"`
	Consensus         *ConsensusReport `json:"consensus,omitempty"`
	NormalizedAverage ScoreVector      `json:"normalized_average,omitempty"`
	WeightedTotal     float64          `json:"weighted_total"`

	ErrorMsg   string `json:"error_msg,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// Succeeded reports whether this pair produced genuine judge scores that may
// participate in cross-query averaging.
func (r *ModelRunResult) Succeeded() bool {
	return r.Status == PairCompleted && r.ScoreSource == ScoreSourceReal
}

// BenchmarkRun is the full outcome of one benchmark: every (model, test case)
// pair plus the final ranking. Created empty when a run starts, filled in as
// pairs complete, frozen once all pairs have resolved or failed.
type BenchmarkRun struct {
	RunID      string                      `json:"run_id"`
	BenchName  string                      `json:"bench_name"`
	Audience   Audience                    `json:"audience"`
	Timestamp  time.Time                   `json:"timestamp"`
	Models     []string                    `json:"models"`
	TestCases  []TestCase                  `json:"test_cases"`
	PerModel   map[string][]ModelRunResult `json:"per_model"`
	Ranking    []string                    `json:"ranking"`
	DurationMs int64                       `json:"duration_ms"`
}

// ModelAggregate is one model's cross-query summary.
type ModelAggregate struct {
	ModelID           string      `json:"model_id"`
	MeanScores        ScoreVector `json:"mean_scores,omitempty"`
	MeanWeightedTotal float64     `json:"mean_weighted_total"`
	CompletedCount    int         `json:"completed_count"`
	TotalCount        int         `json:"total_count"`

	// CI is a bootstrap 95% confidence interval over per-case weighted
	// totals, populated when the model succeeded on at least two cases.
	CI *statistics.ConfidenceInterval `json:"ci,omitempty"`
}

// FaithfulnessMean returns the model's mean faithfulness score, the
// documented tie-break dimension. Zero when faithfulness was never scored.
func (a *ModelAggregate) FaithfulnessMean() float64 {
	return a.MeanScores[DimFaithfulness]
}

// RankedResults is the aggregator's output: models ordered by descending
// mean weighted total, plus the models that produced no usable scores.
type RankedResults struct {
	Ranking []ModelAggregate `json:"ranking"`
	NoData  []ModelAggregate `json:"no_data,omitempty"`
}
