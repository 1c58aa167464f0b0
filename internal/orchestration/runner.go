// Package orchestration drives a benchmark run: it schedules every
// (model, test case) pair, feeds verdicts through the scoring pipeline, and
// assembles the final run record.
package orchestration

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/kqlbench/kqlbench/internal/config"
	"github.com/kqlbench/kqlbench/internal/dataset"
	"github.com/kqlbench/kqlbench/internal/models"
	"github.com/kqlbench/kqlbench/internal/panel"
	"github.com/kqlbench/kqlbench/internal/scoring"
)

// RowFetcher pulls live rows for test cases that carry a query but no inline
// table. Nil is fine when every case inlines its rows.
type RowFetcher interface {
	Query(ctx context.Context, kql string, timespanHours int) (models.ResultTable, error)
}

// Runner orchestrates one benchmark run.
type Runner struct {
	cfg       *config.BenchmarkConfig
	explainer panel.Explainer
	judges    panel.JudgePanel
	fetcher   RowFetcher
	verbose   bool

	// sem bounds concurrent remote calls. Pairs execute sequentially, so
	// with the default max_in_flight of 1 this only guards against a
	// misconfigured engine making parallel calls of its own.
	sem *semaphore.Weighted

	progressMu sync.Mutex
	listeners  []ProgressListener
}

// ProgressListener receives progress updates.
type ProgressListener func(event ProgressEvent)

// EventType represents the type of progress event.
type EventType string

// EventType constants
const (
	EventBenchmarkStart    EventType = "benchmark_start"
	EventBenchmarkComplete EventType = "benchmark_complete"
	EventPairStart         EventType = "pair_start"
	EventExplainComplete   EventType = "explain_complete"
	EventJudgeComplete     EventType = "judge_complete"
	EventPairComplete      EventType = "pair_complete"
)

// ProgressEvent represents a progress update. CompletedSteps counts remote
// call phases (two per pair) and only ever increases.
type ProgressEvent struct {
	EventType      EventType
	ModelID        string
	TestID         string
	CompletedSteps int
	TotalSteps     int
	Status         models.PairStatus
	DurationMs     int64
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRowFetcher supplies a live log source for cases without inline tables.
func WithRowFetcher(f RowFetcher) RunnerOption {
	return func(r *Runner) { r.fetcher = f }
}

// NewRunner creates a runner around the two collaborators.
func NewRunner(cfg *config.BenchmarkConfig, explainer panel.Explainer, judges panel.JudgePanel, opts ...RunnerOption) *Runner {
	r := &Runner{
		cfg:       cfg,
		explainer: explainer,
		judges:    judges,
		verbose:   cfg.Verbose(),
		sem:       semaphore.NewWeighted(int64(maxInFlight(cfg))),
		listeners: []ProgressListener{},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func maxInFlight(cfg *config.BenchmarkConfig) int {
	if spec := cfg.Spec(); spec != nil && spec.Config.MaxInFlight > 0 {
		return spec.Config.MaxInFlight
	}
	return models.DefaultMaxInFlight
}

// OnProgress registers a progress listener.
func (r *Runner) OnProgress(listener ProgressListener) {
	r.progressMu.Lock()
	defer r.progressMu.Unlock()
	r.listeners = append(r.listeners, listener)
}

func (r *Runner) notifyProgress(event ProgressEvent) {
	r.progressMu.Lock()
	listeners := make([]ProgressListener, len(r.listeners))
	copy(listeners, r.listeners)
	r.progressMu.Unlock()

	for _, listener := range listeners {
		listener(event)
	}
}

// RunBenchmark executes the entire benchmark: every candidate model explains
// every test case, and the judge panel scores every explanation. Pairs run
// sequentially, test cases outer and models inner, so judges see all models'
// explanations of one query close together. A pair failure never aborts the
// run; the run only errors when every pair failed.
func (r *Runner) RunBenchmark(ctx context.Context) (*models.BenchmarkRun, error) {
	startTime := time.Now()
	spec := r.cfg.Spec()

	if err := spec.Validate(); err != nil {
		return nil, err
	}
	candidates := r.cfg.Models()
	if len(candidates) < 2 {
		return nil, models.NewConfigError("a comparison run needs at least 2 models, got %d", len(candidates))
	}

	testCases, err := r.loadTestCases(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load test cases: %w", err)
	}
	if len(testCases) == 0 {
		return nil, models.NewConfigError("no test cases found")
	}

	totalSteps := len(candidates) * len(testCases) * 2
	completed := 0

	r.notifyProgress(ProgressEvent{
		EventType:  EventBenchmarkStart,
		TotalSteps: totalSteps,
	})

	// One history per run; judge bias estimates never bleed across runs.
	history := scoring.NewSessionHistory()
	pipeline := &scorePipeline{
		normalizer: scoring.NewNormalizer(history),
		history:    history,
		consensus:  scoring.NewConsensusAnalyzer(spec.Thresholds()),
	}

	run := &models.BenchmarkRun{
		RunID:     fmt.Sprintf("run-%d", startTime.Unix()),
		BenchName: spec.Name,
		Audience:  spec.Audience,
		Timestamp: startTime,
		Models:    candidates,
		PerModel:  make(map[string][]models.ModelRunResult, len(candidates)),
	}
	for _, tc := range testCases {
		run.TestCases = append(run.TestCases, *tc)
	}

	policy := panel.PolicyFromConfig(spec.Config)
	succeeded := 0

	for _, tc := range testCases {
		audience := spec.Audience
		if tc.Audience != "" {
			audience = tc.Audience
		}
		scorer, err := weightedScorerFor(audience)
		if err != nil {
			return nil, err
		}

		for _, modelID := range candidates {
			r.notifyProgress(ProgressEvent{
				EventType:      EventPairStart,
				ModelID:        modelID,
				TestID:         tc.ID,
				CompletedSteps: completed,
				TotalSteps:     totalSteps,
			})

			result := r.runPair(ctx, tc, modelID, audience, policy, pipeline, scorer, &completed, totalSteps)
			run.PerModel[modelID] = append(run.PerModel[modelID], result)
			if result.Succeeded() {
				succeeded++
			}

			r.notifyProgress(ProgressEvent{
				EventType:      EventPairComplete,
				ModelID:        modelID,
				TestID:         tc.ID,
				CompletedSteps: completed,
				TotalSteps:     totalSteps,
				Status:         result.Status,
				DurationMs:     result.DurationMs,
			})

			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
		}
	}

	if succeeded == 0 {
		return nil, fmt.Errorf("all %d (model, test case) pairs failed; no results to rank", totalSteps/2)
	}

	ranked := NewAggregator().Aggregate(run)
	for _, agg := range ranked.Ranking {
		run.Ranking = append(run.Ranking, agg.ModelID)
	}
	run.DurationMs = time.Since(startTime).Milliseconds()

	r.notifyProgress(ProgressEvent{
		EventType:      EventBenchmarkComplete,
		CompletedSteps: completed,
		TotalSteps:     totalSteps,
		DurationMs:     run.DurationMs,
	})

	return run, nil
}

// scorePipeline bundles the per-run scoring state.
type scorePipeline struct {
	normalizer *scoring.Normalizer
	history    *scoring.SessionHistory
	consensus  *scoring.ConsensusAnalyzer
}

func weightedScorerFor(audience models.Audience) (*scoring.WeightedScorer, error) {
	profile, err := models.ProfileFor(audience)
	if err != nil {
		return nil, err
	}
	return scoring.NewWeightedScorer(profile), nil
}

// runPair executes one (model, test case) pair: explain, then judge, then
// score. Failures are absorbed into the result; placeholder mid-scale scores
// stand in so reports always have something to render.
func (r *Runner) runPair(
	ctx context.Context,
	tc *models.TestCase,
	modelID string,
	audience models.Audience,
	policy panel.TruncationPolicy,
	pipeline *scorePipeline,
	scorer *scoring.WeightedScorer,
	completed *int,
	totalSteps int,
) models.ModelRunResult {
	startTime := time.Now()
	table := policy.Table(tc.Table)

	explanation, err := r.explainOne(ctx, tc, modelID, table)
	*completed++
	if err != nil {
		// The judge step is skipped, but it still counts so the step
		// total stays accurate.
		*completed++
		r.notifyProgress(ProgressEvent{
			EventType:      EventExplainComplete,
			ModelID:        modelID,
			TestID:         tc.ID,
			CompletedSteps: *completed,
			TotalSteps:     totalSteps,
			Status:         models.PairError,
		})
		return placeholderResult(modelID, tc.ID, scorer,
			fmt.Sprintf("explanation failed: %v", err), time.Since(startTime).Milliseconds())
	}
	r.notifyProgress(ProgressEvent{
		EventType:      EventExplainComplete,
		ModelID:        modelID,
		TestID:         tc.ID,
		CompletedSteps: *completed,
		TotalSteps:     totalSteps,
		Status:         models.PairCompleted,
	})

	r.pause(ctx)

	explanation = policy.Explanation(explanation)
	eval, err := r.judgeOne(ctx, tc, audience, table, explanation)
	*completed++
	if err != nil {
		r.notifyProgress(ProgressEvent{
			EventType:      EventJudgeComplete,
			ModelID:        modelID,
			TestID:         tc.ID,
			CompletedSteps: *completed,
			TotalSteps:     totalSteps,
			Status:         models.PairError,
		})
		result := placeholderResult(modelID, tc.ID, scorer,
			fmt.Sprintf("judge panel failed: %v", err), time.Since(startTime).Milliseconds())
		result.Explanation = explanation
		return result
	}
	r.notifyProgress(ProgressEvent{
		EventType:      EventJudgeComplete,
		ModelID:        modelID,
		TestID:         tc.ID,
		CompletedSteps: *completed,
		TotalSteps:     totalSteps,
		Status:         models.PairCompleted,
	})

	r.pause(ctx)

	// Consensus uses the raw verdicts; normalization happens after, and the
	// history is recorded last so these scores never feed their own bias
	// estimate.
	consensus := pipeline.consensus.Analyze(eval.Verdicts)
	normalized := pipeline.normalizer.Normalize(eval.Verdicts)
	pipeline.history.Record(eval.Verdicts)

	return models.ModelRunResult{
		ModelID:           modelID,
		TestID:            tc.ID,
		Status:            models.PairCompleted,
		ScoreSource:       models.ScoreSourceReal,
		Explanation:       explanation,
		Verdicts:          eval.Verdicts,
		Consensus:         consensus,
		NormalizedAverage: normalized,
		WeightedTotal:     scorer.Total(normalized),
		DurationMs:        time.Since(startTime).Milliseconds(),
	}
}

func (r *Runner) explainOne(ctx context.Context, tc *models.TestCase, modelID string, table models.ResultTable) (string, error) {
	spec := r.cfg.Spec()
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(spec.Config.ExplainTimeoutSec)*time.Second)
	defer cancel()

	if err := r.sem.Acquire(callCtx, 1); err != nil {
		return "", err
	}
	defer r.sem.Release(1)

	return r.explainer.Explain(callCtx, &panel.ExplainRequest{
		Query:   tc.Query,
		Table:   table,
		ModelID: modelID,
	})
}

func (r *Runner) judgeOne(ctx context.Context, tc *models.TestCase, audience models.Audience, table models.ResultTable, explanation string) (*panel.Evaluation, error) {
	spec := r.cfg.Spec()
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(spec.Config.JudgeTimeoutSec)*time.Second)
	defer cancel()

	if err := r.sem.Acquire(callCtx, 1); err != nil {
		return nil, err
	}
	defer r.sem.Release(1)

	return r.judges.Evaluate(callCtx, &panel.EvaluateRequest{
		Explanation: explanation,
		Query:       tc.Query,
		Table:       table,
		Audience:    audience,
	})
}

// pause spaces out remote calls to stay under upstream rate limits.
func (r *Runner) pause(ctx context.Context) {
	delay := r.cfg.Spec().Config.CallDelayMs
	if delay <= 0 {
		return
	}
	select {
	case <-time.After(time.Duration(delay) * time.Millisecond):
	case <-ctx.Done():
	}
}

// placeholderResult builds a failed pair's stand-in: mid-scale scores on
// every dimension, tagged so aggregation never averages them.
func placeholderResult(modelID, testID string, scorer *scoring.WeightedScorer, errMsg string, durationMs int64) models.ModelRunResult {
	scores := models.ScoreVector{}
	for _, d := range models.AllDimensions() {
		scores[d] = 3.0
	}
	return models.ModelRunResult{
		ModelID:           modelID,
		TestID:            testID,
		Status:            models.PairError,
		ScoreSource:       models.ScoreSourcePlaceholder,
		NormalizedAverage: scores,
		WeightedTotal:     scorer.Total(scores),
		ErrorMsg:          errMsg,
		DurationMs:        durationMs,
	}
}

func (r *Runner) loadTestCases(ctx context.Context) ([]*models.TestCase, error) {
	spec := r.cfg.Spec()

	var (
		testCases []*models.TestCase
		err       error
	)
	if spec.TasksFrom != "" {
		testCases, err = r.loadTestCasesFromCSV()
	} else {
		testCases, err = r.loadTestCasesFromFiles()
	}
	if err != nil {
		return nil, err
	}

	return r.fetchMissingTables(ctx, testCases)
}

// loadTestCasesFromCSV generates in-memory test cases from CSV rows.
func (r *Runner) loadTestCasesFromCSV() ([]*models.TestCase, error) {
	spec := r.cfg.Spec()

	// Resolve CSV path relative to spec directory
	csvPath := spec.TasksFrom
	baseDir := r.cfg.SpecDir()
	if baseDir == "" {
		baseDir = "."
	}
	if !filepath.IsAbs(csvPath) {
		csvPath = filepath.Join(baseDir, csvPath)
	}

	// Path containment: CSV must resolve within spec directory
	absBaseDir, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("resolving spec directory: %w", err)
	}
	absCSVPath, err := filepath.Abs(csvPath)
	if err != nil {
		return nil, fmt.Errorf("resolving CSV path: %w", err)
	}
	if !strings.HasPrefix(absCSVPath, absBaseDir+string(filepath.Separator)) {
		return nil, fmt.Errorf("tasks_from path %q escapes spec directory", spec.TasksFrom)
	}

	var rows []dataset.Row
	if start, end, ok := r.cfg.CaseRange(); ok {
		rows, err = dataset.LoadCSVRange(csvPath, start, end)
	} else {
		rows, err = dataset.LoadCSV(csvPath)
	}
	if err != nil {
		return nil, fmt.Errorf("loading CSV dataset: %w", err)
	}

	cases, err := dataset.TestCasesFromRows(rows)
	if err != nil {
		return nil, err
	}

	out := make([]*models.TestCase, 0, len(cases))
	for i := range cases {
		out = append(out, &cases[i])
	}
	return out, nil
}

// loadTestCasesFromFiles loads test cases from YAML files via glob patterns.
func (r *Runner) loadTestCasesFromFiles() ([]*models.TestCase, error) {
	spec := r.cfg.Spec()

	baseDir := r.cfg.SpecDir()
	if baseDir == "" {
		baseDir = "."
	}

	caseFiles := []string{}
	for _, pattern := range spec.Tasks {
		fullPattern := filepath.Join(baseDir, pattern)
		matches, err := filepath.Glob(fullPattern)
		if err != nil {
			return nil, err
		}
		caseFiles = append(caseFiles, matches...)
	}

	if len(caseFiles) == 0 {
		return nil, fmt.Errorf("no test case files matched patterns: %v in directory: %s", spec.Tasks, baseDir)
	}

	var testCases []*models.TestCase
	for _, path := range caseFiles {
		tc, err := models.LoadTestCase(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load test case %s: %w", path, err)
		}
		testCases = append(testCases, tc)
	}

	return testCases, nil
}

// fetchMissingTables pulls live rows for cases with no inline table. Fetch
// failures are configuration-or-environment problems and abort the run
// before any model call is made.
func (r *Runner) fetchMissingTables(ctx context.Context, testCases []*models.TestCase) ([]*models.TestCase, error) {
	for _, tc := range testCases {
		if len(tc.Table.Columns) > 0 || len(tc.Table.Rows) > 0 {
			continue
		}
		if r.fetcher == nil {
			return nil, models.NewConfigError(
				"test case %q has no inline table and no workspace is configured", tc.ID)
		}
		table, err := r.fetcher.Query(ctx, tc.Query, tc.TimespanHours)
		if err != nil {
			return nil, fmt.Errorf("fetching rows for test case %q: %w", tc.ID, err)
		}
		tc.Table = table
	}
	return testCases, nil
}
