package scoring

import "github.com/kqlbench/kqlbench/internal/models"

// HistoryScope names how long judge scoring history is retained. Only
// run-scoped history exists today; the type is a named knob so a persistent
// scope could be added without changing the normalizer's contract.
type HistoryScope string

// ScopeRun retains history for a single benchmark run, so bias estimates
// never bleed across runs.
const ScopeRun HistoryScope = "run"

// SessionHistory accumulates every score each judge hands out during one
// benchmark run. The normalizer reads it to estimate per-judge bias.
// Not safe for concurrent use; the orchestrator drives it from one goroutine.
type SessionHistory struct {
	scope   HistoryScope
	byJudge map[string]map[models.Dimension][]float64
	byDim   map[models.Dimension][]float64
}

// NewSessionHistory returns an empty run-scoped history.
func NewSessionHistory() *SessionHistory {
	return &SessionHistory{
		scope:   ScopeRun,
		byJudge: make(map[string]map[models.Dimension][]float64),
		byDim:   make(map[models.Dimension][]float64),
	}
}

// Scope returns the history's retention scope.
func (h *SessionHistory) Scope() HistoryScope {
	return h.scope
}

// Record appends one explanation's verdicts. Call after normalizing the
// explanation, so the current scores never count toward their own bias
// estimate.
func (h *SessionHistory) Record(verdicts []models.JudgeVerdict) {
	for _, v := range verdicts {
		dims := h.byJudge[v.JudgeID]
		if dims == nil {
			dims = make(map[models.Dimension][]float64)
			h.byJudge[v.JudgeID] = dims
		}
		for d, s := range v.Scores {
			dims[d] = append(dims[d], s)
			h.byDim[d] = append(h.byDim[d], s)
		}
	}
}

// JudgeSamples returns every score judgeID has given for d this run.
func (h *SessionHistory) JudgeSamples(judgeID string, d models.Dimension) []float64 {
	return h.byJudge[judgeID][d]
}

// PanelSamples returns every score any judge has given for d this run.
func (h *SessionHistory) PanelSamples(d models.Dimension) []float64 {
	return h.byDim[d]
}

// Reset drops all recorded scores.
func (h *SessionHistory) Reset() {
	h.byJudge = make(map[string]map[models.Dimension][]float64)
	h.byDim = make(map[models.Dimension][]float64)
}
