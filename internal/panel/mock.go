package panel

import (
	"context"
	"fmt"
	"hash/fnv"

	"github.com/kqlbench/kqlbench/internal/models"
)

// MockEngine is an offline implementation of both collaborators, used for
// dry runs and tests. Scores are derived deterministically from the model
// and query so repeated runs produce identical rankings.
type MockEngine struct {
	judgeIDs []string
}

// NewMockEngine returns a mock engine with one synthetic verdict per judge.
func NewMockEngine(judgeConfigs []models.JudgeConfig) *MockEngine {
	m := &MockEngine{}
	for _, jc := range judgeConfigs {
		m.judgeIDs = append(m.judgeIDs, jc.ID)
	}
	return m
}

// Explain implements Explainer.
func (m *MockEngine) Explain(_ context.Context, req *ExplainRequest) (string, error) {
	return fmt.Sprintf("Mock explanation by %s: the query %q returned %d row(s) across %d column(s).",
		req.ModelID, req.Query, len(req.Table.Rows), len(req.Table.Columns)), nil
}

// Evaluate implements JudgePanel.
func (m *MockEngine) Evaluate(_ context.Context, req *EvaluateRequest) (*Evaluation, error) {
	eval := &Evaluation{}
	for _, id := range m.judgeIDs {
		scores := models.ScoreVector{}
		for _, d := range models.AllDimensions() {
			scores[d] = syntheticScore(id, string(d), req.Explanation)
		}
		eval.Verdicts = append(eval.Verdicts, models.JudgeVerdict{
			JudgeID:    id,
			Scores:     scores,
			Confidence: 4,
			Notes:      "synthetic verdict",
		})
	}
	return eval, nil
}

// syntheticScore hashes its inputs onto the 2-5 range so different models
// get stably different scores.
func syntheticScore(parts ...string) float64 {
	h := fnv.New32a()
	for _, p := range parts {
		h.Write([]byte(p)) //nolint:errcheck
	}
	return 2.0 + float64(h.Sum32()%7)*0.5
}
