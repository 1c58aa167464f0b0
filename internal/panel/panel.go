// Package panel defines the two remote collaborators the benchmark core
// consumes: an explanation generator and a multi-judge evaluation panel.
// Both are single-shot request/response; the core never cares which provider
// sits behind them.
package panel

import (
	"context"

	"github.com/kqlbench/kqlbench/internal/models"
)

// Explainer generates a natural-language explanation of a query result table
// using one candidate model.
type Explainer interface {
	Explain(ctx context.Context, req *ExplainRequest) (string, error)
}

// ExplainRequest carries everything one explanation call needs. The table is
// expected to already be truncated by the caller.
type ExplainRequest struct {
	Query   string
	Table   models.ResultTable
	ModelID string
}

// JudgePanel scores one explanation with the full set of configured judges.
type JudgePanel interface {
	Evaluate(ctx context.Context, req *EvaluateRequest) (*Evaluation, error)
}

// EvaluateRequest carries one explanation plus the context judges score it
// against. Explanation and table are expected to already be truncated.
type EvaluateRequest struct {
	Explanation string
	Query       string
	Table       models.ResultTable
	Audience    models.Audience
}

// Evaluation is the panel's raw output: one verdict per judge that
// responded. Judges that failed are simply absent; an Evaluate call only
// errors when the entire panel produced nothing.
type Evaluation struct {
	Verdicts []models.JudgeVerdict
}
