package panel

import "github.com/kqlbench/kqlbench/internal/models"

// TruncationMarker is appended whenever text is cut.
const TruncationMarker = "... [truncated]"

// TruncationPolicy caps what gets sent to remote collaborators. Truncation
// always keeps the first N rows/characters, so repeated runs on identical
// input send identical prompts.
type TruncationPolicy struct {
	MaxExplanationChars int
	MaxTableRows        int
	MaxCellChars        int
}

// PolicyFromConfig builds a policy from a run config (defaults applied).
func PolicyFromConfig(cfg models.RunConfig) TruncationPolicy {
	return TruncationPolicy{
		MaxExplanationChars: cfg.MaxExplanationChars,
		MaxTableRows:        cfg.MaxTableRows,
		MaxCellChars:        cfg.MaxCellChars,
	}
}

// Explanation caps explanation text at the configured character budget.
func (p TruncationPolicy) Explanation(s string) string {
	if p.MaxExplanationChars <= 0 || len(s) <= p.MaxExplanationChars {
		return s
	}
	return s[:p.MaxExplanationChars] + TruncationMarker
}

// Table caps a result table to the configured row count and per-cell
// character budget. Only string cells are truncated; numbers and booleans
// pass through as-is.
func (p TruncationPolicy) Table(t models.ResultTable) models.ResultTable {
	rows := t.Rows
	if p.MaxTableRows > 0 && len(rows) > p.MaxTableRows {
		rows = rows[:p.MaxTableRows]
	}

	out := models.ResultTable{Columns: t.Columns, Rows: make([][]any, len(rows))}
	for i, row := range rows {
		outRow := make([]any, len(row))
		for j, cell := range row {
			if s, ok := cell.(string); ok && p.MaxCellChars > 0 && len(s) > p.MaxCellChars {
				outRow[j] = s[:p.MaxCellChars] + TruncationMarker
			} else {
				outRow[j] = cell
			}
		}
		out.Rows[i] = outRow
	}
	return out
}
