package reporting

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInterpretScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{4.9, "Excellent (4.5+)"},
		{4.5, "Excellent (4.5+)"},
		{4.0, "Good (3.5-4.5)"},
		{3.0, "Mixed (2.5-3.5)"},
		{2.0, "Poor (<2.5)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, InterpretScore(tt.score), "score %.1f", tt.score)
	}
}

func TestInterpretConfidence(t *testing.T) {
	assert.Equal(t, "stable across queries", InterpretConfidence(4.0, 4.2))
	assert.Equal(t, "some variation across queries", InterpretConfidence(3.8, 4.3))
	assert.Equal(t, "highly variable across queries", InterpretConfidence(3.0, 4.5))
}

func TestFormatSummary(t *testing.T) {
	out := FormatSummary(sampleReport())

	assert.Contains(t, out, "Benchmark: latency-triage (audience: developer)")
	assert.Contains(t, out, "1. gpt-4o")
	assert.Contains(t, out, "2. gpt-4o-mini")
	assert.Contains(t, out, "95% CI [4.10, 4.30]")
	assert.Contains(t, out, "(2/2 cases)")
	assert.Contains(t, out, "(1/2 cases)")

	// The flagged clarity disagreement shows up.
	assert.Contains(t, out, "High judge disagreement:")
	assert.Contains(t, out, "gpt-4o / failed-requests: clarity")

	// Ranking comes before the disagreement section.
	assert.Less(t, strings.Index(out, "Ranking:"), strings.Index(out, "High judge disagreement:"))
}

func TestFormatSummary_NoDataModels(t *testing.T) {
	report := sampleReport()
	report.Ranked.NoData = append(report.Ranked.NoData, report.Ranked.Ranking[1])
	report.Ranked.Ranking = report.Ranked.Ranking[:1]

	out := FormatSummary(report)
	assert.Contains(t, out, "no usable scores (0/2 cases)")
}

func TestFormatMarkdown(t *testing.T) {
	out := FormatMarkdown(sampleReport())

	assert.True(t, strings.HasPrefix(out, "# Benchmark: latency-triage"))
	assert.Contains(t, out, "| Rank | Model | Weighted | Cases |")
	assert.Contains(t, out, "| 1 | gpt-4o | 4.20 | 2/2 |")
	assert.Contains(t, out, "| 2 | gpt-4o-mini | 3.20 | 1/2 |")
	assert.Contains(t, out, "faithfulness")
	assert.Contains(t, out, "## High judge disagreement")

	// Unscored dimensions render as a dash, not a zero.
	assert.Contains(t, out, " - |")
}

func TestWriteHTML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.html")

	require.NoError(t, WriteHTML(sampleReport(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(data)

	assert.Contains(t, html, "<!DOCTYPE html>")
	assert.Contains(t, html, "<title>Benchmark: latency-triage</title>")
	assert.Contains(t, html, "<table>")
	assert.Contains(t, html, "gpt-4o-mini")
	assert.Contains(t, html, "</html>")
}
