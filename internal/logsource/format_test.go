package logsource

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kqlbench/kqlbench/internal/models"
)

func TestFormatTable(t *testing.T) {
	table := models.ResultTable{
		Columns: []string{"name", "count_"},
		Rows: [][]any{
			{"GET /api/orders", float64(42)},
			{"POST /", float64(3)},
		},
	}

	out := FormatTable(table)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)

	assert.Equal(t, "name            | count_", lines[0])
	assert.Equal(t, strings.Repeat("-", len(lines[0])), lines[1])
	assert.Equal(t, "GET /api/orders | 42", lines[2])
	assert.Equal(t, "POST /          | 3", lines[3])
}

func TestFormatTable_Empty(t *testing.T) {
	assert.Equal(t, "No data returned", FormatTable(models.ResultTable{}))
	assert.Equal(t, "No data returned", FormatTable(models.ResultTable{
		Columns: []string{"name"},
	}))
}

func TestFormatTable_NullAndShortRows(t *testing.T) {
	table := models.ResultTable{
		Columns: []string{"a", "b"},
		Rows: [][]any{
			{nil, "x"},
			{"y"},
		},
	}

	out := FormatTable(table)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NULL | x", lines[2])
	assert.Equal(t, "y    | NULL", lines[3])
}

func TestFormatTable_FloatsRenderAsCounts(t *testing.T) {
	table := models.ResultTable{
		Columns: []string{"count_", "ratio"},
		Rows:    [][]any{{float64(1000000), 0.25}},
	}

	out := FormatTable(table)
	assert.Contains(t, out, "1000000")
	assert.NotContains(t, out, "1e+06")
	assert.Contains(t, out, "0.25")
}

func TestFormatTable_WideRunes(t *testing.T) {
	table := models.ResultTable{
		Columns: []string{"メッセージ", "n"},
		Rows: [][]any{
			{"エラー", 1},
			{"ok", 2},
		},
	}

	out := FormatTable(table)
	for _, line := range strings.Split(out, "\n") {
		assert.NotEmpty(t, line)
	}
	// Both data lines align the second column at the same display offset.
	lines := strings.Split(out, "\n")
	assert.Contains(t, lines[2], "| 1")
	assert.Contains(t, lines[3], "| 2")
}

func TestExampleScenarios(t *testing.T) {
	scenarios := ExampleScenarios()
	require.NotEmpty(t, scenarios)

	seen := map[string]bool{}
	for _, sc := range scenarios {
		assert.NotEmpty(t, sc.ID)
		assert.NotEmpty(t, sc.Name)
		assert.NotEmpty(t, sc.Queries, "scenario %s has no queries", sc.ID)
		assert.False(t, seen[sc.ID], "duplicate scenario id %s", sc.ID)
		seen[sc.ID] = true

		for _, q := range sc.Queries {
			assert.NotEmpty(t, q.Name)
			assert.NotEmpty(t, q.Query)
		}
	}
}

func TestFindExample(t *testing.T) {
	scenarios := ExampleScenarios()
	require.NotEmpty(t, scenarios)
	first := scenarios[0]
	require.NotEmpty(t, first.Queries)

	q, ok := FindExample(first.ID, first.Queries[0].Name)
	require.True(t, ok)
	assert.Equal(t, first.Queries[0].Query, q.Query)

	// Lookup is case-insensitive.
	q, ok = FindExample(strings.ToUpper(first.ID), strings.ToUpper(first.Queries[0].Name))
	require.True(t, ok)
	assert.Equal(t, first.Queries[0].Query, q.Query)

	_, ok = FindExample("nope", "nothing")
	assert.False(t, ok)
}
