package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestCaseValidate(t *testing.T) {
	tests := []struct {
		name    string
		tc      TestCase
		wantErr string
	}{
		{
			name: "valid with inline table",
			tc: TestCase{
				ID:    "failed-requests",
				Query: "requests | where success == false",
				Table: ResultTable{
					Columns: []string{"name", "count_"},
					Rows:    [][]any{{"GET /api/orders", 42}},
				},
			},
		},
		{
			name: "valid without table",
			tc: TestCase{
				ID:    "live-fetch",
				Query: "traces | take 10",
			},
		},
		{
			name:    "missing id",
			tc:      TestCase{Query: "traces | take 10"},
			wantErr: "missing an id",
		},
		{
			name:    "missing query",
			tc:      TestCase{ID: "no-query"},
			wantErr: "missing a query",
		},
		{
			name: "unknown audience override",
			tc: TestCase{
				ID:       "bad-audience",
				Query:    "traces",
				Audience: "manager",
			},
			wantErr: "unknown audience",
		},
		{
			name: "ragged row",
			tc: TestCase{
				ID:    "ragged",
				Query: "traces",
				Table: ResultTable{
					Columns: []string{"a", "b"},
					Rows:    [][]any{{"only-one"}},
				},
			},
			wantErr: "has 1 cells, expected 2",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tc.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestLoadTestCase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`id: slow-pages
query: |-
  pageViews
  | summarize avg(duration) by name
audience: executive
timespan_hours: 48
table:
  columns: [name, avg_duration]
  rows:
    - ["/checkout", 4200.5]
    - ["/home", 310]
`), 0o644))

	tc, err := LoadTestCase(path)
	require.NoError(t, err)
	assert.Equal(t, "slow-pages", tc.ID)
	assert.Equal(t, AudienceExecutive, tc.Audience)
	assert.Equal(t, 48, tc.TimespanHours)
	require.Len(t, tc.Table.Rows, 2)
	assert.Equal(t, []string{"name", "avg_duration"}, tc.Table.Columns)
}

func TestLoadTestCase_Invalid(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "case.yaml")
	require.NoError(t, os.WriteFile(path, []byte("id: broken\n"), 0o644))

	_, err := LoadTestCase(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing a query")
}
