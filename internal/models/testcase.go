package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ResultTable is one table returned by a KQL query: ordered columns and rows
// of cells. Cells hold whatever the log source returned (strings, numbers,
// booleans, nil).
type ResultTable struct {
	Columns []string `json:"columns" yaml:"columns"`
	Rows    [][]any  `json:"rows" yaml:"rows"`
}

// TestCase is one query whose results the candidate models must explain.
type TestCase struct {
	ID       string      `json:"id" yaml:"id"`
	Query    string      `json:"query" yaml:"query"`
	Table    ResultTable `json:"table" yaml:"table"`
	Audience Audience    `json:"audience" yaml:"audience"`

	// TimespanHours is the query lookback window when rows are fetched live
	// from a workspace instead of being inlined. Zero means 1 hour.
	TimespanHours int `json:"timespan_hours,omitempty" yaml:"timespan_hours,omitempty"`
}

// Validate checks the fields a benchmark run depends on.
func (tc *TestCase) Validate() error {
	if tc.ID == "" {
		return NewConfigError("test case is missing an id")
	}
	if tc.Query == "" {
		return NewConfigError("test case %q is missing a query", tc.ID)
	}
	if tc.Audience != "" {
		if _, err := ProfileFor(tc.Audience); err != nil {
			return err
		}
	}
	for i, row := range tc.Table.Rows {
		if len(row) != len(tc.Table.Columns) {
			return NewConfigError("test case %q row %d has %d cells, expected %d", tc.ID, i, len(row), len(tc.Table.Columns))
		}
	}
	return nil
}

// LoadTestCase loads a single test case from a YAML file.
func LoadTestCase(path string) (*TestCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tc TestCase
	if err := yaml.Unmarshal(data, &tc); err != nil {
		return nil, fmt.Errorf("parsing test case %s: %w", path, err)
	}
	if err := tc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid test case %s: %w", path, err)
	}
	return &tc, nil
}
