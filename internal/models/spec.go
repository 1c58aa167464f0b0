package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// BenchSpec is a complete benchmark specification loaded from a YAML file.
type BenchSpec struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Audience    Audience `yaml:"audience" json:"audience"`

	// Models are the candidate model identifiers being compared. A
	// comparison needs at least two.
	Models []string `yaml:"models" json:"models"`

	// Judges define the evaluation panel. Every explanation is scored by
	// the full panel.
	Judges []JudgeConfig `yaml:"judges" json:"judges"`

	Config       RunConfig               `yaml:"config" json:"config"`
	Disagreement *DisagreementThresholds `yaml:"disagreement,omitempty" json:"disagreement,omitempty"`

	// Tasks are glob patterns for test case YAML files; TasksFrom points at
	// a CSV dataset for bulk runs. Exactly one source must be set.
	Tasks     []string `yaml:"tasks,omitempty" json:"tasks,omitempty"`
	TasksFrom string   `yaml:"tasks_from,omitempty" json:"tasks_from,omitempty"`
}

// JudgeConfig identifies one judge on the panel.
type JudgeConfig struct {
	ID         string         `yaml:"id" json:"id"`
	Model      string         `yaml:"model" json:"model"`
	Parameters map[string]any `yaml:"config,omitempty" json:"parameters,omitempty"`
}

// RunConfig controls execution behavior.
type RunConfig struct {
	Engine string `yaml:"engine" json:"engine"`

	// Explanation generation and judge evaluation carry independent
	// timeouts; multi-judge calls take longer than single-model calls.
	ExplainTimeoutSec int `yaml:"explain_timeout_seconds,omitempty" json:"explain_timeout_sec,omitempty"`
	JudgeTimeoutSec   int `yaml:"judge_timeout_seconds,omitempty" json:"judge_timeout_sec,omitempty"`

	// CallDelayMs spaces out remote calls to avoid upstream rate limiting.
	// Negative disables pacing entirely.
	CallDelayMs int `yaml:"call_delay_ms,omitempty" json:"call_delay_ms,omitempty"`

	// MaxInFlight bounds concurrent remote calls. Pairs are scheduled
	// sequentially, so this stays at 1 unless explicitly raised.
	MaxInFlight int `yaml:"max_in_flight,omitempty" json:"max_in_flight,omitempty"`

	MaxTableRows        int `yaml:"max_table_rows,omitempty" json:"max_table_rows,omitempty"`
	MaxCellChars        int `yaml:"max_cell_chars,omitempty" json:"max_cell_chars,omitempty"`
	MaxExplanationChars int `yaml:"max_explanation_chars,omitempty" json:"max_explanation_chars,omitempty"`

	// WorkspaceID is the Log Analytics workspace used to fetch rows for
	// test cases that carry a query but no inline table.
	WorkspaceID string `yaml:"workspace_id,omitempty" json:"workspace_id,omitempty"`
}

// DisagreementThresholds configures when a dimension is flagged as
// high-disagreement: stdDev above StdDev OR range above Range.
type DisagreementThresholds struct {
	StdDev float64 `yaml:"std_dev" json:"std_dev"`
	Range  float64 `yaml:"range" json:"range"`
}

// DefaultDisagreementThresholds returns the documented defaults.
func DefaultDisagreementThresholds() DisagreementThresholds {
	return DisagreementThresholds{StdDev: 1.0, Range: 2.0}
}

// Defaults for RunConfig fields left at zero.
const (
	DefaultExplainTimeoutSec   = 30
	DefaultJudgeTimeoutSec     = 120
	DefaultCallDelayMs         = 500
	DefaultMaxInFlight         = 1
	DefaultMaxTableRows        = 8
	DefaultMaxCellChars        = 160
	DefaultMaxExplanationChars = 4000
)

// ApplyDefaults fills in zero-valued config fields.
func (c *RunConfig) ApplyDefaults() {
	if c.ExplainTimeoutSec <= 0 {
		c.ExplainTimeoutSec = DefaultExplainTimeoutSec
	}
	if c.JudgeTimeoutSec <= 0 {
		c.JudgeTimeoutSec = DefaultJudgeTimeoutSec
	}
	if c.CallDelayMs == 0 {
		c.CallDelayMs = DefaultCallDelayMs
	}
	if c.MaxInFlight <= 0 {
		c.MaxInFlight = DefaultMaxInFlight
	}
	if c.MaxTableRows <= 0 {
		c.MaxTableRows = DefaultMaxTableRows
	}
	if c.MaxCellChars <= 0 {
		c.MaxCellChars = DefaultMaxCellChars
	}
	if c.MaxExplanationChars <= 0 {
		c.MaxExplanationChars = DefaultMaxExplanationChars
	}
}

// Thresholds returns the configured disagreement thresholds or the defaults.
func (s *BenchSpec) Thresholds() DisagreementThresholds {
	if s.Disagreement == nil {
		return DefaultDisagreementThresholds()
	}
	return *s.Disagreement
}

// Validate checks the spec before any remote call is made. Violations are
// configuration errors and abort the run immediately.
func (s *BenchSpec) Validate() error {
	if len(s.Models) < 2 {
		return NewConfigError("a comparison run needs at least 2 models, got %d", len(s.Models))
	}
	if len(s.Judges) == 0 {
		return NewConfigError("at least one judge must be configured")
	}
	seen := make(map[string]bool, len(s.Judges))
	for _, j := range s.Judges {
		if j.ID == "" {
			return NewConfigError("judge is missing an id")
		}
		if seen[j.ID] {
			return NewConfigError("duplicate judge id %q", j.ID)
		}
		seen[j.ID] = true
	}
	if _, err := ProfileFor(s.Audience); err != nil {
		return err
	}
	if t := s.Thresholds(); t.StdDev < 0 || t.Range < 0 {
		return NewConfigError("disagreement thresholds must be non-negative")
	}
	return nil
}

// LoadBenchSpec loads and validates a spec from a YAML file.
func LoadBenchSpec(path string) (*BenchSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var spec BenchSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("parsing bench spec %s: %w", path, err)
	}

	spec.Config.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}
