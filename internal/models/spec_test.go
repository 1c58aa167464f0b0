package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSpec() *BenchSpec {
	return &BenchSpec{
		Name:     "latency-triage",
		Audience: AudienceDeveloper,
		Models:   []string{"gpt-4o", "gpt-4o-mini"},
		Judges: []JudgeConfig{
			{ID: "judge-a", Model: "gpt-4o"},
			{ID: "judge-b", Model: "gpt-4o-mini"},
		},
	}
}

func TestBenchSpecValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BenchSpec)
		wantErr string
	}{
		{
			name:   "valid spec",
			mutate: func(s *BenchSpec) {},
		},
		{
			name:    "single model",
			mutate:  func(s *BenchSpec) { s.Models = s.Models[:1] },
			wantErr: "at least 2 models",
		},
		{
			name:    "no judges",
			mutate:  func(s *BenchSpec) { s.Judges = nil },
			wantErr: "at least one judge",
		},
		{
			name:    "judge missing id",
			mutate:  func(s *BenchSpec) { s.Judges[0].ID = "" },
			wantErr: "missing an id",
		},
		{
			name:    "duplicate judge ids",
			mutate:  func(s *BenchSpec) { s.Judges[1].ID = s.Judges[0].ID },
			wantErr: "duplicate judge id",
		},
		{
			name:    "unknown audience",
			mutate:  func(s *BenchSpec) { s.Audience = "manager" },
			wantErr: "unknown audience",
		},
		{
			name: "negative disagreement threshold",
			mutate: func(s *BenchSpec) {
				s.Disagreement = &DisagreementThresholds{StdDev: -1, Range: 2}
			},
			wantErr: "non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(spec)

			err := spec.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)

				var cfgErr *ConfigError
				assert.ErrorAs(t, err, &cfgErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestBenchSpecThresholds(t *testing.T) {
	spec := validSpec()
	assert.Equal(t, DisagreementThresholds{StdDev: 1.0, Range: 2.0}, spec.Thresholds())

	spec.Disagreement = &DisagreementThresholds{StdDev: 0.5, Range: 1.5}
	assert.Equal(t, DisagreementThresholds{StdDev: 0.5, Range: 1.5}, spec.Thresholds())
}

func TestRunConfigApplyDefaults(t *testing.T) {
	var cfg RunConfig
	cfg.ApplyDefaults()

	assert.Equal(t, DefaultExplainTimeoutSec, cfg.ExplainTimeoutSec)
	assert.Equal(t, DefaultJudgeTimeoutSec, cfg.JudgeTimeoutSec)
	assert.Equal(t, DefaultCallDelayMs, cfg.CallDelayMs)
	assert.Equal(t, DefaultMaxInFlight, cfg.MaxInFlight)
	assert.Equal(t, DefaultMaxTableRows, cfg.MaxTableRows)
	assert.Equal(t, DefaultMaxCellChars, cfg.MaxCellChars)
	assert.Equal(t, DefaultMaxExplanationChars, cfg.MaxExplanationChars)
}

func TestRunConfigApplyDefaults_PreservesExplicitValues(t *testing.T) {
	cfg := RunConfig{ExplainTimeoutSec: 60, CallDelayMs: -1, MaxInFlight: 4}
	cfg.ApplyDefaults()

	assert.Equal(t, 60, cfg.ExplainTimeoutSec)
	// Negative means pacing is deliberately disabled, not missing.
	assert.Equal(t, -1, cfg.CallDelayMs)
	assert.Equal(t, 4, cfg.MaxInFlight)
}

func TestLoadBenchSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: smoke
audience: sre
models:
  - gpt-4o
  - gpt-4o-mini
judges:
  - id: judge-a
    model: gpt-4o
config:
  engine: mock
tasks:
  - "cases/*.yaml"
`), 0o644))

	spec, err := LoadBenchSpec(path)
	require.NoError(t, err)
	assert.Equal(t, "smoke", spec.Name)
	assert.Equal(t, AudienceSRE, spec.Audience)
	assert.Equal(t, "mock", spec.Config.Engine)
	assert.Equal(t, DefaultExplainTimeoutSec, spec.Config.ExplainTimeoutSec)
	assert.Equal(t, []string{"cases/*.yaml"}, spec.Tasks)
}

func TestLoadBenchSpec_InvalidSpec(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`name: broken
audience: developer
models: [only-one]
judges:
  - id: judge-a
`), 0o644))

	_, err := LoadBenchSpec(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 models")
}

func TestLoadBenchSpec_MissingFile(t *testing.T) {
	_, err := LoadBenchSpec(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
