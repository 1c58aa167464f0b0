package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBenchYAML = `name: smoke
audience: developer
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
`

const validCaseYAML = `id: failed-requests
query: "requests | where success == false"
table:
  columns: [name, count_]
  rows:
    - ["GET /", 42]
`

func TestValidateBenchBytes_Valid(t *testing.T) {
	errs := ValidateBenchBytes([]byte(validBenchYAML))
	assert.Empty(t, errs)
}

func TestValidateBenchBytes_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name: "missing name",
			yaml: `audience: developer
models: [a, b]
judges:
  - id: j
`,
			wantErr: "name",
		},
		{
			name: "single model",
			yaml: `name: x
audience: developer
models: [only-one]
judges:
  - id: j
`,
			wantErr: "/models",
		},
		{
			name: "bad audience",
			yaml: `name: x
audience: manager
models: [a, b]
judges:
  - id: j
`,
			wantErr: "/audience",
		},
		{
			name: "unknown top-level key",
			yaml: `name: x
audience: developer
models: [a, b]
judges:
  - id: j
surprise: true
`,
			wantErr: "surprise",
		},
		{
			name:    "not YAML",
			yaml:    "\t{not yaml",
			wantErr: "YAML parse error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := ValidateBenchBytes([]byte(tt.yaml))
			require.NotEmpty(t, errs)
			assert.True(t, containsSubstring(errs, tt.wantErr), "errors %v should mention %q", errs, tt.wantErr)
		})
	}
}

func TestValidateCaseBytes(t *testing.T) {
	assert.Empty(t, ValidateCaseBytes([]byte(validCaseYAML)))

	errs := ValidateCaseBytes([]byte("id: x\n"))
	require.NotEmpty(t, errs)
	assert.True(t, containsSubstring(errs, "query"), "errors %v should mention the missing query", errs)

	errs = ValidateCaseBytes([]byte(`id: x
query: traces
timespan_hours: 0
`))
	require.NotEmpty(t, errs)
	assert.True(t, containsSubstring(errs, "timespan_hours"), "errors %v", errs)
}

func TestValidateRunBytes(t *testing.T) {
	valid := `{
  "run": {
    "run_id": "run-1",
    "bench_name": "smoke",
    "audience": "developer",
    "models": ["a", "b"],
    "per_model": {
      "a": [
        {"model_id": "a", "test_id": "t1", "status": "completed", "score_source": "real", "weighted_total": 4.2}
      ]
    }
  },
  "ranked": {
    "ranking": [
      {"model_id": "a", "mean_weighted_total": 4.2, "completed_count": 1, "total_count": 1}
    ]
  }
}`
	assert.Empty(t, ValidateRunBytes([]byte(valid)))

	errs := ValidateRunBytes([]byte(`{"ranked": {}}`))
	require.NotEmpty(t, errs)
	assert.True(t, containsSubstring(errs, "run"), "errors %v", errs)

	errs = ValidateRunBytes([]byte(`{
  "run": {
    "run_id": "run-1",
    "bench_name": "smoke",
    "audience": "developer",
    "models": ["a"],
    "per_model": {
      "a": [{"model_id": "a", "test_id": "t1", "status": "partial", "score_source": "real"}]
    }
  }
}`))
	require.NotEmpty(t, errs)
	assert.True(t, containsSubstring(errs, "status"), "errors %v", errs)

	errs = ValidateRunBytes([]byte("not json"))
	require.NotEmpty(t, errs)
	assert.True(t, containsSubstring(errs, "JSON parse error"), "errors %v", errs)
}

func TestValidateBenchFile(t *testing.T) {
	dir := t.TempDir()
	casesDir := filepath.Join(dir, "cases")
	require.NoError(t, os.MkdirAll(casesDir, 0o755))

	benchPath := filepath.Join(dir, "bench.yaml")
	require.NoError(t, os.WriteFile(benchPath, []byte(validBenchYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(casesDir, "good.yaml"), []byte(validCaseYAML), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(casesDir, "bad.yaml"), []byte("id: broken\n"), 0o644))

	specErrs, caseErrs, err := ValidateBenchFile(benchPath)
	require.NoError(t, err)
	assert.Empty(t, specErrs)

	// Only the broken case file is reported, keyed by its relative path.
	require.Len(t, caseErrs, 1)
	errs, ok := caseErrs[filepath.Join("cases", "bad.yaml")]
	require.True(t, ok, "got keys %v", caseErrs)
	assert.NotEmpty(t, errs)
}

func TestValidateBenchFile_MissingFile(t *testing.T) {
	_, _, err := ValidateBenchFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading bench file")
}

func containsSubstring(errs []string, sub string) bool {
	for _, e := range errs {
		if strings.Contains(e, sub) {
			return true
		}
	}
	return false
}
