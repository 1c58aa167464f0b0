// Package config holds the resolved configuration for a benchmark run:
// the loaded spec plus everything the CLI layered on top of it.
package config

import "github.com/kqlbench/kqlbench/internal/models"

// BenchmarkConfig is immutable after construction; build it with
// NewBenchmarkConfig and functional options.
type BenchmarkConfig struct {
	spec        *models.BenchSpec
	specDir     string
	verbose     bool
	outputPath  string
	engine      string
	modelFilter []string
	rangeStart  int
	rangeEnd    int
	workspaceID string
}

// Option mutates a BenchmarkConfig during construction.
type Option func(*BenchmarkConfig)

// NewBenchmarkConfig builds a config around a loaded spec. A nil option
// panics; that is a programming error, not user input.
func NewBenchmarkConfig(spec *models.BenchSpec, opts ...Option) *BenchmarkConfig {
	cfg := &BenchmarkConfig{spec: spec}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithSpecDir records the directory the spec was loaded from. Relative task
// globs and dataset paths resolve against it.
func WithSpecDir(dir string) Option {
	return func(c *BenchmarkConfig) { c.specDir = dir }
}

// WithVerbose enables debug logging.
func WithVerbose(v bool) Option {
	return func(c *BenchmarkConfig) { c.verbose = v }
}

// WithOutputPath sets where the run result JSON is written.
func WithOutputPath(path string) Option {
	return func(c *BenchmarkConfig) { c.outputPath = path }
}

// WithEngine overrides the spec's engine ("openai" or "mock").
func WithEngine(engine string) Option {
	return func(c *BenchmarkConfig) { c.engine = engine }
}

// WithModels restricts the run to a subset of the spec's models.
func WithModels(models []string) Option {
	return func(c *BenchmarkConfig) { c.modelFilter = models }
}

// WithCaseRange restricts a CSV dataset to rows [start, end] (1-based,
// inclusive). Zero values mean no restriction.
func WithCaseRange(start, end int) Option {
	return func(c *BenchmarkConfig) { c.rangeStart, c.rangeEnd = start, end }
}

// WithWorkspaceID overrides the spec's Log Analytics workspace.
func WithWorkspaceID(id string) Option {
	return func(c *BenchmarkConfig) { c.workspaceID = id }
}

func (c *BenchmarkConfig) Spec() *models.BenchSpec { return c.spec }
func (c *BenchmarkConfig) SpecDir() string         { return c.specDir }
func (c *BenchmarkConfig) Verbose() bool           { return c.verbose }
func (c *BenchmarkConfig) OutputPath() string      { return c.outputPath }
func (c *BenchmarkConfig) ModelFilter() []string   { return c.modelFilter }

// CaseRange returns the CSV row restriction; ok is false when unrestricted.
func (c *BenchmarkConfig) CaseRange() (start, end int, ok bool) {
	return c.rangeStart, c.rangeEnd, c.rangeStart > 0
}

// Engine returns the effective engine: the CLI override if set, otherwise
// the spec's, otherwise "openai".
func (c *BenchmarkConfig) Engine() string {
	if c.engine != "" {
		return c.engine
	}
	if c.spec != nil && c.spec.Config.Engine != "" {
		return c.spec.Config.Engine
	}
	return "openai"
}

// WorkspaceID returns the effective workspace id, CLI override first.
func (c *BenchmarkConfig) WorkspaceID() string {
	if c.workspaceID != "" {
		return c.workspaceID
	}
	if c.spec != nil {
		return c.spec.Config.WorkspaceID
	}
	return ""
}

// Models returns the effective candidate list: the filter when one was
// given, otherwise the spec's full list.
func (c *BenchmarkConfig) Models() []string {
	if len(c.modelFilter) > 0 {
		return c.modelFilter
	}
	if c.spec != nil {
		return c.spec.Models
	}
	return nil
}
