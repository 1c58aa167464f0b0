// Package wizard scaffolds new benchmark specs interactively.
package wizard

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"text/template"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/kqlbench/kqlbench/internal/logsource"
	"github.com/kqlbench/kqlbench/internal/models"
)

// BenchDraft holds all fields collected during the interactive wizard.
type BenchDraft struct {
	Name        string
	Description string
	Audience    models.Audience
	Models      []string
	Judges      []string
	Engine      string
	WorkspaceID string
	Scenario    string
}

var nameRe = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// ValidateName checks that a benchmark name is kebab-case.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if !nameRe.MatchString(name) {
		return fmt.Errorf("name must be kebab-case (lowercase letters, digits, hyphens)")
	}
	return nil
}

const benchYAMLTemplate = `name: {{ .Name }}
{{- if .Description }}
description: {{ .Description }}
{{- end }}
audience: {{ .Audience }}

models:
{{- range .Models }}
  - {{ . }}
{{- end }}

judges:
{{- range .Judges }}
  - id: {{ . }}
    model: {{ . }}
{{- end }}

config:
  engine: {{ .Engine }}
{{- if .WorkspaceID }}
  workspace_id: {{ .WorkspaceID }}
{{- end }}

tasks:
  - "cases/*.yaml"
`

const caseYAMLTemplate = `id: {{ .ID }}
query: |-
{{ .IndentedQuery }}
timespan_hours: 24
`

// RunBenchWizard runs an interactive huh form to collect benchmark metadata.
// If initialName is non-empty, it pre-populates the name field.
func RunBenchWizard(in io.Reader, out io.Writer, initialName string) (*BenchDraft, error) {
	var (
		name        = initialName
		description string
		audience    string
		modelsRaw   string
		judgesRaw   string
		engine      string
		workspaceID string
		scenario    string
	)

	scenarioOpts := []huh.Option[string]{huh.NewOption("none (write queries by hand)", "")}
	for _, sc := range logsource.ExampleScenarios() {
		scenarioOpts = append(scenarioOpts, huh.NewOption(sc.Name, sc.ID))
	}

	audienceOpts := make([]huh.Option[string], 0, len(models.AllAudiences()))
	for _, a := range models.AllAudiences() {
		audienceOpts = append(audienceOpts, huh.NewOption(string(a), string(a)))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Benchmark name").
				Description("A kebab-case name for your benchmark").
				Placeholder("my-benchmark").
				Value(&name).
				Validate(func(s string) error {
					return ValidateName(strings.TrimSpace(s))
				}),
			huh.NewInput().
				Title("Description").
				Description("What does this benchmark compare?").
				Placeholder("Describe your benchmark").
				Value(&description),
			huh.NewSelect[string]().
				Title("Audience").
				Description("Who reads the explanations?").
				Options(audienceOpts...).
				Value(&audience),
			huh.NewInput().
				Title("Candidate models").
				Description("Comma-separated model ids (at least two)").
				Placeholder("gpt-4o, gpt-4o-mini").
				Value(&modelsRaw).
				Validate(func(s string) error {
					if len(splitAndTrim(s)) < 2 {
						return fmt.Errorf("a comparison needs at least 2 models")
					}
					return nil
				}),
			huh.NewInput().
				Title("Judge models").
				Description("Comma-separated judge model ids").
				Placeholder("gpt-4o").
				Value(&judgesRaw).
				Validate(func(s string) error {
					if len(splitAndTrim(s)) == 0 {
						return fmt.Errorf("at least one judge is required")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Engine").
				Options(
					huh.NewOption("openai", "openai"),
					huh.NewOption("mock (offline, deterministic)", "mock"),
				).
				Value(&engine),
			huh.NewInput().
				Title("Log Analytics workspace id").
				Description("Optional; needed for cases without inline tables").
				Value(&workspaceID),
			huh.NewSelect[string]().
				Title("Seed example queries").
				Description("Generate starter test cases from a scenario").
				Options(scenarioOpts...).
				Value(&scenario),
		),
	).
		WithInput(in).
		WithOutput(out)

	// Use accessible mode for non-TTY input (e.g., tests, piped input).
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		form = form.WithAccessible(true)
	}

	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("wizard failed: %w", err)
	}

	return &BenchDraft{
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Audience:    models.Audience(audience),
		Models:      splitAndTrim(modelsRaw),
		Judges:      splitAndTrim(judgesRaw),
		Engine:      engine,
		WorkspaceID: strings.TrimSpace(workspaceID),
		Scenario:    scenario,
	}, nil
}

// GenerateBenchYAML renders a bench spec file from the draft.
func GenerateBenchYAML(draft *BenchDraft) (string, error) {
	tmpl, err := template.New("bench").Parse(benchYAMLTemplate)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, draft); err != nil {
		return "", fmt.Errorf("failed to render template: %w", err)
	}
	return buf.String(), nil
}

// SeedCases renders starter test case files for the draft's scenario.
// The result maps file name to file content; empty when no scenario was
// chosen.
func SeedCases(draft *BenchDraft) (map[string]string, error) {
	if draft.Scenario == "" {
		return nil, nil
	}

	var scenario *logsource.ExampleScenario
	for _, sc := range logsource.ExampleScenarios() {
		if sc.ID == draft.Scenario {
			scenario = &sc
			break
		}
	}
	if scenario == nil {
		return nil, fmt.Errorf("unknown scenario %q", draft.Scenario)
	}

	tmpl, err := template.New("case").Parse(caseYAMLTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template: %w", err)
	}

	out := make(map[string]string, len(scenario.Queries))
	for _, q := range scenario.Queries {
		id := slugify(q.Name)
		var buf strings.Builder
		err := tmpl.Execute(&buf, struct {
			ID            string
			IndentedQuery string
		}{
			ID:            id,
			IndentedQuery: indent(q.Query, "  "),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to render case %q: %w", q.Name, err)
		}
		out[id+".yaml"] = buf.String()
	}
	return out, nil
}

func slugify(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	lastHyphen := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteRune('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	var result []string
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
