package reporting

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/kqlbench/kqlbench/internal/models"
)

// InterpretScore returns a plain-language label for a 1-5 weighted score.
func InterpretScore(score float64) string {
	switch {
	case score >= 4.5:
		return "Excellent (4.5+)"
	case score >= 3.5:
		return "Good (3.5-4.5)"
	case score >= 2.5:
		return "Mixed (2.5-3.5)"
	default:
		return "Poor (<2.5)"
	}
}

// InterpretConfidence labels an interval width: a wide interval means the
// per-case totals varied a lot and the mean is a shaky estimate.
func InterpretConfidence(lower, upper float64) string {
	width := upper - lower
	switch {
	case width <= 0.25:
		return "stable across queries"
	case width <= 0.75:
		return "some variation across queries"
	default:
		return "highly variable across queries"
	}
}

// FormatSummary produces the plain-text report the run command prints.
func FormatSummary(report *Report) string {
	var b strings.Builder
	run := report.Run

	b.WriteString(fmt.Sprintf("Benchmark: %s (audience: %s)\n", run.BenchName, run.Audience))
	b.WriteString(fmt.Sprintf("Duration:  %v\n", time.Duration(run.DurationMs)*time.Millisecond))
	b.WriteString(fmt.Sprintf("Models:    %d   Test cases: %d\n\n", len(run.Models), len(run.TestCases)))

	b.WriteString("Ranking:\n")
	nameWidth := 0
	for _, agg := range report.Ranked.Ranking {
		if w := runewidth.StringWidth(agg.ModelID); w > nameWidth {
			nameWidth = w
		}
	}
	for i, agg := range report.Ranked.Ranking {
		b.WriteString(fmt.Sprintf("  %d. %s  %.2f  (%d/%d cases)  %s\n",
			i+1,
			runewidth.FillRight(agg.ModelID, nameWidth),
			agg.MeanWeightedTotal,
			agg.CompletedCount, agg.TotalCount,
			InterpretScore(agg.MeanWeightedTotal)))
		if agg.CI != nil {
			b.WriteString(fmt.Sprintf("     95%% CI [%.2f, %.2f] — %s\n",
				agg.CI.Lower, agg.CI.Upper, InterpretConfidence(agg.CI.Lower, agg.CI.Upper)))
		}
	}
	for _, agg := range report.Ranked.NoData {
		b.WriteString(fmt.Sprintf("  -. %s  no usable scores (0/%d cases)\n", agg.ModelID, agg.TotalCount))
	}

	if flagged := collectDisagreements(run); len(flagged) > 0 {
		b.WriteString("\nHigh judge disagreement:\n")
		for _, line := range flagged {
			b.WriteString("  " + line + "\n")
		}
	}

	return b.String()
}

func collectDisagreements(run *models.BenchmarkRun) []string {
	var out []string
	for _, modelID := range run.Models {
		for _, r := range run.PerModel[modelID] {
			if r.Consensus == nil || len(r.Consensus.HighDisagreement) == 0 {
				continue
			}
			dims := make([]string, 0, len(r.Consensus.HighDisagreement))
			for _, d := range r.Consensus.HighDisagreement {
				dims = append(dims, string(d))
			}
			out = append(out, fmt.Sprintf("%s / %s: %s", r.ModelID, r.TestID, strings.Join(dims, ", ")))
		}
	}
	return out
}

// FormatMarkdown renders the report as a markdown document with a per-model
// dimension table.
func FormatMarkdown(report *Report) string {
	var b strings.Builder
	run := report.Run

	b.WriteString(fmt.Sprintf("# Benchmark: %s\n\n", run.BenchName))
	b.WriteString(fmt.Sprintf("- **Audience:** %s\n", run.Audience))
	b.WriteString(fmt.Sprintf("- **Run:** %s (%s)\n", run.RunID, run.Timestamp.Format(time.RFC3339)))
	b.WriteString(fmt.Sprintf("- **Test cases:** %d\n\n", len(run.TestCases)))

	b.WriteString("## Ranking\n\n")
	b.WriteString("| Rank | Model | Weighted | Cases |")
	for _, d := range models.AllDimensions() {
		b.WriteString(" " + string(d) + " |")
	}
	b.WriteString("\n|---|---|---|---|")
	for range models.AllDimensions() {
		b.WriteString("---|")
	}
	b.WriteString("\n")

	for i, agg := range report.Ranked.Ranking {
		b.WriteString(fmt.Sprintf("| %d | %s | %.2f | %d/%d |",
			i+1, agg.ModelID, agg.MeanWeightedTotal, agg.CompletedCount, agg.TotalCount))
		for _, d := range models.AllDimensions() {
			if s, ok := agg.MeanScores[d]; ok {
				b.WriteString(fmt.Sprintf(" %.2f |", s))
			} else {
				b.WriteString(" - |")
			}
		}
		b.WriteString("\n")
	}
	for _, agg := range report.Ranked.NoData {
		b.WriteString(fmt.Sprintf("| - | %s | no data | 0/%d |", agg.ModelID, agg.TotalCount))
		for range models.AllDimensions() {
			b.WriteString(" - |")
		}
		b.WriteString("\n")
	}

	if flagged := collectDisagreements(run); len(flagged) > 0 {
		b.WriteString("\n## High judge disagreement\n\n")
		for _, line := range flagged {
			b.WriteString("- " + line + "\n")
		}
	}

	return b.String()
}

// WriteHTML renders the markdown report to a standalone HTML file.
func WriteHTML(report *Report, path string) error {
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))

	var body bytes.Buffer
	if err := md.Convert([]byte(FormatMarkdown(report)), &body); err != nil {
		return fmt.Errorf("rendering report HTML: %w", err)
	}

	var out bytes.Buffer
	out.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	out.WriteString(fmt.Sprintf("<title>Benchmark: %s</title>\n", report.Run.BenchName))
	out.WriteString("<style>body{font-family:sans-serif;max-width:60rem;margin:2rem auto;padding:0 1rem}table{border-collapse:collapse}td,th{border:1px solid #ccc;padding:0.3rem 0.6rem}</style>\n")
	out.WriteString("</head>\n<body>\n")
	out.Write(body.Bytes())
	out.WriteString("</body>\n</html>\n")

	return os.WriteFile(path, out.Bytes(), 0o644)
}
