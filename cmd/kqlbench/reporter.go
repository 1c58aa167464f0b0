package main

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/kqlbench/kqlbench/internal/models"
	"github.com/kqlbench/kqlbench/internal/orchestration"
)

// formatDuration formats a duration in a consistent, human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.Round(100 * time.Millisecond).String()
}

func verboseProgressListener(event orchestration.ProgressEvent) {
	switch event.EventType {
	case orchestration.EventBenchmarkStart:
		fmt.Printf("Starting benchmark: %d call step(s) total\n\n", event.TotalSteps)
	case orchestration.EventPairStart:
		fmt.Printf("[%d/%d] %s × %s\n", event.CompletedSteps, event.TotalSteps, event.ModelID, event.TestID)
	case orchestration.EventExplainComplete:
		icon := "✓"
		if event.Status != models.PairCompleted {
			icon = "✗"
		}
		fmt.Printf("  %s explain\n", icon)
	case orchestration.EventJudgeComplete:
		icon := "✓"
		if event.Status != models.PairCompleted {
			icon = "✗"
		}
		fmt.Printf("  %s judge\n", icon)
	case orchestration.EventPairComplete:
		fmt.Printf("  pair %s (%s)\n\n", event.Status, formatDuration(time.Duration(event.DurationMs)*time.Millisecond))
	case orchestration.EventBenchmarkComplete:
		fmt.Printf("Benchmark completed in %s\n\n", formatDuration(time.Duration(event.DurationMs)*time.Millisecond))
	}
}

// spinnerReporter renders compact progress on one line: a spinner while a
// pair is in flight, a colored status line when it resolves.
type spinnerReporter struct {
	mu      sync.Mutex
	out     io.Writer
	spin    *spinner.Spinner
	green   *color.Color
	red     *color.Color
	stopped bool
}

func newSpinnerReporter(out io.Writer) *spinnerReporter {
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(out))
	return &spinnerReporter{
		out:   out,
		spin:  s,
		green: color.New(color.FgGreen),
		red:   color.New(color.FgRed),
	}
}

// Listen implements orchestration.ProgressListener.
func (r *spinnerReporter) Listen(event orchestration.ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}

	switch event.EventType {
	case orchestration.EventPairStart:
		r.spin.Suffix = fmt.Sprintf(" [%d/%d] %s × %s", event.CompletedSteps, event.TotalSteps, event.ModelID, event.TestID)
		r.spin.Start()
	case orchestration.EventPairComplete:
		r.spin.Stop()
		c := r.green
		icon := "✓"
		if event.Status != models.PairCompleted {
			c = r.red
			icon = "✗"
		}
		c.Fprintf(r.out, "%s [%d/%d] %s × %s (%s)\n", //nolint:errcheck
			icon, event.CompletedSteps, event.TotalSteps, event.ModelID, event.TestID,
			formatDuration(time.Duration(event.DurationMs)*time.Millisecond))
	case orchestration.EventBenchmarkComplete:
		r.spin.Stop()
		fmt.Fprintln(r.out) //nolint:errcheck
	}
}

// Stop halts the spinner; safe to call once the run has returned.
func (r *spinnerReporter) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	r.spin.Stop()
}
