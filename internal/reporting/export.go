// Package reporting renders and persists finished benchmark runs: JSON for
// machines, CSV for spreadsheets, JUnit XML for CI, markdown and HTML for
// humans, and gzip archives for storage.
package reporting

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/klauspost/compress/gzip"

	"github.com/kqlbench/kqlbench/internal/models"
	"github.com/kqlbench/kqlbench/internal/validation"
)

// Report bundles a frozen run with its aggregated ranking; every exporter
// takes one of these.
type Report struct {
	Run    *models.BenchmarkRun  `json:"run"`
	Ranked *models.RankedResults `json:"ranked"`
}

// WriteJSON writes the report as indented JSON.
func WriteJSON(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ReadJSON loads a previously exported report.
func ReadJSON(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing report %s: %w", path, err)
	}
	if report.Run == nil {
		return nil, fmt.Errorf("report %s has no run record", path)
	}
	if errs := validation.ValidateRunBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("report %s failed schema validation: %s", path, errs[0])
	}
	return &report, nil
}

// WriteCSV writes one row per (model, test case) pair: enough for pivot
// tables without re-parsing JSON.
func WriteCSV(report *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	header := []string{"model", "test_id", "status", "score_source", "weighted_total"}
	for _, d := range models.AllDimensions() {
		header = append(header, string(d))
	}
	header = append(header, "duration_ms", "error")
	if err := w.Write(header); err != nil {
		return err
	}

	for _, modelID := range report.Run.Models {
		for _, r := range report.Run.PerModel[modelID] {
			row := []string{
				r.ModelID,
				r.TestID,
				string(r.Status),
				string(r.ScoreSource),
				strconv.FormatFloat(r.WeightedTotal, 'f', 4, 64),
			}
			for _, d := range models.AllDimensions() {
				if s, ok := r.NormalizedAverage[d]; ok {
					row = append(row, strconv.FormatFloat(s, 'f', 4, 64))
				} else {
					row = append(row, "")
				}
			}
			row = append(row, strconv.FormatInt(r.DurationMs, 10), r.ErrorMsg)
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	w.Flush()
	return w.Error()
}

// WriteArchive writes the report as gzip-compressed JSON. Archived runs can
// be re-exported later with `kqlbench export`.
func WriteArchive(report *Report, path string) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	zw := gzip.NewWriter(f)
	zw.Name = report.Run.RunID + ".json"
	if _, err := zw.Write(data); err != nil {
		zw.Close() //nolint:errcheck
		return fmt.Errorf("compressing report: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	return f.Sync()
}

// ReadArchive loads a gzip-compressed report written by WriteArchive.
func ReadArchive(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	zr, err := gzip.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("opening archive %s: %w", path, err)
	}
	defer zr.Close() //nolint:errcheck

	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("decompressing archive %s: %w", path, err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parsing archived report %s: %w", path, err)
	}
	if report.Run == nil {
		return nil, fmt.Errorf("archive %s has no run record", path)
	}
	if errs := validation.ValidateRunBytes(data); len(errs) > 0 {
		return nil, fmt.Errorf("archive %s failed schema validation: %s", path, errs[0])
	}
	return &report, nil
}
