package reporting

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one candidate model.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one (model, test case) pair.
type JUnitTestCase struct {
	XMLName   xml.Name    `xml:"testcase"`
	Name      string      `xml:"name,attr"`
	Classname string      `xml:"classname,attr"`
	Time      float64     `xml:"time,attr"`
	Error     *JUnitError `xml:"error,omitempty"`
}

// JUnitError represents a pair that failed at the explain or judge step.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a report to JUnit XML: one suite per model, one
// testcase per pair. Pairs that fell back to placeholder scores surface as
// errors so CI dashboards show them.
func ConvertToJUnit(report *Report) *JUnitTestSuites {
	run := report.Run
	suites := &JUnitTestSuites{
		Time: float64(run.DurationMs) / 1000.0,
	}

	meansByModel := make(map[string]float64, len(report.Ranked.Ranking))
	for _, agg := range report.Ranked.Ranking {
		meansByModel[agg.ModelID] = agg.MeanWeightedTotal
	}

	for _, modelID := range run.Models {
		results := run.PerModel[modelID]

		suite := JUnitTestSuite{
			Name:      modelID,
			Tests:     len(results),
			Timestamp: run.Timestamp.Format(time.RFC3339),
			Properties: []JUnitProperty{
				{Name: "bench", Value: run.BenchName},
				{Name: "audience", Value: string(run.Audience)},
				{Name: "mean_weighted_total", Value: fmt.Sprintf("%.4f", meansByModel[modelID])},
			},
		}

		for i := range results {
			r := &results[i]
			tc := JUnitTestCase{
				Name:      r.TestID,
				Classname: modelID,
				Time:      float64(r.DurationMs) / 1000.0,
			}
			if !r.Succeeded() {
				msg := r.ErrorMsg
				if msg == "" {
					msg = "pair produced no usable scores"
				}
				tc.Error = &JUnitError{Message: msg, Type: "PairError"}
				suite.Errors++
			}
			suite.Time += tc.Time
			suite.TestCases = append(suite.TestCases, tc)
		}

		suites.Tests += suite.Tests
		suites.Errors += suite.Errors
		suites.TestSuites = append(suites.TestSuites, suite)
	}

	return suites
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(report *Report, path string) error {
	suites := ConvertToJUnit(report)

	data, err := xml.MarshalIndent(suites, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}

	output := append([]byte(xml.Header), data...)
	return os.WriteFile(path, output, 0o644)
}
