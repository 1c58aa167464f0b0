package models

import (
	"fmt"
	"strings"
)

// Dimension is one axis of the explanation-quality rubric. The set is closed:
// judges may omit dimensions, but they can never add new ones.
type Dimension string

const (
	DimFaithfulness    Dimension = "faithfulness"
	DimStructure       Dimension = "structure"
	DimClarity         Dimension = "clarity"
	DimAnalysisDepth   Dimension = "analysisDepth"
	DimContextAccuracy Dimension = "contextAccuracy"
	DimActionability   Dimension = "actionability"
	DimConciseness     Dimension = "conciseness"
)

var allDimensions = []Dimension{
	DimFaithfulness,
	DimStructure,
	DimClarity,
	DimAnalysisDepth,
	DimContextAccuracy,
	DimActionability,
	DimConciseness,
}

// AllDimensions returns the rubric dimensions in their canonical order.
// Callers must not mutate the returned slice.
func AllDimensions() []Dimension {
	return allDimensions
}

// Valid reports whether d is one of the rubric dimensions.
func (d Dimension) Valid() bool {
	for _, known := range allDimensions {
		if d == known {
			return true
		}
	}
	return false
}

// ParseDimension converts a string (case-insensitive) to a Dimension.
func ParseDimension(s string) (Dimension, error) {
	for _, d := range allDimensions {
		if strings.EqualFold(s, string(d)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown rubric dimension %q", s)
}
