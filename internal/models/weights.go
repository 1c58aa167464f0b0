package models

import "math"

// Audience identifies the consumer persona a benchmark is scored for.
type Audience string

const (
	AudienceDeveloper Audience = "developer"
	AudienceSRE       Audience = "sre"
	AudienceAnalyst   Audience = "analyst"
	AudienceExecutive Audience = "executive"
)

// AllAudiences returns the supported audiences in a stable order.
func AllAudiences() []Audience {
	return []Audience{AudienceDeveloper, AudienceSRE, AudienceAnalyst, AudienceExecutive}
}

// weightSumTolerance bounds floating-point drift when checking that a
// profile's weights sum to 1.0.
const weightSumTolerance = 1e-9

// AudienceWeightProfile maps every rubric dimension to a non-negative weight.
// Weights must sum to 1.0; a profile that does not is a configuration error,
// never silently renormalized.
type AudienceWeightProfile struct {
	Audience Audience              `json:"audience"`
	Weights  map[Dimension]float64 `json:"weights"`
}

// Fixed presets. Each row must sum to exactly 1.0; Validate enforces this at
// load time. The analyst profile deliberately zeroes conciseness: analysts
// read explanations in full and only penalize inaccuracy, not length.
var builtinProfiles = map[Audience]map[Dimension]float64{
	AudienceDeveloper: {
		DimFaithfulness:    0.25,
		DimStructure:       0.10,
		DimClarity:         0.15,
		DimAnalysisDepth:   0.20,
		DimContextAccuracy: 0.15,
		DimActionability:   0.10,
		DimConciseness:     0.05,
	},
	AudienceSRE: {
		DimFaithfulness:    0.20,
		DimStructure:       0.05,
		DimClarity:         0.10,
		DimAnalysisDepth:   0.15,
		DimContextAccuracy: 0.20,
		DimActionability:   0.25,
		DimConciseness:     0.05,
	},
	AudienceAnalyst: {
		DimFaithfulness:    0.25,
		DimStructure:       0.10,
		DimClarity:         0.10,
		DimAnalysisDepth:   0.25,
		DimContextAccuracy: 0.20,
		DimActionability:   0.10,
		DimConciseness:     0.00,
	},
	AudienceExecutive: {
		DimFaithfulness:    0.15,
		DimStructure:       0.10,
		DimClarity:         0.25,
		DimAnalysisDepth:   0.05,
		DimContextAccuracy: 0.10,
		DimActionability:   0.15,
		DimConciseness:     0.20,
	},
}

// ProfileFor returns the fixed weight profile for an audience, validated.
func ProfileFor(a Audience) (AudienceWeightProfile, error) {
	weights, ok := builtinProfiles[a]
	if !ok {
		return AudienceWeightProfile{}, NewConfigError("unknown audience %q (must be one of developer, sre, analyst, executive)", a)
	}
	p := AudienceWeightProfile{Audience: a, Weights: weights}
	if err := p.Validate(); err != nil {
		return AudienceWeightProfile{}, err
	}
	return p, nil
}

// Validate checks the profile covers exactly the rubric dimensions with
// non-negative weights summing to 1.0 (± 1e-9).
func (p AudienceWeightProfile) Validate() error {
	sum := 0.0
	for d, w := range p.Weights {
		if !d.Valid() {
			return NewConfigError("weight profile %q references unknown dimension %q", p.Audience, d)
		}
		if w < 0 {
			return NewConfigError("weight profile %q has negative weight %.4f for %s", p.Audience, w, d)
		}
		sum += w
	}
	if len(p.Weights) != len(AllDimensions()) {
		return NewConfigError("weight profile %q covers %d dimensions, expected %d", p.Audience, len(p.Weights), len(AllDimensions()))
	}
	if math.Abs(sum-1.0) > weightSumTolerance {
		return NewConfigError("weight profile %q sums to %.12f, expected 1.0", p.Audience, sum)
	}
	return nil
}
