package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileFor_AllBuiltinsValid(t *testing.T) {
	for _, a := range AllAudiences() {
		t.Run(string(a), func(t *testing.T) {
			p, err := ProfileFor(a)
			require.NoError(t, err)
			assert.Equal(t, a, p.Audience)
			assert.Len(t, p.Weights, len(AllDimensions()))

			sum := 0.0
			for _, w := range p.Weights {
				assert.GreaterOrEqual(t, w, 0.0)
				sum += w
			}
			assert.InDelta(t, 1.0, sum, 1e-9)
		})
	}
}

func TestProfileFor_UnknownAudience(t *testing.T) {
	_, err := ProfileFor("manager")
	require.Error(t, err)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "unknown audience")
}

func TestProfileFor_AnalystIgnoresConciseness(t *testing.T) {
	p, err := ProfileFor(AudienceAnalyst)
	require.NoError(t, err)
	assert.Equal(t, 0.0, p.Weights[DimConciseness])
}

func TestAudienceWeightProfileValidate(t *testing.T) {
	full := func(mutate func(map[Dimension]float64)) map[Dimension]float64 {
		w := map[Dimension]float64{
			DimFaithfulness:    0.25,
			DimStructure:       0.10,
			DimClarity:         0.15,
			DimAnalysisDepth:   0.20,
			DimContextAccuracy: 0.15,
			DimActionability:   0.10,
			DimConciseness:     0.05,
		}
		if mutate != nil {
			mutate(w)
		}
		return w
	}

	tests := []struct {
		name    string
		weights map[Dimension]float64
		wantErr string
	}{
		{
			name:    "valid profile",
			weights: full(nil),
		},
		{
			name: "sum not 1.0",
			weights: full(func(w map[Dimension]float64) {
				w[DimFaithfulness] = 0.5
			}),
			wantErr: "expected 1.0",
		},
		{
			name: "negative weight",
			weights: full(func(w map[Dimension]float64) {
				w[DimStructure] = -0.1
				w[DimFaithfulness] = 0.45
			}),
			wantErr: "negative weight",
		},
		{
			name: "missing dimension",
			weights: full(func(w map[Dimension]float64) {
				delete(w, DimConciseness)
				w[DimFaithfulness] = 0.30
			}),
			wantErr: "covers 6 dimensions",
		},
		{
			name: "unknown dimension",
			weights: full(func(w map[Dimension]float64) {
				w["speed"] = 0.0
			}),
			wantErr: "unknown dimension",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := AudienceWeightProfile{Audience: AudienceDeveloper, Weights: tt.weights}
			err := p.Validate()
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}
