package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/ats-engine/internal/scoring"
	"github.com/jonathan/ats-engine/internal/types"
)

func TestDecodeMLWeights(t *testing.T) {
	w, err := DecodeMLWeights(map[string]any{
		"keywordWeights":     map[string]any{"python": 1.5},
		"categoryWeights":    map[string]any{"Data Science": 0.9},
		"scoringAdjustments": map[string]any{"format": 0.1},
		"discoveredKeywords": []any{"dbt"},
	})
	require.NoError(t, err)
	assert.InDelta(t, 1.5, w.KeywordWeights["python"], 1e-9)
	assert.InDelta(t, 0.9, w.CategoryWeights[types.RoleDataScience], 1e-9)
	assert.InDelta(t, 0.1, w.ScoringAdjustments.Format, 1e-9)
	assert.Equal(t, []string{"dbt"}, w.DiscoveredKeywords)
}

func TestDecodeMLWeights_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"unknown key", map[string]any{"keywordWieghts": map[string]any{}}},
		{"wrong type", map[string]any{"keywordWeights": "python"}},
		{"unknown category", map[string]any{"categoryWeights": map[string]any{"Astronaut": 0.5}}},
		{"adjustment out of range", map[string]any{"scoringAdjustments": map[string]any{"keywords": 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := DecodeMLWeights(tt.raw)
			require.Error(t, err)
			assert.Nil(t, w)
			var cerr *scoring.ConfigurationError
			assert.True(t, errors.As(err, &cerr))
		})
	}
}

func TestLoadMLWeightsFile(t *testing.T) {
	yamlPath := writeFile(t, "weights.yaml", "keywordWeights:\n  kubernetes: 2\nscoringAdjustments:\n  keywords: 0.2\n")
	w, err := LoadMLWeightsFile(yamlPath)
	require.NoError(t, err)
	assert.InDelta(t, 2, w.KeywordWeights["kubernetes"], 1e-9)
	assert.InDelta(t, 0.2, w.ScoringAdjustments.Keywords, 1e-9)

	jsonPath := writeFile(t, "weights.json", `{"discoveredKeywords": ["terraform"]}`)
	w, err = LoadMLWeightsFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, []string{"terraform"}, w.DiscoveredKeywords)

	w, err = LoadMLWeightsFile("")
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestLoadMLWeightsFile_SchemaRejects(t *testing.T) {
	path := writeFile(t, "weights.json", `{"keywordWeights": {"python": "high"}}`)
	_, err := LoadMLWeightsFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}
