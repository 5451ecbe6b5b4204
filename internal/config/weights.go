package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/ats-engine/internal/schemas"
	"github.com/jonathan/ats-engine/internal/scoring"
)

// DecodeMLWeights converts a loosely typed document into validated weights.
// Unknown keys are rejected.
func DecodeMLWeights(raw map[string]any) (*scoring.MLWeights, error) {
	var w scoring.MLWeights
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &w,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create weights decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, &scoring.ConfigurationError{Field: "weights", Message: "malformed document", Cause: err}
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// LoadMLWeightsFile reads a YAML or JSON weights file, checks it against the
// weights schema and decodes it. An empty path returns nil weights.
func LoadMLWeightsFile(path string) (*scoring.MLWeights, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read weights file %s: %w", path, err)
	}

	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &raw)
	default:
		err = json.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse weights file %s: %w", path, err)
	}

	if err := schemas.ValidateDocument(schemas.MLWeights, raw); err != nil {
		return nil, fmt.Errorf("weights file %s: %w", path, err)
	}
	return DecodeMLWeights(raw)
}
