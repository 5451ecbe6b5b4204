// Package schemas validates engine documents against the embedded JSON Schemas.
package schemas

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	embedded "github.com/jonathan/ats-engine/schemas"
)

// Name identifies an embedded schema.
type Name string

const (
	Score         Name = "score.schema.json"
	GapAnalysis   Name = "gap_analysis.schema.json"
	ABTestResults Name = "abtest_results.schema.json"
	MLWeights     Name = "ml_weights.schema.json"
)

// Names lists every embedded schema.
var Names = []Name{Score, GapAnalysis, ABTestResults, MLWeights}

// ParseName accepts a schema by file name or by its short form ("score",
// "gap_analysis", "abtest_results", "ml_weights").
func ParseName(s string) (Name, error) {
	for _, n := range Names {
		if s == string(n) || s == n.Short() {
			return n, nil
		}
	}
	short := make([]string, len(Names))
	for i, n := range Names {
		short[i] = n.Short()
	}
	return "", fmt.Errorf("unknown schema %q: want one of %s", s, strings.Join(short, ", "))
}

// Short is the name without the .schema.json suffix.
func (n Name) Short() string {
	return strings.TrimSuffix(string(n), ".schema.json")
}

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

func schemaLoader(name Name) (gojsonschema.JSONLoader, error) {
	data, err := embedded.FS.ReadFile(string(name))
	if err != nil {
		return nil, &SchemaLoadError{Path: string(name), Message: "unknown schema", Cause: err}
	}
	return gojsonschema.NewBytesLoader(data), nil
}

// ValidateDocument validates an in-memory value against an embedded schema.
// doc is marshaled to JSON first, so structs validate by their json tags.
func ValidateDocument(name Name, doc any) error {
	sl, err := schemaLoader(name)
	if err != nil {
		return err
	}
	return validate(string(name), sl, gojsonschema.NewGoLoader(doc))
}

// ValidateFile validates a JSON file against an embedded schema.
func ValidateFile(name Name, jsonPath string) error {
	absPath, err := filepath.Abs(jsonPath)
	if err != nil {
		return fmt.Errorf("failed to resolve JSON path: %w", err)
	}
	if _, err := os.Stat(absPath); os.IsNotExist(err) {
		return fmt.Errorf("JSON file not found: %s", absPath)
	}
	sl, err := schemaLoader(name)
	if err != nil {
		return err
	}
	return validate(string(name), sl, gojsonschema.NewReferenceLoader("file://"+absPath))
}

func validate(path string, schema, document gojsonschema.JSONLoader) error {
	result, err := gojsonschema.Validate(schema, document)
	if err != nil {
		return &SchemaLoadError{
			Path:    path,
			Message: "schema validation failed during load",
			Cause:   err,
		}
	}

	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
