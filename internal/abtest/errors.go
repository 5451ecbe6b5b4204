package abtest

import "fmt"

// ValidationError reports malformed test input such as an empty version list,
// an unknown outcome or a factor without levels.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid a/b test input: %s: %s", e.Field, e.Message)
	}
	return "invalid a/b test input: " + e.Message
}
