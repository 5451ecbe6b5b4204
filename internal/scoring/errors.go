package scoring

import "fmt"

// ConfigurationError reports an invalid ML-weight override or curve constant.
type ConfigurationError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigurationError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("invalid scoring configuration: %s: %v", msg, e.Cause)
	}
	return "invalid scoring configuration: " + msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}
