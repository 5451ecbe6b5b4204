package dictionary

import "fmt"

// Error reports a malformed or missing rule table.
type Error struct {
	Table   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dictionary %s: %s: %v", e.Table, e.Message, e.Err)
	}
	return fmt.Sprintf("dictionary %s: %s", e.Table, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}
