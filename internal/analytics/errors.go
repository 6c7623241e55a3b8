package analytics

import "fmt"

// APICallError represents an error from the recommendation generation call
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("analytics: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("analytics: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}
