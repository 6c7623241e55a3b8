package telegram

import "fmt"

// APIError is returned when the Bot API answers {"ok": false}
type APIError struct {
	Method      string
	Code        int
	Description string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("telegram %s: error %d: %s", e.Method, e.Code, e.Description)
}

// RequestError represents a transport or decoding failure
type RequestError struct {
	Method  string
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("telegram %s: %s: %v", e.Method, e.Message, e.Cause)
	}
	return fmt.Sprintf("telegram %s: %s", e.Method, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}
