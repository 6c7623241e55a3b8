package vk

import "fmt"

// APIError is an error object returned by the VK API
type APIError struct {
	Method  string
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vk %s: error %d: %s", e.Method, e.Code, e.Message)
}

// Common VK error codes
const (
	CodeTooManyRequests = 6
	CodeAccessDenied    = 15
)

// RequestError represents a transport or decoding failure
type RequestError struct {
	Method  string
	Message string
	Cause   error
}

func (e *RequestError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vk %s: %s: %v", e.Method, e.Message, e.Cause)
	}
	return fmt.Sprintf("vk %s: %s", e.Method, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Cause
}
