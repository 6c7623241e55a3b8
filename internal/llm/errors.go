package llm

import "fmt"

// APICallError represents a failed call to the generation service
type APICallError struct {
	Message string
	Model   string
	Cause   error
}

func (e *APICallError) Error() string {
	prefix := "llm API error"
	if e.Model != "" {
		prefix = fmt.Sprintf("llm API error (%s)", e.Model)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents a reply that carried nothing usable
type ParseError struct {
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("llm response error: %s", e.Message)
}

// CapabilityError reports a configured model that cannot serve its tier
type CapabilityError struct {
	Tier   ModelTier
	Model  string
	Reason string
	Cause  error
}

func (e *CapabilityError) Error() string {
	msg := fmt.Sprintf("model for tier %s", e.Tier)
	if e.Model != "" {
		msg = fmt.Sprintf("model %s (tier %s)", e.Model, e.Tier)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s unavailable: %s: %v", msg, e.Reason, e.Cause)
	}
	return fmt.Sprintf("%s unavailable: %s", msg, e.Reason)
}

func (e *CapabilityError) Unwrap() error {
	return e.Cause
}
