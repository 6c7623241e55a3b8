package config

import (
	"fmt"
	"strings"
)

// MissingError lists every required environment variable that was not set
type MissingError struct {
	Vars []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("missing required environment variables: %s", strings.Join(e.Vars, ", "))
}

// InvalidError reports an environment variable with a malformed value
type InvalidError struct {
	Var   string
	Value string
	Rule  string
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid %s=%q: expected %s", e.Var, e.Value, e.Rule)
}
