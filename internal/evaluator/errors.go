package evaluator

import "fmt"

// ValidationError reports malformed input for a single patient record.
// Callers reject that record only; the rest of the batch proceeds.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// ConfigError reports an invalid threshold table or action catalog. It is
// raised once at startup, never per request, and is fatal.
type ConfigError struct {
	Param  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Param, e.Reason)
}
