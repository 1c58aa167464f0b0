package models

import "fmt"

// ConfigError indicates an invalid benchmark configuration (bad weight
// profile, too few models, no test cases). It is fatal: a run must stop
// before any remote call is made.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return e.Message
}

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}
