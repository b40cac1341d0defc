package config

import (
	"fmt"
	"strings"
)

// ConfigurationError is returned when a configuration file cannot be read
// or decoded.
type ConfigurationError struct {
	FilePath    string   // Full path to the file that caused the error
	ErrorType   string   // io, parse or validation
	Message     string   // Human-readable error message
	Details     string   // Additional details about the error
	Suggestions []string // Actionable suggestions to fix the error
	Err         error
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	return fmt.Sprintf("config %s error in %s: %s", ce.ErrorType, ce.FilePath, ce.Message)
}

func (ce *ConfigurationError) Unwrap() error { return ce.Err }

// DetailedError returns a detailed error message with all context
func (ce *ConfigurationError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Configuration Error: %s", ce.Message))
	parts = append(parts, fmt.Sprintf("  File: %s", ce.FilePath))
	parts = append(parts, fmt.Sprintf("  Type: %s", ce.ErrorType))

	if ce.Details != "" {
		parts = append(parts, fmt.Sprintf("  Details: %s", ce.Details))
	}

	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}

	return strings.Join(parts, "\n")
}

func newConfigurationError(path, errorType, message string, err error, suggestions ...string) *ConfigurationError {
	ce := &ConfigurationError{
		FilePath:    path,
		ErrorType:   errorType,
		Message:     message,
		Suggestions: suggestions,
		Err:         err,
	}
	if err != nil {
		ce.Details = err.Error()
	}
	return ce
}
