package config

import (
	"fmt"
	"path"
	"strings"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...interface{}) {
	var val interface{}
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateRequired checks if a required string field is not empty
func ValidateRequired(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return ValidationError{
			Field:   field,
			Value:   value,
			Message: "is required",
		}
	}
	return nil
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

var logLevels = []string{"", "debug", "info", "warn", "warning", "error", "quiet"}

// Validate checks the configuration for values no command can work with.
// The returned error, if any, is a ValidationErrors.
func (c Config) Validate() error {
	var errs ValidationErrors

	appendErr := func(err error) {
		if ve, ok := err.(ValidationError); ok {
			errs = append(errs, ve)
		}
	}

	if len(c.Files.Directories) == 0 {
		errs.Add("files.directories", "must list at least one directory")
	}
	for i, dir := range c.Files.Directories {
		appendErr(ValidateRequired(fmt.Sprintf("files.directories[%d]", i), dir))
	}
	for i, pattern := range c.Files.Ignore {
		if _, err := path.Match(pattern, ""); err != nil {
			errs.Add(fmt.Sprintf("files.ignore[%d]", i), "is not a valid glob pattern", pattern)
		}
	}

	if len(c.Parser.Extensions) == 0 {
		errs.Add("parser.extensions", "must list at least one extension")
	}
	for i, ext := range c.Parser.Extensions {
		if !strings.HasPrefix(ext, ".") {
			errs.Add(fmt.Sprintf("parser.extensions[%d]", i), "must start with a dot", ext)
		}
	}
	if c.Parser.Workers < 0 {
		errs.Add("parser.workers", "must not be negative", c.Parser.Workers)
	}

	appendErr(ValidateRequired("transformer.target", c.Transformer.Target))
	if len(c.Transformer.Templates) == 0 {
		errs.Add("transformer.templates", "must name at least one template")
	}

	appendErr(ValidateRequired("translator.locale", c.Translator.Locale))
	appendErr(ValidateOneOf("logging.level", strings.ToLower(c.Logging.Level), logLevels))

	seen := map[string]bool{}
	for i, p := range c.Plugins {
		field := fmt.Sprintf("plugins[%d].name", i)
		if err := ValidateRequired(field, p.Name); err != nil {
			appendErr(err)
			continue
		}
		if seen[p.Name] {
			errs.Add(field, "is declared twice", p.Name)
		}
		seen[p.Name] = true
	}

	partials := map[string]bool{}
	for i, p := range c.Partials {
		field := fmt.Sprintf("partials[%d]", i)
		if err := ValidateRequired(field+".name", p.Name); err != nil {
			appendErr(err)
			continue
		}
		if partials[p.Name] {
			errs.Add(field+".name", "is declared twice", p.Name)
		}
		partials[p.Name] = true
		if (p.Content == "") == (p.File == "") {
			errs.Add(field, "needs exactly one of content or file", p.Name)
		}
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
