package container

import (
	"errors"
	"fmt"
	"strings"
)

// MissingDefinitionError is returned when a key without a definition is
// resolved, either directly or as a requirement of another key.
type MissingDefinitionError struct {
	Key        string
	RequiredBy string
}

func (e *MissingDefinitionError) Error() string {
	if e.RequiredBy != "" {
		return fmt.Sprintf("container: no definition for %q (required by %q)", e.Key, e.RequiredBy)
	}
	return fmt.Sprintf("container: no definition for %q", e.Key)
}

// CircularDependencyError is returned when a key transitively requires
// itself. Cycle starts and ends with the same key.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return "container: circular dependency: " + strings.Join(e.Cycle, " -> ")
}

// AlreadyResolvedExtensionError is returned when an extender is registered
// for a key that has already been resolved.
type AlreadyResolvedExtensionError struct {
	Key string
}

func (e *AlreadyResolvedExtensionError) Error() string {
	return fmt.Sprintf("container: cannot extend %q, it has already been resolved", e.Key)
}

// AlreadyResolvedError is returned when a resolved key is redefined.
type AlreadyResolvedError struct {
	Key string
}

func (e *AlreadyResolvedError) Error() string {
	return fmt.Sprintf("container: cannot redefine %q, it has already been resolved", e.Key)
}

// TypeMismatchError is returned by the typed helpers when an instance does
// not have the expected type.
type TypeMismatchError struct {
	Key  string
	Want string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("container: %q resolved to %s, want %s", e.Key, e.Got, e.Want)
}

// ResolutionError wraps an error returned by a factory or an extender.
type ResolutionError struct {
	Key string
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("container: resolving %q: %v", e.Key, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// ProviderContributionError is returned when a provider fails while
// contributing its definitions.
type ProviderContributionError struct {
	Provider string
	Err      error
}

func (e *ProviderContributionError) Error() string {
	return fmt.Sprintf("container: provider %s failed to register: %v", e.Provider, e.Err)
}

func (e *ProviderContributionError) Unwrap() error { return e.Err }

// wrapResolution annotates err with key. Wiring defects pass through
// untouched so the innermost key stays in the message.
func wrapResolution(key string, err error) error {
	var (
		missing  *MissingDefinitionError
		circular *CircularDependencyError
	)
	if errors.As(err, &missing) || errors.As(err, &circular) {
		return err
	}
	return &ResolutionError{Key: key, Err: err}
}

// IsWiringError reports whether err is a container wiring defect: a missing
// definition, a cycle, a failed provider or a late extension.
func IsWiringError(err error) bool {
	var (
		missing  *MissingDefinitionError
		circular *CircularDependencyError
		provider *ProviderContributionError
		late     *AlreadyResolvedExtensionError
		redefine *AlreadyResolvedError
		mismatch *TypeMismatchError
	)
	return errors.As(err, &missing) ||
		errors.As(err, &circular) ||
		errors.As(err, &provider) ||
		errors.As(err, &late) ||
		errors.As(err, &redefine) ||
		errors.As(err, &mismatch)
}
