package app

import (
	"errors"

	"docweaver/internal/container"
	"docweaver/internal/environment"
)

// Exit codes returned by Run.
const (
	// ExitSuccess indicates successful execution.
	ExitSuccess = 0
	// ExitFailure indicates a failed command or invalid arguments.
	ExitFailure = 1
	// ExitWiring indicates a defect in how the services are wired together.
	ExitWiring = 2
	// ExitEnvironment indicates an environment the operator has to fix.
	ExitEnvironment = 3
)

// ExitCode maps err to the exit status of the process.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var unsupported *environment.UnsupportedEnvironmentError
	if errors.As(err, &unsupported) {
		return ExitEnvironment
	}
	if container.IsWiringError(err) {
		return ExitWiring
	}
	return ExitFailure
}
