// Package app bootstraps docweaver.
//
// New builds the service container in a fixed order: environment
// normalization, static definitions, console extensions, service providers,
// descriptor initializers and finally the commands for the packaging mode.
// Services are instantiated lazily; bootstrap only resolves what the
// initializer chain needs. Configuration is loaded when a command runs, so
// the --config option is honored by every service.
//
// Run resolves the console, which applies every pending extension exactly
// once, and dispatches the arguments. It returns an exit status rather than
// exiting, see ExitCode.
package app
