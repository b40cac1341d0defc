// Package console provides the cobra frontend of docweaver.
//
// The root command itself is inert. Everything it offers is added through
// Extensions registered against ServiceKey before the console is resolved
// from the container:
//
//   - ConfigOption adds -c/--config.
//   - LoggingHelper adds -v, -q and --log.
//   - ConfigurationHelper loads the configuration before each command.
//
// Shell wraps the console in an interactive readline loop.
package console
