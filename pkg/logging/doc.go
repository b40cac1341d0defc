// Package logging provides the structured logger used across docweaver.
//
// It is a thin layer over log/slog: every entry carries a subsystem tag,
// messages take printf-style arguments, and level filtering happens in the
// handler.
//
// # Usage
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//
//	logging.Info("Bootstrap", "Registered %d providers", n)
//	logging.Debug("Config", "Loaded configuration from %s", path)
//	logging.Error("Parser", err, "Failed to parse %s", file)
//
// InitWithFile adds a file sink next to the console output; Close releases
// it. The console frontend wires both through its -v, -q and --log flags.
//
// # Subsystems
//
//   - Bootstrap: normalizer, container, providers, initializers
//   - Config: configuration loading and validation
//   - Parser, Descriptor, Transformer, Plugin: the documentation pipeline
//   - Console: command dispatch and the interactive shell
//
// Logging is safe for concurrent use.
package logging
