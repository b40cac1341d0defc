package console

import (
	"errors"
	"fmt"
	"io"

	"docweaver/internal/config"
	"docweaver/internal/container"
	"docweaver/pkg/logging"

	"github.com/spf13/cobra"
)

// Global flag names.
const (
	FlagConfig  = "config"
	FlagVerbose = "verbose"
	FlagQuiet   = "quiet"
	FlagLog     = "log"
)

// Extension mutates the console before its first resolution.
type Extension func(root *cobra.Command, c *container.Container) (*cobra.Command, error)

// Extend registers ext against the console in c.
func Extend(c *container.Container, ext Extension) error {
	return container.ExtendAs[*cobra.Command](c, ServiceKey, ext)
}

// ConfigOption adds the global -c/--config option.
func ConfigOption(root *cobra.Command, _ *container.Container) (*cobra.Command, error) {
	root.PersistentFlags().StringP(FlagConfig, "c", "",
		"configuration file to use instead of "+config.FileName+" or "+config.DistFileName)
	return root, nil
}

// LoggingHelper adds -v/--verbose, -q/--quiet and --log and sets up logging
// before every command.
func LoggingHelper(stderr io.Writer) Extension {
	return func(root *cobra.Command, _ *container.Container) (*cobra.Command, error) {
		flags := root.PersistentFlags()
		flags.BoolP(FlagVerbose, "v", false, "enable debug logging")
		flags.BoolP(FlagQuiet, "q", false, "only log errors")
		flags.String(FlagLog, "", "also append log output to this file")

		chainPreRun(root, func(cmd *cobra.Command, _ []string) error {
			level, _, err := flagLevel(cmd)
			if err != nil {
				return err
			}
			logFile, _ := stringFlag(cmd, FlagLog)
			return setupLogging(stderr, level, logFile)
		})
		return root, nil
	}
}

// ConfigurationHelper loads the configuration selected by --config before
// every command not annotated with AnnotationSkipConfig. The logging section
// of the file applies where no logging flag was given.
func ConfigurationHelper(stderr io.Writer) Extension {
	return func(root *cobra.Command, c *container.Container) (*cobra.Command, error) {
		store, err := container.Resolve[*config.Store](c, config.ServiceKey)
		if err != nil {
			return nil, err
		}

		chainPreRun(root, func(cmd *cobra.Command, _ []string) error {
			if SkipsConfig(cmd) {
				return nil
			}
			if f := cmd.Flags().Lookup(FlagConfig); f != nil {
				store.SetPath(f.Value.String())
			}

			cfg, err := store.Config()
			if err != nil {
				return err
			}
			if src := store.Source(); src != "" {
				logging.Debug("Console", "Using configuration %s", src)
			}

			level, fromFlags, err := flagLevel(cmd)
			if err != nil {
				return err
			}
			logFile, fileFromFlag := stringFlag(cmd, FlagLog)
			changed := false

			if !fromFlags && cfg.Logging.Level != "" {
				configured, err := logging.ParseLevel(cfg.Logging.Level)
				if err != nil {
					return err
				}
				changed = configured != level
				level = configured
			}
			if logFile == "" && !fileFromFlag && cfg.Logging.File != "" {
				logFile = cfg.Path(cfg.Logging.File)
				changed = true
			}
			if !changed {
				return nil
			}
			return setupLogging(stderr, level, logFile)
		})
		return root, nil
	}
}

// flagLevel derives the log level from -v and -q. The second result is true
// when either flag was given.
func flagLevel(cmd *cobra.Command) (logging.LogLevel, bool, error) {
	verbose, _ := boolFlag(cmd, FlagVerbose)
	quiet, _ := boolFlag(cmd, FlagQuiet)

	switch {
	case verbose && quiet:
		return logging.LevelInfo, true, errors.New("--verbose and --quiet cannot be combined")
	case verbose:
		return logging.LevelDebug, true, nil
	case quiet:
		return logging.LevelError, true, nil
	default:
		return logging.LevelInfo, false, nil
	}
}

func setupLogging(stderr io.Writer, level logging.LogLevel, logFile string) error {
	if logFile == "" {
		logging.Close()
		logging.InitForCLI(level, stderr)
		return nil
	}
	return logging.InitWithFile(level, stderr, logFile)
}

func boolFlag(cmd *cobra.Command, name string) (bool, bool) {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return false, false
	}
	v, err := cmd.Flags().GetBool(name)
	return v && err == nil, true
}

func stringFlag(cmd *cobra.Command, name string) (string, bool) {
	f := cmd.Flags().Lookup(name)
	if f == nil || !f.Changed {
		return "", false
	}
	return f.Value.String(), true
}

// DefaultCommand makes the root run the command called name whenever no
// command is given, so global options alone ("-c other.yaml") still do work.
// Global flags and the pre-run hooks have already been applied to the root
// by then.
func DefaultCommand(name string) Extension {
	return func(root *cobra.Command, _ *container.Container) (*cobra.Command, error) {
		root.RunE = func(cmd *cobra.Command, args []string) error {
			def, _, err := cmd.Find([]string{name})
			if err != nil || def == cmd || def.RunE == nil {
				return fmt.Errorf("default command %q is not available", name)
			}
			logging.Debug("Console", "No command given, running %s", def.CommandPath())
			def.SetContext(cmd.Context())
			return def.RunE(def, args)
		}
		return root, nil
	}
}
