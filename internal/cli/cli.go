package cli

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/vk/caproute/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// stringList collects a flag that may be given more than once.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("caproute", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
caproute - A capability routing registry driven by HCL route manifests.

Usage:
  caproute [options] [MANIFEST_PATH...]

Arguments:
  MANIFEST_PATH
    Path to a single .hcl file or a directory containing .hcl files.
    Defaults to "modules".

Options:
`)
		flagSet.PrintDefaults()
	}

	var manifests, vars, lookups stringList
	flagSet.Var(&manifests, "manifest", "Path to a route manifest file or directory. May be repeated.")
	flagSet.Var(&manifests, "m", "Path to a route manifest file or directory (shorthand).")
	flagSet.Var(&vars, "var", "Manifest variable as name=value. May be repeated.")
	flagSet.Var(&lookups, "resolve", "Capability to resolve as role:name, e.g. view:greeter.Greeter. May be repeated.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	checkFlag := flagSet.Bool("check", true, "Record destination capabilities and validate them when registration finishes.")
	assertFlag := flagSet.Bool("assert", false, "Panic on registry programming errors instead of reporting them.")
	listFlag := flagSet.Bool("list", false, "Print every registration after the lookups.")
	outputFlag := flagSet.String("output", "text", "Registration listing format. Options: 'text' or 'yaml'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	paths := append([]string{}, manifests...)
	paths = append(paths, flagSet.Args()...)
	if len(paths) == 0 {
		paths = []string{"modules"}
	}
	slog.Debug("Manifest paths determined.", "paths", paths)

	varMap := make(map[string]string, len(vars))
	for _, v := range vars {
		name, value, ok := strings.Cut(v, "=")
		if !ok || name == "" {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid var %q: must be name=value", v)}
		}
		varMap[name] = value
	}

	parsed := make([]app.Lookup, 0, len(lookups))
	for _, l := range lookups {
		lookup, err := app.ParseLookup(l)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		parsed = append(parsed, lookup)
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	out := strings.ToLower(*outputFlag)
	if out != "text" && out != "yaml" {
		return nil, false, &ExitError{Code: 2, Message: "invalid output: must be 'text' or 'yaml'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(app.Config{
		ManifestPaths: paths,
		LogFormat:     logFormat,
		LogLevel:      logLevel,
		Checks:        *checkFlag,
		Assertions:    *assertFlag,
		Vars:          varMap,
		Lookups:       parsed,
		List:          *listFlag || len(parsed) == 0,
		Output:        out,
	})
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
