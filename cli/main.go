package main

import (
	"errors"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/crabstar-lang/crabstar/internal/config"
	"github.com/crabstar-lang/crabstar/runtime/parser"
)

// app carries the streams and settings shared by every command.
type app struct {
	stdin      io.Reader
	stdout     io.Writer
	stderr     io.Writer
	stdinPiped func() bool
	lookupEnv  func(string) (string, bool)
	dir        string // where config files are discovered

	cfg      config.Config
	useColor bool
	logger   *slog.Logger
}

type globalOptions struct {
	configPath string
	noColor    bool
	debug      string
	telemetry  string
}

func main() {
	a := &app{
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		stderr:     os.Stderr,
		stdinPiped: hasPipedInput,
		lookupEnv:  os.LookupEnv,
		dir:        ".",
	}

	if err := newRootCmd(a).Execute(); err != nil {
		useColor := a.useColor
		if a.logger == nil {
			// Configuration failed; decide on color without it.
			useColor = ShouldUseColor(config.ColorAuto, os.LookupEnv, os.Stderr)
		}
		FormatError(os.Stderr, err, useColor)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	var opts globalOptions

	rootCmd := &cobra.Command{
		Use:   "crabstar",
		Short: "Parse crabstar source and report every syntax error",
		Long: `crabstar parses let-declarations with local error recovery: each syntax
error is reported and replaced by a placeholder, so one mistake never hides
the rest of the file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd, opts)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a .crabstar.yaml, .crabstar.yml or .crabstar.toml file")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&opts.debug, "debug", config.DebugOff, "Trace parser rules: off, paths or detailed")
	flags.Lookup("debug").NoOptDefVal = config.DebugPaths
	flags.StringVar(&opts.telemetry, "telemetry", config.TelemetryOff, "Report parse metrics: off, basic or timing")
	flags.Lookup("telemetry").NoOptDefVal = config.TelemetryBasic

	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(a.stderr)

	rootCmd.AddCommand(
		newParseCmd(a),
		newCheckCmd(a),
		newDigestCmd(a),
		newDiffCmd(a),
		newSchemaCmd(a),
	)
	return rootCmd
}

// configure resolves settings: config file, then environment, then flags.
func (a *app) configure(cmd *cobra.Command, opts globalOptions) error {
	cfg, err := config.Resolve(a.dir, opts.configPath, a.lookupEnv)
	if err != nil {
		return &CLIError{Type: "config", Message: "invalid configuration", Details: err.Error()}
	}

	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("telemetry") {
		cfg.Telemetry = opts.telemetry
	}
	if opts.noColor {
		cfg.Color = config.ColorNever
	}
	if err := cfg.Validate(); err != nil {
		return &CLIError{Type: "config", Message: "invalid flag value", Details: err.Error()}
	}

	a.cfg = cfg
	a.useColor = ShouldUseColor(cfg.Color, a.lookupEnv, a.stdout)
	a.logger = newLogger(a.stderr, cfg.Debug != config.DebugOff)
	if cfg.Path != "" {
		a.logger.Debug("loaded config", "path", cfg.Path)
	}
	return nil
}

// parserOpts translates the settings into parser options.
func (a *app) parserOpts(filename string) []parser.ParserOpt {
	opts := []parser.ParserOpt{
		parser.WithFilename(filename),
		parser.WithLogger(a.logger),
	}
	if a.cfg.NestedElif {
		opts = append(opts, parser.WithNestedElifChains())
	}
	switch a.cfg.Telemetry {
	case config.TelemetryBasic:
		opts = append(opts, parser.WithTelemetryBasic())
	case config.TelemetryTiming:
		opts = append(opts, parser.WithTelemetryTiming())
	}
	switch a.cfg.Debug {
	case config.DebugPaths:
		opts = append(opts, parser.WithDebugPaths())
	case config.DebugDetailed:
		opts = append(opts, parser.WithDebugDetailed())
	}
	return opts
}

// parseInput reads and parses one input, reporting telemetry on stderr.
func (a *app) parseInput(file string) (*parser.ParseTree, error) {
	source, name, err := a.readSource(file)
	if err != nil {
		return nil, err
	}
	tree := parser.Parse(source, a.parserOpts(name)...)
	DisplayTelemetry(a.stderr, tree, a.cfg.Telemetry == config.TelemetryTiming)
	return tree, nil
}

func isParseFailure(err error) bool {
	var cliErr *CLIError
	return errors.As(err, &cliErr) && cliErr.Type == "parse"
}
