package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/vk/bindgraph/internal/app"
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

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// flags holds the raw values of the persistent flags. Only flags the user
// set override the file and environment layers.
type flags struct {
	configFile     string
	format         string
	optionalMode   string
	logFormat      string
	logLevel       string
	maxErrors      int
	parallelism    int
	fullValidation bool
	dump           bool
	metrics        bool
}

// Execute runs the bindgraph command tree over args. Failures that need a
// specific process exit code are returned as *ExitError.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, newLoader app.LoaderFactory) error {
	root := newRootCmd(outW, errW, newLoader)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	var exitErr *ExitError
	switch {
	case err == nil, errors.As(err, &exitErr):
		return err
	case errors.Is(err, app.ErrDiagnostics):
		return &ExitError{Code: 1, Message: err.Error()}
	case errors.Is(err, app.ErrNoPaths):
		return usageError(err)
	default:
		return err
	}
}

func newRootCmd(outW, errW io.Writer, newLoader app.LoaderFactory) *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "bindgraph",
		Short: "Resolve and validate dependency-injection binding graphs",
		Long: `bindgraph reads HCL binding declarations, resolves every graph and
prints an ordered construction plan per graph, or source-located
diagnostics for what cannot be resolved.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
	registerFlags(root, f)

	// run builds the App from the layered configuration and hands it to fn.
	run := func(fn func(cmd *cobra.Command, a *app.App) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd, f, args)
			if err != nil {
				return usageError(err)
			}
			return fn(cmd, app.NewApp(outW, errW, cfg, newLoader))
		}
	}

	root.AddCommand(&cobra.Command{
		Use:   "resolve [paths...]",
		Short: "Resolve every graph and print plans and diagnostics",
		RunE: run(func(cmd *cobra.Command, a *app.App) error {
			return a.Run(cmd.Context(), app.Request{Mode: app.ModeResolve})
		}),
	})
	root.AddCommand(&cobra.Command{
		Use:   "check [paths...]",
		Short: "Resolve every graph and print diagnostics only",
		RunE: run(func(cmd *cobra.Command, a *app.App) error {
			return a.Run(cmd.Context(), app.Request{Mode: app.ModeCheck})
		}),
	})
	root.AddCommand(newDynamicCmd(run))
	root.AddCommand(newServeCmd(run))
	return root
}

func registerFlags(cmd *cobra.Command, f *flags) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.configFile, "config", "", "YAML config file (default "+app.DefaultConfigFile+" if present)")
	pf.StringVar(&f.format, "format", "", "Plan output format. Options: 'json', 'text' or 'hcl'.")
	pf.IntVar(&f.maxErrors, "max-errors", 0, "Errors reported per diagnostic code. 0 is unlimited.")
	pf.StringVar(&f.optionalMode, "optional-mode", "", "Optional binding mode. Options: 'default', 'disabled' or 'require-explicit-marker'.")
	pf.BoolVar(&f.fullValidation, "full-validation", false, "Validate every declared binding, not only reachable ones.")
	pf.IntVar(&f.parallelism, "parallelism", 0, "Graphs resolved concurrently. 0 is one per CPU.")
	pf.BoolVar(&f.dump, "dump", false, "Dump the built plans to stderr.")
	pf.BoolVar(&f.metrics, "metrics", false, "Print resolution metrics to stderr.")
	pf.StringVar(&f.logFormat, "log-format", "", "Log output format. Options: 'text' or 'json'.")
	pf.StringVar(&f.logLevel, "log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
}

func newDynamicCmd(run func(func(*cobra.Command, *app.App) error) func(*cobra.Command, []string) error) *cobra.Command {
	var (
		graph      string
		containers []string
	)
	cmd := &cobra.Command{
		Use:   "dynamic --graph G --container C [paths...]",
		Short: "Resolve one graph with extra containers",
		RunE: run(func(cmd *cobra.Command, a *app.App) error {
			if graph == "" {
				return usageError(errors.New("--graph is required"))
			}
			return a.Run(cmd.Context(), app.Request{Mode: app.ModeDynamic, Graph: graph, Containers: containers})
		}),
	}
	cmd.Flags().StringVar(&graph, "graph", "", "Graph to resolve.")
	cmd.Flags().StringArrayVar(&containers, "container", nil, "Container to add to the graph. Repeatable.")
	return cmd
}

func newServeCmd(run func(func(*cobra.Command, *app.App) error) func(*cobra.Command, []string) error) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve [paths...]",
		Short: "Serve /health and POST /v1/resolve over HTTP",
		RunE: run(func(cmd *cobra.Command, a *app.App) error {
			return a.Serve(cmd.Context())
		}),
	}
	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on.")
	return cmd
}

// buildConfig layers defaults, the YAML file, the environment and the flags
// the user set, in increasing precedence.
func buildConfig(cmd *cobra.Command, f *flags, args []string) (*app.Config, error) {
	cfg := app.DefaultConfig()

	path, required := f.configFile, true
	if path == "" {
		path, required = app.DefaultConfigFile, false
	}
	if err := app.LoadFile(path, required, &cfg); err != nil {
		return nil, err
	}
	if err := app.LoadEnv(&cfg); err != nil {
		return nil, err
	}

	fs := cmd.Flags()
	if fs.Changed("format") {
		cfg.Format = f.format
	}
	if fs.Changed("max-errors") {
		cfg.MaxErrors = f.maxErrors
	}
	if fs.Changed("optional-mode") {
		cfg.OptionalMode = f.optionalMode
	}
	if fs.Changed("full-validation") {
		cfg.FullValidation = f.fullValidation
	}
	if fs.Changed("parallelism") {
		cfg.Parallelism = f.parallelism
	}
	if fs.Changed("dump") {
		cfg.Dump = f.dump
	}
	if fs.Changed("metrics") {
		cfg.Metrics = f.metrics
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = f.logFormat
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	if fs.Changed("port") {
		port, err := fs.GetInt("port")
		if err != nil {
			return nil, fmt.Errorf("invalid port: %w", err)
		}
		cfg.Port = port
	}
	if len(args) > 0 {
		cfg.Paths = args
	}
	return app.NewConfig(cfg)
}
