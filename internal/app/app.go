package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/hashicorp/hcl/v2"
	uuid "github.com/nu7hatch/gouuid"
	"github.com/rcrowley/go-metrics"
	"github.com/vk/bindgraph/internal/compose"
	"github.com/vk/bindgraph/internal/ctxlog"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/plan"
	"github.com/vk/bindgraph/internal/resolver"
	"github.com/vk/bindgraph/internal/scope"
)

// LoaderFactory returns a fresh declaration loader. Loaders cache parsed
// files by name, so every run and every request gets its own.
type LoaderFactory func() decl.Loader

// fileSource is implemented by loaders that keep parsed sources around for
// diagnostic snippets and plan bodies.
type fileSource interface {
	Files() map[string]*hcl.File
}

// Mode selects what a run produces.
type Mode string

const (
	// ModeResolve resolves every graph and prints plans and diagnostics.
	ModeResolve Mode = "resolve"
	// ModeCheck prints diagnostics only.
	ModeCheck Mode = "check"
	// ModeDynamic resolves one graph with caller-supplied containers.
	ModeDynamic Mode = "dynamic"
)

// Request describes one compilation.
type Request struct {
	Mode       Mode
	Graph      string
	Containers []string
}

// Report is the outcome of one compilation.
type Report struct {
	Plans       []*plan.Plan
	Diagnostics []diag.Diagnostic

	graphs []*resolver.BindingGraph
	files  map[string]*hcl.File
}

// HasErrors reports whether any diagnostic is an error.
func (r *Report) HasErrors() bool {
	return slices.ContainsFunc(r.Diagnostics, func(d diag.Diagnostic) bool {
		return d.Severity == diag.Error
	})
}

// diagnosticJSON adds the rendered source location to a diagnostic.
type diagnosticJSON struct {
	diag.Diagnostic
	Location string `json:"location,omitempty"`
}

// MarshalJSON renders `{"plans": [...], "diagnostics": [...]}` with empty
// lists instead of null.
func (r *Report) MarshalJSON() ([]byte, error) {
	plans := r.Plans
	if plans == nil {
		plans = []*plan.Plan{}
	}
	diags := make([]diagnosticJSON, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		diags = append(diags, diagnosticJSON{Diagnostic: d, Location: d.Location()})
	}
	return json.Marshal(struct {
		Plans       []*plan.Plan     `json:"plans"`
		Diagnostics []diagnosticJSON `json:"diagnostics"`
	}{plans, diags})
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW      io.Writer // plans
	errW      io.Writer // logs and diagnostics
	logger    *slog.Logger
	config    *Config
	newLoader LoaderFactory
	registry  metrics.Registry

	// preloaded is the report for config.Paths computed by Serve.
	preloaded *Report
}

// NewApp is the constructor for the main application. Plans go to outW;
// logs and diagnostics go to errW.
func NewApp(outW, errW io.Writer, cfg *Config, newLoader LoaderFactory) *App {
	logger := newLogger(cfg, errW)
	logger.Debug("Logger configured successfully.")

	return &App{
		outW:      outW,
		errW:      errW,
		logger:    logger,
		config:    cfg,
		newLoader: newLoader,
		registry:  metrics.NewRegistry(),
	}
}

// Registry returns the metrics shared by every run of this App.
func (a *App) Registry() metrics.Registry {
	return a.registry
}

// withRun tags ctx with a fresh run id.
func (a *App) withRun(ctx context.Context) context.Context {
	logger := a.logger
	if id, err := uuid.NewV4(); err == nil {
		logger = logger.With("run_id", id.String())
	} else {
		logger.Warn("Could not generate run id.", "error", err)
	}
	return ctxlog.WithLogger(ctx, logger)
}

// compile resolves model as req asks and builds plans for every valid graph.
func (a *App) compile(ctx context.Context, model *decl.Model, files map[string]*hcl.File, req Request) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	mode, err := scope.ParseOptionalMode(a.config.OptionalMode)
	if err != nil {
		return nil, err
	}

	coord := compose.New(model, compose.Options{
		Resolver: resolver.Options{
			OptionalMode:   mode,
			FullValidation: a.config.FullValidation,
		},
		Parallelism: a.config.Parallelism,
		MaxErrors:   a.config.MaxErrors,
		Registry:    a.registry,
	})
	defer coord.Close()
	coord.CheckDeclarations(ctx)

	var graphs []*resolver.BindingGraph
	if req.Mode == ModeDynamic {
		logger.Debug("Resolving dynamic graph.", "graph", req.Graph, "containers", req.Containers)
		g, err := coord.ResolveDynamic(ctx, req.Graph, req.Containers)
		_, declared := model.Graph(req.Graph)
		switch {
		case !declared:
			return nil, err
		case err != nil:
			logger.Debug("Dynamic graph rejected.", "error", err)
		default:
			graphs = append(graphs, g)
		}
	} else {
		graphs, err = coord.ResolveAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve graphs: %w", err)
		}
	}

	report := &Report{
		Diagnostics: coord.Diagnostics(),
		graphs:      graphs,
		files:       files,
	}
	if req.Mode == ModeCheck {
		return report, nil
	}
	for _, g := range graphs {
		if !g.Valid() {
			continue
		}
		p, err := plan.Build(g, files)
		if err != nil {
			return nil, fmt.Errorf("failed to build plan for %s: %w", g.Name, err)
		}
		report.Plans = append(report.Plans, p)
	}
	logger.Debug("Compilation finished.", "graphs", len(graphs), "plans", len(report.Plans), "diagnostics", len(report.Diagnostics))
	return report, nil
}

// filesOf returns the loader's parsed sources when it keeps them.
func filesOf(loader decl.Loader) map[string]*hcl.File {
	if fs, ok := loader.(fileSource); ok {
		return fs.Files()
	}
	return nil
}
