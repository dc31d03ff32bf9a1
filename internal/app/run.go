package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/hashicorp/hcl/v2"
	"github.com/rcrowley/go-metrics"
	"github.com/vk/bindgraph/internal/ctxlog"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/plan"
)

var (
	// ErrNoPaths is returned when a run has nothing to load.
	ErrNoPaths = errors.New("no declaration paths given")
	// ErrDiagnostics is returned when a run reported at least one error
	// diagnostic. The diagnostics themselves were already printed.
	ErrDiagnostics = errors.New("resolution reported errors")
)

// dumper renders --dump output. Pointer addresses are left out so dumps of
// identical input diff cleanly.
var dumper = spew.ConfigState{
	Indent:                  "  ",
	MaxDepth:                4,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// Run loads config.Paths, compiles them as req asks and prints the outcome.
func (a *App) Run(ctx context.Context, req Request) error {
	ctx = a.withRun(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("App.Run method started.", "mode", req.Mode, "paths", a.config.Paths)

	report, err := a.load(ctx, req)
	if err != nil {
		return err
	}

	switch {
	case req.Mode == ModeCheck && a.config.Format == "json":
		enc := json.NewEncoder(a.outW)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
	case req.Mode == ModeCheck:
		if err := a.writeDiagnostics(report); err != nil {
			return err
		}
	default:
		if err := a.writePlans(report.Plans); err != nil {
			return err
		}
		if err := a.writeDiagnostics(report); err != nil {
			return err
		}
	}
	if a.config.Dump {
		dumper.Fdump(a.errW, report.Plans)
	}
	if a.config.Metrics {
		metrics.WriteOnce(a.registry, a.errW)
	}

	if report.HasErrors() {
		logger.Info("Resolution finished with errors.", "diagnostics", len(report.Diagnostics))
		return ErrDiagnostics
	}
	logger.Info("Resolution finished.", "plans", len(report.Plans))
	return nil
}

// load reads config.Paths with a fresh loader and compiles the model.
func (a *App) load(ctx context.Context, req Request) (*Report, error) {
	logger := ctxlog.FromContext(ctx)
	if len(a.config.Paths) == 0 {
		return nil, ErrNoPaths
	}

	loader := a.newLoader()
	model, err := loader.Load(ctx, a.config.Paths...)
	if err != nil {
		var diags hcl.Diagnostics
		if errors.As(err, &diags) {
			wr := hcl.NewDiagnosticTextWriter(a.errW, filesOf(loader), 0, false)
			_ = wr.WriteDiagnostics(diags)
		}
		return nil, fmt.Errorf("failed to load declarations: %w", err)
	}
	logger.Debug("Declarations loaded.",
		"containers", len(model.Containers),
		"injectables", len(model.Injectables),
		"graphs", len(model.Graphs))

	return a.compile(ctx, model, filesOf(loader), req)
}

func (a *App) writePlans(plans []*plan.Plan) error {
	switch a.config.Format {
	case "json":
		return plan.WriteJSON(a.outW, plans)
	case "hcl":
		return plan.WriteHCL(a.outW, plans)
	default:
		return plan.WriteText(a.outW, plans)
	}
}

// writeDiagnostics prints diagnostics with source snippets to errW.
func (a *App) writeDiagnostics(report *Report) error {
	if len(report.Diagnostics) == 0 {
		return nil
	}
	if err := diag.WriteText(a.errW, report.files, 0, false, report.Diagnostics); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	return nil
}
