package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/hcl/v2"
	"github.com/stretchr/testify/require"
	"github.com/vk/bindgraph/internal/ctxlog"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/diag"
	"github.com/vk/bindgraph/internal/hcladapter"
	"github.com/vk/bindgraph/internal/resolver"
)

// Result holds everything one resolution produced.
type Result struct {
	Model       *decl.Model
	Graph       *resolver.BindingGraph
	Diagnostics []diag.Diagnostic
	Files       map[string]*hcl.File
	LogOutput   string
}

// Codes returns the diagnostic codes in report order.
func (r *Result) Codes() []diag.Code {
	codes := make([]diag.Code, 0, len(r.Diagnostics))
	for _, d := range r.Diagnostics {
		codes = append(codes, d.Code)
	}
	return codes
}

// Count returns how many diagnostics carry code.
func (r *Result) Count(code diag.Code) int {
	n := 0
	for _, d := range r.Diagnostics {
		if d.Code == code {
			n++
		}
	}
	return n
}

// WriteFiles writes files, keyed by relative path, under a fresh temp dir
// and returns the dir.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()

	tmpDir := t.TempDir()
	for name, content := range files {
		filePath := filepath.Join(tmpDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}
	return tmpDir
}

// ParseModel decodes one HCL document into a model.
func ParseModel(t *testing.T, src string) *decl.Model {
	t.Helper()

	model, err := hcladapter.NewLoader().Parse(context.Background(), "test.hcl", []byte(src))
	require.NoError(t, err)
	return model
}

// Resolve parses src, runs the declaration checks and resolves graph,
// resolving its ancestors first.
func Resolve(t *testing.T, src, graph string, opts resolver.Options) *Result {
	t.Helper()
	return ResolveDynamic(t, src, graph, nil, opts)
}

// ResolveDynamic is Resolve with caller-supplied dynamic containers.
func ResolveDynamic(t *testing.T, src, graph string, dynamic []string, opts resolver.Options) *Result {
	t.Helper()

	logBuffer := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(logBuffer, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	loader := hcladapter.NewLoader()
	model, err := loader.Parse(ctx, "test.hcl", []byte(src))
	require.NoError(t, err)
	rep := diag.NewReporter(0)
	resolver.CheckDeclarations(ctx, model, opts, rep)

	r := resolver.New(model, opts)
	var resolve func(name string, dyn []string) *resolver.BindingGraph
	resolve = func(name string, dyn []string) *resolver.BindingGraph {
		g, ok := model.Graph(name)
		require.True(t, ok, "graph %s not declared", name)
		var parent *resolver.BindingGraph
		if g.Parent != "" {
			parent = resolve(g.Parent, nil)
		}
		return r.Resolve(ctx, g, parent, dyn, rep)
	}
	bg := resolve(graph, dynamic)

	t.Cleanup(func() {
		if os.Getenv("BINDGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return &Result{
		Model:       model,
		Graph:       bg,
		Diagnostics: rep.Diagnostics(),
		Files:       loader.Files(),
		LogOutput:   logBuffer.String(),
	}
}
