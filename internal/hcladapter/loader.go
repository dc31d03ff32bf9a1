package hcladapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/bindgraph/internal/ctxlog"
	"github.com/vk/bindgraph/internal/decl"
	"github.com/vk/bindgraph/internal/fsutil"
)

// Loader is the HCL-specific implementation of the decl.Loader interface.
// It remembers every parsed file so diagnostics can quote source snippets.
// A Loader is not safe for concurrent use.
type Loader struct {
	parser *hclparse.Parser
}

var _ decl.Loader = (*Loader)(nil)

// NewLoader creates a new HCL declaration loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Files returns the parsed files by name, for the diagnostic writer.
func (l *Loader) Files() map[string]*hcl.File {
	return l.parser.Files()
}

// Load orchestrates the entire HCL declaration loading process. Directories
// are walked for .hcl files; files are read in lexical order.
func (l *Loader) Load(ctx context.Context, paths ...string) (*decl.Model, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	hclFiles, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered HCL files.", "count", len(hclFiles))

	model := &decl.Model{}
	for _, file := range hclFiles {
		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file %s: %w", file, diags)
		}
		part, err := l.decode(ctx, file, hclFile)
		if err != nil {
			return nil, err
		}
		model.Merge(part)
	}

	logger.Debug("HCL loading complete.",
		"containers", len(model.Containers),
		"injectables", len(model.Injectables),
		"assisted_factories", len(model.AssistedFactories),
		"graphs", len(model.Graphs))
	return model, nil
}

// Parse decodes one in-memory HCL document.
func (l *Loader) Parse(ctx context.Context, filename string, src []byte) (*decl.Model, error) {
	hclFile, diags := l.parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL %s: %w", filename, diags)
	}
	return l.decode(ctx, filename, hclFile)
}

func (l *Loader) decode(ctx context.Context, filename string, hclFile *hcl.File) (*decl.Model, error) {
	var root fileRoot
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &root); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filename, diags)
	}

	model := &decl.Model{}
	for _, c := range root.Containers {
		out, err := l.translateContainer(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		model.Containers = append(model.Containers, out)
	}
	for _, i := range root.Injectables {
		model.Injectables = append(model.Injectables, l.translateInjectable(ctx, i))
	}
	for _, f := range root.AssistedFactories {
		model.AssistedFactories = append(model.AssistedFactories, l.translateAssistedFactory(ctx, f))
	}
	for _, g := range root.Graphs {
		out, err := l.translateGraph(ctx, g, false)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		model.Graphs = append(model.Graphs, out)
	}
	for _, g := range root.Extensions {
		out, err := l.translateGraph(ctx, g, true)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		model.Graphs = append(model.Graphs, out)
	}
	return model, nil
}

// findAllHCLFiles walks all given paths and returns a flat list of all .hcl files found.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	return fsutil.FindFilesByExtension(paths, ".hcl")
}
