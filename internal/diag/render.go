package diag

import (
	"io"

	"github.com/hashicorp/hcl/v2"
)

// ToHCL converts diagnostics for the HCL diagnostic writer.
func ToHCL(diags []Diagnostic) hcl.Diagnostics {
	out := make(hcl.Diagnostics, 0, len(diags))
	for _, d := range diags {
		hd := &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  string(d.Code),
			Detail:   d.Message,
		}
		if d.Severity != Error {
			hd.Severity = hcl.DiagWarning
		}
		if d.Graph != "" {
			hd.Summary = string(d.Code) + " in " + d.Graph
		}
		if d.Hint != "" {
			hd.Detail += "\n\nHint: " + d.Hint
		}
		if d.Range.Filename != "" {
			rng := d.Range
			hd.Subject = &rng
		}
		out = append(out, hd)
	}
	return out
}

// WriteText prints diagnostics with source snippets taken from files.
func WriteText(w io.Writer, files map[string]*hcl.File, width uint, color bool, diags []Diagnostic) error {
	wr := hcl.NewDiagnosticTextWriter(w, files, width, color)
	return wr.WriteDiagnostics(ToHCL(diags))
}
