package diag

import (
	"fmt"
	"sort"

	"github.com/hashicorp/hcl/v2"
)

// Reporter accumulates diagnostics in report order. Identical diagnostics
// are kept once. With a positive cap, at most maxErrors diagnostics are kept
// per code and the remainder is summarized by one note per code.
type Reporter struct {
	maxErrors  int
	diags      []Diagnostic
	perCode    map[Code]int
	suppressed map[Code]int
	seen       map[string]struct{}
}

// NewReporter creates a reporter. maxErrors <= 0 disables the cap.
func NewReporter(maxErrors int) *Reporter {
	return &Reporter{
		maxErrors:  maxErrors,
		perCode:    make(map[Code]int),
		suppressed: make(map[Code]int),
		seen:       make(map[string]struct{}),
	}
}

// Report records d.
func (r *Reporter) Report(d Diagnostic) {
	id := fmt.Sprintf("%d|%s|%s|%s|%s", d.Severity, d.Code, d.Graph, d.Message, d.Range)
	if _, dup := r.seen[id]; dup {
		return
	}
	r.seen[id] = struct{}{}

	if r.maxErrors > 0 && r.perCode[d.Code] >= r.maxErrors {
		r.suppressed[d.Code]++
		return
	}
	r.perCode[d.Code]++
	r.diags = append(r.diags, d)
}

// Errorf records an error diagnostic.
func (r *Reporter) Errorf(code Code, rng hcl.Range, graph, hint, format string, args ...any) {
	r.Report(Diagnostic{
		Severity: Error,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Range:    rng,
		Hint:     hint,
		Graph:    graph,
	})
}

// Merge re-reports every diagnostic of other, in order, under r's cap.
// Suppression counts of other carry over.
func (r *Reporter) Merge(other *Reporter) {
	if other == nil {
		return
	}
	for _, d := range other.diags {
		r.Report(d)
	}
	for code, n := range other.suppressed {
		r.suppressed[code] += n
	}
}

// HasErrors reports whether any error was recorded, suppressed ones included.
func (r *Reporter) HasErrors() bool {
	for _, d := range r.diags {
		if d.Severity == Error {
			return true
		}
	}
	return len(r.suppressed) > 0
}

// Count returns the number of recorded diagnostics with code, suppressed
// ones included.
func (r *Reporter) Count(code Code) int {
	return r.perCode[code] + r.suppressed[code]
}

// Diagnostics returns the recorded diagnostics followed by one summary note
// per suppressed code, in code order.
func (r *Reporter) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, 0, len(r.diags)+len(r.suppressed))
	out = append(out, r.diags...)

	codes := make([]Code, 0, len(r.suppressed))
	for c := range r.suppressed {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })
	for _, c := range codes {
		out = append(out, Diagnostic{
			Severity: Note,
			Code:     Suppressed,
			Message:  fmt.Sprintf("%d more %s diagnostic(s) suppressed", r.suppressed[c], c),
		})
	}
	return out
}
