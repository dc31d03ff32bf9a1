package diag

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Severity of a diagnostic.
type Severity int

const (
	Error Severity = iota
	Warning
	Note
)

// String returns the lowercase severity name.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Note:
		return "note"
	default:
		return fmt.Sprintf("severity(%d)", int(s))
	}
}

// MarshalText renders the severity name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Code is the stable identifier of a diagnostic kind.
type Code string

const (
	MissingBinding              Code = "MissingBinding"
	DuplicateBinding            Code = "DuplicateBinding"
	DuplicateMapKey             Code = "DuplicateMapKey"
	CycleError                  Code = "CycleError"
	ScopeConflict               Code = "ScopeConflict"
	ConflictingScope            Code = "ConflictingScope"
	AssistedInjectionError      Code = "AssistedInjectionError"
	OptionalBindingError        Code = "OptionalBindingError"
	InvalidDynamicGraphArgument Code = "InvalidDynamicGraphArgument"
	BindingContainerError       Code = "BindingContainerError"
	MapKeyError                 Code = "MapKeyError"
	// Suppressed is the summary note that replaces diagnostics over the cap.
	Suppressed Code = "Suppressed"
)

// Diagnostic is one reported problem.
type Diagnostic struct {
	Severity Severity  `json:"severity"`
	Code     Code      `json:"code"`
	Message  string    `json:"message"`
	Range    hcl.Range `json:"-"`
	Hint     string    `json:"hint,omitempty"`
	// Graph is the graph being resolved, empty for declaration-time problems.
	Graph string `json:"graph,omitempty"`
}

// Location renders the source range, or "" when the range is unknown.
func (d Diagnostic) Location() string {
	if d.Range.Filename == "" {
		return ""
	}
	return d.Range.String()
}

// String renders `[Code] graph: message (hint)`.
func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s [%s] ", d.Severity, d.Code)
	if d.Graph != "" {
		sb.WriteString(d.Graph)
		sb.WriteString(": ")
	}
	sb.WriteString(d.Message)
	if d.Hint != "" {
		sb.WriteString(" (hint: ")
		sb.WriteString(d.Hint)
		sb.WriteByte(')')
	}
	return sb.String()
}
