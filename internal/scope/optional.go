package scope

import (
	"fmt"

	"github.com/vk/bindgraph/internal/binding"
)

// OptionalMode selects how default-valued request sites are treated.
type OptionalMode string

const (
	// Disabled never treats a site as optional.
	Disabled OptionalMode = "disabled"
	// Default makes a defaulted parameter optional; accessors also need the
	// explicit marker.
	Default OptionalMode = "default"
	// RequireExplicitMarker makes a site optional only with both the marker
	// and a default.
	RequireExplicitMarker OptionalMode = "require-explicit-marker"
)

// ParseOptionalMode validates a mode name. The empty string is Default.
func ParseOptionalMode(s string) (OptionalMode, error) {
	switch OptionalMode(s) {
	case "":
		return Default, nil
	case Disabled, Default, RequireExplicitMarker:
		return OptionalMode(s), nil
	default:
		return "", fmt.Errorf("unknown optional mode %q (want disabled, default or require-explicit-marker)", s)
	}
}

// IsOptional reports whether an unresolvable request at site may resolve to
// an Absent binding.
func IsOptional(site binding.Site, mode OptionalMode) bool {
	hasDefault := site.Default != nil
	switch mode {
	case Disabled:
		return false
	case RequireExplicitMarker:
		return site.Optional && hasDefault
	default:
		if site.Accessor {
			return site.Optional && hasDefault
		}
		return hasDefault
	}
}
