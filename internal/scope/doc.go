// Package scope validates scope annotations and decides which request
// sites are optional under the configured optional-binding mode.
package scope
