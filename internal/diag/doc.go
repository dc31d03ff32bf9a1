// Package diag accumulates structured resolution diagnostics with source
// ranges and hints, capped per code, and renders them through the HCL
// diagnostic writer.
package diag
