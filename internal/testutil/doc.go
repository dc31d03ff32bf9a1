// Package testutil provides shared helpers for tests that load HCL
// declarations and resolve graphs from them.
package testutil
