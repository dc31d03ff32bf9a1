// Package app wires the engine into a runnable application: layered
// configuration, logging, one compilation per run (load, resolve, build
// plans, render) and the HTTP surface. It knows nothing about command-line
// parsing; internal/cli builds a Config and calls into it.
package app
