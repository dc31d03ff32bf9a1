// Package multibind merges Set and Map contributions into multibinding
// bindings. Contributions keep container-then-declaration order; they are
// never sorted.
package multibind
