// Package container collects the candidate bindings of one graph from its
// binding containers. Containers participate at three precedence levels
// (contributed, included, dynamic); per key the highest level wins and
// several candidates at the winning level are a duplicate. Multibinding
// declarations are routed aside for the multibind package.
package container
