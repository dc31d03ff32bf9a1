// Package binding defines the closed set of binding kinds the resolver can
// produce. A Binding is a single tagged struct; behavior that differs per
// kind is an exhaustive switch over Kind.
package binding
