// Package resolver turns one graph declaration into a validated
// BindingGraph.
//
// Resolution starts at the graph's roots (accessors, member injectors and
// exposed extension factories) and resolves every requested key to exactly
// one binding, depth first, memoized per key:
//
//  1. a binding already in the arena is reused;
//  2. otherwise a declared candidate is used, then (for extensions) an
//     ancestor's resolved binding, then an ancestor's declared candidate;
//  3. otherwise implicitBinding synthesizes a constructor, assisted-factory
//     or members-injector binding;
//  4. otherwise the site resolves Absent when optional, or is reported as a
//     MissingBinding with its request chain and a similarity hint.
//
// Cycles are judged after the walk: the strict subgraph (edges that are
// neither requested through Provider/Lazy nor into an implicitly deferrable
// binding) must be acyclic, and each strongly connected component of it is
// one CycleError. Provider bodies and default values are never evaluated.
package resolver
