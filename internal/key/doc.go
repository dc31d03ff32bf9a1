/*
Package key provides the identity model used throughout resolution.

A Key is the immutable identity of a provided or requested value: its
canonical type expression plus an optional qualifier. A ContextualKey is a
Key as seen from one request site, carrying how the value is wrapped
(direct, Provider, Lazy, Provider of Lazy) and, for collections, how the
collection's values are wrapped.

Type expressions are written the way declarations spell them, e.g.
`Provider<Lazy<Repository>>` or `Map<String, Provider<Handler>>`. The parser
canonicalises them and lifts every framework wrapper off the underlying Key,
so all request shapes of one value share a single Key.
*/
package key
