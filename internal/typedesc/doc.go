// Package typedesc implements reified type descriptors for the model graph.
//
// The model core never relies on Go's own generics to decide whether a view
// request is legal. Instead every generic handle carries an explicit Type
// value: a raw type plus an ordered list of type parameters. Raw types form a
// declared single-inheritance hierarchy, so subtype and supertype queries are
// plain data lookups rather than reflection.
//
// Type values are immutable and compared structurally: two Types are equal
// iff their raw types and all parameters are equal.
package typedesc
