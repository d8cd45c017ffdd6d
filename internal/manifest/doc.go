// Package manifest loads the declarative HCL description of a model: the
// domain type hierarchy (`model_type` blocks, with optional parent, abstract
// marker and typed attributes) and the container nodes over those types
// (`container` blocks naming a native item type and the creatable subtypes).
//
// Loading is two-phase: all blocks from all files are collected first, then
// parents, attribute types and container item types are resolved, so
// declarations may reference each other across files in any order. The loaded
// model can then be materialized into a model graph with container stores,
// attribute-seeding factories and projections attached.
package manifest
