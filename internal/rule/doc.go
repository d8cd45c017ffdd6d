// Package rule defines the declarative unit of change in the model: a
// mutator with exactly one subject reference, zero or more ordered input
// references, a mutation body, and a provenance descriptor naming the
// originating declaration site.
//
// A rule only ever mutates its subject; inputs are read-only. The engine
// guarantees a rule runs after all of its declared inputs are stable, so the
// mutation body may assume resolved inputs.
package rule
