// Package engine runs one configuration pass over the model graph.
//
// Rules are registered with a subject reference, ordered input references,
// and a mutation body. The engine orders rules so that any rule mutating a
// node runs before any rule reading that node, detects cycles in those
// dependencies, and then executes the rules one at a time: resolve the
// subject node, obtain a writable view of the rule's declared subject type
// through the node's projections, resolve the inputs' backing objects, and
// invoke the mutation body.
//
// Failure handling is all-or-nothing: the first fatal rule failure aborts the
// pass with the rule's descriptor attached. Nothing is retried and nothing is
// rolled back.
package engine
