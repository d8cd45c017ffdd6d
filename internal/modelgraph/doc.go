// Package modelgraph owns the nodes of one configuration pass. It maps node
// names to nodes, creating a node the first time a rule declares it as a
// subject or input, and guarantees one node per name for the lifetime of the
// pass. The graph exclusively owns its nodes; it is discarded with the pass.
package modelgraph
