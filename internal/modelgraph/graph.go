package modelgraph

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/specialistvlad/modelgridgo/internal/node"
	"github.com/specialistvlad/modelgridgo/internal/typedesc"
)

// Graph is the registry of model nodes for a single configuration pass.
type Graph struct {
	mu    sync.RWMutex
	nodes map[string]*node.Node
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{nodes: make(map[string]*node.Node)}
}

// Get returns the node registered under name, if any.
func (g *Graph) Get(name string) (*node.Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[name]
	return n, ok
}

// GetOrCreate returns the node registered under name, creating it with the
// given creator and projections when absent. When the node already exists its
// declared type must be compatible (one assignable from the other) with the
// expected type; otherwise an error is returned.
func (g *Graph) GetOrCreate(name string, expected typedesc.Type, create func(ctx context.Context) (any, error), projections ...node.Projection) (*node.Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if existing, ok := g.nodes[name]; ok {
		declared := existing.ExpectedType()
		if !declared.AssignableFrom(expected) && !expected.AssignableFrom(declared) {
			return nil, fmt.Errorf("node %q is declared with type %s, which is incompatible with the expected type %s",
				name, declared, expected)
		}
		return existing, nil
	}

	n := node.New(name, expected, create, projections...)
	g.nodes[name] = n
	return n, nil
}

// Names returns the names of all registered nodes, sorted.
func (g *Graph) Names() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
