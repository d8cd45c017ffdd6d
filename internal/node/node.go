// Package node defines the model graph's vertices: named, lazily-populated
// slots that rules mutate through projections. The Projection contract lives
// here because a node owns its projections; concrete projection
// implementations live in the projection package.
package node

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/specialistvlad/modelgridgo/internal/typedesc"
	"github.com/specialistvlad/modelgridgo/internal/view"
)

// Projection decides whether and how a node can be observed as a requested
// generic type, and produces the corresponding view.
type Projection interface {
	// CanBeViewedAsWritable reports whether a writable view of the requested
	// type can be produced for the node.
	CanBeViewedAsWritable(requested typedesc.Type) bool

	// CanBeViewedAsReadOnly reports whether a read-only view of the requested
	// type can be produced for the node.
	CanBeViewedAsReadOnly(requested typedesc.Type) bool

	// AsWritable produces a writable view of the requested type for the rule
	// identified by descriptor. It returns nil, not an error, when the
	// request is incompatible; callers diagnose via the description methods.
	AsWritable(ctx context.Context, requested typedesc.Type, descriptor string, n *Node) *view.View

	// AsReadOnly produces a read-only view of the requested type, or nil.
	AsReadOnly(requested typedesc.Type, n *Node) *view.View

	// WritableTypeDescriptions returns human-readable summaries of every
	// legal writable view, for diagnostics only.
	WritableTypeDescriptions() []string

	// ReadableTypeDescriptions returns human-readable summaries of every
	// legal read-only view, for diagnostics only.
	ReadableTypeDescriptions() []string
}

// State is the lifecycle state of a node within one configuration pass.
type State int32

const (
	// Registered indicates the node exists but its backing object has not
	// been created yet.
	Registered State = iota
	// Stable indicates the backing object has been created; the node may now
	// serve as a rule input.
	Stable
)

// Node is a named slot in the model graph. Its backing object is created on
// first access and at most once per configuration pass; every projection
// attached to the node observes that same backing object.
type Node struct {
	name        string
	expected    typedesc.Type
	projections []Projection
	create      func(ctx context.Context) (any, error)

	once      sync.Once
	backing   any
	createErr error
	state     atomic.Int32
}

// New creates a node. The create function is invoked once, on first call to
// Backing, to produce the backing object shared by all projections.
func New(name string, expected typedesc.Type, create func(ctx context.Context) (any, error), projections ...Projection) *Node {
	return &Node{
		name:        name,
		expected:    expected,
		projections: projections,
		create:      create,
	}
}

// Name returns the node's identity in the graph.
func (n *Node) Name() string {
	return n.name
}

// ExpectedType returns the type the node was declared with.
func (n *Node) ExpectedType() typedesc.Type {
	return n.expected
}

// Projections returns the projections attached to the node.
func (n *Node) Projections() []Projection {
	return n.projections
}

// State returns the node's lifecycle state.
func (n *Node) State() State {
	return State(n.state.Load())
}

// Backing resolves the node's backing object, creating it on first access.
// Subsequent calls return the same object (or the same creation error).
func (n *Node) Backing(ctx context.Context) (any, error) {
	n.once.Do(func() {
		n.backing, n.createErr = n.create(ctx)
		if n.createErr == nil {
			n.state.Store(int32(Stable))
		}
	})
	return n.backing, n.createErr
}

// AsWritable asks each attached projection, in order, for a writable view of
// the requested type. It returns the first view produced, or nil when no
// projection can satisfy the request.
func (n *Node) AsWritable(ctx context.Context, requested typedesc.Type, descriptor string) *view.View {
	for _, p := range n.projections {
		if v := p.AsWritable(ctx, requested, descriptor, n); v != nil {
			return v
		}
	}
	return nil
}

// CanBeViewedAsWritable reports whether any attached projection accepts the
// requested writable view type.
func (n *Node) CanBeViewedAsWritable(requested typedesc.Type) bool {
	for _, p := range n.projections {
		if p.CanBeViewedAsWritable(requested) {
			return true
		}
	}
	return false
}

// WritableTypeDescriptions aggregates the legal writable view descriptions of
// every attached projection, for diagnostics.
func (n *Node) WritableTypeDescriptions() []string {
	var out []string
	for _, p := range n.projections {
		out = append(out, p.WritableTypeDescriptions()...)
	}
	return out
}
