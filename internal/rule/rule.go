package rule

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/specialistvlad/modelgridgo/internal/node"
	"github.com/specialistvlad/modelgridgo/internal/typedesc"
	"github.com/specialistvlad/modelgridgo/internal/view"
)

// Reference names a node in the graph together with the type the rule wants
// to observe it as.
type Reference struct {
	// Path is the node's name in the graph.
	Path string
	// Type is the requested view type for a subject reference, or the
	// expected backing type for an input reference.
	Type typedesc.Type
}

// Input is one resolved input handed to a mutation body: the node plus its
// stable backing object.
type Input struct {
	Node    *node.Node
	Backing any
}

// Mutator is the behavior of a rule: which node it mutates, which nodes it
// reads, and the mutation itself.
type Mutator interface {
	// Subject returns the single node reference this rule mutates.
	Subject() Reference

	// Inputs returns the ordered node references this rule reads.
	Inputs() []Reference

	// Mutate applies the rule's change through the resolved view. The inputs
	// slice matches the order of Inputs and is already stable.
	Mutate(ctx context.Context, subject *node.Node, v *view.View, inputs []Input) error

	// Descriptor returns the textual provenance of the rule's declaration,
	// attached to every failure it causes.
	Descriptor() string
}

// FuncMutator bundles a mutator from plain values and a function, in the
// style the engine's registration API expects.
type FuncMutator struct {
	SubjectRef Reference
	InputRefs  []Reference
	Desc       string
	Fn         func(ctx context.Context, subject *node.Node, v *view.View, inputs []Input) error
}

func (m *FuncMutator) Subject() Reference { return m.SubjectRef }

func (m *FuncMutator) Inputs() []Reference { return m.InputRefs }

func (m *FuncMutator) Mutate(ctx context.Context, subject *node.Node, v *view.View, inputs []Input) error {
	if m.Fn == nil {
		return nil
	}
	return m.Fn(ctx, subject, v, inputs)
}

func (m *FuncMutator) Descriptor() string { return m.Desc }

// State is the lifecycle state of a rule within one configuration pass.
type State int32

const (
	// Declared: subject and inputs recorded, not yet run.
	Declared State = iota
	// Running: resolving nodes, obtaining views, executing the mutation body.
	Running
	// Applied: terminal; the mutation completed or failed.
	Applied
)

func (s State) String() string {
	switch s {
	case Declared:
		return "declared"
	case Running:
		return "running"
	case Applied:
		return "applied"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Rule wraps a Mutator with its execution state. The engine owns the
// transitions; there is no way back out of Applied.
type Rule struct {
	Mutator
	state atomic.Int32
	err   error
}

// New wraps a mutator in its declared state.
func New(m Mutator) *Rule {
	return &Rule{Mutator: m}
}

// State returns the rule's current lifecycle state.
func (r *Rule) State() State {
	return State(r.state.Load())
}

// Start transitions declared to running. It panics on any other transition;
// the engine runs each rule exactly once.
func (r *Rule) Start() {
	if !r.state.CompareAndSwap(int32(Declared), int32(Running)) {
		panic(fmt.Sprintf("rule %q: cannot start from state %s", r.Descriptor(), r.State()))
	}
}

// Finish transitions running to the terminal applied state, recording the
// mutation's outcome.
func (r *Rule) Finish(err error) {
	if !r.state.CompareAndSwap(int32(Running), int32(Applied)) {
		panic(fmt.Sprintf("rule %q: cannot finish from state %s", r.Descriptor(), r.State()))
	}
	r.err = err
}

// Err returns the failure recorded when the rule was applied, if any.
func (r *Rule) Err() error {
	return r.err
}
