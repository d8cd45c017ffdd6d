package engine

import (
	"context"
	"fmt"

	"github.com/specialistvlad/modelgridgo/internal/ctxlog"
	"github.com/specialistvlad/modelgridgo/internal/modelgraph"
	"github.com/specialistvlad/modelgridgo/internal/rule"
)

// Pass executes a set of rules against a model graph in one single-threaded
// configuration pass.
type Pass struct {
	graph *modelgraph.Graph
	rules []*rule.Rule
}

// NewPass creates a pass over the given graph with no rules registered.
func NewPass(graph *modelgraph.Graph) *Pass {
	return &Pass{graph: graph}
}

// Graph returns the graph the pass runs against.
func (p *Pass) Graph() *modelgraph.Graph {
	return p.graph
}

// AddRule registers a mutator. A rule may not declare its own subject as an
// input: rules mutate their subject only, never their inputs.
func (p *Pass) AddRule(m rule.Mutator) error {
	subject := m.Subject().Path
	for _, in := range m.Inputs() {
		if in.Path == subject {
			return fmt.Errorf("%s: rule declares its own subject %q as an input", m.Descriptor(), subject)
		}
	}
	p.rules = append(p.rules, rule.New(m))
	return nil
}

// Rules returns the registered rules in declaration order.
func (p *Pass) Rules() []*rule.Rule {
	return p.rules
}

// Run executes all registered rules in dependency order. The first fatal
// rule failure aborts the pass; already-applied mutations are not rolled
// back.
func (p *Pass) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	ordered, err := orderRules(p.rules)
	if err != nil {
		return err
	}
	logger.Debug("Configuration pass starting.", "rules", len(ordered))

	for _, r := range ordered {
		if err := p.runRule(ctx, r); err != nil {
			logger.Debug("Configuration pass aborted.", "rule", r.Descriptor(), "error", err)
			return err
		}
	}

	logger.Debug("Configuration pass finished.", "rules", len(ordered))
	return nil
}

// runRule drives one rule through its declared, running, applied lifecycle.
// Any error is terminal for the rule and carries its descriptor.
func (p *Pass) runRule(ctx context.Context, r *rule.Rule) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Running rule.", "rule", r.Descriptor(), "subject", r.Subject().Path)

	r.Start()
	err := p.mutate(ctx, r)
	r.Finish(err)
	return err
}

// mutate resolves the rule's subject and inputs, obtains the writable view,
// and invokes the mutation body.
func (p *Pass) mutate(ctx context.Context, r *rule.Rule) error {
	subjectRef := r.Subject()
	subject, ok := p.graph.Get(subjectRef.Path)
	if !ok {
		return &RuleError{
			Descriptor: r.Descriptor(),
			Err:        fmt.Errorf("subject node %q is not declared in the model", subjectRef.Path),
		}
	}

	// The subject's backing object must exist before a view over it is
	// resolved; all projections then share it.
	if _, err := subject.Backing(ctx); err != nil {
		return &RuleError{
			Descriptor: r.Descriptor(),
			Err:        fmt.Errorf("creating backing object for node %q: %w", subjectRef.Path, err),
		}
	}

	inputs, err := p.resolveInputs(ctx, r)
	if err != nil {
		return &RuleError{Descriptor: r.Descriptor(), Err: err}
	}

	v := subject.AsWritable(ctx, subjectRef.Type, r.Descriptor())
	if v == nil {
		return &IncompatibleViewError{
			Descriptor:   r.Descriptor(),
			NodePath:     subjectRef.Path,
			Requested:    subjectRef.Type,
			WritableDesc: subject.WritableTypeDescriptions(),
		}
	}

	if err := r.Mutate(ctx, subject, v, inputs); err != nil {
		return &RuleError{Descriptor: r.Descriptor(), Err: err}
	}
	return nil
}

// resolveInputs resolves the backing object of every declared input, in
// declaration order. The rule ordering guarantees the mutating rules for
// these nodes have already run.
func (p *Pass) resolveInputs(ctx context.Context, r *rule.Rule) ([]rule.Input, error) {
	refs := r.Inputs()
	inputs := make([]rule.Input, 0, len(refs))
	for _, ref := range refs {
		n, ok := p.graph.Get(ref.Path)
		if !ok {
			return nil, fmt.Errorf("input node %q is not declared in the model", ref.Path)
		}
		backing, err := n.Backing(ctx)
		if err != nil {
			return nil, fmt.Errorf("creating backing object for input node %q: %w", ref.Path, err)
		}
		inputs = append(inputs, rule.Input{Node: n, Backing: backing})
	}
	return inputs, nil
}
