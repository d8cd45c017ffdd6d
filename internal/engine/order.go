package engine

import (
	"fmt"

	"github.com/specialistvlad/modelgridgo/internal/rule"
)

// orderRules produces an execution order in which every rule mutating a node
// runs before every rule that reads it. Ties are broken by declaration order.
// An error is returned when the mutate/read dependencies form a cycle.
func orderRules(rules []*rule.Rule) ([]*rule.Rule, error) {
	// Rules mutating a node, by node path, in declaration order.
	mutators := make(map[string][]int)
	for i, r := range rules {
		path := r.Subject().Path
		mutators[path] = append(mutators[path], i)
	}

	// deps[i] holds the indices of rules that must run before rule i.
	deps := make([][]int, len(rules))
	for i, r := range rules {
		for _, in := range r.Inputs() {
			deps[i] = append(deps[i], mutators[in.Path]...)
		}
	}

	// Depth-first walk with the classic three-state marking: permanent nodes
	// are fully ordered, temporary nodes are on the current recursion stack,
	// so revisiting one means a cycle.
	permanent := make([]bool, len(rules))
	temporary := make([]bool, len(rules))
	order := make([]*rule.Rule, 0, len(rules))

	var visit func(i int) error
	visit = func(i int) error {
		if permanent[i] {
			return nil
		}
		if temporary[i] {
			return fmt.Errorf("rule dependency cycle detected involving %q", rules[i].Descriptor())
		}
		temporary[i] = true
		for _, dep := range deps[i] {
			if err := visit(dep); err != nil {
				return err
			}
		}
		temporary[i] = false
		permanent[i] = true
		order = append(order, rules[i])
		return nil
	}

	for i := range rules {
		if err := visit(i); err != nil {
			return nil, err
		}
	}
	return order, nil
}
