package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/modelgridgo/internal/modelgraph"
	"github.com/specialistvlad/modelgridgo/internal/node"
	"github.com/specialistvlad/modelgridgo/internal/objstore"
	"github.com/specialistvlad/modelgridgo/internal/projection"
	"github.com/specialistvlad/modelgridgo/internal/rule"
	"github.com/specialistvlad/modelgridgo/internal/typedesc"
	"github.com/specialistvlad/modelgridgo/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passFixture struct {
	graph *modelgraph.Graph
	pass  *Pass

	animal typedesc.Type
	dog    typedesc.Type
	cat    typedesc.Type
	fish   typedesc.Type

	pets *objstore.Store
}

// newPassFixture declares a "pets" container node of native item type Animal
// with creatable types {Dog, Cat}, plus a plain "settings" node.
func newPassFixture(t *testing.T) *passFixture {
	t.Helper()

	animalRaw := typedesc.NewRawType("Animal")
	f := &passFixture{
		graph:  modelgraph.New(),
		animal: typedesc.Of(animalRaw),
		dog:    typedesc.Of(animalRaw.Subtype("Dog")),
		cat:    typedesc.Of(animalRaw.Subtype("Cat")),
		fish:   typedesc.Of(typedesc.NewRawType("Fish")),
	}
	f.pass = NewPass(f.graph)

	f.pets = objstore.New(f.animal)
	for _, typ := range []typedesc.Type{f.dog, f.cat} {
		typ := typ
		f.pets.RegisterFactory(typ, func(name string) *objstore.Object {
			return objstore.NewObject(name, typ)
		})
	}

	_, err := f.graph.GetOrCreate("pets", f.animal,
		func(context.Context) (any, error) { return f.pets, nil },
		projection.NewContainer(f.pets, f.animal))
	require.NoError(t, err)

	settings := typedesc.Of(typedesc.NewRawType("Settings"))
	_, err = f.graph.GetOrCreate("settings", settings,
		func(context.Context) (any, error) { return map[string]string{"breed": "collie"}, nil })
	require.NoError(t, err)

	return f
}

func TestRunAppliesRules(t *testing.T) {
	f := newPassFixture(t)

	err := f.pass.AddRule(&rule.FuncMutator{
		SubjectRef: rule.Reference{Path: "pets", Type: view.BuilderOf(f.dog)},
		Desc:       "pets rule at build.hcl:3",
		Fn: func(ctx context.Context, _ *node.Node, v *view.View, _ []rule.Input) error {
			_, err := v.Builder().Create(ctx, "rex")
			return err
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.pass.Run(context.Background()))

	obj, ok := f.pets.Get("rex")
	require.True(t, ok)
	assert.True(t, obj.Type().Equals(f.dog))

	for _, r := range f.pass.Rules() {
		assert.Equal(t, rule.Applied, r.State())
		assert.NoError(t, r.Err())
	}
}

func TestRunOrdersMutatorsBeforeReaders(t *testing.T) {
	f := newPassFixture(t)
	var order []string

	// A second container node whose rule reads "pets".
	farm := objstore.New(f.animal)
	farm.RegisterFactory(f.dog, func(name string) *objstore.Object {
		return objstore.NewObject(name, f.dog)
	})
	_, err := f.graph.GetOrCreate("farm", f.animal,
		func(context.Context) (any, error) { return farm, nil },
		projection.NewContainer(farm, f.animal))
	require.NoError(t, err)

	// Declared first, but reads "pets", so it must run second.
	err = f.pass.AddRule(&rule.FuncMutator{
		SubjectRef: rule.Reference{Path: "farm", Type: view.BuilderOf(f.animal)},
		InputRefs:  []rule.Reference{{Path: "pets", Type: f.animal}},
		Desc:       "reader",
		Fn: func(_ context.Context, _ *node.Node, _ *view.View, inputs []rule.Input) error {
			order = append(order, "reader")
			// Inputs are stable: the mutating rule already ran.
			require.Len(t, inputs, 1)
			store, ok := inputs[0].Backing.(*objstore.Store)
			require.True(t, ok)
			_, ok = store.Get("rex")
			assert.True(t, ok)
			return nil
		},
	})
	require.NoError(t, err)

	err = f.pass.AddRule(&rule.FuncMutator{
		SubjectRef: rule.Reference{Path: "pets", Type: view.BuilderOf(f.dog)},
		Desc:       "mutator",
		Fn: func(ctx context.Context, _ *node.Node, v *view.View, _ []rule.Input) error {
			order = append(order, "mutator")
			_, err := v.Builder().Create(ctx, "rex")
			return err
		},
	})
	require.NoError(t, err)

	require.NoError(t, f.pass.Run(context.Background()))
	assert.Equal(t, []string{"mutator", "reader"}, order)
}

func TestRunFailsOnIncompatibleView(t *testing.T) {
	f := newPassFixture(t)

	err := f.pass.AddRule(&rule.FuncMutator{
		SubjectRef: rule.Reference{Path: "pets", Type: view.BuilderOf(f.fish)},
		Desc:       "fish rule at build.hcl:9",
	})
	require.NoError(t, err)

	err = f.pass.Run(context.Background())
	var viewErr *IncompatibleViewError
	require.ErrorAs(t, err, &viewErr)
	assert.Equal(t, "fish rule at build.hcl:9", viewErr.Descriptor)
	assert.Equal(t, "pets", viewErr.NodePath)
	assert.Equal(t, "Builder<Fish>", viewErr.Requested.String())
	assert.Equal(t, []string{"Builder<T>; where T is one of [Cat, Dog]"}, viewErr.WritableDesc)

	assert.ErrorContains(t, err, "fish rule at build.hcl:9")
	assert.ErrorContains(t, err, "Builder<T>; where T is one of [Cat, Dog]")

	// The failing rule still reaches its terminal state.
	assert.Equal(t, rule.Applied, f.pass.Rules()[0].State())
}

func TestRunAbortsOnFirstFailure(t *testing.T) {
	f := newPassFixture(t)
	wantErr := errors.New("mutation exploded")

	err := f.pass.AddRule(&rule.FuncMutator{
		SubjectRef: rule.Reference{Path: "pets", Type: view.BuilderOf(f.animal)},
		Desc:       "failing rule",
		Fn: func(context.Context, *node.Node, *view.View, []rule.Input) error {
			return wantErr
		},
	})
	require.NoError(t, err)

	err = f.pass.AddRule(&rule.FuncMutator{
		SubjectRef: rule.Reference{Path: "pets", Type: view.BuilderOf(f.animal)},
		InputRefs:  []rule.Reference{{Path: "settings", Type: typedesc.Of(typedesc.NewRawType("Settings"))}},
		Desc:       "never runs",
		Fn: func(context.Context, *node.Node, *view.View, []rule.Input) error {
			t.Fatal("rule ran after the pass should have aborted")
			return nil
		},
	})
	require.NoError(t, err)

	err = f.pass.Run(context.Background())
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.Equal(t, "failing rule", ruleErr.Descriptor)
	assert.ErrorIs(t, err, wantErr)

	assert.Equal(t, rule.Applied, f.pass.Rules()[0].State())
	assert.Equal(t, rule.Declared, f.pass.Rules()[1].State())
}

func TestRunRejectsUnknownSubject(t *testing.T) {
	f := newPassFixture(t)

	err := f.pass.AddRule(&rule.FuncMutator{
		SubjectRef: rule.Reference{Path: "ghosts", Type: view.BuilderOf(f.animal)},
		Desc:       "ghost rule",
	})
	require.NoError(t, err)

	err = f.pass.Run(context.Background())
	var ruleErr *RuleError
	require.ErrorAs(t, err, &ruleErr)
	assert.ErrorContains(t, err, `subject node "ghosts" is not declared`)
}

func TestAddRuleRejectsSubjectAsInput(t *testing.T) {
	f := newPassFixture(t)

	err := f.pass.AddRule(&rule.FuncMutator{
		SubjectRef: rule.Reference{Path: "pets", Type: view.BuilderOf(f.animal)},
		InputRefs:  []rule.Reference{{Path: "pets", Type: f.animal}},
		Desc:       "self-reading rule",
	})
	assert.ErrorContains(t, err, "declares its own subject")
}

func TestRunDetectsRuleCycle(t *testing.T) {
	f := newPassFixture(t)

	// A second container node so two rules can read each other's subjects.
	farm := objstore.New(f.animal)
	_, err := f.graph.GetOrCreate("farm", f.animal,
		func(context.Context) (any, error) { return farm, nil },
		projection.NewContainer(farm, f.animal))
	require.NoError(t, err)

	err = f.pass.AddRule(&rule.FuncMutator{
		SubjectRef: rule.Reference{Path: "pets", Type: view.BuilderOf(f.animal)},
		InputRefs:  []rule.Reference{{Path: "farm", Type: f.animal}},
		Desc:       "pets from farm",
	})
	require.NoError(t, err)

	err = f.pass.AddRule(&rule.FuncMutator{
		SubjectRef: rule.Reference{Path: "farm", Type: view.BuilderOf(f.animal)},
		InputRefs:  []rule.Reference{{Path: "pets", Type: f.animal}},
		Desc:       "farm from pets",
	})
	require.NoError(t, err)

	err = f.pass.Run(context.Background())
	assert.ErrorContains(t, err, "cycle detected")
}
