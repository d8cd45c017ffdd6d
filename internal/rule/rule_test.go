package rule

import (
	"context"
	"errors"
	"testing"

	"github.com/specialistvlad/modelgridgo/internal/node"
	"github.com/specialistvlad/modelgridgo/internal/typedesc"
	"github.com/specialistvlad/modelgridgo/internal/view"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRule(fn func(ctx context.Context, subject *node.Node, v *view.View, inputs []Input) error) *Rule {
	animal := typedesc.Of(typedesc.NewRawType("Animal"))
	return New(&FuncMutator{
		SubjectRef: Reference{Path: "pets", Type: view.BuilderOf(animal)},
		InputRefs:  []Reference{{Path: "config", Type: animal}},
		Desc:       "model.pets rule defined at build.hcl:12",
		Fn:         fn,
	})
}

func TestStateMachine(t *testing.T) {
	r := newTestRule(nil)
	assert.Equal(t, Declared, r.State())

	r.Start()
	assert.Equal(t, Running, r.State())

	r.Finish(nil)
	assert.Equal(t, Applied, r.State())
	assert.NoError(t, r.Err())
}

func TestFailureIsRecorded(t *testing.T) {
	r := newTestRule(nil)
	wantErr := errors.New("mutation failed")

	r.Start()
	r.Finish(wantErr)

	assert.Equal(t, Applied, r.State())
	assert.ErrorIs(t, r.Err(), wantErr)
}

func TestNoTransitionOutOfApplied(t *testing.T) {
	r := newTestRule(nil)
	r.Start()
	r.Finish(nil)

	assert.Panics(t, func() { r.Start() })
	assert.Panics(t, func() { r.Finish(nil) })
}

func TestStartRequiresDeclared(t *testing.T) {
	r := newTestRule(nil)
	r.Start()
	assert.Panics(t, func() { r.Start() })
}

func TestFinishRequiresRunning(t *testing.T) {
	r := newTestRule(nil)
	assert.Panics(t, func() { r.Finish(nil) })
}

func TestFuncMutator(t *testing.T) {
	called := false
	r := newTestRule(func(ctx context.Context, subject *node.Node, v *view.View, inputs []Input) error {
		called = true
		assert.Len(t, inputs, 1)
		return nil
	})

	assert.Equal(t, "pets", r.Subject().Path)
	assert.Equal(t, "Builder<Animal>", r.Subject().Type.String())
	require.Len(t, r.Inputs(), 1)
	assert.Equal(t, "config", r.Inputs()[0].Path)
	assert.Equal(t, "model.pets rule defined at build.hcl:12", r.Descriptor())

	err := r.Mutate(context.Background(), nil, nil, []Input{{}})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestNilFnMutatesToNoop(t *testing.T) {
	r := newTestRule(nil)
	assert.NoError(t, r.Mutate(context.Background(), nil, nil, nil))
}
