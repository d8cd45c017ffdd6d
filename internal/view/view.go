package view

import (
	"context"
	"fmt"

	"github.com/specialistvlad/modelgridgo/internal/ctxlog"
	"github.com/specialistvlad/modelgridgo/internal/objstore"
	"github.com/specialistvlad/modelgridgo/internal/typedesc"
)

// BuilderType is the canonical raw type of every writable container view.
// A projection accepts a requested view type only when its raw type is this
// exact declaration.
var BuilderType = typedesc.NewGenericRawType("Builder", "T")

// BuilderOf returns the reified Builder<item> descriptor.
func BuilderOf(item typedesc.Type) typedesc.Type {
	return typedesc.Parameterized(BuilderType, item)
}

// TypeMismatchError reports a creation request for a type outside a builder's
// bound effective type. It is raised before the underlying store is asked to
// do anything.
type TypeMismatchError struct {
	Requested  typedesc.Type
	Bound      typedesc.Type
	Descriptor string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("%s: cannot create an object of type %s: not a subtype of the builder's bound type %s",
		e.Descriptor, e.Requested, e.Bound)
}

// Instantiator binds one resolved effective type to one backing container.
// It is constructed fresh for every successful view resolution.
type Instantiator struct {
	defaultType typedesc.Type
	container   objstore.Container
}

// NewInstantiator creates an instantiator bound to the given effective type
// and container.
func NewInstantiator(defaultType typedesc.Type, container objstore.Container) *Instantiator {
	return &Instantiator{defaultType: defaultType, container: container}
}

// Type returns the bound effective type used for default creation.
func (i *Instantiator) Type() typedesc.Type {
	return i.defaultType
}

// Create creates an object of the bound effective type under name. Store
// errors are returned unchanged.
func (i *Instantiator) Create(ctx context.Context, name string) (*objstore.Object, error) {
	return i.container.CreateTyped(ctx, name, i.defaultType)
}

// CreateTyped creates an object of an explicit type under name. The caller is
// responsible for having checked the type against the bound effective type.
func (i *Instantiator) CreateTyped(ctx context.Context, name string, typ typedesc.Type) (*objstore.Object, error) {
	return i.container.CreateTyped(ctx, name, typ)
}

// Builder is the creation surface handed to a rule. Default creation uses the
// instantiator's bound effective type; explicit creation accepts any subtype
// of it.
type Builder struct {
	instantiator *Instantiator
	descriptor   string
}

// NewBuilder wraps an instantiator for the rule identified by descriptor.
func NewBuilder(instantiator *Instantiator, descriptor string) *Builder {
	return &Builder{instantiator: instantiator, descriptor: descriptor}
}

// ItemType returns the effective type new objects are created with by default.
func (b *Builder) ItemType() typedesc.Type {
	return b.instantiator.Type()
}

// Create creates an object of the builder's effective type under name.
func (b *Builder) Create(ctx context.Context, name string) (*objstore.Object, error) {
	ctxlog.FromContext(ctx).Debug("Builder creating object.",
		"name", name, "type", b.instantiator.Type().String(), "rule", b.descriptor)
	return b.instantiator.Create(ctx, name)
}

// CreateTyped creates an object of an explicit subtype under name. The
// subtype is checked against the builder's bound effective type first, so an
// out-of-bound request never reaches the store.
func (b *Builder) CreateTyped(ctx context.Context, name string, subtype typedesc.Type) (*objstore.Object, error) {
	if !b.instantiator.Type().AssignableFrom(subtype) {
		return nil, &TypeMismatchError{
			Requested:  subtype,
			Bound:      b.instantiator.Type(),
			Descriptor: b.descriptor,
		}
	}
	ctxlog.FromContext(ctx).Debug("Builder creating object with explicit subtype.",
		"name", name, "type", subtype.String(), "rule", b.descriptor)
	return b.instantiator.CreateTyped(ctx, name, subtype)
}

// View is the result of a successful writable projection. Its type descriptor
// is synthesized at resolution time and reflects the actually bound effective
// type, which may be narrower than what the caller requested.
type View struct {
	typ        typedesc.Type
	builder    *Builder
	descriptor string
}

// New creates a view over builder with the reified Builder<effective> type.
func New(typ typedesc.Type, builder *Builder, descriptor string) *View {
	return &View{typ: typ, builder: builder, descriptor: descriptor}
}

// Type returns the reified view type, e.g. Builder<Dog>.
func (v *View) Type() typedesc.Type {
	return v.typ
}

// Builder returns the creation surface bound to the resolved effective type.
func (v *View) Builder() *Builder {
	return v.builder
}

// Descriptor returns the provenance descriptor of the rule the view was
// resolved for.
func (v *View) Descriptor() string {
	return v.descriptor
}
