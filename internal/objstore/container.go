package objstore

import (
	"context"
	"sync"

	"github.com/specialistvlad/modelgridgo/internal/typedesc"
	"github.com/zclconf/go-cty/cty"
)

// Object is a single named entry in a container. Its attributes are mutable
// cty values; its name and type are fixed at creation.
type Object struct {
	name string
	typ  typedesc.Type

	mu    sync.Mutex
	attrs map[string]cty.Value
}

// NewObject constructs an object of the given type with no attributes set.
func NewObject(name string, typ typedesc.Type) *Object {
	return &Object{
		name:  name,
		typ:   typ,
		attrs: make(map[string]cty.Value),
	}
}

// Name returns the name the object was created under.
func (o *Object) Name() string {
	return o.name
}

// Type returns the concrete type the object was created with.
func (o *Object) Type() typedesc.Type {
	return o.typ
}

// SetAttr sets a named attribute value on the object.
func (o *Object) SetAttr(name string, v cty.Value) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.attrs[name] = v
}

// Attr returns the named attribute value and whether it is set.
func (o *Object) Attr(name string) (cty.Value, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	v, ok := o.attrs[name]
	return v, ok
}

// AttrNames returns the names of all set attributes, in no particular order.
func (o *Object) AttrNames() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	names := make([]string, 0, len(o.attrs))
	for name := range o.attrs {
		names = append(names, name)
	}
	return names
}

// Factory constructs the backing object for one creatable type. The returned
// object's type must be the type the factory was registered for.
type Factory func(name string) *Object

// Container is the capability set the model core consumes from a named-object
// store. Implementations own type and name validation; their errors are
// propagated unchanged by everything above them.
type Container interface {
	// ItemType returns the store's native item type.
	ItemType() typedesc.Type

	// CreateableTypes returns the types this store can create, in
	// registration order.
	CreateableTypes() []typedesc.Type

	// Create creates an object of the store's default type under name.
	Create(ctx context.Context, name string) (*Object, error)

	// CreateTyped creates an object of an explicit creatable type under name.
	CreateTyped(ctx context.Context, name string, typ typedesc.Type) (*Object, error)

	// Get returns the object registered under name, if any.
	Get(name string) (*Object, bool)

	// Names returns the names of all objects created so far, in no
	// particular order.
	Names() []string
}
