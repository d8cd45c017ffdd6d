package projection

import (
	"context"
	"sort"
	"strings"

	"github.com/specialistvlad/modelgridgo/internal/ctxlog"
	"github.com/specialistvlad/modelgridgo/internal/node"
	"github.com/specialistvlad/modelgridgo/internal/objstore"
	"github.com/specialistvlad/modelgridgo/internal/typedesc"
	"github.com/specialistvlad/modelgridgo/internal/view"
)

// compatibility classifies a requested item type against a container's native
// item type.
type compatibility int

const (
	// incompatible: the requested type is neither a supertype nor a subtype
	// of the native item type.
	incompatible compatibility = iota
	// asNative: the requested type is the native item type or a supertype of
	// it; the effective type is the native item type.
	asNative
	// narrowed: the requested type is a strict subtype of the native item
	// type; the effective type is the requested type.
	narrowed
)

// resolveItemType is the variance decision for one view request. Both the
// compatibility predicate and the view producer go through it, so the two can
// never diverge.
func resolveItemType(itemType, requested typedesc.Type) (typedesc.Type, compatibility) {
	// Equality lands in the first branch: same-type requests resolve as the
	// supertype case.
	if requested.AssignableFrom(itemType) {
		return itemType, asNative
	}
	if itemType.AssignableFrom(requested) {
		return requested, narrowed
	}
	return typedesc.Type{}, incompatible
}

// ContainerProjection makes a container node viewable as Builder<T>. It is
// stateless beyond the container reference and the container's native item
// type; every request is resolved from scratch.
type ContainerProjection struct {
	container objstore.Container
	itemType  typedesc.Type
}

// NewContainer creates a projection over container with the given native item
// type.
func NewContainer(container objstore.Container, itemType typedesc.Type) *ContainerProjection {
	return &ContainerProjection{container: container, itemType: itemType}
}

// requestedItemType extracts the sole type parameter of a Builder<T> request.
// It reports false for any other raw type.
func requestedItemType(requested typedesc.Type) (typedesc.Type, bool) {
	if requested.RawType() != view.BuilderType {
		return typedesc.Type{}, false
	}
	params := requested.TypeVariables()
	if len(params) != 1 {
		return typedesc.Type{}, false
	}
	return params[0], true
}

// CanBeViewedAsWritable reports whether the node can be viewed as the
// requested type: the raw type must be Builder and its item type must be a
// supertype or subtype of the container's native item type.
func (p *ContainerProjection) CanBeViewedAsWritable(requested typedesc.Type) bool {
	target, ok := requestedItemType(requested)
	if !ok {
		return false
	}
	_, compat := resolveItemType(p.itemType, target)
	return compat != incompatible
}

// CanBeViewedAsReadOnly always reports false: this projection has no
// read-only shape.
func (p *ContainerProjection) CanBeViewedAsReadOnly(typedesc.Type) bool {
	return false
}

// AsWritable resolves the requested view. The compatibility predicate is
// re-checked here, never assumed. On success the returned view wraps a fresh
// instantiator bound to the resolved effective type, and carries a
// synthesized Builder<effectiveType> descriptor: the effective type is only
// known at resolution time, so the view must reflect the actually bound type,
// not the caller's possibly-broader request. Returns nil when the request is
// incompatible.
func (p *ContainerProjection) AsWritable(ctx context.Context, requested typedesc.Type, descriptor string, n *node.Node) *view.View {
	target, ok := requestedItemType(requested)
	if !ok {
		return nil
	}
	effective, compat := resolveItemType(p.itemType, target)
	if compat == incompatible {
		return nil
	}

	ctxlog.FromContext(ctx).Debug("Resolved writable container view.",
		"node", n.Name(),
		"requested", requested.String(),
		"effective", effective.String(),
		"narrowed", compat == narrowed,
		"rule", descriptor)

	instantiator := view.NewInstantiator(effective, p.container)
	builder := view.NewBuilder(instantiator, descriptor)
	return view.New(view.BuilderOf(effective), builder, descriptor)
}

// AsReadOnly always returns nil.
func (p *ContainerProjection) AsReadOnly(typedesc.Type, *node.Node) *view.View {
	return nil
}

// WritableTypeDescriptions returns one entry summarizing the legal builder
// views over this container's creatable types.
func (p *ContainerProjection) WritableTypeDescriptions() []string {
	return []string{builderTypeDescription(p.container.CreateableTypes())}
}

// ReadableTypeDescriptions always returns an empty sequence.
func (p *ContainerProjection) ReadableTypeDescriptions() []string {
	return nil
}

// builderTypeDescription renders the builder view shape for a set of
// creatable types: the single type inline when there is exactly one,
// otherwise an enumerated, lexicographically sorted list.
func builderTypeDescription(creatable []typedesc.Type) string {
	if len(creatable) == 1 {
		return view.BuilderOf(creatable[0]).String()
	}
	names := make([]string, len(creatable))
	for i, t := range creatable {
		names[i] = t.String()
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(view.BuilderType.Name())
	sb.WriteString("<T>; where T is one of [")
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString("]")
	return sb.String()
}
