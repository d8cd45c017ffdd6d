package typedesc

import (
	"fmt"
	"strings"
)

// RawType is a named, possibly generic type in the model's type universe.
// Raw types are identity-based: two declarations with the same name are
// distinct types. A raw type may declare at most one parent (supertype).
type RawType struct {
	name     string
	typeVars []string
	parent   *RawType
}

// NewRawType declares a new non-generic root type.
func NewRawType(name string) *RawType {
	return &RawType{name: name}
}

// NewGenericRawType declares a new root type with the given ordered type
// variable names (e.g. "T").
func NewGenericRawType(name string, typeVars ...string) *RawType {
	return &RawType{name: name, typeVars: typeVars}
}

// Subtype declares a new type whose parent is the receiver. The subtype
// inherits the receiver's arity.
func (r *RawType) Subtype(name string) *RawType {
	return &RawType{name: name, typeVars: r.typeVars, parent: r}
}

// Name returns the declared name of the raw type.
func (r *RawType) Name() string {
	return r.name
}

// Arity returns the number of declared type variables.
func (r *RawType) Arity() int {
	return len(r.typeVars)
}

// Parent returns the declared supertype, or nil for a root type.
func (r *RawType) Parent() *RawType {
	return r.parent
}

// AssignableFrom reports whether a value of raw type other can be used where
// the receiver is expected, i.e. other is the receiver or a declared
// descendant of it.
func (r *RawType) AssignableFrom(other *RawType) bool {
	for t := other; t != nil; t = t.parent {
		if t == r {
			return true
		}
	}
	return false
}

// Type is an immutable descriptor for a (possibly parameterized) type: a raw
// type plus an ordered list of parameter Types. The zero Type is invalid and
// must not be used.
type Type struct {
	raw    *RawType
	params []Type
}

// Of constructs a descriptor for a non-parameterized use of raw.
// It panics if raw declares type variables; parameters must then be supplied
// via Parameterized.
func Of(raw *RawType) Type {
	if raw == nil {
		panic("typedesc: nil raw type")
	}
	if raw.Arity() != 0 {
		panic(fmt.Sprintf("typedesc: type %s declares %d type variables, use Parameterized", raw.name, raw.Arity()))
	}
	return Type{raw: raw}
}

// Parameterized constructs a descriptor for raw bound to the given ordered
// parameters. It panics if the parameter count does not match the raw type's
// declared arity; that is a programming error, not a recoverable condition.
func Parameterized(raw *RawType, params ...Type) Type {
	if raw == nil {
		panic("typedesc: nil raw type")
	}
	if len(params) != raw.Arity() {
		panic(fmt.Sprintf("typedesc: type %s declares %d type variables, got %d parameters", raw.name, raw.Arity(), len(params)))
	}
	bound := make([]Type, len(params))
	copy(bound, params)
	return Type{raw: raw, params: bound}
}

// RawType returns the erased type of the descriptor.
func (t Type) RawType() *RawType {
	return t.raw
}

// TypeVariables returns the ordered parameter list. It is empty for a
// non-generic type.
func (t Type) TypeVariables() []Type {
	return t.params
}

// IsValid reports whether the descriptor was constructed via Of or
// Parameterized, as opposed to being the zero value.
func (t Type) IsValid() bool {
	return t.raw != nil
}

// Equals reports structural equality: same raw type and pairwise equal
// parameters.
func (t Type) Equals(other Type) bool {
	if t.raw != other.raw || len(t.params) != len(other.params) {
		return false
	}
	for i := range t.params {
		if !t.params[i].Equals(other.params[i]) {
			return false
		}
	}
	return true
}

// AssignableFrom reports whether a value described by other can be used where
// the receiver is expected. Raw types are compared covariantly through the
// declared hierarchy; generic parameters are compared structurally, never
// covariantly. Container item-type variance is resolved one layer up, in the
// projection, not here.
func (t Type) AssignableFrom(other Type) bool {
	if !t.raw.AssignableFrom(other.raw) {
		return false
	}
	if len(t.params) != len(other.params) {
		return false
	}
	for i := range t.params {
		if !t.params[i].Equals(other.params[i]) {
			return false
		}
	}
	return true
}

// String renders the descriptor as Name or Name<P1, P2>.
func (t Type) String() string {
	if t.raw == nil {
		return "<invalid>"
	}
	if len(t.params) == 0 {
		return t.raw.name
	}
	names := make([]string, len(t.params))
	for i, p := range t.params {
		names[i] = p.String()
	}
	return t.raw.name + "<" + strings.Join(names, ", ") + ">"
}
