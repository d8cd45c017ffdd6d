package objstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/specialistvlad/modelgridgo/internal/ctxlog"
	"github.com/specialistvlad/modelgridgo/internal/typedesc"
)

// Store is the in-memory Container implementation used for a single
// configuration pass. Objects live in a sync.Map keyed by name; the factory
// table is fixed after registration. The pass runs rules one at a time, so
// the store only ever has a single writer, but lookups stay safe regardless.
type Store struct {
	itemType  typedesc.Type
	factories map[*typedesc.RawType]Factory
	creatable []typedesc.Type
	objects   sync.Map // Key: object name, Value: *Object
}

// New creates an empty store with the given native item type and no
// registered factories.
func New(itemType typedesc.Type) *Store {
	return &Store{
		itemType:  itemType,
		factories: make(map[*typedesc.RawType]Factory),
	}
}

// RegisterFactory registers a factory for one creatable type. The type must
// be assignable to the store's native item type. Registering the same type
// twice is a programming error and panics, as is a nil factory.
func (s *Store) RegisterFactory(typ typedesc.Type, f Factory) {
	if f == nil {
		panic(fmt.Sprintf("objstore: nil factory for type %s", typ))
	}
	if !s.itemType.AssignableFrom(typ) {
		panic(fmt.Sprintf("objstore: type %s is not assignable to item type %s", typ, s.itemType))
	}
	if _, exists := s.factories[typ.RawType()]; exists {
		panic(fmt.Sprintf("objstore: factory for type %s already registered", typ))
	}
	s.factories[typ.RawType()] = f
	s.creatable = append(s.creatable, typ)
}

// ItemType returns the store's native item type.
func (s *Store) ItemType() typedesc.Type {
	return s.itemType
}

// CreateableTypes returns the registered creatable types in registration order.
func (s *Store) CreateableTypes() []typedesc.Type {
	out := make([]typedesc.Type, len(s.creatable))
	copy(out, s.creatable)
	return out
}

// Create creates an object of the store's native item type under name.
func (s *Store) Create(ctx context.Context, name string) (*Object, error) {
	return s.CreateTyped(ctx, name, s.itemType)
}

// CreateTyped creates an object of an explicit type under name. The type must
// have a registered factory; the name must be unused.
func (s *Store) CreateTyped(ctx context.Context, name string, typ typedesc.Type) (*Object, error) {
	factory, ok := s.factories[typ.RawType()]
	if !ok {
		return nil, &UnknownTypeError{Requested: typ, Creatable: s.CreateableTypes()}
	}

	obj := factory(name)
	if _, loaded := s.objects.LoadOrStore(name, obj); loaded {
		return nil, &DuplicateNameError{Name: name}
	}

	ctxlog.FromContext(ctx).Debug("Created container object.", "name", name, "type", typ.String())
	return obj, nil
}

// Get returns the object registered under name, if any.
func (s *Store) Get(name string) (*Object, bool) {
	v, ok := s.objects.Load(name)
	if !ok {
		return nil, false
	}
	return v.(*Object), true
}

// Names returns the names of all created objects.
func (s *Store) Names() []string {
	var names []string
	s.objects.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	return names
}
