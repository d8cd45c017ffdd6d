package manifest

import (
	"context"
	"fmt"

	"github.com/specialistvlad/modelgridgo/internal/ctxlog"
	"github.com/specialistvlad/modelgridgo/internal/modelgraph"
	"github.com/specialistvlad/modelgridgo/internal/objstore"
	"github.com/specialistvlad/modelgridgo/internal/projection"
)

// Materialize registers every declared container in the graph: one node per
// container, backed by an in-memory store with a factory per creatable type
// and a container projection attached. Factories seed new objects with the
// declared attribute defaults, inherited ones included.
func Materialize(ctx context.Context, model *Model, graph *modelgraph.Graph) error {
	logger := ctxlog.FromContext(ctx)

	for name, def := range model.Containers {
		store := objstore.New(def.ItemType.Type)
		for _, creatable := range def.Creatable {
			store.RegisterFactory(creatable.Type, newFactory(creatable))
		}

		_, err := graph.GetOrCreate(name, def.ItemType.Type,
			func(context.Context) (any, error) { return store, nil },
			projection.NewContainer(store, def.ItemType.Type))
		if err != nil {
			return fmt.Errorf("registering container node %q: %w", name, err)
		}

		logger.Debug("Materialized container node.",
			"node", name,
			"item_type", def.ItemType.Type.String(),
			"creatable", len(def.Creatable))
	}
	return nil
}

// newFactory builds the object factory for one creatable type, seeding
// attribute defaults from the type's effective attribute set.
func newFactory(def *TypeDefinition) objstore.Factory {
	return func(name string) *objstore.Object {
		obj := objstore.NewObject(name, def.Type)
		for _, attr := range def.EffectiveAttributes() {
			if attr.Default != nil {
				obj.SetAttr(attr.Name, *attr.Default)
			}
		}
		return obj
	}
}
