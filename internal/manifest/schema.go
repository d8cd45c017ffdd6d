package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/modelgridgo/internal/typedesc"
	"github.com/zclconf/go-cty/cty"
)

// --- Raw HCL block shapes ---

// attributeBlock is one `attribute` block inside a model_type.
type attributeBlock struct {
	Name    string         `hcl:"name,label"`
	Type    hcl.Expression `hcl:"type"`
	Default *cty.Value     `hcl:"default,optional"`
}

// modelTypeBlock is a `model_type` block declaring one domain type.
type modelTypeBlock struct {
	Name       string            `hcl:"name,label"`
	Parent     string            `hcl:"parent,optional"`
	Abstract   bool              `hcl:"abstract,optional"`
	Attributes []*attributeBlock `hcl:"attribute,block"`
}

// containerBlock is a `container` block declaring one container node.
type containerBlock struct {
	Name      string   `hcl:"name,label"`
	ItemType  string   `hcl:"item_type"`
	Creatable []string `hcl:"creatable,optional"`
}

// fileRoot decodes all recognized top-level blocks from one manifest file.
type fileRoot struct {
	ModelTypes []*modelTypeBlock `hcl:"model_type,block"`
	Containers []*containerBlock `hcl:"container,block"`
	Remain     hcl.Body          `hcl:",remain"`
}

// --- Resolved model ---

// AttributeDefinition is a resolved, typed attribute of a model type.
type AttributeDefinition struct {
	Name    string
	Type    cty.Type
	Default *cty.Value
}

// TypeDefinition is a resolved model type: its descriptor, whether it can be
// instantiated, and its own (non-inherited) attributes.
type TypeDefinition struct {
	Type       typedesc.Type
	Abstract   bool
	Attributes []*AttributeDefinition
	parent     *TypeDefinition
}

// Parent returns the definition of the declared supertype, or nil.
func (d *TypeDefinition) Parent() *TypeDefinition {
	return d.parent
}

// EffectiveAttributes returns the type's attributes including inherited ones,
// with subtypes overriding same-named parent attributes.
func (d *TypeDefinition) EffectiveAttributes() []*AttributeDefinition {
	var chain []*TypeDefinition
	for t := d; t != nil; t = t.parent {
		chain = append(chain, t)
	}

	seen := make(map[string]bool)
	var out []*AttributeDefinition
	// Walk root-first so declaration order is stable, letting subtypes
	// replace what they override.
	for i := len(chain) - 1; i >= 0; i-- {
		for _, attr := range chain[i].Attributes {
			if seen[attr.Name] {
				for j, existing := range out {
					if existing.Name == attr.Name {
						out[j] = attr
					}
				}
				continue
			}
			seen[attr.Name] = true
			out = append(out, attr)
		}
	}
	return out
}

// ContainerDefinition is a resolved container declaration.
type ContainerDefinition struct {
	Name      string
	ItemType  *TypeDefinition
	Creatable []*TypeDefinition
}

// Model is the fully resolved content of a set of manifest files.
type Model struct {
	Types      map[string]*TypeDefinition
	Containers map[string]*ContainerDefinition
}
