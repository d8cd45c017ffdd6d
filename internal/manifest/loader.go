package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/modelgridgo/internal/ctxlog"
	"github.com/specialistvlad/modelgridgo/internal/fsutil"
	"github.com/specialistvlad/modelgridgo/internal/typedesc"
	"github.com/zclconf/go-cty/cty/convert"
)

// Loader parses manifest files into a resolved Model.
type Loader struct{}

// NewLoader creates a manifest loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads every .hcl file under the given paths (files or directories, in
// any order) and resolves the declared types and containers.
func (l *Loader) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := l.findAllHCLFiles(paths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Discovered manifest files.", "count", len(files))

	parser := hclparse.NewParser()
	var types []*modelTypeBlock
	var containers []*containerBlock

	for _, file := range files {
		hclFile, diags := parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse manifest file %s: %w", file, diags)
		}

		var root fileRoot
		diags = gohcl.DecodeBody(hclFile.Body, nil, &root)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode manifest file %s: %w", file, diags)
		}

		types = append(types, root.ModelTypes...)
		containers = append(containers, root.Containers...)
	}

	model, err := l.resolve(ctx, types, containers)
	if err != nil {
		return nil, err
	}

	logger.Info("Manifest model loaded.",
		"types", len(model.Types), "containers", len(model.Containers))
	return model, nil
}

// findAllHCLFiles expands each path into the .hcl files beneath it. A path
// naming a regular file is taken as-is.
func (l *Loader) findAllHCLFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("manifest path %s: %w", path, err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		found, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return nil, fmt.Errorf("walking manifest path %s: %w", path, err)
		}
		files = append(files, found...)
	}
	return files, nil
}

// resolve links parents, attribute types and container item types across all
// collected blocks.
func (l *Loader) resolve(ctx context.Context, typeBlocks []*modelTypeBlock, containerBlocks []*containerBlock) (*Model, error) {
	blocksByName := make(map[string]*modelTypeBlock, len(typeBlocks))
	for _, block := range typeBlocks {
		if _, exists := blocksByName[block.Name]; exists {
			return nil, fmt.Errorf("model type %q declared more than once", block.Name)
		}
		blocksByName[block.Name] = block
	}

	model := &Model{
		Types:      make(map[string]*TypeDefinition, len(typeBlocks)),
		Containers: make(map[string]*ContainerDefinition, len(containerBlocks)),
	}

	// Parent references may point forward and across files, so types are
	// resolved depth-first along parent chains, with the usual two-marker
	// cycle check.
	resolving := make(map[string]bool)
	var resolveType func(name string) (*TypeDefinition, error)
	resolveType = func(name string) (*TypeDefinition, error) {
		if def, ok := model.Types[name]; ok {
			return def, nil
		}
		if resolving[name] {
			return nil, fmt.Errorf("model type inheritance cycle detected involving %q", name)
		}
		block, ok := blocksByName[name]
		if !ok {
			return nil, fmt.Errorf("model type %q is not declared", name)
		}
		resolving[name] = true
		defer delete(resolving, name)

		var parent *TypeDefinition
		var raw *typedesc.RawType
		if block.Parent == "" {
			raw = typedesc.NewRawType(block.Name)
		} else {
			var err error
			parent, err = resolveType(block.Parent)
			if err != nil {
				return nil, err
			}
			raw = parent.Type.RawType().Subtype(block.Name)
		}

		attrs, err := l.resolveAttributes(ctx, block)
		if err != nil {
			return nil, err
		}

		def := &TypeDefinition{
			Type:       typedesc.Of(raw),
			Abstract:   block.Abstract,
			Attributes: attrs,
			parent:     parent,
		}
		model.Types[name] = def
		return def, nil
	}

	for name := range blocksByName {
		if _, err := resolveType(name); err != nil {
			return nil, err
		}
	}

	for _, block := range containerBlocks {
		def, err := l.resolveContainer(block, model)
		if err != nil {
			return nil, err
		}
		if _, exists := model.Containers[def.Name]; exists {
			return nil, fmt.Errorf("container %q declared more than once", def.Name)
		}
		model.Containers[def.Name] = def
	}

	return model, nil
}

// resolveAttributes translates a block's attribute type expressions and
// checks every default against its declared type.
func (l *Loader) resolveAttributes(ctx context.Context, block *modelTypeBlock) ([]*AttributeDefinition, error) {
	var attrs []*AttributeDefinition
	seen := make(map[string]bool)
	for _, attr := range block.Attributes {
		if seen[attr.Name] {
			return nil, fmt.Errorf("model type %q declares attribute %q more than once", block.Name, attr.Name)
		}
		seen[attr.Name] = true

		ctyType, err := typeExprToCtyType(ctx, attr.Type)
		if err != nil {
			return nil, fmt.Errorf("model type %q, attribute %q: %w", block.Name, attr.Name, err)
		}

		def := &AttributeDefinition{Name: attr.Name, Type: ctyType}
		if attr.Default != nil {
			converted, err := convert.Convert(*attr.Default, ctyType)
			if err != nil {
				return nil, fmt.Errorf("model type %q, attribute %q: default value does not conform to type %s: %w",
					block.Name, attr.Name, ctyType.FriendlyName(), err)
			}
			def.Default = &converted
		}
		attrs = append(attrs, def)
	}
	return attrs, nil
}

// resolveContainer links a container block against the resolved types. When
// no creatable list is given the container creates its own item type; every
// creatable type must be a non-abstract type assignable to the item type.
func (l *Loader) resolveContainer(block *containerBlock, model *Model) (*ContainerDefinition, error) {
	itemDef, ok := model.Types[block.ItemType]
	if !ok {
		return nil, fmt.Errorf("container %q: item type %q is not declared", block.Name, block.ItemType)
	}

	creatableNames := block.Creatable
	if len(creatableNames) == 0 {
		creatableNames = []string{block.ItemType}
	}

	def := &ContainerDefinition{Name: block.Name, ItemType: itemDef}
	for _, name := range creatableNames {
		typeDef, ok := model.Types[name]
		if !ok {
			return nil, fmt.Errorf("container %q: creatable type %q is not declared", block.Name, name)
		}
		if typeDef.Abstract {
			return nil, fmt.Errorf("container %q: creatable type %q is abstract", block.Name, name)
		}
		if !itemDef.Type.AssignableFrom(typeDef.Type) {
			return nil, fmt.Errorf("container %q: creatable type %q is not assignable to item type %q",
				block.Name, name, block.ItemType)
		}
		def.Creatable = append(def.Creatable, typeDef)
	}
	return def, nil
}
