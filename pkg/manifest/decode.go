package manifest

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// fragment is the shape of an embedded manifest. It accepts either a full
// manifest (name, discoverable) or a bare discoverable section with
// packages/modules at the top level. Glob is only meaningful for list entries.
type fragment struct {
	Glob     string `yaml:"glob"`
	Manifest `yaml:",inline"`
	Packages PackageSpecs `yaml:"packages"`
	Modules  ModuleSpecs  `yaml:"modules"`
}

// UnmarshalYAML normalizes discoverable.packages. A string becomes one glob,
// a list keeps its order (strings or {glob, ...} objects), and a mapping is
// read as glob -> embedded manifest pairs in key order.
func (s *PackageSpecs) UnmarshalYAML(value *yaml.Node) error {
	value = deref(value)

	switch value.Kind {
	case yaml.ScalarNode:
		var glob string
		if err := value.Decode(&glob); err != nil {
			return fmt.Errorf("line %d: decoding package glob: %w", value.Line, err)
		}
		*s = PackageSpecs{}
		if glob != "" {
			*s = append(*s, PackageSpec{Glob: glob})
		}
		return nil

	case yaml.SequenceNode:
		specs := make(PackageSpecs, 0, len(value.Content))
		for _, item := range value.Content {
			spec, err := decodePackageEntry(deref(item))
			if err != nil {
				return err
			}
			specs = append(specs, spec)
		}
		*s = specs
		return nil

	case yaml.MappingNode:
		specs := make(PackageSpecs, 0, len(value.Content)/2)
		index := make(map[string]int, len(value.Content)/2)
		for i := 0; i+1 < len(value.Content); i += 2 {
			var glob string
			if err := value.Content[i].Decode(&glob); err != nil {
				return fmt.Errorf("line %d: decoding package glob: %w", value.Content[i].Line, err)
			}
			embedded, err := decodeFragment(deref(value.Content[i+1]))
			if err != nil {
				return fmt.Errorf("package %q: %w", glob, err)
			}
			spec := PackageSpec{Glob: glob, Embedded: embedded}
			// Repeated keys keep their first position and take the last value.
			if at, ok := index[glob]; ok {
				specs[at] = spec
				continue
			}
			index[glob] = len(specs)
			specs = append(specs, spec)
		}
		*s = specs
		return nil

	default:
		return fmt.Errorf("line %d: packages must be a string, a list, or a mapping", value.Line)
	}
}

// UnmarshalYAML reads discoverable.modules, a mapping of type to one glob or a
// list of globs, preserving key order.
func (s *ModuleSpecs) UnmarshalYAML(value *yaml.Node) error {
	value = deref(value)
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: modules must be a mapping of type to globs", value.Line)
	}

	specs := make(ModuleSpecs, 0, len(value.Content)/2)
	index := make(map[string]int, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var typ string
		if err := value.Content[i].Decode(&typ); err != nil {
			return fmt.Errorf("line %d: decoding module type: %w", value.Content[i].Line, err)
		}
		globs, err := decodeGlobs(deref(value.Content[i+1]))
		if err != nil {
			return fmt.Errorf("module type %q: %w", typ, err)
		}
		tg := TypeGlobs{Type: typ, Globs: globs}
		if at, ok := index[typ]; ok {
			specs[at] = tg
			continue
		}
		index[typ] = len(specs)
		specs = append(specs, tg)
	}
	*s = specs
	return nil
}

// decodePackageEntry decodes one item of a packages list.
func decodePackageEntry(node *yaml.Node) (PackageSpec, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var glob string
		if err := node.Decode(&glob); err != nil {
			return PackageSpec{}, fmt.Errorf("line %d: decoding package glob: %w", node.Line, err)
		}
		return PackageSpec{Glob: glob}, nil

	case yaml.MappingNode:
		var f fragment
		if err := node.Decode(&f); err != nil {
			return PackageSpec{}, fmt.Errorf("line %d: decoding package entry: %w", node.Line, err)
		}
		if f.Glob == "" {
			return PackageSpec{}, fmt.Errorf("line %d: package entry is missing a glob", node.Line)
		}
		spec := PackageSpec{Glob: f.Glob}
		// An entry carrying anything besides its glob embeds the manifest.
		if len(node.Content) > 2 {
			spec.Embedded = f.manifest()
		}
		return spec, nil

	default:
		return PackageSpec{}, fmt.Errorf("line %d: package entry must be a string or a mapping", node.Line)
	}
}

// decodeFragment decodes an embedded manifest. A null value means no
// embedded manifest.
func decodeFragment(node *yaml.Node) (*Manifest, error) {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: embedded manifest must be a mapping", node.Line)
	}

	var f fragment
	if err := node.Decode(&f); err != nil {
		return nil, fmt.Errorf("line %d: decoding embedded manifest: %w", node.Line, err)
	}
	return f.manifest(), nil
}

// manifest lifts a bare discoverable section into a full manifest.
func (f *fragment) manifest() *Manifest {
	m := f.Manifest
	if m.Discoverable == nil && (f.Packages != nil || f.Modules != nil) {
		m.Discoverable = &Discoverable{
			Packages: f.Packages,
			Modules:  f.Modules,
		}
	}
	return &m
}

// decodeGlobs reads a single glob or a list of globs. Empty globs are dropped.
func decodeGlobs(node *yaml.Node) ([]string, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.ShortTag() == "!!null" {
			return []string{}, nil
		}
		var glob string
		if err := node.Decode(&glob); err != nil {
			return nil, fmt.Errorf("line %d: decoding glob: %w", node.Line, err)
		}
		if glob == "" {
			return []string{}, nil
		}
		return []string{glob}, nil

	case yaml.SequenceNode:
		globs := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			item = deref(item)
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: glob must be a string", item.Line)
			}
			var glob string
			if err := item.Decode(&glob); err != nil {
				return nil, fmt.Errorf("line %d: decoding glob: %w", item.Line, err)
			}
			if glob != "" {
				globs = append(globs, glob)
			}
		}
		return globs, nil

	default:
		return nil, fmt.Errorf("line %d: globs must be a string or a list of strings", node.Line)
	}
}

// deref follows YAML aliases to the node they point at.
func deref(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}
