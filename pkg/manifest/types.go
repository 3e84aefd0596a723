package manifest

import (
	"github.com/Masterminds/semver/v3"
)

// DefaultName is the manifest file name resolved inside a package directory.
const DefaultName = "package.json"

// Manifest is the parsed form of a package manifest. Keys other than the ones
// below (npm "dependencies", "scripts", etc.) are ignored.
type Manifest struct {
	Name         string        `yaml:"name,omitempty" json:"name,omitempty"`
	Version      string        `yaml:"version,omitempty" json:"version,omitempty"`
	Description  string        `yaml:"description,omitempty" json:"description,omitempty"`
	Discoverable *Discoverable `yaml:"discoverable,omitempty" json:"discoverable,omitempty"`
}

// Discoverable is the "discoverable" section of a manifest.
type Discoverable struct {
	Packages PackageSpecs `yaml:"packages,omitempty" json:"packages,omitempty"`
	Modules  ModuleSpecs  `yaml:"modules,omitempty" json:"modules,omitempty"`
}

// PackageSpec is one declared sub-package location. When Embedded is set the
// package manifest is taken from it instead of being read from disk.
type PackageSpec struct {
	Glob     string    `json:"glob"`
	Embedded *Manifest `json:"embedded,omitempty"`
}

// PackageSpecs is the normalized, ordered form of discoverable.packages.
type PackageSpecs []PackageSpec

// TypeGlobs pairs a module type with the globs locating its files.
type TypeGlobs struct {
	Type  string   `json:"type"`
	Globs []string `json:"globs"`
}

// ModuleSpecs is the ordered form of discoverable.modules. A nil value means
// the key was absent; an empty, non-nil value means it was declared empty.
type ModuleSpecs []TypeGlobs

// PackageSpecs returns the declared sub-packages, or nil when the manifest
// has no discoverable.packages entry.
func (m *Manifest) PackageSpecs() PackageSpecs {
	if m == nil || m.Discoverable == nil {
		return nil
	}
	return m.Discoverable.Packages
}

// ModuleSpecs returns the declared module types and whether the
// discoverable.modules key was present at all.
func (m *Manifest) ModuleSpecs() (ModuleSpecs, bool) {
	if m == nil || m.Discoverable == nil || m.Discoverable.Modules == nil {
		return nil, false
	}
	return m.Discoverable.Modules, true
}

// SemVer parses the manifest version. It returns nil when the version is
// empty.
func (m *Manifest) SemVer() (*semver.Version, error) {
	if m == nil || m.Version == "" {
		return nil, nil
	}
	return semver.NewVersion(m.Version)
}

// Types returns the declared module types in declaration order.
func (s ModuleSpecs) Types() []string {
	types := make([]string, 0, len(s))
	for _, tg := range s {
		types = append(types, tg.Type)
	}
	return types
}
