package catalog

import (
	"context"
	"fmt"
	"slices"

	"github.com/Masterminds/semver/v3"
	"github.com/discoverable-labs/discoverable/pkg/glob"
	"github.com/discoverable-labs/discoverable/pkg/loader"
	"github.com/rs/zerolog"
)

// Package is a named bundle of modules grouped by type. It is built during
// discovery and never changes afterwards.
type Package struct {
	name    string
	dir     string
	version *semver.Version

	types   []string
	modules map[string][]*Module
}

func newPackage(name, dir string, version *semver.Version) *Package {
	return &Package{
		name:    name,
		dir:     dir,
		version: version,
		modules: make(map[string][]*Module),
	}
}

// Name returns the package name.
func (p *Package) Name() string { return p.name }

// Dir returns the absolute package directory.
func (p *Package) Dir() string { return p.dir }

// Version returns the manifest version, or nil when absent or unparseable.
func (p *Package) Version() *semver.Version { return p.version }

// Types returns the module types that have at least one module, in
// declaration order.
func (p *Package) Types() []string {
	return slices.Clone(p.types)
}

// Modules returns the modules of typ in declaration-then-match order. An
// empty typ or an unknown type yields no modules.
func (p *Package) Modules(typ string) []*Module {
	if typ == "" {
		return nil
	}
	return slices.Clone(p.modules[typ])
}

// Has reports whether the package has a module of typ whose name matches
// names. An empty typ always matches.
func (p *Package) Has(typ string, names ...string) bool {
	if typ == "" {
		return true
	}
	for _, m := range p.modules[typ] {
		if Match(m.name, names) {
			return true
		}
	}
	return false
}

// Test reports whether the package satisfies f.
func (p *Package) Test(f Filter) bool {
	if f.IsZero() {
		return true
	}
	return Match(p.name, f.Packages) && p.Has(f.Type, f.Modules...)
}

// Filter returns the modules of f.Type whose names match f.Modules. The
// package name constraint is not applied here; see Test.
func (p *Package) Filter(f Filter) []*Module {
	if f.Type == "" {
		return nil
	}
	var out []*Module
	for _, m := range p.modules[f.Type] {
		if Match(m.name, f.Modules) {
			out = append(out, m)
		}
	}
	return out
}

// Require loads every module of typ and returns their resources in order.
func (p *Package) Require(ctx context.Context, typ string) ([]any, error) {
	mods := p.Modules(typ)
	out := make([]any, 0, len(mods))
	for _, m := range mods {
		v, err := m.Require(ctx)
		if err != nil {
			return nil, fmt.Errorf("requiring %s module %s of package %s: %w", typ, m.name, p.name, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// collectModules expands globs for one type against dir. Globs are expanded
// in list order and each glob's matches in match order.
func (p *Package) collectModules(
	ctx context.Context,
	matcher glob.Matcher,
	l loader.Loader,
	log zerolog.Logger,
	typ string,
	globs []string,
) ([]*Module, error) {
	log.Debug().Str("package", p.name).Str("dir", p.dir).Str("type", typ).Strs("globs", globs).Msg("addModules")

	var mods []*Module
	for _, pattern := range globs {
		matches, err := matcher.Glob(ctx, p.dir, glob.Slash(pattern))
		if err != nil {
			return nil, fmt.Errorf("expanding %s module glob %q in %s: %w", typ, pattern, p.dir, err)
		}
		for _, match := range matches {
			filename := glob.Resolve(p.dir, match)
			log.Debug().Str("type", typ).Str("file", filename).Msg("addModule")
			mods = append(mods, newModule(p.name, typ, filename, l, log))
		}
	}
	return mods, nil
}

// addModules records the modules of one type. Types without modules are not
// recorded, so Has reports false for them.
func (p *Package) addModules(typ string, mods []*Module) {
	if len(mods) == 0 {
		return
	}
	if _, ok := p.modules[typ]; !ok {
		p.types = append(p.types, typ)
	}
	p.modules[typ] = append(p.modules[typ], mods...)
}
