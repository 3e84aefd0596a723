package catalog

import (
	"context"
	"path/filepath"
	"strings"
	"sync"

	"github.com/discoverable-labs/discoverable/pkg/loader"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Module is a single discoverable file: typed, owned by a package, and
// loaded on first use. Modules are shared by pointer; every query returns
// the same *Module, so a loaded resource is visible to all callers.
type Module struct {
	typ      string
	pkg      string
	name     string
	filename string

	loader loader.Loader
	log    zerolog.Logger

	mu       sync.Mutex
	loaded   bool
	resource any
	inflight singleflight.Group
}

func newModule(pkg, typ, filename string, l loader.Loader, log zerolog.Logger) *Module {
	return &Module{
		typ:      typ,
		pkg:      pkg,
		name:     moduleName(filename),
		filename: filename,
		loader:   l,
		log:      log,
	}
}

// moduleName is the base name of filename without its extension.
func moduleName(filename string) string {
	base := filepath.Base(filename)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Type returns the module type assigned by the declaring package.
func (m *Module) Type() string { return m.typ }

// Package returns the name of the owning package.
func (m *Module) Package() string { return m.pkg }

// Name returns the file base name without extension.
func (m *Module) Name() string { return m.name }

// Filename returns the absolute path of the module file.
func (m *Module) Filename() string { return m.filename }

// Loaded reports whether the resource has been loaded.
func (m *Module) Loaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loaded
}

// Resource returns the cached resource, if loaded.
func (m *Module) Resource() (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resource, m.loaded
}

// Require returns the module's resource, loading it on first call.
// Concurrent first calls share one load. Failed loads are not cached, so a
// later call retries. The shared load is not tied to any one caller's
// context; a canceled caller stops waiting while the others still get the
// result.
func (m *Module) Require(ctx context.Context) (any, error) {
	if v, ok := m.Resource(); ok {
		return v, nil
	}

	loadCtx := context.WithoutCancel(ctx)
	ch := m.inflight.DoChan(m.filename, func() (any, error) {
		if v, ok := m.Resource(); ok {
			return v, nil
		}

		m.log.Debug().Str("file", m.filename).Msg("require")
		v, err := m.loader.Load(loadCtx, m.filename)
		if err != nil {
			return nil, err
		}

		m.mu.Lock()
		m.resource, m.loaded = v, true
		m.mu.Unlock()
		return v, nil
	})

	select {
	case r := <-ch:
		return r.Val, r.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
