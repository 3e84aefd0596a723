// Package loader turns module files into in-memory values. It is the
// pluggable counterpart of a dynamic "require": a Loader maps an absolute
// file name to the value the module exports. Registry dispatches on the file
// extension and ships loaders for JSON, YAML, TOML, CUE, HCL, text, and
// Node.js files.
package loader

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Loader loads the resource stored in filename.
type Loader interface {
	Load(ctx context.Context, filename string) (any, error)
}

// Func adapts a function to the Loader interface.
type Func func(ctx context.Context, filename string) (any, error)

// Load implements Loader.
func (f Func) Load(ctx context.Context, filename string) (any, error) {
	return f(ctx, filename)
}

// ErrUnsupported is returned for files whose extension has no loader.
var ErrUnsupported = errors.New("unsupported module file")

// LoadError reports a module file that could not be read or decoded.
type LoadError struct {
	File string
	Err  error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	return fmt.Sprintf("loading module %s: %v", e.File, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// Supported extensions for the default registry.
const (
	ExtJSON = ".json"
	ExtYAML = ".yaml"
	ExtYML  = ".yml"
	ExtTOML = ".toml"
	ExtCUE  = ".cue"
	ExtHCL  = ".hcl"
	ExtText = ".txt"
	ExtMD   = ".md"
	ExtJS   = ".js"
	ExtCJS  = ".cjs"
)

// Registry maps file extensions to loaders. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	loaders map[string]Loader
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{loaders: make(map[string]Loader)}
}

// Default returns a registry with every built-in loader registered.
func Default() *Registry {
	r := NewRegistry()
	r.Register(ExtJSON, JSON{})
	r.Register(ExtYAML, YAML{})
	r.Register(ExtYML, YAML{})
	r.Register(ExtTOML, TOML{})
	r.Register(ExtCUE, CUE{})
	r.Register(ExtHCL, HCL{})
	r.Register(ExtText, Text{})
	r.Register(ExtMD, Text{})
	r.Register(ExtJS, &Node{})
	r.Register(ExtCJS, &Node{})
	return r
}

// Register binds a loader to an extension (with or without the leading dot,
// case-insensitive). A later registration replaces an earlier one.
func (r *Registry) Register(ext string, l Loader) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaders[normalizeExt(ext)] = l
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.loaders))
	for ext := range r.loaders {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Dispatch returns the loader for ext. Unknown extensions get a loader that
// always fails with ErrUnsupported.
func (r *Registry) Dispatch(ext string) Loader {
	ext = normalizeExt(ext)
	r.mu.RLock()
	l, ok := r.loaders[ext]
	r.mu.RUnlock()
	if !ok {
		return &unsupportedLoader{ext: ext}
	}
	return l
}

// Load implements Loader by dispatching on the extension of filename.
func (r *Registry) Load(ctx context.Context, filename string) (any, error) {
	return r.Dispatch(filepath.Ext(filename)).Load(ctx, filename)
}

// unsupportedLoader is returned when the extension is not registered.
type unsupportedLoader struct {
	ext string
}

func (u *unsupportedLoader) Load(_ context.Context, filename string) (any, error) {
	return nil, &LoadError{File: filename, Err: fmt.Errorf("%w: no loader for extension %q", ErrUnsupported, u.ext)}
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
