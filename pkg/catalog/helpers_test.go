package catalog

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/discoverable-labs/discoverable/pkg/manifest"
)

// writeFiles creates files (and parent directories) under root.
func writeFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

// resource is the value produced by fakeLoader.
type resource struct {
	file string
}

// fakeLoader returns a fresh *resource per load and counts loads per file.
type fakeLoader struct {
	mu    sync.Mutex
	calls map[string]int
}

func newFakeLoader() *fakeLoader {
	return &fakeLoader{calls: make(map[string]int)}
}

func (l *fakeLoader) Load(_ context.Context, filename string) (any, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls[filename]++
	return &resource{file: filename}, nil
}

func (l *fakeLoader) count(filename string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[filename]
}

// countingReader wraps a manifest.Reader and records every directory read.
type countingReader struct {
	manifest.Reader

	calls atomic.Int32
	mu    sync.Mutex
	dirs  []string
}

func newCountingReader() *countingReader {
	return &countingReader{Reader: manifest.FileReader{Validate: true}}
}

func (r *countingReader) Read(ctx context.Context, dir string) (*manifest.Manifest, error) {
	r.calls.Add(1)
	r.mu.Lock()
	r.dirs = append(r.dirs, dir)
	r.mu.Unlock()
	return r.Reader.Read(ctx, dir)
}

func (r *countingReader) readDirs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.dirs...)
}

// moduleNames returns "package/type/name" for each module.
func moduleNames(mods []*Module) []string {
	out := make([]string, 0, len(mods))
	for _, m := range mods {
		out = append(out, m.Package()+"/"+m.Type()+"/"+m.Name())
	}
	return out
}

// packageNames returns the name of each package.
func packageNames(pkgs []*Package) []string {
	out := make([]string, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.Name())
	}
	return out
}
