package catalog

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/discoverable-labs/discoverable/pkg/glob"
	"github.com/discoverable-labs/discoverable/pkg/loader"
	"github.com/discoverable-labs/discoverable/pkg/manifest"
)

func explicitRoot(t *testing.T) string {
	t.Helper()
	root, err := filepath.Abs(filepath.Join("testdata", "explicit"))
	if err != nil {
		t.Fatal(err)
	}
	return root
}

func TestCatalog_ExplicitPackages(t *testing.T) {
	fl := newFakeLoader()
	c := New(explicitRoot(t), WithLoader(fl))
	ctx := context.Background()

	modules, err := c.Modules(ctx, TypeFilter("type1"))
	if err != nil {
		t.Fatalf("Modules error: %v", err)
	}
	if len(modules) != 2 {
		t.Fatalf("len(modules) = %d, want 2", len(modules))
	}

	for i, want := range []string{"module1.js", "module2.js"} {
		m := modules[i]
		if m.Type() != "type1" {
			t.Errorf("modules[%d].Type() = %q, want %q", i, m.Type(), "type1")
		}
		if m.Package() != "package1" {
			t.Errorf("modules[%d].Package() = %q, want %q", i, m.Package(), "package1")
		}
		if !strings.HasSuffix(m.Filename(), want) {
			t.Errorf("modules[%d].Filename() = %q, want suffix %q", i, m.Filename(), want)
		}
		if !filepath.IsAbs(m.Filename()) {
			t.Errorf("modules[%d].Filename() = %q, want absolute path", i, m.Filename())
		}
		if m.Loaded() {
			t.Errorf("modules[%d] loaded before Require", i)
		}
	}

	first, err := modules[0].Require(ctx)
	if err != nil {
		t.Fatalf("Require error: %v", err)
	}
	if r, ok := first.(*resource); !ok || r.file != modules[0].Filename() {
		t.Fatalf("Require = %#v, want resource for %s", first, modules[0].Filename())
	}
	if !modules[0].Loaded() {
		t.Error("module not marked loaded after Require")
	}
	if modules[1].Loaded() {
		t.Error("Require loaded a sibling module")
	}

	again, err := modules[0].Require(ctx)
	if err != nil {
		t.Fatalf("second Require error: %v", err)
	}
	if again != first {
		t.Error("second Require returned a different resource")
	}
	if n := fl.count(modules[0].Filename()); n != 1 {
		t.Errorf("loader called %d times, want 1", n)
	}
}

func TestCatalog_DiscoverType2(t *testing.T) {
	fl := newFakeLoader()
	c := New(explicitRoot(t), WithLoader(fl))

	resources, err := c.Discover(context.Background(), TypeFilter("type2"))
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if len(resources) != 1 {
		t.Fatalf("len(resources) = %d, want 1", len(resources))
	}
	r := resources[0].(*resource)
	if want := filepath.Join("package1", "type2", "module1.js"); !strings.HasSuffix(r.file, want) {
		t.Errorf("resource file = %q, want suffix %q", r.file, want)
	}
}

func TestCatalog_ExplicitWithNode(t *testing.T) {
	if _, err := exec.LookPath("node"); err != nil {
		t.Skip("Node.js not available, skipping")
	}

	c := New(explicitRoot(t))
	resources, err := c.Discover(context.Background(), TypeFilter("type2"))
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if !reflect.DeepEqual(resources, []any{"type2.module1"}) {
		t.Errorf("Discover = %v, want [type2.module1]", resources)
	}
}

func TestCatalog_InitRunsOnce(t *testing.T) {
	reader := newCountingReader()
	c := New(explicitRoot(t), WithReader(reader), WithLoader(newFakeLoader()))

	const callers = 16
	results := make([][]*Package, callers)
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = c.Init(context.Background())
		}()
	}
	wg.Wait()

	for i := range callers {
		if errs[i] != nil {
			t.Fatalf("Init[%d] error: %v", i, errs[i])
		}
		if len(results[i]) != 1 {
			t.Fatalf("Init[%d] returned %d packages, want 1", i, len(results[i]))
		}
		if &results[i][0] != &results[0][0] {
			t.Errorf("Init[%d] returned a different packages slice", i)
		}
	}

	// A later call does no further I/O.
	if _, err := c.Init(context.Background()); err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if _, err := c.Modules(context.Background(), TypeFilter("type1")); err != nil {
		t.Fatalf("Modules error: %v", err)
	}

	// Root manifest plus package1's manifest.
	if n := reader.calls.Load(); n != 2 {
		t.Errorf("manifest reads = %d, want 2 (dirs: %v)", n, reader.readDirs())
	}
}

func TestCatalog_ModuleIdentityAcrossQueries(t *testing.T) {
	c := New(explicitRoot(t), WithLoader(newFakeLoader()))
	ctx := context.Background()

	viaCatalog, err := c.Modules(ctx, TypeFilter("type1"))
	if err != nil {
		t.Fatalf("Modules error: %v", err)
	}
	pkgs, err := c.Packages(ctx, TypeFilter("type1"))
	if err != nil {
		t.Fatalf("Packages error: %v", err)
	}
	viaPackage := pkgs[0].Modules("type1")

	for i := range viaCatalog {
		if viaCatalog[i] != viaPackage[i] {
			t.Errorf("module %d differs between catalog and package queries", i)
		}
	}
}

func TestCatalog_EmptyRoot(t *testing.T) {
	reader := newCountingReader()
	c := New("", WithReader(reader))
	ctx := context.Background()

	pkgs, err := c.Init(ctx)
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if pkgs == nil || len(pkgs) != 0 {
		t.Errorf("Init = %v, want empty non-nil slice", pkgs)
	}
	if c.Root() != "" {
		t.Errorf("Root() = %q, want empty", c.Root())
	}

	mods, err := c.Modules(ctx, TypeFilter("type1"))
	if err != nil || len(mods) != 0 {
		t.Errorf("Modules = %v, %v; want none", mods, err)
	}
	if n := reader.calls.Load(); n != 0 {
		t.Errorf("manifest reads = %d, want 0", n)
	}
}

func TestCatalog_RelativeRootIsAbsolute(t *testing.T) {
	c := New(filepath.Join("testdata", "explicit"))
	if !filepath.IsAbs(c.Root()) {
		t.Errorf("Root() = %q, want absolute", c.Root())
	}
}

func TestCatalog_EmbeddedManifestBypassesDisk(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json": `{
			"discoverable": {
				"packages": {
					"plugins/*": { "modules": { "plugin": "*.txt" } }
				}
			}
		}`,
		"plugins/beta/b.txt":  "b",
		"plugins/alpha/a.txt": "a",
		// Malformed; reading it would fail discovery.
		"plugins/alpha/package.json": `{ not json`,
	})

	reader := newCountingReader()
	c := New(root, WithReader(reader), WithLoader(newFakeLoader()))

	pkgs, err := c.Init(context.Background())
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if got, want := packageNames(pkgs), []string{"alpha", "beta"}; !reflect.DeepEqual(got, want) {
		t.Errorf("packages = %v, want %v", got, want)
	}
	if got := reader.readDirs(); !reflect.DeepEqual(got, []string{root}) {
		t.Errorf("manifest reads = %v, want only the root", got)
	}

	mods, err := c.Modules(context.Background(), TypeFilter("plugin"))
	if err != nil {
		t.Fatalf("Modules error: %v", err)
	}
	if got, want := moduleNames(mods), []string{"alpha/plugin/a", "beta/plugin/b"}; !reflect.DeepEqual(got, want) {
		t.Errorf("modules = %v, want %v", got, want)
	}
}

func TestCatalog_ListEntryEmbeddedManifest(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json": `{
			"discoverable": {
				"packages": [
					{ "glob": "core", "name": "core-pkg", "discoverable": { "modules": { "command": "cmd/*.txt" } } },
					"ext"
				]
			}
		}`,
		"core/cmd/run.txt": "run",
		"ext/package.json": `{"discoverable": {"modules": {"command": "*.txt"}}}`,
		"ext/lint.txt":     "lint",
	})

	c := New(root, WithLoader(newFakeLoader()))
	mods, err := c.Modules(context.Background(), TypeFilter("command"))
	if err != nil {
		t.Fatalf("Modules error: %v", err)
	}
	if got, want := moduleNames(mods), []string{"core-pkg/command/run", "ext/command/lint"}; !reflect.DeepEqual(got, want) {
		t.Errorf("modules = %v, want %v", got, want)
	}
}

func TestCatalog_DefaultNameAndMissingModules(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":        `{"discoverable": {"packages": ["pkgs/*"]}}`,
		"pkgs/a/package.json": `{"name": "named-a", "discoverable": {"modules": {"t": "*.txt"}}}`,
		"pkgs/a/x.txt":        "x",
		"pkgs/b/package.json": `{"discoverable": {"modules": {"t": "*.txt"}}}`,
		"pkgs/b/y.txt":        "y",
		"pkgs/c/package.json": `{"name": "no-modules", "discoverable": {}}`,
		"pkgs/c/z.txt":        "z",
		"pkgs/d/package.json": `{"name": "empty-modules", "discoverable": {"modules": {}}}`,
		"pkgs/e/package.json": `{"name": "no-section"}`,
		"pkgs/f/package.json": `{"name": "unmatched", "discoverable": {"modules": {"t": "*.none"}}}`,
	})

	c := New(root, WithLoader(newFakeLoader()))
	ctx := context.Background()

	pkgs, err := c.Packages(ctx, Filter{})
	if err != nil {
		t.Fatalf("Packages error: %v", err)
	}
	want := []string{"named-a", "b", "empty-modules", "unmatched"}
	if got := packageNames(pkgs); !reflect.DeepEqual(got, want) {
		t.Errorf("packages = %v, want %v", got, want)
	}

	withT, err := c.Packages(ctx, TypeFilter("t"))
	if err != nil {
		t.Fatalf("Packages error: %v", err)
	}
	if got := packageNames(withT); !reflect.DeepEqual(got, []string{"named-a", "b"}) {
		t.Errorf("packages with t = %v, want [named-a b]", got)
	}
}

func TestCatalog_DirectoryOnlyPackageGlob(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":        `{"discoverable": {"packages": "*/"}}`,
		"README.md":           "",
		".git/HEAD":           "",
		"p1/package.json":     `{"name": "p1", "discoverable": {"modules": {"t": "*.js"}}}`,
		"p1/a.js":             "",
		"p1/.hidden.js":       "",
		"p2/package.json":     `{"name": "p2", "discoverable": {"modules": {"t": "*.js"}}}`,
		"p2/b.js":             "",
		".cache/package.json": `{"name": "cache", "discoverable": {"modules": {"t": "*.js"}}}`,
		".cache/c.js":         "",
	})

	c := New(root, WithLoader(newFakeLoader()))
	mods, err := c.Modules(context.Background(), TypeFilter("t"))
	if err != nil {
		t.Fatalf("Modules error: %v", err)
	}
	want := []string{"p1/t/a", "p2/t/b"}
	if got := moduleNames(mods); !reflect.DeepEqual(got, want) {
		t.Errorf("modules = %v, want %v", got, want)
	}
}

func TestCatalog_DeclarationOrder(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json": `{"discoverable": {"packages": ["zulu", "alpha", "mid/*"]}}`,
		"zulu/package.json": `{"discoverable": {"modules": {
			"t": ["second/*.txt", "first.txt"],
			"u": "u.txt"
		}}}`,
		"zulu/first.txt":    "",
		"zulu/second/b.txt": "",
		"zulu/second/a.txt": "",
		"zulu/u.txt":        "",
		"alpha/package.json": `{"discoverable": {"modules": {"t": "*.txt"}}}`,
		"alpha/c.txt":        "",
		"mid/2/package.json": `{"discoverable": {"modules": {"t": "*.txt"}}}`,
		"mid/2/m.txt":        "",
		"mid/1/package.json": `{"discoverable": {"modules": {"t": "*.txt"}}}`,
		"mid/1/n.txt":        "",
	})

	c := New(root, WithLoader(newFakeLoader()), WithConcurrency(4))
	ctx := context.Background()

	want := []string{
		"zulu/t/a", "zulu/t/b", "zulu/t/first",
		"alpha/t/c",
		"1/t/n",
		"2/t/m",
	}
	for range 3 {
		mods, err := c.Modules(ctx, TypeFilter("t"))
		if err != nil {
			t.Fatalf("Modules error: %v", err)
		}
		if got := moduleNames(mods); !reflect.DeepEqual(got, want) {
			t.Fatalf("modules = %v, want %v", got, want)
		}
	}

	pkgs, _ := c.Init(ctx)
	if got := pkgs[0].Types(); !reflect.DeepEqual(got, []string{"t", "u"}) {
		t.Errorf("zulu Types() = %v, want [t u]", got)
	}
}

func TestCatalog_FilterByPackageAndModule(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":     `{"discoverable": {"packages": ["one", "two"]}}`,
		"one/package.json": `{"discoverable": {"modules": {"cmd": "*.txt", "doc": "*.md"}}}`,
		"one/build.txt":    "",
		"one/test.txt":     "",
		"one/readme.md":    "",
		"two/package.json": `{"discoverable": {"modules": {"cmd": "*.txt"}}}`,
		"two/build.txt":    "",
		"two/deploy.txt":   "",
	})

	c := New(root, WithLoader(newFakeLoader()))
	ctx := context.Background()

	tests := []struct {
		name     string
		filter   Filter
		packages []string
		modules  []string
	}{
		{
			name:     "zero filter",
			filter:   Filter{},
			packages: []string{"one", "two"},
			modules:  []string{},
		},
		{
			name:     "type only",
			filter:   TypeFilter("cmd"),
			packages: []string{"one", "two"},
			modules:  []string{"one/cmd/build", "one/cmd/test", "two/cmd/build", "two/cmd/deploy"},
		},
		{
			name:     "type present in one package",
			filter:   TypeFilter("doc"),
			packages: []string{"one"},
			modules:  []string{"one/doc/readme"},
		},
		{
			name:     "unknown type",
			filter:   TypeFilter("nope"),
			packages: []string{},
			modules:  []string{},
		},
		{
			name:     "package name",
			filter:   Filter{Type: "cmd", Packages: []string{"two"}},
			packages: []string{"two"},
			modules:  []string{"two/cmd/build", "two/cmd/deploy"},
		},
		{
			name:     "module names",
			filter:   Filter{Type: "cmd", Modules: []string{"deploy", "test"}},
			packages: []string{"one", "two"},
			modules:  []string{"one/cmd/test", "two/cmd/deploy"},
		},
		{
			name:     "package without type",
			filter:   Filter{Packages: []string{"one"}},
			packages: []string{"one"},
			modules:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkgs, err := c.Packages(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Packages error: %v", err)
			}
			if got := packageNames(pkgs); !reflect.DeepEqual(got, tt.packages) {
				t.Errorf("packages = %v, want %v", got, tt.packages)
			}

			mods, err := c.Modules(ctx, tt.filter)
			if err != nil {
				t.Fatalf("Modules error: %v", err)
			}
			if got := moduleNames(mods); !reflect.DeepEqual(got, tt.modules) {
				t.Errorf("modules = %v, want %v", got, tt.modules)
			}
		})
	}
}

func TestCatalog_NoPackagesKey(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json": `{"name": "app", "dependencies": {"x": "1.0.0"}}`,
	})

	pkgs, err := New(root).Init(context.Background())
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if len(pkgs) != 0 {
		t.Errorf("Init returned %d packages, want 0", len(pkgs))
	}
}

func TestCatalog_RootManifestMissing(t *testing.T) {
	c := New(t.TempDir())
	ctx := context.Background()

	_, err := c.Init(ctx)
	if !errors.Is(err, manifest.ErrNotFound) {
		t.Fatalf("Init error = %v, want manifest.ErrNotFound", err)
	}

	// The failure is memoized and reaches every query.
	_, err2 := c.Packages(ctx, Filter{})
	if err2 != err {
		t.Errorf("Packages error = %v, want the memoized Init error", err2)
	}
	if _, err := c.Discover(ctx, TypeFilter("x")); !errors.Is(err, manifest.ErrNotFound) {
		t.Errorf("Discover error = %v, want manifest.ErrNotFound", err)
	}
}

func TestCatalog_RootManifestMalformed(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{"package.json": `{"discoverable": `})

	_, err := New(root).Init(context.Background())
	if !errors.Is(err, manifest.ErrMalformed) {
		t.Errorf("Init error = %v, want manifest.ErrMalformed", err)
	}
}

func TestCatalog_SubPackageManifestMissing(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":        `{"discoverable": {"packages": ["good", "bad"]}}`,
		"good/package.json":   `{"discoverable": {"modules": {"t": "*.txt"}}}`,
		"good/a.txt":          "",
		"bad/no-manifest.txt": "",
	})

	pkgs, err := New(root).Init(context.Background())
	if !errors.Is(err, manifest.ErrNotFound) {
		t.Fatalf("Init error = %v, want manifest.ErrNotFound", err)
	}
	if pkgs != nil {
		t.Errorf("Init returned partial packages %v", packageNames(pkgs))
	}
}

func TestCatalog_InvalidGlob(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":     `{"discoverable": {"packages": "pkg"}}`,
		"pkg/package.json": `{"discoverable": {"modules": {"t": "[bad"}}}`,
	})

	_, err := New(root).Init(context.Background())
	var pe *glob.PatternError
	if !errors.As(err, &pe) {
		t.Fatalf("Init error = %v, want *glob.PatternError", err)
	}
}

func TestCatalog_UnparseableVersionIsIgnored(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":      `{"discoverable": {"packages": ["good", "odd"]}}`,
		"good/package.json": `{"version": "2.1.0", "discoverable": {"modules": {}}}`,
		"odd/package.json":  `{"version": "latest", "discoverable": {"modules": {}}}`,
	})

	pkgs, err := New(root).Init(context.Background())
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if v := pkgs[0].Version(); v == nil || v.String() != "2.1.0" {
		t.Errorf("good Version() = %v, want 2.1.0", v)
	}
	if v := pkgs[1].Version(); v != nil {
		t.Errorf("odd Version() = %v, want nil", v)
	}
}

func TestCatalog_DiscoverWithDefaultLoaders(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":      `{"discoverable": {"packages": "data"}}`,
		"data/package.json": `{"discoverable": {"modules": {"config": ["conf/*.json", "conf/*.yaml"]}}}`,
		"data/conf/a.json":  `{"id": "a"}`,
		"data/conf/b.yaml":  "id: b\n",
	})

	resources, err := New(root).Discover(context.Background(), TypeFilter("config"))
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	want := []any{
		map[string]any{"id": "a"},
		map[string]any{"id": "b"},
	}
	if !reflect.DeepEqual(resources, want) {
		t.Errorf("Discover = %v, want %v", resources, want)
	}
}

func TestCatalog_DiscoverLoadFailure(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"package.json":      `{"discoverable": {"packages": "data"}}`,
		"data/package.json":   `{"discoverable": {"modules": {"config": "conf/*.json"}}}`,
		"data/conf/bad.json":  `{"id": `,
		"data/conf/good.json": `{"id": "good"}`,
	})

	c := New(root)
	ctx := context.Background()
	_, err := c.Discover(ctx, TypeFilter("config"))
	var le *loader.LoadError
	if !errors.As(err, &le) {
		t.Fatalf("Discover error = %v, want *loader.LoadError", err)
	}

	// The catalog itself is still usable.
	mods, err := c.Modules(ctx, TypeFilter("config"))
	if err != nil {
		t.Fatalf("Modules error: %v", err)
	}
	if len(mods) != 2 {
		t.Fatalf("len(mods) = %d, want 2", len(mods))
	}
	if _, err := mods[1].Require(ctx); err != nil {
		t.Errorf("good module Require error: %v", err)
	}
	if mods[0].Loaded() {
		t.Error("failed module marked as loaded")
	}
}

func TestCatalog_InitWaitCanceled(t *testing.T) {
	release := make(chan struct{})
	reader := &blockingReader{release: release, Reader: manifest.FileReader{}}
	c := New(explicitRoot(t), WithReader(reader), WithLoader(newFakeLoader()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Init(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Init error = %v, want context.Canceled", err)
	}

	// The shared pass keeps going and serves later callers.
	close(release)
	ctx2, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel2()
	pkgs, err := c.Init(ctx2)
	if err != nil {
		t.Fatalf("Init error: %v", err)
	}
	if got := packageNames(pkgs); !reflect.DeepEqual(got, []string{"package1"}) {
		t.Errorf("packages = %v, want [package1]", got)
	}
}

// blockingReader waits for release before every read.
type blockingReader struct {
	manifest.Reader
	release chan struct{}
}

func (r *blockingReader) Read(ctx context.Context, dir string) (*manifest.Manifest, error) {
	<-r.release
	return r.Reader.Read(ctx, dir)
}

func TestNewFromConfig(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"discoverable.yaml":     "discoverable:\n  packages: lib\n",
		"lib/discoverable.yaml": "name: lib\ndiscoverable:\n  modules:\n    t: \"*.txt\"\n",
		"lib/a.txt":             "a",
	})

	c := NewFromConfig(Config{Root: root, Manifest: "discoverable.yaml", Concurrency: 2})
	if c.concurrency != 2 {
		t.Errorf("concurrency = %d, want 2", c.concurrency)
	}

	resources, err := c.Discover(context.Background(), TypeFilter("t"))
	if err != nil {
		t.Fatalf("Discover error: %v", err)
	}
	if !reflect.DeepEqual(resources, []any{"a"}) {
		t.Errorf("Discover = %v, want [a]", resources)
	}
}

func TestNewFromConfig_Defaults(t *testing.T) {
	c := NewFromConfig(Config{})
	if c.Root() != "" {
		t.Errorf("Root() = %q, want empty", c.Root())
	}
	if c.concurrency != DefaultConcurrency {
		t.Errorf("concurrency = %d, want %d", c.concurrency, DefaultConcurrency)
	}
	r, ok := c.reader.(manifest.FileReader)
	if !ok {
		t.Fatalf("reader = %T, want manifest.FileReader", c.reader)
	}
	if !r.Validate {
		t.Error("expected validation on by default")
	}
}

func TestNewDefault(t *testing.T) {
	c, err := NewDefault()
	if err != nil {
		t.Fatalf("NewDefault error: %v", err)
	}
	exe, err := os.Executable()
	if err != nil {
		t.Fatal(err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	if c.Root() != filepath.Dir(exe) {
		t.Errorf("Root() = %q, want %q", c.Root(), filepath.Dir(exe))
	}
}
