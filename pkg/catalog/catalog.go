package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/discoverable-labs/discoverable/pkg/glob"
	"github.com/discoverable-labs/discoverable/pkg/loader"
	"github.com/discoverable-labs/discoverable/pkg/manifest"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Catalog discovers packages below a root directory and answers queries over
// them. The zero value is not usable; construct with New, NewFromConfig, or
// NewDefault.
type Catalog struct {
	root        string
	matcher     glob.Matcher
	reader      manifest.Reader
	loader      loader.Loader
	log         zerolog.Logger
	concurrency int

	once     sync.Once
	done     chan struct{}
	packages []*Package
	err      error
}

// New returns a catalog rooted at root. A relative root is made absolute;
// an empty root yields a catalog that never discovers anything.
func New(root string, opts ...Option) *Catalog {
	if root != "" {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		} else {
			root = filepath.Clean(root)
		}
	}

	c := &Catalog{
		root:        root,
		matcher:     glob.Doublestar{},
		reader:      manifest.FileReader{Name: manifest.DefaultName, Validate: true},
		loader:      loader.Default(),
		log:         zerolog.Nop(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig returns a catalog built from cfg. Options are applied after
// the configuration.
func NewFromConfig(cfg Config, opts ...Option) *Catalog {
	base := []Option{
		WithReader(manifest.FileReader{Name: cfg.Manifest, Validate: !cfg.SkipValidation}),
		WithConcurrency(cfg.Concurrency),
	}
	return New(cfg.Root, append(base, opts...)...)
}

// NewDefault returns a catalog rooted at the directory of the running
// executable. Hosts call it once at startup and pass the catalog along.
func NewDefault(opts ...Option) (*Catalog, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolving executable path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return New(filepath.Dir(exe), opts...), nil
}

// Root returns the absolute root directory, or "" for an empty catalog.
func (c *Catalog) Root() string {
	return c.root
}

// Init runs discovery once and returns the discovered packages. Every call,
// concurrent or later, observes the same packages slice and the same error.
// Cancelling ctx stops the wait but not the shared discovery pass.
// Callers must not modify the returned slice.
func (c *Catalog) Init(ctx context.Context) ([]*Package, error) {
	c.once.Do(func() {
		c.done = make(chan struct{})
		dctx := context.WithoutCancel(ctx)
		go func() {
			defer close(c.done)
			c.packages, c.err = c.discover(dctx)
		}()
	})

	select {
	case <-c.done:
		return c.packages, c.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Packages returns the packages satisfying f, in discovery order.
func (c *Catalog) Packages(ctx context.Context, f Filter) ([]*Package, error) {
	all, err := c.Init(ctx)
	if err != nil {
		return nil, err
	}

	var out []*Package
	for _, p := range all {
		if p.Test(f) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Modules returns the modules satisfying f, flattened in package order.
func (c *Catalog) Modules(ctx context.Context, f Filter) ([]*Module, error) {
	pkgs, err := c.Packages(ctx, f)
	if err != nil {
		return nil, err
	}

	var out []*Module
	for _, p := range pkgs {
		out = append(out, p.Filter(f)...)
	}
	return out, nil
}

// Discover loads every module satisfying f and returns the resources in the
// same order as Modules. Distinct modules load concurrently.
func (c *Catalog) Discover(ctx context.Context, f Filter) ([]any, error) {
	mods, err := c.Modules(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]any, len(mods))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, m := range mods {
		g.Go(func() error {
			v, err := m.Require(gctx)
			if err != nil {
				return fmt.Errorf("requiring %s module %s of package %s: %w", m.typ, m.name, m.pkg, err)
			}
			out[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// discover performs the single discovery pass.
func (c *Catalog) discover(ctx context.Context) ([]*Package, error) {
	if c.root == "" {
		c.log.Debug().Msg("discover: no root configured")
		return []*Package{}, nil
	}

	c.log.Debug().Str("root", c.root).Msg("discover")
	pkgs, err := c.addPackages(ctx, c.root)
	if err != nil {
		return nil, err
	}
	c.log.Debug().Str("root", c.root).Int("packages", len(pkgs)).Msg("discovered")
	return pkgs, nil
}

// packageJob is one matched package directory awaiting construction.
type packageJob struct {
	path     string
	embedded *manifest.Manifest
}

// addPackages reads the manifest at rootPath and builds a package for every
// directory matched by its discoverable.packages globs. The result keeps
// declaration order, then match order within each glob.
func (c *Catalog) addPackages(ctx context.Context, rootPath string) ([]*Package, error) {
	c.log.Debug().Str("path", rootPath).Msg("addPackages")

	root, err := c.reader.Read(ctx, rootPath)
	if err != nil {
		return nil, fmt.Errorf("reading root manifest: %w", err)
	}

	specs := root.PackageSpecs()
	if len(specs) == 0 {
		return []*Package{}, nil
	}

	// Expand every package glob.
	matches := make([][]string, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, spec := range specs {
		g.Go(func() error {
			m, err := c.matcher.Glob(gctx, rootPath, glob.Slash(spec.Glob))
			if err != nil {
				return fmt.Errorf("expanding package glob %q in %s: %w", spec.Glob, rootPath, err)
			}
			matches[i] = m
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var jobs []packageJob
	for i, spec := range specs {
		for _, m := range matches[i] {
			jobs = append(jobs, packageJob{path: glob.Resolve(rootPath, m), embedded: spec.Embedded})
		}
	}

	// Build the packages, each into its own slot.
	built := make([]*Package, len(jobs))
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, job := range jobs {
		g.Go(func() error {
			p, err := c.addPackage(gctx, job.path, job.embedded)
			if err != nil {
				return err
			}
			built[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	pkgs := make([]*Package, 0, len(built))
	for _, p := range built {
		if p != nil {
			pkgs = append(pkgs, p)
		}
	}
	return pkgs, nil
}

// addPackage builds the package at packagePath from embedded, or from the
// manifest on disk when embedded is nil. It returns nil without error when
// the manifest declares no discoverable.modules.
func (c *Catalog) addPackage(ctx context.Context, packagePath string, embedded *manifest.Manifest) (*Package, error) {
	c.log.Debug().Str("path", packagePath).Bool("embedded", embedded != nil).Msg("addPackage")

	m := embedded
	if m == nil {
		var err error
		m, err = c.reader.Read(ctx, packagePath)
		if err != nil {
			return nil, fmt.Errorf("reading package manifest: %w", err)
		}
	}

	specs, ok := m.ModuleSpecs()
	if !ok {
		c.log.Debug().Str("path", packagePath).Msg("skipping package without discoverable.modules")
		return nil, nil
	}

	name := m.Name
	if name == "" {
		name = filepath.Base(packagePath)
	}

	version, err := m.SemVer()
	if err != nil {
		c.log.Warn().Str("package", name).Str("version", m.Version).Err(err).Msg("ignoring unparseable package version")
	}

	p := newPackage(name, packagePath, version)

	lists := make([][]*Module, len(specs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, tg := range specs {
		g.Go(func() error {
			mods, err := p.collectModules(gctx, c.matcher, c.loader, c.log, tg.Type, tg.Globs)
			if err != nil {
				return err
			}
			lists[i] = mods
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("adding package %s: %w", name, err)
	}

	for i, tg := range specs {
		p.addModules(tg.Type, lists[i])
	}
	return p, nil
}
