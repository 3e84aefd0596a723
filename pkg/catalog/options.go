package catalog

import (
	"github.com/discoverable-labs/discoverable/pkg/glob"
	"github.com/discoverable-labs/discoverable/pkg/loader"
	"github.com/discoverable-labs/discoverable/pkg/manifest"
	"github.com/rs/zerolog"
)

// DefaultConcurrency bounds concurrent manifest reads and glob expansions.
const DefaultConcurrency = 8

// Config is the structured form of catalog construction.
type Config struct {
	// Root is the directory holding the root manifest. Empty means a
	// permanently empty catalog.
	Root string
	// Manifest is the manifest file name; manifest.DefaultName when empty.
	Manifest string
	// SkipValidation disables manifest schema validation.
	SkipValidation bool
	// Concurrency bounds concurrent discovery work; DefaultConcurrency when
	// zero or negative.
	Concurrency int
}

// Option customizes a Catalog.
type Option func(*Catalog)

// WithMatcher replaces the glob matcher.
func WithMatcher(m glob.Matcher) Option {
	return func(c *Catalog) { c.matcher = m }
}

// WithReader replaces the manifest reader.
func WithReader(r manifest.Reader) Option {
	return func(c *Catalog) { c.reader = r }
}

// WithLoader replaces the module loader.
func WithLoader(l loader.Loader) Option {
	return func(c *Catalog) { c.loader = l }
}

// WithLogger sets the logger used for discovery and load tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Catalog) { c.log = l }
}

// WithConcurrency bounds concurrent discovery work.
func WithConcurrency(n int) Option {
	return func(c *Catalog) {
		if n > 0 {
			c.concurrency = n
		}
	}
}
