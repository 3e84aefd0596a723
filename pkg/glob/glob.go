// Package glob expands glob patterns against a base directory. Patterns are
// always slash-separated; backslashes are normalized before matching so
// manifests written on Windows behave the same everywhere.
package glob

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Matcher expands a pattern relative to dir. Matches are slash-separated
// paths relative to dir.
type Matcher interface {
	Glob(ctx context.Context, dir, pattern string) ([]string, error)
}

// PatternError is returned for patterns that cannot be compiled.
type PatternError struct {
	Pattern string
	Err     error
}

// Error implements the error interface.
func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid glob pattern %q: %v", e.Pattern, e.Err)
}

// Unwrap returns the underlying matcher error.
func (e *PatternError) Unwrap() error {
	return e.Err
}

// Slash converts backslash separators to forward slashes.
func Slash(pattern string) string {
	return strings.ReplaceAll(pattern, `\`, "/")
}

// Doublestar is a Matcher backed by doublestar, so "**" crosses directory
// boundaries. Matches are sorted lexically; a missing base directory yields
// no matches.
//
// A trailing "/" restricts matches to directories. Path segments starting
// with "." only match pattern segments that themselves start with ".".
type Doublestar struct{}

// Glob implements Matcher.
func (Doublestar) Glob(ctx context.Context, dir, pattern string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pattern = Slash(pattern)
	dirOnly := strings.HasSuffix(pattern, "/")
	pattern = path.Clean(pattern)
	if !doublestar.ValidatePattern(pattern) {
		return nil, &PatternError{Pattern: pattern, Err: doublestar.ErrBadPattern}
	}

	// io/fs paths cannot climb out of their root, so leading ".." segments
	// move the root up instead and are restored on the results.
	base, prefix := dir, ""
	if path.IsAbs(pattern) {
		base, prefix = "/", "/"
		pattern = strings.TrimPrefix(pattern, "/")
	}
	for pattern == ".." || strings.HasPrefix(pattern, "../") {
		base = filepath.Dir(base)
		prefix += "../"
		pattern = strings.TrimPrefix(strings.TrimPrefix(pattern, ".."), "/")
	}
	if pattern == "" {
		pattern = "."
	}

	fsys := os.DirFS(base)
	matches, err := doublestar.Glob(fsys, pattern)
	if err != nil {
		if errors.Is(err, doublestar.ErrBadPattern) {
			return nil, &PatternError{Pattern: pattern, Err: err}
		}
		return nil, fmt.Errorf("expanding %q in %s: %w", pattern, base, err)
	}

	matches = slices.DeleteFunc(matches, func(m string) bool {
		if hidden(pattern, m) {
			return true
		}
		if dirOnly {
			fi, err := fs.Stat(fsys, m)
			return err != nil || !fi.IsDir()
		}
		return false
	})

	if prefix != "" {
		for i, m := range matches {
			matches[i] = path.Clean(prefix + m)
		}
	}
	slices.Sort(matches)
	return matches, nil
}

// hidden reports whether match has a dot-prefixed segment that no
// dot-prefixed segment of pattern accounts for.
func hidden(pattern, match string) bool {
	var dotted []string
	for _, seg := range strings.Split(pattern, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." {
			dotted = append(dotted, seg)
		}
	}
	for _, seg := range strings.Split(match, "/") {
		if !strings.HasPrefix(seg, ".") || seg == "." || seg == ".." {
			continue
		}
		if !slices.ContainsFunc(dotted, func(p string) bool {
			ok, _ := doublestar.Match(p, seg)
			return ok
		}) {
			return true
		}
	}
	return false
}

// Resolve joins a match returned by a Matcher onto dir. Absolute matches are
// returned unchanged.
func Resolve(dir, match string) string {
	p := filepath.FromSlash(match)
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(dir, p)
}
