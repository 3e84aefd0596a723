package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// Reader obtains the manifest of a directory.
type Reader interface {
	Read(ctx context.Context, dir string) (*Manifest, error)
}

// FileReader reads <dir>/<Name> from disk. A *.json name is read as JSON;
// other names may hold JSON or YAML.
type FileReader struct {
	// Name is the manifest file name; DefaultName when empty.
	Name string
	// Validate checks the document against the manifest schema before decoding.
	Validate bool
}

// Path returns the manifest file path for dir.
func (r FileReader) Path(dir string) string {
	name := r.Name
	if name == "" {
		name = DefaultName
	}
	return filepath.Join(dir, name)
}

// Read implements Reader.
func (r FileReader) Read(ctx context.Context, dir string) (*Manifest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := r.Path(dir)
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	doc, err := decodeDocument(data, path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	m, err := decodeManifest(doc, path)
	if err != nil {
		return nil, err
	}

	if r.Validate {
		result, err := validateDocument(doc)
		if err != nil {
			return nil, &ParseError{Path: path, Err: err}
		}
		if !result.Valid {
			return nil, &ValidationError{Path: path, Issues: result.Issues}
		}
	}

	return m, nil
}

// ParseFile reads and decodes the manifest file at path.
func ParseFile(path string) (*Manifest, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data, path)
}

// Parse decodes manifest data. path selects strict JSON decoding for *.json
// names and appears in error messages. An empty document decodes to an empty
// manifest.
func Parse(data []byte, path string) (*Manifest, error) {
	doc, err := decodeDocument(data, path)
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return decodeManifest(doc, path)
}

func decodeManifest(doc *yaml.Node, path string) (*Manifest, error) {
	var m Manifest
	if doc == nil {
		return &m, nil
	}
	if err := doc.Decode(&m); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return &m, nil
}

// readFile reads the contents of a manifest file.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading manifest %s: %w: %w", path, ErrNotFound, err)
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return data, nil
}
