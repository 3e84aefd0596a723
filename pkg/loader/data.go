package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"go.yaml.in/yaml/v3"
)

// JSON decodes a JSON document into map[string]any, []any, or a scalar.
// Numbers decode as json.Number so integers keep their precision.
type JSON struct{}

// Load implements Loader.
func (JSON) Load(ctx context.Context, filename string) (any, error) {
	data, err := readModule(ctx, filename)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, &LoadError{File: filename, Err: fmt.Errorf("decoding JSON: %w", err)}
	}
	return v, nil
}

// YAML decodes a YAML document into map[string]any, []any, or a scalar.
type YAML struct{}

// Load implements Loader.
func (YAML) Load(ctx context.Context, filename string) (any, error) {
	data, err := readModule(ctx, filename)
	if err != nil {
		return nil, err
	}

	var v any
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, &LoadError{File: filename, Err: fmt.Errorf("decoding YAML: %w", err)}
	}
	return v, nil
}

// TOML decodes a TOML document into map[string]any.
type TOML struct{}

// Load implements Loader.
func (TOML) Load(ctx context.Context, filename string) (any, error) {
	data, err := readModule(ctx, filename)
	if err != nil {
		return nil, err
	}

	var v map[string]any
	if err := toml.Unmarshal(data, &v); err != nil {
		return nil, &LoadError{File: filename, Err: fmt.Errorf("decoding TOML: %w", err)}
	}
	return v, nil
}

// Text returns the file contents as a string.
type Text struct{}

// Load implements Loader.
func (Text) Load(ctx context.Context, filename string) (any, error) {
	data, err := readModule(ctx, filename)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// readModule reads a module file, honoring cancellation.
func readModule(ctx context.Context, filename string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, &LoadError{File: filename, Err: err}
	}
	return data, nil
}
