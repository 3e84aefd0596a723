package loader

import (
	"context"
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// CUE evaluates a CUE file and decodes the result into map[string]any,
// []any, or a scalar. The value must be concrete; definitions and hidden
// fields are not exported.
type CUE struct{}

// Load implements Loader.
func (CUE) Load(ctx context.Context, filename string) (any, error) {
	data, err := readModule(ctx, filename)
	if err != nil {
		return nil, err
	}

	value := cuecontext.New().CompileBytes(data, cue.Filename(filename))
	if err := value.Err(); err != nil {
		return nil, &LoadError{File: filename, Err: fmt.Errorf("compiling CUE: %w", err)}
	}
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return nil, &LoadError{File: filename, Err: fmt.Errorf("validating CUE: %w", err)}
	}

	var v any
	if err := value.Decode(&v); err != nil {
		return nil, &LoadError{File: filename, Err: fmt.Errorf("decoding CUE: %w", err)}
	}
	return v, nil
}
