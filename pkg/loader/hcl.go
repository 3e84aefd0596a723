package loader

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// HCL loads the top-level attributes of an HCL file. Expressions are
// evaluated without variables or functions, so only literal values load.
type HCL struct{}

// Attributes is the value produced by the HCL loader.
type Attributes map[string]cty.Value

// Load implements Loader.
func (HCL) Load(ctx context.Context, filename string) (any, error) {
	data, err := readModule(ctx, filename)
	if err != nil {
		return nil, err
	}

	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, &LoadError{File: filename, Err: diags}
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, &LoadError{File: filename, Err: diags}
	}

	out := make(Attributes, len(attrs))
	for name, attr := range attrs {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, &LoadError{File: filename, Err: fmt.Errorf("evaluating %s: %w", name, diags)}
		}
		out[name] = val
	}
	return out, nil
}

// String returns a known, non-null string attribute.
func (a Attributes) String(name string) (string, bool) {
	v, ok := a[name]
	if !ok || v.IsNull() || !v.IsKnown() || v.Type() != cty.String {
		return "", false
	}
	return v.AsString(), true
}

// MarshalJSON encodes each attribute with its natural JSON form.
func (a Attributes) MarshalJSON() ([]byte, error) {
	m := make(map[string]ctyjson.SimpleJSONValue, len(a))
	for name, v := range a {
		m[name] = ctyjson.SimpleJSONValue{Value: v}
	}
	return json.Marshal(m)
}
