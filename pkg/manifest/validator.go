package manifest

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed schema/manifest.schema.json
var schemaBytes []byte

var (
	compiledSchema *jsonschema.Schema
	compileOnce    sync.Once
	compileErr     error
	printer        = message.NewPrinter(language.English)

	plainKey = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$-]*$`)
)

// shapes describes what each schema definition accepts, in manifest terms.
var shapes = map[string]string{
	"discoverable": "must be an object with packages and/or modules",
	"packages":     "must be a glob, a list of package entries or a mapping of glob to manifest",
	"packageEntry": "must be a glob or an object with a glob",
	"fragment":     "must be an embedded manifest object",
	"modules":      "must be a mapping of module type to globs",
	"globs":        "must be a glob or a list of globs",
}

// ValidationResult contains the outcome of a schema validation.
type ValidationResult struct {
	Valid  bool
	Issues []ValidationIssue
}

// ValidationIssue is a single schema violation.
type ValidationIssue struct {
	Path    string // field in the manifest, e.g. "discoverable.packages[0]"; empty for the document
	Message string
	Keyword string // failing schema keyword
}

// getSchema compiles the embedded JSON schema once and returns it.
func getSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaBytes))
		if err != nil {
			compileErr = fmt.Errorf("unmarshaling schema JSON: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("manifest.schema.json", doc); err != nil {
			compileErr = fmt.Errorf("adding schema resource: %w", err)
			return
		}
		compiledSchema, compileErr = c.Compile("manifest.schema.json")
		if compileErr != nil {
			compileErr = fmt.Errorf("compiling schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Validate validates raw manifest bytes (JSON or YAML) against the manifest
// schema. The error return is for decoding or schema compilation failures;
// schema violations are reported in the ValidationResult.
func Validate(data []byte) (*ValidationResult, error) {
	doc, err := decodeDocument(data, "")
	if err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	return validateDocument(doc)
}

// ValidateFile reads a file and validates it against the manifest schema.
func ValidateFile(path string) (*ValidationResult, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := decodeDocument(data, path)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	return validateDocument(doc)
}

// validateDocument checks a decoded document. A nil document is an empty
// manifest.
func validateDocument(doc *yaml.Node) (*ValidationResult, error) {
	schema, err := getSchema()
	if err != nil {
		return nil, fmt.Errorf("loading schema: %w", err)
	}

	var inst any = map[string]any{}
	if doc != nil {
		inst = instance(doc)
	}

	err = schema.Validate(inst)
	if err == nil {
		return &ValidationResult{Valid: true}, nil
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return nil, fmt.Errorf("unexpected validation error type: %w", err)
	}

	var issues []ValidationIssue
	collectIssues(ve, inst, &issues)
	if len(issues) == 0 {
		issues = []ValidationIssue{{Message: ve.Error()}}
	}
	issues = uniqueIssues(issues)
	slices.SortStableFunc(issues, func(a, b ValidationIssue) int {
		return strings.Compare(a.Path, b.Path)
	})
	return &ValidationResult{Issues: issues}, nil
}

// collectIssues walks the error tree down to the failures worth reporting. A
// failed oneOf reports the branch that had the right type, or the shape of
// the field when no branch did.
func collectIssues(ve *jsonschema.ValidationError, inst any, issues *[]ValidationIssue) {
	if one, ok := ve.ErrorKind.(*kind.OneOf); ok && len(one.Subschemas) == 0 {
		var nearest []*jsonschema.ValidationError
		for _, c := range ve.Causes {
			if !wrongType(c, ve.InstanceLocation) {
				nearest = append(nearest, c)
			}
		}
		if len(nearest) == 0 {
			*issues = append(*issues, newIssue(ve, inst, "oneOf"))
			return
		}
		for _, c := range nearest {
			collectIssues(c, inst, issues)
		}
		return
	}

	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			collectIssues(c, inst, issues)
		}
		return
	}

	keyword := ""
	if ve.ErrorKind != nil {
		if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
			keyword = kw[len(kw)-1]
		}
	}
	if keyword == "" {
		return
	}
	*issues = append(*issues, newIssue(ve, inst, keyword))
}

// wrongType reports whether ve only says the value at loc has the wrong type.
func wrongType(ve *jsonschema.ValidationError, loc []string) bool {
	switch ve.ErrorKind.(type) {
	case *kind.Type:
		return slices.Equal(ve.InstanceLocation, loc)
	case *kind.Group, *kind.Reference:
		for _, c := range ve.Causes {
			if !wrongType(c, loc) {
				return false
			}
		}
		return len(ve.Causes) > 0
	}
	return false
}

func newIssue(ve *jsonschema.ValidationError, inst any, keyword string) ValidationIssue {
	return ValidationIssue{
		Path:    fieldPath(inst, ve.InstanceLocation),
		Message: issueMessage(ve),
		Keyword: keyword,
	}
}

func issueMessage(ve *jsonschema.ValidationError) string {
	switch k := ve.ErrorKind.(type) {
	case *kind.OneOf, *kind.Type:
		if shape, ok := shapes[definition(ve.SchemaURL)]; ok {
			return shape
		}
		if t, ok := k.(*kind.Type); ok {
			return fmt.Sprintf("must be %s, got %s", typeNames(t.Want), t.Got)
		}
	case *kind.Required:
		quoted := make([]string, len(k.Missing))
		for i, m := range k.Missing {
			quoted[i] = strconv.Quote(m)
		}
		return "missing " + strings.Join(quoted, ", ")
	case *kind.MinLength:
		return "must not be empty"
	}
	return ve.ErrorKind.LocalizedString(printer)
}

// definition returns the $defs name a schema location points at, if any.
func definition(schemaURL string) string {
	_, frag, _ := strings.Cut(schemaURL, "#")
	name, ok := strings.CutPrefix(frag, "/$defs/")
	if !ok || strings.Contains(name, "/") {
		return ""
	}
	return name
}

func typeNames(want []string) string {
	names := make([]string, 0, len(want))
	for _, w := range want {
		switch w {
		case "null":
			continue
		case "object", "array", "integer":
			names = append(names, "an "+w)
		default:
			names = append(names, "a "+w)
		}
	}
	if len(names) == 0 {
		return "null"
	}
	return strings.Join(names, " or ")
}

// fieldPath renders an instance location the way it reads in the manifest:
// keys joined by dots, list positions in brackets, and keys that are not
// plain words (package globs, mostly) quoted in brackets.
func fieldPath(inst any, loc []string) string {
	var b strings.Builder
	cur := inst
	for _, tok := range loc {
		if arr, ok := cur.([]any); ok {
			i, _ := strconv.Atoi(tok)
			fmt.Fprintf(&b, "[%d]", i)
			cur = nil
			if i >= 0 && i < len(arr) {
				cur = arr[i]
			}
			continue
		}

		if plainKey.MatchString(tok) {
			if b.Len() > 0 {
				b.WriteByte('.')
			}
			b.WriteString(tok)
		} else {
			fmt.Fprintf(&b, "[%q]", tok)
		}
		obj, _ := cur.(map[string]any)
		cur = obj[tok]
	}
	return b.String()
}

// uniqueIssues drops repeated issues, keeping the first.
func uniqueIssues(issues []ValidationIssue) []ValidationIssue {
	seen := make(map[ValidationIssue]bool, len(issues))
	out := issues[:0]
	for _, issue := range issues {
		if !seen[issue] {
			seen[issue] = true
			out = append(out, issue)
		}
	}
	return out
}
