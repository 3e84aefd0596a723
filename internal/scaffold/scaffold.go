package scaffold

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"text/template"
	"time"

	"github.com/discoverable-labs/discoverable/internal/branding"
	"github.com/discoverable-labs/discoverable/pkg/manifest"
)

// Template sets.
const (
	KindRoot    = "root"
	KindPackage = "package"
)

// manifestTemplate is rendered to ScaffoldData.Manifest.
const manifestTemplate = "manifest.tmpl"

// ModuleSpec is one module type and the globs selecting its files.
type ModuleSpec struct {
	Type  string
	Globs []string
}

// ScaffoldData holds all template variables available to scaffold templates.
type ScaffoldData struct {
	Name        string       // e.g., "auth"
	Description string       // Human-readable description
	Version     string       // Semver, e.g., "0.1.0"
	Manifest    string       // Manifest file name, e.g., "package.json"
	Packages    []string     // Package globs (root only)
	Modules     []ModuleSpec // Module types (package only)
	Year        int          // Current year
}

// Result holds the outcome of a scaffold generation.
type Result struct {
	OutputDir string
	Files     []string
	Warnings  []string
}

// NewScaffoldData creates a ScaffoldData with defaults populated.
func NewScaffoldData(name, kind string) *ScaffoldData {
	return &ScaffoldData{
		Name:        name,
		Description: fmt.Sprintf("%s %s: %s", branding.DisplayName(), kind, name),
		Version:     "0.1.0",
		Manifest:    branding.ManifestName(),
		Year:        time.Now().Year(),
	}
}

// ParseModuleSpec parses "type=glob[,glob...]".
func ParseModuleSpec(s string) (ModuleSpec, error) {
	typ, globs, ok := strings.Cut(s, "=")
	typ = strings.TrimSpace(typ)
	if !ok || typ == "" {
		return ModuleSpec{}, fmt.Errorf("invalid module spec %q: want type=glob[,glob...]", s)
	}

	spec := ModuleSpec{Type: typ}
	for _, g := range strings.Split(globs, ",") {
		if g = strings.TrimSpace(g); g != "" {
			spec.Globs = append(spec.Globs, g)
		}
	}
	if len(spec.Globs) == 0 {
		return ModuleSpec{}, fmt.Errorf("invalid module spec %q: no globs", s)
	}
	return spec, nil
}

var funcs = template.FuncMap{
	"json": func(v any) (string, error) {
		data, err := json.Marshal(v)
		return string(data), err
	},
}

// Generate renders the template set for kind into outputDir. It refuses to
// overwrite an existing manifest.
func Generate(kind string, data *ScaffoldData, outputDir string) (*Result, error) {
	templatesDir := path.Join("scaffolds", kind)

	// Verify template set exists in embedded FS.
	entries, err := fs.ReadDir(scaffoldFS, templatesDir)
	if err != nil {
		return nil, fmt.Errorf("template set %q not found: %w", kind, err)
	}

	if data.Manifest == "" {
		data.Manifest = branding.ManifestName()
	}
	if data.Packages == nil {
		data.Packages = []string{}
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	manifestFile := filepath.Join(outputDir, data.Manifest)
	if _, err := os.Stat(manifestFile); err == nil {
		return nil, fmt.Errorf("%s already exists; remove it first", manifestFile)
	}

	result := &Result{
		OutputDir: outputDir,
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		tmplPath := path.Join(templatesDir, entry.Name())
		tmplBytes, err := fs.ReadFile(scaffoldFS, tmplPath)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", tmplPath, err)
		}

		outName := strings.TrimSuffix(entry.Name(), ".tmpl")
		if entry.Name() == manifestTemplate {
			outName = data.Manifest
		}
		outPath := filepath.Join(outputDir, outName)
		if outName != data.Manifest {
			if _, err := os.Stat(outPath); err == nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("Kept existing %s", outName))
				continue
			}
		}

		tmpl, err := template.New(entry.Name()).Funcs(funcs).Parse(string(tmplBytes))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", entry.Name(), err)
		}

		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("executing template %s: %w", entry.Name(), err)
		}

		if err := os.WriteFile(outPath, buf.Bytes(), 0644); err != nil {
			return nil, fmt.Errorf("writing %s: %w", outPath, err)
		}

		result.Files = append(result.Files, outName)
	}

	// Validate the generated manifest against JSON Schema.
	valResult, valErr := manifest.ValidateFile(manifestFile)
	if valErr != nil {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not validate manifest: %v", valErr))
	} else if !valResult.Valid {
		for _, issue := range valResult.Issues {
			msg := issue.Message
			if issue.Path != "" {
				msg = issue.Path + ": " + msg
			}
			result.Warnings = append(result.Warnings, msg)
		}
	}

	return result, nil
}
