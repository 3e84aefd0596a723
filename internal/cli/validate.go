package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/discoverable-labs/discoverable/pkg/catalog"
	"github.com/discoverable-labs/discoverable/pkg/manifest"
	"github.com/spf13/cobra"
)

var validateAll bool

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Validate a manifest against the schema",
	Long: `Validate the manifest in dir (default: the catalog root) against the
discoverable manifest schema and report every issue found.

With --all, every package manifest reachable from the root is read and
validated as well.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings()
		if err != nil {
			return err
		}
		dir := s.Root
		if len(args) == 1 {
			if dir, err = filepath.Abs(args[0]); err != nil {
				return fmt.Errorf("resolving %s: %w", args[0], err)
			}
		}

		path := manifest.FileReader{Name: s.Manifest}.Path(dir)
		if err := runManifestCheck(cmd.OutOrStdout(), path); err != nil {
			return err
		}
		if !validateAll {
			return nil
		}

		cfg := s.Catalog()
		cfg.Root = dir
		cfg.SkipValidation = false
		return runPackagesCheck(cmd.Context(), cmd.OutOrStdout(), catalog.NewFromConfig(cfg, catalog.WithLogger(logger)))
	},
}

func init() {
	validateCmd.Flags().BoolVar(&validateAll, "all", false, "Also validate every discovered package manifest")
	rootCmd.AddCommand(validateCmd)
}

func runManifestCheck(w io.Writer, path string) error {
	fmt.Fprintf(w, "Manifest validation: %s\n", path)

	result, err := manifest.ValidateFile(path)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("manifest validation failed: %w", err)
	}

	if result.Valid {
		m, err := manifest.ParseFile(path)
		if err != nil || m.Name == "" {
			fmt.Fprintln(w, "  [ OK ] Valid manifest")
			return nil
		}
		if m.Version != "" {
			fmt.Fprintf(w, "  [ OK ] Valid manifest: %s (v%s)\n", m.Name, m.Version)
		} else {
			fmt.Fprintf(w, "  [ OK ] Valid manifest: %s\n", m.Name)
		}
		return nil
	}

	fmt.Fprintf(w, "  [FAIL] %d validation issue(s):\n", len(result.Issues))
	for _, issue := range result.Issues {
		if issue.Path != "" {
			fmt.Fprintf(w, "    - %s: %s\n", issue.Path, issue.Message)
		} else {
			fmt.Fprintf(w, "    - %s\n", issue.Message)
		}
	}
	return fmt.Errorf("manifest %s has %d validation issue(s)", path, len(result.Issues))
}

func runPackagesCheck(ctx context.Context, w io.Writer, c *catalog.Catalog) error {
	fmt.Fprintf(w, "Package manifests: %s\n", c.Root())

	pkgs, err := c.Init(ctx)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %v\n", err)
		return fmt.Errorf("package validation failed: %w", err)
	}
	for _, p := range pkgs {
		fmt.Fprintf(w, "  [ OK ] %s\n", p.Name())
	}
	fmt.Fprintf(w, "  %d package(s) valid\n", len(pkgs))
	return nil
}
