package cli

import (
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"

	"github.com/discoverable-labs/discoverable/internal/scaffold"
	"github.com/spf13/cobra"
)

var namePattern = regexp.MustCompile(`^(@[a-z0-9][a-z0-9._-]*/)?[a-z0-9][a-z0-9._-]*$`)

// Shared flag for all create subcommands.
var createOutputDir string

func init() {
	createCmd.PersistentFlags().StringVar(&createOutputDir, "output-dir", "", "Output directory")
	rootCmd.AddCommand(createCmd)

	createCmd.AddCommand(createRootCmd)
	createCmd.AddCommand(createPackageCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Scaffold a new discoverable manifest",
	Long:  `Create a root manifest declaring package globs, or a package manifest declaring module types.`,
}

// ─── create root ───────────────────────────────────────────────────

var createRootPackages []string

var createRootCmd = &cobra.Command{
	Use:   "root <name>",
	Short: "Scaffold a root manifest",
	Long: `Scaffold a root manifest whose discoverable.packages lists the package globs.

Example:
  discoverable create root app --packages 'plugins/*' --packages core`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := validateName(name); err != nil {
			return err
		}

		data := scaffold.NewScaffoldData(name, scaffold.KindRoot)
		data.Packages = createRootPackages
		if manifestName != "" {
			data.Manifest = manifestName
		}

		outDir := createOutputDir
		if outDir == "" {
			outDir = "."
		}

		result, err := scaffold.Generate(scaffold.KindRoot, data, outDir)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printResult(out, scaffold.KindRoot, result)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Create packages matching the globs with 'discoverable create package'")
		fmt.Fprintln(out, "  2. List them with 'discoverable packages'")
		return nil
	},
}

// ─── create package ────────────────────────────────────────────────

var createPackageModules []string

var createPackageCmd = &cobra.Command{
	Use:   "package <name>",
	Short: "Scaffold a package manifest",
	Long: `Scaffold a package manifest whose discoverable.modules maps each module
type to its globs.

Example:
  discoverable create package auth --module route=routes/*.json --module doc=README.md`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := validateName(name); err != nil {
			return err
		}

		data := scaffold.NewScaffoldData(name, scaffold.KindPackage)
		if manifestName != "" {
			data.Manifest = manifestName
		}
		for _, s := range createPackageModules {
			spec, err := scaffold.ParseModuleSpec(s)
			if err != nil {
				return err
			}
			data.Modules = append(data.Modules, spec)
		}

		result, err := scaffold.Generate(scaffold.KindPackage, data, resolveOutputDir(name))
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		printResult(out, scaffold.KindPackage, result)
		fmt.Fprintln(out, "\nNext steps:")
		fmt.Fprintln(out, "  1. Add module files matching the declared globs")
		fmt.Fprintln(out, "  2. List them with 'discoverable modules --type <type>'")
		return nil
	},
}

func init() {
	createRootCmd.Flags().StringArrayVar(&createRootPackages, "packages", nil, "Package glob (repeatable)")
	createPackageCmd.Flags().StringArrayVar(&createPackageModules, "module", nil, "Module type and globs as type=glob[,glob...] (repeatable)")
}

// ─── Helpers ───────────────────────────────────────────────────────

func validateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("invalid name %q: must be a lower-case package name, optionally @scoped", name)
	}
	return nil
}

func resolveOutputDir(name string) string {
	if createOutputDir != "" {
		return createOutputDir
	}
	return filepath.Join(".", path.Base(name))
}

func printResult(w io.Writer, kind string, result *scaffold.Result) {
	fmt.Fprintf(w, "Created %s manifest at %s/\n", kind, result.OutputDir)
	for _, f := range result.Files {
		fmt.Fprintf(w, "  %s\n", f)
	}
	if len(result.Warnings) > 0 {
		fmt.Fprintln(w, "\nWarnings:")
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  - %s\n", warning)
		}
	}
}
