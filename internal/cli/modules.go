package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/discoverable-labs/discoverable/pkg/catalog"
	"github.com/spf13/cobra"
)

var (
	modulesFilter filterFlags
	modulesJSON   bool
)

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "List discovered modules of a type",
	Long: `List the modules of --type across all discovered packages, in package
declaration order. Modules are not loaded.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return err
		}
		return runModules(cmd.Context(), cmd.OutOrStdout(), c, modulesFilter.filter(), modulesJSON)
	},
}

func init() {
	modulesFilter.register(modulesCmd)
	_ = modulesCmd.MarkFlagRequired("type")
	modulesCmd.Flags().BoolVar(&modulesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(modulesCmd)
}

// moduleEntry represents a discovered module for display.
type moduleEntry struct {
	Package string `json:"package"`
	Type    string `json:"type"`
	Name    string `json:"name"`
	File    string `json:"file"`
}

func moduleEntries(mods []*catalog.Module) []moduleEntry {
	entries := make([]moduleEntry, 0, len(mods))
	for _, m := range mods {
		entries = append(entries, moduleEntry{
			Package: m.Package(),
			Type:    m.Type(),
			Name:    m.Name(),
			File:    m.Filename(),
		})
	}
	return entries
}

func runModules(ctx context.Context, w io.Writer, c *catalog.Catalog, f catalog.Filter, asJSON bool) error {
	mods, err := c.Modules(ctx, f)
	if err != nil {
		return fmt.Errorf("discovering modules in %s: %w", c.Root(), err)
	}
	entries := moduleEntries(mods)

	if asJSON {
		return printJSON(w, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintf(w, "No modules of type %q found.\n", f.Type)
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "PACKAGE\tTYPE\tNAME\tFILE")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Package, e.Type, e.Name, e.File)
	}
	return tw.Flush()
}
