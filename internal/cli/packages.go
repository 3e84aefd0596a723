package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/discoverable-labs/discoverable/pkg/catalog"
	"github.com/spf13/cobra"
)

var (
	packagesFilter filterFlags
	packagesJSON   bool
)

var packagesCmd = &cobra.Command{
	Use:   "packages",
	Short: "List discovered packages",
	Long: `List the packages declared by the root manifest's discoverable.packages.

With --type, only packages that have modules of that type are listed;
--package and --module narrow the selection further.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return err
		}
		return runPackages(cmd.Context(), cmd.OutOrStdout(), c, packagesFilter.filter(), packagesJSON)
	},
}

func init() {
	packagesFilter.register(packagesCmd)
	packagesCmd.Flags().BoolVar(&packagesJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(packagesCmd)
}

// packageEntry represents a discovered package for display.
type packageEntry struct {
	Name    string   `json:"name"`
	Version string   `json:"version,omitempty"`
	Types   []string `json:"types"`
	Dir     string   `json:"dir"`
}

func packageEntries(pkgs []*catalog.Package) []packageEntry {
	entries := make([]packageEntry, 0, len(pkgs))
	for _, p := range pkgs {
		e := packageEntry{Name: p.Name(), Types: p.Types(), Dir: p.Dir()}
		if v := p.Version(); v != nil {
			e.Version = v.String()
		}
		if e.Types == nil {
			e.Types = []string{}
		}
		entries = append(entries, e)
	}
	return entries
}

func runPackages(ctx context.Context, w io.Writer, c *catalog.Catalog, f catalog.Filter, asJSON bool) error {
	pkgs, err := c.Packages(ctx, f)
	if err != nil {
		return fmt.Errorf("discovering packages in %s: %w", c.Root(), err)
	}
	entries := packageEntries(pkgs)

	if asJSON {
		return printJSON(w, entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No packages found.")
		return nil
	}
	return printPackagesTable(w, entries)
}

func printPackagesTable(w io.Writer, entries []packageEntry) error {
	tw := tabwriter.NewWriter(w, 0, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVERSION\tTYPES\tDIR")
	for _, e := range entries {
		version := e.Version
		if version == "" {
			version = "-"
		}
		types := strings.Join(e.Types, ",")
		if types == "" {
			types = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Name, version, types, e.Dir)
	}
	return tw.Flush()
}
