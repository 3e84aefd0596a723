package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/discoverable-labs/discoverable/pkg/catalog"
	"github.com/spf13/cobra"
)

var discoverFilter filterFlags

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Load every module of a type and print the resources",
	Long: `Load the modules of --type across all discovered packages and print the
loaded resources as a JSON array, in the same order as 'modules'.

The loader is chosen by file extension: .json, .yaml/.yml, .toml, .cue, .hcl,
.txt/.md, and .js/.cjs (evaluated with node).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := openCatalog()
		if err != nil {
			return err
		}
		return runDiscover(cmd.Context(), cmd.OutOrStdout(), c, discoverFilter.filter())
	},
}

func init() {
	discoverFilter.register(discoverCmd)
	_ = discoverCmd.MarkFlagRequired("type")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(ctx context.Context, w io.Writer, c *catalog.Catalog, f catalog.Filter) error {
	resources, err := c.Discover(ctx, f)
	if err != nil {
		return fmt.Errorf("discovering %s modules in %s: %w", f.Type, c.Root(), err)
	}
	return printJSON(w, resources)
}
