package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/discoverable-labs/discoverable/pkg/catalog"
	"github.com/spf13/cobra"
)

// filterFlags holds the selection flags shared by the query commands.
type filterFlags struct {
	typ      string
	packages []string
	modules  []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.typ, "type", "", "Module type to select")
	cmd.Flags().StringSliceVar(&f.packages, "package", nil, "Restrict to these package names (repeatable)")
	cmd.Flags().StringSliceVar(&f.modules, "module", nil, "Restrict to these module names within --type (repeatable)")
}

func (f filterFlags) filter() catalog.Filter {
	return catalog.Filter{Type: f.typ, Packages: f.packages, Modules: f.modules}
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
