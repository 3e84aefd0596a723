package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/discoverable-labs/discoverable/internal/branding"
	"github.com/discoverable-labs/discoverable/internal/config"
	"github.com/discoverable-labs/discoverable/internal/logging"
	"github.com/discoverable-labs/discoverable/pkg/catalog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var (
	rootDir      string
	manifestName string
	verbose      bool

	logger = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` reads a root package manifest, finds the packages it declares under
discoverable.packages, and lists or loads the typed modules each package
declares under discoverable.modules.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
		s := config.Current()
		logger = logging.New(logging.Options{
			Level:   s.LogLevel,
			Format:  s.LogFormat,
			Output:  cmd.ErrOrStderr(),
			Verbose: verbose,
		})
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootDir, "root", "", "Directory holding the root manifest (default: config root, then current directory)")
	pf.StringVar(&manifestName, "manifest", "", "Manifest file name (default: config manifest, then package.json)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// settings returns the configured settings with command-line overrides.
func settings() (config.Settings, error) {
	s := config.Current()
	if rootDir != "" {
		s.Root = rootDir
	}
	if manifestName != "" {
		s.Manifest = manifestName
	}
	if s.Root == "" {
		s.Root = "."
	}
	abs, err := filepath.Abs(s.Root)
	if err != nil {
		return s, fmt.Errorf("resolving root %s: %w", s.Root, err)
	}
	s.Root = abs
	return s, nil
}

// openCatalog builds a catalog from the resolved settings.
func openCatalog() (*catalog.Catalog, error) {
	s, err := settings()
	if err != nil {
		return nil, err
	}
	logger.Debug().Str("root", s.Root).Str("manifest", s.Manifest).Msg("opening catalog")
	return catalog.NewFromConfig(s.Catalog(), catalog.WithLogger(logging.Component(logger, "catalog"))), nil
}
