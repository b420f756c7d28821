package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	HelperPath string

	// NewApp allows overriding how commands obtain their components (for
	// testing). If nil, the config file and configured storage are used.
	NewApp AppFactory
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the batchop CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batchop",
		Short: "batchop - saved file operations with variables",
		Long: `Save named copy and modify-json operations, reuse paths through {{variables}},
and run them through the file helper executable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default $BATCHOP_CONFIG or ~/.batchop/config.yaml)")
	cmd.PersistentFlags().StringVar(&opts.HelperPath, "helper", "", "helper executable (overrides helper_path)")

	// Add subcommands
	cmd.AddCommand(NewVarCommand(opts))
	cmd.AddCommand(NewPresetCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// newFormatter returns the formatter for cmd's configured streams.
func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
	}
}

// withApp builds the App, runs fn and closes the App. Build failures are
// reported through the formatter.
func withApp(opts *RootOptions, cmd *cobra.Command, fn func(app *App, f *OutputFormatter) error) error {
	f := newFormatter(opts, cmd)
	factory := opts.NewApp
	if factory == nil {
		factory = defaultApp
	}
	app, err := factory(cmd.Context(), opts, cmd.ErrOrStderr())
	if err != nil {
		return reportError(f, err)
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			app.Logger.Error("error closing storage", "error", closeErr)
		}
	}()
	return fn(app, f)
}
