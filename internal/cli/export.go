package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/roach88/batchop/internal/model"
)

// ExportFormats defines the allowed --as values.
var ExportFormats = []string{"json", "yaml"}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	var as string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the stored variables and presets",
		Long: `Print the whole stored document, variables and presets, in the same shape
it is persisted in. Timestamps are milliseconds since the Unix epoch.

Example:
  batchop export > backup.json
  batchop export --as yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(app *App, f *OutputFormatter) error {
				doc, err := app.Repo.Load(cmd.Context())
				if err != nil {
					return reportError(f, err)
				}
				data, err := encodeDocument(doc, as)
				if err != nil {
					return reportError(f, err)
				}
				_, err = f.Writer.Write(data)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&as, "as", "json", "document encoding (json|yaml)")
	return cmd
}

func encodeDocument(doc *model.Document, as string) ([]byte, error) {
	switch as {
	case "json":
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	case "yaml":
		return yaml.Marshal(doc)
	default:
		return nil, fmt.Errorf("invalid export encoding %q: must be one of %v", as, ExportFormats)
	}
}
