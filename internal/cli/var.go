package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/batchop/internal/model"
)

// NewVarCommand creates the var command group.
func NewVarCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "var",
		Short: "Manage path variables",
		Long: `Manage the variables substituted into {{name}} placeholders.

Example:
  batchop var set Desktop /Users/me/Desktop
  batchop var list
  batchop var rm Desktop`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:           "list",
		Short:         "List variables",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, runVarList(cmd))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "set <name> <value>",
		Short:         "Create or replace a variable",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, runVarSet(cmd, model.VariableInput{Name: args[0], Value: args[1]}))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:           "rm <name>",
		Short:         "Remove a variable",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, runVarRemove(cmd, args[0]))
		},
	})

	return cmd
}

func runVarList(cmd *cobra.Command) func(*App, *OutputFormatter) error {
	return func(app *App, f *OutputFormatter) error {
		vars, err := app.Service.Variables(cmd.Context())
		if err != nil {
			return reportError(f, err)
		}
		if f.JSON() {
			return f.Success(vars)
		}
		if len(vars) == 0 {
			fmt.Fprintln(f.Writer, "No variables defined.")
			return nil
		}
		tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tVALUE")
		for _, v := range vars {
			fmt.Fprintf(tw, "%s\t%s\n", v.Name, v.Value)
		}
		return tw.Flush()
	}
}

func runVarSet(cmd *cobra.Command, in model.VariableInput) func(*App, *OutputFormatter) error {
	return func(app *App, f *OutputFormatter) error {
		v, err := app.Service.SaveVariable(cmd.Context(), in)
		if err != nil {
			return reportError(f, err)
		}
		if f.JSON() {
			return f.Success(v)
		}
		fmt.Fprintf(f.Writer, "✓ Saved %s = %s\n", v.Name, v.Value)
		return nil
	}
}

func runVarRemove(cmd *cobra.Command, name string) func(*App, *OutputFormatter) error {
	return func(app *App, f *OutputFormatter) error {
		if err := app.Service.DeleteVariable(cmd.Context(), name); err != nil {
			return reportError(f, err)
		}
		if f.JSON() {
			return f.Success(map[string]string{"removed": name})
		}
		fmt.Fprintf(f.Writer, "✓ Removed %s\n", name)
		return nil
	}
}
