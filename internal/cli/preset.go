package cli

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/batchop/internal/model"
	"github.com/roach88/batchop/internal/preset"
)

// presetFlags holds the editable fields of a preset.
type presetFlags struct {
	Command   string
	Name      string
	From      string
	To        string
	SkipExist bool
	JSONPath  string
}

func (p *presetFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.Command, "command", "", "operation kind (copy|modify-json)")
	cmd.Flags().StringVar(&p.Name, "name", "", "display name")
	cmd.Flags().StringVar(&p.From, "from", "", "source path, may contain {{variables}}")
	cmd.Flags().StringVar(&p.To, "to", "", "target path, may contain {{variables}}")
	cmd.Flags().BoolVar(&p.SkipExist, "skip-exist", false, "skip targets that already exist")
	cmd.Flags().StringVar(&p.JSONPath, "json-path", "", "JSON path to modify (modify-json only)")
}

func (p *presetFlags) input() model.ParamSetInput {
	return model.ParamSetInput{
		Name:      p.Name,
		Command:   model.Command(p.Command),
		From:      p.From,
		To:        p.To,
		SkipExist: p.SkipExist,
		JSONPath:  p.JSONPath,
	}
}

// overlay applies only the flags set on cmd to in.
func (p *presetFlags) overlay(cmd *cobra.Command, in model.ParamSetInput) model.ParamSetInput {
	changed := cmd.Flags().Changed
	if changed("command") {
		in.Command = model.Command(p.Command)
	}
	if changed("name") {
		in.Name = p.Name
	}
	if changed("from") {
		in.From = p.From
	}
	if changed("to") {
		in.To = p.To
	}
	if changed("skip-exist") {
		in.SkipExist = p.SkipExist
	}
	if changed("json-path") {
		in.JSONPath = p.JSONPath
	}
	return in
}

// parseCommandFilter converts an optional --command value.
func parseCommandFilter(raw string) (model.Command, error) {
	if raw == "" {
		return "", nil
	}
	return model.ParseCommand(raw)
}

// NewPresetCommand creates the preset command group.
func NewPresetCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "preset",
		Aliases: []string{"presets"},
		Short:   "Manage saved operations",
		Long: `Manage saved copy and modify-json operations (presets).

Example:
  batchop preset add --command copy --name backup --from "{{Desktop}}/in" --to "{{Desktop}}/out"
  batchop preset add --command modify-json --name meta --from a.json --to b.json --json-path '$.meta'
  batchop preset list --command copy
  batchop preset edit <id> --skip-exist
  batchop preset show backup`,
	}

	cmd.AddCommand(newPresetListCommand(rootOpts))
	cmd.AddCommand(newPresetAddCommand(rootOpts))
	cmd.AddCommand(newPresetEditCommand(rootOpts))
	cmd.AddCommand(newPresetRemoveCommand(rootOpts))
	cmd.AddCommand(newPresetShowCommand(rootOpts))

	return cmd
}

func newPresetListCommand(rootOpts *RootOptions) *cobra.Command {
	var command string
	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List presets, optionally for one command",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(app *App, f *OutputFormatter) error {
				filter, err := parseCommandFilter(command)
				if err != nil {
					return reportError(f, err)
				}
				sets, err := app.Service.ParamSets(cmd.Context(), filter)
				if err != nil {
					return reportError(f, err)
				}
				if sets == nil {
					sets = []model.ParamSet{}
				}
				if f.JSON() {
					return f.Success(sets)
				}
				return writePresetTable(f, sets)
			})
		},
	}
	cmd.Flags().StringVar(&command, "command", "", "only presets for this command (copy|modify-json)")
	return cmd
}

func writePresetTable(f *OutputFormatter, sets []model.ParamSet) error {
	if len(sets) == 0 {
		fmt.Fprintln(f.Writer, "No presets saved.")
		return nil
	}
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCOMMAND\tFROM\tTO")
	for _, ps := range sets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", ps.ID, ps.Name, ps.Command(), ps.Op.Source(), ps.Op.Target())
	}
	return tw.Flush()
}

func newPresetAddCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &presetFlags{}
	cmd := &cobra.Command{
		Use:           "add",
		Short:         "Save a new preset",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(app *App, f *OutputFormatter) error {
				ps, err := app.Service.CreateParamSet(cmd.Context(), flags.input())
				if err != nil {
					return reportError(f, err)
				}
				if f.JSON() {
					return f.Success(ps)
				}
				fmt.Fprintf(f.Writer, "✓ Saved preset %q (%s)\n", ps.Name, ps.ID)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newPresetEditCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &presetFlags{}
	cmd := &cobra.Command{
		Use:           "edit <id>",
		Short:         "Change fields of a saved preset",
		Long:          "Change fields of a saved preset. Fields whose flags are not given keep their current value.",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(app *App, f *OutputFormatter) error {
				existing, err := app.Service.Lookup(cmd.Context(), args[0], "")
				if err != nil {
					return reportError(f, err)
				}
				in := flags.overlay(cmd, model.InputOf(existing))
				ps, err := app.Service.UpdateParamSet(cmd.Context(), existing.ID, in)
				if err != nil {
					return reportError(f, err)
				}
				if f.JSON() {
					return f.Success(ps)
				}
				fmt.Fprintf(f.Writer, "✓ Updated preset %q (%s)\n", ps.Name, ps.ID)
				return nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

func newPresetRemoveCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "rm <id>",
		Short:         "Remove a preset",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(app *App, f *OutputFormatter) error {
				if err := app.Service.DeleteParamSet(cmd.Context(), args[0]); err != nil {
					return reportError(f, err)
				}
				if f.JSON() {
					return f.Success(map[string]string{"removed": args[0]})
				}
				fmt.Fprintf(f.Writer, "✓ Removed %s\n", args[0])
				return nil
			})
		},
	}
}

// presetView is the show/dry-run payload.
type presetView struct {
	ParamSet   model.ParamSet `json:"paramSet"`
	Helper     string         `json:"helper"`
	Args       []string       `json:"args"`
	Unresolved []string       `json:"unresolved,omitempty"`
}

func newPresetView(app *App, plan preset.Plan) presetView {
	return presetView{
		ParamSet:   plan.ParamSet,
		Helper:     app.Config.HelperPath,
		Args:       plan.Args,
		Unresolved: plan.Unresolved,
	}
}

func newPresetShowCommand(rootOpts *RootOptions) *cobra.Command {
	var command string
	cmd := &cobra.Command{
		Use:           "show <id-or-name>",
		Short:         "Show a preset and how it resolves now",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(app *App, f *OutputFormatter) error {
				filter, err := parseCommandFilter(command)
				if err != nil {
					return reportError(f, err)
				}
				plan, err := app.Service.Plan(cmd.Context(), args[0], filter)
				if err != nil {
					return reportError(f, err)
				}
				if f.JSON() {
					return f.Success(newPresetView(app, plan))
				}
				return writePresetDetail(f, app, plan)
			})
		},
	}
	cmd.Flags().StringVar(&command, "command", "", "only match presets for this command (copy|modify-json)")
	return cmd
}

func writePresetDetail(f *OutputFormatter, app *App, plan preset.Plan) error {
	ps := plan.ParamSet
	p := model.ParamsOf(ps.Op)

	tw := tabwriter.NewWriter(f.Writer, 0, 0, 1, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", ps.ID)
	fmt.Fprintf(tw, "Name:\t%s\n", ps.Name)
	fmt.Fprintf(tw, "Command:\t%s\n", ps.Command())
	fmt.Fprintf(tw, "From:\t%s\n", p.From)
	fmt.Fprintf(tw, "To:\t%s\n", p.To)
	fmt.Fprintf(tw, "Skip existing:\t%s\n", strconv.FormatBool(p.SkipExist))
	if ps.Command() == model.CommandModifyJSON {
		fmt.Fprintf(tw, "JSON path:\t%s\n", p.JSONPath)
	}
	fmt.Fprintf(tw, "Created:\t%s\n", ps.CreatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(tw, "Updated:\t%s\n", ps.UpdatedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(tw, "Runs:\t%s\n", formatCommandLine(app.Config.HelperPath, plan.Args))
	if err := tw.Flush(); err != nil {
		return err
	}
	writeUnresolvedWarning(f, plan.Unresolved)
	return nil
}
