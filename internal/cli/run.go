package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/batchop/internal/invoke"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Command string
	DryRun  bool
}

// runResult is the JSON payload of a finished run.
type runResult struct {
	presetView
	Outcome invoke.Outcome `json:"outcome"`
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run <id-or-name>",
		Short: "Resolve a preset and run the helper",
		Long: `Resolve a preset's {{variables}} against the current variables and run the
helper executable with the result.

The report is printed as markdown. A helper that exits non-zero or writes to
stderr fails the run with exit code 1. Interrupting batchop stops waiting for
the helper but does not kill it.

Example:
  batchop run backup
  batchop run 0190f1e2-... --dry-run
  batchop run meta --command modify-json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(rootOpts, cmd, func(app *App, f *OutputFormatter) error {
				return runPreset(opts, args[0], cmd, app, f)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Command, "command", "", "only match presets for this command (copy|modify-json)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "print the resolved helper invocation without running it")

	return cmd
}

func runPreset(opts *RunOptions, ref string, cmd *cobra.Command, app *App, f *OutputFormatter) error {
	filter, err := parseCommandFilter(opts.Command)
	if err != nil {
		return reportError(f, err)
	}

	if opts.DryRun {
		plan, err := app.Service.Plan(cmd.Context(), ref, filter)
		if err != nil {
			return reportError(f, err)
		}
		if f.JSON() {
			return f.Success(newPresetView(app, plan))
		}
		fmt.Fprintln(f.Writer, formatCommandLine(app.Config.HelperPath, plan.Args))
		writeUnresolvedWarning(f, plan.Unresolved)
		return nil
	}

	// Setup signal handling so Ctrl-C detaches from the helper
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan) // Prevent signal handler leak

	go func() {
		select {
		case sig := <-sigChan:
			app.Logger.Info("received signal, detaching from helper", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	plan, out, err := app.Service.Run(ctx, ref, filter)
	if err != nil {
		return reportError(f, err)
	}
	return outputOutcome(f, newPresetView(app, plan), out)
}

// outputOutcome prints the run report and maps a failed outcome to
// ExitFailure.
func outputOutcome(f *OutputFormatter, view presetView, out invoke.Outcome) error {
	if f.JSON() {
		if out.Success {
			return f.Success(runResult{presetView: view, Outcome: out})
		}
		_ = f.Error(ErrCodeInvocation, out.Message, runResult{presetView: view, Outcome: out})
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%s: %s", ErrCodeInvocation, out.Message)}
	}

	fmt.Fprint(f.Writer, RenderReport(out))
	writeUnresolvedWarning(f, view.Unresolved)
	if !out.Success {
		return &ExitError{Code: ExitFailure, Err: errors.New(out.Message)}
	}
	return nil
}

// writeUnresolvedWarning notes placeholders left after resolution on the
// diagnostic stream.
func writeUnresolvedWarning(f *OutputFormatter, names []string) {
	if len(names) == 0 {
		return
	}
	f.Warnf("no variable defined for %s", formatPlaceholders(names))
}

func formatPlaceholders(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = "{{" + n + "}}"
	}
	return strings.Join(quoted, ", ")
}

// formatCommandLine renders path and args as a copy-pasteable shell line.
func formatCommandLine(path string, args []string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, shellQuote(path))
	for _, a := range args {
		parts = append(parts, shellQuote(a))
	}
	return strings.Join(parts, " ")
}

// shellQuote single-quotes s when it contains anything a POSIX shell would
// interpret.
func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	if !strings.ContainsAny(s, " \t\n'\"\\$`*?[]{}()<>|&;#~!") {
		return s
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
