package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/batchop/internal/config"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and initialize the config file",
	}
	cmd.AddCommand(newConfigPathCommand(rootOpts))
	cmd.AddCommand(newConfigInitCommand(rootOpts))
	return cmd
}

func newConfigPathCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "path",
		Short:         "Print the config file location",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			path, err := configPath(rootOpts)
			if err != nil {
				return reportError(f, err)
			}
			if f.JSON() {
				return f.Success(map[string]string{"path": path})
			}
			fmt.Fprintln(f.Writer, path)
			return nil
		},
	}
}

func newConfigInitCommand(rootOpts *RootOptions) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the effective configuration to the config file",
		Long: `Write the effective configuration (defaults, then BATCHOP_* environment
overrides, then --helper) to the config file so it can be edited by hand.
An existing file is left alone unless --force is given.

Example:
  batchop config init
  BATCHOP_STORAGE_DRIVER=sqlite batchop config init --force`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := newFormatter(rootOpts, cmd)
			path, err := runConfigInit(rootOpts, force)
			if err != nil {
				return reportError(f, err)
			}
			if f.JSON() {
				return f.Success(map[string]string{"path": path})
			}
			fmt.Fprintf(f.Writer, "✓ Wrote %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}

func configPath(opts *RootOptions) (string, error) {
	if opts.ConfigPath != "" {
		return opts.ConfigPath, nil
	}
	path, err := config.Path()
	if err != nil {
		return "", &configError{err: err}
	}
	return path, nil
}

func runConfigInit(opts *RootOptions, force bool) (string, error) {
	path, err := configPath(opts)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return "", &configError{err: fmt.Errorf("%s already exists (use --force to overwrite)", path)}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return "", &configError{err: err}
	}
	if opts.HelperPath != "" {
		if cfg.HelperPath, err = config.ExpandHome(opts.HelperPath); err != nil {
			return "", &configError{err: err}
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return "", &configError{err: err}
	}
	return path, nil
}
