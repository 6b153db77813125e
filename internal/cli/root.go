// Package cli implements the catool command tree.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"torus-ca/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Flagged receives the config flags; only the ones set on the command
	// line override the file and defaults.
	Flagged config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for catool.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{Flagged: config.Default()}

	cmd := &cobra.Command{
		Use:   "catool",
		Short: "Toroidal cellular automata",
		Long: `catool runs two-table totalistic cellular automata on a toroidal grid.

Rules are presets (life, minor, major, vote), names declared in a YAML
config file, or inline B/S notation such as B36/S23 or B5678/S45678/N9.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			setupLogging(cmd, opts.Verbose)
			return nil
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return WrapExitError(ExitCommandError, "invalid flags", err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	gofs := flag.NewFlagSet("config", flag.ContinueOnError)
	opts.Flagged.Bind(gofs)
	cmd.PersistentFlags().AddGoFlagSet(gofs)

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewRulesCommand(opts))
	cmd.AddCommand(NewSweepCommand(opts))
	cmd.AddCommand(NewTermCommand(opts))

	return cmd
}

// Execute runs the command tree with the process arguments.
func Execute() error {
	return ExecuteCommand(NewRootCommand())
}

// ExecuteCommand runs cmd, reports any error on its error writer and returns
// the error with its exit code attached.
func ExecuteCommand(cmd *cobra.Command) error {
	err := cmd.Execute()
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) && strings.HasPrefix(err.Error(), "unknown command") {
		err = WrapExitError(ExitCommandError, "invalid command", err)
	}
	f := &OutputFormatter{Format: formatOf(cmd), Writer: cmd.ErrOrStderr()}
	_ = f.Error(err)
	return err
}

func formatOf(cmd *cobra.Command) string {
	if fl := cmd.PersistentFlags().Lookup("format"); fl != nil && fl.Value.String() == "json" {
		return "json"
	}
	return "text"
}

func setupLogging(cmd *cobra.Command, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
}

// resolveConfig layers defaults, the config file and the flags the user set.
func (o *RootOptions) resolveConfig(cmd *cobra.Command) (config.Config, error) {
	var changed []string
	cmd.Flags().Visit(func(f *pflag.Flag) {
		changed = append(changed, f.Name)
	})
	cfg, err := config.Resolve(o.Flagged, changed)
	if err != nil {
		return cfg, WrapExitError(ExitCommandError, "failed to resolve config", err)
	}
	slog.Debug("config resolved", "file", cfg.File, "rule", cfg.Rule, "rows", cfg.Rows, "cols", cfg.Cols, "seed", cfg.Seed)
	return cfg, nil
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}
