package cli

import (
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"torus-ca/internal/term"
)

// TermOptions holds flags for the term command.
type TermOptions struct {
	*RootOptions
	Paused bool

	// NewScreen allows overriding the terminal (for testing).
	// If nil, defaults to tcell.NewScreen.
	NewScreen func() (tcell.Screen, error)
}

// NewTermCommand creates the term command.
func NewTermCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TermOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "term",
		Short: "Run an automaton in the terminal",
		Long: `Draw the grid one character per cell, clipped to the terminal.

Keys: space reseed, p pause, n single step, r reset to --seed,
s reset with a fresh seed, q/Esc/Ctrl-C quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTerm(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Paused, "paused", false, "start paused")

	return cmd
}

func runTerm(opts *TermOptions, cmd *cobra.Command) error {
	cfg, err := opts.resolveConfig(cmd)
	if err != nil {
		return err
	}
	sim, err := cfg.NewSim()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build automaton", err)
	}
	sim.Reset(cfg.Seed)

	newScreen := opts.NewScreen
	if newScreen == nil {
		newScreen = tcell.NewScreen
	}
	screen, err := newScreen()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to open terminal", err)
	}
	if err := screen.Init(); err != nil {
		return WrapExitError(ExitFailure, "failed to initialise terminal", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := term.Run(ctx, screen, sim, term.Options{TPS: cfg.TPS, Seed: cfg.Seed, Paused: opts.Paused}); err != nil {
		return WrapExitError(ExitFailure, "terminal host failed", err)
	}
	return nil
}
