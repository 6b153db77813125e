package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"torus-ca/internal/render"
)

// RunOptions holds flags for the run command.
type RunOptions struct {
	*RootOptions
	Generations int
	Every       int
	Print       bool
	RunID       string

	// NewRunID allows overriding the run id generator (for testing).
	// If nil, defaults to uuid.NewV7.
	NewRunID func() (uuid.UUID, error)
}

// Report is the population sampled at one generation.
type Report struct {
	Generation uint64 `json:"generation"`
	Population int    `json:"population"`
}

// RunResult is the output of the run command.
type RunResult struct {
	RunID       string   `json:"run_id"`
	Rule        string   `json:"rule"`
	Notation    string   `json:"notation"`
	Rows        int      `json:"rows"`
	Cols        int      `json:"cols"`
	Seed        int64    `json:"seed"`
	Generations uint64   `json:"generations"`
	Population  int      `json:"population"`
	Density     float64  `json:"density"`
	Reports     []Report `json:"reports,omitempty"`
	Grid        string   `json:"grid,omitempty"`
}

func (r RunResult) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "run %s\n", r.RunID)
	fmt.Fprintf(&b, "rule %s (%s) on %dx%d, seed %d\n", r.Rule, r.Notation, r.Rows, r.Cols, r.Seed)
	for _, rep := range r.Reports {
		fmt.Fprintf(&b, "  gen %d: population %d\n", rep.Generation, rep.Population)
	}
	fmt.Fprintf(&b, "generation %d: population %d (density %.4f)", r.Generations, r.Population, r.Density)
	if r.Grid != "" {
		b.WriteString("\n")
		b.WriteString(strings.TrimSuffix(r.Grid, "\n"))
	}
	return b.String()
}

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Step an automaton headlessly",
		Long: `Seed the grid and advance it a fixed number of generations without a window.

Example:
  catool run --rule life --rows 64 --cols 64 --generations 500 --every 100
  catool run --rule B36/S23 --generations 10 --print --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Generations, "generations", "g", 100, "generations to step")
	cmd.Flags().IntVar(&opts.Every, "every", 0, "report population every N generations (0 disables)")
	cmd.Flags().BoolVar(&opts.Print, "print", false, "include the final grid in the output")
	cmd.Flags().StringVar(&opts.RunID, "run-id", "", "run id (default: a new UUIDv7)")

	return cmd
}

func runHeadless(opts *RunOptions, cmd *cobra.Command) error {
	if opts.Generations < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--generations must be >= 0, got %d", opts.Generations))
	}
	if opts.Every < 0 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--every must be >= 0, got %d", opts.Every))
	}
	cfg, err := opts.resolveConfig(cmd)
	if err != nil {
		return err
	}
	runID, err := opts.runID()
	if err != nil {
		return WrapExitError(ExitFailure, "failed to generate run id", err)
	}

	sim, err := cfg.NewSim()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to build automaton", err)
	}
	sim.Reset(cfg.Seed)
	grid := sim.Grid()

	log := slog.With("run_id", runID, "rule", sim.Name())
	log.Info("run started", "notation", sim.Rule().String(), "rows", cfg.Rows, "cols", cfg.Cols,
		"seed", cfg.Seed, "generations", opts.Generations, "workers", cfg.Workers)

	ctx := cmd.Context()
	res := RunResult{
		RunID:    runID,
		Rule:     sim.Name(),
		Notation: sim.Rule().String(),
		Rows:     cfg.Rows,
		Cols:     cfg.Cols,
		Seed:     cfg.Seed,
	}
	for i := 1; i <= opts.Generations; i++ {
		if ctx != nil && ctx.Err() != nil {
			return WrapExitError(ExitFailure, "run interrupted", ctx.Err())
		}
		sim.Step()
		if opts.Every > 0 && i%opts.Every == 0 {
			rep := Report{Generation: grid.Generation(), Population: grid.Population()}
			log.Debug("progress", "generation", rep.Generation, "population", rep.Population)
			res.Reports = append(res.Reports, rep)
		}
	}

	res.Generations = grid.Generation()
	res.Population = grid.Population()
	res.Density = float64(res.Population) / float64(cfg.Rows*cfg.Cols)
	if opts.Print {
		res.Grid = render.Text(sim.Cells(), sim.Size())
	}
	log.Info("run finished", "generation", res.Generations, "population", res.Population)

	return opts.formatter(cmd).Success(res)
}

func (o *RunOptions) runID() (string, error) {
	if o.RunID != "" {
		return o.RunID, nil
	}
	gen := o.NewRunID
	if gen == nil {
		gen = uuid.NewV7
	}
	id, err := gen()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
