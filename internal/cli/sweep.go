package cli

import (
	"cmp"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"strings"
	"sync"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"torus-ca/internal/config"
	"torus-ca/pkg/core"
	"torus-ca/pkg/rule"
	"torus-ca/pkg/sims/totalistic"
)

// SweepOptions holds flags for the sweep command.
type SweepOptions struct {
	*RootOptions
	Seeds       int
	Generations int
	Jobs        int
	Rules       []string
}

// SweepResult is the final state of one rule/seed scenario.
type SweepResult struct {
	Rule       string  `json:"rule"`
	Notation   string  `json:"notation"`
	Seed       int64   `json:"seed"`
	Population int     `json:"population"`
	Density    float64 `json:"density"`
}

// SweepReport is the output of the sweep command, densest first.
type SweepReport struct {
	Generations int           `json:"generations"`
	Rows        int           `json:"rows"`
	Cols        int           `json:"cols"`
	Results     []SweepResult `json:"results"`
}

func (r SweepReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d scenarios, %d generations on %dx%d\n", len(r.Results), r.Generations, r.Rows, r.Cols)
	tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%s\t%s\tseed %d\t%d\t%.4f\n", res.Rule, res.Notation, res.Seed, res.Population, res.Density)
	}
	_ = tw.Flush()
	return strings.TrimSuffix(b.String(), "\n")
}

type scenario struct {
	preset rule.Preset
	seed   int64
}

// NewSweepCommand creates the sweep command.
func NewSweepCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SweepOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Compare rules across many seeds",
		Long: `Run every selected rule from --seeds consecutive seeds, starting at --seed,
and report the final density of each scenario, densest first.

Example:
  catool sweep --seeds 16 --generations 300
  catool sweep --rules life,minor --rows 64 --cols 64`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSweep(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Seeds, "seeds", 8, "seeds per rule")
	cmd.Flags().IntVarP(&opts.Generations, "generations", "g", 200, "generations per scenario")
	cmd.Flags().IntVarP(&opts.Jobs, "jobs", "j", runtime.NumCPU(), "scenarios evaluated concurrently")
	cmd.Flags().StringSliceVar(&opts.Rules, "rules", nil, "rules to sweep (default: presets and configured rules)")

	return cmd
}

func runSweep(opts *SweepOptions, cmd *cobra.Command) error {
	if opts.Seeds < 1 || opts.Generations < 0 || opts.Jobs < 1 {
		return NewExitError(ExitCommandError, "--seeds and --jobs must be positive and --generations non-negative")
	}
	cfg, err := opts.resolveConfig(cmd)
	if err != nil {
		return err
	}
	presets, err := sweepRules(cfg, opts.Rules)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to select rules", err)
	}

	var scenarios []scenario
	for _, p := range presets {
		for i := range opts.Seeds {
			scenarios = append(scenarios, scenario{preset: p, seed: cfg.Seed + int64(i)})
		}
	}
	slog.Info("sweep started", "scenarios", len(scenarios), "jobs", opts.Jobs, "generations", opts.Generations)

	jobs := make(chan scenario)
	results := make(chan SweepResult)
	errs := make(chan error, len(scenarios))
	var wg sync.WaitGroup

	tc := totalistic.Config{Rows: cfg.Rows, Cols: cfg.Cols, Workers: 1}
	for range opts.Jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for sc := range jobs {
				res, err := runScenario(sc, tc, opts.Generations)
				if err != nil {
					errs <- err
					continue
				}
				results <- res
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	go func() {
		for _, sc := range scenarios {
			jobs <- sc
		}
		close(jobs)
	}()

	start := time.Now()
	report := SweepReport{Generations: opts.Generations, Rows: cfg.Rows, Cols: cfg.Cols}
	for res := range results {
		report.Results = append(report.Results, res)
	}
	select {
	case err := <-errs:
		return WrapExitError(ExitFailure, "scenario failed", err)
	default:
	}
	slices.SortFunc(report.Results, func(a, b SweepResult) int {
		if c := cmp.Compare(b.Density, a.Density); c != 0 {
			return c
		}
		if c := cmp.Compare(a.Rule, b.Rule); c != 0 {
			return c
		}
		return cmp.Compare(a.Seed, b.Seed)
	})
	slog.Info("sweep finished", "elapsed", time.Since(start))

	return opts.formatter(cmd).Success(report)
}

// sweepRules returns the named rules, or every preset and custom rule.
func sweepRules(cfg config.Config, names []string) ([]rule.Preset, error) {
	custom, err := cfg.CustomRules()
	if err != nil {
		return nil, err
	}
	all := append(rule.Presets(), custom...)
	if len(names) == 0 {
		return all, nil
	}
	out := make([]rule.Preset, 0, len(names))
	for _, name := range names {
		i := slices.IndexFunc(all, func(p rule.Preset) bool { return p.Name == name })
		if i >= 0 {
			out = append(out, all[i])
			continue
		}
		r, err := rule.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("unknown rule %q", name)
		}
		out = append(out, rule.Preset{Name: name, Rule: r})
	}
	return out, nil
}

func runScenario(sc scenario, cfg totalistic.Config, generations int) (SweepResult, error) {
	a, err := totalistic.New(sc.preset.Name, sc.preset.Rule, cfg)
	if err != nil {
		return SweepResult{}, err
	}
	a.Reset(sc.seed)
	for range generations {
		a.Step()
	}
	pop := a.Grid().Population()
	return SweepResult{
		Rule:       sc.preset.Name,
		Notation:   sc.preset.Rule.String(),
		Seed:       sc.seed,
		Population: pop,
		Density:    float64(pop) / float64(core.Size{Rows: cfg.Rows, Cols: cfg.Cols}.Cells()),
	}, nil
}
