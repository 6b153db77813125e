package totalistic

import (
	"strconv"

	"torus-ca/pkg/core"
	"torus-ca/pkg/rule"
)

// Automaton runs a two-table rule on a toroidal grid.
type Automaton struct {
	name    string
	rule    rule.Rule
	grid    *core.Grid
	workers int
}

// New returns an automaton with a dead grid of the given dimensions.
func New(name string, r rule.Rule, cfg Config) (*Automaton, error) {
	g, err := core.NewGrid(cfg.Rows, cfg.Cols)
	if err != nil {
		return nil, err
	}
	return &Automaton{name: name, rule: r, grid: g, workers: cfg.Workers}, nil
}

// Name returns the simulation identifier.
func (a *Automaton) Name() string { return a.name }

// Size returns the grid dimensions.
func (a *Automaton) Size() core.Size { return a.grid.Size() }

// Cells exposes the current grid values.
func (a *Automaton) Cells() []uint8 { return a.grid.Cells() }

// Rule returns the transition rule.
func (a *Automaton) Rule() rule.Rule { return a.rule }

// Grid exposes the underlying engine.
func (a *Automaton) Grid() *core.Grid { return a.grid }

// Reset randomizes the board using the provided seed.
func (a *Automaton) Reset(seed int64) {
	a.grid.RandomizeFrom(core.NewRNG(seed))
}

// Randomize reseeds the board from the process-wide random source.
func (a *Automaton) Randomize() {
	a.grid.Randomize()
}

// Step advances the simulation by one generation.
func (a *Automaton) Step() {
	if a.workers > 1 {
		a.grid.StepParallel(a.rule, a.workers)
		return
	}
	a.grid.Step(a.rule)
}

// Parameters reports the rule and the live state of the board.
func (a *Automaton) Parameters() core.ParameterSnapshot {
	size := a.grid.Size()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "rule",
			Params: []core.Parameter{
				{Key: "rule", Label: "Rule", Value: a.name},
				{Key: "notation", Label: "Notation", Value: a.rule.String()},
				{Key: "mode", Label: "Count", Value: a.rule.Mode().String()},
			},
		},
		{
			Name: "board",
			Params: []core.Parameter{
				{Key: "size", Label: "Size", Value: strconv.Itoa(size.Rows) + "x" + strconv.Itoa(size.Cols)},
				{Key: "generation", Label: "Generation", Value: strconv.FormatUint(a.grid.Generation(), 10)},
				{Key: "population", Label: "Population", Value: strconv.Itoa(a.grid.Population())},
			},
		},
	}}
}

// Factory returns a core.Factory building automata for the named rule.
func Factory(name string, r rule.Rule) core.Factory {
	return func(cfg map[string]string) (core.Sim, error) {
		return New(name, r, FromMap(cfg))
	}
}

func init() {
	for _, p := range rule.Presets() {
		core.Register(p.Name, Factory(p.Name, p.Rule))
	}
}
