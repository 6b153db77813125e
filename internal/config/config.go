package config

import (
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"

	"torus-ca/pkg/core"
	"torus-ca/pkg/rule"
	"torus-ca/pkg/sims/totalistic"
)

//go:embed schema.cue
var schemaSource string

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid config")

// RuleSpec declares a named rule in B/S notation.
type RuleSpec struct {
	Name string `yaml:"name" json:"name"`
	Rule string `yaml:"rule" json:"rule"`
}

// Config holds the startup settings shared by every host.
type Config struct {
	Rows    int        `yaml:"rows" json:"rows"`
	Cols    int        `yaml:"cols" json:"cols"`
	Rule    string     `yaml:"rule" json:"rule"`
	Seed    int64      `yaml:"seed" json:"seed"`
	TPS     int        `yaml:"tps" json:"tps"`
	Scale   int        `yaml:"scale" json:"scale"`
	Workers int        `yaml:"workers" json:"workers"`
	Rules   []RuleSpec `yaml:"rules,omitempty" json:"rules,omitempty"`

	// File is the YAML file the config was loaded from, if any.
	File string `yaml:"-" json:"-"`
}

// Default returns the stock settings: a 180x320 board
// running the minor rule at 30 ticks per second.
func Default() Config {
	return Config{Rows: 180, Cols: 320, Rule: "minor", Seed: 42, TPS: 30, Scale: 4, Workers: 1}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.File, "config", c.File, "YAML config file")
	fs.IntVar(&c.Rows, "rows", c.Rows, "grid rows")
	fs.IntVar(&c.Cols, "cols", c.Cols, "grid columns")
	fs.StringVar(&c.Rule, "rule", c.Rule, "rule name or B/S notation")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for simulation reset")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.Workers, "workers", c.Workers, "goroutines per step")
}

// Load reads a YAML file over the defaults. Unknown keys are rejected. The
// result is not validated; see Resolve.
func Load(path string) (Config, error) {
	c := Default()
	f, err := os.Open(path)
	if err != nil {
		return c, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	c.File = path
	return c, nil
}

// Resolve layers defaults, the file named by flagged.File and the flags
// listed in changed, in that order, and validates the result.
func Resolve(flagged Config, changed []string) (Config, error) {
	c := Default()
	if flagged.File != "" {
		var err error
		if c, err = Load(flagged.File); err != nil {
			return c, err
		}
	}
	for _, name := range changed {
		c.apply(name, flagged)
	}
	return c, c.Validate()
}

func (c *Config) apply(flagName string, src Config) {
	switch flagName {
	case "rows":
		c.Rows = src.Rows
	case "cols":
		c.Cols = src.Cols
	case "rule":
		c.Rule = src.Rule
	case "seed":
		c.Seed = src.Seed
	case "tps":
		c.TPS = src.TPS
	case "scale":
		c.Scale = src.Scale
	case "workers":
		c.Workers = src.Workers
	}
}

// Validate checks the config against the embedded CUE schema and resolves
// the selected rule.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("config schema: %w", err)
	}
	v := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalid, cueerrors.Details(err, nil))
	}
	_, _, err := c.ResolveRule()
	return err
}

// CustomRules parses the rules declared in the config. Names must be unique
// and may not shadow a preset.
func (c Config) CustomRules() ([]rule.Preset, error) {
	out := make([]rule.Preset, 0, len(c.Rules))
	seen := map[string]bool{}
	for _, spec := range c.Rules {
		if _, ok := rule.Lookup(spec.Name); ok {
			return nil, fmt.Errorf("%w: rule %q shadows a preset", ErrInvalid, spec.Name)
		}
		if seen[spec.Name] {
			return nil, fmt.Errorf("%w: rule %q declared twice", ErrInvalid, spec.Name)
		}
		seen[spec.Name] = true
		r, err := rule.Parse(spec.Rule)
		if err != nil {
			return nil, fmt.Errorf("%w: rule %q: %w", ErrInvalid, spec.Name, err)
		}
		out = append(out, rule.Preset{Name: spec.Name, Rule: r})
	}
	return out, nil
}

// ResolveRule returns the name and rule selected by c.Rule: a custom rule,
// then a preset, then inline B/S notation.
func (c Config) ResolveRule() (string, rule.Rule, error) {
	custom, err := c.CustomRules()
	if err != nil {
		return "", rule.Rule{}, err
	}
	for _, p := range custom {
		if p.Name == c.Rule {
			return p.Name, p.Rule, nil
		}
	}
	if r, ok := rule.Lookup(c.Rule); ok {
		return c.Rule, r, nil
	}
	r, err := rule.Parse(c.Rule)
	if err != nil {
		return "", rule.Rule{}, fmt.Errorf("%w: unknown rule %q", ErrInvalid, c.Rule)
	}
	return c.Rule, r, nil
}

// Register adds the custom rules, and an inline selected rule, to the sim
// registry so hosts can build them by name.
func (c Config) Register() error {
	custom, err := c.CustomRules()
	if err != nil {
		return err
	}
	for _, p := range custom {
		core.Register(p.Name, totalistic.Factory(p.Name, p.Rule))
	}
	name, r, err := c.ResolveRule()
	if err != nil {
		return err
	}
	if _, ok := core.Sims()[name]; !ok {
		core.Register(name, totalistic.Factory(name, r))
	}
	return nil
}

// NewSim registers the configured rules and builds the selected automaton.
func (c Config) NewSim() (*totalistic.Automaton, error) {
	if err := c.Register(); err != nil {
		return nil, err
	}
	sim, err := core.NewSim(c.Rule, c.ToMap())
	if err != nil {
		return nil, err
	}
	a, ok := sim.(*totalistic.Automaton)
	if !ok {
		return nil, fmt.Errorf("sim %q is not a totalistic automaton", c.Rule)
	}
	return a, nil
}

// ToMap renders the dimensions in the form core.Factory expects.
func (c Config) ToMap() map[string]string {
	return map[string]string{
		"rows":    strconv.Itoa(c.Rows),
		"cols":    strconv.Itoa(c.Cols),
		"workers": strconv.Itoa(c.Workers),
	}
}
