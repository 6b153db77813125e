package totalistic

import "strconv"

// Config controls the automaton dimensions and step parallelism.
type Config struct {
	Rows    int
	Cols    int
	Workers int
}

// DefaultConfig returns a 180x320 board.
func DefaultConfig() Config {
	return Config{Rows: 180, Cols: 320, Workers: 1}
}

// FromMap populates a Config from a string map. "h" and "w" are accepted as
// aliases for "rows" and "cols".
func FromMap(cfg map[string]string) Config {
	c := DefaultConfig()
	if cfg == nil {
		return c
	}
	for _, key := range []string{"h", "rows"} {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				c.Rows = parsed
			}
		}
	}
	for _, key := range []string{"w", "cols"} {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				c.Cols = parsed
			}
		}
	}
	if v, ok := cfg["workers"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Workers = parsed
		}
	}
	return c
}
