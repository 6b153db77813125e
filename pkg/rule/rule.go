package rule

import (
	"fmt"
	"strings"
)

// CountMode selects which cells of the 3x3 block contribute to a neighbour
// count. Its value is the largest count the mode can produce.
type CountMode uint8

const (
	// ExcludeSelf counts the eight surrounding cells (Moore neighbourhood).
	ExcludeSelf CountMode = 8
	// IncludeSelf counts all nine cells of the block, the centre included.
	IncludeSelf CountMode = 9
)

// MaxCount returns the largest neighbour count the mode can produce.
func (m CountMode) MaxCount() int { return int(m) }

// String returns the configuration name of the mode.
func (m CountMode) String() string {
	switch m {
	case ExcludeSelf:
		return "exclude-self"
	case IncludeSelf:
		return "include-self"
	default:
		return fmt.Sprintf("CountMode(%d)", uint8(m))
	}
}

// ParseCountMode accepts the configuration names of a mode as well as the
// cell counts "8" and "9".
func ParseCountMode(s string) (CountMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "exclude-self", "exclude", "moore", "8":
		return ExcludeSelf, nil
	case "include-self", "include", "block", "9":
		return IncludeSelf, nil
	}
	return 0, fmt.Errorf("%w: unknown count mode %q", ErrSyntax, s)
}

// Table is a next-state lookup indexed by neighbour count: bit k holds the
// next state for a count of exactly k.
type Table uint16

const tableMask Table = 1<<10 - 1

// TableOf builds a table with the given counts set. Counts outside 0..9 are
// ignored.
func TableOf(counts ...int) Table {
	var t Table
	for _, k := range counts {
		if k < 0 || k > 9 {
			continue
		}
		t |= 1 << uint(k)
	}
	return t
}

// Has reports whether a count of k yields a live cell.
func (t Table) Has(k int) bool {
	if k < 0 || k > 9 {
		return false
	}
	return t>>uint(k)&1 == 1
}

// Counts lists the set counts in ascending order.
func (t Table) Counts() []int {
	var out []int
	for k := 0; k <= 9; k++ {
		if t.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

// Rule maps a cell's current state and neighbour count to its next state.
// The zero value kills every cell. Rules are plain values and never change
// after construction, so they can be shared freely between goroutines.
type Rule struct {
	tables [2]Table
	mode   CountMode
}

// New builds a rule from the table used for dead cells, the table used for
// live cells and the count mode. Bits above 9 are dropped.
func New(dead, alive Table, mode CountMode) Rule {
	return Rule{tables: [2]Table{dead & tableMask, alive & tableMask}, mode: mode}
}

// Next returns the next state of a cell. Callers must keep count within
// 0..Mode().MaxCount(); the neighbour counter guarantees this.
func (r Rule) Next(alive bool, count int) bool {
	idx := 0
	if alive {
		idx = 1
	}
	return r.tables[idx]>>uint(count)&1 == 1
}

// NextCell is Next over the 0/1 cell encoding used by grids.
func (r Rule) NextCell(state uint8, count int) uint8 {
	return uint8(r.tables[state&1] >> uint(count) & 1)
}

// Mode returns the count mode.
func (r Rule) Mode() CountMode { return r.mode }

// Dead returns the table consulted for dead cells.
func (r Rule) Dead() Table { return r.tables[0] }

// Alive returns the table consulted for live cells.
func (r Rule) Alive() Table { return r.tables[1] }
