package core

import (
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"torus-ca/pkg/rule"
)

// MaxCells bounds the number of cells a grid may hold.
const MaxCells = 1 << 26

// ErrInvalidSize is returned by NewGrid for unusable dimensions.
var ErrInvalidSize = errors.New("core: invalid grid size")

// Grid is a toroidal field of binary cells stored row-major. It owns the live
// buffer and a scratch buffer of the same shape; Step writes the next
// generation into scratch and swaps, so no cell ever observes a neighbour
// that was already advanced in the same pass.
type Grid struct {
	rows, cols int
	cur        []uint8
	nxt        []uint8
	gen        uint64
}

// NewGrid allocates a dead grid with the given dimensions.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, rows, cols)
	}
	if rows > MaxCells/cols {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidSize, rows, cols, MaxCells)
	}
	n := rows * cols
	return &Grid{rows: rows, cols: cols, cur: make([]uint8, n), nxt: make([]uint8, n)}, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// Size returns the grid dimensions.
func (g *Grid) Size() Size { return Size{Rows: g.rows, Cols: g.cols} }

// Cells exposes the live buffer. Every element is 0 or 1. Callers must treat
// it as read-only; it is replaced by the scratch buffer on every Step.
func (g *Grid) Cells() []uint8 { return g.cur }

// Generation reports how many steps ran since the last randomize or clear.
func (g *Grid) Generation() uint64 { return g.gen }

// Index returns the linear slice index for in-range coordinates (r, c).
func (g *Grid) Index(r, c int) int { return r*g.cols + c }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(r, c int) (int, int) {
	return wrap(r, g.rows), wrap(c, g.cols)
}

// Alive reports the state of cell (r, c). Coordinates wrap.
func (g *Grid) Alive(r, c int) bool {
	r, c = g.Wrap(r, c)
	return g.cur[g.Index(r, c)] == 1
}

// Set changes the state of cell (r, c). Coordinates wrap.
func (g *Grid) Set(r, c int, alive bool) {
	r, c = g.Wrap(r, c)
	var v uint8
	if alive {
		v = 1
	}
	g.cur[g.Index(r, c)] = v
}

// Population counts the live cells.
func (g *Grid) Population() int {
	n := 0
	for _, v := range g.cur {
		n += int(v)
	}
	return n
}

// Clear kills every cell.
func (g *Grid) Clear() {
	clear(g.cur)
	g.gen = 0
}

// Randomize draws every cell from the process-wide random source.
func (g *Grid) Randomize() {
	fillBinaryGlobal(g.cur)
	g.gen = 0
}

// RandomizeFrom draws every cell from rng.
func (g *Grid) RandomizeFrom(rng *RNG) {
	FillBinary(rng.Source(), g.cur)
	g.gen = 0
}

// CountNeighbors counts live cells around (r, c) under mode.
func (g *Grid) CountNeighbors(r, c int, mode rule.CountMode) int {
	return CountNeighbors(g.cur, g.rows, g.cols, r, c, mode)
}

// Step advances the grid by one generation under rl.
func (g *Grid) Step(rl rule.Rule) {
	g.advance(rl, 0, g.rows)
	g.swap()
}

// StepParallel is Step with rows split into strips evaluated concurrently by
// at most workers goroutines. The result is identical to Step.
func (g *Grid) StepParallel(rl rule.Rule, workers int) {
	if workers <= 1 || g.rows < 2 {
		g.Step(rl)
		return
	}
	if workers > g.rows {
		workers = g.rows
	}
	var eg errgroup.Group
	eg.SetLimit(workers)
	strip := (g.rows + workers - 1) / workers
	for start := 0; start < g.rows; start += strip {
		end := min(start+strip, g.rows)
		eg.Go(func() error {
			g.advance(rl, start, end)
			return nil
		})
	}
	// strips only write disjoint rows of the scratch buffer and never fail
	_ = eg.Wait()
	g.swap()
}

// advance writes the next state of rows [start, end) into the scratch buffer.
func (g *Grid) advance(rl rule.Rule, start, end int) {
	mode := rl.Mode()
	for r := start; r < end; r++ {
		for c := 0; c < g.cols; c++ {
			idx := r*g.cols + c
			n := CountNeighbors(g.cur, g.rows, g.cols, r, c, mode)
			g.nxt[idx] = rl.NextCell(g.cur[idx], n)
		}
	}
}

func (g *Grid) swap() {
	g.cur, g.nxt = g.nxt, g.cur
	g.gen++
}

// CountNeighbors sums the 3x3 block of cells centred on (r, c) in a row-major
// rows x cols buffer, wrapping at the edges. The centre contributes only under
// rule.IncludeSelf. On grids narrower than three cells the wrapped offsets
// land on the same cell more than once and each visit is counted.
func CountNeighbors(cells []uint8, rows, cols, r, c int, mode rule.CountMode) int {
	count := 0
	for dr := -1; dr <= 1; dr++ {
		rr := wrap(r+dr, rows) * cols
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 && mode != rule.IncludeSelf {
				continue
			}
			count += int(cells[rr+wrap(c+dc, cols)])
		}
	}
	return count
}

func wrap(x, n int) int {
	return (x%n + n) % n
}
