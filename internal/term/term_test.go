package term

import (
	"context"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torus-ca/pkg/core"
	"torus-ca/pkg/rule"
	"torus-ca/pkg/sims/totalistic"
)

func newScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	return s
}

func newLife(t *testing.T) *totalistic.Automaton {
	t.Helper()
	a, err := totalistic.New("life", rule.Life, totalistic.Config{Rows: 8, Cols: 8, Workers: 1})
	require.NoError(t, err)
	a.Reset(7)
	return a
}

func runeAt(cells []tcell.SimCell, w, x, y int) rune {
	c := cells[y*w+x]
	if len(c.Runes) == 0 {
		return ' '
	}
	return c.Runes[0]
}

func TestRunStepsAndQuits(t *testing.T) {
	screen := newScreen(t, 20, 10)
	sim := newLife(t)

	screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	err := Run(context.Background(), screen, sim, Options{TPS: 30, Seed: 7, Paused: true})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), sim.Grid().Generation())
}

func TestRunResetReturnsToSeed(t *testing.T) {
	screen := newScreen(t, 20, 10)
	sim := newLife(t)
	want := append([]uint8(nil), sim.Cells()...)

	screen.InjectKey(tcell.KeyRune, 'n', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'r', tcell.ModNone)
	screen.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	require.NoError(t, Run(context.Background(), screen, sim, Options{TPS: 30, Seed: 7, Paused: true}))
	assert.Equal(t, uint64(0), sim.Grid().Generation())
	assert.Equal(t, want, sim.Cells())
}

func TestRunQuitsOnCtrlC(t *testing.T) {
	screen := newScreen(t, 20, 10)
	sim := newLife(t)

	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	require.NoError(t, Run(context.Background(), screen, sim, Options{TPS: 30, Paused: true}))
	assert.Equal(t, uint64(0), sim.Grid().Generation())
}

func TestRunStopsOnCancel(t *testing.T) {
	screen := newScreen(t, 20, 10)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, Run(ctx, screen, newLife(t), Options{TPS: 30}))
}

func TestDrawClipsAndWritesStatus(t *testing.T) {
	screen := newScreen(t, 4, 3)
	size := core.Size{Rows: 5, Cols: 5}
	cells := make([]uint8, size.Cells())
	for r := 1; r <= 3; r++ {
		cells[r*size.Cols+2] = 1
	}

	Draw(screen, cells, size, "gen 12")

	contents, w, h := screen.GetContents()
	require.Equal(t, 4, w)
	require.Equal(t, 3, h)
	assert.NotEqual(t, aliveRune, runeAt(contents, w, 2, 0))
	assert.Equal(t, aliveRune, runeAt(contents, w, 2, 1))
	assert.NotEqual(t, aliveRune, runeAt(contents, w, 1, 1))

	var status []rune
	for x := 0; x < w; x++ {
		status = append(status, runeAt(contents, w, x, 2))
	}
	assert.Equal(t, "gen ", string(status))
}

func TestDrawWithoutStatusUsesWholeScreen(t *testing.T) {
	screen := newScreen(t, 3, 3)
	size := core.Size{Rows: 3, Cols: 3}
	cells := []uint8{0, 0, 0, 0, 0, 0, 1, 1, 1}

	Draw(screen, cells, size, "")

	contents, w, _ := screen.GetContents()
	for x := 0; x < 3; x++ {
		assert.Equal(t, aliveRune, runeAt(contents, w, x, 2))
	}
}
