package totalistic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torus-ca/pkg/core"
	"torus-ca/pkg/rule"
)

func TestBlinkerOscillation(t *testing.T) {
	life, err := New("life", rule.Life, Config{Rows: 5, Cols: 5})
	require.NoError(t, err)

	cols := life.Size().Cols
	set := func(x, y int) { life.Cells()[y*cols+x] = 1 }
	set(2, 1)
	set(2, 2)
	set(2, 3)

	life.Step()
	expects := map[[2]int]bool{{1, 2}: true, {2, 2}: true, {3, 2}: true}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			alive := life.Cells()[y*cols+x] == 1
			assert.Equal(t, expects[[2]int{x, y}], alive, "cell (%d,%d)", x, y)
		}
	}

	life.Step()
	expects = map[[2]int]bool{{2, 1}: true, {2, 2}: true, {2, 3}: true}
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			alive := life.Cells()[y*cols+x] == 1
			assert.Equal(t, expects[[2]int{x, y}], alive, "after second step cell (%d,%d)", x, y)
		}
	}
}

func TestResetDeterministic(t *testing.T) {
	a, err := New("vote", rule.Vote, Config{Rows: 30, Cols: 40})
	require.NoError(t, err)
	a.Reset(77)
	first := append([]uint8(nil), a.Cells()...)
	a.Step()
	a.Reset(77)
	assert.Equal(t, first, a.Cells())
	assert.Zero(t, a.Grid().Generation())

	a.Reset(78)
	assert.NotEqual(t, first, a.Cells())
}

func TestRandomizeFillsBoard(t *testing.T) {
	a, err := New("major", rule.Major, Config{Rows: 100, Cols: 100})
	require.NoError(t, err)
	a.Randomize()
	pop := a.Grid().Population()
	assert.Greater(t, pop, 4000)
	assert.Less(t, pop, 6000)
}

func TestWorkersMatchSerial(t *testing.T) {
	serial, err := New("minor", rule.Minor, Config{Rows: 40, Cols: 50})
	require.NoError(t, err)
	parallel, err := New("minor", rule.Minor, Config{Rows: 40, Cols: 50, Workers: 4})
	require.NoError(t, err)
	serial.Reset(9)
	parallel.Reset(9)
	for i := 0; i < 8; i++ {
		serial.Step()
		parallel.Step()
	}
	assert.Equal(t, serial.Cells(), parallel.Cells())
}

func TestNewRejectsBadSize(t *testing.T) {
	_, err := New("life", rule.Life, Config{Rows: 0, Cols: 3})
	assert.ErrorIs(t, err, core.ErrInvalidSize)
}

func TestPresetsRegistered(t *testing.T) {
	for _, p := range rule.Presets() {
		sim, err := core.NewSim(p.Name, map[string]string{"rows": "8", "w": "6"})
		require.NoError(t, err, p.Name)
		assert.Equal(t, p.Name, sim.Name())
		assert.Equal(t, core.Size{Rows: 8, Cols: 6}, sim.Size())

		a, ok := sim.(*Automaton)
		require.True(t, ok)
		assert.Equal(t, p.Rule, a.Rule())
	}
}

func TestFromMap(t *testing.T) {
	assert.Equal(t, DefaultConfig(), FromMap(nil))

	c := FromMap(map[string]string{"h": "12", "cols": "34", "workers": "3"})
	assert.Equal(t, Config{Rows: 12, Cols: 34, Workers: 3}, c)

	c = FromMap(map[string]string{"rows": "-4", "w": "abc", "workers": "0"})
	assert.Equal(t, DefaultConfig(), c)
}

func TestParameters(t *testing.T) {
	a, err := New("life", rule.Life, Config{Rows: 3, Cols: 4})
	require.NoError(t, err)
	a.Grid().Set(1, 1, true)
	a.Step()

	snap := a.Parameters()
	for key, want := range map[string]string{
		"rule":       "life",
		"notation":   "B3/S23",
		"mode":       "exclude-self",
		"size":       "3x4",
		"generation": "1",
		"population": "0",
	} {
		p, ok := snap.Lookup(key)
		require.True(t, ok, key)
		assert.Equal(t, want, p.Value, key)
	}
}
