package render

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torus-ca/pkg/core"
	"torus-ca/pkg/rule"
)

func newGolden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func seeded(t *testing.T, rows, cols int, live ...[2]int) *core.Grid {
	t.Helper()
	g, err := core.NewGrid(rows, cols)
	require.NoError(t, err)
	for _, p := range live {
		g.Set(p[0], p[1], true)
	}
	return g
}

func TestTextBlinkerGolden(t *testing.T) {
	gold := newGolden(t)
	g := seeded(t, 5, 5, [2]int{1, 2}, [2]int{2, 2}, [2]int{3, 2})

	gold.Assert(t, "blinker_0", []byte(Text(g.Cells(), g.Size())))
	g.Step(rule.Life)
	gold.Assert(t, "blinker_1", []byte(Text(g.Cells(), g.Size())))
}

func TestTextGliderGolden(t *testing.T) {
	gold := newGolden(t)
	g := seeded(t, 6, 6, [2]int{0, 1}, [2]int{1, 2}, [2]int{2, 0}, [2]int{2, 1}, [2]int{2, 2})

	gold.Assert(t, "glider_0", []byte(Text(g.Cells(), g.Size())))
	for i := 0; i < 4; i++ {
		g.Step(rule.Life)
	}
	gold.Assert(t, "glider_4", []byte(Text(g.Cells(), g.Size())))
}

func TestTextNonSquare(t *testing.T) {
	g := seeded(t, 2, 3, [2]int{0, 0}, [2]int{1, 2})
	assert.Equal(t, "#..\n..#\n", Text(g.Cells(), g.Size()))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriteTextPropagatesErrors(t *testing.T) {
	g := seeded(t, 2, 2)
	assert.EqualError(t, WriteText(failingWriter{}, g.Cells(), g.Size()), "disk full")

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, g.Cells(), g.Size()))
	assert.Equal(t, "..\n..\n", buf.String())
}
