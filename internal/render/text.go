package render

import (
	"bufio"
	"io"
	"strings"

	"torus-ca/pkg/core"
)

const (
	textAlive = '#'
	textDead  = '.'
)

// WriteText writes one line per row, '#' for live cells and '.' for dead.
func WriteText(w io.Writer, cells []uint8, size core.Size) error {
	bw := bufio.NewWriter(w)
	for r := 0; r < size.Rows; r++ {
		row := cells[r*size.Cols : (r+1)*size.Cols]
		for _, v := range row {
			ch := byte(textDead)
			if v != 0 {
				ch = textAlive
			}
			if err := bw.WriteByte(ch); err != nil {
				return err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Text is WriteText into a string.
func Text(cells []uint8, size core.Size) string {
	var b strings.Builder
	b.Grow(size.Rows * (size.Cols + 1))
	_ = WriteText(&b, cells, size)
	return b.String()
}
