// Package term runs a simulation inside a terminal using tcell.
package term

import (
	"context"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"torus-ca/internal/ui"
	"torus-ca/pkg/core"
)

const (
	aliveRune = '█'
	frameRate = 60
)

// Options controls the terminal host.
type Options struct {
	TPS    int
	Seed   int64
	Paused bool
}

type randomizer interface {
	Randomize()
}

// host is the state shared by the event and frame handlers.
type host struct {
	screen tcell.Screen
	sim    core.Sim
	seed   int64
	paused bool
}

// Run drives sim on an initialised screen until the user quits or ctx is
// cancelled. The screen is finalised before Run returns.
func Run(ctx context.Context, screen tcell.Screen, sim core.Sim, opts Options) error {
	defer screen.Fini()

	h := &host{screen: screen, sim: sim, seed: opts.Seed, paused: opts.Paused}
	fs := core.NewFixedStep(opts.TPS)
	frame := time.NewTicker(min(fs.Interval(), time.Second/frameRate))
	defer frame.Stop()

	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	h.draw()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("terminal host cancelled", "sim", sim.Name())
			return nil
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
			case *tcell.EventKey:
				if h.handleKey(ev) {
					return nil
				}
			}
			h.draw()
		case <-frame.C:
			if !fs.ShouldStep() || h.paused {
				continue
			}
			sim.Step()
			h.draw()
		}
	}
}

// handleKey applies a key press and reports whether the host should quit.
func (h *host) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
	default:
		return false
	}
	switch ev.Rune() {
	case 'q', 'Q':
		return true
	case ' ':
		if r, ok := h.sim.(randomizer); ok {
			r.Randomize()
		}
	case 'p', 'P':
		h.paused = !h.paused
	case 'n', 'N':
		h.sim.Step()
	case 'r', 'R':
		h.sim.Reset(h.seed)
	case 's', 'S':
		h.seed = time.Now().UnixNano()
		h.sim.Reset(h.seed)
	}
	return false
}

func (h *host) draw() {
	status := ""
	if p, ok := h.sim.(core.ParameterProvider); ok {
		status = ui.StatusLine(p.Parameters())
	}
	if h.paused {
		status = "[paused]  " + status
	}
	Draw(h.screen, h.sim.Cells(), h.sim.Size(), status)
}

// Draw paints one character per cell, clipped to the screen, and writes
// status on the bottom row when the screen has room for it.
func Draw(screen tcell.Screen, cells []uint8, size core.Size, status string) {
	screen.Clear()
	w, h := screen.Size()
	rows := h
	if status != "" && h > 1 {
		rows = h - 1
		drawString(screen, 0, h-1, w, status)
	}
	rows = min(rows, size.Rows)
	cols := min(w, size.Cols)
	style := tcell.StyleDefault
	for r := 0; r < rows; r++ {
		row := cells[r*size.Cols:]
		for c := 0; c < cols; c++ {
			if row[c] == 1 {
				screen.SetContent(c, r, aliveRune, nil, style)
			}
		}
	}
	screen.Show()
}

func drawString(screen tcell.Screen, x, y, width int, s string) {
	style := tcell.StyleDefault.Reverse(true)
	for _, r := range s {
		if x >= width {
			return
		}
		screen.SetContent(x, y, r, nil, style)
		x++
	}
}
