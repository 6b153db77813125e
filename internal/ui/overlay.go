//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"torus-ca/pkg/core"
)

const (
	overlayPadding    = 6
	overlayLineHeight = 15
	overlayCharWidth  = 7
)

// Overlay draws the sim's parameter snapshot in the top-left corner.
type Overlay struct {
	sim     core.Sim
	visible bool
	panel   *ebiten.Image
	lines   []string
}

// NewOverlay constructs a new overlay instance. It starts visible.
func NewOverlay(sim core.Sim) *Overlay {
	return &Overlay{sim: sim, visible: true}
}

// Update toggles visibility on H and refreshes the text.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		o.visible = !o.visible
	}
	if !o.visible {
		return
	}
	provider, ok := o.sim.(core.ParameterProvider)
	if !ok {
		o.lines = []string{o.sim.Name()}
		return
	}
	o.lines = Lines(provider.Parameters())
}

// Draw renders the overlay onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.visible || len(o.lines) == 0 {
		return
	}
	widest := 0
	for _, line := range o.lines {
		widest = max(widest, len(line))
	}
	w := widest*overlayCharWidth + 2*overlayPadding
	h := len(o.lines)*overlayLineHeight + 2*overlayPadding
	if o.panel == nil || o.panel.Bounds().Dx() != w || o.panel.Bounds().Dy() != h {
		o.panel = ebiten.NewImage(w, h)
	}
	o.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 200})

	face := basicfont.Face7x13
	for i, line := range o.lines {
		y := overlayPadding + (i+1)*overlayLineHeight - 3
		text.Draw(o.panel, line, face, overlayPadding, y, color.RGBA{R: 220, G: 220, B: 230, A: 255})
	}
	screen.DrawImage(o.panel, &ebiten.DrawImageOptions{})
}
