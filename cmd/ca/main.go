//go:build ebiten

package main

import (
	"errors"
	"flag"
	"log"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"torus-ca/internal/app"
	"torus-ca/internal/config"
)

func main() {
	flagged := config.Default()
	flagged.Bind(flag.CommandLine)
	flag.Parse()

	var changed []string
	flag.Visit(func(f *flag.Flag) { changed = append(changed, f.Name) })

	cfg, err := config.Resolve(flagged, changed)
	if err != nil {
		log.Fatal(err)
	}
	sim, err := cfg.NewSim()
	if err != nil {
		log.Fatalf("building sim %q: %v", cfg.Rule, err)
	}
	sim.Reset(cfg.Seed)
	slog.Info("starting", "rule", sim.Name(), "notation", sim.Rule().String(), "rows", cfg.Rows, "cols", cfg.Cols, "seed", cfg.Seed)

	game := app.New(sim, cfg.Scale, cfg.Seed)
	size := sim.Size()

	ebiten.SetWindowTitle("torus-ca: " + sim.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.Cols*cfg.Scale, size.Rows*cfg.Scale)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
