// Command wireworld runs the Wireworld cellular automaton: electrons travel
// along conductor wires, head first and tail behind, seeded with the double
// clock pattern.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/geom"
	"github.com/pthm-cable/habitat/render"
	"github.com/pthm-cable/habitat/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	workers := flag.Int("workers", -1, "Worker goroutines (-1 = use config, 0 = sequential)")
	generations := flag.Int("generations", 0, "Stop after N generations (0 = use config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	maxGen := cfg.Run.MaxGenerations
	if *generations > 0 {
		maxGen = *generations
	}
	lanes := cfg.Engine.Workers
	if *workers >= 0 {
		lanes = *workers
	}

	dim := geom.Dimension{Width: cfg.World.Width, Height: cfg.World.Height}
	env := sim.NewWithOptions[ctxC, ctxT](dim, sim.Options{Workers: lanes})
	defer env.Close()

	seeds := clockPattern(dim)
	for _, s := range seeds {
		env.Insert(newCell(s.loc, s.state))
	}

	slog.Info("starting wireworld",
		"world", dim,
		"cells", len(seeds),
		"max_generations", maxGen,
		"headless", *headless,
	)

	step := func() (done bool) {
		gen, err := env.Step()
		if err != nil {
			slog.Error("generation failed", "generation", gen, "error", err)
			return true
		}
		if maxGen > 0 && gen >= uint64(maxGen) {
			slog.Info("max generations reached", "generation", gen, "cells", env.Count())
			return true
		}
		return false
	}

	if *headless {
		for !step() {
		}
		return
	}

	window := render.OpenWindow("Wireworld", dim, cfg.Screen.CellSide, cfg.Screen.TargetFPS)
	defer window.Close()

	for !window.ShouldClose() {
		if step() {
			break
		}
		window.Frame(func() {
			if err := env.Draw(window.Canvas(), render.Identity()); err != nil {
				slog.Error("draw failed", "error", err)
			}
		})
	}
}
