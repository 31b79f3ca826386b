// Command langton runs Langton's ant: a single walker that flips the color
// of the tile it stands on and turns accordingly, producing the familiar
// highway after an initial chaotic phase.
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

	dim := geom.Dimension{Width: cfg.World.Width, Height: cfg.World.Height}
	env := sim.New[ctxC, ctxT](dim)
	defer env.Close()

	env.Insert(newGridLines(dim))
	env.Insert(newAnt(dim.Center(), dim))

	slog.Info("starting langton", "world", dim, "max_generations", maxGen, "headless", *headless)

	step := func() (done bool) {
		gen, err := env.Step()
		if err != nil {
			slog.Error("generation failed", "generation", gen, "error", err)
			return true
		}
		if maxGen > 0 && gen >= uint64(maxGen) {
			slog.Info("max generations reached",
				"generation", gen,
				"marks", env.CountKind(kindMark),
			)
			return true
		}
		return false
	}

	if *headless {
		for !step() {
		}
		return
	}

	window := render.OpenWindow("Langton's Ant", dim, cfg.Screen.CellSide, cfg.Screen.TargetFPS)
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
