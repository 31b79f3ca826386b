// Command mandelbrot renders the Mandelbrot set: one pixel entity per tile,
// colored by the escape time of its point on the complex plane. The mouse
// wheel zooms into the current view, R resets it.
package main

import (
	"flag"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/geom"
	"github.com/pthm-cable/habitat/render"
	"github.com/pthm-cable/habitat/sim"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Compute a single frame and exit")
	workers := flag.Int("workers", -1, "Worker goroutines (-1 = use config, 0 = sequential)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	lanes := cfg.Engine.Workers
	if *workers >= 0 {
		lanes = *workers
	}

	dim := geom.Dimension{Width: cfg.World.Width, Height: cfg.World.Height}
	env := sim.NewWithOptions[ctxC, ctxT](dim, sim.Options{Workers: lanes})
	defer env.Close()

	view := defaultPlane()
	for y := 0; y < dim.Height; y++ {
		for x := 0; x < dim.Width; x++ {
			env.Insert(newPixel(geom.Location{X: x, Y: y}, dim, &view))
		}
	}

	slog.Info("starting mandelbrot", "world", dim, "pixels", env.Count(), "headless", *headless)

	compute := func() {
		if _, err := env.Step(); err != nil {
			slog.Error("compute failed", "error", err)
			os.Exit(1)
		}
	}
	compute()

	if *headless {
		members := 0
		for e := range env.All() {
			if e.(*pixel).value == 0 {
				members++
			}
		}
		slog.Info("frame computed", "in_set", members, "pixels", env.Count())
		return
	}

	window := render.OpenWindow("Mandelbrot", dim, cfg.Screen.CellSide, cfg.Screen.TargetFPS)
	defer window.Close()

	for !window.ShouldClose() {
		if wheel := rl.GetMouseWheelMove(); wheel > 0 {
			view = view.zoom(0.8)
			compute()
		} else if wheel < 0 {
			view = view.zoom(1.25)
			compute()
		}
		if rl.IsKeyPressed(rl.KeyR) {
			view = defaultPlane()
			compute()
		}
		window.Frame(func() {
			if err := env.Draw(window.Canvas(), render.Identity()); err != nil {
				slog.Error("draw failed", "error", err)
			}
		})
	}
}
