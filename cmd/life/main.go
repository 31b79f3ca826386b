// Command life runs Conway's Game of Life on the habitat engine. Live cells
// are the only entities; births happen through offspring spawned by the
// neighbors of a dead tile. Runs windowed by default, headless with
// -headless, and the survival rule can be replaced by a tengo script.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/habitat/camera"
	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/geom"
	"github.com/pthm-cable/habitat/render"
	"github.com/pthm-cable/habitat/script"
	"github.com/pthm-cable/habitat/sim"
	"github.com/pthm-cable/habitat/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	workers := flag.Int("workers", 0, "Parallel lanes (0 = use config)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	generations := flag.Int("generations", 0, "Stop after N generations (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := cfg.Run.Seed
	if *seed != 0 {
		rngSeed = *seed
	}
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	lanes := cfg.Engine.Workers
	if *workers > 0 {
		lanes = *workers
	}

	maxGen := cfg.Run.MaxGenerations
	if *generations > 0 {
		maxGen = *generations
	}

	outDir := cfg.Telemetry.OutputDir
	if *outputDir != "" {
		outDir = *outputDir
	}

	var rule *script.CellRule
	if cfg.Rule.Script != "" {
		src, err := os.ReadFile(cfg.Rule.Script)
		if err != nil {
			slog.Error("failed to read rule script", "path", cfg.Rule.Script, "error", err)
			os.Exit(1)
		}
		rule, err = script.CompileCellRule(string(src))
		if err != nil {
			slog.Error("failed to compile rule script", "path", cfg.Rule.Script, "error", err)
			os.Exit(1)
		}
	}

	dim := geom.Dimension{Width: cfg.World.Width, Height: cfg.World.Height}
	env := sim.NewWithOptions[ctxC, ctxT](dim, sim.Options{Workers: lanes})
	defer env.Close()

	shared := newWorld()
	population := seedCells(env, cfg, rngSeed, shared, rule)

	census := telemetry.NewCensus(cfg.Telemetry.Window)
	perf := telemetry.NewPerfCollector(cfg.Telemetry.Window)

	output, err := telemetry.NewOutputManager(outDir)
	if err != nil {
		slog.Error("failed to create output directory", "dir", outDir, "error", err)
		os.Exit(1)
	}
	if output != nil {
		defer output.Close()
		if err := output.WriteConfig(cfg); err != nil {
			slog.Error("failed to write config snapshot", "error", err)
		}
	}

	var watcher *config.Watcher
	if *configPath != "" {
		watcher, err = config.Watch(filepath.Dir(*configPath))
		if err != nil {
			slog.Warn("config watch unavailable", "error", err)
		} else {
			defer watcher.Close()
		}
	}

	slog.Info("starting life",
		"world", dim,
		"population", population,
		"seed", rngSeed,
		"workers", lanes,
		"max_generations", maxGen,
		"headless", *headless,
	)

	step := func() (done bool) {
		perf.StartTick()
		perf.StartPhase(telemetry.PhaseStep)
		gen, err := env.Step()
		if err != nil {
			slog.Error("generation failed", "generation", gen, "error", err)
			return true
		}

		perf.StartPhase(telemetry.PhaseTelemetry)
		births, deaths := shared.flush()
		census.RecordBirths(births)
		census.RecordDeaths(deaths)
		if window := census.Record(gen, env.Count()); window != nil {
			slog.Info("census", "stats", window, "perf", perf.Stats())
			if output != nil {
				if err := output.WriteCensus(window); err != nil {
					slog.Error("failed to write census", "error", err)
				}
			}
		}
		perf.EndTick()

		if watcher != nil {
			select {
			case path := <-watcher.Events:
				if reloaded, err := config.Load(path); err == nil {
					cfg = reloaded
					slog.Info("config reloaded", "path", path)
				} else {
					slog.Warn("config reload failed", "path", path, "error", err)
				}
			default:
			}
		}

		if env.Count() == 0 {
			slog.Info("population extinct", "generation", gen)
			return true
		}
		if maxGen > 0 && gen >= uint64(maxGen) {
			slog.Info("max generations reached", "generation", gen)
			return true
		}
		return false
	}

	if *headless {
		for !step() {
		}
		return
	}

	window := render.OpenWindow("Life", dim, cfg.Screen.CellSide, cfg.Screen.TargetFPS)
	defer window.Close()

	worldPx := float32(dim.Width * cfg.Screen.CellSide)
	worldPy := float32(dim.Height * cfg.Screen.CellSide)
	cam := camera.New(worldPx, worldPy, worldPx, worldPy)

	for !window.ShouldClose() {
		if step() {
			break
		}
		handleCamera(cam)
		window.Frame(func() {
			if err := env.Draw(window.Canvas(), cam.View()); err != nil {
				slog.Error("draw failed", "error", err)
			}
		})
	}
}

// handleCamera applies pan and zoom input: arrow keys pan, the mouse wheel
// zooms, R resets.
func handleCamera(cam *camera.Camera) {
	const panSpeed = 8
	if rl.IsKeyDown(rl.KeyRight) {
		cam.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		cam.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		cam.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		cam.Pan(0, -panSpeed)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		cam.ZoomBy(1 + wheel*0.1)
	}
	if rl.IsKeyPressed(rl.KeyR) {
		cam.Reset()
	}
}
