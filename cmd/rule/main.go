// Command rule renders an elementary one dimensional cellular automaton.
// The top row starts with a single live cell in the center; every
// generation paints the next row one below, wrapping around the torus
// endlessly. The rule byte comes from config or -rule, or a tengo script
// replaces it entirely.
package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/geom"
	"github.com/pthm-cable/habitat/render"
	"github.com/pthm-cable/habitat/script"
	"github.com/pthm-cable/habitat/sim"
	"github.com/pthm-cable/habitat/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	ruleFlag := flag.Int("rule", -1, "Elementary rule byte 0-255 (-1 = use config)")
	headless := flag.Bool("headless", false, "Run without graphics")
	workers := flag.Int("workers", 0, "Parallel lanes (0 = use config)")
	generations := flag.Int("generations", 0, "Stop after N generations (0 = use config)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	ruleByte := cfg.Rule.Elementary
	if *ruleFlag >= 0 && *ruleFlag <= 255 {
		ruleByte = uint8(*ruleFlag)
	}

	var (
		rule *script.RowRule
		err  error
	)
	if cfg.Rule.Script != "" {
		src, readErr := os.ReadFile(cfg.Rule.Script)
		if readErr != nil {
			slog.Error("failed to read rule script", "path", cfg.Rule.Script, "error", readErr)
			os.Exit(1)
		}
		rule, err = script.CompileRowRule(string(src))
	} else {
		rule, err = script.CompileRowRule(script.ElementaryScript(ruleByte))
	}
	if err != nil {
		slog.Error("failed to compile rule", "error", err)
		os.Exit(1)
	}

	lanes := cfg.Engine.Workers
	if *workers > 0 {
		lanes = *workers
	}
	maxGen := cfg.Run.MaxGenerations
	if *generations > 0 {
		maxGen = *generations
	}

	dim := geom.Dimension{Width: cfg.World.Width, Height: cfg.World.Height}
	env := sim.NewWithOptions[ctxC, ctxT](dim, sim.Options{Workers: lanes})
	defer env.Close()

	// first generation: full top row, one live cell in the center
	for x := 0; x < dim.Width; x++ {
		env.Insert(newRowCell(geom.Location{X: x, Y: 0}, dim, x == dim.Center().X, rule))
	}

	perf := telemetry.NewPerfCollector(cfg.Telemetry.Window)

	slog.Info("starting rule",
		"rule", ruleByte,
		"world", dim,
		"workers", lanes,
		"max_generations", maxGen,
		"headless", *headless,
	)

	step := func() (done bool) {
		perf.StartTick()
		perf.StartPhase(telemetry.PhaseStep)
		gen, err := env.Step()
		perf.EndTick()
		if err != nil {
			slog.Error("generation failed", "generation", gen, "error", err)
			return true
		}
		if cfg.Telemetry.Window > 0 && gen%uint64(cfg.Telemetry.Window) == 0 {
			slog.Info("progress", "generation", gen, "population", env.Count(), "perf", perf.Stats())
		}
		if maxGen > 0 && gen >= uint64(maxGen) {
			slog.Info("max generations reached", "generation", gen)
			return true
		}
		return false
	}

	if *headless {
		start := time.Now()
		for !step() {
		}
		slog.Info("finished", "elapsed", time.Since(start))
		return
	}

	window := render.OpenWindow("Rule", dim, cfg.Screen.CellSide, cfg.Screen.TargetFPS)
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
