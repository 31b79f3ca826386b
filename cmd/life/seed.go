package main

import (
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/pthm-cable/habitat/config"
	"github.com/pthm-cable/habitat/geom"
	"github.com/pthm-cable/habitat/script"
	"github.com/pthm-cable/habitat/sim"
)

// seedCells builds the initial population, either by uniform sampling or
// from a perlin noise field when seeding.noise is set.
func seedCells(env *sim.Environment[ctxC, ctxT], cfg *config.Config, seed int64, w *world, rule *script.CellRule) int {
	dim := env.Dimension()
	inserted := 0

	insert := func(loc geom.Location) {
		env.Insert(newCell(loc, dim, w, rule))
		inserted++
	}

	if cfg.Seeding.Noise {
		scale := cfg.Seeding.NoiseScale
		if scale <= 0 {
			scale = 1
		}
		noise := perlin.NewPerlin(
			cfg.Seeding.NoiseAlpha,
			cfg.Seeding.NoiseBeta,
			int32(cfg.Seeding.NoiseOctaves),
			seed,
		)
		for y := 0; y < dim.Height; y++ {
			for x := 0; x < dim.Width; x++ {
				v := noise.Noise2D(float64(x)/scale, float64(y)/scale)
				if v > cfg.Seeding.NoiseThreshold {
					insert(geom.Location{X: x, Y: y})
				}
			}
		}
		return inserted
	}

	rng := rand.New(rand.NewSource(seed))
	for y := 0; y < dim.Height; y++ {
		for x := 0; x < dim.Width; x++ {
			if rng.Float64() < cfg.Seeding.Fill {
				insert(geom.Location{X: x, Y: y})
			}
		}
	}
	return inserted
}
