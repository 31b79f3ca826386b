// Package telemetry collects per-generation census data from a running
// environment, aggregates it over fixed generation windows, and writes the
// results as CSV.
package telemetry

import "log/slog"

// WindowStats holds aggregated census statistics for one window of
// generations.
type WindowStats struct {
	WindowEnd  uint64 `csv:"window_end"` // generation number closing the window
	Population int    `csv:"population"` // population at window end
	Births     int    `csv:"births"`
	Deaths     int    `csv:"deaths"`

	// Population distribution over the window's generations
	PopMean float64 `csv:"pop_mean"`
	PopStd  float64 `csv:"pop_std"`
	PopP10  float64 `csv:"pop_p10"`
	PopP50  float64 `csv:"pop_p50"`
	PopP90  float64 `csv:"pop_p90"`
}

// LogValue implements slog.LogValuer for structured logging.
func (w *WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Uint64("window_end", w.WindowEnd),
		slog.Int("population", w.Population),
		slog.Int("births", w.Births),
		slog.Int("deaths", w.Deaths),
		slog.Float64("pop_mean", w.PopMean),
		slog.Float64("pop_p50", w.PopP50),
	)
}

// Census accumulates population samples and lifecycle events, closing a
// stats window every fixed number of generations.
type Census struct {
	window  int
	totals  []float64
	births  int
	deaths  int
	windows []*WindowStats
}

// NewCensus creates a census collector closing a window every `window`
// generations.
func NewCensus(window int) *Census {
	if window < 1 {
		window = 1
	}
	return &Census{
		window: window,
		totals: make([]float64, 0, window),
	}
}

// RecordBirths adds newborn entities to the current window.
func (c *Census) RecordBirths(n int) {
	c.births += n
}

// RecordDeaths adds removed entities to the current window.
func (c *Census) RecordDeaths(n int) {
	c.deaths += n
}

// Record samples the population after the given generation. When the sample
// closes a window, the aggregated stats are returned; otherwise nil.
func (c *Census) Record(generation uint64, population int) *WindowStats {
	c.totals = append(c.totals, float64(population))
	if len(c.totals) < c.window {
		return nil
	}

	mean, std, p10, p50, p90 := PopulationStats(c.totals)
	w := &WindowStats{
		WindowEnd:  generation,
		Population: population,
		Births:     c.births,
		Deaths:     c.deaths,
		PopMean:    mean,
		PopStd:     std,
		PopP10:     p10,
		PopP50:     p50,
		PopP90:     p90,
	}
	c.windows = append(c.windows, w)

	c.totals = c.totals[:0]
	c.births = 0
	c.deaths = 0
	return w
}

// Windows returns every window closed so far.
func (c *Census) Windows() []*WindowStats {
	return c.windows
}
