package telemetry

import (
	"math"
	"testing"
)

func TestCensusWindowAggregation(t *testing.T) {
	c := NewCensus(5)
	c.RecordBirths(3)
	c.RecordDeaths(1)

	var w *WindowStats
	pops := []int{10, 12, 11, 9, 13}
	for i, pop := range pops {
		w = c.Record(uint64(i+1), pop)
		if i < len(pops)-1 && w != nil {
			t.Fatalf("window closed early at sample %d", i)
		}
	}
	if w == nil {
		t.Fatal("window should close on the fifth sample")
	}

	if w.WindowEnd != 5 {
		t.Errorf("WindowEnd = %d, want 5", w.WindowEnd)
	}
	if w.Population != 13 {
		t.Errorf("Population = %d, want 13", w.Population)
	}
	if w.Births != 3 || w.Deaths != 1 {
		t.Errorf("births/deaths = %d/%d, want 3/1", w.Births, w.Deaths)
	}
	if math.Abs(w.PopMean-11.0) > 0.001 {
		t.Errorf("PopMean = %v, want 11", w.PopMean)
	}

	// the next window starts fresh
	if c.Record(6, 20) != nil {
		t.Fatal("new window closed after a single sample")
	}
	if got := len(c.Windows()); got != 1 {
		t.Fatalf("Windows() returned %d, want 1", got)
	}
}

func TestCensusEventCountersReset(t *testing.T) {
	c := NewCensus(2)
	c.RecordBirths(5)
	c.Record(1, 1)
	first := c.Record(2, 1)
	if first == nil || first.Births != 5 {
		t.Fatalf("first window births = %+v, want 5", first)
	}

	c.Record(3, 1)
	second := c.Record(4, 1)
	if second == nil || second.Births != 0 {
		t.Fatalf("second window births = %+v, want 0", second)
	}
}

func TestPopulationStats(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	mean, std, p10, p50, p90 := PopulationStats(values)

	if math.Abs(mean-5.5) > 0.001 {
		t.Errorf("mean = %v, want 5.5", mean)
	}
	if math.Abs(std-3.02765) > 0.001 {
		t.Errorf("std = %v, want ~3.028", std)
	}
	if p10 != 1 || p50 != 5 || p90 != 9 {
		t.Errorf("quantiles = %v/%v/%v, want 1/5/9", p10, p50, p90)
	}
}

func TestPopulationStatsEmpty(t *testing.T) {
	mean, std, p10, p50, p90 := PopulationStats(nil)
	if mean != 0 || std != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty input should return all zeros")
	}
}

func TestPerfCollectorWindow(t *testing.T) {
	p := NewPerfCollector(4)
	if got := p.Stats(); got.AvgTick != 0 {
		t.Fatal("empty collector should report zero averages")
	}

	for i := 0; i < 6; i++ {
		p.StartTick()
		p.StartPhase(PhaseStep)
		p.StartPhase(PhaseDraw)
		p.EndTick()
	}

	stats := p.Stats()
	if stats.AvgTick < 0 || stats.MinTick > stats.MaxTick {
		t.Fatalf("inconsistent tick stats: %+v", stats)
	}
	if _, ok := stats.PhaseAvg[PhaseStep]; !ok {
		t.Fatal("step phase missing from aggregation")
	}
	if _, ok := stats.PhaseAvg[PhaseDraw]; !ok {
		t.Fatal("draw phase missing from aggregation")
	}
}
