package storage

import (
	"math"
	"testing"

	"github.com/mvadai/blond/internal/beam"
	"github.com/mvadai/blond/internal/turns"
)

func testResult() *turns.Result {
	return &turns.Result{
		Turns:        2,
		FirstVoltage: []float64{-1.5e6, -1.6e6},
		PeakVoltage:  []float64{3.2e6, 3.3e6},
		EnergySpread: []float64{1.1e6, 2.2e6},
		Metrics:      map[string]float64{"peak_voltage": 3.3e6},
	}
}

func TestSaveAndLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	b := &beam.Particles{
		Dt: []float64{0, 1e-10, 5e-10},
		DE: []float64{-1e6, -2e6, -3e6},
	}
	induced := []float64{-1e6, -2e6, -3e6}

	meta := RunMetadata{
		Turns:          2,
		TRev:           1e-6,
		ShuntImpedance: 1e6,
		Frequency:      1e9,
		Quality:        1.0,
		Macroparticles: 3,
		Intensity:      1e10,
		Seed:           42,
		Backend:        "serial",
	}

	runID, err := st.Save(meta, testResult(), b, induced)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Turns != 2 || loaded.Quality != 1.0 || loaded.Backend != "serial" {
		t.Errorf("metadata round trip mismatch: %+v", loaded)
	}
	if loaded.Metrics["peak_voltage"] != 3.3e6 {
		t.Errorf("expected metric in metadata, got %v", loaded.Metrics)
	}
}

func TestLoadParticlesRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	b := &beam.Particles{
		Dt: []float64{0, 1.25e-10},
		DE: []float64{-1.5e6, 2.5e6},
	}
	induced := []float64{-1.5e6, 4e6}

	runID, err := st.Save(RunMetadata{}, testResult(), b, induced)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	dt, de, v, err := st.LoadParticles(runID)
	if err != nil {
		t.Fatalf("load particles failed: %v", err)
	}
	if len(dt) != 2 || len(de) != 2 || len(v) != 2 {
		t.Fatalf("expected 2 rows, got %d/%d/%d", len(dt), len(de), len(v))
	}
	for i := range dt {
		if math.Abs(dt[i]-b.Dt[i]) > 1e-24 {
			t.Errorf("dt[%d]: expected %e, got %e", i, b.Dt[i], dt[i])
		}
		if math.Abs(de[i]-b.DE[i]) > 1e-9 {
			t.Errorf("de[%d]: expected %e, got %e", i, b.DE[i], de[i])
		}
		if math.Abs(v[i]-induced[i]) > 1e-9 {
			t.Errorf("v[%d]: expected %e, got %e", i, induced[i], v[i])
		}
	}
}

func TestLoadTurnsRoundTrip(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	b := &beam.Particles{Dt: []float64{0}, DE: []float64{0}}
	result := testResult()

	runID, err := st.Save(RunMetadata{}, result, b, []float64{0})
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	first, peak, spread, err := st.LoadTurns(runID)
	if err != nil {
		t.Fatalf("load turns failed: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 turn rows, got %d", len(first))
	}
	if math.Abs(first[1]-result.FirstVoltage[1]) > 1e-3 {
		t.Errorf("first voltage mismatch: %e vs %e", first[1], result.FirstVoltage[1])
	}
	if math.Abs(peak[0]-result.PeakVoltage[0]) > 1e-3 {
		t.Errorf("peak voltage mismatch: %e vs %e", peak[0], result.PeakVoltage[0])
	}
	if math.Abs(spread[1]-result.EnergySpread[1]) > 1e-3 {
		t.Errorf("energy spread mismatch: %e vs %e", spread[1], result.EnergySpread[1])
	}
}

func TestList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected no runs, got %d", len(runs))
	}

	b := &beam.Particles{Dt: []float64{0}, DE: []float64{0}}
	if _, err := st.Save(RunMetadata{Turns: 7}, testResult(), b, []float64{0}); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Turns != 7 {
		t.Errorf("expected one run with 7 turns, got %+v", runs)
	}
}

func TestListMissingDir(t *testing.T) {
	st := New("/nonexistent/path/for/test")
	runs, err := st.List()
	if err != nil {
		t.Fatalf("expected nil error for missing dir, got %v", err)
	}
	if runs != nil {
		t.Errorf("expected nil runs, got %v", runs)
	}
}
