package compute

import (
	"math"
	"math/rand"
	"sort"
	"testing"
)

func sortedTimes(n int, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	dt := make([]float64, n)
	for i := range dt {
		dt[i] = 1e-9 * rng.NormFloat64()
	}
	sort.Float64s(dt)
	return dt
}

func TestBackendsAgree(t *testing.T) {
	const (
		alpha    = 3e9
		omegaBar = 5e9
		coeff1   = -0.6
	)

	for _, n := range []int{2, 20, 200, 1000} {
		dt := sortedTimes(n, int64(n))

		serial := make([]float64, n)
		parallel := make([]float64, n)

		NewSerialBackend().WakeSum(dt, alpha, omegaBar, coeff1, serial)
		NewParallelBackend().WakeSum(dt, alpha, omegaBar, coeff1, parallel)

		for i := 1; i < n; i++ {
			if serial[i] != parallel[i] {
				t.Errorf("n=%d: backends disagree at %d: %e vs %e", n, i, serial[i], parallel[i])
			}
		}
	}
}

func TestWakeSumLeavesFirstEntry(t *testing.T) {
	dt := sortedTimes(50, 1)
	acc := make([]float64, 50)
	acc[0] = 123.0

	NewSerialBackend().WakeSum(dt, 1e9, 2e9, -0.5, acc)

	if acc[0] != 123.0 {
		t.Errorf("WakeSum must not touch acc[0], got %v", acc[0])
	}
}

func TestWakeSumSmallCase(t *testing.T) {
	// Two particles: the sum for the second is a single evaluated term.
	dt := []float64{0, 2e-10}
	acc := make([]float64, 2)

	const (
		alpha    = 1e9
		omegaBar = 4e9
		coeff1   = -0.25
	)
	NewSerialBackend().WakeSum(dt, alpha, omegaBar, coeff1, acc)

	diff := dt[1] - dt[0]
	want := math.Exp(-alpha*diff) * (math.Cos(omegaBar*diff) + coeff1*math.Sin(omegaBar*diff))
	if math.Abs(acc[1]-want) > 1e-15*math.Abs(want) {
		t.Errorf("expected %e, got %e", want, acc[1])
	}
}

func TestByName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"serial", "serial"},
		{"parallel", "parallel"},
		{"auto", "parallel"},
		{"", "parallel"},
	}

	for _, tt := range tests {
		if got := ByName(tt.name).Name(); got != tt.want {
			t.Errorf("ByName(%q): expected %s, got %s", tt.name, tt.want, got)
		}
	}
}

func BenchmarkWakeSumSerial(b *testing.B) {
	dt := sortedTimes(2000, 42)
	acc := make([]float64, len(dt))
	backend := NewSerialBackend()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.WakeSum(dt, 3e9, 5e9, -0.6, acc)
	}
}

func BenchmarkWakeSumParallel(b *testing.B) {
	dt := sortedTimes(2000, 42)
	acc := make([]float64, len(dt))
	backend := NewParallelBackend()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		backend.WakeSum(dt, 3e9, 5e9, -0.6, acc)
	}
}
