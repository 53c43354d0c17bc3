package compute

import (
	"math"
	"runtime"
	"sync"
)

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend {
	return &SerialBackend{}
}

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) WakeSum(dt []float64, alpha, omegaBar, coeff1 float64, acc []float64) {
	wakeSumRange(dt, alpha, omegaBar, coeff1, acc, 1, len(dt))
}

type ParallelBackend struct {
	workers int
}

func NewParallelBackend() *ParallelBackend {
	return &ParallelBackend{
		workers: runtime.NumCPU(),
	}
}

func (p *ParallelBackend) Name() string    { return "parallel" }
func (p *ParallelBackend) Available() bool { return true }
func (p *ParallelBackend) Cleanup()        {}

func (p *ParallelBackend) WakeSum(dt []float64, alpha, omegaBar, coeff1 float64, acc []float64) {
	n := len(dt)
	if n < 64 || p.workers < 2 {
		wakeSumRange(dt, alpha, omegaBar, coeff1, acc, 1, n)
		return
	}

	var wg sync.WaitGroup
	chunkSize := (n - 1 + p.workers - 1) / p.workers

	for w := 0; w < p.workers; w++ {
		start := 1 + w*chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			wakeSumRange(dt, alpha, omegaBar, coeff1, acc, start, end)
		}(start, end)
	}

	wg.Wait()
}

// wakeSumRange computes acc[i] for i in [start, end). Each target sum is
// independent of the others, which is what makes the quadratic reference
// loop parallelizable where the recurrence is not.
func wakeSumRange(dt []float64, alpha, omegaBar, coeff1 float64, acc []float64, start, end int) {
	for i := start; i < end; i++ {
		sum := 0.0
		ti := dt[i]
		for j := 0; j < i; j++ {
			diff := ti - dt[j]
			sum += math.Exp(-alpha*diff) *
				(math.Cos(omegaBar*diff) + coeff1*math.Sin(omegaBar*diff))
		}
		acc[i] = sum
	}
}
