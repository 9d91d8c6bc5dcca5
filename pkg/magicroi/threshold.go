package magicroi

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// LocalStatistics returns the population mean and standard deviation of the
// samples in the square window [x-size, x+size] × [y-size, y+size] around
// seed, clamped to the grid extent.
//
// A window holding a single sample has standard deviation 0.
func LocalStatistics(g Grid, seed Index, size int) (mean, stdDev float64) {
	if size < 0 {
		size = 0
	}
	ext := g.Extent()
	minX := max(seed.X-size, ext.MinX)
	maxX := min(seed.X+size, ext.MaxX)
	minY := max(seed.Y-size, ext.MinY)
	maxY := min(seed.Y+size, ext.MaxY)
	if minX > maxX || minY > maxY {
		return 0, 0
	}

	samples := make([]float64, 0, (maxX-minX+1)*(maxY-minY+1))
	for x := minX; x <= maxX; x++ {
		for y := minY; y <= maxY; y++ {
			samples = append(samples, g.ScalarAt(x, y, seed.Z))
		}
	}
	return stat.PopMeanStdDev(samples, nil)
}

// Window is the closed interval of accepted sample values
type Window struct {
	Lower, Upper float64
}

// NewWindow builds [value - factor*stdDev, value + factor*stdDev].
// Raising factor widens the window; factor 0 collapses it to [value, value].
// The factor must be finite and non-negative.
func NewWindow(value, stdDev, factor float64) (Window, error) {
	if math.IsNaN(factor) || math.IsInf(factor, 0) || factor < 0 {
		return Window{}, fmt.Errorf("%w: %v", ErrInvalidFactor, factor)
	}
	half := factor * stdDev
	return Window{Lower: value - half, Upper: value + half}, nil
}

// Contains reports whether v lies inside the window, bounds included
func (w Window) Contains(v float64) bool {
	return v >= w.Lower && v <= w.Upper
}

// Width returns Upper - Lower
func (w Window) Width() float64 {
	return w.Upper - w.Lower
}
