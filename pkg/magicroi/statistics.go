package magicroi

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Statistics summarises the samples covered by a region mask
type Statistics struct {
	// Count is the number of cells in the region
	Count int

	// Area is Count times the in-plane cell area, in physical units
	Area float64

	Mean   float64
	StdDev float64
	Min    float64
	Max    float64

	// Centroid is the mean physical position of the region's cells
	Centroid Point

	// MajorSpread and MinorSpread are the standard deviations of the cell
	// positions along the principal axes, MajorSpread >= MinorSpread.
	MajorSpread float64
	MinorSpread float64

	// Orientation is the angle of the major axis from +X, in [0, pi)
	Orientation float64
}

// ComputeStatistics reads every masked sample of the given slice. An empty
// mask yields zero statistics.
func ComputeStatistics(g Grid, mask *Mask, slice int) Statistics {
	values := make([]float64, 0, 64)
	var xs, ys []float64
	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.At(x, y) {
				values = append(values, g.ScalarAt(x, y, slice))
				p := physical(g, float64(x), float64(y), slice)
				xs = append(xs, p.X)
				ys = append(ys, p.Y)
			}
		}
	}
	if len(values) == 0 {
		return Statistics{}
	}

	s := g.Spacing()
	mean, sd := stat.PopMeanStdDev(values, nil)
	out := Statistics{
		Count:  len(values),
		Area:   float64(len(values)) * math.Abs(s.X*s.Y),
		Mean:   mean,
		StdDev: sd,
		Min:    floats.Min(values),
		Max:    floats.Max(values),
	}
	out.Centroid = physical(g, 0, 0, slice)
	out.Centroid.X = stat.Mean(xs, nil)
	out.Centroid.Y = stat.Mean(ys, nil)
	out.MajorSpread, out.MinorSpread, out.Orientation = principalAxes(xs, ys, out.Centroid)
	return out
}

// principalAxes eigen-decomposes the population covariance of the points.
func principalAxes(xs, ys []float64, c Point) (major, minor, angle float64) {
	var sxx, syy, sxy float64
	for i := range xs {
		dx, dy := xs[i]-c.X, ys[i]-c.Y
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	n := float64(len(xs))
	cov := mat.NewSymDense(2, []float64{sxx / n, sxy / n, sxy / n, syy / n})

	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return 0, 0, 0
	}
	// ascending order
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	major = math.Sqrt(math.Max(vals[1], 0))
	minor = math.Sqrt(math.Max(vals[0], 0))
	if major == minor {
		return major, minor, 0
	}
	angle = math.Atan2(vecs.At(1, 1), vecs.At(0, 1))
	if angle < 0 {
		angle += math.Pi
	}
	if angle >= math.Pi {
		angle -= math.Pi
	}
	return major, minor, angle
}
