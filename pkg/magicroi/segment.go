package magicroi

import (
	"context"
	"fmt"
	"math"
)

const (
	// DefaultNeighborhoodSize is the half-size of the statistics window.
	DefaultNeighborhoodSize = 3
	// DefaultFactor is the initial sensitivity factor.
	DefaultFactor = 1.0
)

// Options controls one segmentation run
type Options struct {
	// NeighborhoodSize is the half-size of the square window used to
	// estimate the local standard deviation around the seed.
	NeighborhoodSize int

	// Factor scales the standard deviation into the threshold window.
	Factor float64

	// Tolerance is the physical distance at which the traced contour is
	// considered closed.
	Tolerance float64
}

// DefaultOptions returns the options the interactive tool starts with
func DefaultOptions() Options {
	return Options{
		NeighborhoodSize: DefaultNeighborhoodSize,
		Factor:           DefaultFactor,
		Tolerance:        DefaultTolerance,
	}
}

// Validate checks the options against the grid spacing. The tolerance must
// stay below half the smaller in-plane spacing; edge midpoints of one cell
// are that far apart.
func (o Options) Validate(spacing Point) error {
	if o.NeighborhoodSize < 0 {
		return fmt.Errorf("%w: negative neighborhood size %d", ErrInvalidOptions, o.NeighborhoodSize)
	}
	if math.IsNaN(o.Factor) || math.IsInf(o.Factor, 0) || o.Factor < 0 {
		return fmt.Errorf("%w: %v", ErrInvalidFactor, o.Factor)
	}
	if math.IsNaN(o.Tolerance) || o.Tolerance <= 0 {
		return fmt.Errorf("%w: tolerance must be positive, got %v", ErrInvalidOptions, o.Tolerance)
	}
	limit := 0.5 * math.Min(math.Abs(spacing.X), math.Abs(spacing.Y))
	if o.Tolerance >= limit {
		return fmt.Errorf("%w: tolerance %v must be below %v for spacing (%v, %v)",
			ErrInvalidOptions, o.Tolerance, limit, spacing.X, spacing.Y)
	}
	return nil
}

// Result is the outcome of one segmentation run
type Result struct {
	Seed    Index
	Value   float64
	Mean    float64
	StdDev  float64
	Window  Window
	Mask    *Mask
	Polygon *Polygon
}

// Empty reports whether the run produced no region
func (r *Result) Empty() bool {
	return r.Mask == nil || r.Mask.Empty()
}

// Segment runs the whole pipeline for a physical seed point: local
// statistics, threshold window, region growing and contour tracing.
//
// An extent that does not start at zero fails with ErrExtentOrigin before
// any sample is read.
func Segment(ctx context.Context, g Grid, seed Point, opts Options) (*Result, error) {
	ext := g.Extent()
	if err := ext.Validate(); err != nil {
		return nil, err
	}
	if err := opts.Validate(g.Spacing()); err != nil {
		return nil, err
	}

	idx := g.IndexOf(seed)
	if !ext.Contains(idx.X, idx.Y) {
		return nil, fmt.Errorf("%w: (%d, %d)", ErrSeedOutOfBounds, idx.X, idx.Y)
	}

	value := g.ScalarAt(idx.X, idx.Y, idx.Z)
	mean, sd := LocalStatistics(g, idx, opts.NeighborhoodSize)
	window, err := NewWindow(value, sd, opts.Factor)
	if err != nil {
		return nil, err
	}

	mask, err := Grow(ctx, g, idx, window)
	if err != nil {
		return nil, fmt.Errorf("failed to grow region: %w", err)
	}
	poly, err := Trace(ctx, mask, g, idx.Z, opts.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("failed to trace contour: %w", err)
	}

	return &Result{
		Seed:    idx,
		Value:   value,
		Mean:    mean,
		StdDev:  sd,
		Window:  window,
		Mask:    mask,
		Polygon: poly,
	}, nil
}
