package magicroi

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultDragScale converts vertical pointer displacement into factor change.
const DefaultDragScale = 0.05

// Consumer receives the polygons produced by a Tool, typically to draw them.
type Consumer interface {
	// Replace swaps the displayed polygon for p and re-renders
	Replace(p *Polygon)
	// Clear removes the displayed polygon
	Clear()
}

// ROI is a committed region of interest
type ROI struct {
	ID      string
	Seed    Index
	Factor  float64
	Window  Window
	Polygon *Polygon
	Stats   Statistics
}

// Tool drives interactive magic-wand sessions: a press starts a region at a
// seed, vertical drags loosen or tighten it, a release commits it and Cancel
// discards it. Every change recomputes the region from scratch.
//
// Calls are serialised; a failed recomputation leaves the consumer showing
// the last good polygon.
type Tool struct {
	mu sync.Mutex

	grid      Grid
	consumer  Consumer
	defaults  Options
	dragScale float64
	logger    *logrus.Logger

	active bool
	seed   Point
	factor float64
	last   *Result
}

// NewTool creates a tool over grid that publishes polygons to consumer.
// A nil logger uses the logrus standard logger.
func NewTool(grid Grid, consumer Consumer, opts Options, logger *logrus.Logger) *Tool {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Tool{
		grid:      grid,
		consumer:  consumer,
		defaults:  opts,
		dragScale: DefaultDragScale,
		logger:    logger,
		factor:    opts.Factor,
	}
}

// SetDragScale changes the factor change per unit of pointer displacement
func (t *Tool) SetDragScale(scale float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.dragScale = scale
}

// Factor returns the current sensitivity factor
func (t *Tool) Factor() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.factor
}

// Active reports whether a region is in progress
func (t *Tool) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Result returns the last successful segmentation, or nil
func (t *Tool) Result() *Result {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.last
}

// Start begins a region at seed with the default factor.
func (t *Tool) Start(ctx context.Context, seed Point) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, err := t.generate(ctx, seed, t.defaults.Factor); err != nil {
		return err
	}
	t.active = true
	t.seed = seed
	t.factor = t.defaults.Factor
	return nil
}

// Drag adjusts the factor by -dragScale*dy, where dy is the previous minus the
// current pointer Y, and regenerates the region. A change that would make the
// factor non-positive is ignored, as is a drag with no region in progress.
func (t *Tool) Drag(ctx context.Context, dy float64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return nil
	}
	factor := t.factor - t.dragScale*dy
	if factor <= 0 {
		return nil
	}
	if _, err := t.generate(ctx, t.seed, factor); err != nil {
		return err
	}
	t.factor = factor
	return nil
}

// End regenerates the region with the current factor, commits it and closes
// the session. The polygon stays with the consumer.
func (t *Tool) End(ctx context.Context) (*ROI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return nil, ErrNoSession
	}
	res, err := t.generate(ctx, t.seed, t.factor)
	if err != nil {
		return nil, err
	}
	t.active = false

	roi := &ROI{
		ID:      uuid.New().String(),
		Seed:    res.Seed,
		Factor:  t.factor,
		Window:  res.Window,
		Polygon: res.Polygon,
		Stats:   ComputeStatistics(t.grid, res.Mask, res.Seed.Z),
	}
	t.logger.WithFields(logrus.Fields{
		"roi":    roi.ID,
		"cells":  roi.Stats.Count,
		"area":   roi.Stats.Area,
		"mean":   roi.Stats.Mean,
		"stddev": roi.Stats.StdDev,
	}).Info("region committed")
	return roi, nil
}

// Cancel discards the region in progress and clears the consumer
func (t *Tool) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.active {
		return
	}
	t.active = false
	t.last = nil
	t.consumer.Clear()
	t.logger.Debug("region discarded")
}

func (t *Tool) generate(ctx context.Context, seed Point, factor float64) (*Result, error) {
	opts := t.defaults
	opts.Factor = factor

	res, err := Segment(ctx, t.grid, seed, opts)
	if err != nil {
		t.logger.WithError(err).WithField("factor", factor).Warn("segmentation failed")
		return nil, fmt.Errorf("failed to generate region: %w", err)
	}

	t.last = res
	t.consumer.Replace(res.Polygon)
	t.logger.WithFields(logrus.Fields{
		"seed":     fmt.Sprintf("(%d, %d, %d)", res.Seed.X, res.Seed.Y, res.Seed.Z),
		"factor":   factor,
		"lower":    res.Window.Lower,
		"upper":    res.Window.Upper,
		"cells":    res.Mask.Count(),
		"vertices": res.Polygon.Len(),
	}).Debug("region generated")
	return res, nil
}
