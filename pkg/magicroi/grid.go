// Package magicroi implements "magic wand" region-of-interest segmentation
// on a single image slice.
//
// Given a scalar grid and a seed point it estimates a local intensity window,
// grows the 4-connected region of cells inside that window, and traces the
// region's outer boundary into a closed polygon in physical coordinates.
//
// The pipeline is a pure function of grid, seed and options. Callers own
// presentation; they receive polygons through a Consumer.
package magicroi

import "fmt"

// Point is a physical-space position in the grid frame
// (X and Y in-plane, Z along the slice axis).
type Point struct {
	X, Y, Z float64
}

// Index is an integer grid position
type Index struct {
	X, Y, Z int
}

// Extent is the inclusive in-plane index range of a grid
type Extent struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Width returns the number of columns covered by the extent
func (e Extent) Width() int { return e.MaxX - e.MinX + 1 }

// Height returns the number of rows covered by the extent
func (e Extent) Height() int { return e.MaxY - e.MinY + 1 }

// Contains reports whether (x, y) lies inside the extent
func (e Extent) Contains(x, y int) bool {
	return x >= e.MinX && x <= e.MaxX && y >= e.MinY && y <= e.MaxY
}

// Validate checks the zero-origin precondition the grower and tracer rely on.
func (e Extent) Validate() error {
	if e.MinX != 0 || e.MinY != 0 {
		return fmt.Errorf("%w: got min (%d, %d)", ErrExtentOrigin, e.MinX, e.MinY)
	}
	if e.MaxX < 0 || e.MaxY < 0 {
		return fmt.Errorf("%w: empty extent max (%d, %d)", ErrExtentOrigin, e.MaxX, e.MaxY)
	}
	return nil
}

// Grid is the read-only sampling contract the segmentation consumes.
type Grid interface {
	// ScalarAt returns the sample value at (x, y) on slice z
	ScalarAt(x, y, z int) float64
	// Extent returns the in-plane index range
	Extent() Extent
	// IndexOf maps a physical point to its grid index
	IndexOf(p Point) Index
	// Spacing returns the physical distance between adjacent samples per axis
	Spacing() Point
	// Origin returns the physical position of index (0, 0, 0)
	Origin() Point
}

// physical maps a (possibly half-step) index position to physical coordinates.
func physical(g Grid, x, y float64, z int) Point {
	s, o := g.Spacing(), g.Origin()
	return Point{
		X: x*s.X + o.X,
		Y: y*s.Y + o.Y,
		Z: float64(z)*s.Z + o.Z,
	}
}
