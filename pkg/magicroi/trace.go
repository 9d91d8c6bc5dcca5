package magicroi

import (
	"context"
	"fmt"
	"math"
)

// DefaultTolerance is the physical distance under which two vertices coincide.
const DefaultTolerance = 1e-4

// Polygon is an ordered vertex list in physical coordinates. A closed polygon
// repeats its first vertex at the end.
type Polygon struct {
	Vertices []Point
	Closed   bool
}

// Len returns the number of stored vertices, closing vertex included
func (p *Polygon) Len() int {
	return len(p.Vertices)
}

// Ring returns the distinct vertices of the polygon, without the closing repeat.
func (p *Polygon) Ring() []Point {
	n := len(p.Vertices)
	if p.Closed && n > 1 {
		n--
	}
	out := make([]Point, n)
	copy(out, p.Vertices[:n])
	return out
}

// Bounds returns the in-plane bounding box of the vertices
func (p *Polygon) Bounds() (min, max Point) {
	if len(p.Vertices) == 0 {
		return Point{}, Point{}
	}
	min, max = p.Vertices[0], p.Vertices[0]
	for _, v := range p.Vertices[1:] {
		min.X = math.Min(min.X, v.X)
		min.Y = math.Min(min.Y, v.Y)
		max.X = math.Max(max.X, v.X)
		max.Y = math.Max(max.Y, v.Y)
	}
	return min, max
}

func coincide(a, b Point, tolerance float64) bool {
	return math.Abs(a.X-b.X) < tolerance && math.Abs(a.Y-b.Y) < tolerance
}

// Trace follows the outer boundary of mask with 8-direction Moore-neighbour
// tracing and returns the polygon through the midpoints of the boundary
// edges, in physical coordinates on the given slice.
//
// Tracing starts at the first member cell in x-major order, seeded with that
// cell's left and bottom edge midpoints, and stops as soon as an emitted
// vertex coincides with the first one within tolerance. Consecutive
// coinciding vertices are emitted once. An empty mask gives an empty polygon.
func Trace(ctx context.Context, mask *Mask, g Grid, slice int, tolerance float64) (*Polygon, error) {
	if math.IsNaN(tolerance) || tolerance <= 0 {
		return nil, fmt.Errorf("%w: tolerance %v", ErrInvalidOptions, tolerance)
	}
	ext := g.Extent()
	if err := ext.Validate(); err != nil {
		return nil, err
	}
	if mask.Width != ext.MaxX+1 || mask.Height != ext.MaxY+1 {
		return nil, fmt.Errorf("%w: mask %dx%d, extent %dx%d",
			ErrMaskMismatch, mask.Width, mask.Height, ext.MaxX+1, ext.MaxY+1)
	}

	poly := &Polygon{}
	sx, sy, ok := mask.first()
	if !ok {
		return poly, nil
	}

	emit := func(h heading, c cell) (bool, error) {
		ix, iy, err := h.edgeMidpoint(c)
		if err != nil {
			return false, err
		}
		p := physical(g, ix, iy, slice)
		n := len(poly.Vertices)
		if n > 0 && coincide(poly.Vertices[n-1], p, tolerance) {
			return false, nil
		}
		poly.Vertices = append(poly.Vertices, p)
		return n > 0 && coincide(poly.Vertices[0], p, tolerance), nil
	}

	cur := cell{sx, sy}
	for _, h := range []heading{headingLeft, headingDown} {
		if _, err := emit(h, cur); err != nil {
			return nil, err
		}
	}

	// Every boundary cell is entered at most once per adjacent edge and
	// probes at most all eight headings per visit.
	budget := 32*mask.Width*mask.Height + 16
	h := headingLeftDown
	for step := 1; ; step++ {
		if step > budget {
			return nil, fmt.Errorf("%w after %d probes", ErrContourNotClosed, budget)
		}
		if step%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("contour tracing interrupted: %w", err)
			}
		}

		nb, err := h.neighbour(cur)
		if err != nil {
			return nil, err
		}
		if mask.At(nb.x, nb.y) {
			cur = nb
			h = h.inverse().next()
			continue
		}
		if h.orthogonal() {
			closed, err := emit(h, cur)
			if err != nil {
				return nil, err
			}
			if closed {
				poly.Closed = true
				return poly, nil
			}
		}
		h = h.next()
	}
}
