package magicroi

import (
	"math"
	"math/rand"
)

// testGrid is an in-memory Grid over rows[y][x] on slice 0.
type testGrid struct {
	width, height int
	values        []float64
	spacing       Point
	origin        Point
	extent        *Extent

	reads      int
	outOfRange int
}

func newTestGrid(rows [][]float64) *testGrid {
	h := len(rows)
	w := len(rows[0])
	g := &testGrid{
		width:   w,
		height:  h,
		values:  make([]float64, w*h),
		spacing: Point{1, 1, 1},
	}
	for y, row := range rows {
		copy(g.values[y*w:], row)
	}
	return g
}

func uniformGrid(w, h int, v float64) *testGrid {
	rows := make([][]float64, h)
	for y := range rows {
		rows[y] = make([]float64, w)
		for x := range rows[y] {
			rows[y][x] = v
		}
	}
	return newTestGrid(rows)
}

func randomGrid(w, h int, seed int64, levels int) *testGrid {
	rng := rand.New(rand.NewSource(seed))
	rows := make([][]float64, h)
	for y := range rows {
		rows[y] = make([]float64, w)
		for x := range rows[y] {
			rows[y][x] = float64(rng.Intn(levels))
		}
	}
	return newTestGrid(rows)
}

func (g *testGrid) ScalarAt(x, y, z int) float64 {
	g.reads++
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		g.outOfRange++
		return math.NaN()
	}
	return g.values[y*g.width+x]
}

func (g *testGrid) Extent() Extent {
	if g.extent != nil {
		return *g.extent
	}
	return Extent{MinX: 0, MaxX: g.width - 1, MinY: 0, MaxY: g.height - 1}
}

func (g *testGrid) IndexOf(p Point) Index {
	return Index{
		X: int(math.Round((p.X - g.origin.X) / g.spacing.X)),
		Y: int(math.Round((p.Y - g.origin.Y) / g.spacing.Y)),
		Z: int(math.Round((p.Z - g.origin.Z) / g.spacing.Z)),
	}
}

func (g *testGrid) Spacing() Point { return g.spacing }
func (g *testGrid) Origin() Point  { return g.origin }

// pointAt returns the physical centre of cell (x, y) on slice 0.
func (g *testGrid) pointAt(x, y int) Point {
	return Point{
		X: float64(x)*g.spacing.X + g.origin.X,
		Y: float64(y)*g.spacing.Y + g.origin.Y,
		Z: g.origin.Z,
	}
}

// maskFromRows builds a mask from rows of '#' (member) and '.' characters.
func maskFromRows(rows ...string) *Mask {
	m := NewMask(Extent{MaxX: len(rows[0]) - 1, MaxY: len(rows) - 1})
	for y, row := range rows {
		for x, c := range row {
			if c == '#' {
				m.Set(x, y)
			}
		}
	}
	return m
}

// reachable returns the members of m 4-connected to (sx, sy).
func reachable(m *Mask, sx, sy int) map[cell]bool {
	seen := map[cell]bool{}
	if !m.At(sx, sy) {
		return seen
	}
	queue := []cell{{sx, sy}}
	seen[cell{sx, sy}] = true
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, d := range moveOffsets {
			n := cell{c.x + d[0], c.y + d[1]}
			if m.At(n.x, n.y) && !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	return seen
}
