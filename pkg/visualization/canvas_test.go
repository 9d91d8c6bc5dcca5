package visualization

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"magicroi/pkg/magicroi"
)

// sliceGrid is a single-slice grid backed by rows[y][x]
type sliceGrid struct {
	rows    [][]float64
	spacing magicroi.Point
}

func (g *sliceGrid) ScalarAt(x, y, _ int) float64 { return g.rows[y][x] }

func (g *sliceGrid) Extent() magicroi.Extent {
	return magicroi.Extent{MaxX: len(g.rows[0]) - 1, MaxY: len(g.rows) - 1}
}

func (g *sliceGrid) IndexOf(p magicroi.Point) magicroi.Index {
	return magicroi.Index{X: int(p.X/g.spacing.X + 0.5), Y: int(p.Y/g.spacing.Y + 0.5)}
}

func (g *sliceGrid) PointAt(idx magicroi.Index) magicroi.Point {
	return magicroi.Point{X: float64(idx.X) * g.spacing.X, Y: float64(idx.Y) * g.spacing.Y}
}

func (g *sliceGrid) Spacing() magicroi.Point { return g.spacing }
func (g *sliceGrid) Origin() magicroi.Point  { return magicroi.Point{} }

// squareGrid is 6x6 with a bright 2x2 block at (2..3, 2..3)
func squareGrid() *sliceGrid {
	rows := make([][]float64, 6)
	for y := range rows {
		rows[y] = make([]float64, 6)
		for x := range rows[y] {
			if x >= 2 && x <= 3 && y >= 2 && y <= 3 {
				rows[y][x] = 200
			} else {
				rows[y][x] = 10
			}
		}
	}
	return &sliceGrid{rows: rows, spacing: magicroi.Point{X: 1, Y: 1, Z: 1}}
}

func segmentSquare(t *testing.T, g magicroi.Grid) *magicroi.Result {
	t.Helper()
	opts := magicroi.DefaultOptions()
	opts.Factor = 0
	res, err := magicroi.Segment(context.Background(), g, magicroi.Point{X: 2, Y: 2}, opts)
	require.NoError(t, err)
	require.Equal(t, 4, res.Mask.Count())
	return res
}

func TestRenderSliceStretchesRange(t *testing.T) {
	img := RenderSlice(squareGrid(), 0, 2)

	assert.Equal(t, image.Rect(0, 0, 12, 12), img.Bounds())
	assert.Equal(t, uint8(0), img.RGBAAt(0, 0).R)
	assert.Equal(t, uint8(255), img.RGBAAt(5, 5).R)
	assert.Equal(t, uint8(255), img.RGBAAt(4, 4).R)
	assert.Equal(t, uint8(0), img.RGBAAt(3, 3).R)
}

func TestRenderSliceUniform(t *testing.T) {
	g := &sliceGrid{rows: [][]float64{{7, 7}, {7, 7}}, spacing: magicroi.Point{X: 1, Y: 1, Z: 1}}
	img := RenderSlice(g, 0, 1)
	assert.Equal(t, uint8(0), img.RGBAAt(1, 1).R)
	assert.Equal(t, uint8(255), img.RGBAAt(1, 1).A)
}

func TestCanvasConsumer(t *testing.T) {
	g := squareGrid()
	canvas := NewCanvas(g, 0, 4)
	assert.Nil(t, canvas.Polygon())

	res := segmentSquare(t, g)
	canvas.Replace(res.Polygon)
	assert.Same(t, res.Polygon, canvas.Polygon())
	assert.Equal(t, 1, canvas.Renders())

	canvas.Clear()
	assert.Nil(t, canvas.Polygon())
	assert.Equal(t, 2, canvas.Renders())
}

func TestCanvasRenderDrawsContour(t *testing.T) {
	g := squareGrid()
	canvas := NewCanvas(g, 0, 4)
	canvas.Replace(segmentSquare(t, g).Polygon)

	img := canvas.Render()
	// the left edge of the block runs along x = 1.5 in index space, pixel 8
	assert.Equal(t, contourColor, img.RGBAAt(8, 12))
	// block interior stays untouched
	assert.Equal(t, uint8(255), img.RGBAAt(12, 12).R)
	assert.Equal(t, uint8(255), img.RGBAAt(12, 12).G)
}

func TestCanvasSave(t *testing.T) {
	g := squareGrid()
	canvas := NewCanvas(g, 0, 3)
	res := segmentSquare(t, g)
	canvas.Replace(res.Polygon)

	dir := t.TempDir()
	pngPath := filepath.Join(dir, "out", "overlay.png")
	seed := magicroi.Point{X: 2, Y: 2}
	require.NoError(t, canvas.Save(pngPath, &seed))

	f, err := os.Open(pngPath)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 18, 18), decoded.Bounds())

	require.NoError(t, canvas.Save(filepath.Join(dir, "overlay.jpg"), nil))
	assert.Error(t, canvas.Save(filepath.Join(dir, "overlay.gif"), nil))
}

func TestPlotContour(t *testing.T) {
	g := squareGrid()
	res := segmentSquare(t, g)

	path := filepath.Join(t.TempDir(), "plots", "contour.png")
	seed := g.PointAt(res.Seed)
	require.NoError(t, PlotContour(res.Polygon, &seed, "ROI", path))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	assert.ErrorIs(t, PlotContour(&magicroi.Polygon{}, nil, "empty", path), ErrEmptyContour)
	assert.ErrorIs(t, PlotContour(nil, nil, "nil", path), ErrEmptyContour)
}
