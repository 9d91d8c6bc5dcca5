// Package volume adapts in-memory volumes to the magicroi grid contract and
// loads slice stacks from image files.
package volume

import (
	"fmt"
	"math"

	"magicroi/internal/models"
	"magicroi/pkg/magicroi"
)

// SliceGrid exposes one slice of a volume, seen from a view, as a magicroi.Grid.
//
// Grid coordinates follow the view: X and Y are the view's horizontal and
// vertical volume axes, Z is the axis the view slices along. World converts
// back to volume axis order.
type SliceGrid struct {
	vol   *models.Volume
	view  models.View
	slice int

	axes [3]int
}

// NewSliceGrid creates a grid for the given slice of vol as seen from view
func NewSliceGrid(vol *models.Volume, view models.View, slice int) (*SliceGrid, error) {
	if vol == nil {
		return nil, fmt.Errorf("volume is nil")
	}
	x, y, z := view.Axes()
	dims := vol.Dims()
	if slice < 0 || slice >= dims[z] {
		return nil, fmt.Errorf("slice %d out of range [0, %d) for %s view", slice, dims[z], view)
	}
	return &SliceGrid{vol: vol, view: view, slice: slice, axes: [3]int{x, y, z}}, nil
}

// Slice returns the slice index this grid shows
func (g *SliceGrid) Slice() int { return g.slice }

// View returns the view orientation
func (g *SliceGrid) View() models.View { return g.view }

// ScalarAt returns the voxel value at view position (x, y) on slice z
func (g *SliceGrid) ScalarAt(x, y, z int) float64 {
	var idx [3]int
	idx[g.axes[0]] = x
	idx[g.axes[1]] = y
	idx[g.axes[2]] = z
	return g.vol.At(idx[0], idx[1], idx[2])
}

// Extent returns the in-plane index range of the view
func (g *SliceGrid) Extent() magicroi.Extent {
	dims := g.vol.Dims()
	return magicroi.Extent{
		MinX: 0, MaxX: dims[g.axes[0]] - 1,
		MinY: 0, MaxY: dims[g.axes[1]] - 1,
	}
}

// IndexOf maps a view-frame physical point to the nearest voxel index. The
// slice axis always resolves to the grid's own slice.
func (g *SliceGrid) IndexOf(p magicroi.Point) magicroi.Index {
	s, o := g.Spacing(), g.Origin()
	return magicroi.Index{
		X: int(math.Round((p.X - o.X) / s.X)),
		Y: int(math.Round((p.Y - o.Y) / s.Y)),
		Z: g.slice,
	}
}

// Spacing returns the voxel size in view order
func (g *SliceGrid) Spacing() magicroi.Point {
	return g.permute(g.vol.VoxelSize)
}

// Origin returns the volume origin in view order
func (g *SliceGrid) Origin() magicroi.Point {
	return g.permute(g.vol.Origin)
}

// PointAt returns the view-frame physical centre of pixel (x, y) on this slice
func (g *SliceGrid) PointAt(x, y int) magicroi.Point {
	s, o := g.Spacing(), g.Origin()
	return magicroi.Point{
		X: float64(x)*s.X + o.X,
		Y: float64(y)*s.Y + o.Y,
		Z: float64(g.slice)*s.Z + o.Z,
	}
}

// World converts a view-frame point to volume axis order
func (g *SliceGrid) World(p magicroi.Point) models.Vec3 {
	var w models.Vec3
	w[g.axes[0]] = p.X
	w[g.axes[1]] = p.Y
	w[g.axes[2]] = p.Z
	return w
}

func (g *SliceGrid) permute(v models.Vec3) magicroi.Point {
	return magicroi.Point{X: v[g.axes[0]], Y: v[g.axes[1]], Z: v[g.axes[2]]}
}
