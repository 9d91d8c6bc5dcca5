// Package visualization renders segmentation results: a slice overlay that
// follows the live contour, and a standalone contour plot.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gonum.org/v1/gonum/floats"

	"magicroi/pkg/magicroi"
)

var (
	contourColor = color.RGBA{R: 255, G: 40, B: 40, A: 255}
	seedColor    = color.RGBA{R: 40, G: 220, B: 40, A: 255}
)

// Canvas is a magicroi.Consumer that keeps the latest polygon for one slice
// and renders it over the slice image.
type Canvas struct {
	mu sync.Mutex

	grid  magicroi.Grid
	slice int
	scale int

	polygon *magicroi.Polygon
	renders int
}

// NewCanvas creates a canvas for the given slice of grid. Each sample is
// drawn as a scale×scale block; scale below 1 is treated as 1.
func NewCanvas(grid magicroi.Grid, slice, scale int) *Canvas {
	if scale < 1 {
		scale = 1
	}
	return &Canvas{grid: grid, slice: slice, scale: scale}
}

// Replace implements magicroi.Consumer
func (c *Canvas) Replace(p *magicroi.Polygon) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polygon = p
	c.renders++
}

// Clear implements magicroi.Consumer
func (c *Canvas) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.polygon = nil
	c.renders++
}

// Polygon returns the polygon currently shown, or nil
func (c *Canvas) Polygon() *magicroi.Polygon {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.polygon
}

// Renders returns how many times the canvas was asked to redraw
func (c *Canvas) Renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.renders
}

// RenderSlice draws the slice as grayscale, stretched to the slice's own
// value range.
func RenderSlice(g magicroi.Grid, slice, scale int) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	ext := g.Extent()
	w, h := ext.Width(), ext.Height()
	img := image.NewRGBA(image.Rect(0, 0, w*scale, h*scale))
	if w <= 0 || h <= 0 {
		return img
	}

	values := make([]float64, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			values[y*w+x] = g.ScalarAt(ext.MinX+x, ext.MinY+y, slice)
		}
	}
	lo, hi := floats.Min(values), floats.Max(values)
	span := hi - lo

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var level uint8
			if span > 0 {
				level = uint8(math.Round((values[y*w+x] - lo) / span * 255))
			}
			px := color.RGBA{R: level, G: level, B: level, A: 255}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetRGBA(x*scale+dx, y*scale+dy, px)
				}
			}
		}
	}
	return img
}

// Render draws the slice with the current polygon on top
func (c *Canvas) Render() *image.RGBA {
	c.mu.Lock()
	poly := c.polygon
	c.mu.Unlock()

	img := RenderSlice(c.grid, c.slice, c.scale)
	if poly == nil || poly.Len() == 0 {
		return img
	}

	pts := make([][2]float64, poly.Len())
	for i, v := range poly.Vertices {
		pts[i] = c.toImage(v)
	}
	for i := 1; i < len(pts); i++ {
		drawLine(img, pts[i-1], pts[i], contourColor)
	}
	if !poly.Closed && len(pts) > 1 {
		drawLine(img, pts[len(pts)-1], pts[0], contourColor)
	}
	return img
}

// MarkSeed draws a small cross at a physical point
func (c *Canvas) MarkSeed(img *image.RGBA, p magicroi.Point) {
	q := c.toImage(p)
	x, y := int(math.Round(q[0])), int(math.Round(q[1]))
	for d := -c.scale; d <= c.scale; d++ {
		img.SetRGBA(x+d, y, seedColor)
		img.SetRGBA(x, y+d, seedColor)
	}
}

// Save renders the canvas and writes it as PNG or JPEG, chosen by extension
func (c *Canvas) Save(path string, seed *magicroi.Point) error {
	img := c.Render()
	if seed != nil {
		c.MarkSeed(img, *seed)
	}
	return saveImage(img, path)
}

// toImage maps a physical point to overlay pixel coordinates; sample (x, y)
// covers [x*scale, (x+1)*scale).
func (c *Canvas) toImage(p magicroi.Point) [2]float64 {
	s, o := c.grid.Spacing(), c.grid.Origin()
	u := (p.X - o.X) / s.X
	v := (p.Y - o.Y) / s.Y
	return [2]float64{(u + 0.5) * float64(c.scale), (v + 0.5) * float64(c.scale)}
}

func drawLine(img *image.RGBA, a, b [2]float64, col color.RGBA) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	steps := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	if steps == 0 {
		img.SetRGBA(int(a[0]), int(a[1]), col)
		return
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := int(math.Min(a[0]+t*dx, float64(img.Bounds().Max.X-1)))
		y := int(math.Min(a[1]+t*dy, float64(img.Bounds().Max.Y-1)))
		img.SetRGBA(x, y, col)
	}
}

func saveImage(img image.Image, path string) error {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".jpg", ".jpeg", ".png", "":
	default:
		return fmt.Errorf("unsupported image format: %s", ext)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if ext == ".jpg" || ext == ".jpeg" {
		return jpeg.Encode(file, img, &jpeg.Options{Quality: 90})
	}
	return png.Encode(file, img)
}
