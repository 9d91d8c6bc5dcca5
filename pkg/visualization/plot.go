package visualization

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"magicroi/pkg/magicroi"
)

// ErrEmptyContour is returned when there is nothing to plot
var ErrEmptyContour = errors.New("visualization: contour has no vertices")

// PlotContour saves a line plot of a contour in physical coordinates.
// The ring is drawn closed; when seed is not nil it is drawn as a marker.
func PlotContour(poly *magicroi.Polygon, seed *magicroi.Point, title, path string) error {
	if poly == nil || poly.Len() == 0 {
		return ErrEmptyContour
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "X (mm)"
	p.Y.Label.Text = "Y (mm)"
	p.Add(plotter.NewGrid())

	ring := poly.Ring()
	pts := make(plotter.XYs, 0, len(ring)+1)
	for _, v := range ring {
		pts = append(pts, plotter.XY{X: v.X, Y: v.Y})
	}
	pts = append(pts, pts[0])

	line, err := plotter.NewLine(pts)
	if err != nil {
		return err
	}
	line.Color = contourColor
	line.Width = vg.Points(1)
	p.Add(line)
	p.Legend.Add(fmt.Sprintf("contour (%d vertices)", len(ring)), line)

	if seed != nil {
		marker, err := plotter.NewScatter(plotter.XYs{{X: seed.X, Y: seed.Y}})
		if err != nil {
			return err
		}
		marker.GlyphStyle.Color = color.RGBA{G: 160, A: 255}
		marker.GlyphStyle.Radius = vg.Points(3)
		p.Add(marker)
		p.Legend.Add("seed", marker)
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save contour plot: %w", err)
	}
	return nil
}
