package models

import "fmt"

// Vec3 is a triple of physical quantities indexed by volume axis (0=X, 1=Y, 2=Z)
type Vec3 [3]float64

// Volume represents a stack of 2D slices loaded into memory
type Volume struct {
	// Data is the 3D volume data as a 1D array in row-major order
	// (index = z*Width*Height + y*Width + x)
	Data []float64

	// Width is the width of the volume in voxels
	Width int

	// Height is the height of the volume in voxels
	Height int

	// Depth is the number of slices
	Depth int

	// VoxelSize is the physical size of each voxel in mm
	VoxelSize Vec3

	// Origin is the physical position of voxel (0, 0, 0)
	Origin Vec3
}

// NewVolume allocates a zeroed volume with unit voxel size
func NewVolume(width, height, depth int) (*Volume, error) {
	if width <= 0 || height <= 0 || depth <= 0 {
		return nil, fmt.Errorf("invalid volume dimensions %dx%dx%d", width, height, depth)
	}
	return &Volume{
		Data:      make([]float64, width*height*depth),
		Width:     width,
		Height:    height,
		Depth:     depth,
		VoxelSize: Vec3{1, 1, 1},
	}, nil
}

// Dims returns the volume dimensions indexed by axis
func (v *Volume) Dims() [3]int {
	return [3]int{v.Width, v.Height, v.Depth}
}

// At returns the voxel value at (x, y, z). Out of range indices read as 0.
func (v *Volume) At(x, y, z int) float64 {
	if x < 0 || y < 0 || z < 0 || x >= v.Width || y >= v.Height || z >= v.Depth {
		return 0
	}
	return v.Data[z*v.Width*v.Height+y*v.Width+x]
}

// Set stores a voxel value; out of range indices are ignored
func (v *Volume) Set(x, y, z int, value float64) {
	if x < 0 || y < 0 || z < 0 || x >= v.Width || y >= v.Height || z >= v.Depth {
		return
	}
	v.Data[z*v.Width*v.Height+y*v.Width+x] = value
}

// View selects which pair of volume axes forms the displayed plane
type View int

const (
	Axial View = iota
	Sagittal
	Coronal
)

// Axes returns the volume axes shown as the view's horizontal, vertical and
// slice directions.
func (v View) Axes() (x, y, z int) {
	switch v {
	case Sagittal:
		return 1, 2, 0
	case Coronal:
		return 0, 2, 1
	default:
		return 0, 1, 2
	}
}

func (v View) String() string {
	switch v {
	case Axial:
		return "axial"
	case Sagittal:
		return "sagittal"
	case Coronal:
		return "coronal"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// ParseView converts a view name into a View
func ParseView(name string) (View, error) {
	switch name {
	case "axial", "":
		return Axial, nil
	case "sagittal":
		return Sagittal, nil
	case "coronal":
		return Coronal, nil
	default:
		return Axial, fmt.Errorf("invalid view: %s (must be axial, sagittal or coronal)", name)
	}
}
