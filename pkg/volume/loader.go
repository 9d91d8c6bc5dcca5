package volume

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"magicroi/internal/models"
)

// LoadParams describes where slices live and their physical geometry
type LoadParams struct {
	// Dir is the directory holding one image per slice
	Dir string

	// PixelSpacing is the in-plane pixel size in mm (X, Y)
	PixelSpacing [2]float64

	// SliceGap is the distance between consecutive slices in mm
	SliceGap float64

	// Origin is the physical position of the first voxel
	Origin models.Vec3
}

var sliceExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".tif":  true,
	".tiff": true,
	".bmp":  true,
}

// LoadDir reads every slice image in params.Dir into a volume.
//
// Files are ordered by the number embedded in their names so that
// slice_2.png sorts before slice_10.png. All slices must share dimensions.
// Intensities are luminance scaled to [0, 1].
func LoadDir(params LoadParams) (*models.Volume, error) {
	entries, err := os.ReadDir(params.Dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if sliceExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			files = append(files, e.Name())
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no slice images found in %s", params.Dir)
	}

	sort.SliceStable(files, func(i, j int) bool {
		ni, nj := extractNumber(files[i]), extractNumber(files[j])
		if ni != nj {
			return ni < nj
		}
		return files[i] < files[j]
	})

	var vol *models.Volume
	for z, name := range files {
		img, err := loadImage(filepath.Join(params.Dir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to load image %s: %w", name, err)
		}

		b := img.Bounds()
		if vol == nil {
			if vol, err = models.NewVolume(b.Dx(), b.Dy(), len(files)); err != nil {
				return nil, err
			}
		} else if b.Dx() != vol.Width || b.Dy() != vol.Height {
			return nil, fmt.Errorf("slice %s is %dx%d, expected %dx%d", name, b.Dx(), b.Dy(), vol.Width, vol.Height)
		}
		imageToVolume(img, vol, z)
	}

	vol.VoxelSize = models.Vec3{
		positiveOr(params.PixelSpacing[0], 1),
		positiveOr(params.PixelSpacing[1], 1),
		positiveOr(params.SliceGap, 1),
	}
	vol.Origin = params.Origin
	return vol, nil
}

// extractNumber extracts the digits of a filename as an integer, 0 if none
func extractNumber(filename string) int {
	base := filepath.Base(filename)
	var digits strings.Builder
	for _, c := range base {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return n
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, err
	}
	return img, nil
}

// imageToVolume writes img's luminance into slice z of vol
func imageToVolume(img image.Image, vol *models.Volume, z int) {
	b := img.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			g := color.Gray16Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.Gray16)
			vol.Set(x, y, z, float64(g.Y)/65535.0)
		}
	}
}

func positiveOr(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
