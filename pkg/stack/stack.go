// Package stack loads a directory of 2D slice images as one volume.
//
// Slices are ordered by the number embedded in their file names, so
// slice_2.png comes before slice_10.png. Gray slices give an (x, y, z)
// volume; color slices give (x, y, channel, z) with three channels.
package stack

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"

	"draw3droi/internal/models"
	"draw3droi/internal/parallel"
	"draw3droi/pkg/volume"
)

var (
	// ErrNoSlices is returned when a directory holds no readable slice images
	ErrNoSlices = errors.New("no slice images found")

	// ErrSliceSize is returned when slices do not share the size of the first one
	ErrSliceSize = errors.New("slice size differs")
)

// Extensions are the slice file extensions Load picks up by default
var Extensions = []string{".png", ".jpg", ".jpeg", ".tif", ".tiff", ".bmp"}

// Options controls how a stack is read
type Options struct {
	// Factory allocates the volume; nil uses volume.HeapFactory{}
	Factory volume.Factory

	// Extensions overrides the accepted file extensions
	Extensions []string

	// PixelSize is the physical x/y size of one pixel, 0 keeps unit scale
	PixelSize float64

	// SliceGap is the physical distance between consecutive slices, 0 keeps unit scale
	SliceGap float64

	// Unit names the calibration unit of PixelSize and SliceGap
	Unit string

	// Workers bounds the goroutines converting slices; zero uses every CPU
	Workers int
}

// Load reads every slice image of dir and stacks them along z.
//
// Parameters:
//   - dir: directory holding the slices
//   - opts: extensions, calibration and allocation settings
//
// Returns:
//   - the volume, named after the directory, or an error if no slice could be
//     found, a slice fails to decode or the slices differ in size
func Load(dir string, opts Options) (*volume.Volume, error) {
	files, err := Files(dir, opts.Extensions)
	if err != nil {
		return nil, err
	}

	slices := make([]image.Image, 0, len(files))
	for _, path := range files {
		img, err := imaging.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load slice %s: %w", filepath.Base(path), err)
		}
		slices = append(slices, img)
	}

	v, err := FromImages(slices, opts)
	if err != nil {
		return nil, err
	}
	v.Name = filepath.Base(filepath.Clean(dir))
	return v, nil
}

// Files lists the slice files of dir ordered by the number in their names.
// Names without a number sort first, ties keep lexical order.
func Files(dir string, extensions []string) ([]string, error) {
	if len(extensions) == 0 {
		extensions = Extensions
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range extensions {
			if ext == want {
				names = append(names, e.Name())
				break
			}
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoSlices, dir)
	}

	sort.SliceStable(names, func(i, j int) bool {
		ni, nj := extractNumber(names[i]), extractNumber(names[j])
		if ni != nj {
			return ni < nj
		}
		return names[i] < names[j]
	})

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}

// extractNumber returns the digits of the file name read as one number, or 0
func extractNumber(filename string) int {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	var digits strings.Builder
	for _, c := range base {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return 0
	}
	num, err := strconv.Atoi(digits.String())
	if err != nil {
		return 0
	}
	return num
}

// FromImages stacks slices along z. The first slice decides the size and
// whether the volume is gray or color.
func FromImages(slices []image.Image, opts Options) (*volume.Volume, error) {
	if len(slices) == 0 {
		return nil, ErrNoSlices
	}
	bounds := slices[0].Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	for i, img := range slices[1:] {
		if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
			return nil, fmt.Errorf("%w: slice %d is %dx%d, want %dx%d", ErrSliceSize, i+1, b.Dx(), b.Dy(), width, height)
		}
	}

	t, channels := classify(slices[0])
	shape := []int{width, height, len(slices)}
	axes := []models.AxisType{models.X, models.Y, models.Z}
	if channels > 1 {
		shape = []int{width, height, channels, len(slices)}
		axes = []models.AxisType{models.X, models.Y, models.Channel, models.Z}
	}

	factory := opts.Factory
	if factory == nil {
		factory = volume.HeapFactory{}
	}
	v, err := factory.Create(shape, t)
	if err != nil {
		return nil, fmt.Errorf("stack of %d slices: %w", len(slices), err)
	}
	v.SetAxes(axes...)
	calibrate(v, opts)

	zAxis := len(shape) - 1
	parallel.For(len(slices), opts.Workers, func(start, end int) {
		coord := make([]int, len(shape))
		for z := start; z < end; z++ {
			coord[zAxis] = z
			fill(v, slices[z], t, channels, coord)
		}
	})
	return v, nil
}

func calibrate(v *volume.Volume, opts Options) {
	for d := range v.Axes {
		switch v.Axes[d].Type {
		case models.X, models.Y:
			if opts.PixelSize > 0 {
				v.Axes[d].Scale = opts.PixelSize
				v.Axes[d].Unit = opts.Unit
			}
		case models.Z:
			if opts.SliceGap > 0 {
				v.Axes[d].Scale = opts.SliceGap
				v.Axes[d].Unit = opts.Unit
			}
		}
	}
}

// classify maps the color model of img to a sample type and channel count
func classify(img image.Image) (models.SampleType, int) {
	switch img.ColorModel() {
	case color.GrayModel:
		return models.Uint8, 1
	case color.Gray16Model:
		return models.Uint16, 1
	case color.RGBA64Model, color.NRGBA64Model:
		return models.Uint16, 3
	}
	return models.Uint8, 3
}

// fill copies one slice into v at coord's z position
func fill(v *volume.Volume, img image.Image, t models.SampleType, channels int, coord []int) {
	b := img.Bounds()
	shift := uint32(0)
	if t == models.Uint8 {
		shift = 8
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			coord[0], coord[1] = x, y
			if channels == 1 {
				v.Set(float64(r>>shift), coord...)
				continue
			}
			for c, value := range [3]uint32{r, g, bl} {
				coord[2] = c
				v.Set(float64(value>>shift), coord...)
			}
		}
	}
}
