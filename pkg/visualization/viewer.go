package visualization

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/tiff"

	"draw3droi/internal/models"
	"draw3droi/pkg/session"
	"draw3droi/pkg/volume"
)

// Viewer is a display that writes every view it is shown as a sequence of
// 16-bit gray image slices. Each Show goes to its own view_NN directory
// below the output directory.
type Viewer struct {
	// outputDir is where view directories are created
	outputDir string

	// format is the image format of written slices: png, tif or jpg
	format string

	// volume is the view currently shown, nil after Close
	volume *volume.Volume

	// channel is the channel axis of volume, -1 if none
	channel int

	// windows maps samples of each channel to the 16-bit gray range
	windows []session.Range

	// views counts the views shown so far
	views int
}

// NewViewer creates a viewer writing below outputDir in the given format
func NewViewer(outputDir, format string) *Viewer {
	format = strings.TrimPrefix(strings.ToLower(format), ".")
	if format == "" {
		format = "png"
	}
	return &Viewer{
		outputDir: outputDir,
		format:    format,
		channel:   -1,
	}
}

// Show writes every plane of vol spanned by its first two dimensions
func (v *Viewer) Show(vol *volume.Volume, spec session.DisplaySpec) error {
	if err := v.load(vol, spec); err != nil {
		return err
	}
	v.views++
	return v.SaveView(filepath.Join(v.outputDir, fmt.Sprintf("view_%02d", v.views)))
}

// Close forgets the current view
func (v *Viewer) Close() error {
	v.volume = nil
	v.windows = nil
	v.channel = -1
	return nil
}

// Views returns how many views have been shown
func (v *Viewer) Views() int {
	return v.views
}

func (v *Viewer) load(vol *volume.Volume, spec session.DisplaySpec) error {
	if vol.NumDims() < 2 {
		return fmt.Errorf("cannot show a %d dimensional volume", vol.NumDims())
	}
	v.volume = vol
	v.channel = spec.ChannelAxis
	v.windows = spec.Ranges
	if len(v.windows) == 0 {
		v.windows = windows(vol, spec.ChannelAxis)
	}
	return nil
}

// windows computes one intensity window per channel from the samples
func windows(vol *volume.Volume, channel int) []session.Range {
	if channel < 0 {
		min, max := vol.Range()
		return []session.Range{{Min: min, Max: max}}
	}
	out := make([]session.Range, vol.Dim(channel))
	for c := range out {
		plane, err := volume.Slice(vol, channel, c)
		if err != nil {
			continue
		}
		out[c].Min, out[c].Max = plane.Range()
	}
	return out
}

func (v *Viewer) window(coord []int) session.Range {
	c := 0
	if v.channel >= 0 {
		c = coord[v.channel]
	}
	if c >= len(v.windows) {
		c = len(v.windows) - 1
	}
	return v.windows[c]
}

// gray maps value into 16 bits through w
func gray(value float64, w session.Range) uint16 {
	span := w.Max - w.Min
	if span <= 0 {
		if value > 0 {
			return math.MaxUint16
		}
		return 0
	}
	scaled := (value - w.Min) / span * math.MaxUint16
	return uint16(math.Round(math.Max(0, math.Min(math.MaxUint16, scaled))))
}

// plane renders dimensions h (horizontal) and vd (vertical) at coord
func (v *Viewer) plane(h, vd int, coord []int) *image.Gray16 {
	w := v.window(coord)
	img := image.NewGray16(image.Rect(0, 0, v.volume.Dim(h), v.volume.Dim(vd)))
	for y := 0; y < v.volume.Dim(vd); y++ {
		for x := 0; x < v.volume.Dim(h); x++ {
			coord[h], coord[vd] = x, y
			img.SetGray16(x, y, color.Gray16{Y: gray(v.volume.At(coord...), w)})
		}
	}
	return img
}

// sliceAxes returns the fixed, horizontal and vertical dimensions of a slice
// perpendicular to axis
func (v *Viewer) sliceAxes(axis string) (fixed, h, vd int, err error) {
	var types [3]models.AxisType
	switch strings.ToLower(axis) {
	case "x":
		// YZ plane, z horizontal
		types = [3]models.AxisType{models.X, models.Z, models.Y}
	case "y":
		types = [3]models.AxisType{models.Y, models.X, models.Z}
	case "z":
		types = [3]models.AxisType{models.Z, models.X, models.Y}
	default:
		return 0, 0, 0, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}
	dims := [3]int{}
	for i, t := range types {
		if dims[i] = v.volume.AxisIndex(t); dims[i] < 0 {
			return 0, 0, 0, fmt.Errorf("volume %q has no %s axis", v.volume.Name, t)
		}
	}
	return dims[0], dims[1], dims[2], nil
}

// ExtractSlice extracts a 2D slice of the shown volume perpendicular to
// axis ("x", "y" or "z") at position, from the first channel
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	return v.extract(axis, position, 0)
}

func (v *Viewer) extract(axis string, position, channel int) (image.Image, error) {
	if v.volume == nil {
		return nil, fmt.Errorf("no volume shown")
	}
	if position < 0 {
		return nil, fmt.Errorf("position must be non-negative")
	}
	fixed, h, vd, err := v.sliceAxes(axis)
	if err != nil {
		return nil, err
	}
	if position >= v.volume.Dim(fixed) {
		return nil, fmt.Errorf("position %d exceeds %s extent %d", position, axis, v.volume.Dim(fixed))
	}

	coord := make([]int, v.volume.NumDims())
	coord[fixed] = position
	if v.channel >= 0 {
		coord[v.channel] = channel
	}
	return v.plane(h, vd, coord), nil
}

func (v *Viewer) ext() string {
	switch v.format {
	case "tif", "tiff":
		return ".tif"
	case "jpg", "jpeg":
		return ".jpg"
	default:
		return "." + v.format
	}
}

// SaveSlice saves an extracted slice; the format follows the file extension
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".tif", ".tiff":
		file, err := os.Create(filename)
		if err != nil {
			return err
		}
		defer file.Close()
		return tiff.Encode(file, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		return imaging.Save(img, filename, imaging.JPEGQuality(90))
	}
}

// SaveSliceSequence extracts and saves every slice perpendicular to axis.
// Multi-channel volumes get one file per channel and position.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if v.volume == nil {
		return fmt.Errorf("no volume shown")
	}
	fixed, _, _, err := v.sliceAxes(axis)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	channels := 1
	if v.channel >= 0 {
		channels = v.volume.Dim(v.channel)
	}
	for c := 0; c < channels; c++ {
		for pos := 0; pos < v.volume.Dim(fixed); pos++ {
			img, err := v.extract(axis, pos, c)
			if err != nil {
				return err
			}
			name := fmt.Sprintf("slice_%s_%03d%s", axis, pos, v.ext())
			if channels > 1 {
				name = fmt.Sprintf("slice_%s_c%d_%03d%s", axis, c, pos, v.ext())
			}
			if err := v.SaveSlice(img, filepath.Join(outputDir, name)); err != nil {
				return err
			}
		}
	}
	return nil
}

// SaveView writes the planes spanned by the first two dimensions of the
// shown volume, one file per combination of the remaining coordinates
func (v *Viewer) SaveView(outputDir string) error {
	if v.volume == nil {
		return fmt.Errorf("no volume shown")
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	n := v.volume.NumDims()
	planes := 1
	for d := 2; d < n; d++ {
		planes *= v.volume.Dim(d)
	}
	coord := make([]int, n)
	for i := 0; i < planes; i++ {
		rest := i
		for d := 2; d < n; d++ {
			coord[d] = rest % v.volume.Dim(d)
			rest /= v.volume.Dim(d)
		}
		img := v.plane(0, 1, coord)
		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%03d%s", i, v.ext()))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}
	return nil
}

// SaveMask writes a 0/1 mask as z slices into outputDir
func SaveMask(m *volume.Volume, outputDir, format string) error {
	viewer := NewViewer(outputDir, format)
	spec := session.DisplaySpec{Name: m.Name, ChannelAxis: -1, ChannelCount: 1, Ranges: []session.Range{{Min: 0, Max: 1}}}
	if err := viewer.load(m, spec); err != nil {
		return err
	}
	return viewer.SaveSliceSequence("z", outputDir)
}
