package region

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"gopkg.in/yaml.v3"
)

// ErrUnknownShape is returned for ROI file entries that describe no shape
var ErrUnknownShape = errors.New("unknown region shape")

// File is the on-disk description of the regions of a session
type File struct {
	Regions map[string]Shape `yaml:"regions"`
}

// Shape describes one region; exactly one field should be set
type Shape struct {
	Rect    *RectShape   `yaml:"rect,omitempty"`
	Polygon [][2]float64 `yaml:"polygon,omitempty"`
	Point   []int        `yaml:"point,omitempty"`
	Mask    string       `yaml:"mask,omitempty"`
	Empty   bool         `yaml:"empty,omitempty"`
}

// RectShape is the YAML form of Rect
type RectShape struct {
	X      int `yaml:"x"`
	Y      int `yaml:"y"`
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// ParsePlane resolves "xy", "xz", "zy" (or "yz") to a plane
func ParsePlane(name string) (Plane, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "xy":
		return PlaneXY, nil
	case "xz":
		return PlaneXZ, nil
	case "zy", "yz":
		return PlaneZY, nil
	}
	return 0, fmt.Errorf("unknown plane %q", name)
}

// LoadFile reads an ROI file. Mask paths are resolved against the file's directory.
func LoadFile(path string) (map[Plane]Region, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading ROI file: %w", err)
	}
	return Decode(data, filepath.Dir(path))
}

// Decode parses ROI YAML. Planes missing from the document are absent from the result.
func Decode(data []byte, baseDir string) (map[Plane]Region, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("error parsing ROI file: %w", err)
	}

	out := make(map[Plane]Region, len(f.Regions))
	for name, shape := range f.Regions {
		plane, err := ParsePlane(name)
		if err != nil {
			return nil, err
		}
		r, err := shape.Region(baseDir)
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", name, err)
		}
		out[plane] = r
	}
	return out, nil
}

// Region builds the predicate the shape describes
func (s Shape) Region(baseDir string) (Region, error) {
	switch {
	case s.Empty:
		return Empty{}, nil
	case s.Rect != nil:
		return Rect{X: s.Rect.X, Y: s.Rect.Y, W: s.Rect.Width, H: s.Rect.Height}, nil
	case len(s.Polygon) > 0:
		vertices := make([]Vertex, len(s.Polygon))
		for i, v := range s.Polygon {
			vertices[i] = Vertex{X: v[0], Y: v[1]}
		}
		return NewPolygon(vertices...), nil
	case len(s.Point) > 0:
		if len(s.Point) != 2 {
			return nil, fmt.Errorf("point needs 2 coordinates, got %d", len(s.Point))
		}
		return Point{X: s.Point[0], Y: s.Point[1]}, nil
	case s.Mask != "":
		path := s.Mask
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		img, err := imaging.Open(path)
		if err != nil {
			return nil, fmt.Errorf("error loading mask %s: %w", path, err)
		}
		return FromImage(img), nil
	}
	return nil, ErrUnknownShape
}
