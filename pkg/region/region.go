// Package region holds the 2D containment predicates drawn on each
// perspective of a volume and the store that keeps one per plane.
package region

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Region is a 2D point containment test over integer pixel coordinates.
// The first argument is the horizontal axis of the plane, the second the vertical one.
type Region interface {
	Contains(a, b int) bool
}

// Rect is an axis-aligned rectangle, half-open on both axes
type Rect struct {
	X, Y, W, H int
}

// Full returns the rectangle covering [0,w) x [0,h)
func Full(w, h int) Rect {
	return Rect{W: w, H: h}
}

// Contains reports X <= a < X+W and Y <= b < Y+H
func (r Rect) Contains(a, b int) bool {
	return a >= r.X && a < r.X+r.W && b >= r.Y && b < r.Y+r.H
}

func (r Rect) String() string {
	return fmt.Sprintf("rect(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Point selects exactly one pixel
type Point struct {
	X, Y int
}

// Contains reports whether (a, b) is the point
func (p Point) Contains(a, b int) bool {
	return a == p.X && b == p.Y
}

// Empty contains nothing
type Empty struct{}

// Contains always reports false
func (Empty) Contains(int, int) bool { return false }

// Vertex is a polygon corner in pixel-edge coordinates
type Vertex struct {
	X, Y float64
}

// Polygon is a closed outline. A pixel is inside when its centre
// (a+0.5, b+0.5) is inside under the even-odd rule.
type Polygon struct {
	Vertices []Vertex
	bounds   image.Rectangle
}

// NewPolygon closes the outline through the given vertices
func NewPolygon(vertices ...Vertex) *Polygon {
	p := &Polygon{Vertices: append([]Vertex(nil), vertices...)}
	if len(vertices) == 0 {
		return p
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range vertices {
		minX, maxX = math.Min(minX, v.X), math.Max(maxX, v.X)
		minY, maxY = math.Min(minY, v.Y), math.Max(maxY, v.Y)
	}
	p.bounds = image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
	return p
}

// Contains reports whether the centre of pixel (a, b) lies inside the outline
func (p *Polygon) Contains(a, b int) bool {
	if len(p.Vertices) < 3 || !image.Pt(a, b).In(p.bounds) {
		return false
	}
	px, py := float64(a)+0.5, float64(b)+0.5

	inside := false
	j := len(p.Vertices) - 1
	for i, vi := range p.Vertices {
		vj := p.Vertices[j]
		if (vi.Y > py) != (vj.Y > py) {
			x := vj.X + (py-vj.Y)*(vi.X-vj.X)/(vi.Y-vj.Y)
			if px < x {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}

// Bitmap is a raster region; pixels outside the grid are not contained
type Bitmap struct {
	W, H int
	bits []bool
}

// NewBitmap creates an empty w x h bitmap
func NewBitmap(w, h int) *Bitmap {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Bitmap{W: w, H: h, bits: make([]bool, w*h)}
}

// FromImage selects every pixel that is neither black nor transparent
func FromImage(img image.Image) *Bitmap {
	gray := imaging.Grayscale(img)
	b := NewBitmap(gray.Rect.Dx(), gray.Rect.Dy())
	for y := 0; y < b.H; y++ {
		row := gray.Pix[y*gray.Stride:]
		for x := 0; x < b.W; x++ {
			px := row[x*4 : x*4+4]
			b.bits[y*b.W+x] = px[0] > 0 && px[3] > 0
		}
	}
	return b
}

// Set marks or clears pixel (a, b); out-of-range pixels are ignored
func (m *Bitmap) Set(a, b int, on bool) {
	if a < 0 || a >= m.W || b < 0 || b >= m.H {
		return
	}
	m.bits[b*m.W+a] = on
}

// Contains reports whether pixel (a, b) is set
func (m *Bitmap) Contains(a, b int) bool {
	if a < 0 || a >= m.W || b < 0 || b >= m.H {
		return false
	}
	return m.bits[b*m.W+a]
}

// Count returns the number of set pixels
func (m *Bitmap) Count() int {
	n := 0
	for _, on := range m.bits {
		if on {
			n++
		}
	}
	return n
}

// Compile samples r over [0,w) x [0,h) into a bitmap. The result answers
// exactly like r inside that grid, at the cost of one Contains call per pixel.
func Compile(r Region, w, h int) *Bitmap {
	if b, ok := r.(*Bitmap); ok && b.W == w && b.H == h {
		return b
	}
	b := NewBitmap(w, h)
	for y := 0; y < b.H; y++ {
		for x := 0; x < b.W; x++ {
			b.bits[y*b.W+x] = r.Contains(x, y)
		}
	}
	return b
}
