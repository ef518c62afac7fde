package model

import "math"

// Point represents a 2D point in page space (points, 72 per inch).
type Point struct {
	X, Y float64
}

// PixelRect is an axis-aligned rectangle in image space: integer pixel
// coordinates with the origin at the top-left of the rendered page.
// X1 and Y1 are exclusive. The zero value is empty.
type PixelRect struct {
	X0, Y0, X1, Y1 int
}

// NewPixelRect creates a pixel rectangle, normalizing the corner order so
// that X0 <= X1 and Y0 <= Y1.
func NewPixelRect(x0, y0, x1, y1 int) PixelRect {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	return PixelRect{X0: x0, Y0: y0, X1: x1, Y1: y1}
}

// Width returns the width in pixels.
func (r PixelRect) Width() int {
	return r.X1 - r.X0
}

// Height returns the height in pixels.
func (r PixelRect) Height() int {
	return r.Y1 - r.Y0
}

// Area returns the area in square pixels.
func (r PixelRect) Area() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Width() * r.Height()
}

// IsEmpty returns true if the rectangle encloses no pixels.
func (r PixelRect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Center returns the center of the rectangle.
func (r PixelRect) Center() Point {
	return Point{
		X: float64(r.X0+r.X1) / 2,
		Y: float64(r.Y0+r.Y1) / 2,
	}
}

// Intersects checks whether two rectangles share any pixels.
func (r PixelRect) Intersects(other PixelRect) bool {
	return !r.Intersect(other).IsEmpty()
}

// Intersect returns the intersection of two rectangles, or an empty
// rectangle if they do not overlap.
func (r PixelRect) Intersect(other PixelRect) PixelRect {
	out := PixelRect{
		X0: maxInt(r.X0, other.X0),
		Y0: maxInt(r.Y0, other.Y0),
		X1: minInt(r.X1, other.X1),
		Y1: minInt(r.Y1, other.Y1),
	}
	if out.IsEmpty() {
		return PixelRect{}
	}
	return out
}

// Union returns the smallest rectangle containing both rectangles.
// An empty rectangle is the identity.
func (r PixelRect) Union(other PixelRect) PixelRect {
	if r.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return r
	}
	return PixelRect{
		X0: minInt(r.X0, other.X0),
		Y0: minInt(r.Y0, other.Y0),
		X1: maxInt(r.X1, other.X1),
		Y1: maxInt(r.Y1, other.Y1),
	}
}

// Contains checks whether other lies entirely within r.
func (r PixelRect) Contains(other PixelRect) bool {
	if other.IsEmpty() {
		return true
	}
	return other.X0 >= r.X0 && other.Y0 >= r.Y0 &&
		other.X1 <= r.X1 && other.Y1 <= r.Y1
}

// Expand grows the rectangle by pad pixels on every side. A negative pad
// shrinks it.
func (r PixelRect) Expand(pad int) PixelRect {
	return PixelRect{X0: r.X0 - pad, Y0: r.Y0 - pad, X1: r.X1 + pad, Y1: r.Y1 + pad}
}

// ClampTo restricts the rectangle to lie within bounds.
func (r PixelRect) ClampTo(bounds PixelRect) PixelRect {
	out := PixelRect{
		X0: maxInt(r.X0, bounds.X0),
		Y0: maxInt(r.Y0, bounds.Y0),
		X1: minInt(r.X1, bounds.X1),
		Y1: minInt(r.Y1, bounds.Y1),
	}
	if out.IsEmpty() {
		return PixelRect{}
	}
	return out
}

// Translate shifts the rectangle by (dx, dy).
func (r PixelRect) Translate(dx, dy int) PixelRect {
	return PixelRect{X0: r.X0 + dx, Y0: r.Y0 + dy, X1: r.X1 + dx, Y1: r.Y1 + dy}
}

// ToPoints converts the rectangle from image space to page space. The
// raster is assumed to have been rendered at the given dpi, so one point
// corresponds to dpi/72 pixels.
func (r PixelRect) ToPoints(dpi float64) PointRect {
	scale := dpi / 72
	return PointRect{
		X0: float64(r.X0) / scale,
		Y0: float64(r.Y0) / scale,
		X1: float64(r.X1) / scale,
		Y1: float64(r.Y1) / scale,
	}
}

// PointRect is an axis-aligned rectangle in page space: floating-point
// coordinates measured in points (72 per inch), origin at the top-left of
// the page.
type PointRect struct {
	X0, Y0, X1, Y1 float64
}

// Width returns the width in points.
func (r PointRect) Width() float64 {
	return r.X1 - r.X0
}

// Height returns the height in points.
func (r PointRect) Height() float64 {
	return r.Y1 - r.Y0
}

// IsEmpty returns true if the rectangle has no positive extent.
func (r PointRect) IsEmpty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Center returns the center of the rectangle.
func (r PointRect) Center() Point {
	return Point{
		X: (r.X0 + r.X1) / 2,
		Y: (r.Y0 + r.Y1) / 2,
	}
}

// ToPixels converts the rectangle from page space to image space at the
// given render resolution, rounding each coordinate to the nearest pixel.
func (r PointRect) ToPixels(dpi float64) PixelRect {
	scale := dpi / 72
	return PixelRect{
		X0: int(math.Round(r.X0 * scale)),
		Y0: int(math.Round(r.Y0 * scale)),
		X1: int(math.Round(r.X1 * scale)),
		Y1: int(math.Round(r.Y1 * scale)),
	}
}

// SubtractAll returns a set of disjoint rectangles covering exactly the
// part of r not covered by any of boxes. Each residual piece is produced
// by guillotine splits around the intersection with a box: the strip
// above, the strip below, and the strips left and right of it. The result
// never overlaps any box, so every returned rectangle is safe ground for
// the caller to paint over.
func SubtractAll(r PixelRect, boxes []PixelRect) []PixelRect {
	if r.IsEmpty() {
		return nil
	}
	cover := []PixelRect{r}
	for _, box := range boxes {
		var next []PixelRect
		for _, piece := range cover {
			hole := piece.Intersect(box)
			if hole.IsEmpty() {
				next = append(next, piece)
				continue
			}
			// Above and below span the full piece width; left and
			// right fill the band beside the hole.
			parts := []PixelRect{
				{X0: piece.X0, Y0: piece.Y0, X1: piece.X1, Y1: hole.Y0},
				{X0: piece.X0, Y0: hole.Y1, X1: piece.X1, Y1: piece.Y1},
				{X0: piece.X0, Y0: hole.Y0, X1: hole.X0, Y1: hole.Y1},
				{X0: hole.X1, Y0: hole.Y0, X1: piece.X1, Y1: hole.Y1},
			}
			for _, part := range parts {
				if !part.IsEmpty() {
					next = append(next, part)
				}
			}
		}
		cover = next
	}
	return cover
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
