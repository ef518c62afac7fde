// Package margins partitions a page image into the regions outside the
// detected content bounds, finds the margin sub-regions that hold genuine
// text (page numbers, running headers), and computes the residual
// rectangles that are safe to whiten.
package margins

import "github.com/tsawler/marginalia/model"

// Side names one of the four margin strips around the content bounds.
type Side int

const (
	Top Side = iota
	Bottom
	Left
	Right
)

func (s Side) String() string {
	switch s {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "unknown"
}

// Region is a named margin strip in image space.
type Region struct {
	Side Side
	Rect model.PixelRect
}

// MarginRegions derives the margin strips of a width x height page around
// the given content bounds. The top and bottom strips span the full page
// width (the corners fold into them); the left and right strips cover the
// band between them. A strip is only emitted when the margin is wider
// than tolerance pixels.
func MarginRegions(bounds model.PixelRect, width, height, tolerance int) []Region {
	var regions []Region
	if bounds.Y0 > tolerance {
		regions = append(regions, Region{Top, model.PixelRect{X0: 0, Y0: 0, X1: width, Y1: bounds.Y0}})
	}
	if bounds.Y1 < height-tolerance {
		regions = append(regions, Region{Bottom, model.PixelRect{X0: 0, Y0: bounds.Y1, X1: width, Y1: height}})
	}
	if bounds.X0 > tolerance {
		regions = append(regions, Region{Left, model.PixelRect{X0: 0, Y0: bounds.Y0, X1: bounds.X0, Y1: bounds.Y1}})
	}
	if bounds.X1 < width-tolerance {
		regions = append(regions, Region{Right, model.PixelRect{X0: bounds.X1, Y0: bounds.Y0, X1: width, Y1: bounds.Y1}})
	}
	return regions
}
