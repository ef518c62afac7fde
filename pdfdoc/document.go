// Package pdfdoc defines the document collaborator contract the cleaning
// pipeline drives, and provides ImageDocument, an implementation backed
// by a stack of per-page scan images that serializes to PDF.
package pdfdoc

import (
	"image"

	"github.com/tsawler/marginalia/model"
)

// Document is the contract between the pipeline and the page rendering
// collaborator. The pipeline renders pages, paints white fills over page
// space rectangles, re-inserts re-centered content, and saves the edited
// result; everything else about the document format stays behind this
// interface.
//
// The coordinate contract: Render produces a raster whose pixel-to-point
// scale is dpi/72, and WhiteFill and InsertImage take rectangles in page
// space (points, origin top-left).
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// PageSize returns the page dimensions in points.
	PageSize(page int) (width, height float64, err error)

	// Render rasterizes a page at the given resolution.
	Render(page int, dpi float64) (image.Image, error)

	// WhiteFill paints an opaque white rectangle onto a page.
	WhiteFill(page int, rect model.PointRect) error

	// InsertImage draws encoded image data (PNG or JPEG) into the given
	// page space rectangle, scaling it to fit.
	InsertImage(page int, rect model.PointRect, imageData []byte) error

	// SaveTo writes the edited document to path.
	SaveTo(path string) error

	// Close releases document resources.
	Close() error
}
