// Package pipeline drives the page cleaning end to end: render a page,
// reconcile its margins, convert the resulting rectangles to page space,
// and apply white fills and the optional recentering to the document.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/tsawler/marginalia/debug"
	"github.com/tsawler/marginalia/margins"
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/pdfdoc"
	"github.com/tsawler/marginalia/raster"
)

// PlannerConfig holds configuration for per-page edit planning.
type PlannerConfig struct {
	// DPI is the render resolution for page analysis
	// Default: 200
	DPI float64

	// CenterContent re-centers the surviving content on the page after
	// margin cleaning
	// Default: true
	CenterContent bool

	// CenterTolerance is the dead zone for recentering: shifts smaller
	// than this in both axes are skipped (points)
	// Default: 5
	CenterTolerance float64

	// WhiteThreshold flattens near-white pixels of re-inserted content
	// to pure white; a pixel qualifies when all channels exceed it
	// Default: 200
	WhiteThreshold uint8

	// Reconciler configures margin reconciliation, including the OCR
	// engine handle.
	Reconciler margins.ReconcilerConfig

	// Debug, when non-nil, receives analysis images for inspected pages.
	Debug *debug.Writer
}

// DefaultPlannerConfig returns the default planning configuration.
func DefaultPlannerConfig() PlannerConfig {
	return PlannerConfig{
		DPI:             200,
		CenterContent:   true,
		CenterTolerance: 5,
		WhiteThreshold:  200,
		Reconciler:      margins.DefaultReconcilerConfig(),
	}
}

// Recenter describes the re-insertion of extracted content at the page
// center.
type Recenter struct {
	// Target is the centered destination rectangle in page space.
	Target model.PointRect

	// Image is the PNG-encoded content crop, near-white flattened.
	Image []byte
}

// PageEdit is the planned edit for a single page: the page space
// rectangles to whiten and the optional recentering. An edit with no
// fills leaves the page untouched.
type PageEdit struct {
	Page     int
	Fills    []model.PointRect
	Recenter *Recenter
}

// Modified reports whether the edit changes the page.
func (e *PageEdit) Modified() bool {
	return len(e.Fills) > 0
}

// Planner plans and applies the edits for individual pages.
type Planner struct {
	config     PlannerConfig
	reconciler *margins.Reconciler
}

// NewPlanner creates a planner with the given configuration.
func NewPlanner(config PlannerConfig) *Planner {
	return &Planner{
		config:     config,
		reconciler: margins.NewReconcilerWithConfig(config.Reconciler),
	}
}

// Plan renders one page and computes its edit. Planning only reads the
// document; Apply performs the mutations, so plans for different pages
// can be computed concurrently.
func (p *Planner) Plan(ctx context.Context, doc pdfdoc.Document, page int) (*PageEdit, error) {
	img, err := doc.Render(page, p.config.DPI)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	rects, modified := p.reconciler.Reconcile(ctx, img)

	if p.config.Debug != nil {
		bounds := p.reconciler.Bounds().Detect(img)
		if err := p.config.Debug.WritePage(page, img, bounds, rects); err != nil {
			return nil, fmt.Errorf("failed to write debug images: %w", err)
		}
	}

	edit := &PageEdit{Page: page}
	if !modified {
		return edit, nil
	}

	edit.Fills = make([]model.PointRect, len(rects))
	for i, r := range rects {
		edit.Fills[i] = r.ToPoints(p.config.DPI)
	}

	if p.config.CenterContent {
		recenter, err := p.planRecenter(doc, page, img)
		if err != nil {
			return nil, err
		}
		edit.Recenter = recenter
	}
	return edit, nil
}

// planRecenter computes the centering shift from the pre-edit raster and
// prepares the content crop for re-insertion. Shifts inside the dead zone
// produce no recentering.
func (p *Planner) planRecenter(doc pdfdoc.Document, page int, img image.Image) (*Recenter, error) {
	bounds := p.reconciler.Bounds().Detect(img)
	content := bounds.ToPoints(p.config.DPI)

	pageWidth, pageHeight, err := doc.PageSize(page)
	if err != nil {
		return nil, fmt.Errorf("failed to read page size: %w", err)
	}

	center := content.Center()
	shiftX := pageWidth/2 - center.X
	shiftY := pageHeight/2 - center.Y
	if math.Abs(shiftX) < p.config.CenterTolerance && math.Abs(shiftY) < p.config.CenterTolerance {
		return nil, nil
	}

	crop := raster.CropRGBA(img, bounds)
	raster.FlattenNearWhite(crop, p.config.WhiteThreshold)
	data, err := raster.EncodePNG(crop)
	if err != nil {
		return nil, fmt.Errorf("failed to encode content crop: %w", err)
	}

	x0 := (pageWidth - content.Width()) / 2
	y0 := (pageHeight - content.Height()) / 2
	target := model.PointRect{X0: x0, Y0: y0, X1: x0 + content.Width(), Y1: y0 + content.Height()}

	return &Recenter{Target: target, Image: data}, nil
}

// Apply performs a planned edit on the document: white fills first, then,
// when recentering, a full-page whitewash followed by re-insertion of the
// extracted content at the page center. Applies for different pages must
// be serialized by the caller.
func (p *Planner) Apply(doc pdfdoc.Document, edit *PageEdit) error {
	if !edit.Modified() {
		return nil
	}
	for _, fill := range edit.Fills {
		if err := doc.WhiteFill(edit.Page, fill); err != nil {
			return fmt.Errorf("failed to whiten page %d: %w", edit.Page+1, err)
		}
	}
	if edit.Recenter != nil {
		w, h, err := doc.PageSize(edit.Page)
		if err != nil {
			return fmt.Errorf("failed to read page size: %w", err)
		}
		if err := doc.WhiteFill(edit.Page, model.PointRect{X1: w, Y1: h}); err != nil {
			return fmt.Errorf("failed to clear page %d: %w", edit.Page+1, err)
		}
		if err := doc.InsertImage(edit.Page, edit.Recenter.Target, edit.Recenter.Image); err != nil {
			return fmt.Errorf("failed to recenter page %d: %w", edit.Page+1, err)
		}
	}
	return nil
}
