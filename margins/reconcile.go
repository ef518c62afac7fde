package margins

import (
	"context"
	"image"

	"github.com/tsawler/marginalia/detect"
	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/raster"
)

// ReconcilerConfig holds configuration for margin reconciliation.
type ReconcilerConfig struct {
	// MarginTolerance is the minimum margin width for a strip to be
	// worth cleaning (pixels)
	// Default: 5
	MarginTolerance int

	// Bounds configures content bounds detection.
	Bounds detect.BoundsConfig

	// Detector configures margin text detection, including the OCR
	// engine handle.
	Detector DetectorConfig
}

// DefaultReconcilerConfig returns the default reconciliation
// configuration with no OCR engine attached.
func DefaultReconcilerConfig() ReconcilerConfig {
	return ReconcilerConfig{
		MarginTolerance: 5,
		Bounds:          detect.DefaultBoundsConfig(),
		Detector:        DefaultDetectorConfig(),
	}
}

// Reconciler computes the final set of rectangles that are safe to
// whiten: the margin strips outside the content bounds, minus every box
// confirmed to contain genuine margin text.
type Reconciler struct {
	config   ReconcilerConfig
	bounds   *detect.BoundsDetector
	detector *TextDetector
}

// NewReconciler creates a reconciler with default configuration.
func NewReconciler() *Reconciler {
	return NewReconcilerWithConfig(DefaultReconcilerConfig())
}

// NewReconcilerWithConfig creates a reconciler with the given
// configuration.
func NewReconcilerWithConfig(config ReconcilerConfig) *Reconciler {
	return &Reconciler{
		config:   config,
		bounds:   detect.NewBoundsDetectorWithConfig(config.Bounds),
		detector: NewTextDetector(config.Detector),
	}
}

// Bounds returns the content bounds detector the reconciler uses, so
// callers can run the same detection on the same raster.
func (r *Reconciler) Bounds() *detect.BoundsDetector {
	return r.bounds
}

// Reconcile analyzes a page image and returns the rectangles safe to
// whiten together with a modified flag. The flag is false exactly when
// the content spans the whole page and there is nothing to clean; the
// page should then be left untouched.
func (r *Reconciler) Reconcile(ctx context.Context, img image.Image) ([]model.PixelRect, bool) {
	gray := raster.ToGray(img)
	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()

	bounds := r.bounds.DetectGray(gray)

	var clean []model.PixelRect
	for _, region := range MarginRegions(bounds, width, height, r.config.MarginTolerance) {
		protected := r.detector.Detect(ctx, gray, region.Rect)
		if len(protected) == 0 {
			clean = append(clean, region.Rect)
			continue
		}
		clean = append(clean, model.SubtractAll(region.Rect, protected)...)
	}

	return clean, len(clean) > 0
}
