// Package detect locates the genuine content of a rendered page image.
// It provides the text block classifier and the content bounds detector
// that together separate paragraphs and figures from scanner artifacts.
package detect

import (
	"image"

	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/raster"
)

// BoundsConfig holds configuration for content bounds detection.
type BoundsConfig struct {
	// InkThreshold is the luminance below which a pixel counts as ink
	// Default: 200
	InkThreshold uint8

	// LineKernel is the wide flat structuring element that bridges ink
	// within a text line into a continuous horizontal run
	// Default: 30x1
	LineKernel raster.Kernel

	// ParagraphKernel is the tall thin structuring element that merges
	// adjacent lines into paragraph blocks
	// Default: 1x10
	ParagraphKernel raster.Kernel

	// ExpandKernel is the dilation element that bridges adjacent
	// paragraphs and figures into single connected components
	// Default: 15x8
	ExpandKernel raster.Kernel

	// MinArea is the minimum component area considered real content (px^2)
	// Default: 2000
	MinArea int

	// MinWidth and MinHeight are the minimum component dimensions (pixels)
	// Defaults: 50 and 20
	MinWidth  int
	MinHeight int

	// MinAspect and MaxAspect bound the width/height ratio; components
	// outside the range are thin scan-line artifacts
	// Defaults: 0.1 and 30
	MinAspect float64
	MaxAspect float64

	// Padding is added around the union of surviving components (pixels)
	// Default: 8
	Padding int

	// FallbackInset is the inset of the fallback bounds used when no
	// component survives filtering (pixels)
	// Default: 50
	FallbackInset int

	// Classifier configures the text block check applied to each
	// candidate component.
	Classifier ClassifierConfig
}

// DefaultBoundsConfig returns the default content bounds configuration.
func DefaultBoundsConfig() BoundsConfig {
	return BoundsConfig{
		InkThreshold:    200,
		LineKernel:      raster.Kernel{W: 30, H: 1},
		ParagraphKernel: raster.Kernel{W: 1, H: 10},
		ExpandKernel:    raster.Kernel{W: 15, H: 8},
		MinArea:         2000,
		MinWidth:        50,
		MinHeight:       20,
		MinAspect:       0.1,
		MaxAspect:       30,
		Padding:         8,
		FallbackInset:   50,
		Classifier:      DefaultClassifierConfig(),
	}
}

// BoundsDetector finds the bounding rectangle of genuine page content.
// The closing and dilation cascade merges real content into a few large
// components while isolated stains stay below the area and aspect
// filters; the text block classifier is the final disambiguator between
// an ink blob and a paragraph.
type BoundsDetector struct {
	config     BoundsConfig
	classifier *TextBlockClassifier
}

// NewBoundsDetector creates a detector with default configuration.
func NewBoundsDetector() *BoundsDetector {
	return NewBoundsDetectorWithConfig(DefaultBoundsConfig())
}

// NewBoundsDetectorWithConfig creates a detector with the given
// configuration.
func NewBoundsDetectorWithConfig(config BoundsConfig) *BoundsDetector {
	return &BoundsDetector{
		config:     config,
		classifier: NewTextBlockClassifierWithConfig(config.Classifier),
	}
}

// Detect returns the content bounds of an image. It never fails: when no
// component survives filtering it falls back to a fixed safe inset from
// the page edges.
func (d *BoundsDetector) Detect(img image.Image) model.PixelRect {
	return d.DetectGray(raster.ToGray(img))
}

// DetectGray is Detect for an already grayscale image.
func (d *BoundsDetector) DetectGray(gray *image.Gray) model.PixelRect {
	width := gray.Bounds().Dx()
	height := gray.Bounds().Dy()
	extent := model.PixelRect{X1: width, Y1: height}

	bin := raster.Binarize(gray, d.config.InkThreshold)

	// Bridge glyphs into lines, lines into paragraph blocks, and blocks
	// into page-level components.
	blocks := raster.Close(bin, d.config.LineKernel)
	blocks = raster.Close(blocks, d.config.ParagraphKernel)
	blocks = raster.Dilate(blocks, d.config.ExpandKernel)

	var union model.PixelRect
	for _, box := range raster.Components(blocks) {
		if !d.isContent(gray, box) {
			continue
		}
		union = union.Union(box)
	}

	if union.IsEmpty() {
		inset := d.config.FallbackInset
		return model.PixelRect{X0: inset, Y0: inset, X1: width - inset, Y1: height - inset}
	}

	return union.Expand(d.config.Padding).ClampTo(extent)
}

// isContent applies the geometric filters and the text block check to one
// candidate component.
func (d *BoundsDetector) isContent(gray *image.Gray, box model.PixelRect) bool {
	w, h := box.Width(), box.Height()
	if box.Area() < d.config.MinArea {
		return false
	}
	if w < d.config.MinWidth || h < d.config.MinHeight {
		return false
	}
	aspect := float64(w) / float64(h)
	if aspect < d.config.MinAspect || aspect > d.config.MaxAspect {
		return false
	}
	return d.classifier.IsTextBlock(raster.Crop(gray, box), 1)
}
