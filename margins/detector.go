package margins

import (
	"context"
	"image"
	"time"

	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/ocr"
	"github.com/tsawler/marginalia/raster"
)

// Engine is the capability interface for the OCR collaborator. Anything
// that can turn a small encoded image into text satisfies it; ocr.Client
// does when built with the "ocr" tag. A nil Engine means OCR is
// unavailable, in which case every candidate region is protected.
type Engine interface {
	// Recognize performs OCR on encoded image data and returns the
	// recognized text.
	Recognize(imageData []byte) (string, error)
}

// DetectorConfig holds configuration for margin text detection.
type DetectorConfig struct {
	// MinRegionSize skips margin regions smaller than this in either
	// dimension (pixels)
	// Default: 10
	MinRegionSize int

	// InkThreshold is the luminance below which a pixel counts as ink
	// Default: 200
	InkThreshold uint8

	// OpenKernel is the small opening element that removes speckle noise
	// Default: 2x2
	OpenKernel raster.Kernel

	// DilateKernel connects adjacent glyph strokes into word or
	// number sized blobs
	// Default: 8x4
	DilateKernel raster.Kernel

	// MinArea and MaxArea bound the candidate component area (px^2)
	// Defaults: 100 and 50000
	MinArea int
	MaxArea int

	// MinDimension is the minimum candidate width and height (pixels)
	// Default: 10
	MinDimension int

	// MinAspect and MaxAspect bound the candidate width/height ratio
	// Defaults: 0.05 and 15
	MinAspect float64
	MaxAspect float64

	// MinDensity and MaxDensity bound the ink fill ratio of the
	// candidate bounding box. Text has a characteristic mid-range fill;
	// solid stains are denser, faint specks sparser
	// Defaults: 0.03 and 0.7
	MinDensity float64
	MaxDensity float64

	// Padding is added around confirmed boxes before clamping to the
	// margin (pixels)
	// Default: 5
	Padding int

	// Engine is the OCR collaborator. Nil means unavailable: every
	// candidate is protected.
	Engine Engine

	// Timeout bounds a single OCR call. On expiry the candidate is
	// protected, consistent with the fail-open policy.
	// Default: 10s
	Timeout time.Duration
}

// DefaultDetectorConfig returns the default margin text detection
// configuration with no OCR engine attached.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MinRegionSize: 10,
		InkThreshold:  200,
		OpenKernel:    raster.Kernel{W: 2, H: 2},
		DilateKernel:  raster.Kernel{W: 8, H: 4},
		MinArea:       100,
		MaxArea:       50000,
		MinDimension:  10,
		MinAspect:     0.05,
		MaxAspect:     15,
		MinDensity:    0.03,
		MaxDensity:    0.7,
		Padding:       5,
		Engine:        nil,
		Timeout:       10 * time.Second,
	}
}

// TextDetector finds the sub-rectangles of a margin region that contain
// genuine script or digits. It runs only outside the content bounds,
// where a false positive (wrongly protecting a stain) is cheaper than a
// false negative (erasing a real page number), so every ambiguity
// resolves toward protection.
type TextDetector struct {
	config DetectorConfig
}

// NewTextDetector creates a detector with the given configuration.
func NewTextDetector(config DetectorConfig) *TextDetector {
	return &TextDetector{config: config}
}

// Detect returns the protected boxes of one margin region, in image-space
// coordinates. gray is the full page raster; region selects the margin
// strip to analyze.
func (d *TextDetector) Detect(ctx context.Context, gray *image.Gray, region model.PixelRect) []model.PixelRect {
	if region.Width() < d.config.MinRegionSize || region.Height() < d.config.MinRegionSize {
		return nil
	}

	crop := raster.Crop(gray, region)
	bin := raster.Binarize(crop, d.config.InkThreshold)
	opened := raster.Open(bin, d.config.OpenKernel)
	blobs := raster.Dilate(opened, d.config.DilateKernel)

	extent := model.PixelRect{X1: region.Width(), Y1: region.Height()}

	var protected []model.PixelRect
	for _, box := range raster.Components(blobs) {
		if !d.isCandidate(opened, box) {
			continue
		}
		if !d.confirm(ctx, raster.Crop(crop, box)) {
			continue
		}
		padded := box.Expand(d.config.Padding).ClampTo(extent)
		protected = append(protected, padded.Translate(region.X0, region.Y0))
	}
	return protected
}

// isCandidate applies the geometric and density filters to one blob.
// Density is measured on the opened (speckle-free) mask so dilation does
// not inflate the ink count.
func (d *TextDetector) isCandidate(opened *image.Gray, box model.PixelRect) bool {
	w, h := box.Width(), box.Height()
	area := box.Area()
	if area < d.config.MinArea || area > d.config.MaxArea {
		return false
	}
	if w < d.config.MinDimension || h < d.config.MinDimension {
		return false
	}
	aspect := float64(w) / float64(h)
	if aspect < d.config.MinAspect || aspect > d.config.MaxAspect {
		return false
	}
	density := float64(raster.InkCount(opened, box)) / float64(area)
	return density >= d.config.MinDensity && density <= d.config.MaxDensity
}

// confirm asks the OCR collaborator whether a candidate crop contains
// recognizable script or digits. Any failure mode (no engine, encode
// error, OCR error, timeout, cancellation) confirms the candidate:
// protecting a stain costs a little whitening, erasing a page number
// loses information.
func (d *TextDetector) confirm(ctx context.Context, crop *image.Gray) bool {
	if d.config.Engine == nil {
		return true
	}

	data, err := raster.EncodePNG(crop)
	if err != nil {
		return true
	}

	type result struct {
		text string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		text, err := d.config.Engine.Recognize(data)
		ch <- result{text, err}
	}()

	timer := time.NewTimer(d.config.Timeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		if res.err != nil {
			return true
		}
		return ocr.HasRecognizableText(res.text)
	case <-timer.C:
		return true
	case <-ctx.Done():
		return true
	}
}
