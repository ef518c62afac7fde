package detect

import (
	"image"

	"github.com/tsawler/marginalia/raster"
)

// ClassifierConfig holds configuration for the text block classifier.
type ClassifierConfig struct {
	// MinWidth is the minimum region width considered classifiable (pixels)
	// Default: 50
	MinWidth int

	// MinHeight is the minimum region height considered classifiable (pixels)
	// Default: 20
	MinHeight int

	// InkThreshold is the luminance below which a pixel counts as ink
	// Default: 200
	InkThreshold uint8

	// RowInkRatio is the fraction of the region width a row's ink count
	// must exceed for the row to count as textual
	// Default: 0.1
	RowInkRatio float64
}

// DefaultClassifierConfig returns sensible defaults for scanned book pages.
func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		MinWidth:     50,
		MinHeight:    20,
		InkThreshold: 200,
		RowInkRatio:  0.1,
	}
}

// TextBlockClassifier decides whether a region exhibits the structural
// signature of typeset lines. Text blocks show regular horizontal banding
// in their ink projection profile; a stain of comparable size does not.
// This is a cheap structural proxy that needs no OCR.
type TextBlockClassifier struct {
	config ClassifierConfig
}

// NewTextBlockClassifier creates a classifier with default configuration.
func NewTextBlockClassifier() *TextBlockClassifier {
	return &TextBlockClassifier{config: DefaultClassifierConfig()}
}

// NewTextBlockClassifierWithConfig creates a classifier with the given
// configuration.
func NewTextBlockClassifierWithConfig(config ClassifierConfig) *TextBlockClassifier {
	return &TextBlockClassifier{config: config}
}

// IsTextBlock reports whether the grayscale region contains at least
// minLines runs of consecutive textual rows. Regions smaller than the
// configured minimum dimensions are never text blocks.
func (c *TextBlockClassifier) IsTextBlock(region *image.Gray, minLines int) bool {
	b := region.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return false
	}
	if height < c.config.MinHeight || width < c.config.MinWidth {
		return false
	}

	bin := raster.Binarize(region, c.config.InkThreshold)
	profile := raster.HProjection(bin)

	rowThreshold := float64(width) * c.config.RowInkRatio

	// Count maximal runs of consecutive rows that clear the threshold.
	lines := 0
	inLine := false
	for _, count := range profile {
		if float64(count) > rowThreshold {
			if !inLine {
				lines++
				inLine = true
			}
		} else {
			inLine = false
		}
	}

	return lines >= minLines
}
