// Package raster provides the low-level pixel operations used by the page
// analysis pipeline: grayscale conversion, fixed-threshold binarization,
// rectangular morphology, connected components, and projection profiles.
//
// Binary images are represented as *image.Gray where ink pixels are 255
// and background pixels are 0 (the inverse of the source luminance, so a
// dark glyph on white paper becomes a bright region on black).
package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"golang.org/x/image/draw"

	"github.com/tsawler/marginalia/model"
)

// Ink is the value of an ink pixel in a binary image.
const Ink = 255

// ToGray converts any image to grayscale. If the source is already an
// *image.Gray anchored at the origin it is returned as-is.
func ToGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			out.Set(x-b.Min.X, y-b.Min.Y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return out
}

// Binarize thresholds a grayscale image into a binary ink mask. Pixels
// strictly darker than threshold become ink (255), everything else
// background (0).
func Binarize(g *image.Gray, threshold uint8) *image.Gray {
	b := g.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if g.GrayAt(x, y).Y < threshold {
				out.SetGray(x-b.Min.X, y-b.Min.Y, color.Gray{Y: Ink})
			}
		}
	}
	return out
}

// Crop copies the pixels of g inside r into a new grayscale image anchored
// at the origin. The rectangle is clamped to the image extents first.
func Crop(g *image.Gray, r model.PixelRect) *image.Gray {
	b := g.Bounds()
	r = r.ClampTo(model.PixelRect{X0: b.Min.X, Y0: b.Min.Y, X1: b.Max.X, Y1: b.Max.Y})
	out := image.NewGray(image.Rect(0, 0, r.Width(), r.Height()))
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			out.SetGray(x-r.X0, y-r.Y0, g.GrayAt(x, y))
		}
	}
	return out
}

// HProjection returns the number of ink pixels in each row of a binary
// image.
func HProjection(bin *image.Gray) []int {
	b := bin.Bounds()
	counts := make([]int, b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if bin.GrayAt(x, y).Y > 0 {
				counts[y-b.Min.Y]++
			}
		}
	}
	return counts
}

// InkCount returns the number of ink pixels of a binary image inside r.
func InkCount(bin *image.Gray, r model.PixelRect) int {
	b := bin.Bounds()
	r = r.ClampTo(model.PixelRect{X0: b.Min.X, Y0: b.Min.Y, X1: b.Max.X, Y1: b.Max.Y})
	count := 0
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			if bin.GrayAt(x, y).Y > 0 {
				count++
			}
		}
	}
	return count
}

// EncodePNG encodes an image as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Scale resamples src into a new image of the given size using bilinear
// interpolation.
func Scale(src image.Image, width, height int) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(out, out.Bounds(), src, src.Bounds(), draw.Over, nil)
	return out
}

// FlattenNearWhite replaces every pixel whose red, green and blue channels
// all exceed threshold with pure white. Scanner paper tends to come out as
// light gray; flattening it avoids carrying the tint into re-inserted
// content.
func FlattenNearWhite(img *image.RGBA, threshold uint8) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			i := img.PixOffset(x, y)
			if img.Pix[i] > threshold && img.Pix[i+1] > threshold && img.Pix[i+2] > threshold {
				img.Pix[i] = 255
				img.Pix[i+1] = 255
				img.Pix[i+2] = 255
			}
		}
	}
}

// CropRGBA copies the pixels of img inside r into a new RGBA image
// anchored at the origin. The rectangle is clamped to the image extents.
func CropRGBA(img image.Image, r model.PixelRect) *image.RGBA {
	b := img.Bounds()
	r = r.ClampTo(model.PixelRect{X0: b.Min.X, Y0: b.Min.Y, X1: b.Max.X, Y1: b.Max.Y})
	out := image.NewRGBA(image.Rect(0, 0, r.Width(), r.Height()))
	draw.Draw(out, out.Bounds(), img, image.Pt(r.X0, r.Y0), draw.Src)
	return out
}

// FillWhite paints the pixels of img inside r opaque white.
func FillWhite(img draw.Image, r model.PixelRect) {
	b := img.Bounds()
	r = r.ClampTo(model.PixelRect{X0: b.Min.X, Y0: b.Min.Y, X1: b.Max.X, Y1: b.Max.Y})
	if r.IsEmpty() {
		return
	}
	draw.Draw(img, image.Rect(r.X0, r.Y0, r.X1, r.Y1), image.NewUniform(color.White), image.Point{}, draw.Src)
}
