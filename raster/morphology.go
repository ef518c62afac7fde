package raster

import (
	"image"
	"image/color"
)

// Kernel describes a w x h rectangular structuring element anchored at its
// center.
type Kernel struct {
	W, H int
}

// Dilate performs a morphological dilation of a binary image with a
// rectangular kernel: a pixel becomes ink if any pixel inside the kernel
// window around it is ink. The rectangular kernel is separable, so the
// dilation runs as a horizontal pass followed by a vertical pass over
// per-row and per-column prefix sums.
func Dilate(bin *image.Gray, k Kernel) *image.Gray {
	out := bin
	if k.W > 1 {
		left, right := window(k.W)
		out = dilateHorizontal(out, left, right)
	}
	if k.H > 1 {
		top, bottom := window(k.H)
		out = dilateVertical(out, top, bottom)
	}
	if out == bin {
		out = cloneGray(bin)
	}
	return out
}

// Erode performs a morphological erosion of a binary image with a
// rectangular kernel: a pixel stays ink only if every pixel inside the
// kernel window around it is ink. Windows are clamped at the image edge,
// so ink touching the border is not eroded away by the out-of-image part
// of the kernel.
func Erode(bin *image.Gray, k Kernel) *image.Gray {
	out := bin
	if k.W > 1 {
		left, right := window(k.W)
		out = erodeHorizontal(out, left, right)
	}
	if k.H > 1 {
		top, bottom := window(k.H)
		out = erodeVertical(out, top, bottom)
	}
	if out == bin {
		out = cloneGray(bin)
	}
	return out
}

// Close performs a morphological closing (dilation then erosion). The
// erosion uses the reflected structuring element, so even-sized kernels
// do not shift the result: closing bridges gaps narrower than the kernel
// without growing or moving the overall extent of the ink regions.
func Close(bin *image.Gray, k Kernel) *image.Gray {
	out := Dilate(bin, k)
	if k.W > 1 {
		left, right := window(k.W)
		out = erodeHorizontal(out, right, left)
	}
	if k.H > 1 {
		top, bottom := window(k.H)
		out = erodeVertical(out, bottom, top)
	}
	return out
}

// Open performs a morphological opening (erosion then dilation), the
// dilation with the reflected structuring element. Opening removes
// speckles smaller than the kernel while keeping larger regions in
// place.
func Open(bin *image.Gray, k Kernel) *image.Gray {
	out := Erode(bin, k)
	if k.W > 1 {
		left, right := window(k.W)
		out = dilateHorizontal(out, right, left)
	}
	if k.H > 1 {
		top, bottom := window(k.H)
		out = dilateVertical(out, bottom, top)
	}
	return out
}

// window splits a kernel extent into the reach before and after the
// anchor. A kernel of size n covers [x-left, x+right]; the reflected
// element swaps the two reaches.
func window(n int) (left, right int) {
	return n / 2, n - 1 - n/2
}

func dilateHorizontal(bin *image.Gray, left, right int) *image.Gray {
	b := bin.Bounds()
	width, height := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	sums := make([]int, width+1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sums[x+1] = sums[x]
			if bin.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 0 {
				sums[x+1]++
			}
		}
		for x := 0; x < width; x++ {
			lo := maxInt(0, x-left)
			hi := minInt(width-1, x+right)
			if sums[hi+1]-sums[lo] > 0 {
				out.SetGray(x, y, color.Gray{Y: Ink})
			}
		}
	}
	return out
}

func dilateVertical(bin *image.Gray, top, bottom int) *image.Gray {
	b := bin.Bounds()
	width, height := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	sums := make([]int, height+1)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			sums[y+1] = sums[y]
			if bin.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 0 {
				sums[y+1]++
			}
		}
		for y := 0; y < height; y++ {
			lo := maxInt(0, y-top)
			hi := minInt(height-1, y+bottom)
			if sums[hi+1]-sums[lo] > 0 {
				out.SetGray(x, y, color.Gray{Y: Ink})
			}
		}
	}
	return out
}

func erodeHorizontal(bin *image.Gray, left, right int) *image.Gray {
	b := bin.Bounds()
	width, height := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	sums := make([]int, width+1)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sums[x+1] = sums[x]
			if bin.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 0 {
				sums[x+1]++
			}
		}
		for x := 0; x < width; x++ {
			lo := maxInt(0, x-left)
			hi := minInt(width-1, x+right)
			if sums[hi+1]-sums[lo] == hi-lo+1 {
				out.SetGray(x, y, color.Gray{Y: Ink})
			}
		}
	}
	return out
}

func erodeVertical(bin *image.Gray, top, bottom int) *image.Gray {
	b := bin.Bounds()
	width, height := b.Dx(), b.Dy()
	out := image.NewGray(image.Rect(0, 0, width, height))
	sums := make([]int, height+1)
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			sums[y+1] = sums[y]
			if bin.GrayAt(b.Min.X+x, b.Min.Y+y).Y > 0 {
				sums[y+1]++
			}
		}
		for y := 0; y < height; y++ {
			lo := maxInt(0, y-top)
			hi := minInt(height-1, y+bottom)
			if sums[hi+1]-sums[lo] == hi-lo+1 {
				out.SetGray(x, y, color.Gray{Y: Ink})
			}
		}
	}
	return out
}

func cloneGray(g *image.Gray) *image.Gray {
	out := image.NewGray(g.Bounds())
	copy(out.Pix, g.Pix)
	return out
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
