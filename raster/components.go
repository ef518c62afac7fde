package raster

import (
	"image"

	"github.com/tsawler/marginalia/model"
)

// Components finds the 8-connected ink components of a binary image and
// returns the bounding box of each one. Boxes are reported in the image's
// own coordinates with exclusive X1/Y1 edges.
func Components(bin *image.Gray) []model.PixelRect {
	b := bin.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return nil
	}

	visited := make([]bool, width*height)
	var boxes []model.PixelRect
	var stack []image.Point

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y*width+x] || bin.GrayAt(b.Min.X+x, b.Min.Y+y).Y == 0 {
				continue
			}

			// Flood fill one component, tracking its extent.
			box := model.PixelRect{X0: x, Y0: y, X1: x + 1, Y1: y + 1}
			visited[y*width+x] = true
			stack = append(stack[:0], image.Pt(x, y))
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]

				if p.X < box.X0 {
					box.X0 = p.X
				}
				if p.Y < box.Y0 {
					box.Y0 = p.Y
				}
				if p.X+1 > box.X1 {
					box.X1 = p.X + 1
				}
				if p.Y+1 > box.Y1 {
					box.Y1 = p.Y + 1
				}

				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := p.X+dx, p.Y+dy
						if nx < 0 || ny < 0 || nx >= width || ny >= height {
							continue
						}
						if visited[ny*width+nx] || bin.GrayAt(b.Min.X+nx, b.Min.Y+ny).Y == 0 {
							continue
						}
						visited[ny*width+nx] = true
						stack = append(stack, image.Pt(nx, ny))
					}
				}
			}

			boxes = append(boxes, box)
		}
	}
	return boxes
}
