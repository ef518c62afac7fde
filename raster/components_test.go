package raster

import (
	"testing"

	"github.com/tsawler/marginalia/model"
)

func TestComponentsEmpty(t *testing.T) {
	if boxes := Components(binPage(10, 10)); len(boxes) != 0 {
		t.Errorf("blank image should have no components, got %v", boxes)
	}
}

func TestComponentsSingleBlock(t *testing.T) {
	want := model.PixelRect{X0: 3, Y0: 4, X1: 8, Y1: 9}
	boxes := Components(binPage(20, 20, want))
	if len(boxes) != 1 {
		t.Fatalf("got %d components, want 1", len(boxes))
	}
	if boxes[0] != want {
		t.Errorf("bounding box = %+v, want %+v", boxes[0], want)
	}
}

func TestComponentsSeparatesDistantBlocks(t *testing.T) {
	a := model.PixelRect{X0: 0, Y0: 0, X1: 5, Y1: 5}
	b := model.PixelRect{X0: 10, Y0: 10, X1: 15, Y1: 15}
	boxes := Components(binPage(20, 20, a, b))
	if len(boxes) != 2 {
		t.Fatalf("got %d components, want 2: %v", len(boxes), boxes)
	}
}

func TestComponentsDiagonalTouchConnects(t *testing.T) {
	// Two blocks meeting only at a corner are 8-connected.
	a := model.PixelRect{X0: 0, Y0: 0, X1: 5, Y1: 5}
	b := model.PixelRect{X0: 5, Y0: 5, X1: 10, Y1: 10}
	boxes := Components(binPage(20, 20, a, b))
	if len(boxes) != 1 {
		t.Fatalf("got %d components, want 1: %v", len(boxes), boxes)
	}
	if want := (model.PixelRect{X0: 0, Y0: 0, X1: 10, Y1: 10}); boxes[0] != want {
		t.Errorf("bounding box = %+v, want %+v", boxes[0], want)
	}
}

func TestComponentsRing(t *testing.T) {
	// A hollow rectangle is one component whose box is its outer extent.
	outer := model.PixelRect{X0: 2, Y0: 2, X1: 12, Y1: 12}
	bin := binPage(20, 20, outer)
	// Carve out the interior.
	for y := 4; y < 10; y++ {
		for x := 4; x < 10; x++ {
			bin.Pix[y*bin.Stride+x] = 0
		}
	}
	boxes := Components(bin)
	if len(boxes) != 1 {
		t.Fatalf("got %d components, want 1: %v", len(boxes), boxes)
	}
	if boxes[0] != outer {
		t.Errorf("bounding box = %+v, want %+v", boxes[0], outer)
	}
}
