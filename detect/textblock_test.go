package detect

import (
	"image"
	"image/color"
	"testing"

	"github.com/tsawler/marginalia/model"
)

// whitePage creates a grayscale image filled with white.
func whitePage(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	return g
}

// drawInk paints a dark rectangle onto a grayscale page.
func drawInk(g *image.Gray, r model.PixelRect) {
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			g.SetGray(x, y, color.Gray{Y: 0})
		}
	}
}

// drawTextLines paints full-width ink bands inside r with the given band
// height and period, imitating typeset lines.
func drawTextLines(g *image.Gray, r model.PixelRect, bandHeight, period int) {
	for y := r.Y0; y < r.Y1; y++ {
		if (y-r.Y0)%period < bandHeight {
			drawInk(g, model.PixelRect{X0: r.X0, Y0: y, X1: r.X1, Y1: y + 1})
		}
	}
}

func TestIsTextBlockRejectsSmallRegions(t *testing.T) {
	c := NewTextBlockClassifier()

	cases := []struct {
		name string
		w, h int
	}{
		{"too narrow", 49, 100},
		{"too short", 200, 19},
		{"both", 10, 10},
	}
	for _, tc := range cases {
		g := whitePage(tc.w, tc.h)
		drawInk(g, model.PixelRect{X0: 0, Y0: 0, X1: tc.w, Y1: tc.h})
		if c.IsTextBlock(g, 1) {
			t.Errorf("%s (%dx%d): should never be a text block", tc.name, tc.w, tc.h)
		}
	}
}

func TestIsTextBlockCountsLines(t *testing.T) {
	c := NewTextBlockClassifier()
	g := whitePage(200, 100)
	// Three bands: rows 10-19, 40-49, 70-79.
	drawTextLines(g, model.PixelRect{X0: 0, Y0: 10, X1: 200, Y1: 80}, 10, 30)

	for minLines := 1; minLines <= 3; minLines++ {
		if !c.IsTextBlock(g, minLines) {
			t.Errorf("minLines=%d: expected text block", minLines)
		}
	}
	if c.IsTextBlock(g, 4) {
		t.Error("minLines=4: only three lines present")
	}
}

func TestIsTextBlockBlankRegion(t *testing.T) {
	c := NewTextBlockClassifier()
	if c.IsTextBlock(whitePage(200, 100), 1) {
		t.Error("blank region should not be a text block")
	}
}

func TestIsTextBlockSolidBlobIsOneLine(t *testing.T) {
	// A solid blob projects as a single uninterrupted run: one "line".
	// It passes a minLines of 1 but not 2, which is what lets the
	// bounds detector keep figures while the default margin-side
	// threshold stays stricter.
	c := NewTextBlockClassifier()
	g := whitePage(200, 100)
	drawInk(g, model.PixelRect{X0: 0, Y0: 0, X1: 200, Y1: 100})

	if !c.IsTextBlock(g, 1) {
		t.Error("solid blob should count as one line")
	}
	if c.IsTextBlock(g, 2) {
		t.Error("solid blob should not count as two lines")
	}
}

func TestIsTextBlockFaintRows(t *testing.T) {
	// Rows with ink below 10% of the width never count as textual.
	c := NewTextBlockClassifier()
	g := whitePage(200, 100)
	drawInk(g, model.PixelRect{X0: 0, Y0: 50, X1: 19, Y1: 60}) // 19 < 20 = 10%

	if c.IsTextBlock(g, 1) {
		t.Error("sub-threshold rows should not form a line")
	}
}
