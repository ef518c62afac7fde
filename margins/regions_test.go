package margins

import (
	"testing"

	"github.com/tsawler/marginalia/model"
)

func TestMarginRegionsAllFour(t *testing.T) {
	bounds := model.PixelRect{X0: 100, Y0: 200, X1: 900, Y1: 1200}
	regions := MarginRegions(bounds, 1000, 1400, 5)

	want := []Region{
		{Top, model.PixelRect{X0: 0, Y0: 0, X1: 1000, Y1: 200}},
		{Bottom, model.PixelRect{X0: 0, Y0: 1200, X1: 1000, Y1: 1400}},
		{Left, model.PixelRect{X0: 0, Y0: 200, X1: 100, Y1: 1200}},
		{Right, model.PixelRect{X0: 900, Y0: 200, X1: 1000, Y1: 1200}},
	}
	if len(regions) != len(want) {
		t.Fatalf("got %d regions, want %d", len(regions), len(want))
	}
	for i, r := range regions {
		if r != want[i] {
			t.Errorf("region %d = %+v, want %+v", i, r, want[i])
		}
	}
}

func TestMarginRegionsCornersFoldIntoTopAndBottom(t *testing.T) {
	bounds := model.PixelRect{X0: 100, Y0: 200, X1: 900, Y1: 1200}
	regions := MarginRegions(bounds, 1000, 1400, 5)

	corner := model.PixelRect{X0: 0, Y0: 0, X1: 100, Y1: 200}
	for _, r := range regions {
		if r.Side == Top && !r.Rect.Contains(corner) {
			t.Errorf("top strip %+v does not cover the corner %+v", r.Rect, corner)
		}
		if r.Side == Left && r.Rect.Intersects(corner) {
			t.Errorf("left strip %+v overlaps the corner %+v", r.Rect, corner)
		}
	}
}

func TestMarginRegionsToleranceSuppressesThinStrips(t *testing.T) {
	// Left margin of 5 pixels and top margin of 3 are within tolerance.
	bounds := model.PixelRect{X0: 5, Y0: 3, X1: 900, Y1: 1200}
	regions := MarginRegions(bounds, 1000, 1400, 5)

	for _, r := range regions {
		if r.Side == Left || r.Side == Top {
			t.Errorf("unexpected %s strip %+v within tolerance", r.Side, r.Rect)
		}
	}
	if len(regions) != 2 {
		t.Fatalf("got %d regions, want bottom and right only", len(regions))
	}
}

func TestMarginRegionsFullPageBounds(t *testing.T) {
	bounds := model.PixelRect{X0: 0, Y0: 0, X1: 1000, Y1: 1400}
	if regions := MarginRegions(bounds, 1000, 1400, 5); len(regions) != 0 {
		t.Fatalf("full-page bounds produced %d regions, want none", len(regions))
	}
}

func TestSideString(t *testing.T) {
	names := map[Side]string{Top: "top", Bottom: "bottom", Left: "left", Right: "right", Side(9): "unknown"}
	for side, want := range names {
		if got := side.String(); got != want {
			t.Errorf("Side(%d).String() = %q, want %q", side, got, want)
		}
	}
}
