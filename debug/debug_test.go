package debug

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/tsawler/marginalia/model"
)

func testPage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 200, 280))
	for y := 0; y < 280; y++ {
		for x := 0; x < 200; x++ {
			c := color.RGBA{255, 255, 255, 255}
			if x >= 50 && x < 150 && y >= 60 && y < 220 {
				c = color.RGBA{0, 0, 0, 255}
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func TestWritePage(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, 0)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	bounds := model.PixelRect{X0: 50, Y0: 60, X1: 150, Y1: 220}
	clean := []model.PixelRect{{X0: 0, Y0: 0, X1: 200, Y1: 50}}
	if err := w.WritePage(0, testPage(), bounds, clean); err != nil {
		t.Fatalf("WritePage: %v", err)
	}

	for _, name := range []string{"page_001_analysis.png", "page_001_cleaned.png", "page_001_profile.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Errorf("missing %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestWritePageRespectsLimit(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, 1)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	bounds := model.PixelRect{X0: 50, Y0: 60, X1: 150, Y1: 220}
	if err := w.WritePage(1, testPage(), bounds, nil); err != nil {
		t.Fatalf("WritePage: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("pages past the limit wrote %d files", len(entries))
	}
}
