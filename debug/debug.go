// Package debug writes per-page analysis images so detection decisions
// can be inspected by eye: the detected content bounds, the rectangles
// slated for whitening, a simulated cleaned page, and the horizontal ink
// projection profile the text block classifier works from.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/raster"
)

const inkThreshold = 200

var (
	boundsColor = color.RGBA{R: 0, G: 200, B: 0, A: 255}
	cleanColor  = color.RGBA{R: 220, G: 0, B: 0, A: 255}
)

// Writer writes debug images for the first MaxPages pages of a run into a
// directory.
type Writer struct {
	dir      string
	maxPages int
}

// NewWriter creates a writer rooted at dir, creating the directory if
// needed. maxPages limits how many pages produce output; zero or negative
// means no limit.
func NewWriter(dir string, maxPages int) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create debug directory: %w", err)
	}
	return &Writer{dir: dir, maxPages: maxPages}, nil
}

// WritePage writes the full set of debug images for one page: the
// annotated analysis view, the simulated cleaned page, and the ink
// profile chart. Pages beyond the configured limit are skipped silently.
func (w *Writer) WritePage(page int, img image.Image, bounds model.PixelRect, clean []model.PixelRect) error {
	if w.maxPages > 0 && page >= w.maxPages {
		return nil
	}
	if err := w.writeAnalysis(page, img, bounds, clean); err != nil {
		return err
	}
	if err := w.writeCleaned(page, img, clean); err != nil {
		return err
	}
	return w.writeProfile(page, img)
}

// writeAnalysis draws the content bounds as a green outline and the clean
// rectangles as solid red over a copy of the page.
func (w *Writer) writeAnalysis(page int, img image.Image, bounds model.PixelRect, clean []model.PixelRect) error {
	canvas := copyRGBA(img)
	for _, r := range clean {
		fillRect(canvas, r, cleanColor)
	}
	outlineRect(canvas, bounds, boundsColor, 3)
	return w.savePNG(canvas, page, "analysis")
}

// writeCleaned simulates the whitening by painting the clean rectangles
// white.
func (w *Writer) writeCleaned(page int, img image.Image, clean []model.PixelRect) error {
	canvas := copyRGBA(img)
	for _, r := range clean {
		raster.FillWhite(canvas, r)
	}
	return w.savePNG(canvas, page, "cleaned")
}

// writeProfile plots the per-row ink pixel counts of the binarized page.
func (w *Writer) writeProfile(page int, img image.Image) error {
	bin := raster.Binarize(raster.ToGray(img), inkThreshold)
	counts := raster.HProjection(bin)
	if len(counts) < 2 {
		return nil
	}

	xs := make([]float64, len(counts))
	ys := make([]float64, len(counts))
	for i, c := range counts {
		xs[i] = float64(i)
		ys[i] = float64(c)
	}

	graph := chart.Chart{
		Title: fmt.Sprintf("Page %d ink profile", page+1),
		XAxis: chart.XAxis{Name: "Row"},
		YAxis: chart.YAxis{Name: "Ink pixels"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: chart.ColorBlue,
				},
			},
		},
	}

	f, err := os.Create(w.path(page, "profile"))
	if err != nil {
		return fmt.Errorf("failed to create profile image: %w", err)
	}
	defer f.Close()
	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render profile chart: %w", err)
	}
	return nil
}

func (w *Writer) path(page int, kind string) string {
	return filepath.Join(w.dir, fmt.Sprintf("page_%03d_%s.png", page+1, kind))
}

func (w *Writer) savePNG(img image.Image, page int, kind string) error {
	f, err := os.Create(w.path(page, kind))
	if err != nil {
		return fmt.Errorf("failed to create debug image: %w", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("failed to encode debug image: %w", err)
	}
	return nil
}

func copyRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func fillRect(canvas *image.RGBA, r model.PixelRect, c color.RGBA) {
	b := canvas.Bounds()
	r = r.ClampTo(model.PixelRect{X1: b.Dx(), Y1: b.Dy()})
	if r.IsEmpty() {
		return
	}
	draw.Draw(canvas, image.Rect(r.X0, r.Y0, r.X1, r.Y1), image.NewUniform(c), image.Point{}, draw.Src)
}

func outlineRect(canvas *image.RGBA, r model.PixelRect, c color.RGBA, thickness int) {
	fillRect(canvas, model.PixelRect{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y0 + thickness}, c)
	fillRect(canvas, model.PixelRect{X0: r.X0, Y0: r.Y1 - thickness, X1: r.X1, Y1: r.Y1}, c)
	fillRect(canvas, model.PixelRect{X0: r.X0, Y0: r.Y0, X1: r.X0 + thickness, Y1: r.Y1}, c)
	fillRect(canvas, model.PixelRect{X0: r.X1 - thickness, Y0: r.Y0, X1: r.X1, Y1: r.Y1}, c)
}
