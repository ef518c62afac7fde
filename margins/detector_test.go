package margins

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/tsawler/marginalia/model"
)

func whitePage(w, h int) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = 255
	}
	return g
}

func drawInk(g *image.Gray, r model.PixelRect) {
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			g.SetGray(x, y, color.Gray{Y: 0})
		}
	}
}

// drawRing paints a hollow rectangle of the given stroke thickness. The
// hollow interior keeps the ink density in the range typical of glyphs,
// unlike a solid blob.
func drawRing(g *image.Gray, r model.PixelRect, thickness int) {
	drawInk(g, model.PixelRect{X0: r.X0, Y0: r.Y0, X1: r.X1, Y1: r.Y0 + thickness})
	drawInk(g, model.PixelRect{X0: r.X0, Y0: r.Y1 - thickness, X1: r.X1, Y1: r.Y1})
	drawInk(g, model.PixelRect{X0: r.X0, Y0: r.Y0, X1: r.X0 + thickness, Y1: r.Y1})
	drawInk(g, model.PixelRect{X0: r.X1 - thickness, Y0: r.Y0, X1: r.X1, Y1: r.Y1})
}

// fakeEngine is a scripted OCR collaborator.
type fakeEngine struct {
	text  string
	err   error
	delay time.Duration
}

func (f *fakeEngine) Recognize([]byte) (string, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.text, f.err
}

// pageNumber is the glyph-like blob used by most tests: a hollow ring in
// the bottom margin of a 1000x1400 page.
var pageNumber = model.PixelRect{X0: 480, Y0: 1320, X1: 520, Y1: 1340}

func bottomMarginPage() (*image.Gray, model.PixelRect) {
	g := whitePage(1000, 1400)
	drawRing(g, pageNumber, 3)
	return g, model.PixelRect{X0: 0, Y0: 1200, X1: 1000, Y1: 1400}
}

func detectorWith(engine Engine) *TextDetector {
	config := DefaultDetectorConfig()
	config.Engine = engine
	return NewTextDetector(config)
}

func TestDetectSkipsTinyRegion(t *testing.T) {
	d := detectorWith(nil)
	g := whitePage(100, 100)
	drawInk(g, model.PixelRect{X0: 0, Y0: 0, X1: 8, Y1: 8})

	if got := d.Detect(context.Background(), g, model.PixelRect{X0: 0, Y0: 0, X1: 8, Y1: 8}); got != nil {
		t.Fatalf("tiny region produced boxes %v", got)
	}
}

func TestDetectNilEngineProtects(t *testing.T) {
	g, region := bottomMarginPage()
	got := detectorWith(nil).Detect(context.Background(), g, region)

	if len(got) != 1 {
		t.Fatalf("got %d protected boxes, want 1", len(got))
	}
	if !got[0].Contains(pageNumber) {
		t.Errorf("protected box %+v does not cover the blob %+v", got[0], pageNumber)
	}
	if !region.Contains(got[0]) {
		t.Errorf("protected box %+v escapes the margin %+v", got[0], region)
	}
}

func TestDetectEngineConfirmsDigits(t *testing.T) {
	g, region := bottomMarginPage()
	got := detectorWith(&fakeEngine{text: "14"}).Detect(context.Background(), g, region)

	if len(got) != 1 {
		t.Fatalf("got %d protected boxes, want 1", len(got))
	}
}

func TestDetectEngineClearsStain(t *testing.T) {
	g, region := bottomMarginPage()
	got := detectorWith(&fakeEngine{text: ""}).Detect(context.Background(), g, region)

	if len(got) != 0 {
		t.Fatalf("empty OCR text should clear the candidate, got %v", got)
	}
}

func TestDetectPunctuationOnlyClears(t *testing.T) {
	g, region := bottomMarginPage()
	got := detectorWith(&fakeEngine{text: " .,;! "}).Detect(context.Background(), g, region)

	if len(got) != 0 {
		t.Fatalf("punctuation-only OCR text should clear the candidate, got %v", got)
	}
}

func TestDetectEngineErrorProtects(t *testing.T) {
	g, region := bottomMarginPage()
	engine := &fakeEngine{err: errors.New("tesseract unavailable")}
	got := detectorWith(engine).Detect(context.Background(), g, region)

	if len(got) != 1 {
		t.Fatalf("OCR error should protect the candidate, got %d boxes", len(got))
	}
}

func TestDetectTimeoutProtects(t *testing.T) {
	g, region := bottomMarginPage()
	config := DefaultDetectorConfig()
	config.Engine = &fakeEngine{text: "", delay: 200 * time.Millisecond}
	config.Timeout = 10 * time.Millisecond

	got := NewTextDetector(config).Detect(context.Background(), g, region)
	if len(got) != 1 {
		t.Fatalf("OCR timeout should protect the candidate, got %d boxes", len(got))
	}
}

func TestDetectCancellationProtects(t *testing.T) {
	g, region := bottomMarginPage()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got := detectorWith(&fakeEngine{text: "", delay: 200 * time.Millisecond}).Detect(ctx, g, region)
	if len(got) != 1 {
		t.Fatalf("cancelled context should protect the candidate, got %d boxes", len(got))
	}
}

func TestDetectRejectsSolidStain(t *testing.T) {
	// A filled blob has a near-1.0 ink density, well above anything
	// typeset glyphs produce.
	g := whitePage(1000, 1400)
	drawInk(g, model.PixelRect{X0: 470, Y0: 1310, X1: 530, Y1: 1350})
	region := model.PixelRect{X0: 0, Y0: 1200, X1: 1000, Y1: 1400}

	if got := detectorWith(nil).Detect(context.Background(), g, region); len(got) != 0 {
		t.Fatalf("solid stain should fail the density filter, got %v", got)
	}
}

func TestDetectOpeningRemovesSpeckle(t *testing.T) {
	g := whitePage(1000, 1400)
	for x := 100; x < 900; x += 37 {
		drawInk(g, model.PixelRect{X0: x, Y0: 1300, X1: x + 1, Y1: 1301})
	}
	region := model.PixelRect{X0: 0, Y0: 1200, X1: 1000, Y1: 1400}

	if got := detectorWith(nil).Detect(context.Background(), g, region); len(got) != 0 {
		t.Fatalf("isolated specks should be opened away, got %v", got)
	}
}

func TestDetectBlankMargin(t *testing.T) {
	g := whitePage(1000, 1400)
	region := model.PixelRect{X0: 0, Y0: 1200, X1: 1000, Y1: 1400}

	if got := detectorWith(nil).Detect(context.Background(), g, region); len(got) != 0 {
		t.Fatalf("blank margin produced boxes %v", got)
	}
}
