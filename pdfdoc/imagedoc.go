package pdfdoc

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/jung-kurt/gofpdf"

	"github.com/tsawler/marginalia/model"
	"github.com/tsawler/marginalia/raster"
)

// DefaultScanDPI is the assumed resolution of scan images when the caller
// does not know the true value. Book scans are commonly produced at 300.
const DefaultScanDPI = 300

// ImageDocument is a Document backed by one scan image per page. Pages
// render by rescaling the scan to the requested resolution, edits apply
// directly to the scan pixels, and SaveTo composes the edited pages into
// a PDF sized so that the scans keep their physical dimensions.
type ImageDocument struct {
	scanDPI float64
	pages   []*imagePage
}

type imagePage struct {
	path   string
	width  int // pixels
	height int

	once    sync.Once
	img     *image.RGBA
	loadErr error
}

// OpenDir opens every PNG and JPEG image in dir, sorted by filename, as
// the pages of a document. scanDPI is the resolution the images were
// scanned at; pass DefaultScanDPI if unknown. It fails fast if the
// directory holds no usable page images.
func OpenDir(dir string, scanDPI float64) (*ImageDocument, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read page directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".png", ".jpg", ".jpeg":
			paths = append(paths, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no page images found in %s", dir)
	}
	return FromFiles(paths, scanDPI)
}

// FromFiles opens the given image files, in order, as the pages of a
// document. Each file's dimensions are read up front so that an
// unreadable page fails the open rather than a later render.
func FromFiles(paths []string, scanDPI float64) (*ImageDocument, error) {
	if scanDPI <= 0 {
		return nil, fmt.Errorf("invalid scan resolution %v", scanDPI)
	}
	doc := &ImageDocument{scanDPI: scanDPI}
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open page image %s: %w", path, err)
		}
		cfg, _, err := image.DecodeConfig(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("unrecognized page image %s: %w", path, err)
		}
		doc.pages = append(doc.pages, &imagePage{path: path, width: cfg.Width, height: cfg.Height})
	}
	return doc, nil
}

// PageCount returns the number of pages.
func (d *ImageDocument) PageCount() int {
	return len(d.pages)
}

func (d *ImageDocument) page(n int) (*imagePage, error) {
	if n < 0 || n >= len(d.pages) {
		return nil, fmt.Errorf("page %d out of range [0,%d)", n, len(d.pages))
	}
	return d.pages[n], nil
}

// PageSize returns the page dimensions in points at the scan resolution.
func (d *ImageDocument) PageSize(n int) (float64, float64, error) {
	p, err := d.page(n)
	if err != nil {
		return 0, 0, err
	}
	scale := d.scanDPI / 72
	return float64(p.width) / scale, float64(p.height) / scale, nil
}

func (p *imagePage) load() (*image.RGBA, error) {
	p.once.Do(func() {
		f, err := os.Open(p.path)
		if err != nil {
			p.loadErr = fmt.Errorf("failed to open page image %s: %w", p.path, err)
			return
		}
		defer f.Close()
		src, _, err := image.Decode(f)
		if err != nil {
			p.loadErr = fmt.Errorf("failed to decode page image %s: %w", p.path, err)
			return
		}
		b := src.Bounds()
		rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Bounds(), src, b.Min, draw.Src)
		p.img = rgba
	})
	return p.img, p.loadErr
}

// Render rasterizes a page at the given resolution by rescaling the scan.
// The returned image is a copy; later edits to the document do not affect
// it.
func (d *ImageDocument) Render(n int, dpi float64) (image.Image, error) {
	p, err := d.page(n)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		return nil, fmt.Errorf("invalid render resolution %v", dpi)
	}
	img, err := p.load()
	if err != nil {
		return nil, err
	}
	factor := dpi / d.scanDPI
	w := int(math.Round(float64(p.width) * factor))
	h := int(math.Round(float64(p.height) * factor))
	return raster.Scale(img, w, h), nil
}

// WhiteFill paints an opaque white rectangle onto a page.
func (d *ImageDocument) WhiteFill(n int, rect model.PointRect) error {
	p, err := d.page(n)
	if err != nil {
		return err
	}
	img, err := p.load()
	if err != nil {
		return err
	}
	raster.FillWhite(img, rect.ToPixels(d.scanDPI))
	return nil
}

// InsertImage draws encoded image data into the given page space
// rectangle, scaling it to fit.
func (d *ImageDocument) InsertImage(n int, rect model.PointRect, imageData []byte) error {
	p, err := d.page(n)
	if err != nil {
		return err
	}
	img, err := p.load()
	if err != nil {
		return err
	}
	src, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return fmt.Errorf("failed to decode inserted image: %w", err)
	}
	target := rect.ToPixels(d.scanDPI)
	if target.IsEmpty() {
		return nil
	}
	scaled := raster.Scale(src, target.Width(), target.Height())
	draw.Draw(img, image.Rect(target.X0, target.Y0, target.X1, target.Y1), scaled, image.Point{}, draw.Src)
	return nil
}

// SaveTo composes the pages into a PDF at path, one page per scan, each
// page box sized from the scan pixels at the scan resolution.
func (d *ImageDocument) SaveTo(path string) error {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, p := range d.pages {
		img, err := p.load()
		if err != nil {
			return err
		}
		w, h, err := d.PageSize(i)
		if err != nil {
			return err
		}
		data, err := raster.EncodePNG(img)
		if err != nil {
			return fmt.Errorf("failed to encode page %d: %w", i+1, err)
		}

		pdf.AddPageFormat("P", gofpdf.SizeType{Wd: w, Ht: h})
		name := fmt.Sprintf("page-%d", i+1)
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(data))
		pdf.ImageOptions(name, 0, 0, w, h, false, opts, 0, "")
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to save PDF: %w", err)
	}
	return nil
}

// Close releases the loaded page images.
func (d *ImageDocument) Close() error {
	for _, p := range d.pages {
		p.img = nil
	}
	return nil
}
