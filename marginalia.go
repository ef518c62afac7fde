// Package marginalia cleans scanned book pages. It detects the genuine
// content area of each page, whitens the scanner artifacts outside it
// (stains, stray lines, edge smudges) while protecting legitimate margin
// elements such as page numbers and running headers, and optionally
// re-centers the surviving content on the page.
//
// Basic usage:
//
//	result, err := marginalia.Open("scans/").CleanTo("cleaned.pdf")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Printf("edited %d of %d pages\n", result.EditedCount, result.TotalPages)
//
// With options:
//
//	result, err := marginalia.Open("scans/").
//	    DPI(300).
//	    Languages("ara").
//	    CenterContent(false).
//	    CleanTo("cleaned.pdf")
//
// Margin regions suspected of holding genuine text are confirmed through
// OCR when the module is built with the "ocr" tag (and Tesseract is
// installed). Without it, every margin candidate is protected rather than
// erased: the pipeline fails open.
package marginalia

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/tsawler/marginalia/debug"
	"github.com/tsawler/marginalia/margins"
	"github.com/tsawler/marginalia/ocr"
	"github.com/tsawler/marginalia/pdfdoc"
	"github.com/tsawler/marginalia/pipeline"
)

// CleanResult summarizes a cleaning run.
type CleanResult struct {
	// TotalPages is the number of pages processed.
	TotalPages int

	// EditedCount is the number of pages that were modified.
	EditedCount int

	// EditedPages lists the 1-based numbers of the modified pages.
	EditedPages []int

	// Elapsed is the wall time of the run.
	Elapsed time.Duration

	// OutputPath is where the cleaned document was written.
	OutputPath string
}

// Cleaner provides a fluent interface for cleaning a scanned document.
// Each configuration method returns a new Cleaner instance, making it
// safe to branch configuration chains.
type Cleaner struct {
	// Source
	dir string

	// Caller-owned document, when set via FromDocument
	doc pdfdoc.Document

	// Configuration
	options CleanOptions

	// Accumulated error (fail-fast)
	err error
}

// Open prepares a cleaner for a directory of per-page scan images (PNG or
// JPEG, sorted by filename). The document is opened lazily by CleanTo.
func Open(dir string) *Cleaner {
	return &Cleaner{
		dir:     dir,
		options: defaultOptions(),
	}
}

// FromDocument prepares a cleaner for an already-open document, which is
// how PDF-backed or other custom page sources plug in. The caller remains
// responsible for closing the document.
func FromDocument(doc pdfdoc.Document) *Cleaner {
	return &Cleaner{
		doc:     doc,
		options: defaultOptions(),
	}
}

// clone creates a copy of the Cleaner with a deep copy of options, so
// each chain method returns an independent instance.
func (c *Cleaner) clone() *Cleaner {
	return &Cleaner{
		dir:     c.dir,
		doc:     c.doc,
		options: c.options.clone(),
		err:     c.err,
	}
}

// DPI sets the resolution pages are rendered at for analysis.
// Default is 200; 150 is faster, 300 more thorough.
func (c *Cleaner) DPI(dpi float64) *Cleaner {
	out := c.clone()
	if dpi <= 0 {
		out.err = fmt.Errorf("invalid DPI %v", dpi)
		return out
	}
	out.options.dpi = dpi
	return out
}

// ScanDPI declares the resolution the source images were scanned at.
// Only meaningful with Open; documents supplied via FromDocument carry
// their own geometry.
func (c *Cleaner) ScanDPI(dpi float64) *Cleaner {
	out := c.clone()
	if dpi <= 0 {
		out.err = fmt.Errorf("invalid scan DPI %v", dpi)
		return out
	}
	out.options.scanDPI = dpi
	return out
}

// CenterContent controls whether edited pages get their content
// re-centered. Enabled by default.
func (c *Cleaner) CenterContent(enabled bool) *Cleaner {
	out := c.clone()
	out.options.centerContent = enabled
	return out
}

// Workers bounds the number of pages analyzed concurrently. Zero (the
// default) means one worker per CPU.
func (c *Cleaner) Workers(n int) *Cleaner {
	out := c.clone()
	out.options.workers = n
	return out
}

// Languages sets the OCR languages (Tesseract codes, e.g. "ara", "eng")
// used to confirm margin text. Defaults to Arabic plus English.
func (c *Cleaner) Languages(langs ...string) *Cleaner {
	out := c.clone()
	out.options.languages = append([]string(nil), langs...)
	return out
}

// Engine injects a custom OCR engine for margin confirmation, replacing
// the built-in Tesseract client. Passing nil disables OCR, which protects
// every margin candidate.
func (c *Cleaner) Engine(engine margins.Engine) *Cleaner {
	out := c.clone()
	out.options.engine = engine
	out.options.engineSet = true
	return out
}

// OCRTimeout bounds a single OCR call; candidates whose call expires are
// protected. Default is 10 seconds.
func (c *Cleaner) OCRTimeout(d time.Duration) *Cleaner {
	out := c.clone()
	out.options.ocrTimeout = d
	return out
}

// Progress registers a callback invoked after each page completes, in
// page order.
func (c *Cleaner) Progress(fn func(current, total int)) *Cleaner {
	out := c.clone()
	out.options.progress = fn
	return out
}

// Logger sets the structured logger for the run. By default logs are
// discarded.
func (c *Cleaner) Logger(logger *slog.Logger) *Cleaner {
	out := c.clone()
	out.options.logger = logger
	return out
}

// Debug writes per-page analysis images into dir for the first maxPages
// pages (zero or negative means all pages).
func (c *Cleaner) Debug(dir string, maxPages int) *Cleaner {
	out := c.clone()
	out.options.debugDir = dir
	out.options.debugPages = maxPages
	return out
}

// CleanTo runs the cleaning pipeline and writes the cleaned document to
// outputPath. It is the terminal operation of the chain.
func (c *Cleaner) CleanTo(outputPath string) (*CleanResult, error) {
	return c.CleanToContext(context.Background(), outputPath)
}

// CleanToContext is CleanTo with cancellation. Cancellation is coarse:
// processing stops before the next page, and nothing is saved.
func (c *Cleaner) CleanToContext(ctx context.Context, outputPath string) (*CleanResult, error) {
	if c.err != nil {
		return nil, c.err
	}
	if outputPath == "" {
		return nil, fmt.Errorf("no output path specified")
	}

	logger := c.options.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	doc := c.doc
	if doc == nil {
		if c.dir == "" {
			return nil, fmt.Errorf("no input specified")
		}
		opened, err := pdfdoc.OpenDir(c.dir, c.options.scanDPI)
		if err != nil {
			return nil, err
		}
		defer opened.Close()
		doc = opened
	}

	engine, closeEngine := c.buildEngine(logger)
	if closeEngine != nil {
		defer closeEngine()
	}

	plannerConfig := pipeline.DefaultPlannerConfig()
	plannerConfig.DPI = c.options.dpi
	plannerConfig.CenterContent = c.options.centerContent
	plannerConfig.Reconciler.Detector.Engine = engine
	plannerConfig.Reconciler.Detector.Timeout = c.options.ocrTimeout

	if c.options.debugDir != "" {
		writer, err := debug.NewWriter(c.options.debugDir, c.options.debugPages)
		if err != nil {
			return nil, err
		}
		plannerConfig.Debug = writer
	}

	processor := pipeline.NewProcessor(pipeline.NewPlanner(plannerConfig), pipeline.ProcessorConfig{
		Workers:  c.options.workers,
		Progress: c.options.progress,
		Logger:   logger,
	})

	result, err := processor.Process(ctx, doc)
	if err != nil {
		return nil, err
	}

	if err := doc.SaveTo(outputPath); err != nil {
		return nil, err
	}

	return &CleanResult{
		TotalPages:  result.TotalPages,
		EditedCount: result.EditedCount,
		EditedPages: result.EditedPages,
		Elapsed:     result.Elapsed,
		OutputPath:  outputPath,
	}, nil
}

// buildEngine resolves the OCR engine for the run: an injected engine
// wins; otherwise a Tesseract client is attempted. When OCR is not
// compiled in or Tesseract is missing, the run proceeds without an
// engine and every margin candidate stays protected.
func (c *Cleaner) buildEngine(logger *slog.Logger) (margins.Engine, func()) {
	if c.options.engineSet {
		return c.options.engine, nil
	}
	client, err := ocr.New(c.options.languages...)
	if err != nil {
		logger.Warn("OCR unavailable; margin candidates will be protected, not erased", "reason", err)
		return nil, nil
	}
	return client, func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close OCR client", "error", err)
		}
	}
}
