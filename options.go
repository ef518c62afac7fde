package marginalia

import (
	"log/slog"
	"time"

	"github.com/tsawler/marginalia/margins"
	"github.com/tsawler/marginalia/pdfdoc"
)

// CleanOptions holds configuration for a cleaning run.
type CleanOptions struct {
	// Analysis resolution
	dpi     float64
	scanDPI float64

	// Processing options
	centerContent bool
	workers       int

	// OCR
	languages  []string
	engine     margins.Engine
	engineSet  bool
	ocrTimeout time.Duration

	// Reporting
	progress func(current, total int)
	logger   *slog.Logger

	// Debug output
	debugDir   string
	debugPages int
}

// defaultOptions returns the default cleaning options.
func defaultOptions() CleanOptions {
	return CleanOptions{
		dpi:           200,
		scanDPI:       pdfdoc.DefaultScanDPI,
		centerContent: true,
		workers:       0, // 0 means one worker per CPU
		languages:     nil,
		engine:        nil,
		ocrTimeout:    10 * time.Second,
		progress:      nil,
		logger:        nil,
		debugDir:      "",
		debugPages:    10,
	}
}

// clone creates a deep copy of CleanOptions.
func (o CleanOptions) clone() CleanOptions {
	newOpts := o
	if o.languages != nil {
		newOpts.languages = make([]string, len(o.languages))
		copy(newOpts.languages, o.languages)
	}
	return newOpts
}
