package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tsawler/marginalia/pdfdoc"
)

// ProcessorConfig holds configuration for document processing.
type ProcessorConfig struct {
	// Workers bounds the number of pages analyzed concurrently
	// Default: runtime.NumCPU()
	Workers int

	// Progress, when non-nil, is called after each page is finished.
	// Calls arrive strictly in page order.
	Progress func(current, total int)

	// Logger receives structured processing logs. Nil discards them.
	Logger *slog.Logger
}

// DefaultProcessorConfig returns the default processing configuration.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		Workers: runtime.NumCPU(),
	}
}

// Result summarizes one processing run.
type Result struct {
	// TotalPages is the number of pages in the document.
	TotalPages int

	// EditedCount is the number of pages that were modified.
	EditedCount int

	// EditedPages lists the 1-based numbers of the modified pages, in
	// order.
	EditedPages []int

	// Elapsed is the wall time the run took.
	Elapsed time.Duration
}

// Processor runs the planner over every page of a document. Pages are
// analyzed concurrently by a bounded worker pool, but edits are applied
// to the document and progress is reported strictly in page order.
type Processor struct {
	planner *Planner
	config  ProcessorConfig
	logger  *slog.Logger
}

// NewProcessor creates a processor around a planner.
func NewProcessor(planner *Planner, config ProcessorConfig) *Processor {
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Processor{planner: planner, config: config, logger: logger}
}

// Process cleans every page of the document in place. Cancellation is
// coarse: a cancelled context stops before the next page is applied, and
// already-applied edits remain in the document (nothing is saved here;
// saving is the caller's decision).
func (p *Processor) Process(ctx context.Context, doc pdfdoc.Document) (*Result, error) {
	start := time.Now()
	total := doc.PageCount()
	if total == 0 {
		return &Result{Elapsed: time.Since(start)}, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Workers)

	edits := make(chan *PageEdit, p.config.Workers)
	planDone := make(chan error, 1)
	go func() {
		for i := 0; i < total; i++ {
			i := i
			g.Go(func() error {
				edit, err := p.planner.Plan(gctx, doc, i)
				if err != nil {
					return fmt.Errorf("page %d: %w", i+1, err)
				}
				select {
				case edits <- edit:
					return nil
				case <-gctx.Done():
					return gctx.Err()
				}
			})
		}
		planDone <- g.Wait()
		close(edits)
	}()

	// Re-order the concurrently planned edits and apply them strictly in
	// page order. pending holds edits that arrived ahead of their turn.
	pending := make(map[int]*PageEdit, p.config.Workers)
	next := 0
	var edited []int
	var applyErr error

	for edit := range edits {
		if applyErr != nil {
			continue // drain until workers stop
		}
		pending[edit.Page] = edit
		for {
			e, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := p.planner.Apply(doc, e); err != nil {
				applyErr = err
				cancel()
				break
			}
			if e.Modified() {
				edited = append(edited, e.Page+1)
				p.logger.Debug("page edited", "page", e.Page+1, "fills", len(e.Fills), "recentered", e.Recenter != nil)
			} else {
				p.logger.Debug("page untouched", "page", e.Page+1)
			}
			if p.config.Progress != nil {
				p.config.Progress(next+1, total)
			}
			next++
		}
	}

	planErr := <-planDone
	if applyErr != nil {
		return nil, applyErr
	}
	if planErr != nil {
		return nil, planErr
	}

	result := &Result{
		TotalPages:  total,
		EditedCount: len(edited),
		EditedPages: edited,
		Elapsed:     time.Since(start),
	}
	p.logger.Info("document processed",
		"pages", result.TotalPages,
		"edited", result.EditedCount,
		"elapsed", result.Elapsed)
	return result, nil
}
