// Package async fans document processing out over a bounded worker pool
// while handing results back in input order.
package async

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/core"
)

// DocumentProcessor is the per-document unit of work.
type DocumentProcessor interface {
	ProcessFile(ctx context.Context, path string) core.Outcome
}

// EmitFunc receives each outcome exactly once, in input order, from a
// single goroutine. Returning an error stops the batch.
type EmitFunc func(index int, out core.Outcome) error

type Batch struct {
	proc    DocumentProcessor
	logger  *slog.Logger
	workers int
	timeout time.Duration
}

type Option func(*Batch)

func WithWorkers(n int) Option {
	return func(b *Batch) {
		if n > 0 {
			b.workers = n
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(b *Batch) {
		if d > 0 {
			b.timeout = d
		}
	}
}

func NewBatch(proc DocumentProcessor, logger *slog.Logger, opts ...Option) *Batch {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Batch{
		proc:    proc,
		logger:  logger,
		workers: 1,
		timeout: 10 * time.Minute,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Run processes paths with up to the configured number of workers. emit
// sees outcome i only after outcomes 0..i-1, so a single writer downstream
// keeps rows in input order whatever the completion order. Run returns
// every outcome produced; entries for documents never started are zero.
func (b *Batch) Run(ctx context.Context, paths []string, emit EmitFunc) ([]core.Outcome, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]core.Outcome, len(paths))
	done := make([]chan struct{}, len(paths))
	for i := range done {
		done[i] = make(chan struct{})
	}

	emitErr := make(chan error, 1)
	go func() {
		for i := range paths {
			<-done[i]
			if err := ctx.Err(); err != nil {
				emitErr <- err
				return
			}
			if emit == nil {
				continue
			}
			if err := emit(i, results[i]); err != nil {
				cancel()
				emitErr <- err
				return
			}
		}
		emitErr <- nil
	}()

	g := new(errgroup.Group)
	g.SetLimit(b.workers)
	b.logger.Debug("batch started", "documents", len(paths), "workers", b.workers)

	for i, path := range paths {
		if ctx.Err() != nil {
			for j := i; j < len(paths); j++ {
				close(done[j])
			}
			break
		}
		g.Go(func() error {
			defer close(done[i])
			dctx, dcancel := common.WithTimeout(ctx, b.timeout)
			defer dcancel()
			dctx = common.WithDocumentID(dctx, filepath.Base(path))
			results[i] = b.proc.ProcessFile(dctx, path)
			b.logger.Debug("document processed",
				"path", path,
				"status", results[i].Record.Status,
				"score", results[i].Record.Score,
				"duration_ms", results[i].Duration.Milliseconds(),
			)
			return nil
		})
	}
	_ = g.Wait()

	if err := <-emitErr; err != nil {
		b.logger.Warn("batch stopped", "error", err)
		return results, err
	}
	b.logger.Debug("batch drained", "documents", len(paths))
	return results, nil
}
