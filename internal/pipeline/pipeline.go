// Package pipeline drives a run: skip already processed documents, process
// the rest in order, append rows to the output table and keep the ledger.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/core"
	"github.com/joseph-ayodele/vending-reports/internal/core/async"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
	"github.com/joseph-ayodele/vending-reports/internal/export"
	"github.com/joseph-ayodele/vending-reports/internal/repository"
)

type Options struct {
	InputDir      string
	SkipProcessed bool // needs the ledger
}

type Pipeline struct {
	logger *slog.Logger
	batch  *async.Batch
	sink   *export.CSVSink
	runs   repository.RunRepository      // nil when the ledger is disabled
	docs   repository.DocumentRepository // nil when the ledger is disabled
	opts   Options
}

func New(
	logger *slog.Logger,
	batch *async.Batch,
	sink *export.CSVSink,
	runs repository.RunRepository,
	docs repository.DocumentRepository,
	opts Options,
) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{logger: logger, batch: batch, sink: sink, runs: runs, docs: docs, opts: opts}
}

// Run processes paths (already in the wanted order) as one ledger run.
func (p *Pipeline) Run(ctx context.Context, paths []string) (*Summary, error) {
	s := newSummary(p.sink.Path())

	todo, err := p.filterProcessed(ctx, paths, s)
	if err != nil {
		return s, err
	}
	if len(todo) == 0 {
		p.logger.Info("pipeline.nothing_to_do", "input_dir", p.opts.InputDir, "skipped", len(s.Skipped))
		s.FinishedAt = time.Now()
		return s, nil
	}
	if err := p.sink.Open(); err != nil {
		return s, err
	}

	run := p.startRun(ctx)
	if run != nil {
		s.RunID = run.ID.String()
		ctx = common.WithRunID(ctx, s.RunID)
	}

	_, err = p.batch.Run(ctx, todo, func(_ int, out core.Outcome) error {
		return p.emit(ctx, run, s, out)
	})
	p.finishRun(ctx, run, s, err)
	s.FinishedAt = time.Now()
	return s, err
}

// Watch processes every path received until paths closes or ctx is done,
// all under one ledger run.
func (p *Pipeline) Watch(ctx context.Context, paths <-chan string) (*Summary, error) {
	s := newSummary(p.sink.Path())
	if err := p.sink.Open(); err != nil {
		return s, err
	}
	run := p.startRun(ctx)
	if run != nil {
		s.RunID = run.ID.String()
		ctx = common.WithRunID(ctx, s.RunID)
	}

	var runErr error
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case path, ok := <-paths:
			if !ok {
				break loop
			}
			todo, err := p.filterProcessed(ctx, []string{path}, s)
			if err != nil {
				p.logger.Warn("pipeline.skip_check.failed", "path", path, "error", err)
				todo = []string{path}
			}
			if len(todo) == 0 {
				continue
			}
			if _, err := p.batch.Run(ctx, todo, func(_ int, out core.Outcome) error {
				return p.emit(ctx, run, s, out)
			}); err != nil && !errors.Is(err, context.Canceled) {
				runErr = err
				break loop
			}
		}
	}

	// the watch session ends on cancellation; that is its normal end
	p.finishRun(context.WithoutCancel(ctx), run, s, runErr)
	s.FinishedAt = time.Now()
	return s, runErr
}

func (p *Pipeline) filterProcessed(ctx context.Context, paths []string, s *Summary) ([]string, error) {
	if !p.opts.SkipProcessed || p.docs == nil {
		return paths, nil
	}
	done, err := p.docs.Succeeded(ctx)
	if err != nil {
		return nil, err
	}
	todo := make([]string, 0, len(paths))
	for _, path := range paths {
		name := filepath.Base(path)
		if done[name] {
			s.Skipped = append(s.Skipped, name)
			p.logger.Debug("pipeline.document.skipped", "document", name)
			continue
		}
		todo = append(todo, path)
	}
	return todo, nil
}

func (p *Pipeline) emit(ctx context.Context, run *entity.Run, s *Summary, out core.Outcome) error {
	if err := p.sink.Append(out.Record); err != nil {
		return err
	}
	s.add(out)

	name := filepath.Base(out.Path)
	if out.Record.OK() {
		p.logger.Info("pipeline.document.ok", "document", name, "score", out.Record.Score,
			"duration_ms", out.Duration.Milliseconds())
	} else {
		p.logger.Warn("pipeline.document.failed", "document", name, "status", out.Record.Status,
			"score", out.Record.Score, "error", out.Err)
	}

	if run == nil {
		return nil
	}
	doc := &entity.DocumentRun{
		RunID:             run.ID,
		Name:              name,
		Path:              out.Path,
		Status:            string(out.Record.Status),
		Score:             out.Record.Score,
		PrimaryStrategy:   string(out.Texts.Primary.Strategy),
		SecondaryStrategy: string(out.Texts.Secondary.Strategy),
		DurationMillis:    out.Duration.Milliseconds(),
		ProcessedAt:       time.Now(),
	}
	if out.Err != nil {
		msg := out.Err.Error()
		doc.ErrorMessage = &msg
	}
	if err := p.docs.Record(ctx, doc); err != nil {
		p.logger.Warn("pipeline.ledger.document_failed", "document", name, "error", err)
	}
	return nil
}

// startRun opens a ledger run. Ledger trouble never stops extraction.
func (p *Pipeline) startRun(ctx context.Context) *entity.Run {
	if p.runs == nil {
		return nil
	}
	run, err := p.runs.Start(ctx, p.opts.InputDir, p.sink.Path())
	if err != nil {
		p.logger.Warn("pipeline.ledger.start_failed", "error", err)
		return nil
	}
	return run
}

func (p *Pipeline) finishRun(ctx context.Context, run *entity.Run, s *Summary, runErr error) {
	if run == nil {
		return
	}
	run.Total, run.Succeeded, run.Failed = s.Total, s.Succeeded, s.Failed
	status := constants.RunStatusFinished
	if runErr != nil {
		status = constants.RunStatusAborted
	}
	if err := p.runs.Finish(context.WithoutCancel(ctx), run, status); err != nil {
		p.logger.Warn("pipeline.ledger.finish_failed", "run_id", run.ID, "error", err)
	}
}
