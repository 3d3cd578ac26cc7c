package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/core/acquire"
	"github.com/joseph-ayodele/vending-reports/internal/core/header"
	"github.com/joseph-ayodele/vending-reports/internal/core/merge"
	"github.com/joseph-ayodele/vending-reports/internal/core/parse"
	"github.com/joseph-ayodele/vending-reports/internal/core/textnorm"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

// DefaultMinScore is the completeness a record needs to count as a success.
const DefaultMinScore = 6

// Acquirer produces the candidate texts of a document.
type Acquirer interface {
	Acquire(ctx context.Context, path string) acquire.Texts
}

// Options tunes the assembler.
type Options struct {
	NarrowWindow int
	WideWindow   int
	MinScore     int
	Diagnostics  bool // write side files for records below MinScore
}

// Processor coordinates acquisition, parsing, merge and header extraction
// for one document at a time. It holds no per-document state and is safe
// for concurrent use.
type Processor struct {
	logger   *slog.Logger
	acquirer Acquirer
	parser   *parse.Parser
	header   *header.Extractor
	opts     Options
}

func NewProcessor(
	logger *slog.Logger,
	acquirer Acquirer,
	parser *parse.Parser,
	headerExtractor *header.Extractor,
	opts Options,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = parse.NewParser(nil)
	}
	if headerExtractor == nil {
		headerExtractor = header.NewExtractor("", 0)
	}
	if opts.NarrowWindow <= 0 {
		opts.NarrowWindow = parse.NarrowWindow
	}
	if opts.WideWindow <= 0 {
		opts.WideWindow = parse.WideWindow
	}
	if opts.MinScore <= 0 {
		opts.MinScore = DefaultMinScore
	}
	return &Processor{
		logger:   logger,
		acquirer: acquirer,
		parser:   parser,
		header:   headerExtractor,
		opts:     opts,
	}
}

// Outcome is everything learned about one document.
type Outcome struct {
	Path        string
	Record      entity.Record
	Texts       acquire.Texts
	Candidates  []entity.Candidate
	Merge       merge.Result
	Diagnostics []string // side files written, if any
	Err         error    // why the record is not OK
	Duration    time.Duration
}

// ProcessFile turns one document into a record. It never returns without a
// record: any failure, panics included, yields an identifier-only record
// with a non-OK status and the cause in Outcome.Err.
func (p *Processor) ProcessFile(ctx context.Context, path string) (out Outcome) {
	start := time.Now()
	name := filepath.Base(path)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	logger := common.LoggerFromContext(ctx, p.logger).With("document", name)

	out.Path = path
	out.Record = entity.NewRecord(name)
	defer func() {
		if r := recover(); r != nil {
			out.Record = identifierOnly(name, stem, constants.DocStatusFailed)
			out.Err = common.NewAppError(common.CodeDocument, "unexpected failure", fmt.Errorf("panic: %v", r))
			logger.Error("processor.document.panic", "panic", r)
		}
		out.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		out.Record = identifierOnly(name, stem, constants.DocStatusFailed)
		out.Err = err
		return out
	}

	out.Texts = p.acquirer.Acquire(ctx, path)
	if out.Texts.Empty() {
		out.Record = identifierOnly(name, stem, constants.DocStatusNoText)
		out.Err = common.NewAppError(common.CodeAcquisition, "every backend came back empty", common.ErrNoText)
		if ctx.Err() != nil {
			out.Record.Status = constants.DocStatusFailed
			out.Err = ctx.Err()
		}
		logger.Warn("processor.document.no_text", "attempts", len(out.Texts.Attempts))
		p.diagnose(logger, &out)
		return out
	}

	out.Candidates = p.candidates(out.Texts)
	out.Merge = merge.Merge(out.Candidates)

	md := p.header.Extract(textnorm.Normalize(out.Texts.Best()))
	if md.ID == "" {
		md.ID = stem
	}

	rec := out.Record
	rec.Metadata = md
	rec.Fields = out.Merge.Fields
	rec.Score = out.Merge.Score
	if rec.Score >= p.opts.MinScore {
		rec.Status = constants.DocStatusOK
	} else {
		rec.Status = constants.DocStatusLowScore
		out.Err = common.NewAppError(common.CodeDocument,
			fmt.Sprintf("score %d below %d", rec.Score, p.opts.MinScore), common.ErrLowCompleteness)
	}
	out.Record = rec

	logger.Debug("processor.document.merged",
		"candidates", len(out.Candidates),
		"scores", out.Merge.Scores,
		"base", out.Merge.Base,
		"score", rec.Score,
		"primary", out.Texts.Primary.Strategy,
		"secondary", out.Texts.Secondary.Strategy,
	)
	if !rec.OK() {
		logger.Warn("processor.document.low_score", "score", rec.Score, "min_score", p.opts.MinScore)
		p.diagnose(logger, &out)
	}
	return out
}

// candidates parses every non-empty slot with both windows, slot 1 first
// and narrow before wide.
func (p *Processor) candidates(texts acquire.Texts) []entity.Candidate {
	var cands []entity.Candidate
	for _, r := range []acquire.Result{texts.Primary, texts.Secondary} {
		if r.Empty() {
			continue
		}
		norm := textnorm.Normalize(r.Text)
		for _, w := range []int{p.opts.NarrowWindow, p.opts.WideWindow} {
			cands = append(cands, entity.Candidate{
				Source: fmt.Sprintf("%s@%d", r.Strategy, w),
				Fields: p.parser.Parse(norm, w),
			})
		}
	}
	return cands
}

func (p *Processor) diagnose(logger *slog.Logger, out *Outcome) {
	if !p.opts.Diagnostics {
		return
	}
	files, err := WriteDiagnostics(out.Path, BuildDiagnostics(*out, p.opts.MinScore, p.parser.Labels()), out.Texts)
	out.Diagnostics = files
	if err != nil {
		logger.Error("processor.diagnostics.failed", "error", err)
		return
	}
	logger.Info("processor.diagnostics.written", "files", len(files))
}

func identifierOnly(name, stem string, status constants.DocStatus) entity.Record {
	rec := entity.NewRecord(name)
	rec.Metadata.ID = stem
	rec.Status = status
	return rec
}

// IsLowScore reports whether err marks a record that was parsed but fell
// below the completeness threshold.
func IsLowScore(err error) bool {
	return errors.Is(err, common.ErrLowCompleteness)
}
