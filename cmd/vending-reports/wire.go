package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/core"
	"github.com/joseph-ayodele/vending-reports/internal/core/acquire"
	"github.com/joseph-ayodele/vending-reports/internal/core/async"
	"github.com/joseph-ayodele/vending-reports/internal/core/header"
	"github.com/joseph-ayodele/vending-reports/internal/core/labels"
	"github.com/joseph-ayodele/vending-reports/internal/core/parse"
	"github.com/joseph-ayodele/vending-reports/internal/export"
	"github.com/joseph-ayodele/vending-reports/internal/pipeline"
	"github.com/joseph-ayodele/vending-reports/internal/repository"
)

// loadConfig reads the environment and applies the flags that were set.
func loadConfig(cmd *cobra.Command) (*common.Config, error) {
	cfg := common.LoadConfig()
	flags := cmd.Flags()

	if flags.Changed("input") {
		cfg.Input.Dir, _ = flags.GetString("input")
	}
	if flags.Changed("output") {
		cfg.Output.CSVPath, _ = flags.GetString("output")
	}
	if flags.Changed("labels") {
		cfg.Parsing.LabelsFile, _ = flags.GetString("labels")
	}
	if flags.Changed("min-score") {
		cfg.Parsing.MinScore, _ = flags.GetInt("min-score")
	}
	if flags.Changed("workers") {
		cfg.Runtime.Workers, _ = flags.GetInt("workers")
	}
	if off, _ := flags.GetBool("no-ocr"); off {
		cfg.Acquisition.OCREnabled = false
	}
	if off, _ := flags.GetBool("no-diagnostics"); off {
		cfg.Output.Diagnostics = false
	}
	if flags.Changed("ledger-dsn") {
		cfg.Ledger.DSN, _ = flags.GetString("ledger-dsn")
	}
	if off, _ := flags.GetBool("no-ledger"); off {
		cfg.Ledger.Enabled = false
	}
	if flags.Changed("log-level") {
		cfg.Runtime.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-format") {
		cfg.Runtime.LogFormat, _ = flags.GetString("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg common.RuntimeConfig) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	var logger *slog.Logger
	if strings.EqualFold(cfg.LogFormat, "json") {
		logger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	slog.SetDefault(logger)
	return logger
}

// newProcessor wires the backends, the orchestrator and the parser.
func newProcessor(cfg *common.Config, logger *slog.Logger) (*core.Processor, error) {
	set, err := labels.Load(cfg.Parsing.LabelsFile)
	if err != nil {
		return nil, common.NewAppError(common.CodeConfig, "load labels", err)
	}

	acq := cfg.Acquisition
	runner := acquire.ExecRunner{}
	backends := map[acquire.Strategy]acquire.Backend{
		acquire.StrategyLayout:   acquire.NewPdftotextBackend(acq.Pdftotext, true, runner, logger),
		acquire.StrategyRaw:      acquire.NewPdftotextBackend(acq.Pdftotext, false, runner, logger),
		acquire.StrategyEmbedded: acquire.NewEmbeddedBackend(acq.EmbeddedMaxPages, logger),
	}
	if acq.OCREnabled {
		backends[acquire.StrategyOCR] = acquire.NewOCRBackend(acquire.OCRConfig{
			Pdftoppm:    acq.Pdftoppm,
			Tesseract:   acq.Tesseract,
			Lang:        acq.OCRLang,
			DPI:         acq.OCRDPI,
			PSM:         acq.OCRPSM,
			OEM:         acq.OCROEM,
			TessdataDir: acq.TessdataDir,
			MaxPages:    acq.OCRMaxPages,
		}, runner, logger)
	}
	orch := acquire.NewOrchestrator(backends,
		acquire.WithTimeout(acq.Timeout),
		acquire.WithLogger(logger),
	)

	return core.NewProcessor(logger, orch,
		parse.NewParser(set),
		header.NewExtractor(cfg.Parsing.BrandMarker, cfg.Parsing.HeaderScanLines),
		core.Options{
			NarrowWindow: cfg.Parsing.NarrowWindow,
			WideWindow:   cfg.Parsing.WideWindow,
			MinScore:     cfg.Parsing.MinScore,
			Diagnostics:  cfg.Output.Diagnostics,
		},
	), nil
}

// openLedger returns nil when the ledger is disabled.
func openLedger(ctx context.Context, cfg *common.Config, logger *slog.Logger) (*repository.DB, error) {
	if !cfg.Ledger.Enabled {
		return nil, nil
	}
	db, err := repository.Open(ctx, repository.Config{
		DSN:             cfg.Ledger.DSN,
		MaxConns:        cfg.Ledger.MaxConns,
		MinConns:        cfg.Ledger.MinConns,
		MaxConnLifetime: cfg.Ledger.MaxConnLifetime,
		MaxConnIdleTime: cfg.Ledger.MaxConnIdleTime,
		DialTimeout:     cfg.Ledger.DialTimeout,
	}, logger)
	if err != nil {
		return nil, common.NewAppError(common.CodeLedger, "open ledger", err)
	}
	if err := repository.HealthCheck(ctx, db, cfg.Ledger.DialTimeout, logger); err != nil {
		repository.Close(db, logger)
		return nil, common.NewAppError(common.CodeLedger, "ping ledger", err)
	}
	if err := repository.Migrate(ctx, db); err != nil {
		repository.Close(db, logger)
		return nil, common.NewAppError(common.CodeLedger, "migrate ledger", err)
	}
	return db, nil
}

// newPipeline builds the whole run stack. close releases the ledger and
// the output table.
func newPipeline(ctx context.Context, cfg *common.Config, logger *slog.Logger, skipProcessed bool) (*pipeline.Pipeline, func(), error) {
	proc, err := newProcessor(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	db, err := openLedger(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	var (
		runs repository.RunRepository
		docs repository.DocumentRepository
	)
	if db != nil {
		runs = repository.NewRunRepository(db, logger)
		docs = repository.NewDocumentRepository(db, logger)
	} else if skipProcessed {
		logger.Warn("skip-processed needs the ledger; processing every document")
	}

	batch := async.NewBatch(proc, logger,
		async.WithWorkers(cfg.Runtime.Workers),
		async.WithProcessTimeout(cfg.Runtime.DocumentTimeout),
	)
	sink := export.NewCSVSink(cfg.Output.CSVPath, logger)
	p := pipeline.New(logger, batch, sink, runs, docs, pipeline.Options{
		InputDir:      cfg.Input.Dir,
		SkipProcessed: skipProcessed,
	})

	closeFn := func() {
		if err := sink.Close(); err != nil {
			logger.Warn("failed to close output table", "error", err)
		}
		repository.Close(db, logger)
	}
	return p, closeFn, nil
}
