package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

type RunRepository interface {
	Start(ctx context.Context, inputDir, outputPath string) (*entity.Run, error)
	Finish(ctx context.Context, run *entity.Run, status constants.RunStatus) error
	Get(ctx context.Context, id uuid.UUID) (*entity.Run, error)
	List(ctx context.Context, limit int) ([]*entity.Run, error)
}

type runRepo struct {
	db  *DB
	log *slog.Logger
}

func NewRunRepository(db *DB, log *slog.Logger) RunRepository {
	if log == nil {
		log = slog.Default()
	}
	return &runRepo{db: db, log: log}
}

func (r *runRepo) Start(ctx context.Context, inputDir, outputPath string) (*entity.Run, error) {
	run := &entity.Run{
		ID:         uuid.New(),
		StartedAt:  time.Now().UTC(),
		Status:     string(constants.RunStatusRunning),
		InputDir:   inputDir,
		OutputPath: outputPath,
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO runs (id, started_at, status, input_dir, output_path) VALUES (?, ?, ?, ?, ?)`),
		run.ID.String(), formatTime(run.StartedAt), run.Status, run.InputDir, run.OutputPath)
	if err != nil {
		r.log.Error("run start failed", "err", err)
		return nil, common.NewAppError(common.CodeLedger, "start run", errors.Join(common.ErrDatabase, err))
	}
	r.log.Info("run started", "run_id", run.ID, "input_dir", inputDir)
	return run, nil
}

func (r *runRepo) Finish(ctx context.Context, run *entity.Run, status constants.RunStatus) error {
	now := time.Now().UTC()
	run.FinishedAt = &now
	run.Status = string(status)
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`UPDATE runs SET finished_at = ?, status = ?, total = ?, succeeded = ?, failed = ? WHERE id = ?`),
		formatTime(now), run.Status, run.Total, run.Succeeded, run.Failed, run.ID.String())
	if err != nil {
		r.log.Error("run finish failed", "run_id", run.ID, "err", err)
		return common.NewAppError(common.CodeLedger, "finish run", errors.Join(common.ErrDatabase, err))
	}
	r.log.Info("run finished", "run_id", run.ID, "status", run.Status,
		"total", run.Total, "succeeded", run.Succeeded, "failed", run.Failed)
	return nil
}

const runColumns = `id, started_at, finished_at, status, input_dir, output_path, total, succeeded, failed`

func (r *runRepo) Get(ctx context.Context, id uuid.UUID) (*entity.Run, error) {
	row := r.db.QueryRowContext(ctx, r.db.Rebind(`SELECT `+runColumns+` FROM runs WHERE id = ?`), id.String())
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewAppError(common.CodeLedger, "run "+id.String(), common.ErrNotFound)
	}
	if err != nil {
		return nil, common.NewAppError(common.CodeLedger, "get run", errors.Join(common.ErrDatabase, err))
	}
	return run, nil
}

// List returns the most recent runs first.
func (r *runRepo) List(ctx context.Context, limit int) ([]*entity.Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT `+runColumns+` FROM runs ORDER BY started_at DESC LIMIT ?`), limit)
	if err != nil {
		return nil, common.NewAppError(common.CodeLedger, "list runs", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

	var out []*entity.Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, common.NewAppError(common.CodeLedger, "scan run", errors.Join(common.ErrDatabase, err))
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (*entity.Run, error) {
	var (
		run         entity.Run
		id, started string
		finished    sql.NullString
	)
	if err := s.Scan(&id, &started, &finished, &run.Status, &run.InputDir, &run.OutputPath,
		&run.Total, &run.Succeeded, &run.Failed); err != nil {
		return nil, err
	}
	var err error
	if run.ID, err = uuid.Parse(id); err != nil {
		return nil, err
	}
	if run.StartedAt, err = parseTime(started); err != nil {
		return nil, err
	}
	if finished.Valid {
		t, err := parseTime(finished.String)
		if err != nil {
			return nil, err
		}
		run.FinishedAt = &t
	}
	return &run, nil
}

// Fixed-width UTC timestamps sort correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) { return time.Parse(timeLayout, s) }
