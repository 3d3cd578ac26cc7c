package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/vending-reports/constants"
	"github.com/joseph-ayodele/vending-reports/internal/common"
	"github.com/joseph-ayodele/vending-reports/internal/entity"
)

type DocumentRepository interface {
	Record(ctx context.Context, doc *entity.DocumentRun) error
	ListByRun(ctx context.Context, runID uuid.UUID) ([]*entity.DocumentRun, error)
	// Succeeded returns the names of documents that reached OK in any run.
	Succeeded(ctx context.Context) (map[string]bool, error)
}

type documentRepo struct {
	db  *DB
	log *slog.Logger
}

func NewDocumentRepository(db *DB, log *slog.Logger) DocumentRepository {
	if log == nil {
		log = slog.Default()
	}
	return &documentRepo{db: db, log: log}
}

func (r *documentRepo) Record(ctx context.Context, doc *entity.DocumentRun) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	var errMsg sql.NullString
	if doc.ErrorMessage != nil {
		errMsg = sql.NullString{String: *doc.ErrorMessage, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO documents (id, run_id, name, path, status, score, primary_strategy, secondary_strategy,
			error_message, duration_ms, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		doc.ID.String(), doc.RunID.String(), doc.Name, doc.Path, doc.Status, doc.Score,
		doc.PrimaryStrategy, doc.SecondaryStrategy, errMsg, doc.DurationMillis, formatTime(doc.ProcessedAt))
	if err != nil {
		r.log.Error("document record failed", "run_id", doc.RunID, "name", doc.Name, "err", err)
		return common.NewAppError(common.CodeLedger, "record document", errors.Join(common.ErrDatabase, err))
	}
	return nil
}

func (r *documentRepo) ListByRun(ctx context.Context, runID uuid.UUID) ([]*entity.DocumentRun, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT id, run_id, name, path, status, score, primary_strategy, secondary_strategy,
			error_message, duration_ms, processed_at
		FROM documents WHERE run_id = ? ORDER BY processed_at, name`), runID.String())
	if err != nil {
		return nil, common.NewAppError(common.CodeLedger, "list documents", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

	var out []*entity.DocumentRun
	for rows.Next() {
		var (
			doc         entity.DocumentRun
			id, run, at string
			errMsg      sql.NullString
		)
		if err := rows.Scan(&id, &run, &doc.Name, &doc.Path, &doc.Status, &doc.Score,
			&doc.PrimaryStrategy, &doc.SecondaryStrategy, &errMsg, &doc.DurationMillis, &at); err != nil {
			return nil, common.NewAppError(common.CodeLedger, "scan document", errors.Join(common.ErrDatabase, err))
		}
		if doc.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if doc.RunID, err = uuid.Parse(run); err != nil {
			return nil, err
		}
		if doc.ProcessedAt, err = parseTime(at); err != nil {
			return nil, err
		}
		if errMsg.Valid {
			msg := errMsg.String
			doc.ErrorMessage = &msg
		}
		out = append(out, &doc)
	}
	return out, rows.Err()
}

func (r *documentRepo) Succeeded(ctx context.Context) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx, r.db.Rebind(
		`SELECT DISTINCT name FROM documents WHERE status = ?`), string(constants.DocStatusOK))
	if err != nil {
		return nil, common.NewAppError(common.CodeLedger, "list succeeded documents", errors.Join(common.ErrDatabase, err))
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out[name] = true
	}
	return out, rows.Err()
}
