package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/courseforge/courseforge/internal/db"
	"github.com/courseforge/courseforge/internal/domain"
)

// ErrNotFound is returned when a record or run does not exist.
var ErrNotFound = errors.New("not found")

// SQLiteRecordRepo implements RecordRepo using a SQLite database.
type SQLiteRecordRepo struct {
	db db.DBTX
}

// NewSQLiteRecordRepo creates a new SQLiteRecordRepo.
func NewSQLiteRecordRepo(dbtx db.DBTX) *SQLiteRecordRepo {
	return &SQLiteRecordRepo{db: dbtx}
}

func (r *SQLiteRecordRepo) CreateRun(ctx context.Context, run *domain.DeploymentRun) error {
	query := `INSERT INTO deployment_runs (id, started_at, finished_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, run.ID, run.StartedAt, run.FinishedAt)
	if err != nil {
		return fmt.Errorf("inserting deployment run: %w", err)
	}
	return nil
}

func (r *SQLiteRecordRepo) FinishRun(ctx context.Context, runID string, finishedAt time.Time) error {
	query := `UPDATE deployment_runs SET finished_at = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, finishedAt, runID)
	if err != nil {
		return fmt.Errorf("finishing deployment run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("finishing deployment run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deployment run %s: %w", runID, ErrNotFound)
	}
	return nil
}

func (r *SQLiteRecordRepo) LatestRun(ctx context.Context) (*domain.DeploymentRun, error) {
	query := `SELECT id, started_at, finished_at FROM deployment_runs ORDER BY started_at DESC, id DESC LIMIT 1`
	var run domain.DeploymentRun
	err := r.db.QueryRowContext(ctx, query).Scan(&run.ID, &run.StartedAt, &run.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading latest run: %w", err)
	}
	return &run, nil
}

func (r *SQLiteRecordRepo) UpsertRecord(ctx context.Context, rec *domain.EntityRecord) error {
	query := `INSERT INTO deployment_records (local_id, kind, remote_id, status, reason, run_id, attempted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (local_id) DO UPDATE SET
			kind = excluded.kind,
			remote_id = excluded.remote_id,
			status = excluded.status,
			reason = excluded.reason,
			run_id = excluded.run_id,
			attempted_at = excluded.attempted_at`
	_, err := r.db.ExecContext(ctx, query,
		rec.LocalID, rec.Kind, rec.RemoteID, rec.Status, rec.Reason, rec.RunID, rec.AttemptedAt)
	if err != nil {
		return fmt.Errorf("upserting record for %s: %w", rec.LocalID, err)
	}
	return nil
}

func (r *SQLiteRecordRepo) GetRecord(ctx context.Context, localID string) (*domain.EntityRecord, error) {
	query := `SELECT local_id, kind, remote_id, status, reason, run_id, attempted_at
		FROM deployment_records WHERE local_id = ?`
	var rec domain.EntityRecord
	err := r.db.QueryRowContext(ctx, query, localID).Scan(
		&rec.LocalID, &rec.Kind, &rec.RemoteID, &rec.Status, &rec.Reason, &rec.RunID, &rec.AttemptedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading record for %s: %w", localID, err)
	}
	return &rec, nil
}

func (r *SQLiteRecordRepo) ListRecords(ctx context.Context) (domain.RecordSet, error) {
	query := `SELECT local_id, kind, remote_id, status, reason, run_id, attempted_at FROM deployment_records`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}
	defer rows.Close()

	records := make(domain.RecordSet)
	for rows.Next() {
		var rec domain.EntityRecord
		if err := rows.Scan(&rec.LocalID, &rec.Kind, &rec.RemoteID, &rec.Status, &rec.Reason, &rec.RunID, &rec.AttemptedAt); err != nil {
			return nil, fmt.Errorf("scanning record: %w", err)
		}
		records[rec.LocalID] = rec
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating records: %w", err)
	}
	return records, nil
}
