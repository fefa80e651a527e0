package repository

import (
	"context"
	"database/sql"

	"stoxwatch/internal/model"
)

type DigestRepository struct {
	db *sql.DB
}

func NewDigestRepository(db *sql.DB) *DigestRepository {
	return &DigestRepository{db: db}
}

func (r *DigestRepository) SaveRun(ctx context.Context, run *model.DigestRun) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO digest_runs(job, success, message, users, sent, skipped, failed, started_at, finished_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`, run.Job, run.Success, run.Message, run.Users, run.Sent, run.Skipped, run.Failed,
		run.StartedAt, run.FinishedAt).Scan(&run.ID)
}

func (r *DigestRepository) GetRuns(ctx context.Context, limit, offset int) ([]model.DigestRun, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, job, success, message, users, sent, skipped, failed, started_at, finished_at
		FROM digest_runs
		ORDER BY started_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []model.DigestRun
	for rows.Next() {
		var run model.DigestRun
		if err := scanRun(rows, &run); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}

// GetLatestRun returns nil without error when no run has been recorded.
func (r *DigestRepository) GetLatestRun(ctx context.Context) (*model.DigestRun, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, job, success, message, users, sent, skipped, failed, started_at, finished_at
		FROM digest_runs
		ORDER BY started_at DESC
		LIMIT 1
	`)

	var run model.DigestRun
	err := scanRun(row, &run)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *DigestRepository) GetRunTotal(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM digest_runs`).Scan(&total)
	return total, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner, run *model.DigestRun) error {
	return s.Scan(&run.ID, &run.Job, &run.Success, &run.Message, &run.Users, &run.Sent,
		&run.Skipped, &run.Failed, &run.StartedAt, &run.FinishedAt)
}
