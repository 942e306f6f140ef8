package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/domain"
)

// AddJob inserts a new record, returning (true, nil) on success and
// (false, nil) iff a record with the same id already exists.
func (s *Store) AddJob(ctx context.Context, job *domain.Job) (bool, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO jobs (id, command, state, attempts, max_retries, created_at, updated_at, next_retry_at, worker_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		job.ID, job.Command, string(job.State), job.Attempts, job.MaxRetries,
		formatTime(job.CreatedAt), formatTime(job.UpdatedAt), formatTimePtr(job.NextRetryAt), job.WorkerID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return false, nil
		}
		return false, wrapStoreFailure("add_job", err)
	}
	return true, nil
}

// GetJob returns a snapshot of a single record, or (nil, nil) if absent.
func (s *Store) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, command, state, attempts, max_retries, created_at, updated_at, next_retry_at, worker_id
		FROM jobs WHERE id = ?
	`, id)

	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreFailure("get_job", err)
	}
	return job, nil
}

// UpdateJob unconditionally overwrites the mutable fields of an existing
// record: state, attempts, updated_at, next_retry_at, and worker_id.
// workerID, when non-nil, overrides job.WorkerID (used by claim_next-style
// callers); pass nil to use job.WorkerID as-is.
func (s *Store) UpdateJob(ctx context.Context, job *domain.Job, workerID *string) error {
	wid := job.WorkerID
	if workerID != nil {
		wid = workerID
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE jobs SET state = ?, attempts = ?, updated_at = ?, next_retry_at = ?, worker_id = ?
		WHERE id = ?
	`, string(job.State), job.Attempts, formatTime(job.UpdatedAt), formatTimePtr(job.NextRetryAt), wid, job.ID)
	if err != nil {
		return wrapStoreFailure("update_job", err)
	}
	return nil
}

// ListJobs returns jobs ordered by created_at descending, optionally
// filtered by state. Pass "" for no filter.
func (s *Store) ListJobs(ctx context.Context, state domain.State) ([]*domain.Job, error) {
	var rows *sql.Rows
	var err error
	if state == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, command, state, attempts, max_retries, created_at, updated_at, next_retry_at, worker_id
			FROM jobs ORDER BY created_at DESC
		`)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT id, command, state, attempts, max_retries, created_at, updated_at, next_retry_at, worker_id
			FROM jobs WHERE state = ? ORDER BY created_at DESC
		`, string(state))
	}
	if err != nil {
		return nil, wrapStoreFailure("list_jobs", err)
	}
	defer rows.Close()

	var jobs []*domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, wrapStoreFailure("list_jobs", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapStoreFailure("list_jobs", err)
	}
	return jobs, nil
}

// Stats returns aggregate counts of jobs by state.
func (s *Store) Stats(ctx context.Context) (domain.Stats, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT state, COUNT(*) FROM jobs GROUP BY state`)
	if err != nil {
		return domain.Stats{}, wrapStoreFailure("stats", err)
	}
	defer rows.Close()

	var stats domain.Stats
	for rows.Next() {
		var state string
		var count int
		if err := rows.Scan(&state, &count); err != nil {
			return domain.Stats{}, wrapStoreFailure("stats", err)
		}
		switch domain.State(state) {
		case domain.StatePending:
			stats.Pending = count
		case domain.StateProcessing:
			stats.Processing = count
		case domain.StateCompleted:
			stats.Completed = count
		case domain.StateFailed:
			stats.Failed = count
		case domain.StateDead:
			stats.Dead = count
		}
	}
	if err := rows.Err(); err != nil {
		return domain.Stats{}, wrapStoreFailure("stats", err)
	}
	return stats, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*domain.Job, error) {
	var (
		job                         domain.Job
		state                       string
		createdAt, updatedAt        string
		nextRetryAt, workerIDScanned sql.NullString
	)
	if err := row.Scan(&job.ID, &job.Command, &state, &job.Attempts, &job.MaxRetries,
		&createdAt, &updatedAt, &nextRetryAt, &workerIDScanned); err != nil {
		return nil, err
	}
	job.State = domain.State(state)

	var err error
	if job.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at for job %s: %w", job.ID, err)
	}
	if job.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at for job %s: %w", job.ID, err)
	}
	if nextRetryAt.Valid {
		t, err := parseTime(nextRetryAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse next_retry_at for job %s: %w", job.ID, err)
		}
		job.NextRetryAt = &t
	}
	if workerIDScanned.Valid {
		job.WorkerID = &workerIDScanned.String
	}
	return &job, nil
}

// isUniqueViolation reports whether err is a SQLite primary-key conflict.
// modernc.org/sqlite surfaces these as plain errors containing the SQLite
// error text; there is no typed error to match against.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "constraint failed: UNIQUE")
}
