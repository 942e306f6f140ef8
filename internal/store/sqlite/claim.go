package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/domain"
)

// ClaimNext is the store's central operation: the atomic claim. It returns
// a job transitioned to PROCESSING with workerID recorded, or (nil, nil)
// if nothing is currently claimable.
//
// The whole read-candidate / CAS-transition sequence runs inside one
// BeginTx call. Because the store is opened with _txlock=immediate, that
// BeginTx acquires SQLite's write lock before the SELECT runs, so no other
// process's claim_next or update_job call can interleave — the candidate
// read and the CAS write are effectively atomic with respect to every
// other caller, satisfying "no two workers ever observe the same job
// returned from claim_next".
func (s *Store) ClaimNext(ctx context.Context, workerID string) (*domain.Job, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, wrapStoreFailure("claim_next", err)
	}
	defer tx.Rollback()

	now := formatTime(s.clock.Now())

	row := tx.QueryRowContext(ctx, `
		SELECT id, command, state, attempts, max_retries, created_at, updated_at, next_retry_at, worker_id
		FROM jobs
		WHERE state = ? AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at ASC
		LIMIT 1
	`, string(domain.StatePending), now)
	job, err := scanJob(row)
	if errors.Is(err, sql.ErrNoRows) {
		row = tx.QueryRowContext(ctx, `
			SELECT id, command, state, attempts, max_retries, created_at, updated_at, next_retry_at, worker_id
			FROM jobs
			WHERE state = ? AND next_retry_at <= ?
			ORDER BY created_at ASC
			LIMIT 1
		`, string(domain.StateFailed), now)
		job, err = scanJob(row)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapStoreFailure("claim_next", err)
	}

	// Compare-and-set on the observed state: if another process already
	// claimed or otherwise mutated this row since the SELECT above, the
	// UPDATE affects zero rows and the caller is told to poll again rather
	// than being handed a job someone else owns.
	res, err := tx.ExecContext(ctx, `
		UPDATE jobs SET state = ?, worker_id = ?, updated_at = ?
		WHERE id = ? AND state = ?
	`, string(domain.StateProcessing), workerID, now, job.ID, string(job.State))
	if err != nil {
		return nil, wrapStoreFailure("claim_next", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, wrapStoreFailure("claim_next", err)
	}
	if n == 0 {
		return nil, nil
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapStoreFailure("claim_next", err)
	}

	job.State = domain.StateProcessing
	job.WorkerID = &workerID
	claimedAt, err := parseTime(now)
	if err != nil {
		return nil, fmt.Errorf("parse claim timestamp: %w", err)
	}
	job.UpdatedAt = claimedAt
	return job, nil
}
