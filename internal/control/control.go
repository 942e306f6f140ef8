// Package control is the thin façade non-worker callers drive: the
// CLI's enqueue/list/stats/dlq commands all go through this API rather
// than touching the store directly.
package control

import (
	"context"
	"fmt"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/clock"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/domain"
)

// Store is the subset of the job store the control API needs.
type Store interface {
	AddJob(ctx context.Context, job *domain.Job) (bool, error)
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	UpdateJob(ctx context.Context, job *domain.Job, workerID *string) error
	ListJobs(ctx context.Context, state domain.State) ([]*domain.Job, error)
	Stats(ctx context.Context) (domain.Stats, error)
}

// BackoffConfig supplies the default retry budget for enqueue calls that
// don't specify one.
type BackoffConfig interface {
	MaxRetries() int
}

// API is the control-plane façade over the store.
type API struct {
	Store  Store
	Config BackoffConfig
	Clock  clock.Clock
}

// New constructs an API bound to store and cfg.
func New(store Store, cfg BackoffConfig) *API {
	return &API{Store: store, Config: cfg, Clock: clock.Real{}}
}

// Enqueue creates a PENDING job. maxRetries, when non-nil, overrides the
// configured default; either way the retry budget is frozen onto the
// record at enqueue time and does not track later config changes.
func (a *API) Enqueue(ctx context.Context, id, command string, maxRetries *int) error {
	if id == "" {
		return fmt.Errorf("job id must not be empty")
	}
	if command == "" {
		return fmt.Errorf("job command must not be empty")
	}

	retries := a.Config.MaxRetries()
	if maxRetries != nil {
		retries = *maxRetries
	}

	now := a.Clock.Now()
	job := &domain.Job{
		ID:         id,
		Command:    command,
		State:      domain.StatePending,
		Attempts:   0,
		MaxRetries: retries,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	created, err := a.Store.AddJob(ctx, job)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("%w: %s", domain.ErrDuplicate, id)
	}
	return nil
}

// Get returns a single job, or domain.ErrNotFound if it doesn't exist.
func (a *API) Get(ctx context.Context, id string) (*domain.Job, error) {
	job, err := a.Store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return job, nil
}

// List returns jobs, optionally filtered by state ("" means no filter).
func (a *API) List(ctx context.Context, state domain.State) ([]*domain.Job, error) {
	return a.Store.ListJobs(ctx, state)
}

// DLQList returns jobs currently in the dead letter queue.
func (a *API) DLQList(ctx context.Context) ([]*domain.Job, error) {
	return a.Store.ListJobs(ctx, domain.StateDead)
}

// Stats returns aggregate counts by state.
func (a *API) Stats(ctx context.Context) (domain.Stats, error) {
	return a.Store.Stats(ctx)
}

// DLQRetry revives a single DEAD job back to PENDING with a clean slate:
// attempts reset to 0, next_retry_at cleared.
func (a *API) DLQRetry(ctx context.Context, id string) error {
	job, err := a.Store.GetJob(ctx, id)
	if err != nil {
		return err
	}
	if job == nil {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if job.State != domain.StateDead {
		return fmt.Errorf("%w: %s is %s", domain.ErrNotDead, id, job.State)
	}

	job.State = domain.StatePending
	job.Attempts = 0
	job.NextRetryAt = nil
	job.UpdatedAt = a.Clock.Now()

	return a.Store.UpdateJob(ctx, job, nil)
}
