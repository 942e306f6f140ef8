// Package worker implements the worker runtime: the claim/execute/record
// loop, failure classification into retry-or-DLQ, and best-effort
// recovery when the store itself misbehaves mid-cycle.
package worker

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/clock"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/domain"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/executor"
)

// PollInterval is how long an idle worker sleeps between claim_next calls.
const PollInterval = 500 * time.Millisecond

// ShutdownGrace is how long a worker keeps waiting for its in-flight job
// once StopSignal has fired before abandoning the wait and exiting. The
// subprocess itself is never aborted by this — only the worker's own loop
// gives up on it.
const ShutdownGrace = 30 * time.Second

// storeErrorBackoff is how long the loop pauses after a store failure
// before retrying, so a down database doesn't spin the CPU.
const storeErrorBackoff = time.Second

// Store is the subset of the job store the worker loop needs.
type Store interface {
	ClaimNext(ctx context.Context, workerID string) (*domain.Job, error)
	UpdateJob(ctx context.Context, job *domain.Job, workerID *string) error
}

// BackoffConfig is the subset of the configuration provider the worker
// needs: max_retries is already frozen onto the job at enqueue time, so
// only backoff_base is read live on every failure.
type BackoffConfig interface {
	BackoffBase() int
}

// Executor runs a job's command.
type Executor interface {
	Execute(ctx context.Context, command string) (executor.Outcome, error)
}

// Worker is a single claim/execute/record loop bound to one worker_id.
type Worker struct {
	ID     string
	Store  Store
	Config BackoffConfig
	Exec   Executor
	Stop   StopSignal
	Clock  clock.Clock

	pollInterval time.Duration
}

// Option configures a Worker at construction time.
type Option func(*Worker)

// WithPollInterval overrides PollInterval, for tests that can't afford to
// wait 500ms per idle poll.
func WithPollInterval(d time.Duration) Option {
	return func(w *Worker) { w.pollInterval = d }
}

// New constructs a Worker. exec and stop must not be nil.
func New(id string, store Store, cfg BackoffConfig, exec Executor, stop StopSignal, opts ...Option) *Worker {
	w := &Worker{
		ID:           id,
		Store:        store,
		Config:       cfg,
		Exec:         exec,
		Stop:         stop,
		Clock:        clock.Real{},
		pollInterval: PollInterval,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run executes the claim/execute/record-outcome loop until ctx is
// cancelled or Stop fires. A genuine Go panic escaping a job's processing
// is not recovered here: it propagates out of Run and the process exits,
// which is how the supervisor is meant to detect a crashed worker (OS
// process liveness, not an in-memory flag).
func (w *Worker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "worker started", "worker_id", w.ID)

	for {
		if err := ctx.Err(); err != nil {
			slog.InfoContext(ctx, "worker stopping: context cancelled", "worker_id", w.ID)
			return err
		}
		if w.Stop.IsSet() {
			slog.InfoContext(ctx, "worker stopping: stop signal set", "worker_id", w.ID)
			return nil
		}

		job, err := w.Store.ClaimNext(ctx, w.ID)
		if err != nil {
			slog.ErrorContext(ctx, "claim_next failed, backing off", "worker_id", w.ID, "error", err)
			sleep(ctx, storeErrorBackoff)
			continue
		}
		if job == nil {
			sleep(ctx, w.pollInterval)
			continue
		}

		w.processJob(ctx, job)
	}
}

// processJob executes the claimed job and records its outcome. If Stop
// fires while the job is still running, it waits up to ShutdownGrace for
// the job to finish naturally before abandoning it (leaving it stuck in
// PROCESSING, with no sweeper to reclaim it) and returning so Run can
// exit on its next iteration.
func (w *Worker) processJob(ctx context.Context, job *domain.Job) {
	type result struct {
		outcome executor.Outcome
		err     error
	}
	resultCh := make(chan result, 1)
	go func() {
		outcome, err := w.Exec.Execute(ctx, job.Command)
		resultCh <- result{outcome, err}
	}()

	poll := time.NewTicker(100 * time.Millisecond)
	defer poll.Stop()
	var graceDeadline <-chan time.Time

	for {
		select {
		case res := <-resultCh:
			w.finishJob(ctx, job, res.outcome, res.err)
			return
		case <-graceDeadline:
			slog.WarnContext(ctx, "shutdown grace window elapsed with job still running; worker exiting without waiting further",
				"worker_id", w.ID, "job_id", job.ID)
			return
		case <-poll.C:
			if graceDeadline == nil && w.Stop.IsSet() {
				timer := time.NewTimer(ShutdownGrace)
				defer timer.Stop()
				graceDeadline = timer.C
			}
		}
	}
}

// finishJob records the outcome of a completed execution: success moves
// the job to COMPLETED, failure increments attempts and either schedules
// a backoff retry or moves the job to DEAD. If the store write itself
// fails, it falls back to a best-effort FAILED write and a brief sleep
// rather than propagating, so one bad cycle doesn't crash the worker.
func (w *Worker) finishJob(ctx context.Context, job *domain.Job, outcome executor.Outcome, execErr error) {
	if execErr != nil {
		slog.ErrorContext(ctx, "executor infrastructure failure, treating as job failure",
			"worker_id", w.ID, "job_id", job.ID, "error", execErr)
		outcome = executor.OutcomeFailed
	}

	now := w.Clock.Now()
	switch outcome {
	case executor.OutcomeCompleted:
		job.State = domain.StateCompleted
		job.UpdatedAt = now
	default: // failed, timeout, not_found
		job.Attempts++
		if job.Attempts <= job.MaxRetries {
			delay := backoffDelay(w.Config.BackoffBase(), job.Attempts)
			next := now.Add(delay)
			job.State = domain.StateFailed
			job.NextRetryAt = &next
		} else {
			job.State = domain.StateDead
			job.NextRetryAt = nil
		}
		job.UpdatedAt = now
	}

	if err := w.Store.UpdateJob(ctx, job, nil); err != nil {
		slog.ErrorContext(ctx, "failed to record outcome, attempting best-effort FAILED write",
			"worker_id", w.ID, "job_id", job.ID, "outcome", outcome, "error", err)
		job.State = domain.StateFailed
		job.UpdatedAt = w.Clock.Now()
		if ferr := w.Store.UpdateJob(ctx, job, nil); ferr != nil {
			slog.ErrorContext(ctx, "best-effort FAILED write also failed",
				"worker_id", w.ID, "job_id", job.ID, "error", ferr)
		}
		sleep(ctx, storeErrorBackoff)
	}
}

// backoffDelay computes backoff_base^attempt seconds, the delay before the
// attempt-th retry (1-indexed).
func backoffDelay(base, attempt int) time.Duration {
	seconds := math.Pow(float64(base), float64(attempt))
	return time.Duration(seconds) * time.Second
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
