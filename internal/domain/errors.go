package domain

import "errors"

// Sentinel errors returned by the store and control API. Callers should
// use errors.Is, never string matching.
var (
	// ErrDuplicate indicates enqueue of an id that already exists.
	ErrDuplicate = errors.New("job id already exists")

	// ErrNotFound indicates a lookup (get, dlq-retry) against an unknown id.
	ErrNotFound = errors.New("job not found")

	// ErrNotDead indicates a dlq-retry against a job that is not DEAD.
	ErrNotDead = errors.New("job is not in the dead letter queue")

	// ErrStoreFailure wraps I/O or transaction failures against persistence.
	// It is fatal to the operation that produced it; the worker loop logs
	// and sleeps rather than propagating it further.
	ErrStoreFailure = errors.New("store failure")

	// ErrSupervisorFailure indicates the supervisor could not spawn a
	// requested worker process. Already-started workers keep running.
	ErrSupervisorFailure = errors.New("supervisor failure")
)
