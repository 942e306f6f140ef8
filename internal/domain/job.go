// Package domain holds the Job record and the state machine described by
// the job queue's data model: the sole persisted entity and its terminal
// and non-terminal transitions.
package domain

import "time"

// State is a job's position in its lifecycle.
type State string

const (
	StatePending    State = "PENDING"
	StateProcessing State = "PROCESSING"
	StateCompleted  State = "COMPLETED"
	StateFailed     State = "FAILED"
	StateDead       State = "DEAD"
)

// Job is the sole persisted entity. Field semantics match the data model:
// Attempts counts failed executions, MaxRetries is frozen at enqueue time,
// and NextRetryAt is set iff State is FAILED and the retry budget remains.
type Job struct {
	ID          string
	Command     string
	State       State
	Attempts    int
	MaxRetries  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
	NextRetryAt *time.Time
	WorkerID    *string
}

// Stats is the aggregate count of jobs by state, as returned by the
// store's stats operation.
type Stats struct {
	Pending    int
	Processing int
	Completed  int
	Failed     int
	Dead       int
}
