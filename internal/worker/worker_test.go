package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/clock"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/domain"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/executor"
)

// mockStore is a minimal in-memory Store backed by func fields, in the
// teacher's test style.
type mockStore struct {
	mu   sync.Mutex
	jobs []*domain.Job

	updateFunc func(ctx context.Context, job *domain.Job, workerID *string) error
}

func (m *mockStore) ClaimNext(ctx context.Context, workerID string) (*domain.Job, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, j := range m.jobs {
		if j.State == domain.StatePending {
			j.State = domain.StateProcessing
			j.WorkerID = &workerID
			return j, nil
		}
	}
	return nil, nil
}

func (m *mockStore) UpdateJob(ctx context.Context, job *domain.Job, workerID *string) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, job, workerID)
	}
	return nil
}

type mockConfig struct {
	backoffBase int
}

func (c mockConfig) BackoffBase() int { return c.backoffBase }

type mockExecutor struct {
	outcome executor.Outcome
	err     error
}

func (e mockExecutor) Execute(ctx context.Context, command string) (executor.Outcome, error) {
	return e.outcome, e.err
}

func TestWorker_Run_CompletesAJobThenStopsOnSignal(t *testing.T) {
	job := &domain.Job{ID: "job-1", Command: "true", State: domain.StatePending, MaxRetries: 3}
	store := &mockStore{jobs: []*domain.Job{job}}
	stop := NewChanSignal()

	w := New("worker-1-0", store, mockConfig{backoffBase: 2}, mockExecutor{outcome: executor.OutcomeCompleted},
		stop, WithPollInterval(5*time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- w.Run(context.Background()) }()

	require.Eventually(t, func() bool {
		return job.State == domain.StateCompleted
	}, time.Second, time.Millisecond)

	stop.Fire()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("worker did not stop after signal fired")
	}
}

func TestWorker_Run_ExitsOnContextCancel(t *testing.T) {
	store := &mockStore{}
	ctx, cancel := context.WithCancel(context.Background())
	w := New("worker-1-0", store, mockConfig{backoffBase: 2}, mockExecutor{outcome: executor.OutcomeCompleted},
		NewChanSignal(), WithPollInterval(5*time.Millisecond))

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("worker did not exit after context cancellation")
	}
}

func TestFinishJob_FailureUnderBudget_SchedulesBackoffRetry(t *testing.T) {
	c := clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	var recorded *domain.Job
	store := &mockStore{updateFunc: func(ctx context.Context, job *domain.Job, workerID *string) error {
		recorded = job
		return nil
	}}

	w := New("worker-1-0", store, mockConfig{backoffBase: 2}, mockExecutor{}, NewChanSignal())
	w.Clock = c

	job := &domain.Job{ID: "job-1", State: domain.StateProcessing, Attempts: 0, MaxRetries: 3}
	w.finishJob(context.Background(), job, executor.OutcomeFailed, nil)

	require.NotNil(t, recorded)
	assert.Equal(t, domain.StateFailed, recorded.State)
	assert.Equal(t, 1, recorded.Attempts)
	require.NotNil(t, recorded.NextRetryAt)
	assert.Equal(t, c.Now().Add(2*time.Second), *recorded.NextRetryAt)
}

func TestFinishJob_FailureExceedsBudget_MovesToDead(t *testing.T) {
	var recorded *domain.Job
	store := &mockStore{updateFunc: func(ctx context.Context, job *domain.Job, workerID *string) error {
		recorded = job
		return nil
	}}

	w := New("worker-1-0", store, mockConfig{backoffBase: 2}, mockExecutor{}, NewChanSignal())

	job := &domain.Job{ID: "job-1", State: domain.StateProcessing, Attempts: 3, MaxRetries: 3}
	w.finishJob(context.Background(), job, executor.OutcomeTimeout, nil)

	require.NotNil(t, recorded)
	assert.Equal(t, domain.StateDead, recorded.State)
	assert.Nil(t, recorded.NextRetryAt)
}

func TestFinishJob_ExecutorInfraError_TreatedAsFailure(t *testing.T) {
	var recorded *domain.Job
	store := &mockStore{updateFunc: func(ctx context.Context, job *domain.Job, workerID *string) error {
		recorded = job
		return nil
	}}

	w := New("worker-1-0", store, mockConfig{backoffBase: 2}, mockExecutor{}, NewChanSignal())

	job := &domain.Job{ID: "job-1", State: domain.StateProcessing, Attempts: 0, MaxRetries: 1}
	w.finishJob(context.Background(), job, executor.OutcomeCompleted, errors.New("fork failed"))

	require.NotNil(t, recorded)
	assert.Equal(t, domain.StateFailed, recorded.State)
}

func TestBackoffDelay(t *testing.T) {
	assert.Equal(t, time.Second, backoffDelay(2, 0))
	assert.Equal(t, 2*time.Second, backoffDelay(2, 1))
	assert.Equal(t, 4*time.Second, backoffDelay(2, 2))
	assert.Equal(t, 8*time.Second, backoffDelay(2, 3))
}
