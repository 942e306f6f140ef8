package control

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/clock"
	"github.com/sripriyakonjarla/QueueCTL-CLI-based-background-job-queue-system/internal/domain"
)

// mockStore is an in-memory Store stub keyed by job id.
type mockStore struct {
	jobs map[string]*domain.Job
}

func newMockStore() *mockStore {
	return &mockStore{jobs: map[string]*domain.Job{}}
}

func (m *mockStore) AddJob(ctx context.Context, job *domain.Job) (bool, error) {
	if _, exists := m.jobs[job.ID]; exists {
		return false, nil
	}
	cp := *job
	m.jobs[job.ID] = &cp
	return true, nil
}

func (m *mockStore) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, nil
	}
	cp := *job
	return &cp, nil
}

func (m *mockStore) UpdateJob(ctx context.Context, job *domain.Job, workerID *string) error {
	m.jobs[job.ID] = job
	return nil
}

func (m *mockStore) ListJobs(ctx context.Context, state domain.State) ([]*domain.Job, error) {
	var out []*domain.Job
	for _, j := range m.jobs {
		if state == "" || j.State == state {
			out = append(out, j)
		}
	}
	return out, nil
}

func (m *mockStore) Stats(ctx context.Context) (domain.Stats, error) {
	var s domain.Stats
	for _, j := range m.jobs {
		switch j.State {
		case domain.StatePending:
			s.Pending++
		case domain.StateProcessing:
			s.Processing++
		case domain.StateCompleted:
			s.Completed++
		case domain.StateFailed:
			s.Failed++
		case domain.StateDead:
			s.Dead++
		}
	}
	return s, nil
}

type mockConfig struct{ maxRetries int }

func (c mockConfig) MaxRetries() int { return c.maxRetries }

func TestEnqueue_UsesConfiguredDefaultMaxRetries(t *testing.T) {
	store := newMockStore()
	api := New(store, mockConfig{maxRetries: 4})

	require.NoError(t, api.Enqueue(context.Background(), "job-1", "echo hi", nil))

	got := store.jobs["job-1"]
	require.NotNil(t, got)
	assert.Equal(t, 4, got.MaxRetries)
	assert.Equal(t, domain.StatePending, got.State)
}

func TestEnqueue_OverrideMaxRetries(t *testing.T) {
	store := newMockStore()
	api := New(store, mockConfig{maxRetries: 4})

	override := 9
	require.NoError(t, api.Enqueue(context.Background(), "job-1", "echo hi", &override))
	assert.Equal(t, 9, store.jobs["job-1"].MaxRetries)
}

func TestEnqueue_DuplicateID_ReturnsErrDuplicate(t *testing.T) {
	store := newMockStore()
	api := New(store, mockConfig{maxRetries: 3})

	require.NoError(t, api.Enqueue(context.Background(), "job-1", "echo hi", nil))
	err := api.Enqueue(context.Background(), "job-1", "echo bye", nil)
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestEnqueue_RejectsEmptyIDOrCommand(t *testing.T) {
	store := newMockStore()
	api := New(store, mockConfig{maxRetries: 3})

	assert.Error(t, api.Enqueue(context.Background(), "", "echo hi", nil))
	assert.Error(t, api.Enqueue(context.Background(), "job-1", "", nil))
}

func TestGet_NotFound_ReturnsErrNotFound(t *testing.T) {
	store := newMockStore()
	api := New(store, mockConfig{maxRetries: 3})

	_, err := api.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDLQRetry_ResetsJobToPending(t *testing.T) {
	store := newMockStore()
	api := New(store, mockConfig{maxRetries: 3})
	api.Clock = clock.NewManual(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	retryAt := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)
	store.jobs["job-1"] = &domain.Job{
		ID: "job-1", State: domain.StateDead, Attempts: 5, MaxRetries: 3, NextRetryAt: &retryAt,
	}

	require.NoError(t, api.DLQRetry(context.Background(), "job-1"))

	got := store.jobs["job-1"]
	assert.Equal(t, domain.StatePending, got.State)
	assert.Equal(t, 0, got.Attempts)
	assert.Nil(t, got.NextRetryAt)
	assert.True(t, api.Clock.Now().Equal(got.UpdatedAt))
}

func TestDLQRetry_NotFound(t *testing.T) {
	store := newMockStore()
	api := New(store, mockConfig{maxRetries: 3})
	assert.ErrorIs(t, api.DLQRetry(context.Background(), "nope"), domain.ErrNotFound)
}

func TestDLQRetry_NotDead_ReturnsErrNotDead(t *testing.T) {
	store := newMockStore()
	api := New(store, mockConfig{maxRetries: 3})
	store.jobs["job-1"] = &domain.Job{ID: "job-1", State: domain.StatePending}

	assert.ErrorIs(t, api.DLQRetry(context.Background(), "job-1"), domain.ErrNotDead)
}

func TestDLQList_ReturnsOnlyDeadJobs(t *testing.T) {
	store := newMockStore()
	api := New(store, mockConfig{maxRetries: 3})
	store.jobs["alive"] = &domain.Job{ID: "alive", State: domain.StatePending}
	store.jobs["dead"] = &domain.Job{ID: "dead", State: domain.StateDead}

	jobs, err := api.DLQList(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "dead", jobs[0].ID)
}
