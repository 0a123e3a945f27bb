package api

import (
	"context"

	"dubber/internal/queue"
)

// QueueService exposes queue operations in wire form. The daemon and its
// HTTP handlers share one instance.
type QueueService struct {
	store *queue.Store
}

// NewQueueService wraps a queue store.
func NewQueueService(store *queue.Store) *QueueService {
	return &QueueService{store: store}
}

// List returns jobs in queue order, optionally filtered by status.
func (q *QueueService) List(ctx context.Context, statuses ...queue.Status) ([]JobView, error) {
	jobs, err := q.store.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	return FromJobs(jobs), nil
}

// Describe returns a single job view, or nil when the job does not exist.
func (q *QueueService) Describe(ctx context.Context, id int64) (*JobView, error) {
	job, err := q.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}
	view := FromJob(job)
	return &view, nil
}

// Remove deletes a job and reports whether it existed.
func (q *QueueService) Remove(ctx context.Context, id int64) (bool, error) {
	return q.store.Remove(ctx, id)
}

// RetryFailed requeues failed or review jobs. With no ids it retries all.
func (q *QueueService) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	return q.store.RetryFailed(ctx, ids...)
}

// ClearCompleted removes completed jobs and returns how many were deleted.
func (q *QueueService) ClearCompleted(ctx context.Context) (int64, error) {
	return q.store.ClearCompleted(ctx)
}

// ClearFailed removes failed jobs and returns how many were deleted.
func (q *QueueService) ClearFailed(ctx context.Context) (int64, error) {
	return q.store.ClearFailed(ctx)
}

// Clear removes every job and returns how many were deleted.
func (q *QueueService) Clear(ctx context.Context) (int64, error) {
	return q.store.Clear(ctx)
}

// Health aggregates queue counts into the wire shape.
func (q *QueueService) Health(ctx context.Context) (HealthResponse, error) {
	summary, err := q.store.Health(ctx)
	if err != nil {
		return HealthResponse{}, err
	}
	return HealthResponse{
		Healthy:    summary.Failed == 0 && summary.Review == 0,
		Total:      summary.Total,
		Pending:    summary.Pending,
		Processing: summary.Processing,
		Failed:     summary.Failed,
		Review:     summary.Review,
		Completed:  summary.Completed,
	}, nil
}
