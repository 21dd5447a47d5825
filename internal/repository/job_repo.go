package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"briefly-backend/internal/models"
)

const jobTTL = 24 * time.Hour

// JobRepo keeps async job state in Redis next to the queue that feeds it.
type JobRepo struct {
	redis *redis.Client
}

func NewJobRepo(client *redis.Client) *JobRepo {
	return &JobRepo{redis: client}
}

func jobKey(id uuid.UUID) string {
	return "job:" + id.String()
}

func (r *JobRepo) Create(ctx context.Context, j *models.Job) error {
	j.ID = uuid.New()
	j.Status = models.JobPending
	j.CreatedAt = time.Now().UTC()
	return r.save(ctx, j)
}

func (r *JobRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error) {
	data, err := r.redis.Get(ctx, jobKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var j models.Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	return &j, nil
}

func (r *JobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.update(ctx, id, func(j *models.Job) {
		j.Status = status
		if status == models.JobCompleted || status == models.JobFailed {
			now := time.Now().UTC()
			j.CompletedAt = &now
		}
	})
}

func (r *JobRepo) Complete(ctx context.Context, id uuid.UUID, runID *uuid.UUID, result *models.DistillResult) error {
	return r.update(ctx, id, func(j *models.Job) {
		now := time.Now().UTC()
		j.Status = models.JobCompleted
		j.RunID = runID
		j.Result = result
		j.CompletedAt = &now
	})
}

func (r *JobRepo) UpdateError(ctx context.Context, id uuid.UUID, errMsg string) error {
	return r.update(ctx, id, func(j *models.Job) {
		now := time.Now().UTC()
		j.Status = models.JobFailed
		j.ErrorMessage = &errMsg
		j.CompletedAt = &now
	})
}

func (r *JobRepo) update(ctx context.Context, id uuid.UUID, mutate func(*models.Job)) error {
	j, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	mutate(j)
	return r.save(ctx, j)
}

func (r *JobRepo) save(ctx context.Context, j *models.Job) error {
	data, err := json.Marshal(j)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	return r.redis.Set(ctx, jobKey(j.ID), data, jobTTL).Err()
}
