package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"briefly-backend/internal/models"
	"briefly-backend/internal/services"
)

const QueueName = "queue:distill"

const blockTimeout = 5 * time.Second

type Distiller interface {
	Run(ctx context.Context, text string, format models.SummaryFormat, detail models.DetailLevel, obs services.Observer) (*models.DistillResult, error)
}

type JobStore interface {
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
	Complete(ctx context.Context, id uuid.UUID, runID *uuid.UUID, result *models.DistillResult) error
	UpdateError(ctx context.Context, id uuid.UUID, errMsg string) error
}

type RunStore interface {
	Create(ctx context.Context, run *models.Run) error
}

// Pool runs queued distillation jobs. Jobs arrive on a Redis list; a SetNX
// lock keeps a job from running twice when several replicas share the queue.
type Pool struct {
	redis       *redis.Client
	pipeline    Distiller
	jobs        JobStore
	runs        RunStore
	publisher   services.Publisher
	workerCount int
	stopChan    chan struct{}
	done        chan struct{}
	logger      *zap.Logger
}

// NewPool wires a worker pool. runs and publisher may be nil.
func NewPool(
	redisClient *redis.Client,
	pipeline Distiller,
	jobs JobStore,
	runs RunStore,
	publisher services.Publisher,
	workerCount int,
	logger *zap.Logger,
) *Pool {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &Pool{
		redis:       redisClient,
		pipeline:    pipeline,
		jobs:        jobs,
		runs:        runs,
		publisher:   publisher,
		workerCount: workerCount,
		stopChan:    make(chan struct{}),
		done:        make(chan struct{}),
		logger:      logger,
	}
}

// Enqueue pushes a created job onto the distill queue.
func (p *Pool) Enqueue(ctx context.Context, job *models.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	return p.redis.RPush(ctx, QueueName, data).Err()
}

func (p *Pool) Start() {
	finished := make(chan struct{}, p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		go func(id int) {
			p.worker(id)
			finished <- struct{}{}
		}(i)
	}
	go func() {
		for i := 0; i < p.workerCount; i++ {
			<-finished
		}
		close(p.done)
	}()

	p.logger.Info("started worker pool", zap.Int("workers", p.workerCount), zap.String("queue", QueueName))
}

// Stop signals the workers and waits for in-flight jobs until ctx expires.
func (p *Pool) Stop(ctx context.Context) error {
	close(p.stopChan)
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Pool) worker(id int) {
	for {
		select {
		case <-p.stopChan:
			p.logger.Debug("worker shutting down", zap.Int("worker", id))
			return
		default:
		}

		ctx := context.Background()

		result, err := p.redis.BLPop(ctx, blockTimeout, QueueName).Result()
		if err != nil {
			if !errors.Is(err, redis.Nil) {
				p.logger.Warn("queue read failed", zap.Int("worker", id), zap.Error(err))
				time.Sleep(time.Second)
			}
			continue
		}
		if len(result) < 2 {
			continue
		}

		var job models.Job
		if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
			p.logger.Warn("failed to parse job", zap.Int("worker", id), zap.Error(err))
			continue
		}

		lockKey := fmt.Sprintf("job_lock:%s", job.ID.String())
		locked, err := p.redis.SetNX(ctx, lockKey, "1", 10*time.Minute).Result()
		if err != nil || !locked {
			continue
		}

		p.logger.Info("processing job", zap.Int("worker", id), zap.String("job_id", job.ID.String()))
		p.process(ctx, &job)

		p.redis.Del(ctx, lockKey)
	}
}

// process runs one job to completion and records the outcome.
func (p *Pool) process(ctx context.Context, job *models.Job) {
	if err := p.jobs.UpdateStatus(ctx, job.ID, models.JobProcessing); err != nil {
		p.logger.Warn("failed to mark job processing", zap.String("job_id", job.ID.String()), zap.Error(err))
	}

	format, err := models.ParseSummaryFormat(job.Request.Format)
	if err != nil {
		p.handleFailure(ctx, job, err)
		return
	}
	detail, err := models.ParseDetailLevel(job.Request.DetailLevel)
	if err != nil {
		p.handleFailure(ctx, job, err)
		return
	}

	jobID := job.ID
	obs := services.NewSessionObserver(p.publisher, job.SessionID, &jobID)
	result, err := p.pipeline.Run(ctx, job.Request.Text, format, detail, obs)
	if err != nil {
		p.handleFailure(ctx, job, err)
		return
	}

	p.handleSuccess(ctx, job, result)
}

func (p *Pool) handleSuccess(ctx context.Context, job *models.Job, result *models.DistillResult) {
	var runID *uuid.UUID
	if p.runs != nil {
		run := models.NewRun(job.SessionID, "text", job.Request.Text, result)
		if err := p.runs.Create(ctx, run); err != nil {
			p.logger.Warn("failed to store run", zap.String("job_id", job.ID.String()), zap.Error(err))
		} else {
			runID = &run.ID
		}
	}

	if err := p.jobs.Complete(ctx, job.ID, runID, result); err != nil {
		p.logger.Warn("failed to mark job completed", zap.String("job_id", job.ID.String()), zap.Error(err))
	}

	jobID := job.ID
	services.PublishCompleted(ctx, p.publisher, job.SessionID, &jobID, runID, result)
	p.logger.Info("job completed", zap.String("job_id", job.ID.String()), zap.String("topic", string(result.Topic)))
}

// handleFailure is final: the pipeline only fails on invalid input, which a
// retry cannot fix.
func (p *Pool) handleFailure(ctx context.Context, job *models.Job, err error) {
	errMsg := err.Error()
	p.logger.Warn("job failed", zap.String("job_id", job.ID.String()), zap.String("error", errMsg))

	if updateErr := p.jobs.UpdateError(ctx, job.ID, errMsg); updateErr != nil {
		p.logger.Warn("failed to record job error", zap.String("job_id", job.ID.String()), zap.Error(updateErr))
	}

	if p.publisher != nil && job.SessionID != "" {
		p.publisher.Publish(ctx, job.SessionID, models.WSMessage{
			Type: models.WSError,
			Payload: models.ErrorEvent{
				JobID:        job.ID,
				ErrorCode:    errorCode(err),
				ErrorMessage: errMsg,
			},
		})
	}
}

func errorCode(err error) string {
	var invalid *services.InvalidInputError
	if errors.As(err, &invalid) {
		return "VALIDATION_ERROR"
	}
	return "JOB_FAILED"
}
