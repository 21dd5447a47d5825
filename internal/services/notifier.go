package services

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"briefly-backend/internal/models"
)

// Publisher delivers status messages to the clients of one session.
type Publisher interface {
	Publish(ctx context.Context, sessionID string, msg models.WSMessage)
}

func SessionChannel(sessionID string) string {
	return "session_updates:" + sessionID
}

// RedisPublisher fans updates out through Redis pub/sub so any replica holding
// the session's websocket can deliver them.
type RedisPublisher struct {
	redis  *redis.Client
	logger *zap.Logger
}

func NewRedisPublisher(client *redis.Client, logger *zap.Logger) *RedisPublisher {
	return &RedisPublisher{redis: client, logger: logger}
}

func (p *RedisPublisher) Publish(ctx context.Context, sessionID string, msg models.WSMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		p.logger.Warn("failed to encode status update", zap.Error(err))
		return
	}
	if err := p.redis.Publish(ctx, SessionChannel(sessionID), string(data)).Err(); err != nil {
		p.logger.Warn("status publish failed", zap.String("session", sessionID), zap.Error(err))
	}
}

// SessionObserver forwards pipeline progress for one session to a Publisher.
type SessionObserver struct {
	publisher Publisher
	sessionID string
	jobID     *uuid.UUID
}

func NewSessionObserver(publisher Publisher, sessionID string, jobID *uuid.UUID) Observer {
	if publisher == nil || sessionID == "" {
		return nopObserver{}
	}
	return &SessionObserver{publisher: publisher, sessionID: sessionID, jobID: jobID}
}

func (o *SessionObserver) TopicDetected(ctx context.Context, topic models.Topic) {
	o.publisher.Publish(ctx, o.sessionID, models.WSMessage{
		Type:    models.WSTopicDetected,
		Payload: models.TopicEvent{Topic: topic},
	})
}

func (o *SessionObserver) StageStarted(ctx context.Context, step int, name string) {
	o.publisher.Publish(ctx, o.sessionID, models.WSMessage{
		Type: models.WSStatusUpdate,
		Payload: models.StatusUpdate{
			JobID:    o.jobID,
			Step:     step,
			StepName: name,
		},
	})
}

// PublishCompleted reports a finished run to the session's clients.
func PublishCompleted(ctx context.Context, publisher Publisher, sessionID string, jobID, runID *uuid.UUID, result *models.DistillResult) {
	if publisher == nil || sessionID == "" {
		return
	}
	publisher.Publish(ctx, sessionID, models.WSMessage{
		Type:    models.WSCompleted,
		Payload: models.CompletedEvent{JobID: jobID, RunID: runID, Result: result},
	})
}
