package models

import (
	"time"

	"github.com/google/uuid"
)

type Job struct {
	ID           uuid.UUID      `json:"id"`
	SessionID    string         `json:"session_id"`
	Request      DistillRequest `json:"request"`
	Status       string         `json:"status"` // "pending" | "processing" | "completed" | "failed"
	RunID        *uuid.UUID     `json:"run_id,omitempty"`
	Result       *DistillResult `json:"result,omitempty"`
	ErrorMessage *string        `json:"error_message,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

const (
	JobPending    = "pending"
	JobProcessing = "processing"
	JobCompleted  = "completed"
	JobFailed     = "failed"
)

// WebSocket message types
type WSMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

const (
	WSTopicDetected = "topic_detected"
	WSStatusUpdate  = "status_update"
	WSCompleted     = "completed"
	WSError         = "error"
)

type TopicEvent struct {
	Topic Topic `json:"topic"`
}

type StatusUpdate struct {
	JobID    *uuid.UUID `json:"job_id,omitempty"`
	Step     int        `json:"step"`
	StepName string     `json:"step_name"`
}

type CompletedEvent struct {
	JobID  *uuid.UUID     `json:"job_id,omitempty"`
	RunID  *uuid.UUID     `json:"run_id,omitempty"`
	Result *DistillResult `json:"result"`
}

type ErrorEvent struct {
	JobID        uuid.UUID `json:"job_id"`
	ErrorCode    string    `json:"error_code"`
	ErrorMessage string    `json:"error_message"`
}

type APIError struct {
	Code      string            `json:"code"`
	Message   string            `json:"message"`
	Fields    map[string]string `json:"fields,omitempty"`
	RequestID string            `json:"request_id"`
}

type ErrorResponse struct {
	Error APIError `json:"error"`
}

type JobAcceptedResponse struct {
	JobID  uuid.UUID `json:"job_id"`
	Status string    `json:"status"`
}
