package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"briefly-backend/internal/models"
	"briefly-backend/internal/services"
)

type stubJobs struct {
	statuses []string
	runID    *uuid.UUID
	result   *models.DistillResult
	errMsg   string
}

func (s *stubJobs) UpdateStatus(_ context.Context, _ uuid.UUID, status string) error {
	s.statuses = append(s.statuses, status)
	return nil
}

func (s *stubJobs) Complete(_ context.Context, _ uuid.UUID, runID *uuid.UUID, result *models.DistillResult) error {
	s.statuses = append(s.statuses, models.JobCompleted)
	s.runID = runID
	s.result = result
	return nil
}

func (s *stubJobs) UpdateError(_ context.Context, _ uuid.UUID, errMsg string) error {
	s.statuses = append(s.statuses, models.JobFailed)
	s.errMsg = errMsg
	return nil
}

type stubRuns struct {
	created []*models.Run
	err     error
}

func (s *stubRuns) Create(_ context.Context, run *models.Run) error {
	if s.err != nil {
		return s.err
	}
	run.ID = uuid.New()
	s.created = append(s.created, run)
	return nil
}

type stubPublisher struct {
	mu       sync.Mutex
	sessions []string
	types    []string
}

func (s *stubPublisher) Publish(_ context.Context, sessionID string, msg models.WSMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sessionID)
	s.types = append(s.types, msg.Type)
}

func newTestPool(jobs JobStore, runs RunStore, pub services.Publisher) *Pool {
	pipeline := services.NewPipeline(services.OfflineBackend{}, services.NewMemoryCache(), zap.NewNop())
	return NewPool(nil, pipeline, jobs, runs, pub, 1, zap.NewNop())
}

func TestProcess_Success(t *testing.T) {
	jobs := &stubJobs{}
	runs := &stubRuns{}
	pub := &stubPublisher{}
	p := newTestPool(jobs, runs, pub)

	job := &models.Job{
		ID:        uuid.New(),
		SessionID: "session:a",
		Request:   models.DistillRequest{Text: "Alpha. Beta. Gamma. Delta.", Format: "paragraph", DetailLevel: "simplified"},
	}
	p.process(context.Background(), job)

	if len(jobs.statuses) != 2 || jobs.statuses[0] != models.JobProcessing || jobs.statuses[1] != models.JobCompleted {
		t.Fatalf("unexpected status transitions %v", jobs.statuses)
	}
	if jobs.result == nil || jobs.result.Summary != "Alpha. Delta." {
		t.Errorf("unexpected result %+v", jobs.result)
	}
	if len(runs.created) != 1 || jobs.runID == nil || *jobs.runID != runs.created[0].ID {
		t.Errorf("expected run stored and linked, runs=%d runID=%v", len(runs.created), jobs.runID)
	}

	expectedTypes := []string{models.WSTopicDetected, models.WSStatusUpdate, models.WSStatusUpdate, models.WSCompleted}
	if len(pub.types) != len(expectedTypes) {
		t.Fatalf("expected %v events, got %v", expectedTypes, pub.types)
	}
	for i, typ := range expectedTypes {
		if pub.types[i] != typ {
			t.Errorf("event %d = %s, want %s", i, pub.types[i], typ)
		}
		if pub.sessions[i] != "session:a" {
			t.Errorf("event %d sent to %s", i, pub.sessions[i])
		}
	}
}

func TestProcess_RunStoreFailureStillCompletes(t *testing.T) {
	jobs := &stubJobs{}
	p := newTestPool(jobs, &stubRuns{err: errors.New("db down")}, nil)

	p.process(context.Background(), &models.Job{ID: uuid.New(), Request: models.DistillRequest{Text: "Some notes."}})

	if jobs.result == nil {
		t.Fatal("expected job completed")
	}
	if jobs.runID != nil {
		t.Errorf("expected no run id, got %v", jobs.runID)
	}
}

func TestProcess_Failures(t *testing.T) {
	tests := []struct {
		name string
		req  models.DistillRequest
		code string
	}{
		{"blank text", models.DistillRequest{Text: "   "}, "VALIDATION_ERROR"},
		{"bad format", models.DistillRequest{Text: "x", Format: "haiku"}, "JOB_FAILED"},
		{"bad detail", models.DistillRequest{Text: "x", DetailLevel: "verbose"}, "JOB_FAILED"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jobs := &stubJobs{}
			pub := &stubPublisher{}
			p := newTestPool(jobs, nil, pub)

			p.process(context.Background(), &models.Job{ID: uuid.New(), SessionID: "s", Request: tc.req})

			if jobs.statuses[len(jobs.statuses)-1] != models.JobFailed || jobs.errMsg == "" {
				t.Errorf("expected failed job with message, got %v %q", jobs.statuses, jobs.errMsg)
			}
			if len(pub.types) == 0 || pub.types[len(pub.types)-1] != models.WSError {
				t.Errorf("expected error event, got %v", pub.types)
			}
		})
	}
}

func TestErrorCode(t *testing.T) {
	if got := errorCode(&services.InvalidInputError{Message: "x"}); got != "VALIDATION_ERROR" {
		t.Errorf("got %s", got)
	}
	if got := errorCode(errors.New("boom")); got != "JOB_FAILED" {
		t.Errorf("got %s", got)
	}
}
