package middleware

import (
	"net/http"
	"sync"
)

// SingleRun allows at most one in-flight pipeline run per session. A second
// concurrent run for the same session is rejected with 409 instead of queued.
type SingleRun struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewSingleRun() *SingleRun {
	return &SingleRun{active: make(map[string]struct{})}
}

// TryAcquire claims the session. The returned release must be called when the
// run ends.
func (s *SingleRun) TryAcquire(sessionID string) (func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, busy := s.active[sessionID]; busy {
		return nil, false
	}
	s.active[sessionID] = struct{}{}
	return func() {
		s.mu.Lock()
		delete(s.active, sessionID)
		s.mu.Unlock()
	}, true
}

func (s *SingleRun) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := GetSessionID(r.Context())
		if sessionID == "" {
			sessionID = "ip:" + clientIP(r)
		}

		release, ok := s.TryAcquire(sessionID)
		if !ok {
			writeError(w, http.StatusConflict, "RUN_IN_PROGRESS", "A run is already in progress for this session", r)
			return
		}
		defer release()
		next.ServeHTTP(w, r)
	})
}
