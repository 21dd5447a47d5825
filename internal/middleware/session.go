package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const SessionIDKey contextKey = "session_id"

const maxSessionIDLen = 128

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// Sessions resolves who a request belongs to. A valid bearer token wins, then
// the X-Session-ID header, then the client address. The JWT secret is
// optional; without one bearer tokens are rejected.
type Sessions struct {
	Secret []byte
}

func NewSessions(jwtSecret string) *Sessions {
	return &Sessions{Secret: []byte(jwtSecret)}
}

// GenerateToken signs a session token for the given subject.
func (s *Sessions) GenerateToken(subject string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": subject,
		"exp":     time.Now().Add(ttl).Unix(),
		"iat":     time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.Secret)
}

// ParseToken returns the session id carried by a token.
func (s *Sessions) ParseToken(tokenStr string) (string, error) {
	if len(s.Secret) == 0 {
		return "", ErrInvalidToken
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.Secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}
	subject, _ := claims["user_id"].(string)
	if subject == "" {
		return "", ErrInvalidToken
	}
	return "user:" + subject, nil
}

// Resolve works out the session for a request. The websocket endpoint cannot
// set headers from a browser, so "token" and "session_id" query parameters are
// honored as well.
func (s *Sessions) Resolve(r *http.Request) (string, error) {
	tokenStr := ""
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", ErrInvalidToken
		}
		tokenStr = parts[1]
	} else {
		tokenStr = r.URL.Query().Get("token")
	}
	if tokenStr != "" {
		return s.ParseToken(tokenStr)
	}

	sessionID := strings.TrimSpace(r.Header.Get("X-Session-ID"))
	if sessionID == "" {
		sessionID = strings.TrimSpace(r.URL.Query().Get("session_id"))
	}
	if sessionID != "" && len(sessionID) <= maxSessionIDLen {
		return "session:" + sessionID, nil
	}

	return "ip:" + clientIP(r), nil
}

// Middleware attaches the resolved session id to the request context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := s.Resolve(r)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				writeError(w, http.StatusUnauthorized, "TOKEN_EXPIRED", "Token has expired", r)
			} else {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token", r)
			}
			return
		}

		ctx := context.WithValue(r.Context(), SessionIDKey, sessionID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetSessionID extracts the session id from request context.
func GetSessionID(ctx context.Context) string {
	id, _ := ctx.Value(SessionIDKey).(string)
	return id
}

// WithSessionID is used by tests and background callers that bypass the middleware.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeError(w http.ResponseWriter, status int, code, message string, r *http.Request) {
	requestID := r.Header.Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]interface{}{
			"code":       code,
			"message":    message,
			"request_id": requestID,
		},
	})
}
