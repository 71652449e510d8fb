package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

// LoggingMiddleware logs the details of each HTTP request
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(ww, r)
		slog.Info("HTTP Request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.statusCode,
			"duration", time.Since(start),
			"ip", r.RemoteAddr,
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Custom ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// SecurityHeadersMiddleware adds standard security headers
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:; script-src 'self'")
		next.ServeHTTP(w, r)
	})
}

const sessionName = "console-session"

type ctxKey int

const sessionIDKey ctxKey = iota

// SessionMiddleware makes sure every request carries a console session id,
// issuing a cookie on first visit.
func SessionMiddleware(store sessions.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				slog.Debug("Discarding unreadable session", "error", err)
			}
			id, ok := session.Values["sid"].(string)
			if !ok || id == "" {
				id = uuid.NewString()
				session.Values["sid"] = id
				if err := session.Save(r, w); err != nil {
					slog.Error("Failed to save session", "error", err)
				}
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionIDKey, id)))
		})
	}
}

// SessionID returns the console session id of the request.
func SessionID(r *http.Request) string {
	id, _ := r.Context().Value(sessionIDKey).(string)
	return id
}

// SubmitGuard rejects a submission while the same session still has the
// same action in flight.
type SubmitGuard struct {
	inflight sync.Map
}

func NewSubmitGuard() *SubmitGuard {
	return &SubmitGuard{}
}

func (g *SubmitGuard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := SessionID(r) + " " + r.URL.Path
		if _, busy := g.inflight.LoadOrStore(key, time.Now()); busy {
			slog.Warn("Submission already in progress", "session", SessionID(r), "path", r.URL.Path)
			http.Error(w, "A submission is already in progress. Please wait.", http.StatusTooManyRequests)
			return
		}
		defer g.inflight.Delete(key)
		next.ServeHTTP(w, r)
	})
}
