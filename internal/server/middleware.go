package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"

	"github.com/desertthunder/reelx/internal/shared"
)

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// RequestLogger logs one line per request with method, path, status and duration.
func RequestLogger(logger *log.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w}

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}
			logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"bytes", rec.bytes,
				"duration", time.Since(start),
			)
		})
	}
}

// recoveryLogger adapts a charmbracelet logger to [handlers.RecoveryHandlerLogger].
type recoveryLogger struct{ *log.Logger }

func (l recoveryLogger) Println(v ...any) {
	l.Error("panic recovered", "error", fmt.Sprint(v...))
}

// Recovery turns handler panics into 500 responses.
func Recovery(logger *log.Logger) Middleware {
	return handlers.RecoveryHandler(handlers.RecoveryLogger(recoveryLogger{logger}))
}

// CORS allows cross-origin requests from origins. An empty list allows none and adds no CORS headers.
func CORS(origins []string) Middleware {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
}

// Compress gzips responses for clients that accept it.
func Compress() Middleware {
	return handlers.CompressHandler
}

// SessionChecker reports whether a user is logged in.
type SessionChecker interface {
	Authenticated() bool
}

// RequireSession rejects requests with 401 when no user is logged in.
func RequireSession(sessions SessionChecker) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !sessions.Authenticated() {
				writeError(w, http.StatusUnauthorized, shared.ErrNotAuthenticated)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
