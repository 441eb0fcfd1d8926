package middleware

import (
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Logging returns a middleware that logs every HTTP request.
// It logs the method, path, status, user ID, and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		userID := GetUserID(r.Context()) // empty if pre-auth
		duration := time.Since(start).Milliseconds()
		status := ww.Status()

		switch {
		case status >= http.StatusInternalServerError:
			slog.Error("HTTP error",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"user_id", userID,
				"duration_ms", duration,
			)
		case status >= http.StatusBadRequest:
			slog.Warn("HTTP error",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"user_id", userID,
				"duration_ms", duration,
			)
		default:
			slog.Info("HTTP ok",
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"user_id", userID,
				"duration_ms", duration,
			)
		}
	})
}
