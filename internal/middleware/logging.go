package middleware

import (
	"net/http"
	"time"

	"quadramall/apienvelope/internal/logging"
)

// Logging attaches a request-scoped zap logger and writes one access log line per request.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := logging.WithRequest(GetRequestID(r.Context()), r.Method, r.URL.Path)
		ctx := logging.WithContext(r.Context(), logger)

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		start := time.Now()
		next.ServeHTTP(wrapped, r.WithContext(ctx))

		logger.Infow("HTTP request completed",
			"status_code", wrapped.statusCode,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", r.RemoteAddr,
		)
	})
}
