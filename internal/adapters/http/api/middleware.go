package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/matchpredictor/pkg/metrics"
)

// MetricsMiddleware records request counts and latency for route. Failed
// requests are also counted by the error code the handler wrote.
func MetricsMiddleware(next http.HandlerFunc, route string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &recorder{ResponseWriter: w, status: http.StatusOK}

		next(rec, r)

		ms := float64(time.Since(start).Microseconds()) / 1000
		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(route, r.Method, status)
		metrics.RecordHTTPRequestDuration(route, r.Method, status, ms)

		if rec.status < http.StatusBadRequest {
			return
		}
		code := rec.code
		if code == "" {
			// Written outside writeError, e.g. http.NotFound for a wrong method.
			code = codeForStatus(rec.status)
		}
		metrics.RecordErrorByEndpoint(route, r.Method, code)
		metrics.RecordErrorByType(code, severity(rec.status))
	}
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusNotFound:
		return "not_found"
	case http.StatusServiceUnavailable:
		return "not_ready"
	}
	if status >= http.StatusInternalServerError {
		return "internal_error"
	}
	return "bad_request"
}

// severity is high when the model or server is at fault.
func severity(status int) string {
	if status >= http.StatusInternalServerError {
		return "high"
	}
	return "medium"
}

// recorder remembers the status and API error code of a response.
type recorder struct {
	http.ResponseWriter
	status int
	code   string
}

func (rw *recorder) WriteHeader(status int) {
	rw.status = status
	rw.ResponseWriter.WriteHeader(status)
}
