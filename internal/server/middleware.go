package server

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/fatih/color"
)

// responseWriter captures the status code. It passes Flush and Hijack through
// so the event stream and the websocket upgrade keep working behind it.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (rw *responseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("hijacking not supported")
	}
	return hj.Hijack()
}

// loggingMiddleware logs each request with a status-coloured line and records
// request metrics.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		logRequest(r.Method, r.URL.Path, wrapped.statusCode, duration)
		if s.Metrics != nil {
			s.Metrics.Requests.WithLabelValues(r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
			s.Metrics.Duration.Observe(duration.Seconds())
		}
	})
}

func logRequest(method, path string, status int, duration time.Duration) {
	c := color.New(color.FgGreen)
	switch {
	case status >= 500:
		c = color.New(color.FgRed)
	case status >= 400:
		c = color.New(color.FgYellow)
	}
	c.Printf("[HTTP] %s %s - %d - %v\n", method, path, status, duration)
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
