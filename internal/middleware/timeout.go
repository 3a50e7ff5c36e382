package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type TimeoutConfig struct {
	Duration time.Duration
}

func DefaultTimeoutConfig() TimeoutConfig {
	// Must comfortably exceed the upstream model timeout so the analyzer
	// can still serve its fallback on a slow upstream.
	return TimeoutConfig{Duration: 30 * time.Second}
}

// timeoutWriter serializes access to the response. Once the deadline reply
// has been sent, writes from the still-running handler goroutine are
// silently dropped instead of racing on the same connection.
type timeoutWriter struct {
	gin.ResponseWriter
	mu       sync.Mutex
	timedOut bool
}

func (w *timeoutWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return len(b), nil
	}
	return w.ResponseWriter.Write(b)
}

func (w *timeoutWriter) WriteString(s string) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return len(s), nil
	}
	return w.ResponseWriter.WriteString(s)
}

func (w *timeoutWriter) WriteHeader(code int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return
	}
	w.ResponseWriter.WriteHeader(code)
}

// deadlineExceeded sends the 504 unless the handler already responded, and
// blocks every write that arrives afterwards.
func (w *timeoutWriter) deadlineExceeded(traceID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timedOut {
		return
	}
	w.timedOut = true
	if w.ResponseWriter.Written() {
		return
	}

	body, err := json.Marshal(ErrorResponse{
		OK:      false,
		Error:   "request timeout",
		TraceID: traceID,
	})
	if err != nil {
		w.ResponseWriter.WriteHeader(http.StatusGatewayTimeout)
		return
	}
	w.ResponseWriter.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.ResponseWriter.WriteHeader(http.StatusGatewayTimeout)
	w.ResponseWriter.Write(body)
}

// Timeout bounds the whole request with a deadline on the request context.
func Timeout(config TimeoutConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), config.Duration)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)

		tw := &timeoutWriter{ResponseWriter: c.Writer}
		c.Writer = tw
		traceID := c.GetString(ContextRequestID)

		done := make(chan struct{})
		go func() {
			c.Next()
			close(done)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				tw.deadlineExceeded(traceID)
			}
		}
	}
}
