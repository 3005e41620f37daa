package api

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Recorder receives request and domain measurements.
type Recorder interface {
	RecordRequest(ctx context.Context, method, route string, status int, elapsed time.Duration)
	ArticleCreated(ctx context.Context)
	CommentCreated(ctx context.Context, reply bool)
}

type nopRecorder struct{}

func (nopRecorder) RecordRequest(context.Context, string, string, int, time.Duration) {}
func (nopRecorder) ArticleCreated(context.Context)                                 {}
func (nopRecorder) CommentCreated(context.Context, bool)                           {}

const loggerKey = "logger"

// RequestLogger stores a request scoped logger on the context and writes one
// line per completed request. Server errors carry the underlying cause.
func RequestLogger(logger *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqLogger := logger.With("method", c.Request.Method, "path", c.Request.URL.Path)
		c.Set(loggerKey, reqLogger)

		c.Next()

		fields := []interface{}{
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "error", c.Errors.String())
		}

		if c.Writer.Status() >= 500 {
			reqLogger.Errorw("request failed", fields...)
			return
		}
		reqLogger.Infow("request completed", fields...)
	}
}

// RequestMetrics reports every request to the recorder under its route
// pattern so ids do not explode label cardinality.
func RequestMetrics(recorder Recorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.RecordRequest(c.Request.Context(), c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}

func loggerFrom(c *gin.Context, fallback *zap.SugaredLogger) *zap.SugaredLogger {
	if l, ok := c.Get(loggerKey); ok {
		if logger, ok := l.(*zap.SugaredLogger); ok {
			return logger
		}
	}
	return fallback
}
