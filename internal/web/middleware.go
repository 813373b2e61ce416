package web

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Zachkp/kussetech/internal/analytics"
)

const (
	RequestIDHeader = "X-Request-ID"

	requestIDKey = "request_id"
	loggerKey    = "logger"
)

// RequestID tags every request with an id, echoed in X-Request-ID, and logs
// the request once it completes. A well-formed incoming id is kept.
func RequestID(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Header(RequestIDHeader, id)

		entry := logger.WithField("request_id", id)
		c.Set(requestIDKey, id)
		c.Set(loggerKey, entry)

		start := time.Now()
		c.Next()

		entry.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		}).Info("request")
	}
}

func requestLogger(c *gin.Context) logrus.FieldLogger {
	if v, ok := c.Get(loggerKey); ok {
		if l, ok := v.(logrus.FieldLogger); ok {
			return l
		}
	}
	return logrus.StandardLogger()
}

// TrackRoute sends a named event before the handler runs. The tracker is
// called on its own goroutine; a slow or panicking tracker never affects the
// response.
func TrackRoute(tracker analytics.Tracker, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		event := analytics.NewEvent(name, analytics.Properties{
			"route":       c.FullPath(),
			"method":      c.Request.Method,
			"user_agent":  c.GetHeader("User-Agent"),
			"remote_addr": c.ClientIP(),
			"referrer":    c.GetHeader("Referer"),
		})
		ctx := context.WithoutCancel(c.Request.Context())
		logger := requestLogger(c)

		go func() {
			defer func() {
				if r := recover(); r != nil {
					logger.WithField("event", name).Warnf("Event tracking panicked: %v", r)
				}
			}()
			tracker.Track(ctx, event)
		}()
		c.Next()
	}
}

var untrackedPrefixes = []string{
	"/static/",
	"/images/",
	"/favicon",
	"/offline",
	"/health",
	"/api/",
	"/robots.txt",
	"/sitemap.xml",
}

// TrackVisitors records page views, skipping assets and honoring Do Not
// Track.
func TrackVisitors(visits VisitRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.GetHeader("DNT") == "1" || untracked(path) {
			c.Next()
			return
		}
		visits.RecordVisit(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"), path)
		c.Next()
	}
}

func untracked(path string) bool {
	for _, prefix := range untrackedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
