package logger

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger wraps logrus for structured logging
type Logger struct {
	*logrus.Entry
}

// New creates a new logger
func New() *Logger {
	return &Logger{
		Entry: logrus.NewEntry(logrus.StandardLogger()),
	}
}

// FromGinContext creates a logger carrying the request's principal and
// request id, when present.
func FromGinContext(c *gin.Context) *Logger {
	l := New()

	if email, ok := c.Get("email"); ok {
		l.Entry = l.Entry.WithField("user", email)
	}
	if requestID, ok := c.Get("request_id"); ok {
		l.Entry = l.Entry.WithField("request_id", requestID)
	}

	return l
}

// WithField adds a field to the logger
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return &Logger{
		Entry: l.Entry.WithField(key, value),
	}
}

// WithFields adds multiple fields to the logger
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	return &Logger{
		Entry: l.Entry.WithFields(fields),
	}
}
