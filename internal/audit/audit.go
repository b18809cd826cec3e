// Package audit is the observability sink for the tenancy core. Events are
// fire-and-forget: recording must never block or fail a write path.
package audit

import (
	"github.com/sirupsen/logrus"
)

// Fields carries structured event attributes.
type Fields map[string]interface{}

// Recorder accepts structured domain events.
type Recorder interface {
	Record(event string, fields Fields)
}

// LogRecorder emits events as structured logrus entries.
type LogRecorder struct {
	entry *logrus.Entry
}

// NewLogRecorder creates a recorder backed by the standard logger.
func NewLogRecorder() *LogRecorder {
	return &LogRecorder{entry: logrus.NewEntry(logrus.StandardLogger())}
}

// Record logs the event with its fields at info level.
func (r *LogRecorder) Record(event string, fields Fields) {
	r.entry.WithFields(logrus.Fields(fields)).Info(event)
}

// NopRecorder discards all events.
type NopRecorder struct{}

// Record does nothing.
func (NopRecorder) Record(string, Fields) {}
