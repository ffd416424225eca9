package logger

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// TestLogger is a Logger implementation for tests that captures all
// messages instead of writing them anywhere.
type TestLogger struct {
	mu       sync.Mutex
	messages []LogMessage
	fields   map[string]interface{}
	zerolog  *zerolog.Logger
}

// LogMessage represents a captured log message
type LogMessage struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

// NewTestLogger creates a new capturing test logger
func NewTestLogger() *TestLogger {
	nop := zerolog.Nop()
	return &TestLogger{
		messages: make([]LogMessage, 0),
		fields:   make(map[string]interface{}),
		zerolog:  &nop,
	}
}

// Messages returns a copy of all captured messages
func (l *TestLogger) Messages() []LogMessage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]LogMessage, len(l.messages))
	copy(out, l.messages)
	return out
}

// HasMessage reports whether a message at the given level containing
// substr was logged.
func (l *TestLogger) HasMessage(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, m := range l.messages {
		if m.Level == level && strings.Contains(m.Message, substr) {
			return true
		}
	}
	return false
}

func (l *TestLogger) log(level, msg string, fields map[string]interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	l.messages = append(l.messages, LogMessage{
		Level:   level,
		Message: msg,
		Fields:  merged,
	})
}

func (l *TestLogger) Debug(msg string) { l.log("DEBUG", msg, nil) }
func (l *TestLogger) Info(msg string)  { l.log("INFO", msg, nil) }
func (l *TestLogger) Warn(msg string)  { l.log("WARN", msg, nil) }
func (l *TestLogger) Error(msg string) { l.log("ERROR", msg, nil) }
func (l *TestLogger) Fatal(msg string) { l.log("FATAL", msg, nil) }

func (l *TestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	l.log("DEBUG", msg, fields)
}

func (l *TestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	l.log("INFO", msg, fields)
}

func (l *TestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	l.log("WARN", msg, fields)
}

func (l *TestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	l.log("ERROR", msg, fields)
}

// WithField returns a logger that attaches the field to every message
func (l *TestLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a logger that attaches the fields to every message.
// The returned logger shares the captured message list with its parent.
func (l *TestLogger) WithFields(fields map[string]interface{}) Logger {
	l.mu.Lock()
	defer l.mu.Unlock()

	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return &sharedTestLogger{parent: l, fields: merged}
}

// WithError attaches the error as a field
func (l *TestLogger) WithError(err error) Logger {
	if err == nil {
		return l
	}
	return l.WithField("error", err.Error())
}

func (l *TestLogger) GetZerolog() *zerolog.Logger {
	return l.zerolog
}

// sharedTestLogger forwards to the parent TestLogger so captured
// messages stay in one place regardless of WithFields chaining.
type sharedTestLogger struct {
	parent *TestLogger
	fields map[string]interface{}
}

func (s *sharedTestLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(s.fields)+len(fields))
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	s.parent.log(level, msg, merged)
}

func (s *sharedTestLogger) Debug(msg string) { s.log("DEBUG", msg, nil) }
func (s *sharedTestLogger) Info(msg string)  { s.log("INFO", msg, nil) }
func (s *sharedTestLogger) Warn(msg string)  { s.log("WARN", msg, nil) }
func (s *sharedTestLogger) Error(msg string) { s.log("ERROR", msg, nil) }
func (s *sharedTestLogger) Fatal(msg string) { s.log("FATAL", msg, nil) }

func (s *sharedTestLogger) DebugWithFields(msg string, fields map[string]interface{}) {
	s.log("DEBUG", msg, fields)
}

func (s *sharedTestLogger) InfoWithFields(msg string, fields map[string]interface{}) {
	s.log("INFO", msg, fields)
}

func (s *sharedTestLogger) WarnWithFields(msg string, fields map[string]interface{}) {
	s.log("WARN", msg, fields)
}

func (s *sharedTestLogger) ErrorWithFields(msg string, fields map[string]interface{}) {
	s.log("ERROR", msg, fields)
}

func (s *sharedTestLogger) WithField(key string, value interface{}) Logger {
	return s.WithFields(map[string]interface{}{key: value})
}

func (s *sharedTestLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(s.fields)+len(fields))
	for k, v := range s.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &sharedTestLogger{parent: s.parent, fields: merged}
}

func (s *sharedTestLogger) WithError(err error) Logger {
	if err == nil {
		return s
	}
	return s.WithField("error", err.Error())
}

func (s *sharedTestLogger) GetZerolog() *zerolog.Logger {
	return s.parent.zerolog
}
