package bookshelf

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger logs messages
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})

	WithFields(fields LoggerFields) Logger
	// DebugEnabled is false when Debug messages would be dropped
	DebugEnabled() bool
}

// LoggerFields is a wrapper over a map of key,value pairs to associate with the log
type LoggerFields map[string]interface{}

// DefaultLogger handles the logging in the bookshelf library
type DefaultLogger struct {
	logger *logrus.Logger
	fields logrus.Fields
}

// NewLogger returns a logger that writes messages at or above the named level (ie, "Debug", "info", "warn") to out.
// If out is nil, messages go to stderr.
func NewLogger(level string, out io.Writer) (*DefaultLogger, error) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	if out == nil {
		out = os.Stderr
	}

	logger := logrus.New()
	logger.SetLevel(parsed)
	logger.SetOutput(out)

	// configure the formatter
	logger.SetFormatter(&logrus.TextFormatter{
		DisableLevelTruncation: true,
	})

	return &DefaultLogger{logger: logger}, nil
}

func (l *DefaultLogger) entry() *logrus.Entry {
	entry := logrus.NewEntry(l.logger)
	// if there are fields
	if l.fields != nil {
		entry = entry.WithFields(l.fields)
	}
	return entry
}

// Debug should be used for any logging that would be useful for debugging
func (l *DefaultLogger) Debug(args ...interface{}) {
	l.entry().Debug(args...)
}

// Info should be used for any logging that doesn't necessarily need attention but is nice to see by default
func (l *DefaultLogger) Info(args ...interface{}) {
	l.entry().Info(args...)
}

// Warn should be used for logging that needs attention
func (l *DefaultLogger) Warn(args ...interface{}) {
	l.entry().Warn(args...)
}

// Error should be used for failures the server could not recover from on its own
func (l *DefaultLogger) Error(args ...interface{}) {
	l.entry().Error(args...)
}

// WithFields adds the provided fields to the Log
func (l *DefaultLogger) WithFields(fields LoggerFields) Logger {
	// build up the logrus fields, keeping the ones we already have
	logrusFields := logrus.Fields{}
	for key, value := range l.fields {
		logrusFields[key] = value
	}
	for key, value := range fields {
		logrusFields[key] = value
	}
	return &DefaultLogger{logger: l.logger, fields: logrusFields}
}

// DebugEnabled reports whether the logger writes Debug messages
func (l *DefaultLogger) DebugEnabled() bool {
	return l.logger.Level >= logrus.DebugLevel
}

// discardLogger is used when a server is built without a logger
func discardLogger() Logger {
	logger, _ := NewLogger("panic", io.Discard)
	return logger
}
