package logger

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the minimal structured logging surface the scan pipeline needs.
type Logger interface {
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string, err error)
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// SimpleLogger writes through the standard library; used as a fallback and
// in tests where log output does not matter.
type SimpleLogger struct {
	fields map[string]interface{}
}

// NewSimple creates a stdlib-backed logger.
func NewSimple() Logger {
	return &SimpleLogger{fields: make(map[string]interface{})}
}

func (l *SimpleLogger) Debug(msg string) {
	// SimpleLogger has no level filtering; debug is dropped.
}

func (l *SimpleLogger) Info(msg string) {
	if len(l.fields) > 0 {
		log.Printf("INFO: %s %v", msg, l.fields)
	} else {
		log.Printf("INFO: %s", msg)
	}
}

func (l *SimpleLogger) Warn(msg string) {
	if len(l.fields) > 0 {
		log.Printf("WARN: %s %v", msg, l.fields)
	} else {
		log.Printf("WARN: %s", msg)
	}
}

func (l *SimpleLogger) Error(msg string, err error) {
	if len(l.fields) > 0 {
		fmt.Fprintf(os.Stderr, "ERROR: %s: %v %v\n", msg, err, l.fields)
	} else {
		fmt.Fprintf(os.Stderr, "ERROR: %s: %v\n", msg, err)
	}
}

func (l *SimpleLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

func (l *SimpleLogger) WithFields(fields map[string]interface{}) Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &SimpleLogger{fields: merged}
}

// LogrusLogger is the production logger.
type LogrusLogger struct {
	logger *logrus.Logger
	entry  *logrus.Entry
}

// New creates a logrus-backed logger at the given level. Unknown levels
// fall back to info.
func New(level string) Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	if parsed, err := logrus.ParseLevel(level); err == nil {
		l.SetLevel(parsed)
	}
	return &LogrusLogger{logger: l, entry: logrus.NewEntry(l)}
}

func (l *LogrusLogger) Debug(msg string) {
	l.entry.Debug(msg)
}

func (l *LogrusLogger) Info(msg string) {
	l.entry.Info(msg)
}

func (l *LogrusLogger) Warn(msg string) {
	l.entry.Warn(msg)
}

func (l *LogrusLogger) Error(msg string, err error) {
	l.entry.WithError(err).Error(msg)
}

func (l *LogrusLogger) WithField(key string, value interface{}) Logger {
	return &LogrusLogger{logger: l.logger, entry: l.entry.WithField(key, value)}
}

func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{logger: l.logger, entry: l.entry.WithFields(fields)}
}
