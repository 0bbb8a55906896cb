// Package definition holds the default, concrete implementations a caller
// gets if it doesn't supply its own — mirroring the teacher's
// pkg/mcast/definition package.
package definition

import (
	"os"

	"github.com/sirupsen/logrus"
)

// DefaultLogger adapts a logrus.Logger to types.Logger, in the shape of the
// teacher's definition.DefaultLogger (there, a stdlib *log.Logger wrapped
// the same way): a calldepth-free façade with a runtime debug toggle,
// rather than scattering logrus calls — and the package-level loggers
// prometheus/common/log wraps — across every component.
type DefaultLogger struct {
	entry *logrus.Logger
	debug bool
}

// NewDefaultLogger returns a logger writing to stderr with debug-level
// output suppressed until ToggleDebug(true).
func NewDefaultLogger() *DefaultLogger {
	l := logrus.New()
	l.Out = os.Stderr
	l.Formatter = &logrus.TextFormatter{FullTimestamp: true}
	l.Level = logrus.DebugLevel
	return &DefaultLogger{entry: l}
}

func (l *DefaultLogger) Info(v ...interface{})                  { l.entry.Info(v...) }
func (l *DefaultLogger) Infof(format string, v ...interface{})  { l.entry.Infof(format, v...) }
func (l *DefaultLogger) Warn(v ...interface{})                  { l.entry.Warn(v...) }
func (l *DefaultLogger) Warnf(format string, v ...interface{})  { l.entry.Warnf(format, v...) }
func (l *DefaultLogger) Error(v ...interface{})                 { l.entry.Error(v...) }
func (l *DefaultLogger) Errorf(format string, v ...interface{}) { l.entry.Errorf(format, v...) }
func (l *DefaultLogger) Fatal(v ...interface{})                 { l.entry.Fatal(v...) }
func (l *DefaultLogger) Fatalf(format string, v ...interface{}) { l.entry.Fatalf(format, v...) }

func (l *DefaultLogger) Debug(v ...interface{}) {
	if l.debug {
		l.entry.Debug(v...)
	}
}

func (l *DefaultLogger) Debugf(format string, v ...interface{}) {
	if l.debug {
		l.entry.Debugf(format, v...)
	}
}

// ToggleDebug switches debug-level logging on or off and returns the new
// state, mirroring the teacher's DefaultLogger.ToggleDebug.
func (l *DefaultLogger) ToggleDebug(value bool) bool {
	l.debug = value
	return l.debug
}
