package collaborators

import "github.com/sirupsen/logrus"

// NoopLogger discards everything. It is the default the core falls back
// to when no Logger is supplied, so callers never need a nil check.
type NoopLogger struct{}

func (NoopLogger) Debugf(string, ...any) {}
func (NoopLogger) Infof(string, ...any)  {}
func (NoopLogger) Warnf(string, ...any)  {}
func (NoopLogger) Errorf(string, ...any) {}

// logrusLogger adapts *logrus.Entry to Logger, pre-populated with a
// "component" field so that interleaved C2/C4/C6 output stays attributable.
type logrusLogger struct {
	entry *logrus.Entry
}

// NewLogrusLogger returns a Logger backed by logrus, tagged with
// component for every line it emits.
func NewLogrusLogger(base *logrus.Logger, component string) Logger {
	if base == nil {
		base = logrus.StandardLogger()
	}
	return &logrusLogger{entry: base.WithField("component", component)}
}

func (l *logrusLogger) Debugf(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *logrusLogger) Infof(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *logrusLogger) Warnf(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *logrusLogger) Errorf(format string, args ...any) { l.entry.Errorf(format, args...) }

// With returns a child logger carrying an extra field. It is not part of
// the Logger interface, so code holding a Logger cannot call it; the only
// field every line carries is "component".
func (l *logrusLogger) With(key string, value any) Logger {
	return &logrusLogger{entry: l.entry.WithField(key, value)}
}
