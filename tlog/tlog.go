// Package tlog implements the server's structured logging surface.
// LogMessage is a localisation-ready record (an id plus positional
// arguments) rather than a pre-formatted string, so the same value that
// lands in the server's own console/file log is also what a connected
// session would forward to a client for local rendering — the
// client-side rendering itself is out of scope here.
package tlog

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"traintastic/errs"
)

// LogMessage is a structured, localisation-ready log record: an
// identifier plus the arguments it takes, leaving rendering to the
// reader (this package's console logger, or a future client).
type LogMessage struct {
	ID   string
	Args []any
}

// Logger is the server-wide logging surface, backed by logrus.
type Logger struct {
	entry *logrus.Logger
}

// New constructs a Logger writing to stderr with a timestamped text
// format, mirroring the teacher pack's own logrus setup.
func New() *Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return &Logger{entry: l}
}

// SetLevel parses and applies a textual log level ("debug", "info", ...).
func (l *Logger) SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.entry.SetLevel(lvl)
	return nil
}

// SetOutput redirects where log lines are written.
func (l *Logger) SetOutput(w io.Writer) {
	l.entry.SetOutput(w)
}

// WithObject returns a logger scoped to a given object id, the
// correlation field every hardware/world log line carries.
func (l *Logger) WithObject(id string) *logrus.Entry {
	return l.entry.WithField("object", id)
}

// Message logs msg at info level, rendering its id and args as
// structured fields rather than interpolating them into the text —
// a human reads the id; a future client renderer gets the raw args.
func (l *Logger) Message(msg LogMessage) {
	l.entry.WithField("args", msg.Args).Info(msg.ID)
}

// Error logs err at error level. If err carries an errs.Code, it is
// attached as a field so log lines remain greppable by code even
// though the message text is free-form.
func (l *Logger) Error(op string, err error) {
	l.entry.WithFields(logrus.Fields{
		"op":   op,
		"code": errs.Of(err),
	}).Error(err)
}

// Debugf logs a formatted debug-level line, used sparingly for the
// kernel/transport chatter that's noisy at info level.
func (l *Logger) Debugf(format string, args ...any) {
	l.entry.Debugf(format, args...)
}
