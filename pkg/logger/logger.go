package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger keeps the printf-style API used across the services on top of a
// structured logrus entry.
type Logger struct {
	entry *logrus.Entry
}

func New() *Logger {
	return NewWithWriter(os.Stdout)
}

func NewWithWriter(w io.Writer) *Logger {
	base := logrus.New()
	base.SetOutput(w)
	base.SetFormatter(&logrus.JSONFormatter{})
	base.SetLevel(logrus.InfoLevel)
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		base.SetLevel(level)
	}
	return &Logger{entry: logrus.NewEntry(base)}
}

// With returns a child logger that stamps every line with key=value.
func (l *Logger) With(key string, value interface{}) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debug(format string, v ...interface{}) {
	l.entry.Debugf(format, v...)
}

func (l *Logger) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

func (l *Logger) Warn(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

func (l *Logger) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}
