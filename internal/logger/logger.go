package logger

import (
	"fmt"
	"io"
	"os"
	"strings"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged
type Options struct {
	Level  string
	File   string
	Color  bool
	Output io.Writer // defaults to stderr, never stdout
}

// ParseLevel accepts the usual names plus "silent"/"none", which discard everything.
func ParseLevel(s string) (logrus.Level, bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "silent", "none":
		return logrus.PanicLevel, true, nil
	case "":
		return logrus.WarnLevel, false, nil
	}

	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.WarnLevel, false, fmt.Errorf("invalid log level: %s", s)
	}
	return level, false, nil
}

// New builds a logger for one invocation. Every entry carries a run_id.
func New(opts Options) (*logrus.Entry, error) {
	level, silent, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&formatter.Formatter{
		NoColors:        !opts.Color,
		TimestampFormat: "2006-01-02 15:04:05.000",
		HideKeys:        false,
		FieldsOrder:     []string{"run_id", "component"},
	})

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	switch {
	case silent:
		l.SetOutput(io.Discard)
	case opts.File != "":
		l.SetOutput(io.MultiWriter(out, &lumberjack.Logger{
			Filename:   opts.File,
			LocalTime:  true,
			Compress:   true,
			MaxSize:    10,
			MaxAge:     7,
			MaxBackups: 3,
		}))
	default:
		l.SetOutput(out)
	}

	return l.WithField("run_id", uuid.NewString()), nil
}

// Discard returns a logger that writes nowhere.
func Discard() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}
