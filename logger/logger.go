package logger

import (
	"io"
	"log/slog"
	"os"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// Trace logs msg at Debug level only when the logger was built with
	// Options.Trace set. It is the process-wide "trace enabled" bit from
	// the --trace CLI flag, read write-once at startup.
	Trace(msg string, args ...any)
}

type Options struct {
	Buffer io.Writer
	Level  Level
	Type   Type
	// Trace gates Trace() calls. Intended to be set once at process
	// startup from a CLI flag and never mutated afterward.
	Trace bool
}

var DefaultLogger = New(Options{Buffer: os.Stdout, Level: DefaultLevel, Type: TypeText})

type logger struct {
	*slog.Logger
	trace bool
}

func New(opts Options) Logger {
	var handler slog.Handler
	switch opts.Type {
	case TypeJSON:
		handler = slog.NewJSONHandler(opts.Buffer, &slog.HandlerOptions{
			Level: levels[opts.Level],
		})
	case TypeText:
		fallthrough
	default:
		handler = slog.NewTextHandler(opts.Buffer, &slog.HandlerOptions{
			Level: levels[opts.Level],
		})
	}
	return &logger{
		Logger: slog.New(handler),
		trace:  opts.Trace,
	}
}

func (l *logger) Trace(msg string, args ...any) {
	if l.trace {
		l.Debug(msg, args...)
	}
}
