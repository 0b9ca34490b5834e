package logger

import "log/slog"

// Level selects the minimum severity a Logger emits.
type Level int

const (
	InfoLevel Level = iota
	DebugLevel
	WarnLevel
	ErrorLevel
	DefaultLevel Level = InfoLevel
)

var levels = map[Level]slog.Level{
	DebugLevel: slog.LevelDebug,
	InfoLevel:  slog.LevelInfo,
	WarnLevel:  slog.LevelWarn,
	ErrorLevel: slog.LevelError,
}

// Type selects the slog.Handler a Logger writes through.
type Type int

const (
	TypeText Type = iota
	TypeJSON
)
