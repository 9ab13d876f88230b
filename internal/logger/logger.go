// Package logger wraps zerolog for envpeek's diagnostics.
//
// Diagnostics always go to stderr so that stdout carries nothing but the
// report line.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Logger is a thin wrapper around zerolog.Logger
type Logger struct {
	zerolog.Logger
}

// New returns a console logger writing to w. Warnings and errors are always
// emitted; debug enables everything down to debug level.
// Colour is used only when w is a terminal.
func New(w io.Writer, debug bool) *Logger {
	level := zerolog.WarnLevel
	if debug {
		level = zerolog.DebugLevel
	}

	console := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !isTerminal(w),
		TimeFormat: "15:04:05",
	}

	logger := zerolog.New(console).
		Level(level).
		With().
		Timestamp().
		Logger()

	return &Logger{logger}
}

// Nop returns a logger that discards everything
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// With returns a child logger carrying an extra string field
func (l *Logger) With(key, value string) *Logger {
	return &Logger{l.Logger.With().Str(key, value).Logger()}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
