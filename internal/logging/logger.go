package logging

import (
	"io"
	"time"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/multi"
	"github.com/apex/log/handlers/text"
)

// Logger provides optional verbose logging and lightweight timing helpers.
// The zero value discards everything.
type Logger struct {
	entry   log.Interface
	Verbose bool
}

// New logs human-readable lines to writer.
func New(writer io.Writer, verbose bool) Logger {
	return fromHandler(text.New(writer), verbose)
}

// NewWithFile logs text to writer and JSON records to file.
func NewWithFile(writer, file io.Writer, verbose bool) Logger {
	return fromHandler(multi.New(text.New(writer), json.New(file)), verbose)
}

func fromHandler(handler log.Handler, verbose bool) Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return Logger{
		entry:   &log.Logger{Handler: handler, Level: level},
		Verbose: verbose,
	}
}

// WithFields returns a Logger that attaches fields to every record.
func (l Logger) WithFields(fields log.Fields) Logger {
	if l.entry == nil {
		return l
	}
	return Logger{entry: l.entry.WithFields(fields), Verbose: l.Verbose}
}

func (l Logger) Infof(format string, args ...any) {
	if l.entry == nil {
		return
	}
	l.entry.Infof(format, args...)
}

func (l Logger) Warnf(format string, args ...any) {
	if l.entry == nil {
		return
	}
	l.entry.Warnf(format, args...)
}

func (l Logger) Verbosef(format string, args ...any) {
	if !l.Verbose || l.entry == nil {
		return
	}
	l.entry.Debugf(format, args...)
}

// Measure returns a stop function that logs the elapsed time when called.
func (l Logger) Measure(label string) func() {
	if !l.Verbose {
		return func() {}
	}
	start := time.Now()
	return func() {
		elapsed := time.Since(start).Round(time.Millisecond)
		l.Verbosef("%s took %s", label, elapsed)
	}
}
