// Package logger makes the charmbracelet logger used everywhere.
package logger

import (
	"io"

	"github.com/charmbracelet/log"
)

// New returns a logger writing to w. Debug turns on debug level
// output. A nil w throws everything away.
func New(debug bool, w io.Writer) *log.Logger {
	if w == nil {
		w = io.Discard
	}
	level := log.InfoLevel
	if debug {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
}

// OrDiscard lets engine code accept a nil logger.
func OrDiscard(lg *log.Logger) *log.Logger {
	if lg == nil {
		return New(false, nil)
	}
	return lg
}
