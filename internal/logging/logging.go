// Package logging builds the zerolog logger shared by all components. The
// TUI owns the terminal, so logs go to a file rather than stderr.
package logging

import (
	"io"

	"github.com/rs/zerolog"
)

// New returns a logger writing to w at the given level. Unknown levels fall
// back to info.
func New(w io.Writer, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}
