// Package logging provides the configured zerolog logger used by kcal.
package logging

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

// DefaultLevel keeps the CLI quiet unless something degraded.
const DefaultLevel = "warn"

var configure sync.Once

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

// New returns a JSON logger writing to w at the named level. Errors logged
// with .Stack() carry a pkg/errors stack trace, attached on the spot when the
// error has none.
func New(w io.Writer, level string) (zerolog.Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	configure.Do(func() {
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			if _, ok := err.(stackTracer); !ok {
				err = pkgerrors.WithStack(err)
			}
			return zpkgerrors.MarshalStack(err)
		}
	})
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// NewConsole is New with human readable output, for a terminal.
func NewConsole(w io.Writer, level string, color bool) (zerolog.Logger, error) {
	return New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !color,
		TimeFormat: time.Kitchen,
	}, level)
}

// ParseLevel maps a level name to a zerolog level. The empty string is the
// default level.
func ParseLevel(level string) (zerolog.Level, error) {
	if strings.TrimSpace(level) == "" {
		level = DefaultLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: unknown level %q", level)
	}
	return lvl, nil
}
