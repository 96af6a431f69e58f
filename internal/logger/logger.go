// Package logger provides the configured zerolog loggers.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	zpkgerrors "github.com/rs/zerolog/pkgerrors"
)

type stackTracer interface{ StackTrace() pkgerrors.StackTrace }

var installOnce sync.Once

// installStacks makes .Stack() work for any error: pkg/errors stacks are
// marshalled as-is and plain errors get one attached at the log site.
func installStacks() {
	installOnce.Do(func() {
		zerolog.ErrorStackMarshaler = func(err error) interface{} {
			if _, ok := err.(stackTracer); !ok {
				err = pkgerrors.WithStack(err)
			}
			return zpkgerrors.MarshalStack(err)
		}
	})
}

// Option configures New.
type Option func(*options)

type options struct {
	out   io.Writer
	level zerolog.Level
}

// WithWriter redirects output. Defaults to stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.out = w }
}

// WithLevel sets the minimum level. Defaults to info.
func WithLevel(l zerolog.Level) Option {
	return func(o *options) { o.level = l }
}

// New returns a JSON logger tagged with the service name, for servers.
// Call sites should use .Stack() on error events to include stacks.
func New(service string, opts ...Option) zerolog.Logger {
	installStacks()
	o := options{out: os.Stdout, level: zerolog.InfoLevel}
	for _, opt := range opts {
		opt(&o)
	}
	return zerolog.New(o.out).
		Level(o.level).
		With().
		Str("service", service).
		Timestamp().
		Logger()
}

// NewConsole returns a human-readable logger for interactive commands.
func NewConsole(w io.Writer, level zerolog.Level) zerolog.Logger {
	installStacks()
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "2006-01-02 15:04:05",
		NoColor:    true,
	}).Level(level).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	l, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || l == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return l
}
