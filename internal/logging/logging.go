// Package logging builds the gommon loggers shared by the server and the
// orchestrators.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/labstack/gommon/log"
)

// textHeader replaces gommon's JSON header for terminal output.
const textHeader = "${time_rfc3339} ${level} ${prefix}"

// Options configures loggers built by New.
type Options struct {
	Level  log.Lvl // zero means INFO
	JSON   bool
	Output io.Writer // default os.Stderr
}

// ParseLevel maps a level name to a gommon level.
func ParseLevel(s string) (log.Lvl, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return log.DEBUG, nil
	case "", "info":
		return log.INFO, nil
	case "warn", "warning":
		return log.WARN, nil
	case "error":
		return log.ERROR, nil
	case "off":
		return log.OFF, nil
	default:
		return log.INFO, fmt.Errorf("unknown log level %q", s)
	}
}

// New returns a logger with the given prefix.
func New(prefix string, opts Options) *log.Logger {
	l := log.New(prefix)
	if opts.Level == 0 {
		opts.Level = log.INFO
	}
	l.SetLevel(opts.Level)
	if opts.Output != nil {
		l.SetOutput(opts.Output)
	} else {
		l.SetOutput(os.Stderr)
	}
	if !opts.JSON {
		l.SetHeader(textHeader)
	}
	return l
}

// Factory hands out component loggers sharing one configuration.
type Factory struct {
	opts Options
}

// NewFactory creates a Factory.
func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts}
}

// Named returns a logger prefixed "hanmadi.<component>".
func (f *Factory) Named(component string) *log.Logger {
	return New("hanmadi."+component, f.opts)
}

// Options returns the factory configuration.
func (f *Factory) Options() Options {
	return f.opts
}
