package compat

import (
	"fmt"
	"os"

	"github.com/panjf2000/gnet/v2/pkg/logging"

	"github.com/jufman/basiclogger"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter feeds gnet's logging.Logger calls into a basiclogger instance
type GnetAdapter struct {
	logger       EventLogger
	prefix       string
	debug        bool             // Debugf is dropped unless enabled
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger EventLogger, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		prefix: "gnet: ",
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithGnetPrefix sets the text prepended to every gnet message
func WithGnetPrefix(prefix string) GnetOption {
	return func(a *GnetAdapter) {
		a.prefix = prefix
	}
}

// WithGnetDebug records Debugf calls as Info events
func WithGnetDebug(enabled bool) GnetOption {
	return func(a *GnetAdapter) {
		a.debug = enabled
	}
}

// Debugf logs at Info level when debug output is enabled
func (a *GnetAdapter) Debugf(format string, args ...any) {
	if !a.debug {
		return
	}
	a.log(basiclogger.LevelInfo, format, args...)
}

// Infof logs at Info level
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.log(basiclogger.LevelInfo, format, args...)
}

// Warnf logs at Info level, the logger has no warning severity
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.log(basiclogger.LevelInfo, format, args...)
}

// Errorf logs at Error level
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.log(basiclogger.LevelError, format, args...)
}

// Fatalf logs at Critical level, flushes the log file and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.LogEvent(a.prefix+msg, basiclogger.LevelCritical)

	// Ensure log is on disk before exit
	_ = a.logger.Flush()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

func (a *GnetAdapter) log(level basiclogger.Level, format string, args ...any) {
	a.logger.LogEvent(a.prefix+fmt.Sprintf(format, args...), level)
}
