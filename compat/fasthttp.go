package compat

import (
	"fmt"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/jufman/basiclogger"
)

var _ fasthttp.Logger = (*FastHTTPAdapter)(nil)

// FastHTTPAdapter feeds fasthttp's Printf logging into a basiclogger instance
type FastHTTPAdapter struct {
	logger        EventLogger
	prefix        string
	defaultLevel  basiclogger.Level
	levelDetector func(string) (basiclogger.Level, bool) // Detects a level from message content
}

// NewFastHTTPAdapter creates a new fasthttp-compatible logger adapter
func NewFastHTTPAdapter(logger EventLogger, opts ...FastHTTPOption) *FastHTTPAdapter {
	adapter := &FastHTTPAdapter{
		logger:        logger,
		prefix:        "fasthttp: ",
		defaultLevel:  basiclogger.LevelInfo,
		levelDetector: DetectLevel,
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FastHTTPOption allows customizing adapter behavior
type FastHTTPOption func(*FastHTTPAdapter)

// WithDefaultLevel sets the level used when no level is detected
func WithDefaultLevel(level basiclogger.Level) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.defaultLevel = level
	}
}

// WithLevelDetector sets a custom function to detect the level from message content
func WithLevelDetector(detector func(string) (basiclogger.Level, bool)) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.levelDetector = detector
	}
}

// WithFastHTTPPrefix sets the text prepended to every fasthttp message
func WithFastHTTPPrefix(prefix string) FastHTTPOption {
	return func(a *FastHTTPAdapter) {
		a.prefix = prefix
	}
}

// Printf implements fasthttp's Logger interface
func (a *FastHTTPAdapter) Printf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)

	level := a.defaultLevel
	if a.levelDetector != nil {
		if detected, ok := a.levelDetector(msg); ok {
			level = detected
		}
	}

	a.logger.LogEvent(a.prefix+msg, level)
}

// DetectLevel guesses a level from message content.
// Returns false when the message carries no severity hint
func DetectLevel(msg string) (basiclogger.Level, bool) {
	msgLower := strings.ToLower(msg)

	// Check for critical indicators
	if strings.Contains(msgLower, "fatal") ||
		strings.Contains(msgLower, "panic") ||
		strings.Contains(msgLower, "critical") {
		return basiclogger.LevelCritical, true
	}

	// Check for error indicators
	if strings.Contains(msgLower, "error") ||
		strings.Contains(msgLower, "failed") {
		return basiclogger.LevelError, true
	}

	return basiclogger.LevelInfo, false
}
