package compat

import (
	"fmt"

	"github.com/jufman/basiclogger"
)

// EventLogger is the part of *basiclogger.Logger the adapters need
type EventLogger interface {
	LogEvent(message string, level basiclogger.Level)
	Flush() error
}

var _ EventLogger = (*basiclogger.Logger)(nil)

// Builder creates gnet and fasthttp adapters sharing one logger.
// It can use an existing logger or load a new one from a settings file
type Builder struct {
	logger       *basiclogger.Logger
	settingsPath string
	err          error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger to use for the adapters.
// If this is set WithSettingsFile is ignored
func (b *Builder) WithLogger(l *basiclogger.Logger) *Builder {
	if l == nil {
		b.err = fmt.Errorf("basiclogger/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithSettingsFile sets the settings used to load a new logger.
// An empty path means LogSettings.json next to the executable
func (b *Builder) WithSettingsFile(path string) *Builder {
	b.settingsPath = path
	return b
}

// getLogger resolves the logger to be used, loading one if necessary
func (b *Builder) getLogger() (*basiclogger.Logger, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	l := basiclogger.New()
	if err := l.Load(b.settingsPath); err != nil {
		return nil, err
	}

	// Cache the new logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// GetLogger returns the underlying logger, loading it if needed
func (b *Builder) GetLogger() (*basiclogger.Logger, error) {
	return b.getLogger()
}
