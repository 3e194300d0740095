package basiclogger

import (
	"time"

	"github.com/jufman/basiclogger/email"
)

// Builder provides a fluent API for constructing and loading a logger.
// Errors are accumulated and returned by Build
type Builder struct {
	l            *Logger
	settingsPath string
	settings     *Settings
	overrides    []string
	load         bool
	err          error
}

// NewBuilder creates a builder around a fresh logger
func NewBuilder() *Builder {
	return &Builder{
		l: New(),
	}
}

// Build returns the logger, loaded if a settings file or settings value was given
func (b *Builder) Build() (*Logger, error) {
	if b.err != nil {
		return nil, b.err
	}
	if !b.load {
		return b.l, nil
	}

	if b.settings == nil {
		// Load reports a failure in the log file before returning it
		if err := b.l.load(b.settingsPath, b.overrides); err != nil {
			return nil, err
		}
		return b.l, nil
	}

	s := b.settings.Clone()
	if len(b.overrides) > 0 {
		if err := s.ApplyOverride(b.overrides...); err != nil {
			return nil, err
		}
	}
	if err := b.l.Apply(s); err != nil {
		return nil, err
	}
	return b.l, nil
}

// BaseDir sets the folder holding LogSettings.json and the Logs directory
func (b *Builder) BaseDir(dir string) *Builder {
	if dir == "" {
		b.err = combineErrors(b.err, fmtErrorf("base directory cannot be empty"))
		return b
	}
	b.l.baseDir = dir
	return b
}

// FlushInterval sets the file flush period
func (b *Builder) FlushInterval(d time.Duration) *Builder {
	if d < minDrainInterval {
		b.err = combineErrors(b.err, fmtErrorf("flush interval must be at least %v: %v", minDrainInterval, d))
		return b
	}
	b.l.flushInterval = d
	b.l.fileFlush = newDrainer("file flush", d, &b.l.diskBuf, b.l.writeEvents)
	return b
}

// Observer registers an observer
func (b *Builder) Observer(o Observer) *Builder {
	if o == nil {
		b.err = combineErrors(b.err, fmtErrorf("observer cannot be nil"))
		return b
	}
	b.l.observers.add(o)
	return b
}

// Sender replaces the transport chosen by the settings
func (b *Builder) Sender(s email.Sender) *Builder {
	b.l.senderOverride = s
	return b
}

// InternalErrorsToStderr mirrors the logger's own failures to stderr
func (b *Builder) InternalErrorsToStderr(enabled bool) *Builder {
	b.l.stderrDiag = enabled
	return b
}

// Clock sets the time source used for event timestamps
func (b *Builder) Clock(now func() time.Time) *Builder {
	if now != nil {
		b.l.now = now
	}
	return b
}

// SettingsFile loads the logger from path when Build is called
func (b *Builder) SettingsFile(path string) *Builder {
	b.settingsPath = path
	b.load = true
	return b
}

// Settings loads the logger with s when Build is called
func (b *Builder) Settings(s *Settings) *Builder {
	if s == nil {
		b.err = combineErrors(b.err, fmtErrorf("settings cannot be nil"))
		return b
	}
	b.settings = s
	b.load = true
	return b
}

// Override applies "key=value" overrides on top of the loaded settings
func (b *Builder) Override(overrides ...string) *Builder {
	b.overrides = append(b.overrides, overrides...)
	b.load = true
	return b
}
