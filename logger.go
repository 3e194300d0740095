// Package basiclogger buffers log events in memory, flushes them to a daily log file
// and emails batched alert-level events to a recipient list
package basiclogger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/jufman/basiclogger/email"
	"github.com/jufman/basiclogger/formatter"
)

// Logger owns the disk and email buffers, the two drain loops and the observers.
// Create one with New or NewBuilder and share it by pointer
type Logger struct {
	settings atomic.Pointer[Settings]
	state    State
	initMu   sync.Mutex // Serializes Load, Apply and Unload

	baseDir       string
	flushInterval time.Duration
	now           func() time.Time
	stderrDiag    bool
	instanceID    string

	diskBuf  buffer[Event]
	emailBuf buffer[Event]

	fileFlush     *drainer[Event]
	alertDispatch atomic.Pointer[drainer[Event]] // Replaced on every Load

	// Guarded by the file flush drainer
	formatter  *formatter.Formatter
	lineFormat string

	observers      observerRegistry
	senderOverride email.Sender
	sender         email.Sender // Set before Loaded is stored
}

// New creates an unloaded logger rooted at the executable's directory.
// Events are buffered from the start and written once Load runs the flush loop
func New() *Logger {
	l := &Logger{
		baseDir:       executableDir(),
		flushInterval: DefaultFlushInterval,
		now:           time.Now,
		instanceID:    uuid.NewString(),
		formatter:     formatter.New(),
		lineFormat:    formatter.FormatTxt,
	}
	l.state.LoadedAt.Store(time.Time{})
	l.fileFlush = newDrainer("file flush", l.flushInterval, &l.diskBuf, l.writeEvents)
	return l
}

// InstanceID returns the unique id of this logger, shown in alert reports
func (l *Logger) InstanceID() string {
	return l.instanceID
}

// Load reads the settings file and starts the flush and alert loops.
// An empty path means LogSettings.json in the base directory.
// On failure a System event is written synchronously and no loop is started
func (l *Logger) Load(settingsPath string) error {
	return l.load(settingsPath, nil)
}

// load reads settings, applies overrides and starts the logger
func (l *Logger) load(settingsPath string, overrides []string) error {
	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.state.Loaded.Load() {
		return fmtErrorf("logger already loaded")
	}
	l.state.Unloaded.Store(false)

	l.Logf(LevelSystem, "Logger started: %s (instance %s)", executableName(), l.instanceID)

	if settingsPath == "" {
		settingsPath = filepath.Join(l.baseDir, DefaultSettingsFile)
	}

	s, err := LoadSettings(settingsPath)
	if err == nil && len(overrides) > 0 {
		err = s.ApplyOverride(overrides...)
	}
	if err != nil {
		if errors.Is(err, ErrSettingsNotFound) {
			l.Logf(LevelSystem, "Settings file not found: %s", settingsPath)
		} else {
			l.Logf(LevelSystem, "Failed to load settings from %s: %v", settingsPath, err)
		}
		l.internalLog("error - %v\n", err)
		_ = l.fileFlush.drainOnce()
		return err
	}

	return l.apply(s)
}

// Apply starts the logger with settings built in code instead of read from a file
func (l *Logger) Apply(s *Settings) error {
	if s == nil {
		return fmtErrorf("settings cannot be nil")
	}
	if err := s.Validate(); err != nil {
		return fmtErrorf("invalid settings: %w", err)
	}

	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.state.Loaded.Load() {
		return fmtErrorf("logger already loaded")
	}
	l.state.Unloaded.Store(false)

	l.Logf(LevelSystem, "Logger started: %s (instance %s)", executableName(), l.instanceID)
	return l.apply(s.Clone())
}

// apply installs validated settings and starts the loops. Caller holds initMu
func (l *Logger) apply(s *Settings) error {
	l.settings.Store(s)
	l.sender = l.newSender(s)
	alerts := newDrainer("alert dispatch", s.EmailInterval(), &l.emailBuf, l.dispatchAlerts)
	l.alertDispatch.Store(alerts)

	l.observers.load(func(o Observer, err error) {
		l.internalLog("error - observer %T failed to load: %v\n", o, err)
		l.Logf(LevelSystem, "Observer %T failed to load and is disabled: %v", o, err)
	})

	l.state.LoadedAt.Store(l.now())
	l.state.Loaded.Store(true)

	l.fileFlush.start()
	if s.EmailEnabled {
		alerts.start()
	}
	return nil
}

// Unload stops both loops, waits for a running iteration, then flushes the email
// buffer and the disk buffer once more. Events logged afterwards are dropped,
// including the report of a failed final disk write, which only reaches stderr.
// Safe to call multiple times
func (l *Logger) Unload() error {
	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.state.Unloaded.Load() {
		return nil
	}

	l.Logf(LevelSystem, "Logger stopped: %s (instance %s)", executableName(), l.instanceID)

	alerts := l.alertDispatch.Load()
	l.fileFlush.stop()
	if alerts != nil {
		alerts.stop()
	}

	var finalErr error
	if alerts != nil {
		// A failed send adds a System event that the disk flush below still writes
		finalErr = combineErrors(finalErr, alerts.drainOnce())
	}

	// Nothing is buffered after this point
	l.state.Unloaded.Store(true)
	l.state.Loaded.Store(false)
	finalErr = combineErrors(finalErr, l.fileFlush.drainOnce())

	finalErr = combineErrors(finalErr, l.observers.unload())
	return finalErr
}

// LogEvent records a message. It never fails and never blocks on I/O:
// the event goes to the disk buffer, to the email buffer when it meets the
// alert threshold, and to every active observer in registration order
func (l *Logger) LogEvent(message string, level Level) {
	if l.state.Unloaded.Load() {
		l.state.DroppedEvents.Add(1)
		return
	}

	ev := Event{Time: l.now(), Level: level, Message: message}
	l.diskBuf.push(ev)
	l.state.TotalEvents.Add(1)

	if s := l.settings.Load(); s != nil && s.EmailEnabled && level >= s.AlertThreshold {
		l.emailBuf.push(ev)
		l.state.AlertsQueued.Add(1)
	}

	l.observers.notify(ev)
}

// Log renders args into the message; composite values are dumped inline
func (l *Logger) Log(level Level, args ...any) {
	l.LogEvent(formatter.FormatArgs(args...), level)
}

// Logf formats the message with fmt.Sprintf
func (l *Logger) Logf(level Level, format string, args ...any) {
	l.LogEvent(fmt.Sprintf(format, args...), level)
}

// Info logs at Info level
func (l *Logger) Info(args ...any) {
	l.Log(LevelInfo, args...)
}

// Error logs at Error level
func (l *Logger) Error(args ...any) {
	l.Log(LevelError, args...)
}

// Critical logs at Critical level
func (l *Logger) Critical(args ...any) {
	l.Log(LevelCritical, args...)
}

// System logs at System level
func (l *Logger) System(args ...any) {
	l.Log(LevelSystem, args...)
}

// Flush writes the disk buffer synchronously
func (l *Logger) Flush() error {
	return l.fileFlush.drainOnce()
}

// DispatchAlerts sends pending alert events now instead of waiting for the next interval
func (l *Logger) DispatchAlerts() error {
	if !l.state.Loaded.Load() {
		return ErrNotLoaded
	}
	alerts := l.alertDispatch.Load()
	if alerts == nil {
		return ErrNotLoaded
	}
	return alerts.drainOnce()
}

// Register adds an observer. Observers must be registered before Load
func (l *Logger) Register(o Observer) error {
	if o == nil {
		return fmtErrorf("observer cannot be nil")
	}
	l.initMu.Lock()
	defer l.initMu.Unlock()

	if l.state.Loaded.Load() {
		return fmtErrorf("cannot register observer %T after Load", o)
	}
	l.observers.add(o)
	return nil
}

// Settings returns a copy of the active settings, or nil before Load
func (l *Logger) Settings() *Settings {
	s := l.settings.Load()
	if s == nil {
		return nil
	}
	return s.Clone()
}

// internalLog writes diagnostics about the logger itself to stderr when enabled
func (l *Logger) internalLog(format string, args ...any) {
	if !l.stderrDiag {
		return
	}
	if !strings.HasPrefix(format, errPrefix) {
		format = errPrefix + format
	}
	fmt.Fprintf(os.Stderr, format, args...)
}
