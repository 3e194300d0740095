package basiclogger

import (
	"bytes"
	"os"
	"path/filepath"
	"time"
)

// LogFilePath returns the file that events logged at t are appended to
func (l *Logger) LogFilePath(t time.Time) string {
	return filepath.Join(l.logRoot(), logsDirName, t.Format(dayFolderLayout), logFileName)
}

// logRoot returns the folder holding the Logs directory
func (l *Logger) logRoot() string {
	if s := l.settings.Load(); s != nil && s.LogFolderOverride != "" {
		return s.LogFolderOverride
	}
	return l.baseDir
}

// writeEvents appends a drained batch to the day files, one line per event in batch order.
// Runs under the file flush drainer lock, which also guards the formatter
func (l *Logger) writeEvents(events []Event) error {
	format := defaultLogFormat
	if s := l.settings.Load(); s != nil {
		format = s.LogFormat
	}
	if format != l.lineFormat {
		l.formatter.Type(format)
		l.lineFormat = format
	}

	var (
		writeErr error
		failed   int
	)
	// Consecutive events sharing a day are written with a single append
	for start := 0; start < len(events); {
		path := l.LogFilePath(events[start].Time)
		end := start + 1
		for end < len(events) && l.LogFilePath(events[end].Time) == path {
			end++
		}
		if err := l.appendLines(path, events[start:end]); err != nil {
			writeErr = combineErrors(writeErr, err)
			failed += end - start
		}
		start = end
	}

	if writeErr != nil {
		l.state.DroppedEvents.Add(uint64(failed))
		l.internalLog("error - %v\n", writeErr)
		// Report once until a write succeeds again
		if !l.state.WriteFailureLogged.Swap(true) {
			l.Logf(LevelSystem, "Failed to write %d events to the log file: %v", failed, writeErr)
		}
		return writeErr
	}

	l.state.WriteFailureLogged.Store(false)
	return nil
}

// appendLines formats events and appends them to path, creating the day folder if needed
func (l *Logger) appendLines(path string, events []Event) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmtErrorf("failed to create log directory '%s': %w", filepath.Dir(path), err)
	}

	var buf bytes.Buffer
	for _, ev := range events {
		buf.Write(l.formatter.Format(ev.Time, ev.Level.String(), ev.Message))
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmtErrorf("failed to open log file '%s': %w", path, err)
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return fmtErrorf("failed to write log file '%s': %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmtErrorf("failed to close log file '%s': %w", path, err)
	}

	l.state.LinesWritten.Add(uint64(len(events)))
	return nil
}
