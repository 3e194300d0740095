package basiclogger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const errPrefix = "basiclogger: "

// Sentinel errors
var (
	ErrSettingsNotFound = errors.New("basiclogger: settings file not found")
	ErrNotLoaded        = errors.New("basiclogger: logger not loaded")
)

// fmtErrorf wrapper
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, errPrefix) {
		format = errPrefix + format
	}
	return fmt.Errorf(format, args...)
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return errors.Join(err1, err2)
}

// combineConfigErrors folds several settings errors into one numbered error
func combineConfigErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	if len(errs) == 1 {
		return errs[0]
	}

	var sb strings.Builder
	sb.WriteString(errPrefix + "multiple settings errors:")
	for i, err := range errs {
		fmt.Fprintf(&sb, "\n  %d. %s", i+1, strings.TrimPrefix(err.Error(), errPrefix))
	}
	return errors.New(sb.String())
}

// parseKeyValue splits a "key=value" string
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// executableDir returns the directory of the running binary, falling back to the working directory
func executableDir() string {
	if exe, err := os.Executable(); err == nil {
		return filepath.Dir(exe)
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

// executableName returns the binary name without extension
func executableName() string {
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, filepath.Ext(name))
}
