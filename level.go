package basiclogger

import (
	"encoding/json"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Level is the ordered severity of an event
type Level int

// Log level constants
const (
	LevelSystem   Level = -1 // Logger lifecycle and internal diagnostics
	LevelInfo     Level = 0
	LevelError    Level = 1
	LevelCritical Level = 2
)

// String returns the level name used in log lines and reports
func (l Level) String() string {
	switch l {
	case LevelSystem:
		return "System"
	case LevelInfo:
		return "Info"
	case LevelError:
		return "Error"
	case LevelCritical:
		return "Critical"
	default:
		return "Level(" + strconv.Itoa(int(l)) + ")"
	}
}

// Valid reports whether l is one of the defined levels
func (l Level) Valid() bool {
	return l >= LevelSystem && l <= LevelCritical
}

// ParseLevel converts a level name or its numeric value to a Level
func ParseLevel(levelStr string) (Level, error) {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	switch s {
	case "system":
		return LevelSystem, nil
	case "info":
		return LevelInfo, nil
	case "error":
		return LevelError, nil
	case "critical":
		return LevelCritical, nil
	}

	if n, err := strconv.Atoi(s); err == nil {
		if lvl := Level(n); lvl.Valid() {
			return lvl, nil
		}
	}
	return 0, fmtErrorf("invalid level: '%s' (use system, info, error, critical or -1..2)", levelStr)
}

// MarshalJSON writes the numeric value, matching existing settings files
func (l Level) MarshalJSON() ([]byte, error) {
	return strconv.AppendInt(nil, int64(l), 10), nil
}

// UnmarshalJSON accepts a number or a level name
func (l *Level) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*l = Level(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmtErrorf("level must be a number or a name: %s", string(data))
	}
	parsed, err := ParseLevel(s)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalYAML writes the numeric value
func (l Level) MarshalYAML() (any, error) {
	return int(l), nil
}

// UnmarshalYAML accepts a number or a level name
func (l *Level) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := ParseLevel(value.Value)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
