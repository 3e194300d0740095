// Package formatter renders events as log file lines and renders arbitrary values into message text
package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/jufman/basiclogger/sanitizer"
)

// DefaultTimestampFormat matches the day-first date and time used in log lines and reports
const DefaultTimestampFormat = "02/01/2006 15:04:05"

// Supported line formats
const (
	FormatTxt  = "txt"
	FormatJSON = "json"
)

// ValidFormat reports whether format is a supported line format
func ValidFormat(format string) bool {
	return format == FormatTxt || format == FormatJSON
}

// Formatter turns events into single lines. Not safe for concurrent use
type Formatter struct {
	sanitizer       *sanitizer.Sanitizer
	custom          bool // sanitizer supplied by the caller, keep it across Type changes
	format          string
	timestampFormat string
	buf             []byte
}

// New creates a txt formatter. An optional sanitizer replaces the format's default policy
func New(s ...*sanitizer.Sanitizer) *Formatter {
	f := &Formatter{
		timestampFormat: DefaultTimestampFormat,
		buf:             make([]byte, 0, 512),
	}
	if len(s) > 0 && s[0] != nil {
		f.sanitizer = s[0]
		f.custom = true
	}
	return f.Type(FormatTxt)
}

// Type sets the output format ("txt" or "json"); unknown values fall back to txt
func (f *Formatter) Type(format string) *Formatter {
	if !ValidFormat(format) {
		format = FormatTxt
	}
	f.format = format
	if !f.custom {
		policy := sanitizer.PolicyTxt
		if format == FormatJSON {
			policy = sanitizer.PolicyJSON
		}
		f.sanitizer = sanitizer.New().Policy(policy)
	}
	return f
}

// TimestampFormat sets the time layout
func (f *Formatter) TimestampFormat(layout string) *Formatter {
	if layout != "" {
		f.timestampFormat = layout
	}
	return f
}

// Format renders one event as a newline-terminated line.
// The returned slice is reused by the next call
func (f *Formatter) Format(timestamp time.Time, level string, message string) []byte {
	f.Reset()
	if f.format == FormatJSON {
		return f.formatJSON(timestamp, level, message)
	}
	return f.formatTxt(timestamp, level, message)
}

// Reset clears the formatter buffer for reuse
func (f *Formatter) Reset() {
	f.buf = f.buf[:0]
}

// formatTxt produces "<time> - LogLevel: <level>, <message>"
func (f *Formatter) formatTxt(timestamp time.Time, level string, message string) []byte {
	f.buf = timestamp.AppendFormat(f.buf, f.timestampFormat)
	f.buf = append(f.buf, " - LogLevel: "...)
	f.buf = append(f.buf, level...)
	f.buf = append(f.buf, ", "...)
	f.buf = append(f.buf, f.sanitizer.Sanitize(message)...)
	f.buf = append(f.buf, '\n')
	return f.buf
}

// formatJSON produces {"time":...,"level":...,"message":...}
func (f *Formatter) formatJSON(timestamp time.Time, level string, message string) []byte {
	f.buf = append(f.buf, `{"time":"`...)
	f.buf = timestamp.AppendFormat(f.buf, time.RFC3339Nano)
	f.buf = append(f.buf, `","level":`...)
	f.appendJSONString(level)
	f.buf = append(f.buf, `,"message":`...)
	f.appendJSONString(message)
	f.buf = append(f.buf, '}', '\n')
	return f.buf
}

// appendJSONString quotes s, escaping quotes and backslashes before the sanitizer handles controls
func (f *Formatter) appendJSONString(s string) {
	f.buf = append(f.buf, '"')
	if strings.ContainsAny(s, `"\`) {
		s = jsonQuoteEscaper.Replace(s)
	}
	f.buf = append(f.buf, f.sanitizer.Sanitize(s)...)
	f.buf = append(f.buf, '"')
}

var jsonQuoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// Compact single-line dumper for composite values
var dumper = &spew.ConfigState{
	MaxDepth:                10,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

// FormatArgs renders args as space-separated text. Composite values are dumped by go-spew
func FormatArgs(args ...any) string {
	buf := make([]byte, 0, 64)
	for i, arg := range args {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = appendValue(buf, arg)
	}
	return string(buf)
}

// appendValue converts a single value to its text representation
func appendValue(buf []byte, v any) []byte {
	switch val := v.(type) {
	case string:
		return append(buf, val...)
	case []byte:
		return append(buf, val...)
	case int:
		return strconv.AppendInt(buf, int64(val), 10)
	case int64:
		return strconv.AppendInt(buf, val, 10)
	case int32:
		return strconv.AppendInt(buf, int64(val), 10)
	case uint:
		return strconv.AppendUint(buf, uint64(val), 10)
	case uint64:
		return strconv.AppendUint(buf, val, 10)
	case float32:
		return strconv.AppendFloat(buf, float64(val), 'f', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, val, 'f', -1, 64)
	case bool:
		return strconv.AppendBool(buf, val)
	case nil:
		return append(buf, "nil"...)
	case time.Time:
		return val.AppendFormat(buf, DefaultTimestampFormat)
	case error:
		return append(buf, val.Error()...)
	case fmt.Stringer:
		return append(buf, val.String()...)
	default:
		return append(buf, dumper.Sprintf("%+v", val)...)
	}
}
