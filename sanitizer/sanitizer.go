// Package sanitizer rewrites message text so that it cannot break the line structure
// of a log file, using bitwise filter flags matched against transforms.
package sanitizer

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes not printable per strconv.IsPrint
	FilterControl                         // Control characters (unicode.IsControl)
	FilterLineBreak                       // '\n', '\r', NEL, LS and PS
)

// Transform flags for character transformation
const (
	TransformStrip      uint64 = 1 << iota // Removes the character
	TransformHexEncode                     // Encodes the UTF-8 bytes as "<XXYY>"
	TransformJSONEscape                    // Escapes with JSON-style backslashes ('\n', '\u0000')
	TransformSpace                         // Replaces the character with a single space
)

// PolicyPreset names a pre-configured rule set
type PolicyPreset string

const (
	PolicyRaw  PolicyPreset = "raw"  // No-op (passthrough)
	PolicyTxt  PolicyPreset = "txt"  // Text log lines: non-printables hex encoded
	PolicyJSON PolicyPreset = "json" // JSON string content: controls escaped
	PolicyMail PolicyPreset = "mail" // Single-line header text: line breaks become spaces, other controls stripped
)

// rule pairs a filter mask with the transform applied to matching runes
type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:  {},
	PolicyTxt:  {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyJSON: {{filter: FilterControl, transform: TransformJSONEscape}},
	PolicyMail: {
		{filter: FilterLineBreak, transform: TransformSpace},
		{filter: FilterControl, transform: TransformStrip},
	},
}

// filters is scanned in order; a rune matches a mask when any listed flag accepts it
var filters = []struct {
	flag  uint64
	match func(rune) bool
}{
	{FilterNonPrintable, func(r rune) bool { return !strconv.IsPrint(r) }},
	{FilterControl, unicode.IsControl},
	{FilterLineBreak, isLineBreak},
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// Sanitizer applies rules rune by rune. Not safe for concurrent use
type Sanitizer struct {
	rules []rule
	buf   []byte
}

// New creates a Sanitizer without rules
func New() *Sanitizer {
	return &Sanitizer{
		buf: make([]byte, 0, 256),
	}
}

// Rule appends a custom rule; earlier rules take precedence
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	s.rules = append(s.rules, rule{filter: filter, transform: transform})
	return s
}

// Policy appends the rules of a preset
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	if rules, ok := policyRules[preset]; ok {
		s.rules = append(s.rules, rules...)
	}
	return s
}

// Sanitize returns data with every configured rule applied
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 {
		return data
	}

	s.buf = s.buf[:0]
	for _, r := range data {
		s.buf = s.apply(s.buf, r)
	}
	return string(s.buf)
}

// matches reports whether r is selected by mask
func matches(r rune, mask uint64) bool {
	for _, f := range filters {
		if mask&f.flag != 0 && f.match(r) {
			return true
		}
	}
	return false
}

// apply runs the first rule whose filter selects r
func (s *Sanitizer) apply(buf []byte, r rune) []byte {
	for _, rl := range s.rules {
		if matches(r, rl.filter) {
			return applyTransform(buf, r, rl.transform)
		}
	}
	return utf8.AppendRune(buf, r)
}

// applyTransform appends the transformed rune to buf
func applyTransform(buf []byte, r rune, transformMask uint64) []byte {
	switch {
	case transformMask&TransformStrip != 0:
		return buf

	case transformMask&TransformSpace != 0:
		return append(buf, ' ')

	case transformMask&TransformHexEncode != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		buf = append(buf, '<')
		buf = append(buf, hex.EncodeToString(runeBytes[:n])...)
		return append(buf, '>')

	case transformMask&TransformJSONEscape != 0:
		switch r {
		case '\n':
			return append(buf, '\\', 'n')
		case '\r':
			return append(buf, '\\', 'r')
		case '\t':
			return append(buf, '\\', 't')
		case '\b':
			return append(buf, '\\', 'b')
		case '\f':
			return append(buf, '\\', 'f')
		default:
			if r < 0x20 || (r >= 0x7f && r <= 0x9f) {
				return append(buf, fmt.Sprintf("\\u%04x", r)...)
			}
			return utf8.AppendRune(buf, r)
		}
	}
	return utf8.AppendRune(buf, r)
}
