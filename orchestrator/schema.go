package orchestrator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/maastricht-university/gprf/affect"
)

// EmotionPrefix renders the vector as `[JAST-V: {"joy": 0.85, ...}]`, keeping
// the configured label order. Scores use the shortest round-trip form with a
// trailing ".0" for integral values.
func EmotionPrefix(labels [4]string, v affect.Vector) string {
	var sb strings.Builder
	sb.WriteString("[JAST-V: {")
	for i, l := range labels {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(quote(l))
		sb.WriteString(": ")
		sb.WriteString(formatScore(v[i]))
	}
	sb.WriteString("}]")
	return sb.String()
}

// EmotionSchema prefixes text with the vector, or returns the prefix alone
// when there is no text.
func EmotionSchema(labels [4]string, v affect.Vector, text string) string {
	prefix := EmotionPrefix(labels, v)
	if text == "" {
		return prefix
	}
	return prefix + " " + text
}

func formatScore(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	if f != 0 {
		e := strconv.FormatFloat(f, 'e', -1, 64)
		exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
		if exp < -4 || exp >= 16 {
			return e
		}
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// quote is a JSON string literal with non-ASCII escaped as \uXXXX.
func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		default:
			switch {
			case r < 0x20 || (r >= 0x7f && r <= 0xffff):
				fmt.Fprintf(&sb, `\u%04x`, r)
			case r > 0xffff:
				r1, r2 := utf16.EncodeRune(r)
				fmt.Fprintf(&sb, `\u%04x\u%04x`, r1, r2)
			default:
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
