package toon

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	numericLexeme  = regexp.MustCompile(`^-?\d+(\.\d+)?([eE][+-]?\d+)?$`)
	leadingZeroNum = regexp.MustCompile(`^0\d+$`)
	unquotedKey    = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)
	identifierSeg  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// formatNumber renders a finite float64 in canonical TOON form: no
// exponent, no superfluous leading zeroes, no trailing fractional
// zeroes, and "-0" collapsed to "0".
func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimRight(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}

// isFiniteNumber reports whether f can be represented in TOON; non-finite
// values (NaN, +Inf, -Inf) are coerced to null by the normalizer before
// they would ever reach formatNumber.
func isFiniteNumber(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// needsQuoting implements the quoting predicate of the lexical rules: it
// reports whether s must be wrapped in double quotes when it appears as
// a value under the given context and active/document delimiters.
func needsQuoting(s string, activeDelim, docDelim Delimiter, ctx valueContext) bool {
	if len(s) == 0 {
		return true
	}
	if isSpaceByte(s[0]) || isSpaceByte(s[len(s)-1]) {
		return true
	}
	switch s {
	case "true", "false", "null":
		return true
	}
	if numericLexeme.MatchString(s) || leadingZeroNum.MatchString(s) {
		return true
	}
	for _, c := range s {
		switch c {
		case ':', '"', '\\', '[', ']', '{', '}', '\n', '\r', '\t':
			return true
		}
	}
	if s == "-" || (s[0] == '-' && !isDigitByte(s[1])) {
		return true
	}
	var delim byte
	if ctx == contextArray {
		delim = activeDelim.byte()
	} else {
		delim = docDelim.byte()
	}
	if strings.IndexByte(s, delim) >= 0 {
		return true
	}
	return false
}

// valueContext distinguishes the two places a quoted value's "relevant
// delimiter" is drawn from: an array's own delimiter, or the document's
// default when the value sits outside any array.
type valueContext byte

const (
	contextArray valueContext = iota
	contextObject
)

func isSpaceByte(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
func isDigitByte(b byte) bool { return b >= '0' && b <= '9' }

// quoteString wraps s in double quotes, applying the TOON escape set
// \\ \" \n \r \t and no others.
func quoteString(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// unescapeString decodes the TOON escape set from the contents of a
// quoted string (quotes already stripped). It reports InvalidEscape for
// any unrecognized \X sequence or a trailing backslash.
func unescapeString(s string) (string, error) {
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", &DecodeError{Kind: InvalidEscape, Message: "trailing backslash"}
		}
		switch s[i] {
		case '\\':
			b.WriteByte('\\')
		case '"':
			b.WriteByte('"')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		default:
			return "", &DecodeError{Kind: InvalidEscape, Message: "invalid escape \\" + string(s[i])}
		}
	}
	return b.String(), nil
}

// isUnquotedKey reports whether key may be emitted without quotes.
func isUnquotedKey(key string) bool { return unquotedKey.MatchString(key) }

// isIdentifierSegment reports whether s is a valid dot-separable key
// segment, the stricter test used by key folding and path expansion.
func isIdentifierSegment(s string) bool { return identifierSeg.MatchString(s) }

// encodeKey renders a key, quoting it iff it fails isUnquotedKey.
func encodeKey(key string) string {
	if isUnquotedKey(key) {
		return key
	}
	return quoteString(key)
}

// decodeKeyToken parses a key token (an object key or a tabular field
// name): unquoted iff not wrapped in double quotes, otherwise unescaped.
// A malformed escape degrades to the raw token rather than failing
// header parsing, which has no line-numbered error path of its own.
func decodeKeyToken(tok string) string {
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		if s, err := unescapeString(tok[1 : len(tok)-1]); err == nil {
			return s
		}
	}
	return tok
}
