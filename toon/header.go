package toon

import (
	"strconv"
	"strings"
)

// arrayHeader is the parsed form of an array-declaring line:
// key[N<delim?>]{fields?}:payload?
type arrayHeader struct {
	Key     string   // "" if the header has no key
	Count   int      // declared element count
	Delim   Delimiter
	Fields  []string // nil unless the array is tabular
	Payload string   // raw text after the ":" (and its one optional leading space)
}

// hasPayload reports whether h's header line carried inline element text,
// making the array an inline array rather than an expanded one. An
// explicitly declared zero-length array is always "inline" (there are no
// elements to place on subsequent lines either way).
func (h arrayHeader) hasPayload() bool {
	return h.Count == 0 || strings.TrimSpace(h.Payload) != ""
}

// parseHeader parses line as an array header. line must already be
// trimmed of leading/trailing whitespace. It returns ok=false if line
// does not match the header grammar at all (the caller then knows the
// line is not an array header).
func parseHeader(line string) (arrayHeader, bool) {
	var h arrayHeader

	i := 0
	// Optional key: a quoted key (which may itself contain "["), or the
	// unquoted text up to "[". Unquoted text holding ':' or '"' belongs to
	// a key: value line whose value merely contains a bracket.
	lb := -1
	if strings.HasPrefix(line, `"`) {
		for j := 1; j < len(line); j++ {
			if line[j] == '\\' {
				j++
			} else if line[j] == '"' {
				if j+1 < len(line) && line[j+1] == '[' {
					lb = j + 1
				}
				break
			}
		}
	} else if lb = strings.IndexByte(line, '['); lb >= 0 && strings.ContainsAny(line[:lb], `:"`) {
		lb = -1
	}
	if lb < 0 {
		return h, false
	}
	h.Key = decodeKeyToken(line[:lb])
	i = lb + 1

	rb := strings.IndexByte(line[i:], ']')
	if rb < 0 {
		return h, false
	}
	inside := line[i : i+rb]
	i += rb + 1

	numPart := inside
	h.Delim = Comma
	if strings.HasSuffix(inside, `\t`) {
		h.Delim = Tab
		numPart = strings.TrimSuffix(inside, `\t`)
	} else if strings.HasSuffix(inside, "|") {
		h.Delim = Pipe
		numPart = strings.TrimSuffix(inside, "|")
	}
	if numPart == "" || !isAllDigits(numPart) {
		return h, false
	}
	n, err := strconv.Atoi(numPart)
	if err != nil || n < 0 {
		return h, false
	}
	h.Count = n

	if i < len(line) && line[i] == '{' {
		cb := strings.IndexByte(line[i:], '}')
		if cb < 0 {
			return h, false
		}
		fieldsStr := line[i+1 : i+cb]
		i += cb + 1
		h.Fields = splitFields(fieldsStr, h.Delim)
	}

	if i >= len(line) || line[i] != ':' {
		return h, false
	}
	i++
	if i < len(line) && line[i] == ' ' {
		i++
	}
	h.Payload = line[i:]
	return h, true
}

// splitFields tokenizes a tabular header's field list. Field names obey
// key-quoting rules, not value-quoting rules, so each token is decoded
// as a key, not a value.
func splitFields(s string, delim Delimiter) []string {
	if s == "" {
		return nil
	}
	toks := tokenize(s, delim)
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = decodeKeyToken(t)
	}
	return out
}

func isAllDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigitByte(s[i]) {
			return false
		}
	}
	return true
}

// String renders h back into the textual header grammar.
func (h arrayHeader) String() string {
	var b strings.Builder
	if h.Key != "" {
		b.WriteString(encodeKey(h.Key))
	}
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(h.Count))
	b.WriteString(h.Delim.headerSymbol())
	b.WriteByte(']')
	if h.Fields != nil {
		b.WriteByte('{')
		for i, f := range h.Fields {
			if i > 0 {
				b.WriteByte(h.Delim.byte())
			}
			b.WriteString(encodeKey(f))
		}
		b.WriteByte('}')
	}
	b.WriteByte(':')
	return b.String()
}
