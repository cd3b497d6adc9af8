package toon

import (
	"strconv"
	"strings"
)

// ppLine is one prepared source line: its 1-based number, its leading
// indentation measured in raw characters, and its content with that
// indentation stripped and both ends trimmed.
type ppLine struct {
	no     int
	indent int
	text   string
}

func (l ppLine) blank() bool { return l.text == "" }

// Decode parses src as TOON text and returns the decoded value: nil,
// bool, float64, string, []any, or *Object. opts.Strict enables
// array-length, field-count, indentation, tab, and blank-line
// validation; when false, Decode tolerates the corresponding
// malformations instead of failing.
func Decode(src string, opts DecoderOptions) (any, error) {
	lines, err := prepareLines(src, opts)
	if err != nil {
		return nil, err
	}
	d := &decoder{opts: opts, lines: lines}

	first := d.firstNonBlank(0)
	if first >= len(lines) {
		return nil, nil
	}

	_, _, rootHasColon := splitKeyValue(lines[first].text)

	var result any
	if h, ok := parseHeader(lines[first].text); ok && h.Key == "" {
		result, _, err = d.decodeArray(first)
	} else if !rootHasColon && d.onlyNonBlankLine(first) {
		result, err = parseValueToken(lines[first].text)
	} else {
		result, _, err = d.decodeObject(first, lines[first].indent)
	}
	if err != nil {
		return nil, err
	}

	if opts.ExpandPaths == ExpandSafe {
		result, err = expandPaths(result, opts.Strict)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// prepareLines splits src into lines, strips trailing "\r", and computes
// each line's leading-space indentation. In strict mode a tab inside the
// leading whitespace, or an indentation count that is not a multiple of
// the configured indent width, is an IndentationError.
func prepareLines(src string, opts DecoderOptions) ([]ppLine, error) {
	if src == "" {
		return nil, nil
	}
	width := opts.indentWidth()
	raw := strings.Split(src, "\n")
	lines := make([]ppLine, 0, len(raw))
	for i, rl := range raw {
		rl = strings.TrimSuffix(rl, "\r")
		no := i + 1

		n := 0
		for n < len(rl) && (rl[n] == ' ' || rl[n] == '\t') {
			if opts.Strict && rl[n] == '\t' {
				return nil, newDecodeError(IndentationError, no, rl, "tab character in indentation")
			}
			n++
		}
		if opts.Strict && n%width != 0 {
			return nil, newDecodeError(IndentationError, no, rl, "indentation of %d spaces is not a multiple of %d", n, width)
		}
		lines = append(lines, ppLine{no: no, indent: n, text: strings.TrimSpace(rl)})
	}
	return lines, nil
}

type decoder struct {
	opts  DecoderOptions
	lines []ppLine
}

func (d *decoder) width() int { return d.opts.indentWidth() }

func (d *decoder) firstNonBlank(i int) int {
	for i < len(d.lines) && d.lines[i].blank() {
		i++
	}
	return i
}

func (d *decoder) onlyNonBlankLine(i int) bool {
	for j := range d.lines {
		if j != i && !d.lines[j].blank() {
			return false
		}
	}
	return true
}

// decodeObject parses a run of sibling members at indentation E, starting
// at index i, and returns the built Object plus the index of the first
// line that does not belong to it.
func (d *decoder) decodeObject(i, e int) (*Object, int, error) {
	obj := NewObject()
	n := len(d.lines)
	for i < n {
		if d.lines[i].blank() {
			i++
			continue
		}
		indent := d.lines[i].indent
		if indent < e {
			break
		}
		if indent > e {
			// A member's block value recurses before returning control
			// here, so a deeper line at this point indicates malformed
			// input; skip it defensively rather than looping forever.
			i++
			continue
		}

		text := d.lines[i].text
		if h, ok := parseHeader(text); ok && h.Key != "" {
			val, next, err := d.decodeArray(i)
			if err != nil {
				return nil, 0, err
			}
			obj.Set(h.Key, val)
			i = next
			continue
		}

		key, valuePart, hasColon := splitKeyValue(text)
		if !hasColon {
			i++
			continue
		}
		if strings.TrimSpace(valuePart) != "" {
			v, err := parseValueToken(strings.TrimSpace(valuePart))
			if err != nil {
				return nil, 0, wrapDecodeError(InvalidEscape, d.lines[i].no, text, err)
			}
			obj.Set(key, v)
			i++
			continue
		}

		// Empty value-part: a block follows at deeper indentation, or
		// there is none and the value is null.
		next := d.firstNonBlank(i + 1)
		if next < n && d.lines[next].indent > indent {
			if _, ok := parseHeader(d.lines[next].text); ok {
				val, after, err := d.decodeArray(next)
				if err != nil {
					return nil, 0, err
				}
				obj.Set(key, val)
				i = after
				continue
			}
			nested, after, err := d.decodeObject(next, d.lines[next].indent)
			if err != nil {
				return nil, 0, err
			}
			obj.Set(key, nested)
			i = after
			continue
		}
		obj.Set(key, nil)
		i++
	}
	return obj, i, nil
}

// decodeArray parses the array whose header line is at index hi and
// returns its value plus the index of the first line after it.
func (d *decoder) decodeArray(hi int) (any, int, error) {
	h, ok := parseHeader(d.lines[hi].text)
	if !ok {
		return nil, 0, newDecodeError(InvalidHeader, d.lines[hi].no, d.lines[hi].text, "malformed array header")
	}
	headerIndent := d.lines[hi].indent
	rowIndent := headerIndent + d.width()

	if h.Fields != nil {
		return d.decodeTabular(hi, h, headerIndent, rowIndent)
	}
	if h.hasPayload() {
		return d.decodeInlineArray(hi, h)
	}
	return d.decodeExpandedArray(hi, h, headerIndent, rowIndent)
}

func (d *decoder) decodeInlineArray(hi int, h arrayHeader) (any, int, error) {
	payload := strings.TrimSpace(h.Payload)
	var elements []any
	if payload != "" {
		toks := tokenize(payload, h.Delim)
		elements = make([]any, len(toks))
		for i, tok := range toks {
			v, err := parseValueToken(tok)
			if err != nil {
				return nil, 0, wrapDecodeError(InvalidEscape, d.lines[hi].no, d.lines[hi].text, err)
			}
			elements[i] = v
		}
	}
	if d.opts.Strict && len(elements) != h.Count {
		return nil, 0, newDecodeError(CountMismatch, d.lines[hi].no, d.lines[hi].text,
			"array declares %d elements, found %d", h.Count, len(elements))
	}
	if elements == nil {
		elements = []any{}
	}
	return elements, hi + 1, nil
}

func (d *decoder) decodeTabular(hi int, h arrayHeader, headerIndent, rowIndent int) (any, int, error) {
	rows := make([]any, 0, h.Count)
	i := hi + 1
	n := len(d.lines)
	for i < n && len(rows) < h.Count {
		if d.lines[i].blank() {
			if d.opts.Strict {
				return nil, 0, newDecodeError(BlankInsideArray, d.lines[i].no, "", "blank line inside array body")
			}
			i++
			continue
		}
		if d.lines[i].indent <= headerIndent {
			break
		}
		if d.lines[i].indent != rowIndent {
			break
		}
		toks := tokenize(d.lines[i].text, h.Delim)
		if d.opts.Strict && len(toks) != len(h.Fields) {
			return nil, 0, newDecodeError(CountMismatch, d.lines[i].no, d.lines[i].text,
				"row has %d fields, header declares %d", len(toks), len(h.Fields))
		}
		row := NewObject()
		for fi, field := range h.Fields {
			var tok string
			if fi < len(toks) {
				tok = toks[fi]
			}
			v, err := parseValueToken(tok)
			if err != nil {
				return nil, 0, wrapDecodeError(InvalidEscape, d.lines[i].no, d.lines[i].text, err)
			}
			row.Set(field, v)
		}
		rows = append(rows, row)
		i++
	}
	if d.opts.Strict && len(rows) != h.Count {
		return nil, 0, newDecodeError(CountMismatch, d.lines[hi].no, d.lines[hi].text,
			"array declares %d rows, found %d", h.Count, len(rows))
	}
	return rows, i, nil
}

// decodeExpandedArray parses a non-tabular expanded array body: each
// element is a primitive token, a nested array, or an object built by
// accumulating consecutive key: value lines and keyed array headers. A
// repeated key starts a new element; a primitive token or keyless nested
// array line also ends whatever object element was accumulating.
func (d *decoder) decodeExpandedArray(hi int, h arrayHeader, headerIndent, elemIndent int) (any, int, error) {
	var elements []any
	var cur *Object

	flush := func() {
		if cur != nil {
			elements = append(elements, cur)
			cur = nil
		}
	}

	i := hi + 1
	n := len(d.lines)
	for i < n {
		if d.lines[i].blank() {
			if d.opts.Strict {
				return nil, 0, newDecodeError(BlankInsideArray, d.lines[i].no, "", "blank line inside array body")
			}
			i++
			continue
		}
		indent := d.lines[i].indent
		if indent <= headerIndent {
			break
		}
		if indent > elemIndent {
			// Belongs to a block value already consumed by the recursive
			// handling below; skip defensively if reached directly.
			i++
			continue
		}

		text := d.lines[i].text
		if h, ok := parseHeader(text); ok {
			if h.Key != "" {
				// A keyed array is a field of the element accumulating here.
				if cur == nil {
					cur = NewObject()
				} else if _, exists := cur.Get(h.Key); exists {
					flush()
					cur = NewObject()
				}
			} else {
				flush()
			}
			val, next, err := d.decodeArray(i)
			if err != nil {
				return nil, 0, err
			}
			if h.Key != "" {
				cur.Set(h.Key, val)
			} else {
				elements = append(elements, val)
			}
			i = next
			continue
		}

		key, valuePart, hasColon := splitKeyValue(text)
		if !hasColon {
			flush()
			v, err := parseValueToken(text)
			if err != nil {
				return nil, 0, wrapDecodeError(InvalidEscape, d.lines[i].no, text, err)
			}
			elements = append(elements, v)
			i++
			continue
		}

		if cur == nil {
			cur = NewObject()
		} else if _, exists := cur.Get(key); exists {
			flush()
			cur = NewObject()
		}

		if strings.TrimSpace(valuePart) == "" {
			next := d.firstNonBlank(i + 1)
			if next < n && d.lines[next].indent > indent {
				if _, ok := parseHeader(d.lines[next].text); ok {
					val, after, err := d.decodeArray(next)
					if err != nil {
						return nil, 0, err
					}
					cur.Set(key, val)
					i = after
					continue
				}
				nested, after, err := d.decodeObject(next, d.lines[next].indent)
				if err != nil {
					return nil, 0, err
				}
				cur.Set(key, nested)
				i = after
				continue
			}
			cur.Set(key, nil)
			i++
			continue
		}

		v, err := parseValueToken(strings.TrimSpace(valuePart))
		if err != nil {
			return nil, 0, wrapDecodeError(InvalidEscape, d.lines[i].no, text, err)
		}
		cur.Set(key, v)
		i++
	}
	flush()

	if d.opts.Strict && len(elements) != h.Count {
		return nil, 0, newDecodeError(CountMismatch, d.lines[hi].no, d.lines[hi].text,
			"array declares %d elements, found %d", h.Count, len(elements))
	}
	if elements == nil {
		elements = []any{}
	}
	return elements, i, nil
}

// splitKeyValue splits text at its first unquoted colon into a key and
// value-part. hasColon is false if text has no such colon, in which case
// text is returned whole as key and value-part is "".
func splitKeyValue(text string) (key, valuePart string, hasColon bool) {
	inQuotes := false
	esc := false
	for i := 0; i < len(text); i++ {
		c := text[i]
		if esc {
			esc = false
			continue
		}
		switch c {
		case '\\':
			esc = true
		case '"':
			inQuotes = !inQuotes
		case ':':
			if !inQuotes {
				return decodeKeyToken(strings.TrimSpace(text[:i])), text[i+1:], true
			}
		}
	}
	return text, "", false
}

// parseValueToken interprets a single token from an inline array, a
// tabular row, or the value-part of a key: value line.
func parseValueToken(tok string) (any, error) {
	if tok == "" {
		return "", nil
	}
	if len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"' {
		return unescapeString(tok[1 : len(tok)-1])
	}
	switch tok {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	if numericLexeme.MatchString(tok) && !leadingZeroNum.MatchString(strings.TrimPrefix(tok, "-")) {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			return f, nil
		}
	}
	return tok, nil
}
