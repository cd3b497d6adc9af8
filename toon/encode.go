package toon

import (
	"sort"
	"strconv"
	"strings"
)

// Encoder walks a normalized value and renders it as TOON text. A fresh
// Encoder is created per call to Encode; it carries only its options (the
// current recursion depth is passed down as an argument), and shares
// nothing across calls.
type Encoder struct {
	opts EncoderOptions
}

// Encode converts v to TOON text. v is first coerced through the
// normalizer, then optionally folded into dotted-key chains if
// opts.KeyFolding is FoldSafe. Encode cannot fail on any value that
// normalize accepts; the error return exists only for the (rare) values
// normalize itself rejects, such as a struct field encoding/json cannot
// marshal.
func Encode(v any, opts EncoderOptions) (string, error) {
	nv, err := normalize(v)
	if err != nil {
		return "", err
	}
	if opts.KeyFolding == FoldSafe {
		nv = foldValue(nv, opts.FlattenDepth)
	}
	e := &Encoder{opts: opts}
	return strings.Join(e.encodeRoot(nv), "\n"), nil
}

func (e *Encoder) indent(depth int) string {
	return strings.Repeat(" ", depth*e.opts.indentWidth())
}

// encodeRoot dispatches on the normalized value's variant at depth 0.
func (e *Encoder) encodeRoot(v any) []string {
	switch t := v.(type) {
	case *Object:
		return e.encodeObjectMembers(t, 0)
	case []any:
		return e.encodeArray(t, 0, "")
	default:
		return []string{e.encodeScalar(v, e.opts.Delimiter, contextObject)}
	}
}

// encodeScalar renders a primitive as a single token.
func (e *Encoder) encodeScalar(v any, activeDelim Delimiter, ctx valueContext) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return formatNumber(t)
	case string:
		if needsQuoting(t, activeDelim, e.opts.Delimiter, ctx) {
			return quoteString(t)
		}
		return t
	default:
		// Reaching here means normalize let something non-scalar through
		// unexpectedly; render it as null rather than panic.
		return "null"
	}
}

// encodeObjectMembers renders each member of obj as one or more lines at
// the given depth, in the object's own insertion order.
func (e *Encoder) encodeObjectMembers(obj *Object, depth int) []string {
	var lines []string
	ind := e.indent(depth)
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		encKey := encodeKey(key)

		switch v := value.(type) {
		case *Object:
			if v.Len() == 0 {
				continue // empty nested objects do not appear
			}
			lines = append(lines, ind+encKey+":")
			lines = append(lines, e.encodeObjectMembers(v, depth+1)...)
		case []any:
			lines = append(lines, e.encodeArray(v, depth, key)...)
		default:
			lines = append(lines, ind+encKey+": "+e.encodeScalar(value, e.opts.Delimiter, contextObject))
		}
	}
	return lines
}

// encodeArray renders arr, attaching key to the header (key == "" for an
// array appearing as a direct child of another array element, or at the
// document root).
func (e *Encoder) encodeArray(arr []any, depth int, key string) []string {
	ind := e.indent(depth)

	if len(arr) == 0 {
		h := arrayHeader{Key: key, Count: 0, Delim: e.opts.Delimiter}
		return []string{ind + h.String() + " "}
	}

	if fields, ok := isTabular(arr); ok {
		return e.encodeTabular(arr, fields, depth, key)
	}
	if isPrimitiveOnly(arr) {
		return e.encodePrimitiveArray(arr, depth, key)
	}
	return e.encodeMixedArray(arr, depth, key)
}

// isTabular reports whether arr satisfies the uniform-object test: every
// element is a non-empty object, every element shares exactly the same
// key set, and every value in every element is a primitive. It returns
// the sorted field list on success.
func isTabular(arr []any) ([]string, bool) {
	first, ok := arr[0].(*Object)
	if !ok || first.Len() == 0 {
		return nil, false
	}
	fields := append([]string(nil), first.Keys()...)
	sort.Strings(fields)

	for _, elem := range arr {
		obj, ok := elem.(*Object)
		if !ok || obj.Len() != len(fields) {
			return nil, false
		}
		for _, f := range fields {
			v, present := obj.Get(f)
			if !present || !isPrimitiveValue(v) {
				return nil, false
			}
		}
	}
	return fields, true
}

func isPrimitiveValue(v any) bool {
	switch v.(type) {
	case nil, bool, float64, string:
		return true
	default:
		return false
	}
}

func isPrimitiveOnly(arr []any) bool {
	for _, v := range arr {
		if !isPrimitiveValue(v) {
			return false
		}
	}
	return true
}

func (e *Encoder) encodeTabular(arr []any, fields []string, depth int, key string) []string {
	h := arrayHeader{Key: key, Count: len(arr), Delim: e.opts.Delimiter, Fields: fields}
	ind := e.indent(depth)
	lines := []string{ind + h.String()}

	rowInd := e.indent(depth + 1)
	sep := string(e.opts.Delimiter.byte())
	for _, elem := range arr {
		obj := elem.(*Object)
		var row strings.Builder
		row.WriteString(rowInd)
		for i, f := range fields {
			if i > 0 {
				row.WriteString(sep)
			}
			v, _ := obj.Get(f)
			row.WriteString(e.encodeScalar(v, e.opts.Delimiter, contextArray))
		}
		lines = append(lines, row.String())
	}
	return lines
}

func (e *Encoder) encodePrimitiveArray(arr []any, depth int, key string) []string {
	ind := e.indent(depth)
	h := arrayHeader{Key: key, Count: len(arr), Delim: e.opts.Delimiter}

	tokens := make([]string, len(arr))
	for i, v := range arr {
		tokens[i] = e.encodeScalar(v, e.opts.Delimiter, contextArray)
	}
	sep := ", "
	if e.opts.Delimiter != Comma {
		sep = string(e.opts.Delimiter.byte())
	}
	inline := ind + h.String() + " " + strings.Join(tokens, sep)
	if displayWidth(inline) < e.opts.inlineBudget() {
		return []string{inline}
	}

	lines := []string{ind + h.String()}
	elemInd := e.indent(depth + 1)
	for _, tok := range tokens {
		lines = append(lines, elemInd+tok)
	}
	return lines
}

// encodeMixedArray renders a header followed by each element on its own
// line(s) at depth+1: primitives as single tokens, objects as their own
// line block with no wrapping key, nested arrays with no key.
func (e *Encoder) encodeMixedArray(arr []any, depth int, key string) []string {
	h := arrayHeader{Key: key, Count: len(arr), Delim: e.opts.Delimiter}
	lines := []string{e.indent(depth) + h.String()}

	elemDepth := depth + 1
	elemInd := e.indent(elemDepth)
	for _, v := range arr {
		switch t := v.(type) {
		case *Object:
			lines = append(lines, e.encodeObjectMembers(t, elemDepth)...)
		case []any:
			lines = append(lines, e.encodeArray(t, elemDepth, "")...)
		default:
			lines = append(lines, elemInd+e.encodeScalar(v, e.opts.Delimiter, contextArray))
		}
	}
	return lines
}
