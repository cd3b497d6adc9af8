package toon

import "strings"

// foldValue recursively collapses single-member object chains into a
// dotted key, up to maxDepth segments, wherever doing so is unambiguous:
// each collapsed segment must be the sole key of its object and a valid
// identifier segment, so expandPaths can always invert the result.
// Arrays are folded element-wise; everything else passes through
// unchanged.
func foldValue(v any, maxDepth int) any {
	switch t := v.(type) {
	case *Object:
		return foldObject(t, maxDepth)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = foldValue(elem, maxDepth)
		}
		return out
	default:
		return v
	}
}

func foldObject(obj *Object, maxDepth int) *Object {
	out := NewObject()
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		foldedKey, foldedValue := foldChain(key, value, maxDepth)
		out.Set(foldedKey, foldValue(foldedValue, maxDepth))
	}
	return out
}

// foldChain walks down a chain of single-member nested objects rooted at
// key: value, extending the dotted path one segment at a time while the
// current tail is itself a single-member object whose lone key is a
// plain identifier segment. It stops at maxDepth segments or the first
// branch (an object with more than one member, or an empty object). A
// key that is not itself an identifier segment is never folded.
func foldChain(key string, value any, maxDepth int) (string, any) {
	if maxDepth <= 0 {
		maxDepth = int(^uint(0) >> 1) // FlattenDepth == 0 means unbounded
	}
	if !isIdentifierSegment(key) {
		return key, value
	}
	segments := []string{key}
	cur := value
	for len(segments) < maxDepth {
		obj, ok := cur.(*Object)
		if !ok || obj.Len() != 1 {
			break
		}
		childKey := obj.Keys()[0]
		if !isIdentifierSegment(childKey) {
			break
		}
		childValue, _ := obj.Get(childKey)
		segments = append(segments, childKey)
		cur = childValue
	}
	if len(segments) == 1 {
		return key, value
	}
	return strings.Join(segments, "."), cur
}

// expandPaths is the decode-side inverse of key folding: every object key
// containing a literal "." whose segments are all valid identifier
// segments is split into a chain of nested objects, merged into the
// result in place of the flat key. Two expanded keys may legitimately
// share a prefix (a.b and a.c both expand under a); a conflict arises
// only when the same path is used once as a leaf value and once as a
// branch (a and a.b both present). In strict mode that is a
// PathConflict error; otherwise the later key wins.
func expandPaths(v any, strict bool) (any, error) {
	switch t := v.(type) {
	case *Object:
		return expandObject(t, strict)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			ev, err := expandPaths(elem, strict)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	default:
		return v, nil
	}
}

func expandObject(obj *Object, strict bool) (*Object, error) {
	out := NewObject()
	for _, key := range obj.Keys() {
		value, _ := obj.Get(key)
		value, err := expandPaths(value, strict)
		if err != nil {
			return nil, err
		}
		segments := splitDottedKey(key)
		if len(segments) == 1 {
			if err := mergeLeaf(out, segments, value, strict); err != nil {
				return nil, err
			}
			continue
		}
		if err := mergeLeaf(out, segments, value, strict); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// splitDottedKey splits key on "." and returns []string{key} unchanged
// unless every segment is a valid identifier segment, matching the
// grammar foldChain used to produce the key in the first place.
func splitDottedKey(key string) []string {
	if !strings.Contains(key, ".") {
		return []string{key}
	}
	parts := strings.Split(key, ".")
	for _, p := range parts {
		if !isIdentifierSegment(p) {
			return []string{key}
		}
	}
	return parts
}

// mergeLeaf sets value at the nested path segments within root, creating
// intermediate *Object nodes as needed.
func mergeLeaf(root *Object, segments []string, value any, strict bool) error {
	cur := root
	for i, seg := range segments[:len(segments)-1] {
		existing, present := cur.Get(seg)
		if !present {
			child := NewObject()
			cur.Set(seg, child)
			cur = child
			continue
		}
		child, ok := existing.(*Object)
		if !ok {
			if strict {
				return newDecodeError(PathConflict, 0, "", "path %q conflicts with an existing scalar value", strings.Join(segments[:i+1], "."))
			}
			child = NewObject()
			cur.Set(seg, child)
		}
		cur = child
	}
	last := segments[len(segments)-1]
	if existing, present := cur.Get(last); present {
		if _, ok := existing.(*Object); ok {
			if strict {
				return newDecodeError(PathConflict, 0, "", "path %q conflicts with a nested object", strings.Join(segments, "."))
			}
		}
	}
	cur.Set(last, value)
	return nil
}
