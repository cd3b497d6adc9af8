package toon

// An Object is an ordered mapping from string key to JSON value. The
// encoder never reorders the members of an Object; Decode returns Object
// values for every JSON object it parses, and Encode accepts them for
// callers that need to control or preserve member order.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject returns an empty Object ready for use.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Len reports the number of members in o.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return len(o.keys)
}

// Keys returns the member keys of o in insertion order. The caller must
// not modify the returned slice.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	return o.keys
}

// Get returns the value stored for key, and whether it was present.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}
	v, ok := o.values[key]
	return v, ok
}

// Set assigns value to key. If key is already present its value is
// replaced in place, preserving its original position; otherwise key is
// appended at the end.
func (o *Object) Set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// Find returns the value for key, or nil if the object has no such
// member, mirroring the convenience lookup pattern of an AST node with a
// Find helper.
func (o *Object) Find(key string) any {
	v, _ := o.Get(key)
	return v
}
