package toon

import (
	"reflect"
	"testing"
)

// TestRoundTripLaw checks decode(encode(v)) == normalize(v) for a range of
// values exercising every array and object form the codec can produce.
// Subtests run with t.Parallel to double as a property check that two
// codec calls sharing nothing really do not race.
func TestRoundTripLaw(t *testing.T) {
	// Built from plain maps, not *Object: normalize sorts a map's keys
	// alphabetically, which matches the sorted field order a uniform
	// tabular array always renders rows in, so the round trip holds. An
	// *Object with a non-alphabetical key order would not round-trip
	// through the tabular form, since that form always emits (and
	// decodes) fields in sorted order regardless of the source object's
	// own member order.
	people := func() []any {
		return []any{
			map[string]any{"name": "Ada", "age": 36.0},
			map[string]any{"name": "Grace", "age": 85.0},
		}
	}

	tests := []struct {
		name string
		in   any
	}{
		{"null", nil},
		{"bool", true},
		{"number", 3.5},
		{"negative number", -17.0},
		{"string", "hello"},
		{"string needing quotes", "hello: world"},
		{"empty array", []any{}},
		{"primitive array", []any{"admin", "ops", "dev"}},
		{"number array", []any{1.0, 2.0, 3.0}},
		{"tabular array", people()},
		{"primitive array of varied types", []any{1.0, "two", true, nil}},
		{"mixed array with object", []any{1.0, map[string]any{"name": "Ada"}, "text"}},
		{"nested array", []any{[]any{1.0, 2.0}, []any{3.0, 4.0}}},
		{"flat object", map[string]any{"id": 1.0, "name": "Ada"}},
		{"nested object", map[string]any{"address": map[string]any{"city": "NYC"}}},
		{"object with array", map[string]any{"tags": []any{"a", "b", "c"}}},
		{"unicode string", "héllo wörld"},
		{"string with newline", "line1\nline2"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			want, err := normalize(tt.in)
			if err != nil {
				t.Fatalf("normalize: %v", err)
			}

			encoded, err := Encode(tt.in, EncoderOptions{})
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}

			got, err := Decode(encoded, DecoderOptions{Strict: true})
			if err != nil {
				t.Fatalf("Decode(%q): %v", encoded, err)
			}

			if !reflect.DeepEqual(got, want) {
				t.Errorf("round trip mismatch for %q:\nencoded: %s\ngot:  %#v\nwant: %#v", tt.name, encoded, got, want)
			}
		})
	}
}

func TestRoundTripWithTabDelimiter(t *testing.T) {
	in := []any{"a", "b", "c"}
	encoded, err := Encode(in, EncoderOptions{Delimiter: Tab})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(encoded, DecoderOptions{Strict: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := []any{"a", "b", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestRoundTripWithPipeDelimiterTabular(t *testing.T) {
	row := NewObject()
	row.Set("a", 1.0)
	row.Set("b", 2.0)
	in := []any{row}
	encoded, err := Encode(in, EncoderOptions{Delimiter: Pipe})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(encoded, DecoderOptions{Strict: true})
	if err != nil {
		t.Fatalf("Decode(%q): %v", encoded, err)
	}
	arr := got.([]any)
	if len(arr) != 1 {
		t.Fatalf("got %#v", got)
	}
	obj := arr[0].(*Object)
	a, _ := obj.Get("a")
	b, _ := obj.Get("b")
	if a != 1.0 || b != 2.0 {
		t.Errorf("a=%v b=%v", a, b)
	}
}

func TestRoundTripWithKeyFolding(t *testing.T) {
	in := map[string]any{"user": map[string]any{"address": map[string]any{"city": "NYC"}}}

	encoded, err := Encode(in, EncoderOptions{KeyFolding: FoldSafe})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if got := encoded; got != "user.address.city: NYC" {
		t.Errorf("folded encoding = %q", got)
	}

	got, err := Decode(encoded, DecoderOptions{ExpandPaths: ExpandSafe, Strict: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want, err := normalize(in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestNumberCanonicalizationIsIdempotent(t *testing.T) {
	for _, f := range []float64{0, -0.0, 1, -1, 3.14, 100.5, 1e10, -42} {
		once := formatNumber(f)
		v, err := parseValueToken(once)
		if err != nil {
			t.Fatalf("parseValueToken(%q): %v", once, err)
		}
		twice := formatNumber(v.(float64))
		if once != twice {
			t.Errorf("formatNumber not idempotent for %v: %q != %q", f, once, twice)
		}
	}
}

func TestEscapeRoundTripThroughCodec(t *testing.T) {
	in := map[string]any{"text": "line1\nline2\ttabbed \"quoted\" \\backslash"}
	encoded, err := Encode(in, EncoderOptions{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	got, err := Decode(encoded, DecoderOptions{Strict: true})
	if err != nil {
		t.Fatalf("Decode(%q): %v", encoded, err)
	}
	want, err := normalize(in)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestStrictRejectsWhatLaxTolerates(t *testing.T) {
	src := "[3]: 1, 2"

	if _, err := Decode(src, DecoderOptions{Strict: true}); err == nil {
		t.Error("expected strict decode to reject a declared-count mismatch")
	}
	if _, err := Decode(src, DecoderOptions{Strict: false}); err != nil {
		t.Errorf("expected lax decode to tolerate a declared-count mismatch, got %v", err)
	}
}

func TestDecodeDefaultAndEncodeDefault(t *testing.T) {
	encoded, err := EncodeDefault(map[string]any{"a": 1.0})
	if err != nil {
		t.Fatalf("EncodeDefault: %v", err)
	}
	got, err := DecodeDefault(encoded)
	if err != nil {
		t.Fatalf("DecodeDefault: %v", err)
	}
	obj := got.(*Object)
	a, _ := obj.Get("a")
	if a != 1.0 {
		t.Errorf("a = %v, want 1", a)
	}
}

func TestParseDelimiterAliases(t *testing.T) {
	tests := []struct {
		alias string
		want  Delimiter
	}{
		{"", Comma},
		{"comma", Comma},
		{"tab", Tab},
		{"pipe", Pipe},
	}
	for _, tt := range tests {
		got, err := ParseDelimiter(tt.alias)
		if err != nil {
			t.Fatalf("ParseDelimiter(%q): %v", tt.alias, err)
		}
		if got != tt.want {
			t.Errorf("ParseDelimiter(%q) = %v, want %v", tt.alias, got, tt.want)
		}
	}
	if _, err := ParseDelimiter("semicolon"); err == nil {
		t.Error("expected an error for an unknown delimiter alias")
	}
}
