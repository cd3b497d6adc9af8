package toon

import (
	"reflect"
	"testing"
)

func buildChain(keys []string, leaf any) *Object {
	if len(keys) == 0 {
		return nil
	}
	obj := NewObject()
	if len(keys) == 1 {
		obj.Set(keys[0], leaf)
		return obj
	}
	obj.Set(keys[0], buildChain(keys[1:], leaf))
	return obj
}

func TestFoldValueCollapsesSingleKeyChain(t *testing.T) {
	in := buildChain([]string{"a", "b", "c"}, "leaf")
	got := foldValue(in, 0).(*Object)
	if got.Len() != 1 {
		t.Fatalf("expected one folded key, got %v", got.Keys())
	}
	key := got.Keys()[0]
	if key != "a.b.c" {
		t.Errorf("folded key = %q, want %q", key, "a.b.c")
	}
	v, _ := got.Get(key)
	if v != "leaf" {
		t.Errorf("folded value = %v, want leaf", v)
	}
}

func TestFoldValueRespectsFlattenDepth(t *testing.T) {
	in := buildChain([]string{"a", "b", "c"}, "leaf")
	got := foldValue(in, 2).(*Object)
	if got.Len() != 1 {
		t.Fatalf("expected one folded key, got %v", got.Keys())
	}
	if got.Keys()[0] != "a.b" {
		t.Errorf("folded key = %q, want %q", got.Keys()[0], "a.b")
	}
}

func TestFoldValueStopsAtBranch(t *testing.T) {
	branch := NewObject()
	branch.Set("x", 1.0)
	branch.Set("y", 2.0)
	root := NewObject()
	root.Set("a", branch)

	got := foldValue(root, 0).(*Object)
	if got.Keys()[0] != "a" {
		t.Errorf("a multi-member object must not be folded into its parent's key, got %v", got.Keys())
	}
}

func TestExpandPathsInvertsFolding(t *testing.T) {
	folded := NewObject()
	folded.Set("a.b.c", "leaf")

	got, err := expandPaths(folded, false)
	if err != nil {
		t.Fatalf("expandPaths: %v", err)
	}
	want := buildChain([]string{"a", "b", "c"}, "leaf")
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expandPaths = %#v, want %#v", got, want)
	}
}

func TestExpandPathsMergesSiblingPrefixes(t *testing.T) {
	folded := NewObject()
	folded.Set("a.x", 1.0)
	folded.Set("a.y", 2.0)

	got, err := expandPaths(folded, false)
	if err != nil {
		t.Fatalf("expandPaths: %v", err)
	}
	obj := got.(*Object)
	a, ok := obj.Get("a")
	if !ok {
		t.Fatal("expected key a")
	}
	inner := a.(*Object)
	x, _ := inner.Get("x")
	y, _ := inner.Get("y")
	if x != 1.0 || y != 2.0 {
		t.Errorf("x=%v y=%v, want 1,2", x, y)
	}
}

func TestExpandPathsConflictStrict(t *testing.T) {
	folded := NewObject()
	folded.Set("a", "leaf")
	folded.Set("a.b", "other")

	if _, err := expandPaths(folded, true); err == nil {
		t.Fatal("expected PathConflict error in strict mode")
	}
}

func TestExpandPathsConflictLaxLastWriteWins(t *testing.T) {
	folded := NewObject()
	folded.Set("a", "leaf")
	folded.Set("a.b", "other")

	got, err := expandPaths(folded, false)
	if err != nil {
		t.Fatalf("expandPaths: %v", err)
	}
	obj := got.(*Object)
	a, _ := obj.Get("a")
	inner, ok := a.(*Object)
	if !ok {
		t.Fatalf("expected a to become a nested object, got %#v", a)
	}
	b, _ := inner.Get("b")
	if b != "other" {
		t.Errorf("b = %v, want other", b)
	}
}

func TestFoldExpandRoundTrip(t *testing.T) {
	in := NewObject()
	in.Set("user", buildChain([]string{"address", "city"}, "NYC"))
	in.Set("count", 3.0)

	folded := foldValue(in, 0)
	expanded, err := expandPaths(folded, true)
	if err != nil {
		t.Fatalf("expandPaths: %v", err)
	}
	if !reflect.DeepEqual(expanded, in) {
		t.Errorf("round trip mismatch:\ngot  %#v\nwant %#v", expanded, in)
	}
}
