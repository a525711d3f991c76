package value

import "testing"

func TestEqualNull(t *testing.T) {
	a := NewNull()
	b := NewNull()
	if !a.Equal(b) {
		t.Fatalf("expected two nulls to be equal")
	}
	if a.Equal(NewString("")) {
		t.Fatalf("expected null to not equal empty string")
	}
	if a.Equal(NewNumber(0)) {
		t.Fatalf("expected null to not equal zero")
	}
}

func TestEqualDeep(t *testing.T) {
	obj1 := NewObject()
	obj1.Set(MustParsePath("a"), NewNumber(1))
	obj1.Set(MustParsePath("b"), NewArray(NewString("x"), NewString("y")))

	obj2 := NewObject()
	obj2.Set(MustParsePath("a"), NewNumber(1))
	obj2.Set(MustParsePath("b"), NewArray(NewString("x"), NewString("y")))

	if !obj1.Equal(obj2) {
		t.Fatalf("expected structurally identical objects to be equal")
	}

	obj2.Set(MustParsePath("b[1]"), NewString("z"))
	if obj1.Equal(obj2) {
		t.Fatalf("expected objects to differ after mutation")
	}
}

func TestAppend(t *testing.T) {
	arr := NewArray(NewNumber(1))
	arr2, err := arr.Append(NewNumber(2))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	items, _ := arr2.AsArray()
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}

	nullVal := NewNull()
	appended, err := nullVal.Append(NewString("x"))
	if err != nil {
		t.Fatalf("unexpected error appending to null: %v", err)
	}
	items, _ = appended.AsArray()
	if len(items) != 1 {
		t.Fatalf("expected append-to-null to create single element array")
	}

	if _, err := NewString("x").Append(NewString("y")); err == nil {
		t.Fatalf("expected error appending to a string value")
	}
}

func TestStringRendering(t *testing.T) {
	obj := NewObject()
	obj.Set(MustParsePath("message"), NewString("error 42"))
	obj.Set(MustParsePath("error"), NewNumber(42))

	got := obj.String()
	want := `{"message": "error 42", "error": 42}`
	if got != want {
		t.Fatalf("rendering mismatch:\n got: %s\nwant: %s", got, want)
	}
}
