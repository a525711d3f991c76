package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cloudlens/cloudlens/value"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing temp file: %v", err)
	}
	return path
}

func TestFromTextFileOpenErrorFailsFast(t *testing.T) {
	_, err := FromTextFile(filepath.Join(t.TempDir(), "does-not-exist.log"))
	if err == nil {
		t.Fatalf("expected an error for a missing path")
	}
	if _, ok := err.(*OpenError); !ok {
		t.Fatalf("expected *OpenError, got %T: %v", err, err)
	}
}

func TestFromTextFileLineByLine(t *testing.T) {
	path := writeTempFile(t, "lines.log", "first\r\nsecond\nthird")
	s, err := FromTextFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for {
		v, ok := s.Next()
		if !ok {
			break
		}
		msg, _ := v.Get(value.MustParsePath("message"))
		str, _ := msg.AsString()
		got = append(got, str)
	}

	want := []string{"first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d: got %q, want %q (CR/LF should be trimmed)", i, got[i], want[i])
		}
	}
}

func TestFromTextFileClosesOnExhaustion(t *testing.T) {
	path := writeTempFile(t, "one.log", "only line")
	s, err := FromTextFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	src := s.(*textFileSource)

	if _, ok := src.Next(); !ok {
		t.Fatalf("expected one record")
	}
	if _, ok := src.Next(); ok {
		t.Fatalf("expected exhaustion after the only line")
	}
	if !src.done {
		t.Fatalf("expected the file handle to be closed automatically on EOF")
	}
}

func TestFromJSONFileOpenErrorFailsFast(t *testing.T) {
	_, err := FromJSONFile(filepath.Join(t.TempDir(), "does-not-exist.json"))
	if err == nil {
		t.Fatalf("expected an error for a missing path")
	}
	if _, ok := err.(*OpenError); !ok {
		t.Fatalf("expected *OpenError, got %T: %v", err, err)
	}
}

func TestFromJSONFileArrayRootStreamsElements(t *testing.T) {
	path := writeTempFile(t, "array.json", `[{"message": "a"}, {"message": "b"}, {"message": "c"}]`)
	s, err := FromJSONFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for {
		v, ok := s.Next()
		if !ok {
			break
		}
		msg, _ := v.Get(value.MustParsePath("message"))
		str, _ := msg.AsString()
		got = append(got, str)
	}

	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("element %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFromJSONFileSingleDocumentIsOneRecord(t *testing.T) {
	path := writeTempFile(t, "single.json", `{"message": "only one"}`)
	s, err := FromJSONFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok := s.Next()
	if !ok {
		t.Fatalf("expected one record")
	}
	msg, _ := v.Get(value.MustParsePath("message"))
	str, _ := msg.AsString()
	if str != "only one" {
		t.Fatalf("got %q, want %q", str, "only one")
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("expected a single-document root to yield exactly one record")
	}
}

func TestFromJSONFileJSONLinesTolerance(t *testing.T) {
	path := writeTempFile(t, "lines.json", "{\"message\": \"a\"}\n{\"message\": \"b\"}\n[{\"message\": \"c\"}, {\"message\": \"d\"}]\n")
	s, err := FromJSONFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []string
	for {
		v, ok := s.Next()
		if !ok {
			break
		}
		msg, _ := v.Get(value.MustParsePath("message"))
		str, _ := msg.AsString()
		got = append(got, str)
	}

	want := []string{"a", "b", "c", "d"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFromJSONFilePreservesFieldOrder(t *testing.T) {
	path := writeTempFile(t, "ordered.json", `{"zebra": 1, "apple": 2, "mango": 3}`)
	s, err := FromJSONFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, ok := s.Next()
	if !ok {
		t.Fatalf("expected one record")
	}
	keys, isObject := v.Keys()
	if !isObject {
		t.Fatalf("expected an object")
	}

	want := []string{"zebra", "apple", "mango"}
	if len(keys) != len(want) {
		t.Fatalf("got keys %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("key %d: got %q, want %q (field order must follow the source document, not map iteration)", i, keys[i], want[i])
		}
	}
}
