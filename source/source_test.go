package source

import (
	"testing"

	"github.com/cloudlens/cloudlens/value"
)

func TestFromStrings(t *testing.T) {
	s := FromStrings([]string{"a", "b"})
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
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
}

func TestEmpty(t *testing.T) {
	s := Empty()
	if _, ok := s.Next(); ok {
		t.Fatalf("expected Empty to yield nothing")
	}
}

func TestDrainAndReplay(t *testing.T) {
	s := FromStrings([]string{"a", "b", "c"})
	buf := Drain(s)
	if len(buf) != 3 {
		t.Fatalf("expected 3 drained values, got %d", len(buf))
	}
	if _, ok := s.Next(); ok {
		t.Fatalf("expected original source to be exhausted after Drain")
	}

	replay := NewReplay(buf)
	replayed := Drain(replay)
	if len(replayed) != 3 {
		t.Fatalf("expected replay to yield 3 values, got %d", len(replayed))
	}
	for i := range buf {
		if !buf[i].Equal(replayed[i]) {
			t.Fatalf("replay[%d] = %v, want %v", i, replayed[i], buf[i])
		}
	}
}
