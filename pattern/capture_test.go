package pattern

import (
	"testing"

	"github.com/cloudlens/cloudlens/value"
)

func TestEvaluateSimple(t *testing.T) {
	c, _ := Compile("warning")
	rec := value.NewObject()
	if !Evaluate(c, "a warning occurred", &rec) {
		t.Fatalf("expected match")
	}
}

func TestEvaluateNumberCapture(t *testing.T) {
	c, err := Compile(`^error (?<error:Number>\d+)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := value.NewObject()
	matched := Evaluate(c, "error 42", &rec)
	if !matched {
		t.Fatalf("expected match")
	}
	got, ok := rec.Get(value.MustParsePath("error"))
	if !ok {
		t.Fatalf("expected 'error' field to be set")
	}
	n, _ := got.AsNumber()
	if n != 42 {
		t.Fatalf("got %v, want 42", n)
	}
}

func TestEvaluateNumberCaptureParseFailureLeavesPriorValueUntouched(t *testing.T) {
	c, err := Compile(`^count=(?<count:Number>\w+)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := value.NewObject()
	rec.Set(value.MustParsePath("count"), value.NewNumber(99))

	matched := Evaluate(c, "count=abc", &rec)
	if !matched {
		t.Fatalf("expected regex match even though Number parse fails")
	}
	got, ok := rec.Get(value.MustParsePath("count"))
	if !ok {
		t.Fatalf("expected prior 'count' value to remain")
	}
	n, _ := got.AsNumber()
	if n != 99 {
		t.Fatalf("expected prior value 99 preserved, got %v", n)
	}
}

func TestEvaluateNonParticipatingGroupRemovesField(t *testing.T) {
	c, err := Compile(`^(?:ok(?<detail:String>:.*)?)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := value.NewObject()
	rec.Set(value.MustParsePath("detail"), value.NewString("stale"))

	matched := Evaluate(c, "ok", &rec)
	if !matched {
		t.Fatalf("expected match")
	}
	if rec.Exists(value.MustParsePath("detail")) {
		t.Fatalf("expected non-participating capture to remove stale field")
	}
}

func TestEvaluateDateCapture(t *testing.T) {
	c, err := Compile(`Starting test .* at (?<t:Date[yyyy-MM-dd' 'HH:mm:ss.SSS]>.{23})`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := value.NewObject()
	matched := Evaluate(c, "Starting test X at 2016-09-08 19:08:42.123", &rec)
	if !matched {
		t.Fatalf("expected match")
	}
	got, ok := rec.Get(value.MustParsePath("t"))
	if !ok {
		t.Fatalf("expected 't' field to be set")
	}
	secs, _ := got.AsNumber()
	wantWhole := float64(1473361722)
	if secs < wantWhole || secs >= wantWhole+1 {
		t.Fatalf("got %v seconds, want within [%v, %v)", secs, wantWhole, wantWhole+1)
	}
}

func TestTranslateDateFormat(t *testing.T) {
	got := translateDateFormat(`yyyy-MM-dd' 'HH:mm:ss.SSS`)
	want := "2006-01-02 15:04:05.000"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
