package timeutil

import (
	"testing"
	"time"
)

func TestParseWindowDefault(t *testing.T) {
	w, label, err := ParseWindow("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w != (Window{Days: 28}) {
		t.Fatalf("expected 28 days, got %+v", w)
	}
	if label != "4w" {
		t.Fatalf("expected label 4w, got %s", label)
	}
}

func TestParseWindowComposite(t *testing.T) {
	w, label, err := ParseWindow("1y 2months 10d")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Window{Years: 1, Months: 2, Days: 10}
	if w != want {
		t.Fatalf("expected %+v, got %+v", want, w)
	}
	if label != "1y2m1w3d" {
		t.Fatalf("unexpected label: %s", label)
	}
}

func TestParseWindowInvalid(t *testing.T) {
	for _, in := range []string{"noop", "3 fortnights", "0d", "2w!"} {
		if _, _, err := ParseWindow(in); err == nil {
			t.Errorf("expected error for %q", in)
		}
	}
}

func TestWindowSince(t *testing.T) {
	now := time.Date(2024, time.March, 15, 18, 45, 0, 0, time.UTC)
	tests := map[string]time.Time{
		"1d": time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC),
		"1w": time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC),
		"1m": time.Date(2024, time.February, 16, 0, 0, 0, 0, time.UTC),
		"1y": time.Date(2023, time.March, 16, 0, 0, 0, 0, time.UTC),
	}
	for in, want := range tests {
		w, _, err := ParseWindow(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if got := w.Since(now); !got.Equal(want) {
			t.Errorf("%s: expected %v, got %v", in, want, got)
		}
	}
}
