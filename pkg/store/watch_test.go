package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/kcal/pkg/meal"
)

func TestPersistenceWatchEmitsMonthChanges(t *testing.T) {
	base := t.TempDir()
	p, err := Load(&FileConfig{Path: base}, zerolog.Nop())
	if err != nil {
		t.Fatalf("load persistence: %v", err)
	}
	bg := context.Background()
	// Create the prefix directory before watching.
	if err := p.SetPresets(bg, []meal.Preset{}); err != nil {
		t.Fatalf("set presets: %v", err)
	}

	ctx, cancel := context.WithCancel(bg)
	defer cancel()

	ch, err := p.Watch(ctx)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	// Allow watcher goroutine to subscribe to directories before storing.
	time.Sleep(50 * time.Millisecond)

	// Another process writes the month behind our back.
	other := NewDiskKV(base)
	if err := other.Set("@kcal/2024-05", []byte(`{"01":[{"name":"tea","time":"09:00","servings":1,"kcalPerServing":5}]}`)); err != nil {
		t.Fatalf("external write: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-ch:
			if evt.Type == EventInvalidated {
				return
			}
			if evt.Type == EventMonthChanged {
				if evt.Key != "2024-05" {
					t.Fatalf("expected month '2024-05', got %q", evt.Key)
				}
				if day := p.MonthData(bg, "2024-05")["01"]; len(day) != 1 {
					t.Fatalf("expected the external write to be visible, got %v", day)
				}
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for month change event")
		}
	}
}

func TestWatchUnsupportedOnMemory(t *testing.T) {
	p := New(NewMemoryKV(), "", zerolog.Nop())
	if _, err := p.Watch(context.Background()); !errors.Is(err, ErrWatchUnsupported) {
		t.Fatalf("expected ErrWatchUnsupported, got %v", err)
	}
}

func TestEventThrottleCoalesces(t *testing.T) {
	th := newEventThrottle(20 * time.Millisecond)
	defer th.Stop()

	got := make(chan Event, 10)
	send := func(ev Event) { got <- ev }
	for i := 0; i < 5; i++ {
		th.Enqueue(Event{Type: EventMonthChanged, Key: "2024-01"}, send)
	}

	select {
	case ev := <-got:
		if ev.Key != "2024-01" {
			t.Fatalf("unexpected event %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for flush")
	}
	select {
	case ev := <-got:
		t.Fatalf("expected a single coalesced event, got another %+v", ev)
	case <-time.After(60 * time.Millisecond):
	}
}
