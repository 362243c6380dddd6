package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/muesli/termenv"

	"tableflip.dev/kcal/pkg/app"
	"tableflip.dev/kcal/pkg/meal"
	"tableflip.dev/kcal/pkg/search"
	"tableflip.dev/kcal/pkg/stats"
)

func newTestPrinter() (*PrettyPrint, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf), &buf
}

func assertContains(t *testing.T, got string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Fatalf("expected output to contain %q, got:\n%s", w, got)
		}
	}
}

func TestNewIsPlainForBuffers(t *testing.T) {
	pp, _ := newTestPrinter()
	if pp.Profile != termenv.Ascii {
		t.Fatalf("expected no styling for a buffer, got profile %v", pp.Profile)
	}
}

func TestDay(t *testing.T) {
	pp, buf := newTestPrinter()
	pp.Day(app.DayView{
		Date: "2024-03-15",
		Entries: meal.Day{
			{Name: "scrambled eggs with toast", Time: "08:00", Servings: 2, KcalPerServing: 78},
			{Name: "coffee", Time: "13:30", Servings: 1, KcalPerServing: 5},
		},
		Kcal:     161,
		Color:    meal.RGB{173, 216, 230},
		HasColor: true,
	})
	got := buf.String()
	assertContains(t, got, "Friday, March 15 2024 - 2 entries",
		"Scrambled Eggs with Toast", "8:00 AM", "1:30 PM", "156", "Total 161 kcal")
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("expected no escape sequences, got %q", got)
	}
}

func TestDayTruncatesAndUses24h(t *testing.T) {
	pp, buf := newTestPrinter()
	pp.TimeFormat = meal.TimeFormat24
	pp.NameWidth = 10
	pp.Day(app.DayView{
		Date:    "2024-03-15",
		Entries: meal.Day{{Name: "a very long bowl of noodles", Time: "18:05", Servings: 1, KcalPerServing: 600}},
		Kcal:    600,
	})
	assertContains(t, buf.String(), "18:05", "A Very Lo…")
}

func TestEmptyDay(t *testing.T) {
	pp, buf := newTestPrinter()
	pp.Day(app.DayView{Date: "2024-03-15"})
	assertContains(t, buf.String(), "0 entries", "none")
}

func TestSearch(t *testing.T) {
	pp, buf := newTestPrinter()
	pp.Search(search.Result{
		Days: []search.DayResult{{
			Date:        "2024-03-02",
			Entries:     meal.Day{{Name: "chicken soup", Time: "12:00", Servings: 1, KcalPerServing: 250}},
			MatchedKcal: 250,
			DayKcal:     900,
		}},
		FoundCount: 1,
		Cursor:     "2024-03-02",
	})
	assertContains(t, buf.String(), "2024-03-02", "Chicken Soup", "matched 250 of 900 kcal", "1 found", "--from 2024-03-02")
}

func TestPresetsAndSuggestions(t *testing.T) {
	pp, buf := newTestPrinter()
	pp.Presets([]meal.Preset{
		{ID: "1710504000000", Name: "oats", KcalPerServing: 150, UsageCount: 3, LastUsageTime: time.Date(2024, 3, 15, 12, 0, 0, 0, time.Local).UnixMilli()},
		{ID: "2", Name: "milk", KcalPerServing: 60},
	})
	pp.Suggestions([]app.Suggestion{{Name: "banana", KcalPerServing: 105, Times: 3}})
	assertContains(t, buf.String(), "Presets - 2 presets", "1710504000000", "Oats", "2024-03-15", "never", "Banana", "3x")
}

func TestSettings(t *testing.T) {
	pp, buf := newTestPrinter()
	pp.Settings(meal.DefaultSettings())
	got := buf.String()
	assertContains(t, got, "12h", "≥ 3000", "224  96  96", "197 182 255")
	if strings.Index(got, "≥ 3000") > strings.Index(got, "≥ 0") {
		t.Fatalf("expected the highest floor first, got:\n%s", got)
	}
}

func TestCalendar(t *testing.T) {
	pp, buf := newTestPrinter()
	march := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.Local)
	pp.Calendar(march, []stats.DayTotal{{Day: 1, Kcal: 1800}}, meal.DefaultThresholds())

	lines := strings.Split(buf.String(), "\n")
	if !strings.Contains(lines[0], "March 2024") {
		t.Fatalf("expected the month title, got %q", lines[0])
	}
	// March 2024 starts on a Friday.
	if want := strings.Repeat("   ", 5) + " 1  2"; lines[2] != want {
		t.Fatalf("first week mismatch, want %q got %q", want, lines[2])
	}
	if lines[3] != " 3  4  5  6  7  8  9" {
		t.Fatalf("second week mismatch, got %q", lines[3])
	}
	if lines[7] != "31" {
		t.Fatalf("expected the 31st alone on the last week, got %q", lines[7])
	}
}

func TestMonth(t *testing.T) {
	pp, buf := newTestPrinter()
	month := meal.Month{
		"01": {{Name: "eggs", Time: "08:00", Servings: 1, KcalPerServing: 1000}},
		"02": {{Name: "soup", Time: "12:30", Servings: 1, KcalPerServing: 2000}},
	}
	var hours [24]float64
	hours[8], hours[12] = 1000, 2000
	pp.Month(app.MonthReport{
		YearMonth:  "2024-03",
		Month:      month,
		Days:       stats.DayTotals(month),
		Hours:      hours,
		Summary:    stats.Summarize(month),
		Thresholds: meal.DefaultThresholds(),
	})
	got := buf.String()
	assertContains(t, got, "March 2024", "Summary - 2 days", "3000", "1500", "2000 on day 2", "By hour",
		"08 "+strings.Repeat("█", 15)+" 1000", "12 "+strings.Repeat("█", 30)+" 2000")
}

func TestDaysInAndStartDay(t *testing.T) {
	tests := []struct {
		month time.Time
		days  int
		start time.Weekday
	}{
		{time.Date(2024, time.February, 10, 0, 0, 0, 0, time.Local), 29, time.Thursday},
		{time.Date(2023, time.February, 1, 0, 0, 0, 0, time.Local), 28, time.Wednesday},
		{time.Date(2024, time.December, 31, 0, 0, 0, 0, time.Local), 31, time.Sunday},
	}
	for _, tt := range tests {
		if got := DaysIn(tt.month); got != tt.days {
			t.Errorf("DaysIn(%s) = %d, want %d", tt.month.Format("2006-01"), got, tt.days)
		}
		if got := StartDay(tt.month); got != tt.start {
			t.Errorf("StartDay(%s) = %s, want %s", tt.month.Format("2006-01"), got, tt.start)
		}
	}
}
