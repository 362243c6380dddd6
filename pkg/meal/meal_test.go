package meal

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func times(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Time
	}
	return out
}

func TestSortByTime(t *testing.T) {
	entries := []Entry{
		{Time: "13:05", Name: "lunch"},
		{Time: "08:30", Name: "coffee"},
		{Time: "08:00", Name: "eggs"},
	}
	SortByTime(entries)
	if diff := cmp.Diff([]string{"08:00", "08:30", "13:05"}, times(entries)); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestSortByTimeStable(t *testing.T) {
	entries := []Entry{
		{Time: "09:00", Name: "b"},
		{Time: "garbage", Name: "x"},
		{Time: "09:00", Name: "a"},
		{Time: "7:15", Name: "c"},
	}
	SortByTime(entries)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	if diff := cmp.Diff([]string{"c", "b", "a", "x"}, names); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestSortPresets(t *testing.T) {
	presets := []Preset{
		{ID: "1", Name: "toast", UsageCount: 1, LastUsageTime: 300},
		{ID: "2", Name: "Apple", UsageCount: 5, LastUsageTime: 100},
		{ID: "3", Name: "banana", UsageCount: 5},
	}

	ids := func(ps []Preset) []string {
		var out []string
		for _, p := range ps {
			out = append(out, p.ID)
		}
		return out
	}

	tests := map[PresetOrder][]string{
		SortByName:       {"2", "3", "1"},
		SortByUsageCount: {"2", "3", "1"},
		SortByLastUsage:  {"1", "2", "3"},
	}
	for order, want := range tests {
		got := SortPresets(ClonePresets(presets), order)
		if diff := cmp.Diff(want, ids(got)); diff != "" {
			t.Errorf("%s: unexpected order (-want +got):\n%s", order, diff)
		}
	}
}

func TestParsePresetOrder(t *testing.T) {
	if o, err := ParsePresetOrder(""); err != nil || o != SortByName {
		t.Fatalf("expected default name order, got %q %v", o, err)
	}
	if _, err := ParsePresetOrder("calories"); err == nil {
		t.Fatalf("expected error for unknown order")
	}
}

func TestDayIndexAndKcal(t *testing.T) {
	d := Day{
		{Time: "08:00", Name: "eggs", Servings: 2, KcalPerServing: 70},
		{Time: "12:00", Name: "soup", Servings: 1, KcalPerServing: 250},
	}
	if got := d.Kcal(); got != 390 {
		t.Fatalf("expected 390 kcal, got %v", got)
	}
	if i := d.Index("soup", "12:00"); i != 1 {
		t.Fatalf("expected index 1, got %d", i)
	}
	if i := d.Index("soup", "12:01"); i != -1 {
		t.Fatalf("expected missing entry, got %d", i)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	ds := DataStore{
		Database: Database{"2020-01": {"01": {{Time: "08:00", Name: "eggs", Servings: 1, KcalPerServing: 100}}}},
		Presets:  []Preset{{ID: "1", Name: "A", KcalPerServing: 50}},
		Settings: DefaultSettings(),
	}
	cp := ds.Clone()
	cp.Database["2020-01"]["01"][0].Servings = 9
	cp.Presets[0].Name = "changed"
	cp.Settings.Thresholds[0] = RGB{1, 2, 3}

	if ds.Database["2020-01"]["01"][0].Servings != 1 {
		t.Fatalf("clone shares day entries")
	}
	if ds.Presets[0].Name != "A" {
		t.Fatalf("clone shares presets")
	}
	if ds.Settings.Thresholds[0] == (RGB{1, 2, 3}) {
		t.Fatalf("clone shares thresholds")
	}
}

func TestHasContent(t *testing.T) {
	if Empty().HasContent() {
		t.Fatalf("empty store reported content")
	}
	ds := Empty()
	ds.Database["2020-01"] = Month{"01": Day{}}
	if ds.HasContent() {
		t.Fatalf("store with only empty days reported content")
	}
	ds.Database["2020-01"]["01"] = Day{{Time: "08:00", Name: "eggs", Servings: 1, KcalPerServing: 1}}
	if !ds.HasContent() {
		t.Fatalf("expected content")
	}
}

func TestSettingsOverlay(t *testing.T) {
	off := false
	stored := Settings{
		TimeFormat:                     TimeFormat24,
		ItemPageHasIntermediateDayPage: &off,
	}
	got := DefaultSettings().Overlay(stored)
	if got.TimeFormat != TimeFormat24 {
		t.Fatalf("expected 24h format, got %q", got.TimeFormat)
	}
	if got.IntermediateDayPage() {
		t.Fatalf("expected intermediate day page disabled")
	}
	if diff := cmp.Diff(DefaultThresholds(), got.Thresholds); diff != "" {
		t.Fatalf("thresholds should backfill from defaults (-want +got):\n%s", diff)
	}
	if got.Equal(DefaultSettings()) {
		t.Fatalf("overlaid settings should differ from defaults")
	}
	if !DefaultSettings().Equal(DefaultSettings().Overlay(Settings{})) {
		t.Fatalf("overlaying nothing should keep defaults")
	}
}

func TestThresholdsColorFor(t *testing.T) {
	th := DefaultThresholds()
	tests := []struct {
		kcal float64
		want RGB
		ok   bool
	}{
		{kcal: 0, ok: false},
		{kcal: 1, want: RGB{197, 182, 255}, ok: true},
		{kcal: 1000, want: RGB{255, 182, 193}, ok: true},
		{kcal: 2399, want: RGB{255, 255, 0}, ok: true},
		{kcal: 5000, want: RGB{224, 96, 96}, ok: true},
	}
	for _, tt := range tests {
		got, ok := th.ColorFor(tt.kcal)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ColorFor(%v) = %v, %v; want %v, %v", tt.kcal, got, ok, tt.want, tt.ok)
		}
	}

	below := Thresholds{500: {1, 2, 3}, 900: {4, 5, 6}}
	if got, _ := below.ColorFor(100); got != (RGB{1, 2, 3}) {
		t.Fatalf("expected lowest floor colour, got %v", got)
	}
}

func TestDateKeys(t *testing.T) {
	d := time.Date(2024, time.March, 7, 13, 5, 0, 0, time.UTC)
	if YearMonthKey(d) != "2024-03" || DayKey(d) != "07" || DateString(d) != "2024-03-07" || Clock(d) != "13:05" {
		t.Fatalf("unexpected keys %s %s %s %s", YearMonthKey(d), DayKey(d), DateString(d), Clock(d))
	}
	ym, day, err := SplitDateString("2024-03-07")
	if err != nil || ym != "2024-03" || day != "07" {
		t.Fatalf("split: %q %q %v", ym, day, err)
	}
	for _, bad := range []string{"2024-3-07", "2024-03", "not-a-date", "2024/03/07"} {
		if _, _, err := SplitDateString(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseClock(t *testing.T) {
	tests := map[string][2]int{"08:30": {8, 30}, "7:05": {7, 5}, "23:59": {23, 59}}
	for in, want := range tests {
		h, m, ok := ParseClock(in)
		if !ok || h != want[0] || m != want[1] {
			t.Errorf("ParseClock(%q) = %d, %d, %v", in, h, m, ok)
		}
	}
	for _, bad := range []string{"", "mockTime", "24:00", "12:60", "12"} {
		if _, _, ok := ParseClock(bad); ok {
			t.Errorf("expected %q to be rejected", bad)
		}
	}
}

func TestFormatName(t *testing.T) {
	tests := map[string]string{
		"bowl of fried rice 100g":   "Bowl of Fried Rice 100g",
		"  the   BEST toast  ":      "The Best Toast",
		"coffee with milk 50mL":     "Coffee with Milk 50mL",
		"":                          "",
		"chicken soup and crackers": "Chicken Soup and Crackers",
	}
	for in, want := range tests {
		if got := FormatName(in); got != want {
			t.Errorf("FormatName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		in     string
		format TimeFormat
		want   string
	}{
		{"13:05", TimeFormat12, "1:05 PM"},
		{"00:10", TimeFormat12, "12:10 AM"},
		{"12:00", TimeFormat12, "12:00 PM"},
		{"7:05", TimeFormat24, "07:05"},
		{"late", TimeFormat24, "late"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.in, tt.format); got != tt.want {
			t.Errorf("FormatClock(%q, %s) = %q, want %q", tt.in, tt.format, got, tt.want)
		}
	}
}
