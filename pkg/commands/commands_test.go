package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tableflip.dev/kcal/pkg/app"
	"tableflip.dev/kcal/pkg/meal"
	"tableflip.dev/kcal/pkg/search"
)

// useJournal points the config at an empty journal under a temp dir.
func useJournal(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("KCAL_CONFIG_PATH", dir)
	t.Setenv("KCAL_PATH", filepath.Join(dir, "journal"))
	t.Setenv("KCAL_LOG_LEVEL", "error")
	return dir
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := New()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("kcal %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func decode(t *testing.T, out string, v interface{}) {
	t.Helper()
	if err := json.Unmarshal([]byte(out), v); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
}

func TestEntryLifecycle(t *testing.T) {
	useJournal(t)

	out := mustRun(t, "add", "scrambled", "eggs", "--kcal", "78", "--servings", "2", "--time", "8:00", "--on", "2024-03-15")
	if !strings.Contains(out, "Scrambled Eggs") || !strings.Contains(out, "156") {
		t.Fatalf("unexpected add output:\n%s", out)
	}
	if _, err := run(t, "add", "scrambled eggs", "--kcal", "78", "--time", "08:00", "--on", "2024-03-15"); !errors.Is(err, app.ErrDuplicateEntry) {
		t.Fatalf("expected ErrDuplicateEntry, got %v", err)
	}

	var view app.DayView
	decode(t, mustRun(t, "edit", "scrambled eggs", "08:00", "--servings", "3", "--on", "2024-03-15", "--json"), &view)
	if view.Kcal != 234 || len(view.Entries) != 1 {
		t.Fatalf("unexpected day after edit %+v", view)
	}

	decode(t, mustRun(t, "day", "2024-03-15", "--json"), &view)
	if view.Entries[0].Time != "08:00" || view.Entries[0].Servings != 3 {
		t.Fatalf("unexpected day %+v", view)
	}

	var res search.Result
	decode(t, mustRun(t, "search", "eggs", "--json"), &res)
	if res.FoundCount != 1 || res.Days[0].Date != "2024-03-15" {
		t.Fatalf("unexpected search %+v", res)
	}

	mustRun(t, "rm", "scrambled eggs", "08:00", "--on", "2024-03-15")
	if _, err := run(t, "rm", "scrambled eggs", "08:00", "--on", "2024-03-15"); !errors.Is(err, app.ErrEntryNotFound) {
		t.Fatalf("expected ErrEntryNotFound, got %v", err)
	}
}

func TestJSONErrorsAreHandled(t *testing.T) {
	useJournal(t)
	// With --json the error is reported as a document and the command succeeds.
	if _, err := run(t, "rm", "nothing", "08:00", "--json"); err != nil {
		t.Fatalf("expected the error to be reported as JSON, got %v", err)
	}
}

func TestPresetsCommands(t *testing.T) {
	useJournal(t)

	var saved meal.Preset
	decode(t, mustRun(t, "presets", "add", "oats", "--kcal", "150", "--json"), &saved)
	if saved.ID == "" || saved.Name != "oats" {
		t.Fatalf("unexpected preset %+v", saved)
	}

	out := mustRun(t, "presets", "log", saved.ID, "--servings", "2", "--time", "07:30", "--on", "2024-03-15")
	if !strings.Contains(out, "Oats") || !strings.Contains(out, "300") {
		t.Fatalf("unexpected log output:\n%s", out)
	}

	var presets []meal.Preset
	decode(t, mustRun(t, "presets", "--sort", "usage", "--json"), &presets)
	if len(presets) != 1 || presets[0].UsageCount != 1 {
		t.Fatalf("unexpected presets %+v", presets)
	}

	mustRun(t, "presets", "reset", saved.ID)
	mustRun(t, "presets", "rm", saved.ID)
	if _, err := run(t, "presets", "rm", saved.ID); !errors.Is(err, app.ErrPresetNotFound) {
		t.Fatalf("expected ErrPresetNotFound, got %v", err)
	}
	if _, err := run(t, "presets", "--sort", "calories"); err == nil {
		t.Fatalf("expected an error for an unknown order")
	}
}

func TestSettingsCommand(t *testing.T) {
	useJournal(t)

	var settings meal.Settings
	decode(t, mustRun(t, "settings", "--time-format", "24", "--threshold", "2000=#ffff00", "--remove-threshold", "1000", "--json"), &settings)
	if settings.TimeFormat != meal.TimeFormat24 {
		t.Fatalf("expected the 24h clock, got %q", settings.TimeFormat)
	}
	if settings.Thresholds[2000] != (meal.RGB{255, 255, 0}) {
		t.Fatalf("unexpected threshold %v", settings.Thresholds[2000])
	}
	if _, ok := settings.Thresholds[1000]; ok {
		t.Fatalf("expected the 1000 threshold to be removed")
	}

	mustRun(t, "add", "soup", "--kcal", "300", "--time", "18:30", "--on", "2024-03-15")
	if out := mustRun(t, "day", "2024-03-15"); !strings.Contains(out, "18:30") {
		t.Fatalf("expected the stored time format to be used:\n%s", out)
	}

	if _, err := run(t, "settings", "--time-format", "36"); err == nil {
		t.Fatalf("expected an error for an unknown time format")
	}
}

func TestExportImport(t *testing.T) {
	dir := useJournal(t)
	mustRun(t, "add", "eggs", "--kcal", "78", "--time", "08:00", "--on", "2024-03-15")

	backup := filepath.Join(dir, "backup.json")
	mustRun(t, "export", "--file", backup)
	b, err := os.ReadFile(backup)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"2024-03"`) {
		t.Fatalf("unexpected export:\n%s", b)
	}

	// A fresh journal takes the backup as it is.
	t.Setenv("KCAL_PATH", filepath.Join(dir, "other"))
	var res app.ImportResult
	decode(t, mustRun(t, "import", backup, "--json"), &res)
	if res.Merged || res.Entries != 1 || res.Months != 1 {
		t.Fatalf("unexpected import %+v", res)
	}

	if _, err := run(t, "import", backup, "--mode", "sideways"); err == nil {
		t.Fatalf("expected an error for an unknown mode")
	}
	if _, err := run(t, "import", filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

func TestMonthAndInfo(t *testing.T) {
	useJournal(t)
	mustRun(t, "add", "soup", "--kcal", "300", "--time", "12:00", "--on", "2024-03-01")
	mustRun(t, "add", "pizza", "--kcal", "900", "--time", "19:00", "--on", "2024-03-02")

	var report app.MonthReport
	decode(t, mustRun(t, "month", "2024-03", "--json"), &report)
	if report.Summary.DaysTracked != 2 || report.Summary.TotalKcal != 1200 || report.Summary.PeakDay.Day != 2 {
		t.Fatalf("unexpected summary %+v", report.Summary)
	}
	if out := mustRun(t, "month", "2024-03"); !strings.Contains(out, "March 2024") {
		t.Fatalf("unexpected month output:\n%s", out)
	}

	var info Info
	decode(t, mustRun(t, "info", "--json"), &info)
	if len(info.Months) != 1 || info.Months[0] != "2024-03" || info.Prefix != "@kcal" {
		t.Fatalf("unexpected info %+v", info)
	}
}

func TestSearchRequiresFilter(t *testing.T) {
	useJournal(t)
	if _, err := run(t, "search", "ab"); err == nil {
		t.Fatalf("expected an error for a short filter")
	}
}
