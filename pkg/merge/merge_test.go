package merge

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"tableflip.dev/kcal/pkg/meal"
)

var (
	meal1 = meal.Entry{Name: "mockName1", Time: "01:01", Servings: 1, KcalPerServing: 100}
	meal2 = meal.Entry{Name: "mockName2", Time: "02:02", Servings: 1, KcalPerServing: 100}
	meal3 = meal.Entry{Name: "mockName3", Time: "03:03", Servings: 1, KcalPerServing: 100}
	meal4 = meal.Entry{Name: "mockName4", Time: "04:04", Servings: 1, KcalPerServing: 100}

	preset1 = meal.Preset{ID: "id1", Name: "mockPresetMeal", KcalPerServing: 100}
	preset2 = meal.Preset{ID: "id2", Name: "mockPresetMeal", KcalPerServing: 100}
)

func TestDataStores(t *testing.T) {
	overridden := meal3
	overridden.Servings = 42

	preferred := meal.DataStore{
		Database: meal.Database{
			"2020-01": {"01": {meal1}},
			"2020-03": {
				"10": {meal2},
				"20": {meal3},
			},
		},
		Presets: []meal.Preset{preset1},
	}
	merging := meal.DataStore{
		Database: meal.Database{
			"2020-02": {"01": {meal4}},
			"2020-03": {
				"15": {meal4},
				"20": {overridden, meal2},
			},
		},
		Presets: []meal.Preset{preset2},
	}

	got := DataStores(preferred, merging)

	want := meal.DataStore{
		Database: meal.Database{
			"2020-01": {"01": {meal1}},
			"2020-02": {"01": {meal4}},
			"2020-03": {
				"10": {meal2},
				// meal3 from merging loses to the preferred copy, then the
				// day is re-sorted since meal2 is earlier.
				"20": {meal2, meal3},
				"15": {meal4},
			},
		},
		Presets:  []meal.Preset{preset1, preset2},
		Settings: meal.DefaultSettings(),
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestDataStoresPreferredEntryWins(t *testing.T) {
	preferred := meal.DataStore{Database: meal.Database{"2020-01": {"01": {
		{Name: "eggs", Time: "08:00", Servings: 1, KcalPerServing: 100},
	}}}}
	merging := meal.DataStore{Database: meal.Database{"2020-01": {"01": {
		{Name: "eggs", Time: "08:00", Servings: 5, KcalPerServing: 999},
		{Name: "toast", Time: "08:05", Servings: 1, KcalPerServing: 80},
	}}}}

	got := DataStores(preferred, merging).Database["2020-01"]["01"]
	want := meal.Day{
		{Name: "eggs", Time: "08:00", Servings: 1, KcalPerServing: 100},
		{Name: "toast", Time: "08:05", Servings: 1, KcalPerServing: 80},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("day mismatch (-want +got):\n%s", diff)
	}
}

func TestPresetsKeepFirstByID(t *testing.T) {
	got := Presets(
		[]meal.Preset{{ID: "1", Name: "A", KcalPerServing: 50}},
		[]meal.Preset{{ID: "1", Name: "A-different", KcalPerServing: 999}, {ID: "2", Name: "B", KcalPerServing: 60}},
	)
	want := []meal.Preset{{ID: "1", Name: "A", KcalPerServing: 50}, {ID: "2", Name: "B", KcalPerServing: 60}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("presets mismatch (-want +got):\n%s", diff)
	}
}

func TestDataStoresIdempotentOnSelf(t *testing.T) {
	x := meal.DataStore{
		Database: meal.Database{
			"2021-05": {
				"01": {meal1, meal2},
				"02": {meal3},
			},
			"2021-06": {"30": {meal4}},
		},
		Presets:  []meal.Preset{preset1, preset2},
		Settings: meal.DefaultSettings(),
	}
	got := DataStores(x, x)
	if diff := cmp.Diff(x, got); diff != "" {
		t.Fatalf("self merge changed data (-want +got):\n%s", diff)
	}
}

func TestDataStoresEmptySide(t *testing.T) {
	x := meal.DataStore{Database: meal.Database{"2021-05": {"01": {meal2, meal1}}}}
	for name, got := range map[string]meal.DataStore{
		"empty merging":   DataStores(x, meal.DataStore{}),
		"empty preferred": DataStores(meal.DataStore{}, x),
	} {
		// Single sided days are carried verbatim, not re-sorted.
		if diff := cmp.Diff(x.Database, got.Database); diff != "" {
			t.Fatalf("%s: database mismatch (-want +got):\n%s", name, diff)
		}
	}
}

func TestDataStoresSettings(t *testing.T) {
	on, off := true, false
	preferred := meal.DataStore{Settings: meal.Settings{TimeFormat: meal.TimeFormat24}}
	merging := meal.DataStore{Settings: meal.Settings{
		TimeFormat:                     meal.TimeFormat12,
		ItemPageHasIntermediateDayPage: &off,
		Thresholds:                     meal.Thresholds{0: {1, 2, 3}},
	}}

	got := DataStores(preferred, merging).Settings
	want := meal.Settings{
		TimeFormat:                     meal.TimeFormat24,
		ItemPageHasIntermediateDayPage: &off,
		Thresholds:                     meal.Thresholds{0: {1, 2, 3}},
	}
	if !got.Equal(want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}

	got = DataStores(meal.DataStore{}, meal.DataStore{}).Settings
	if !got.Equal(meal.DefaultSettings()) || got.IntermediateDayPage() != on {
		t.Fatalf("expected defaults, got %+v", got)
	}
}

func TestDataStoresDoesNotAlias(t *testing.T) {
	preferred := meal.DataStore{
		Database: meal.Database{"2020-01": {"01": {meal1}}},
		Presets:  []meal.Preset{preset1},
		Settings: meal.Settings{Thresholds: meal.Thresholds{0: {1, 1, 1}}},
	}
	merging := meal.DataStore{Database: meal.Database{"2020-02": {"01": {meal2}}}}

	got := DataStores(preferred, merging)
	got.Database["2020-01"]["01"][0].Servings = 99
	got.Database["2020-02"]["01"][0].Servings = 99
	got.Presets[0].Name = "changed"
	got.Settings.Thresholds[0] = meal.RGB{9, 9, 9}

	if preferred.Database["2020-01"]["01"][0].Servings != 1 || merging.Database["2020-02"]["01"][0].Servings != 1 {
		t.Fatalf("merge result aliases the input database")
	}
	if preferred.Presets[0].Name != preset1.Name {
		t.Fatalf("merge result aliases the input presets")
	}
	if preferred.Settings.Thresholds[0] != (meal.RGB{1, 1, 1}) {
		t.Fatalf("merge result aliases the input thresholds")
	}
}
