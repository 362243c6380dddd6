// Package meal defines the calorie journal data model: logged entries filed
// by day and month, reusable presets, and application settings.
package meal

import "strings"

// Entry is one logged food item. Within a day an entry is identified by the
// pair (Name, Time).
type Entry struct {
	Time           string  `json:"time"`
	Name           string  `json:"name"`
	Servings       float64 `json:"servings"`
	KcalPerServing float64 `json:"kcalPerServing"`
}

// Kcal is the energy of the whole entry.
func (e Entry) Kcal() float64 {
	return e.Servings * e.KcalPerServing
}

// Is reports whether e has the given identity.
func (e Entry) Is(name, clock string) bool {
	return e.Name == name && e.Time == clock
}

// Day holds the entries filed under one day of a month. Storage order is not
// meaningful; use SortByTime for display.
type Day []Entry

// Kcal sums every entry of the day.
func (d Day) Kcal() float64 {
	total := 0.0
	for _, e := range d {
		total += e.Kcal()
	}
	return total
}

// Index returns the position of the entry identified by (name, clock) or -1.
func (d Day) Index(name, clock string) int {
	for i, e := range d {
		if e.Is(name, clock) {
			return i
		}
	}
	return -1
}

// Clone copies the day.
func (d Day) Clone() Day {
	if d == nil {
		return nil
	}
	out := make(Day, len(d))
	copy(out, d)
	return out
}

// Month maps a two digit day key ("01".."31") to that day's entries.
type Month map[string]Day

// Clone deep copies the month.
func (m Month) Clone() Month {
	out := make(Month, len(m))
	for k, d := range m {
		out[k] = d.Clone()
	}
	return out
}

// Database maps a "YYYY-MM" key to the month's data. Months without data may
// be absent.
type Database map[string]Month

// Clone deep copies the database.
func (db Database) Clone() Database {
	out := make(Database, len(db))
	for k, m := range db {
		out[k] = m.Clone()
	}
	return out
}

// Preset is a saved food that can be logged repeatedly. Presets are
// identified by ID; distinct presets may share a name and kcal value.
type Preset struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	KcalPerServing float64 `json:"kcalPerServing"`
	UsageCount     int     `json:"usageCount,omitempty"`
	// LastUsageTime is epoch milliseconds, zero when never used.
	LastUsageTime int64 `json:"lastUsageTime,omitempty"`
}

// SameFood reports whether the preset describes a food with the given name,
// ignoring case and surrounding whitespace.
func (p Preset) SameFood(name string) bool {
	return strings.EqualFold(strings.TrimSpace(p.Name), strings.TrimSpace(name))
}

// ClonePresets copies a preset list.
func ClonePresets(presets []Preset) []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// DataStore is the unit of import, export and merge.
type DataStore struct {
	Database Database `json:"database"`
	Presets  []Preset `json:"presets"`
	Settings Settings `json:"settings"`
}

// Empty returns a data store with no data and default settings.
func Empty() DataStore {
	return DataStore{
		Database: Database{},
		Presets:  []Preset{},
		Settings: DefaultSettings(),
	}
}

// Clone deep copies the data store.
func (ds DataStore) Clone() DataStore {
	return DataStore{
		Database: ds.Database.Clone(),
		Presets:  ClonePresets(ds.Presets),
		Settings: ds.Settings.Clone(),
	}
}

// HasContent reports whether the store holds any logged entry or preset.
func (ds DataStore) HasContent() bool {
	if len(ds.Presets) > 0 {
		return true
	}
	for _, m := range ds.Database {
		for _, d := range m {
			if len(d) > 0 {
				return true
			}
		}
	}
	return false
}
