// Package merge combines two journals into one. The preferred side wins
// every conflict.
package merge

import "tableflip.dev/kcal/pkg/meal"

// DataStores merges merging into preferred and returns a new data store.
// Neither argument is modified and the result shares no memory with them.
func DataStores(preferred, merging meal.DataStore) meal.DataStore {
	return meal.DataStore{
		Database: Databases(preferred.Database, merging.Database),
		Presets:  Presets(preferred.Presets, merging.Presets),
		Settings: meal.DefaultSettings().Overlay(merging.Settings).Overlay(preferred.Settings),
	}
}

// Databases merges month by month. Months present on one side only are
// copied as they are.
func Databases(preferred, merging meal.Database) meal.Database {
	out := make(meal.Database, len(preferred)+len(merging))
	for ym, month := range preferred {
		if other, ok := merging[ym]; ok {
			out[ym] = Months(month, other)
			continue
		}
		out[ym] = month.Clone()
	}
	for ym, month := range merging {
		if _, ok := preferred[ym]; !ok {
			out[ym] = month.Clone()
		}
	}
	return out
}

// Months merges day by day.
func Months(preferred, merging meal.Month) meal.Month {
	out := make(meal.Month, len(preferred)+len(merging))
	for day, entries := range preferred {
		if other, ok := merging[day]; ok {
			out[day] = Days(entries, other)
			continue
		}
		out[day] = entries.Clone()
	}
	for day, entries := range merging {
		if _, ok := preferred[day]; !ok {
			out[day] = entries.Clone()
		}
	}
	return out
}

// Days concatenates both days, drops later entries whose (name, time) was
// already seen and sorts the result by time.
func Days(preferred, merging meal.Day) meal.Day {
	type identity struct{ name, time string }
	seen := make(map[identity]bool, len(preferred)+len(merging))
	out := make(meal.Day, 0, len(preferred)+len(merging))
	for _, side := range []meal.Day{preferred, merging} {
		for _, e := range side {
			id := identity{e.Name, e.Time}
			if seen[id] {
				continue
			}
			seen[id] = true
			out = append(out, e)
		}
	}
	return meal.SortByTime(out)
}

// Presets concatenates both lists and keeps the first preset for each ID.
func Presets(preferred, merging []meal.Preset) []meal.Preset {
	seen := make(map[string]bool, len(preferred)+len(merging))
	out := make([]meal.Preset, 0, len(preferred)+len(merging))
	for _, side := range [][]meal.Preset{preferred, merging} {
		for _, p := range side {
			if seen[p.ID] {
				continue
			}
			seen[p.ID] = true
			out = append(out, p)
		}
	}
	return out
}
