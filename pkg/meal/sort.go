package meal

import (
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortByTime orders entries in place by (hour, minute), keeping the relative
// order of entries at the same time. Entries whose time cannot be parsed go
// last. The slice is returned for convenience.
func SortByTime(entries []Entry) []Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return clockLess(entries[i].Time, entries[j].Time)
	})
	return entries
}

func clockLess(a, b string) bool {
	ah, am, aok := ParseClock(a)
	bh, bm, bok := ParseClock(b)
	switch {
	case !aok:
		return false
	case !bok:
		return true
	case ah != bh:
		return ah < bh
	default:
		return am < bm
	}
}

// PresetOrder is a display ordering for presets.
type PresetOrder string

const (
	SortByName       PresetOrder = "name"
	SortByLastUsage  PresetOrder = "recent"
	SortByUsageCount PresetOrder = "usage"
)

// ParsePresetOrder maps a flag value to an order.
func ParsePresetOrder(s string) (PresetOrder, error) {
	switch o := PresetOrder(s); o {
	case SortByName, SortByLastUsage, SortByUsageCount:
		return o, nil
	case "":
		return SortByName, nil
	default:
		return "", fmt.Errorf("meal: unknown preset order %q, expected one of name, recent, usage", s)
	}
}

// SortPresetsByName orders presets in place by name using English collation.
func SortPresetsByName(presets []Preset) []Preset {
	c := collate.New(language.English, collate.Loose)
	sort.SliceStable(presets, func(i, j int) bool {
		return c.CompareString(presets[i].Name, presets[j].Name) < 0
	})
	return presets
}

// SortPresets orders presets in place. Every order starts from the name order
// so ties stay alphabetical.
func SortPresets(presets []Preset, order PresetOrder) []Preset {
	SortPresetsByName(presets)
	switch order {
	case SortByLastUsage:
		sort.SliceStable(presets, func(i, j int) bool {
			return presets[i].LastUsageTime > presets[j].LastUsageTime
		})
	case SortByUsageCount:
		sort.SliceStable(presets, func(i, j int) bool {
			return presets[i].UsageCount > presets[j].UsageCount
		})
	}
	return presets
}
