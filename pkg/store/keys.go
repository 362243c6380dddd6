package store

import (
	"strings"

	"tableflip.dev/kcal/pkg/meal"
)

const (
	presetsRecord  = "PRESETS"
	settingsRecord = "SETTINGS"
)

// recordKeys builds the namespaced keys of a journal.
type recordKeys struct {
	prefix string
}

func (r recordKeys) month(ym string) string {
	return r.prefix + "/" + ym
}

func (r recordKeys) presets() string {
	return r.prefix + "/" + presetsRecord
}

func (r recordKeys) settings() string {
	return r.prefix + "/" + settingsRecord
}

// recordKind classifies a stored key.
type recordKind int

const (
	kindOther recordKind = iota
	kindMonth
	kindPresets
	kindSettings
)

// parse splits a key into its kind and, for months, the year-month. Keys
// outside the prefix are kindOther.
func (r recordKeys) parse(key string) (recordKind, string) {
	name, ok := strings.CutPrefix(key, r.prefix+"/")
	if !ok {
		return kindOther, ""
	}
	switch {
	case name == presetsRecord:
		return kindPresets, ""
	case name == settingsRecord:
		return kindSettings, ""
	case meal.IsYearMonthKey(name):
		return kindMonth, name
	default:
		return kindOther, ""
	}
}
