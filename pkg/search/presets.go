package search

import (
	"strings"

	"tableflip.dev/kcal/pkg/meal"
)

// Presets returns the presets whose name matches filter, keeping their
// order. An empty filter matches every preset. The input is not modified.
func Presets(presets []meal.Preset, filter string) []meal.Preset {
	if strings.TrimSpace(filter) == "" {
		return meal.ClonePresets(presets)
	}
	match := NewMatcher(filter)
	out := make([]meal.Preset, 0, len(presets))
	for _, p := range presets {
		if match.Match(p.Name) {
			out = append(out, p)
		}
	}
	return out
}
