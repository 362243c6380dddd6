package app

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"tableflip.dev/kcal/pkg/meal"
	"tableflip.dev/kcal/pkg/search"
	"tableflip.dev/kcal/pkg/validate"
)

const (
	// suggestionMinimum is how often a food must have been logged to be
	// suggested as a preset.
	suggestionMinimum = 2
	suggestionLimit   = 6
)

// Presets lists the presets matching filter in the given order.
func (s *Service) Presets(ctx context.Context, filter string, order meal.PresetOrder) ([]meal.Preset, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	presets := search.Presets(s.Persistence.Presets(ctx), filter)
	return meal.SortPresets(presets, order), nil
}

// SavePreset stores p. A preset with an ID replaces the stored preset with
// that ID and keeps its usage statistics; without an ID a new preset is
// created with an ID derived from the current time.
func (s *Service) SavePreset(ctx context.Context, p meal.Preset) (meal.Preset, error) {
	if s.Persistence == nil {
		return meal.Preset{}, errNoPersistence
	}
	if err := validate.Preset(p); err != nil {
		return meal.Preset{}, err
	}
	var saved meal.Preset
	err := s.Persistence.UpdatePresets(ctx, func(presets []meal.Preset) ([]meal.Preset, error) {
		if p.ID != "" {
			i := presetIndex(presets, p.ID)
			if i < 0 {
				return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, p.ID)
			}
			p.UsageCount = presets[i].UsageCount
			p.LastUsageTime = presets[i].LastUsageTime
			presets[i] = p
			saved = p
			return presets, nil
		}
		p.ID = s.newPresetID(presets)
		saved = p
		return append(presets, p), nil
	})
	if err != nil {
		return meal.Preset{}, err
	}
	return saved, nil
}

// newPresetID returns the current epoch milliseconds, bumped until unused.
func (s *Service) newPresetID(presets []meal.Preset) string {
	id := s.now().UnixMilli()
	for presetIndex(presets, strconv.FormatInt(id, 10)) >= 0 {
		id++
	}
	return strconv.FormatInt(id, 10)
}

// DeletePreset removes the preset with the given ID.
func (s *Service) DeletePreset(ctx context.Context, id string) error {
	return s.updatePreset(ctx, id, func(presets []meal.Preset, i int) []meal.Preset {
		return append(presets[:i], presets[i+1:]...)
	})
}

// ResetPresetUsage forgets how often and when a preset was used.
func (s *Service) ResetPresetUsage(ctx context.Context, id string) error {
	return s.updatePreset(ctx, id, func(presets []meal.Preset, i int) []meal.Preset {
		presets[i].UsageCount = 0
		presets[i].LastUsageTime = 0
		return presets
	})
}

// LogPreset logs a preset on date at clock and records the usage. The two
// are not atomic: once the entry is stored a failed usage update, such as
// for a preset deleted in between, is only logged.
func (s *Service) LogPreset(ctx context.Context, id, date, clock string, servings float64) (meal.Entry, error) {
	if s.Persistence == nil {
		return meal.Entry{}, errNoPersistence
	}
	presets := s.Persistence.Presets(ctx)
	i := presetIndex(presets, id)
	if i < 0 {
		return meal.Entry{}, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
	}
	p := presets[i]
	e := meal.Entry{Name: p.Name, Time: clock, Servings: servings, KcalPerServing: p.KcalPerServing}
	if err := s.AddEntry(ctx, date, e); err != nil {
		return meal.Entry{}, err
	}
	used := s.now().UnixMilli()
	err := s.updatePreset(ctx, id, func(presets []meal.Preset, i int) []meal.Preset {
		presets[i].UsageCount++
		presets[i].LastUsageTime = used
		return presets
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("preset", id).Msg("entry logged but usage not recorded")
	}
	return e, nil
}

func (s *Service) updatePreset(ctx context.Context, id string, change func([]meal.Preset, int) []meal.Preset) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	return s.Persistence.UpdatePresets(ctx, func(presets []meal.Preset) ([]meal.Preset, error) {
		i := presetIndex(presets, id)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrPresetNotFound, id)
		}
		return change(presets, i), nil
	})
}

func presetIndex(presets []meal.Preset, id string) int {
	for i, p := range presets {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Suggestion is a food logged often enough to be worth saving as a preset.
type Suggestion struct {
	Name           string  `json:"name"`
	KcalPerServing float64 `json:"kcalPerServing"`
	Times          int     `json:"times"`
}

// Suggestions looks at the entries of the current and previous month and
// returns the most frequent foods that no preset covers yet. Entries are
// grouped by trimmed, lower-cased name and kcal per serving.
func (s *Service) Suggestions(ctx context.Context) ([]Suggestion, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	presets := s.Persistence.Presets(ctx)
	now := s.now()
	thisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	months := []string{meal.YearMonthKey(thisMonth), meal.YearMonthKey(thisMonth.AddDate(0, -1, 0))}

	type food struct {
		name string
		kcal float64
	}
	counts := make(map[food]int)
	var order []food
	for _, ym := range months {
		month := s.Persistence.MonthData(ctx, ym)
		days := make([]string, 0, len(month))
		for day := range month {
			days = append(days, day)
		}
		sort.Strings(days)
		for _, day := range days {
			for _, e := range month[day] {
				if coveredByPreset(presets, e.Name) {
					continue
				}
				f := food{name: strings.ToLower(strings.TrimSpace(e.Name)), kcal: e.KcalPerServing}
				if counts[f] == 0 {
					order = append(order, f)
				}
				counts[f]++
			}
		}
	}

	suggestions := make([]Suggestion, 0, len(order))
	for _, f := range order {
		if counts[f] < suggestionMinimum {
			continue
		}
		suggestions = append(suggestions, Suggestion{Name: f.name, KcalPerServing: f.kcal, Times: counts[f]})
	}
	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Times > suggestions[j].Times
	})
	if len(suggestions) > suggestionLimit {
		suggestions = suggestions[:suggestionLimit]
	}
	return suggestions, nil
}

func coveredByPreset(presets []meal.Preset, name string) bool {
	for _, p := range presets {
		if p.SameFood(name) {
			return true
		}
	}
	return false
}
