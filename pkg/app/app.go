package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tableflip.dev/kcal/pkg/meal"
	"tableflip.dev/kcal/pkg/store"
	"tableflip.dev/kcal/pkg/validate"
)

// Service provides high-level operations on the journal. It wraps
// persistence and the pure journal helpers so the CLI commands share logic.
type Service struct {
	Persistence store.Persistence
	// Now is the clock, time.Now when nil.
	Now func() time.Time
}

var (
	ErrEntryNotFound  = errors.New("app: entry not found")
	ErrDuplicateEntry = errors.New("app: an entry with that name and time already exists")
	ErrPresetNotFound = errors.New("app: preset not found")

	errNoPersistence = errors.New("app: no persistence configured")
)

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Today is the date string of the current day.
func (s *Service) Today() string {
	return meal.DateString(s.now())
}

// DayView is one day of the journal ready for display.
type DayView struct {
	Date    string   `json:"date"`
	Entries meal.Day `json:"entries"`
	Kcal    float64  `json:"kcal"`
	// Color is the threshold colour of the day total, unset for an empty day.
	Color    meal.RGB `json:"color"`
	HasColor bool     `json:"-"`
}

// Day returns the entries of date, ordered by time.
func (s *Service) Day(ctx context.Context, date string) (DayView, error) {
	if s.Persistence == nil {
		return DayView{}, errNoPersistence
	}
	ym, day, err := meal.SplitDateString(date)
	if err != nil {
		return DayView{}, err
	}
	entries := s.Persistence.MonthData(ctx, ym)[day]
	if entries == nil {
		entries = meal.Day{}
	}
	meal.SortByTime(entries)
	view := DayView{Date: date, Entries: entries, Kcal: entries.Kcal()}
	view.Color, view.HasColor = s.Persistence.Settings(ctx).Thresholds.ColorFor(view.Kcal)
	return view, nil
}

// AddEntry logs a new entry on date. An entry with the same name and time
// on that day is a conflict.
func (s *Service) AddEntry(ctx context.Context, date string, e meal.Entry) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	if err := validate.Entry(e); err != nil {
		return err
	}
	ym, day, err := meal.SplitDateString(date)
	if err != nil {
		return err
	}
	return s.Persistence.UpdateMonth(ctx, ym, func(month meal.Month) (meal.Month, error) {
		if month[day].Index(e.Name, e.Time) >= 0 {
			return nil, fmt.Errorf("%w: %s at %s", ErrDuplicateEntry, e.Name, e.Time)
		}
		month[day] = append(month[day], e)
		return month, nil
	})
}

// EditEntry replaces the entry identified by (origName, origTime) on date.
// Renaming or moving it onto another existing entry is a conflict.
func (s *Service) EditEntry(ctx context.Context, date, origName, origTime string, e meal.Entry) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	if err := validate.Entry(e); err != nil {
		return err
	}
	ym, day, err := meal.SplitDateString(date)
	if err != nil {
		return err
	}
	return s.Persistence.UpdateMonth(ctx, ym, func(month meal.Month) (meal.Month, error) {
		entries := month[day]
		i := entries.Index(origName, origTime)
		if i < 0 {
			return nil, fmt.Errorf("%w: %s at %s on %s", ErrEntryNotFound, origName, origTime, date)
		}
		if !e.Is(origName, origTime) && entries.Index(e.Name, e.Time) >= 0 {
			return nil, fmt.Errorf("%w: %s at %s", ErrDuplicateEntry, e.Name, e.Time)
		}
		entries[i] = e
		return month, nil
	})
}

// DeleteEntry removes the entry identified by (name, clock) on date.
func (s *Service) DeleteEntry(ctx context.Context, date, name, clock string) error {
	if s.Persistence == nil {
		return errNoPersistence
	}
	ym, day, err := meal.SplitDateString(date)
	if err != nil {
		return err
	}
	if s.Persistence.MonthData(ctx, ym)[day].Index(name, clock) < 0 {
		return fmt.Errorf("%w: %s at %s on %s", ErrEntryNotFound, name, clock, date)
	}
	return s.Persistence.ModifyEntry(ctx, date, name, clock, nil)
}

// Settings returns the settings with defaults filled in.
func (s *Service) Settings(ctx context.Context) (meal.Settings, error) {
	if s.Persistence == nil {
		return meal.Settings{}, errNoPersistence
	}
	return s.Persistence.Settings(ctx), nil
}

// UpdateSettings applies change to the current settings and saves them.
func (s *Service) UpdateSettings(ctx context.Context, change func(*meal.Settings) error) (meal.Settings, error) {
	if s.Persistence == nil {
		return meal.Settings{}, errNoPersistence
	}
	settings := s.Persistence.Settings(ctx)
	if err := change(&settings); err != nil {
		return meal.Settings{}, err
	}
	if !settings.TimeFormat.Valid() {
		return meal.Settings{}, fmt.Errorf("app: unknown time format %q", settings.TimeFormat)
	}
	if err := s.Persistence.SetSettings(ctx, settings); err != nil {
		return meal.Settings{}, err
	}
	return settings, nil
}

// Watch subscribes to persistence change events.
func (s *Service) Watch(ctx context.Context) (<-chan store.Event, error) {
	if s.Persistence == nil {
		return nil, errNoPersistence
	}
	return s.Persistence.Watch(ctx)
}
