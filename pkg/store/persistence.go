// Package store persists the calorie journal to a key-value byte store and
// keeps a read-through cache of it.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"tableflip.dev/kcal/pkg/meal"
)

// Persistence defines the persistence contract for the journal. Reads never
// fail: a missing or unreadable record is logged and read as empty. Writes
// go to the cache first and then to the byte store, and report store errors.
// Values returned to callers are copies and may be modified freely.
type Persistence interface {
	MonthData(ctx context.Context, ym string) meal.Month
	SetMonthData(ctx context.Context, ym string, month meal.Month) error
	// UpdateMonth runs a read-modify-write of one month while holding that
	// month's lock. fn gets a private copy; when it returns an error nothing
	// is written. Unlike MonthData, a failing read is returned and fn is not
	// called.
	UpdateMonth(ctx context.Context, ym string, fn func(meal.Month) (meal.Month, error)) error
	// ModifyEntry replaces the entry identified by (origName, origTime) on the
	// given "YYYY-MM-DD" date with updated, appends updated when there is no
	// such entry, or deletes the entry when updated is nil.
	ModifyEntry(ctx context.Context, date, origName, origTime string, updated *meal.Entry) error
	MonthKeys(ctx context.Context) ([]string, error)

	Presets(ctx context.Context) []meal.Preset
	SetPresets(ctx context.Context, presets []meal.Preset) error
	// UpdatePresets is UpdateMonth for the preset list.
	UpdatePresets(ctx context.Context, fn func([]meal.Preset) ([]meal.Preset, error)) error

	// Settings returns the stored settings with defaults filled in. When the
	// backfill changed anything the completed settings are written back.
	Settings(ctx context.Context) meal.Settings
	// CachedSettings returns the last settings read or written without
	// touching the store, or the defaults when there are none yet.
	CachedSettings() meal.Settings
	SetSettings(ctx context.Context, settings meal.Settings) error

	AllKnownData(ctx context.Context) (meal.DataStore, error)
	// Import writes every month, the presets and the settings of ds. With
	// replace, stored months that ds does not have are erased.
	Import(ctx context.Context, ds meal.DataStore, replace bool) error

	Watch(ctx context.Context) (<-chan Event, error)
}

// New creates a Persistence over kv with every record key under prefix.
func New(kv KV, prefix string, log zerolog.Logger) Persistence {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &persistence{
		kv:     kv,
		keys:   recordKeys{prefix: prefix},
		log:    log.With().Str("component", "store").Logger(),
		months: make(map[string]meal.Month),
	}
}

type persistence struct {
	kv   KV
	keys recordKeys
	log  zerolog.Logger

	loads  singleflight.Group
	writes keyedMutex

	mu       sync.RWMutex
	months   map[string]meal.Month
	presets  []meal.Preset
	settings *meal.Settings
}

func (p *persistence) MonthData(ctx context.Context, ym string) meal.Month {
	p.mu.RLock()
	month, ok := p.months[ym]
	p.mu.RUnlock()
	if ok {
		return month.Clone()
	}

	v, _, _ := p.loads.Do("month/"+ym, func() (interface{}, error) {
		month := meal.Month{}
		if err := p.readRecord(p.keys.month(ym), &month); err != nil {
			return meal.Month{}, nil
		}
		if month == nil {
			month = meal.Month{}
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		// A write that landed while we were reading wins.
		if current, ok := p.months[ym]; ok {
			return current, nil
		}
		p.months[ym] = month
		return month, nil
	})
	return v.(meal.Month).Clone()
}

func (p *persistence) SetMonthData(ctx context.Context, ym string, month meal.Month) error {
	unlock := p.writes.Lock(ym)
	defer unlock()
	return p.setMonth(ym, month)
}

func (p *persistence) setMonth(ym string, month meal.Month) error {
	if !meal.IsYearMonthKey(ym) {
		return pkgerrors.Errorf("store: %q is not a year-month key", ym)
	}
	month = month.Clone()
	p.mu.Lock()
	p.months[ym] = month
	p.mu.Unlock()
	return p.writeRecord(p.keys.month(ym), month)
}

func (p *persistence) UpdateMonth(ctx context.Context, ym string, fn func(meal.Month) (meal.Month, error)) error {
	unlock := p.writes.Lock(ym)
	defer unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	month, err := p.loadMonth(ym)
	if err != nil {
		return err
	}
	if month, err = fn(month); err != nil {
		return err
	}
	return p.setMonth(ym, month)
}

// loadMonth is MonthData for writers: a failing byte store is an error
// rather than an empty month.
func (p *persistence) loadMonth(ym string) (meal.Month, error) {
	p.mu.RLock()
	month, ok := p.months[ym]
	p.mu.RUnlock()
	if ok {
		return month.Clone(), nil
	}
	month = meal.Month{}
	if err := p.readRecord(p.keys.month(ym), &month); err != nil {
		return nil, pkgerrors.Wrapf(err, "store: read %s", ym)
	}
	if month == nil {
		month = meal.Month{}
	}
	return month, nil
}

func (p *persistence) ModifyEntry(ctx context.Context, date, origName, origTime string, updated *meal.Entry) error {
	ym, day, err := meal.SplitDateString(date)
	if err != nil {
		return err
	}
	return p.UpdateMonth(ctx, ym, func(month meal.Month) (meal.Month, error) {
		entries := month[day]
		i := entries.Index(origName, origTime)
		switch {
		case updated == nil && i < 0:
			return month, nil
		case updated == nil:
			entries = append(entries[:i], entries[i+1:]...)
		case i < 0:
			entries = append(entries, *updated)
		default:
			entries[i] = *updated
		}
		month[day] = entries
		return month, nil
	})
}

func (p *persistence) MonthKeys(ctx context.Context) ([]string, error) {
	keys, err := p.kv.Keys(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "store: list keys")
	}
	months := make([]string, 0, len(keys))
	for _, key := range keys {
		if kind, ym := p.keys.parse(key); kind == kindMonth {
			months = append(months, ym)
		}
	}
	return months, nil
}

func (p *persistence) Presets(ctx context.Context) []meal.Preset {
	p.mu.RLock()
	presets := p.presets
	p.mu.RUnlock()
	if presets != nil {
		return meal.ClonePresets(presets)
	}

	v, _, _ := p.loads.Do("presets", func() (interface{}, error) {
		presets := []meal.Preset{}
		if err := p.readRecord(p.keys.presets(), &presets); err != nil {
			return []meal.Preset{}, nil
		}
		if presets == nil {
			presets = []meal.Preset{}
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.presets != nil {
			return p.presets, nil
		}
		p.presets = presets
		return presets, nil
	})
	return meal.ClonePresets(v.([]meal.Preset))
}

func (p *persistence) SetPresets(ctx context.Context, presets []meal.Preset) error {
	unlock := p.writes.Lock(presetsRecord)
	defer unlock()
	return p.setPresets(presets)
}

func (p *persistence) setPresets(presets []meal.Preset) error {
	presets = meal.ClonePresets(presets)
	p.mu.Lock()
	p.presets = presets
	p.mu.Unlock()
	return p.writeRecord(p.keys.presets(), presets)
}

func (p *persistence) UpdatePresets(ctx context.Context, fn func([]meal.Preset) ([]meal.Preset, error)) error {
	unlock := p.writes.Lock(presetsRecord)
	defer unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	presets, err := p.loadPresets()
	if err != nil {
		return err
	}
	if presets, err = fn(presets); err != nil {
		return err
	}
	return p.setPresets(presets)
}

func (p *persistence) loadPresets() ([]meal.Preset, error) {
	p.mu.RLock()
	presets := p.presets
	p.mu.RUnlock()
	if presets != nil {
		return meal.ClonePresets(presets), nil
	}
	presets = []meal.Preset{}
	if err := p.readRecord(p.keys.presets(), &presets); err != nil {
		return nil, pkgerrors.Wrap(err, "store: read presets")
	}
	if presets == nil {
		presets = []meal.Preset{}
	}
	return presets, nil
}

func (p *persistence) Settings(ctx context.Context) meal.Settings {
	p.mu.RLock()
	cached := p.settings
	p.mu.RUnlock()
	if cached != nil {
		return cached.Clone()
	}

	v, _, _ := p.loads.Do("settings", func() (interface{}, error) {
		var stored meal.Settings
		if err := p.readRecord(p.keys.settings(), &stored); err != nil {
			// The stored record may be fine, so it is neither
			// overwritten nor cached.
			return meal.DefaultSettings(), nil
		}
		settings := meal.DefaultSettings().Overlay(stored)
		if !settings.Equal(stored) {
			p.log.Debug().Msg("backfilling settings with defaults")
			if err := p.writeRecord(p.keys.settings(), settings); err != nil {
				// Already logged; the backfill is retried on the next load.
				return settings, nil
			}
		}
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.settings != nil {
			return *p.settings, nil
		}
		p.settings = &settings
		return settings, nil
	})
	return v.(meal.Settings).Clone()
}

func (p *persistence) CachedSettings() meal.Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.settings == nil {
		return meal.DefaultSettings()
	}
	return p.settings.Clone()
}

func (p *persistence) SetSettings(ctx context.Context, settings meal.Settings) error {
	unlock := p.writes.Lock(settingsRecord)
	defer unlock()
	settings = meal.DefaultSettings().Overlay(settings)
	p.mu.Lock()
	p.settings = &settings
	p.mu.Unlock()
	return p.writeRecord(p.keys.settings(), settings)
}

func (p *persistence) AllKnownData(ctx context.Context) (meal.DataStore, error) {
	months, err := p.MonthKeys(ctx)
	if err != nil {
		return meal.DataStore{}, err
	}
	ds := meal.DataStore{Database: make(meal.Database, len(months))}
	for _, ym := range months {
		if ds.Database[ym], err = p.loadMonth(ym); err != nil {
			return meal.DataStore{}, err
		}
	}
	if ds.Presets, err = p.loadPresets(); err != nil {
		return meal.DataStore{}, err
	}
	ds.Settings = p.Settings(ctx)
	return ds, nil
}

func (p *persistence) Import(ctx context.Context, ds meal.DataStore, replace bool) error {
	if replace {
		existing, err := p.MonthKeys(ctx)
		if err != nil {
			return err
		}
		for _, ym := range existing {
			if _, keep := ds.Database[ym]; keep {
				continue
			}
			if err := p.eraseMonth(ym); err != nil {
				return err
			}
		}
	}
	for ym, month := range ds.Database {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := p.SetMonthData(ctx, ym, month); err != nil {
			return err
		}
	}
	presets := ds.Presets
	if presets == nil {
		presets = []meal.Preset{}
	}
	if err := p.SetPresets(ctx, presets); err != nil {
		return err
	}
	return p.SetSettings(ctx, ds.Settings)
}

func (p *persistence) eraseMonth(ym string) error {
	unlock := p.writes.Lock(ym)
	defer unlock()
	p.mu.Lock()
	delete(p.months, ym)
	p.mu.Unlock()
	if err := p.kv.Erase(p.keys.month(ym)); err != nil {
		p.log.Error().Stack().Err(err).Str("key", p.keys.month(ym)).Msg("erase failed")
		return pkgerrors.Wrapf(err, "store: erase %s", ym)
	}
	return nil
}

// forgetter is a KV with its own read cache.
type forgetter interface {
	Forget(key string)
}

// invalidate drops cached records so the next read goes to the byte store.
func (p *persistence) invalidate(kind recordKind, ym string) {
	var key string
	p.mu.Lock()
	switch kind {
	case kindMonth:
		key = p.keys.month(ym)
		delete(p.months, ym)
	case kindPresets:
		key = p.keys.presets()
		p.presets = nil
	case kindSettings:
		key = p.keys.settings()
		p.settings = nil
	default:
		p.months = make(map[string]meal.Month)
		p.presets = nil
		p.settings = nil
	}
	p.mu.Unlock()
	if f, ok := p.kv.(forgetter); ok {
		f.Forget(key)
	}
}

// readRecord decodes key into v, which must hold the empty value. A missing
// record leaves v untouched and a corrupt one resets it to its zero value,
// both for good. Only a failing store is returned, and such a read must not
// be cached.
func (p *persistence) readRecord(key string, v interface{}) error {
	val, err := p.kv.Get(key)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil
	case err != nil:
		p.log.Error().Err(err).Str("key", key).Msg("read failed")
		return err
	}
	if err := json.Unmarshal(val, v); err != nil {
		p.log.Warn().Err(err).Str("key", key).Msg("corrupt record, using empty value")
		reflect.ValueOf(v).Elem().SetZero()
	}
	return nil
}

func (p *persistence) writeRecord(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return pkgerrors.Wrapf(err, "store: encode %s", key)
	}
	if err := p.kv.Set(key, data); err != nil {
		p.log.Error().Stack().Err(err).Str("key", key).Msg("write failed")
		return pkgerrors.Wrapf(err, "store: write %s", key)
	}
	return nil
}

// keyedMutex serialises writers per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Lock locks key and returns the matching unlock.
func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*sync.Mutex)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	k.mu.Unlock()
	l.Lock()
	return l.Unlock
}
