// Package validate decodes untrusted journal documents, such as backup files
// picked for import, into typed data stores. Validation stops at the first
// violation and reports where it was found.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"tableflip.dev/kcal/pkg/meal"
)

var topLevelKeys = []string{"database", "presets", "settings"}

// Datastore parses jsonText and checks it against the data store schema.
func Datastore(jsonText []byte) (meal.DataStore, error) {
	doc, err := decode(jsonText)
	if err != nil {
		return meal.DataStore{}, err
	}
	root, err := object("", doc, "a JSON object")
	if err != nil {
		return meal.DataStore{}, err
	}
	for _, k := range topLevelKeys {
		if _, ok := root[k]; !ok {
			return meal.DataStore{}, fail(path(k), "is required, top-level keys must be %s", strings.Join(topLevelKeys, ", "))
		}
	}
	if len(root) != len(topLevelKeys) {
		return meal.DataStore{}, keyed("", root, isTopLevelKey, strings.Join(topLevelKeys, ", "), func(path, string, any) error {
			return nil
		})
	}

	db, err := database("database", root["database"])
	if err != nil {
		return meal.DataStore{}, err
	}
	presets, err := presetList("presets", root["presets"])
	if err != nil {
		return meal.DataStore{}, err
	}
	settings, err := appSettings("settings", root["settings"])
	if err != nil {
		return meal.DataStore{}, err
	}
	return meal.DataStore{Database: db, Presets: presets, Settings: settings}, nil
}

func decode(text []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(text))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, fail("", "malformed JSON: %v", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fail("", "malformed JSON: unexpected data after the document")
	}
	return doc, nil
}

func isTopLevelKey(k string) bool {
	for _, want := range topLevelKeys {
		if k == want {
			return true
		}
	}
	return false
}

func database(p path, v any) (meal.Database, error) {
	obj, err := object(p, v, "an object with year-month prefixes as keys")
	if err != nil {
		return nil, err
	}
	db := make(meal.Database, len(obj))
	err = keyed(p, obj, meal.IsYearMonthKey, "of the format 'YYYY-MM'", func(mp path, ym string, mv any) error {
		month, err := monthData(mp, mv)
		if err != nil {
			return err
		}
		db[ym] = month
		return nil
	})
	if err != nil {
		return nil, err
	}
	return db, nil
}

func monthData(p path, v any) (meal.Month, error) {
	obj, err := object(p, v, "an object with day-of-month keys")
	if err != nil {
		return nil, err
	}
	month := make(meal.Month, len(obj))
	err = keyed(p, obj, meal.IsDayKey, "of the format 'DD'", func(dp path, day string, dv any) error {
		list, err := array(dp, dv, "an array of meals")
		if err != nil {
			return err
		}
		entries := make(meal.Day, 0, len(list))
		for i, ev := range list {
			e, err := entry(dp.index(i), ev)
			if err != nil {
				return err
			}
			entries = append(entries, e)
		}
		month[day] = entries
		return nil
	})
	if err != nil {
		return nil, err
	}
	return month, nil
}

func entry(p path, v any) (meal.Entry, error) {
	obj, err := object(p, v, "a meal object")
	if err != nil {
		return meal.Entry{}, err
	}
	var e meal.Entry
	if e.Name, err = nonEmptyString(p, obj, "name"); err != nil {
		return meal.Entry{}, err
	}
	if e.Time, err = nonEmptyString(p, obj, "time"); err != nil {
		return meal.Entry{}, err
	}
	if e.Servings, err = positive(p, obj, "servings"); err != nil {
		return meal.Entry{}, err
	}
	if e.KcalPerServing, err = positive(p, obj, "kcalPerServing"); err != nil {
		return meal.Entry{}, err
	}
	return e, nil
}

func presetList(p path, v any) ([]meal.Preset, error) {
	list, err := array(p, v, "an array")
	if err != nil {
		return nil, err
	}
	presets := make([]meal.Preset, 0, len(list))
	for i, pv := range list {
		pp := p.index(i)
		obj, err := object(pp, pv, "a preset object")
		if err != nil {
			return nil, err
		}
		var preset meal.Preset
		if preset.Name, err = nonEmptyString(pp, obj, "name"); err != nil {
			return nil, err
		}
		if preset.ID, err = nonEmptyString(pp, obj, "id"); err != nil {
			return nil, err
		}
		if preset.KcalPerServing, err = positive(pp, obj, "kcalPerServing"); err != nil {
			return nil, err
		}
		count, ok, err := optionalNumber(pp, obj, "usageCount")
		if err != nil {
			return nil, err
		}
		if ok {
			preset.UsageCount = int(count)
		}
		last, ok, err := optionalNumber(pp, obj, "lastUsageTime")
		if err != nil {
			return nil, err
		}
		if ok {
			preset.LastUsageTime = int64(last)
		}
		presets = append(presets, preset)
	}
	return presets, nil
}

func appSettings(p path, v any) (meal.Settings, error) {
	obj, err := object(p, v, "an object")
	if err != nil {
		return meal.Settings{}, err
	}
	var s meal.Settings
	if tv, ok := present(obj, "timeFormat"); ok {
		f, isString := tv.(string)
		if !isString || !meal.TimeFormat(f).Valid() {
			return meal.Settings{}, fail(p.key("timeFormat"), "must be \"12\" or \"24\"")
		}
		s.TimeFormat = meal.TimeFormat(f)
	}
	if bv, ok := present(obj, "itemPageHasIntermediateDayPage"); ok {
		b, isBool := bv.(bool)
		if !isBool {
			return meal.Settings{}, fail(p.key("itemPageHasIntermediateDayPage"), "must be a boolean")
		}
		s.ItemPageHasIntermediateDayPage = &b
	}
	if tv, ok := present(obj, "thresholds"); ok {
		th, err := thresholds(p.key("thresholds"), tv)
		if err != nil {
			return meal.Settings{}, err
		}
		s.Thresholds = th
	}
	return s, nil
}

func thresholds(p path, v any) (meal.Thresholds, error) {
	obj, err := object(p, v, "an object of calorie floors to colours")
	if err != nil {
		return nil, err
	}
	th := make(meal.Thresholds, len(obj))
	err = keyed(p, obj, isFloor, "a non-negative whole number", func(cp path, k string, cv any) error {
		floor, _ := strconv.Atoi(k)
		list, err := array(cp, cv, "an array of [red, green, blue]")
		if err != nil {
			return err
		}
		if len(list) != 3 {
			return fail(cp, "must be an array of [red, green, blue], got %d values", len(list))
		}
		var c meal.RGB
		for i, channel := range list {
			f, err := number(cp.index(i), channel)
			if err != nil {
				return err
			}
			c[i] = int(math.Round(f))
		}
		th[floor] = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return th, nil
}

func isFloor(k string) bool {
	n, err := strconv.Atoi(k)
	return err == nil && n >= 0
}
