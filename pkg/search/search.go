// Package search scans a journal for logged meals by name, newest first, one
// page at a time.
package search

import (
	"encoding/json"
	"sort"
	"strings"
	"time"

	"tableflip.dev/kcal/pkg/meal"
)

// Options controls a scan. Zero values mean "no constraint".
type Options struct {
	Database   meal.Database
	NameFilter string
	// MinimumKcal drops entries whose total kcal is below it.
	MinimumKcal float64
	// MinDate and MaxDate bound the scan by calendar day, both inclusive.
	MinDate time.Time
	MaxDate time.Time
	// StartFrom is the Cursor of the previous page. Days on or after it are
	// skipped.
	StartFrom  string
	MaxResults int
}

// DayResult is the set of entries that matched on one day.
type DayResult struct {
	Date        string   `json:"dateString"`
	Entries     meal.Day `json:"dayResult"`
	MatchedKcal float64  `json:"matchedItemTotalKcal"`
	DayKcal     float64  `json:"daySearchTotalKcal"`
}

// Result is one page of matches.
type Result struct {
	Days       []DayResult `json:"searchResult"`
	FoundCount int         `json:"searchFoundCount"`
	// Cursor is the last day scanned when the page filled up, or empty when
	// the journal was exhausted.
	Cursor string `json:"cursor"`
}

// MarshalJSON writes an empty Cursor as null.
func (r Result) MarshalJSON() ([]byte, error) {
	type result Result
	var cursor *string
	if r.Cursor != "" {
		cursor = &r.Cursor
	}
	return json.Marshal(struct {
		result
		Cursor *string `json:"cursor"`
	}{result(r), cursor})
}

// More reports whether another page may follow.
func (r Result) More() bool {
	return r.Cursor != ""
}

// Meals scans opts.Database from the newest day backwards. A page never
// splits a day: the scan stops at the first day boundary where the number of
// matched entries reaches opts.MaxResults.
func Meals(opts Options) Result {
	res := Result{Days: []DayResult{}}
	if strings.TrimSpace(opts.NameFilter) == "" {
		return res
	}
	match := NewMatcher(opts.NameFilter)

	var minDate, maxDate string
	if !opts.MinDate.IsZero() {
		minDate = meal.DateString(opts.MinDate)
	}
	if !opts.MaxDate.IsZero() {
		maxDate = meal.DateString(opts.MaxDate)
	}

	for _, ym := range descendingKeys(opts.Database) {
		month := opts.Database[ym]
		for _, day := range descendingKeys(month) {
			date := meal.JoinDate(ym, day)
			switch {
			case opts.StartFrom != "" && date >= opts.StartFrom:
				continue
			case minDate != "" && date < minDate:
				continue
			case maxDate != "" && date > maxDate:
				continue
			}

			entries := month[day]
			matched := meal.Day{}
			for _, e := range entries {
				if match.Match(e.Name) && e.Kcal() >= opts.MinimumKcal {
					matched = append(matched, e)
				}
			}
			if len(matched) > 0 {
				res.Days = append(res.Days, DayResult{
					Date:        date,
					Entries:     matched,
					MatchedKcal: matched.Kcal(),
					DayKcal:     entries.Kcal(),
				})
			}
			res.FoundCount += len(matched)
			if opts.MaxResults > 0 && res.FoundCount >= opts.MaxResults {
				res.Cursor = date
				return res
			}
		}
	}
	return res
}

func descendingKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	return keys
}
