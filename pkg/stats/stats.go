// Package stats computes the aggregates shown for a month of journal data.
package stats

import (
	"math"
	"sort"
	"strconv"

	"tableflip.dev/kcal/pkg/meal"
)

// Median returns the middle of values, or the average of the two middle
// values when there is an even number of them. It is 0 for no values.
// values is not modified.
func Median(values []float64) float64 {
	sorted := sortedCopy(values)
	return median(sorted)
}

func median(sorted []float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case n%2 == 1:
		return sorted[n/2]
	default:
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
}

// Quartiles returns the 25th and 75th percentiles as the medians of the lower
// and upper halves of the sorted values. For an odd count the median itself
// belongs to neither half.
func Quartiles(values []float64) (q1, q3 float64) {
	sorted := sortedCopy(values)
	n := len(sorted)
	switch n {
	case 0:
		return 0, 0
	case 1:
		return sorted[0], sorted[0]
	}
	half := n / 2
	return median(sorted[:half]), median(sorted[n-half:])
}

func sortedCopy(values []float64) []float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted
}

// DayTotal is the kcal logged on one day of a month.
type DayTotal struct {
	Day  int     `json:"day"`
	Kcal float64 `json:"kcal"`
}

// DayTotals returns one total per day key of month, ordered by day. Days with
// an empty entry list are included with a zero total.
func DayTotals(month meal.Month) []DayTotal {
	totals := make([]DayTotal, 0, len(month))
	for key, entries := range month {
		day, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		totals = append(totals, DayTotal{Day: day, Kcal: entries.Kcal()})
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Day < totals[j].Day
	})
	return totals
}

// HourTotals sums the kcal of every entry in month by the hour it was logged.
// Entries with an unreadable time are left out.
func HourTotals(month meal.Month) [24]float64 {
	var hours [24]float64
	for _, entries := range month {
		for _, e := range entries {
			h, _, ok := meal.ParseClock(e.Time)
			if !ok {
				continue
			}
			hours[h] += e.Kcal()
		}
	}
	return hours
}

// Summary describes a month at a glance.
type Summary struct {
	// DaysTracked counts days with at least one entry.
	DaysTracked int     `json:"daysTracked"`
	TotalKcal   float64 `json:"totalKcal"`
	// MeanKcal is the total over tracked days, rounded down.
	MeanKcal   float64 `json:"meanKcal"`
	MedianKcal float64 `json:"medianKcal"`
	Q1         float64 `json:"q1"`
	Q3         float64 `json:"q3"`
	// PeakDay is the day with the highest total, the earliest on ties. It is
	// the zero value when nothing was tracked.
	PeakDay DayTotal `json:"peakDay"`
}

// Summarize computes the month summary. Median and quartiles are taken over
// the tracked days only.
func Summarize(month meal.Month) Summary {
	var s Summary
	var tracked []float64
	for _, dt := range DayTotals(month) {
		if len(month[dayKey(dt.Day)]) == 0 {
			continue
		}
		s.DaysTracked++
		s.TotalKcal += dt.Kcal
		tracked = append(tracked, dt.Kcal)
		if dt.Kcal > s.PeakDay.Kcal {
			s.PeakDay = dt
		}
	}
	if s.DaysTracked == 0 {
		return s
	}
	s.MeanKcal = math.Floor(s.TotalKcal / float64(s.DaysTracked))
	s.MedianKcal = Median(tracked)
	s.Q1, s.Q3 = Quartiles(tracked)
	return s
}

func dayKey(day int) string {
	if day < 10 {
		return "0" + strconv.Itoa(day)
	}
	return strconv.Itoa(day)
}
