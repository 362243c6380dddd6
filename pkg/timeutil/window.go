// Package timeutil parses the calendar windows accepted by --last flags.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultWindow is the fallback window used when none is provided.
	DefaultWindow = "4w"
)

var (
	windowPattern = regexp.MustCompile(`^\s*(\d+)\s*([a-z]+)`)
	unitMap       = map[string]Window{
		"d":      {Days: 1},
		"day":    {Days: 1},
		"days":   {Days: 1},
		"w":      {Days: 7},
		"wk":     {Days: 7},
		"wks":    {Days: 7},
		"week":   {Days: 7},
		"weeks":  {Days: 7},
		"m":      {Months: 1},
		"mo":     {Months: 1},
		"month":  {Months: 1},
		"months": {Months: 1},
		"y":      {Years: 1},
		"yr":     {Years: 1},
		"yrs":    {Years: 1},
		"year":   {Years: 1},
		"years":  {Years: 1},
	}
)

// Window is a span of calendar time. Months and years follow the calendar
// rather than a fixed number of days.
type Window struct {
	Years  int
	Months int
	Days   int
}

// IsZero reports whether the window spans nothing.
func (w Window) IsZero() bool {
	return w == Window{}
}

// Since returns the first day of the window ending on the day of now, at
// midnight in now's location. A one day window starts today.
func (w Window) Since(now time.Time) time.Time {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	return today.AddDate(-w.Years, -w.Months, -w.Days).AddDate(0, 0, 1)
}

// String renders the window using year/month/week/day tokens.
func (w Window) String() string {
	var b strings.Builder
	if w.Years > 0 {
		fmt.Fprintf(&b, "%dy", w.Years)
	}
	if w.Months > 0 {
		fmt.Fprintf(&b, "%dm", w.Months)
	}
	if weeks := w.Days / 7; weeks > 0 {
		fmt.Fprintf(&b, "%dw", weeks)
	}
	if days := w.Days % 7; days > 0 {
		fmt.Fprintf(&b, "%dd", days)
	}
	if b.Len() == 0 {
		return "0d"
	}
	return b.String()
}

// ParseWindow parses a human-friendly window such as "4w", "3m" or "1y2m"
// and returns it along with its canonical representation. When the input is
// empty, the default window of four weeks is used.
func ParseWindow(input string) (Window, string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		trimmed = DefaultWindow
	}

	remaining := strings.ToLower(trimmed)
	var total Window
	for len(remaining) > 0 {
		matches := windowPattern.FindStringSubmatch(remaining)
		if len(matches) != 3 {
			return Window{}, "", fmt.Errorf("invalid window segment %q", strings.TrimSpace(remaining))
		}
		valueStr := matches[1]
		unitStr := matches[2]

		value, err := strconv.Atoi(valueStr)
		if err != nil {
			return Window{}, "", fmt.Errorf("invalid window value %q: %w", valueStr, err)
		}
		unit, ok := unitMap[unitStr]
		if !ok {
			return Window{}, "", fmt.Errorf("unsupported window unit %q", unitStr)
		}
		total.Years += value * unit.Years
		total.Months += value * unit.Months
		total.Days += value * unit.Days

		remaining = remaining[len(matches[0]):]
	}

	if total.IsZero() {
		return Window{}, "", fmt.Errorf("window must be greater than zero")
	}

	return total, total.String(), nil
}
