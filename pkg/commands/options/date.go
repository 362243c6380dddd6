package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/meal"
)

const (
	layoutISO      = "2006-01-02"
	layoutISOShort = "1/2"
)

// DateOptions
type DateOptions struct {
	OnString string
}

func AddDateArgs(cmd *cobra.Command, o *DateOptions) {
	cmd.Flags().StringVar(&o.OnString, "on", "",
		`Specify a date, example: --on="2020-02-28", --on="2/28" or --on=yesterday. Defaults to today.`)
}

// Date resolves the flag to a "YYYY-MM-DD" date relative to now.
func (o *DateOptions) Date(now time.Time) (string, error) {
	return ParseDate(o.OnString, now)
}

// ParseDate accepts "YYYY-MM-DD", "M/D", "today" and "yesterday". The empty
// string is today.
func ParseDate(s string, now time.Time) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return meal.DateString(now), nil
	case "yesterday":
		return meal.DateString(now.AddDate(0, 0, -1)), nil
	}
	if t, err := time.ParseInLocation(layoutISO, s, now.Location()); err == nil {
		return meal.DateString(t), nil
	}
	t, err := time.ParseInLocation(layoutISOShort, s, now.Location())
	if err != nil {
		return "", fmt.Errorf("unknown date %q, expected YYYY-MM-DD or M/D", s)
	}
	// Let the year be the same.
	t = time.Date(now.Year(), t.Month(), t.Day(), 0, 0, 0, 0, now.Location())
	// A journal looks back: 12/30 said on 1/2 means the past December.
	if t.After(now) {
		t = t.AddDate(-1, 0, 0)
	}
	return meal.DateString(t), nil
}
