package options

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/meal"
)

// EntryOptions
type EntryOptions struct {
	Name     string
	Time     string
	Servings float64
	Kcal     float64
}

func AddEntryArgs(cmd *cobra.Command, o *EntryOptions) {
	cmd.Flags().StringVarP(&o.Time, "time", "t", "",
		`Time of the meal as HH:MM, example: --time="13:05". Defaults to now.`)
	cmd.Flags().Float64VarP(&o.Servings, "servings", "s", 1,
		"Number of servings.")
	cmd.Flags().Float64VarP(&o.Kcal, "kcal", "k", 0,
		"Kcal per serving.")
}

// Entry builds the entry, stamping it with now when no time was given.
func (o *EntryOptions) Entry(now time.Time) (meal.Entry, error) {
	clock := strings.TrimSpace(o.Time)
	if clock == "" {
		clock = meal.Clock(now)
	}
	h, m, ok := meal.ParseClock(clock)
	if !ok {
		return meal.Entry{}, fmt.Errorf("unknown time %q, expected HH:MM", o.Time)
	}
	return meal.Entry{
		Name:           strings.TrimSpace(o.Name),
		Time:           fmt.Sprintf("%02d:%02d", h, m),
		Servings:       o.Servings,
		KcalPerServing: o.Kcal,
	}, nil
}

// Apply overrides the fields of e whose flags were set on cmd.
func (o *EntryOptions) Apply(cmd *cobra.Command, e meal.Entry) (meal.Entry, error) {
	flags := cmd.Flags()
	if flags.Changed("name") {
		e.Name = strings.TrimSpace(o.Name)
	}
	if flags.Changed("time") {
		h, m, ok := meal.ParseClock(o.Time)
		if !ok {
			return meal.Entry{}, fmt.Errorf("unknown time %q, expected HH:MM", o.Time)
		}
		e.Time = fmt.Sprintf("%02d:%02d", h, m)
	}
	if flags.Changed("servings") {
		e.Servings = o.Servings
	}
	if flags.Changed("kcal") {
		e.KcalPerServing = o.Kcal
	}
	return e, nil
}
