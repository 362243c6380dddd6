package validate

import (
	"strings"

	"tableflip.dev/kcal/pkg/meal"
)

// Entry checks a single entry as typed by the user. Unlike Datastore it
// reports every problem, and it requires the time to be a real HH:MM clock.
func Entry(e meal.Entry) error {
	var problems []string
	if strings.TrimSpace(e.Name) == "" {
		problems = append(problems, "Entry must have a name.")
	}
	if strings.TrimSpace(e.Time) == "" {
		problems = append(problems, "Entry must have a time.")
	} else if _, _, ok := meal.ParseClock(e.Time); !ok {
		problems = append(problems, "Time must be of the form HH:MM.")
	}
	if e.Servings <= 0 {
		problems = append(problems, "Servings must be a positive number.")
	}
	if e.KcalPerServing <= 0 {
		problems = append(problems, "Entry must have a positive kcal value.")
	}
	if len(problems) > 0 {
		return &EntryError{Problems: problems}
	}
	return nil
}

// Preset checks a preset before it is saved.
func Preset(p meal.Preset) error {
	var problems []string
	if strings.TrimSpace(p.Name) == "" {
		problems = append(problems, "Preset must have a name.")
	}
	if p.KcalPerServing <= 0 {
		problems = append(problems, "Preset must have a positive kcal value.")
	}
	if len(problems) > 0 {
		return &EntryError{Problems: problems}
	}
	return nil
}
