package commands

import (
	"errors"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/commands/options"
	"tableflip.dev/kcal/pkg/meal"
	"tableflip.dev/kcal/pkg/store"
)

func addDay(topLevel *cobra.Command) {
	do := &options.DateOptions{}
	follow := false

	cmd := &cobra.Command{
		Use:     "day [date]",
		Aliases: []string{"today"},
		Short:   "Show the meals of a day",
		Example: `
kcal day
kcal day 2024-03-15
kcal day yesterday --follow
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			if len(args) == 1 {
				do.OnString = args[0]
			}
			date, err := do.Date(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			if err := showDay(cmd, s, date); err != nil {
				return oo.HandleError(err)
			}
			if !follow {
				return nil
			}
			return oo.HandleError(followDay(cmd, s, date))
		},
	}

	base.AddOutputArg(cmd, oo)
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep running and redraw the day when the journal changes.")

	topLevel.AddCommand(cmd)
}

// followDay redraws date whenever its month, or the settings it is rendered
// with, change on disk. It returns when the command context is cancelled.
func followDay(cmd *cobra.Command, s *session, date string) error {
	ctx := commandContext(cmd)
	events, err := s.svc.Watch(ctx)
	if errors.Is(err, store.ErrWatchUnsupported) {
		s.log.Warn().Msg("journal cannot be watched, not following")
		return nil
	}
	if err != nil {
		return err
	}
	ym, _, err := meal.SplitDateString(date)
	if err != nil {
		return err
	}
	for ev := range events {
		s.log.Debug().Stringer("type", ev.Type).Str("key", ev.Key).Msg("journal changed")
		switch ev.Type {
		case store.EventMonthChanged:
			if ev.Key != ym {
				continue
			}
		case store.EventPresetsChanged:
			continue
		case store.EventSettingsChanged, store.EventInvalidated:
			settings, err := s.svc.Settings(ctx)
			if err != nil {
				return err
			}
			s.pp.TimeFormat = settings.TimeFormat
		}
		s.pp.NewLine()
		if err := showDay(cmd, s, date); err != nil {
			return err
		}
	}
	return nil
}
