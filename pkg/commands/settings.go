package commands

import (
	"fmt"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/commands/options"
	"tableflip.dev/kcal/pkg/meal"
)

func addSettings(topLevel *cobra.Command) {
	var (
		timeFormat   string
		intermediate bool
		set          []string
		remove       []int
		reset        bool
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change the settings",
		Long: base.Wrap80(`Settings decide how times are shown and which colour a day gets for its
calorie total. A day takes the colour of the highest threshold floor at or
below its total.`),
		Example: `
kcal settings
kcal settings --time-format 24
kcal settings --threshold 2000=255,255,0 --threshold 2500=#e06060
kcal settings --remove-threshold 1000 --json
kcal settings --reset-thresholds
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			flags := cmd.Flags()
			settings, err := s.svc.Settings(commandContext(cmd))
			if err != nil {
				return oo.HandleError(err)
			}
			if flags.Changed("time-format") || flags.Changed("intermediate-day-page") ||
				len(set) > 0 || len(remove) > 0 || reset {
				settings, err = s.svc.UpdateSettings(commandContext(cmd), func(st *meal.Settings) error {
					if flags.Changed("time-format") {
						st.TimeFormat = meal.TimeFormat(timeFormat)
					}
					if flags.Changed("intermediate-day-page") {
						st.ItemPageHasIntermediateDayPage = &intermediate
					}
					if reset {
						st.Thresholds = meal.DefaultThresholds()
					}
					for _, floor := range remove {
						if _, ok := st.Thresholds[floor]; !ok {
							return fmt.Errorf("no threshold at %d", floor)
						}
						delete(st.Thresholds, floor)
					}
					for _, t := range set {
						floor, c, err := options.ParseThreshold(t)
						if err != nil {
							return err
						}
						st.Thresholds[floor] = c
					}
					return nil
				})
				if err != nil {
					return oo.HandleError(err)
				}
			}
			return oo.HandleError(s.render(settings, func() { s.pp.Settings(settings) }))
		},
	}

	cmd.Flags().StringVar(&timeFormat, "time-format", "", "Show times on a 12 or 24 hour clock.")
	cmd.Flags().BoolVar(&intermediate, "intermediate-day-page", true, "Return to the day of an entry opened from search.")
	cmd.Flags().StringArrayVar(&set, "threshold", nil, "Add or change a threshold, FLOOR=R,G,B or FLOOR=#rrggbb. Repeatable.")
	cmd.Flags().IntSliceVar(&remove, "remove-threshold", nil, "Remove the threshold with this floor. Repeatable.")
	cmd.Flags().BoolVar(&reset, "reset-thresholds", false, "Restore the built-in thresholds before other changes.")
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
