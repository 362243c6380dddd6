package commands

import (
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"
)

func addMonth(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show a month calendar with statistics",
		Long: `Month paints every day of the month with the colour of its calorie
threshold and summarises the tracked days: total, mean, median, quartiles,
the peak day and when in the day the kcal were eaten.`,
		Example: `
kcal month
kcal month 2024-02 --json
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			then := time.Now()
			if len(args) == 1 {
				var err error
				if then, err = time.ParseInLocation("2006-01", args[0], time.Local); err != nil {
					return oo.HandleError(err)
				}
			}
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			report, err := s.svc.MonthReport(commandContext(cmd), then)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(s.render(report, func() { s.pp.Month(report) }))
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}
