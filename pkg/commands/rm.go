package commands

import (
	"errors"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/commands/options"
)

func addRemove(topLevel *cobra.Command) {
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:     "rm <meal name> <HH:MM>",
		Aliases: []string{"delete"},
		Short:   "Remove a logged meal",
		Example: `
kcal rm eggs 08:00
kcal rm "fried rice" 13:05 --on yesterday
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires the meal name and time of the entry to remove")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			date, err := do.Date(time.Now())
			if err != nil {
				return oo.HandleError(err)
			}
			if err := s.svc.DeleteEntry(commandContext(cmd), date, args[0], args[1]); err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(showDay(cmd, s, date))
		},
	}

	options.AddDateArgs(cmd, do)
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
