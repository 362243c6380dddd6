package commands

import (
	"errors"
	"fmt"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/app"
	"tableflip.dev/kcal/pkg/commands/options"
)

func addEdit(topLevel *cobra.Command) {
	eo := &options.EntryOptions{}
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:   "edit <meal name> <HH:MM>",
		Short: "Change a logged meal",
		Example: `
kcal edit eggs 08:00 --servings 3
kcal edit "fried rice" 13:05 --name "egg fried rice" --on 2024-03-15
`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("requires the meal name and time of the entry to edit")
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
			err = runEdit(cmd, s, eo, date, args[0], args[1])
			return oo.HandleError(err)
		},
	}

	options.AddEntryArgs(cmd, eo)
	options.AddDateArgs(cmd, do)
	base.AddOutputArg(cmd, oo)
	cmd.Flags().StringVarP(&eo.Name, "name", "n", "", "New meal name.")

	topLevel.AddCommand(cmd)
}

func runEdit(cmd *cobra.Command, s *session, eo *options.EntryOptions, date, name, clock string) error {
	ctx := commandContext(cmd)
	view, err := s.svc.Day(ctx, date)
	if err != nil {
		return err
	}
	i := view.Entries.Index(name, clock)
	if i < 0 {
		return fmt.Errorf("%w: %s at %s on %s", app.ErrEntryNotFound, name, clock, date)
	}
	e, err := eo.Apply(cmd, view.Entries[i])
	if err != nil {
		return err
	}
	if err := s.svc.EditEntry(ctx, date, name, clock, e); err != nil {
		return err
	}
	return showDay(cmd, s, date)
}
