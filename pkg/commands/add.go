package commands

import (
	"errors"
	"strings"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/commands/options"
	"tableflip.dev/kcal/pkg/meal"
)

func addAdd(topLevel *cobra.Command) {
	eo := &options.EntryOptions{}
	do := &options.DateOptions{}
	preset := ""

	cmd := &cobra.Command{
		Use:   "add <meal name>",
		Short: "Log a meal",
		Example: `
kcal add fried rice --kcal 650
kcal add eggs --servings 2 --kcal 78 --time 08:00 --on yesterday
kcal add --preset 1710504000000 --servings 1.5
`,
		Args: func(cmd *cobra.Command, args []string) error {
			eo.Name = strings.Join(args, " ")
			if preset == "" && strings.TrimSpace(eo.Name) == "" {
				return errors.New("requires a meal name or --preset")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			err = runAdd(cmd, s, eo, do, preset)
			return oo.HandleError(err)
		},
	}

	options.AddEntryArgs(cmd, eo)
	options.AddDateArgs(cmd, do)
	base.AddOutputArg(cmd, oo)
	cmd.Flags().StringVar(&preset, "preset", "", "Log the preset with this ID instead of a named meal.")
	_ = cmd.RegisterFlagCompletionFunc("preset", func(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return presetCompletions(cmd), cobra.ShellCompDirectiveNoFileComp
	})

	topLevel.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, s *session, eo *options.EntryOptions, do *options.DateOptions, preset string) error {
	ctx := s.log.WithContext(commandContext(cmd))
	now := time.Now()
	date, err := do.Date(now)
	if err != nil {
		return err
	}
	e, err := eo.Entry(now)
	if err != nil {
		return err
	}
	if preset != "" {
		if e, err = s.svc.LogPreset(ctx, preset, date, e.Time, e.Servings); err != nil {
			return err
		}
	} else if err := s.svc.AddEntry(ctx, date, e); err != nil {
		return err
	}
	s.log.Debug().Str("date", date).Str("name", e.Name).Str("time", e.Time).Msg("entry added")
	return showDay(cmd, s, date)
}

// showDay renders date after a change.
func showDay(cmd *cobra.Command, s *session, date string) error {
	view, err := s.svc.Day(commandContext(cmd), date)
	if err != nil {
		return err
	}
	return s.render(view, func() { s.pp.Day(view) })
}

func presetCompletions(cmd *cobra.Command) []string {
	s, err := load(cmd)
	if err != nil {
		return nil
	}
	presets, err := s.svc.Presets(commandContext(cmd), "", meal.SortByUsageCount)
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(presets))
	for _, p := range presets {
		ids = append(ids, p.ID+"\t"+p.Name)
	}
	return ids
}
