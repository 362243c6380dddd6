package commands

import (
	"errors"
	"strings"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/commands/options"
	"tableflip.dev/kcal/pkg/meal"
)

func addPresets(topLevel *cobra.Command) {
	filter := ""
	order := string(meal.SortByName)

	cmd := &cobra.Command{
		Use:     "presets",
		Aliases: []string{"preset"},
		Short:   "List and manage saved meals",
		Example: `
kcal presets
kcal presets --filter oat --sort usage
kcal presets add oats --kcal 150
kcal presets log 1710504000000 --servings 2
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			o, err := meal.ParsePresetOrder(order)
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			err = listPresets(cmd, s, filter, o)
			return oo.HandleError(err)
		},
	}

	cmd.Flags().StringVar(&filter, "filter", "", "Only list presets whose name matches.")
	cmd.Flags().StringVar(&order, "sort", order, "Sort by name, recent or usage.")
	_ = cmd.RegisterFlagCompletionFunc("sort", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(meal.SortByName), string(meal.SortByLastUsage), string(meal.SortByUsageCount)}, cobra.ShellCompDirectiveNoFileComp
	})
	base.AddOutputArg(cmd, oo)

	addPresetSave(cmd)
	addPresetRemove(cmd)
	addPresetReset(cmd)
	addPresetLog(cmd)
	addPresetSuggest(cmd)

	topLevel.AddCommand(cmd)
}

func listPresets(cmd *cobra.Command, s *session, filter string, order meal.PresetOrder) error {
	presets, err := s.svc.Presets(commandContext(cmd), filter, order)
	if err != nil {
		return err
	}
	return s.render(presets, func() { s.pp.Presets(presets) })
}

func addPresetSave(presetsCmd *cobra.Command) {
	p := meal.Preset{}

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Save a preset, or change one with --id",
		Example: `
kcal presets add oats --kcal 150
kcal presets add "oats with milk" --kcal 210 --id 1710504000000
`,
		Args: func(cmd *cobra.Command, args []string) error {
			p.Name = strings.TrimSpace(strings.Join(args, " "))
			if p.Name == "" {
				return errors.New("requires a preset name")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			saved, err := s.svc.SavePreset(commandContext(cmd), p)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(s.render(saved, func() { s.pp.Presets([]meal.Preset{saved}) }))
		},
	}

	cmd.Flags().Float64VarP(&p.KcalPerServing, "kcal", "k", 0, "Kcal per serving.")
	cmd.Flags().StringVar(&p.ID, "id", "", "Replace the preset with this ID, keeping its usage.")
	base.AddOutputArg(cmd, oo)

	presetsCmd.AddCommand(cmd)
}

func addPresetRemove(presetsCmd *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "rm <id>",
		Aliases:           []string{"delete"},
		Short:             "Delete a preset",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePresetIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			if err := s.svc.DeletePreset(commandContext(cmd), args[0]); err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(listPresets(cmd, s, "", meal.SortByName))
		},
	}

	base.AddOutputArg(cmd, oo)
	presetsCmd.AddCommand(cmd)
}

func addPresetReset(presetsCmd *cobra.Command) {
	cmd := &cobra.Command{
		Use:               "reset <id>",
		Short:             "Forget how often and when a preset was used",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePresetIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			if err := s.svc.ResetPresetUsage(commandContext(cmd), args[0]); err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(listPresets(cmd, s, "", meal.SortByName))
		},
	}

	base.AddOutputArg(cmd, oo)
	presetsCmd.AddCommand(cmd)
}

func addPresetLog(presetsCmd *cobra.Command) {
	eo := &options.EntryOptions{}
	do := &options.DateOptions{}

	cmd := &cobra.Command{
		Use:               "log <id>",
		Short:             "Log a preset as a meal",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completePresetIDs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(runAdd(cmd, s, eo, do, args[0]))
		},
	}

	cmd.Flags().StringVarP(&eo.Time, "time", "t", "", `Time of the meal as HH:MM. Defaults to now.`)
	cmd.Flags().Float64VarP(&eo.Servings, "servings", "s", 1, "Number of servings.")
	options.AddDateArgs(cmd, do)
	base.AddOutputArg(cmd, oo)
	presetsCmd.AddCommand(cmd)
}

func addPresetSuggest(presetsCmd *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "suggest",
		Short: "Suggest presets from meals logged this month and last",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			suggestions, err := s.svc.Suggestions(commandContext(cmd))
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(s.render(suggestions, func() { s.pp.Suggestions(suggestions) }))
		},
	}

	base.AddOutputArg(cmd, oo)
	presetsCmd.AddCommand(cmd)
}

func completePresetIDs(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return presetCompletions(cmd), cobra.ShellCompDirectiveNoFileComp
}
