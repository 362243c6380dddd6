package commands

import (
	"errors"
	"strings"
	"time"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/commands/options"
	"tableflip.dev/kcal/pkg/search"
	"tableflip.dev/kcal/pkg/timeutil"
)

const defaultSearchLimit = 100

func addSearch(topLevel *cobra.Command) {
	var (
		opts  search.Options
		last  string
		since string
		until string
	)

	cmd := &cobra.Command{
		Use:   "search <name filter>",
		Short: "Find logged meals by name, newest first",
		Long: `Search scans the journal from the newest day backwards for meals whose
name matches the filter. The filter is a case-insensitive regular expression
where * matches anything; filters that do not compile are matched as plain
text. Results come in pages that never split a day, pass the printed cursor
to --from to continue.

Examples:
  kcal search "fried rice"
  kcal search "chick*soup" --min-kcal 200 --last 3m
  kcal search pizza --from 2024-02-11`,
		Args: func(cmd *cobra.Command, args []string) error {
			opts.NameFilter = strings.Join(args, " ")
			if len([]rune(strings.TrimSpace(opts.NameFilter))) < search.MinimumNameLength {
				return errors.New("requires a filter of at least 3 characters")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			now := time.Now()
			if last != "" {
				window, _, err := timeutil.ParseWindow(last)
				if err != nil {
					return oo.HandleError(err)
				}
				opts.MinDate = window.Since(now)
			}
			for _, bound := range []struct {
				flag string
				to   *time.Time
			}{{since, &opts.MinDate}, {until, &opts.MaxDate}} {
				if bound.flag == "" {
					continue
				}
				date, err := options.ParseDate(bound.flag, now)
				if err != nil {
					return oo.HandleError(err)
				}
				*bound.to, _ = time.ParseInLocation("2006-01-02", date, time.Local)
			}

			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			res, err := s.svc.Search(commandContext(cmd), opts)
			if err != nil {
				return oo.HandleError(err)
			}
			return oo.HandleError(s.render(res, func() { s.pp.Search(res) }))
		},
	}

	cmd.Flags().Float64Var(&opts.MinimumKcal, "min-kcal", 0, "Only match entries with at least this many kcal in total.")
	cmd.Flags().StringVar(&last, "last", "", "Only search this far back, for example 2w or 1y6m.")
	cmd.Flags().StringVar(&since, "since", "", "Only search on or after this date.")
	cmd.Flags().StringVar(&until, "until", "", "Only search on or before this date.")
	cmd.Flags().StringVar(&opts.StartFrom, "from", "", "Continue before this day, the cursor of a previous page.")
	cmd.Flags().IntVar(&opts.MaxResults, "limit", defaultSearchLimit, "Matches per page, 0 for everything.")
	base.AddOutputArg(cmd, oo)

	topLevel.AddCommand(cmd)
}
