package commands

import (
	"context"

	"github.com/fatih/color"
	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/app"
	"tableflip.dev/kcal/pkg/commands/options"
	"tableflip.dev/kcal/pkg/logging"
	"tableflip.dev/kcal/pkg/printers"
	"tableflip.dev/kcal/pkg/store"
)

var (
	oo = &base.OutputOptions{}
	lo = &options.LogOptions{}
)

func New() *cobra.Command {

	cmd := &cobra.Command{
		Use:   "kcal",
		Short: base.Wrap80("Calorie journaling on the command line."),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	options.AddLogArgs(cmd, lo)
	AddCommands(cmd)
	return cmd
}

func AddCommands(topLevel *cobra.Command) {
	addAdd(topLevel)
	addEdit(topLevel)
	addRemove(topLevel)
	addDay(topLevel)
	addMonth(topLevel)
	addSearch(topLevel)
	addPresets(topLevel)
	addExport(topLevel)
	addImport(topLevel)
	addSettings(topLevel)
	addInfo(topLevel)
	addVersion(topLevel)
	addCompletions(topLevel)
}

// session is what every journal command works with.
type session struct {
	cfg  store.Config
	log  zerolog.Logger
	svc  *app.Service
	pp   *printers.PrettyPrint
	json bool
}

// load resolves config, logging and persistence for cmd. The printer picks
// up the stored time format.
func load(cmd *cobra.Command) (*session, error) {
	cfg, err := store.LoadConfig()
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel()
	if lo.Level != "" {
		level = lo.Level
	}
	log, err := logging.NewConsole(cmd.ErrOrStderr(), level, !color.NoColor)
	if err != nil {
		return nil, err
	}
	p, err := store.Load(cfg, log)
	if err != nil {
		return nil, err
	}
	pp := printers.New(cmd.OutOrStdout())
	pp.TimeFormat = p.Settings(commandContext(cmd)).TimeFormat
	return &session{
		cfg:  cfg,
		log:  log,
		svc:  &app.Service{Persistence: p},
		pp:   pp,
		json: oo.JSON,
	}, nil
}

// render prints v as JSON with --json and calls pretty otherwise.
func (s *session) render(v interface{}, pretty func()) error {
	if s.json {
		return s.pp.JSON(v)
	}
	pretty()
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
