package commands

import (
	"os"
	"strconv"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/store"
)

// Info is what the info command reports.
type Info struct {
	ConfigEnv  string   `json:"configEnv,omitempty"`
	ConfigFile string   `json:"configFile,omitempty"`
	Path       string   `json:"path"`
	Prefix     string   `json:"prefix"`
	LogLevel   string   `json:"logLevel"`
	Months     []string `json:"months"`
	Presets    int      `json:"presets"`
}

func addInfo(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Details about the journal and where it is stored.",
		Example: `
kcal info
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			ctx := commandContext(cmd)
			months, err := s.svc.Persistence.MonthKeys(ctx)
			if err != nil {
				return oo.HandleError(err)
			}
			info := Info{
				ConfigEnv: os.Getenv("KCAL_CONFIG_PATH"),
				Path:      s.cfg.BasePath(),
				Prefix:    s.cfg.Prefix(),
				LogLevel:  s.cfg.LogLevel(),
				Months:    months,
				Presets:   len(s.svc.Persistence.Presets(ctx)),
			}
			if fc, ok := s.cfg.(*store.FileConfig); ok {
				info.ConfigFile = fc.Source
			}
			return oo.HandleError(s.render(info, func() {
				rows := [][2]string{
					{"KCAL_CONFIG_PATH", orNone(info.ConfigEnv)},
					{"config file", orNone(info.ConfigFile)},
					{"path", info.Path},
					{"prefix", info.Prefix},
					{"log level", info.LogLevel},
					{"months", strconv.Itoa(len(info.Months))},
					{"presets", strconv.Itoa(info.Presets)},
				}
				if len(info.Months) > 0 {
					rows = append(rows, [2]string{"tracked", info.Months[0] + " to " + info.Months[len(info.Months)-1]})
				}
				s.pp.Info(rows)
			}))
		},
	}

	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func orNone(s string) string {
	if s == "" {
		return "not set"
	}
	return s
}
