package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	base "github.com/n3wscott/cli-base/pkg/commands/options"
	"github.com/spf13/cobra"

	"tableflip.dev/kcal/pkg/app"
)

func addExport(topLevel *cobra.Command) {
	file := ""

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole journal as JSON",
		Example: `
kcal export > backup.json
kcal export --file backup.json
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			s, err := load(cmd)
			if err != nil {
				return err
			}
			if file == "" {
				return s.svc.ExportTo(commandContext(cmd), cmd.OutOrStdout())
			}
			f, err := os.Create(file)
			if err != nil {
				return err
			}
			if err := s.svc.ExportTo(commandContext(cmd), f); err != nil {
				_ = f.Close()
				return err
			}
			return f.Close()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Write to this file instead of stdout.")
	topLevel.AddCommand(cmd)
}

func addImport(topLevel *cobra.Command) {
	mode := string(app.ImportPreferLocal)

	cmd := &cobra.Command{
		Use:   "import <file|->",
		Short: "Read a journal exported as JSON",
		Long: base.Wrap80(`Import validates the document and stores it. With --mode replace the
local journal is discarded. With local or imported both journals are merged:
days are combined, and on an entry with the same name and time, a preset with
the same ID or a setting, the preferred side wins. An empty local journal is
always replaced.`),
		Example: `
kcal import backup.json
kcal import backup.json --mode imported
cat backup.json | kcal import - --mode replace
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			m, err := app.ParseImportMode(mode)
			if err != nil {
				return oo.HandleError(err)
			}
			doc, err := readDocument(cmd, args[0])
			if err != nil {
				return oo.HandleError(err)
			}
			s, err := load(cmd)
			if err != nil {
				return oo.HandleError(err)
			}
			res, err := s.svc.Import(commandContext(cmd), doc, m)
			if err != nil {
				return oo.HandleError(err)
			}
			s.log.Info().Bool("merged", res.Merged).Int("months", res.Months).Msg("journal imported")
			return oo.HandleError(s.render(res, func() {
				verb := "Replaced journal with"
				if res.Merged {
					verb = "Merged"
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d entries in %d months and %d presets.\n", verb, res.Entries, res.Months, res.Presets)
			}))
		},
	}

	cmd.Flags().StringVar(&mode, "mode", mode, "How to meet the local journal: replace, local or imported.")
	_ = cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{string(app.ImportReplace), string(app.ImportPreferLocal), string(app.ImportPreferImported)}, cobra.ShellCompDirectiveNoFileComp
	})
	base.AddOutputArg(cmd, oo)
	topLevel.AddCommand(cmd)
}

func readDocument(cmd *cobra.Command, name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	b, err := os.ReadFile(name)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("no such file %q", name)
	}
	return b, err
}
