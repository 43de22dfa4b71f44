package cli

import (
	"fmt"

	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	"github.com/alexanderramin/missionctl/internal/importer"
	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Add missions from a YAML or JSON document (the format export writes)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := importer.LoadImportSchema(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if errs := importer.ValidateImportSchema(schema); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(out, formatter.StyleRed.Render("  - "+e.Error()))
				}
				return fmt.Errorf("import file has %d error(s)", len(errs))
			}

			items := importer.Convert(schema)
			if dryRun {
				fmt.Fprintf(out, "%s would import %d item(s) in %d mission(s)\n",
					args[0], len(items), len(schema.Missions))
				return nil
			}

			n, err := app.Missions.Import(cmd.Context(), items)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Imported %d item(s)\n", n)
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Validate the file without storing anything")
	return cmd
}
