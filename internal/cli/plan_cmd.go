package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courseforge/courseforge/internal/cli/formatter"
	"github.com/courseforge/courseforge/internal/pipeline"
)

func newPlanCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <config-dir>",
		Short: "Show the deployment batches without calling Canvas (dry run)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := pipeline.Validate(args[0])
			if err != nil {
				return err
			}

			if len(res.Issues) > 0 {
				fmt.Fprint(app.out(), formatter.FormatIssues(res.Issues))
				fmt.Fprintln(app.out())
			}
			if s := formatter.FormatCycles(res.Cycles); s != "" {
				fmt.Fprint(app.out(), s)
				fmt.Fprintln(app.out())
			}

			plan, err := pipeline.Plan(res)
			if err != nil {
				return err
			}
			fmt.Fprint(app.out(), formatter.FormatPlan(plan, res.Set, res.Excluded))

			if !res.Clean() {
				return errValidationFailed
			}
			return nil
		},
	}
}
