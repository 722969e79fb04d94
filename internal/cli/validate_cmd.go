package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courseforge/courseforge/internal/cli/formatter"
	"github.com/courseforge/courseforge/internal/pipeline"
)

// errValidationFailed makes the command exit nonzero without re-printing
// the already-rendered findings.
var errValidationFailed = errors.New("validation failed")

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-dir>",
		Short: "Check a course configuration for schema, reference and cycle errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := pipeline.Validate(args[0])
			if err != nil {
				return err
			}

			fmt.Fprint(app.out(), formatter.FormatIssues(res.Issues))
			if s := formatter.FormatCycles(res.Cycles); s != "" {
				fmt.Fprint(app.out(), "\n"+s)
			}
			if !res.Clean() {
				return errValidationFailed
			}
			return nil
		},
	}
}
