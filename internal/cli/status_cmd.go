package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/courseforge/courseforge/internal/cli/formatter"
	"github.com/courseforge/courseforge/internal/repository"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show persisted per-entity outcomes from the last deployment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.Records == nil {
				return errors.New("no record database configured (set record_db)")
			}

			records, err := app.Records.ListRecords(cmd.Context())
			if err != nil {
				return err
			}

			latest, err := app.Records.LatestRun(cmd.Context())
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return err
			}

			fmt.Fprint(app.out(), formatter.FormatRecords(records, latest))
			return nil
		},
	}
}
