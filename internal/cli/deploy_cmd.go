package cli

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/courseforge/courseforge/internal/cli/formatter"
	"github.com/courseforge/courseforge/internal/executor"
	"github.com/courseforge/courseforge/internal/pipeline"
)

var errDeploymentFailed = errors.New("deployment finished with failures")

func newDeployCmd(app *App) *cobra.Command {
	var (
		forceUpdate bool
		yes         bool
		verbose     bool
	)

	cmd := &cobra.Command{
		Use:   "deploy <config-dir>",
		Short: "Deploy a course configuration to Canvas in dependency order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Config.ValidateRemote(); err != nil {
				return err
			}

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

			deployable := res.Set.Len() - len(res.Excluded)
			if deployable == 0 {
				fmt.Fprintln(app.out(), formatter.Dim("nothing to deploy"))
				if !res.Clean() {
					return errValidationFailed
				}
				return nil
			}

			if !yes && app.IsInteractive != nil && app.IsInteractive() {
				proceed, err := confirmDeploy(deployable, app.Config.CourseID)
				if err != nil {
					return err
				}
				if !proceed {
					fmt.Fprintln(app.out(), formatter.Dim("deployment cancelled"))
					return nil
				}
			}

			var observer executor.Observer = executor.NoopObserver{}
			if verbose {
				observer = executor.NewLogObserver(app.errOut())
			}

			client := app.newClient(app.Config.Canvas())
			exec := executor.New(client, app.Config.Retry(), app.Config.Executor(forceUpdate), observer)
			deployer := pipeline.NewDeployer(exec, app.Records)

			rep, err := deployer.Deploy(cmd.Context(), res)
			if err != nil {
				return err
			}

			fmt.Fprint(app.out(), formatter.FormatReport(rep))
			if !rep.Succeeded() || !res.Clean() {
				return errDeploymentFailed
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&forceUpdate, "force-update", false, "Re-deploy previously succeeded entities as update calls")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log each remote call to stderr")

	return cmd
}

func confirmDeploy(count int, courseID string) (bool, error) {
	var proceed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Deploy %d entities to course %s?", count, courseID)).
			Affirmative("Deploy").
			Negative("Cancel").
			Value(&proceed),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return proceed, nil
}
