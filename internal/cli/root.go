package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/courseforge/courseforge/internal/canvas"
	"github.com/courseforge/courseforge/internal/config"
	"github.com/courseforge/courseforge/internal/repository"
)

// App holds everything the CLI commands need. Commands depend on the
// interfaces here, never on globals, so tests can swap in fakes.
type App struct {
	Config config.DeployConfig

	// Records may be nil when no record database is configured.
	Records repository.RecordRepo

	// NewClient builds the Canvas client; tests substitute a fake.
	NewClient func(cfg canvas.Config) canvas.Client

	// IsInteractive gates the pre-deploy confirmation prompt.
	IsInteractive func() bool

	Out    io.Writer
	ErrOut io.Writer
}

func (a *App) out() io.Writer {
	if a.Out != nil {
		return a.Out
	}
	return os.Stdout
}

func (a *App) errOut() io.Writer {
	if a.ErrOut != nil {
		return a.ErrOut
	}
	return os.Stderr
}

func (a *App) newClient(cfg canvas.Config) canvas.Client {
	if a.NewClient != nil {
		return a.NewClient(cfg)
	}
	return canvas.New(cfg)
}

// NewRootCmd creates the top-level "courseforge" command and registers
// all subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "courseforge",
		Short:         "Validate and deploy gamified course configurations to Canvas",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newValidateCmd(app),
		newPlanCmd(app),
		newDeployCmd(app),
		newStatusCmd(app),
	)

	return root
}
