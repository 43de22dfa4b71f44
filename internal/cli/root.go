package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/missionctl/internal/identity"
	"github.com/alexanderramin/missionctl/internal/service"
	"github.com/spf13/cobra"
)

// App holds the signed-in session every command runs against.
type App struct {
	Missions service.MissionService

	User       identity.User
	Collection string

	// SignInErr is set when sign-in failed. Missions is nil then; the TUI
	// opens on the error and every other command returns it.
	SignInErr error

	// IsInteractive reports whether stdin is a terminal. A bare
	// "missionctl" opens the TUI only when it returns true.
	IsInteractive func() bool

	// Now is the clock used for date rendering and form defaults.
	Now func() time.Time
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "missionctl" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "missionctl",
		Short:         "Hierarchical mission tracker",
		Long:          "Missions break down into tasks, subtasks, actions and steps. Dependencies lock items until they are complete.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if app.SignInErr == nil || opensTUI(cmd, app) {
				return nil
			}
			return fmt.Errorf("signing in: %w", app.SignInErr)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.interactive() {
				return runTUI(cmd.Context(), app)
			}
			return cmd.Help()
		},
	}

	root.AddCommand(
		newAddCmd(app),
		newShowCmd(app),
		newUploadCmd(app),
		newDeleteCmd(app),
		newDepCmd(app),
		newDashboardCmd(app),
		newTreeCmd(app),
		newTimelineCmd(app),
		newAgendaCmd(app),
		newOrphansCmd(app),
		newExportCmd(app),
		newImportCmd(app),
		newWhoamiCmd(app),
		newTUICmd(app),
	)

	return root
}

// opensTUI reports whether cmd shows the board rather than touching the
// collection directly.
func opensTUI(cmd *cobra.Command, app *App) bool {
	switch {
	case cmd.Name() == "tui", cmd.Name() == "help":
		return true
	case !cmd.HasParent():
		return app.interactive()
	}
	return false
}
