package cli

import (
	"context"
	"errors"

	"github.com/alexanderramin/missionctl/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newTUICmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the interactive mission board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), app)
		},
	}
}

// runTUI opens the full-screen board and feeds it live snapshots until the
// user quits. The board shows a loading screen until the first snapshot,
// or the sign-in error when there is no user.
func runTUI(ctx context.Context, app *App) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newAppModel(ctx, app), tea.WithAltScreen(), tea.WithContext(ctx))

	// Without a user there is no collection to watch; the board stays on
	// the sign-in error until the user quits.
	if app.SignInErr == nil {
		// Send blocks until the program reads the message and returns once
		// the program has exited, so the subscription can never wedge on
		// shutdown.
		stop := app.Missions.Watch(ctx,
			func(items []domain.Item) { p.Send(snapshotMsg{items: items}) },
			func(err error) { p.Send(snapshotErrMsg{err: err}) },
		)
		defer stop()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
