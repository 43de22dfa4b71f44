package cli

import (
	"fmt"

	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/spf13/cobra"
)

func newDepCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage item dependencies",
	}
	cmd.AddCommand(newDepAddCmd(app), newDepRemoveCmd(app))
	return cmd
}

func newDepAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add ID DEPENDS_ON_ID",
		Short: "Lock ID until DEPENDS_ON_ID is complete",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			item, dep, err := resolvePair(cmd, app, args)
			if err != nil {
				return err
			}
			if err := app.Missions.AddDependency(cmd.Context(), item.ID, dep.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s now depends on %s\n", formatter.Bold(item.Title), formatter.Bold(dep.Title))
			return nil
		},
	}
}

func newDepRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID DEPENDS_ON_ID",
		Aliases: []string{"remove"},
		Short:   "Remove a dependency",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Missions.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveItemID(items, args[0])
			if err != nil {
				return err
			}
			// The target may already be deleted; fall back to the raw id.
			depID := args[1]
			if resolved, err := resolveItemID(items, args[1]); err == nil {
				depID = resolved
			}
			if err := app.Missions.RemoveDependency(cmd.Context(), id, depID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed dependency %s\n", formatter.ShortID(depID))
			return nil
		},
	}
}

func resolvePair(cmd *cobra.Command, app *App, args []string) (domain.Item, domain.Item, error) {
	items, err := app.Missions.Snapshot(cmd.Context())
	if err != nil {
		return domain.Item{}, domain.Item{}, err
	}
	var pair [2]domain.Item
	for i, arg := range args[:2] {
		id, err := resolveItemID(items, arg)
		if err != nil {
			return domain.Item{}, domain.Item{}, err
		}
		for _, item := range items {
			if item.ID == id {
				pair[i] = item
			}
		}
	}
	return pair[0], pair[1], nil
}
