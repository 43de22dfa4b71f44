package cli

import (
	"fmt"

	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	"github.com/alexanderramin/missionctl/internal/mission"
	"github.com/spf13/cobra"
)

func newDashboardCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"home"},
		Short:   "Summary of active missions and pending deliverables",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Missions.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			d := mission.Summarize(items, mission.BuildTree(items))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDashboard(d, app.now()))
			return nil
		},
	}
}

func newTreeCmd(app *App) *cobra.Command {
	var override bool
	var depth int

	cmd := &cobra.Command{
		Use:     "tree",
		Aliases: []string{"hierarchy"},
		Short:   "Show the mission hierarchy",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Missions.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			var expanded map[string]bool
			if depth > 0 {
				expanded = expandToDepth(mission.BuildTree(items), depth)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTree(items, expanded, override))
			return nil
		},
	}

	cmd.Flags().BoolVar(&override, "override", false, "Ignore dependency locks")
	cmd.Flags().IntVar(&depth, "depth", 0, "Only expand this many levels (0 shows everything)")
	return cmd
}

// expandToDepth marks every node above depth levels as expanded.
func expandToDepth(t mission.Tree, depth int) map[string]bool {
	expanded := make(map[string]bool)
	mission.Walk(t, func(n *mission.Node, d int) bool {
		if d+1 < depth {
			expanded[n.ID] = true
			return true
		}
		return false
	})
	return expanded
}

func newTimelineCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "timeline",
		Aliases: []string{"gantt"},
		Short:   "Items with a start and due date, in start order",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Missions.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTimeline(mission.Timeline(items)))
			return nil
		},
	}
}

func newAgendaCmd(app *App) *cobra.Command {
	var override bool

	cmd := &cobra.Command{
		Use:   "agenda",
		Short: "Time-slotted items ordered by start time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Missions.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatAgenda(mission.Agenda(items), items, override))
			return nil
		},
	}

	cmd.Flags().BoolVar(&override, "override", false, "Ignore dependency locks")
	return cmd
}

func newOrphansCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "orphans",
		Short: "Items no mission reaches, usually left by a deleted parent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Missions.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			orphans := mission.Orphans(items, mission.BuildTree(items))
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatOrphans(orphans))
			return nil
		},
	}
}

func newWhoamiCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user and collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := "token"
			if app.User.Anonymous {
				kind = "anonymous"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s %s\n", formatter.Dim("USER      "), app.User.ID, formatter.Dim("("+kind+")"))
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n", formatter.Dim("COLLECTION"), app.Collection)
			return nil
		},
	}
}
