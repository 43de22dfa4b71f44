package cli

import (
	"errors"
	"fmt"

	"github.com/alexanderramin/missionctl/internal/cli/formatter"
	"github.com/alexanderramin/missionctl/internal/domain"
	"github.com/alexanderramin/missionctl/internal/mission"
	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// errConfirmationRequired is returned when a destructive command runs
// without a terminal to confirm on and without --yes.
var errConfirmationRequired = errors.New("confirmation required: re-run with --yes")

func newAddCmd(app *App) *cobra.Command {
	var draft mission.Draft
	var parentFlag string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a mission, or a child item with --parent",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			parentID := ""
			if parentFlag != "" {
				items, err := app.Missions.Snapshot(ctx)
				if err != nil {
					return err
				}
				parentID, err = resolveItemID(items, parentFlag)
				if err != nil {
					return fmt.Errorf("parent: %w", err)
				}
				parent, _ := mission.Find(items, parentID)
				if !mission.CanHaveChildren(parent) {
					return fmt.Errorf("%s cannot have children: %w", parent.Title, mission.ErrDepthExceeded)
				}
			}

			item, err := app.Missions.Create(ctx, draft, parentID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n",
				domain.LevelName(item.Level), formatter.Bold(item.Title), item.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "Item title")
	cmd.Flags().StringVar(&draft.Description, "description", "", "Item description")
	cmd.Flags().StringVar(&parentFlag, "parent", "", "Parent item ID or ID prefix")
	cmd.Flags().StringVar(&draft.StartDate, "start-date", "", "Start date (defaults to today)")
	cmd.Flags().StringVar(&draft.DueDate, "due-date", "", "Due date")
	cmd.Flags().StringVar(&draft.StartTime, "start-time", "", "Agenda start time (below a subtask only)")
	cmd.Flags().StringVar(&draft.EndTime, "end-time", "", "Agenda end time (below a subtask only)")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	var override bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show item details, lock state and dependencies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Missions.Snapshot(cmd.Context())
			if err != nil {
				return err
			}
			id, err := resolveItemID(items, args[0])
			if err != nil {
				return err
			}
			item, _ := mission.Find(items, id)
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatDetail(item, items, override, app.now()))
			return nil
		},
	}

	cmd.Flags().BoolVar(&override, "override", false, "Ignore dependency locks")
	return cmd
}

func newUploadCmd(app *App) *cobra.Command {
	var yes, override bool

	cmd := &cobra.Command{
		Use:   "upload ID",
		Short: "Attach a (simulated) deliverable and mark the item complete",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items, err := app.Missions.Snapshot(ctx)
			if err != nil {
				return err
			}
			id, err := resolveItemID(items, args[0])
			if err != nil {
				return err
			}

			ok, err := confirm(app, yes, "Simulate file upload for verification?")
			if err != nil || !ok {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), formatter.Dim("Uploading..."))
			item, err := app.Missions.UploadDeliverable(ctx, id, override)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", formatter.StatusPill(item.Status, false), formatter.Bold(item.Title))
			fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s\n", formatter.Dim("DELIVERABLE"), item.DeliverableURL)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&override, "override", false, "Ignore dependency locks")
	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	var yes, cascade bool

	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete an item (children are orphaned unless --cascade)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			items, err := app.Missions.Snapshot(ctx)
			if err != nil {
				return err
			}
			id, err := resolveItemID(items, args[0])
			if err != nil {
				return err
			}
			item, _ := mission.Find(items, id)

			prompt := fmt.Sprintf("Delete %q? Its children will be orphaned.", item.Title)
			if cascade {
				prompt = fmt.Sprintf("Delete %q and all its children?", item.Title)
			}
			ok, err := confirm(app, yes, prompt)
			if err != nil || !ok {
				return err
			}

			n, err := app.Missions.Delete(ctx, id, cascade)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d item(s)\n", n)
			if !cascade {
				if orphaned := len(mission.Children(id, items)); orphaned > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), formatter.StyleYellow.Render(
						fmt.Sprintf("%d child item(s) orphaned; see 'missionctl orphans'", orphaned)))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	cmd.Flags().BoolVar(&cascade, "cascade", false, "Also delete every descendant")
	return cmd
}

// confirm asks a yes/no question on the terminal. Without a terminal the
// answer must be given up front with --yes.
func confirm(app *App, yes bool, title string) (bool, error) {
	if yes {
		return true, nil
	}
	if !app.interactive() {
		return false, errConfirmationRequired
	}
	var ok bool
	if err := wizardConfirm(title, &ok).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, err
	}
	return ok, nil
}
