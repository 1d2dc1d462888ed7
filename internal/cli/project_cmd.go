package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mfigueroa/sitework/internal/cli/formatter"
	"github.com/mfigueroa/sitework/internal/domain"
)

// resolveProject turns a short ID or full UUID into the project record.
func resolveProject(ctx context.Context, app *App, ref string) (*domain.Project, error) {
	if ref == "" {
		return nil, fmt.Errorf("project ID is required")
	}
	return app.Projects.Resolve(ctx, strings.ToUpper(ref))
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectInspectCmd(app),
		newProjectPauseCmd(app),
		newProjectResumeCmd(app),
		newProjectCancelCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, start, end, shortID, calendarMode string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			startDate, err := time.Parse("2006-01-02", start)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", start, err)
			}
			endDate, err := time.Parse("2006-01-02", end)
			if err != nil {
				return fmt.Errorf("invalid end date %q: %w", end, err)
			}

			p := &domain.Project{
				ShortID:      strings.ToUpper(shortID),
				Name:         name,
				StartDate:    startDate,
				EndDate:      endDate,
				CalendarMode: domain.CalendarMode(calendarMode),
			}
			if err := app.Projects.Create(context.Background(), p); err != nil {
				return err
			}

			fmt.Printf("Created project %s [%s]\n", p.Name, p.ShortID)
			return nil
		},
	}

	cmd.Flags().StringVar(&shortID, "id", "", "Short ID (3-6 uppercase letters + 2-4 digits, e.g. OBR01)")
	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "Planned end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&calendarMode, "calendar", app.DefaultCalendarMode, "Calendar mode (BUSINESS_DAYS|CALENDAR_DAYS)")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := app.Projects.List(context.Background())
			if err != nil {
				return err
			}
			if len(projects) == 0 {
				fmt.Println("No projects found.")
				return nil
			}
			fmt.Printf("%s\n", formatter.FormatProjectList(projects))
			return nil
		},
	}
}

func newProjectInspectCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect ID",
		Short: "Show a project's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(context.Background(), app, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s\n\n", formatter.Header(fmt.Sprintf("%s [%s]", p.Name, p.ShortID)))
			fmt.Printf("Status:    %s\n", formatter.StatusBadge(string(p.Status)))
			fmt.Printf("Window:    %s → %s\n", p.StartDate.Format("2006-01-02"), p.EndDate.Format("2006-01-02"))
			fmt.Printf("Calendar:  %s\n", p.CalendarMode)
			if p.ActualEndDate != nil {
				fmt.Printf("Finished:  %s\n", p.ActualEndDate.Format("2006-01-02"))
			}
			if len(p.Holidays) > 0 {
				fmt.Printf("Holidays:  %d\n", len(p.Holidays))
			}
			fmt.Printf("ID:        %s\n", formatter.Dim(p.ID))
			return nil
		},
	}
}

func newProjectPauseCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pause ID",
		Short: "Pause a project (exempt from automatic transitions while paused)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Pause(ctx, p.ID); err != nil {
				return err
			}
			fmt.Printf("Paused project %s\n", p.DisplayID())
			return nil
		},
	}
}

func newProjectResumeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "resume ID",
		Short: "Resume a paused project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Resume(ctx, p.ID); err != nil {
				return err
			}
			fmt.Printf("Resumed project %s\n", p.DisplayID())
			return nil
		},
	}
}

func newProjectCancelCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel ID",
		Short: "Cancel a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Cancel(ctx, p.ID); err != nil {
				return err
			}
			fmt.Printf("Cancelled project %s\n", p.DisplayID())
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "remove ID",
		Short: "Remove a project and its plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(ctx, p.ID, force); err != nil {
				return err
			}
			fmt.Printf("Removed project %s\n", p.DisplayID())
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Remove even if the project is still active")

	return cmd
}
