package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfigueroa/sitework/internal/cli/formatter"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Import and schedule project plans",
	}

	cmd.AddCommand(
		newPlanImportCmd(app),
		newPlanScheduleCmd(app),
		newPlanShowCmd(app),
	)

	return cmd
}

func newPlanImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Import a plan from a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			summary, err := app.Plans.ImportPlan(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Print(formatter.FormatImportSummary(summary))
			return nil
		},
	}
}

func newPlanScheduleCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule ID",
		Short: "Compute and persist planned dates for a project's activities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			result, err := app.Plans.Schedule(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Printf("Scheduled %d plan nodes for project %s\n\n", len(result.Rows), p.DisplayID())
			fmt.Printf("%s\n", formatter.FormatScheduleResult(result))
			return nil
		},
	}
}

func newPlanShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a project's plan with planned dates and progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, args[0])
			if err != nil {
				return err
			}
			report, err := app.Progress.Report(ctx, p.ID)
			if err != nil {
				return err
			}
			fmt.Printf("%s\n", formatter.FormatProgressReport(report))
			return nil
		},
	}
}
