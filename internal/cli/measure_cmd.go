package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfigueroa/sitework/internal/cli/formatter"
	"github.com/mfigueroa/sitework/internal/contract"
)

func newMeasureCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "measure",
		Short: "Submit and review progress measurements",
	}

	cmd.AddCommand(
		newMeasureSubmitCmd(app),
		newMeasureReviewCmd(app),
		newMeasureListCmd(app),
	)

	return cmd
}

func newMeasureSubmitCmd(app *App) *cobra.Command {
	var projectRef, activity, unit, notes string
	var progress float64

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a progress measurement for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}

			m, err := app.Measurements.SubmitByName(ctx, p.ID, activity, unit, progress, notes)
			if err != nil {
				return err
			}

			target := activity
			if unit != "" {
				target = fmt.Sprintf("%s / %s", activity, unit)
			}
			fmt.Printf("Submitted measurement %s for %s: %.1f%% (was %.1f%%), pending review\n",
				formatter.Dim(m.ID[:8]), target, m.ProposedProgress, m.PreviousProgress)
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project short ID or UUID")
	cmd.Flags().StringVar(&activity, "activity", "", "Leaf activity name")
	cmd.Flags().StringVar(&unit, "unit", "", "Unit name (required when the activity tracks multiple units)")
	cmd.Flags().Float64Var(&progress, "progress", 0, "Proposed progress (0-100)")
	cmd.Flags().StringVar(&notes, "notes", "", "Submission notes")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("activity")
	_ = cmd.MarkFlagRequired("progress")

	return cmd
}

func newMeasureReviewCmd(app *App) *cobra.Command {
	var approve, reject bool
	var notes, reviewer string

	cmd := &cobra.Command{
		Use:   "review MEASUREMENT_ID",
		Short: "Approve or reject a pending measurement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if approve && reject {
				return fmt.Errorf("--approve and --reject are mutually exclusive")
			}

			decided := approve || reject
			if !decided {
				if !app.IsInteractive() {
					return fmt.Errorf("pass --approve or --reject (interactive review needs a terminal)")
				}
				if err := reviewDecisionForm(&approve, &notes).Run(); err != nil {
					return err
				}
				decided = true
			}

			if reviewer == "" {
				reviewer = os.Getenv("USER")
			}

			result, err := app.Measurements.Review(context.Background(), contract.ReviewRequest{
				MeasurementID: args[0],
				ReviewerID:    reviewer,
				Approve:       approve,
				Notes:         notes,
			})
			if err != nil {
				return err
			}

			fmt.Print(formatter.FormatReviewResult(result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&approve, "approve", false, "Approve the measurement")
	cmd.Flags().BoolVar(&reject, "reject", false, "Reject the measurement")
	cmd.Flags().StringVar(&notes, "notes", "", "Review notes")
	cmd.Flags().StringVar(&reviewer, "reviewer", "", "Reviewer name (defaults to $USER)")

	return cmd
}

func newMeasureListCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending measurements for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}

			pending, err := app.Measurements.ListPending(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(pending) == 0 {
				fmt.Println("No pending measurements.")
				return nil
			}

			report, err := app.Progress.Report(ctx, p.ID)
			if err != nil {
				return err
			}
			names := make(map[string]string, len(report.Rows))
			for _, row := range report.Rows {
				names[row.ID] = row.Name
			}

			fmt.Printf("%s\n", formatter.FormatPendingMeasurements(pending, names))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project short ID or UUID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
