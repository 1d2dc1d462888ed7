package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfigueroa/sitework/internal/cli/formatter"
)

func newStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status ID",
		Short: "Show weighted progress for a project's plan",
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
