package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mfigueroa/sitework/internal/cli/formatter"
	"github.com/mfigueroa/sitework/internal/domain"
)

func newUnitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unit",
		Short: "Manage project units (houses, floors, blocks)",
	}

	cmd.AddCommand(
		newUnitAddCmd(app),
		newUnitListCmd(app),
	)

	return cmd
}

func newUnitAddCmd(app *App) *cobra.Command {
	var projectRef, name string
	var order int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a unit to a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}

			u := &domain.Unit{
				ProjectID:  p.ID,
				Name:       name,
				OrderIndex: order,
			}
			if err := app.Units.Create(ctx, u); err != nil {
				return err
			}
			fmt.Printf("Added unit %s to project %s\n", u.Name, p.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project short ID or UUID")
	cmd.Flags().StringVar(&name, "name", "", "Unit name")
	cmd.Flags().IntVar(&order, "order", 0, "Display order")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUnitListCmd(app *App) *cobra.Command {
	var projectRef string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List units of a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			p, err := resolveProject(ctx, app, projectRef)
			if err != nil {
				return err
			}
			units, err := app.Units.ListByProject(ctx, p.ID)
			if err != nil {
				return err
			}
			if len(units) == 0 {
				fmt.Println("No units found.")
				return nil
			}

			rows := make([][]string, 0, len(units))
			for _, u := range units {
				rows = append(rows, []string{strconv.Itoa(u.OrderIndex), u.Name})
			}
			fmt.Printf("%s\n", formatter.RenderTable([]string{"ORDER", "NAME"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectRef, "project", "", "Project short ID or UUID")
	_ = cmd.MarkFlagRequired("project")

	return cmd
}
