package cli

import (
	"github.com/spf13/cobra"

	"github.com/mfigueroa/sitework/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects     service.ProjectService
	Units        service.UnitService
	Plans        service.PlanService
	Measurements service.MeasurementService
	Progress     service.ProgressService

	// DefaultCalendarMode seeds "project add --calendar" from config when the
	// flag is not passed.
	DefaultCalendarMode string

	// IsInteractive reports whether stdin is attached to a terminal;
	// interactive forms are only offered when it returns true.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "sitework" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "sitework",
		Short: "Construction plan scheduler and progress tracker",
	}

	root.AddCommand(
		newProjectCmd(app),
		newUnitCmd(app),
		newPlanCmd(app),
		newMeasureCmd(app),
		newStatusCmd(app),
		newBoardCmd(app),
	)

	return root
}
