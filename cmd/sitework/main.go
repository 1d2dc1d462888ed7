package main

import (
	"fmt"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/mfigueroa/sitework/internal/cli"
	"github.com/mfigueroa/sitework/internal/config"
	"github.com/mfigueroa/sitework/internal/db"
	"github.com/mfigueroa/sitework/internal/repository"
	"github.com/mfigueroa/sitework/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire repositories
	projectRepo := repository.NewSQLiteProjectRepo(database)
	unitRepo := repository.NewSQLiteUnitRepo(database)
	activityRepo := repository.NewSQLiteActivityRepo(database)
	unitActivityRepo := repository.NewSQLiteUnitActivityRepo(database)
	measurementRepo := repository.NewSQLiteMeasurementRepo(database)

	// Wire unit of work for transactional operations
	uow := db.NewSQLiteUnitOfWork(database)

	var observers []service.UseCaseObserver
	if cfg.LogUseCases {
		observers = append(observers, service.NewLogUseCaseObserver(os.Stderr))
	}

	app := &cli.App{
		DefaultCalendarMode: cfg.CalendarMode,

		Projects:     service.NewProjectService(projectRepo),
		Units:        service.NewUnitService(unitRepo),
		Plans:        service.NewPlanService(projectRepo, activityRepo, uow, observers...),
		Measurements: service.NewMeasurementService(measurementRepo, activityRepo, unitActivityRepo, unitRepo, uow, observers...),
		Progress:     service.NewProgressService(projectRepo, activityRepo, unitActivityRepo),
	}

	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	rootCmd := cli.NewRootCmd(app)
	return rootCmd.Execute()
}
