package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/templui/goalnudge/internal/config"
	"github.com/templui/goalnudge/internal/db"
	"github.com/templui/goalnudge/internal/logger"
)

func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect database migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}
			return runMigrate(direction)
		},
	}
}

func runMigrate(direction string) error {
	cfg := config.Load()
	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN, cfg.AppName, cfg.AppEnv)

	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close(database)

	switch direction {
	case "up":
		err = db.RunMigrations(database.DB, cfg.DBDriver)
	case "down":
		err = db.MigrateDown(database.DB, cfg.DBDriver)
	}
	if err != nil {
		return err
	}

	version, err := db.Version(database.DB, cfg.DBDriver)
	if err != nil {
		return err
	}

	fmt.Printf("database version: %d\n", version)
	return nil
}
