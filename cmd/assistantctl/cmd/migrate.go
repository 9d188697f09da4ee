package cmd

import (
	"cubie-assistant/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the assistant tables and extensions",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := database.NewGormDBFromDSN(cfg.Database.Connection, true)
		if err != nil {
			return err
		}
		if err := database.Migrate(db); err != nil {
			color.Red("Migration failed: %v", err)
			return err
		}
		color.Green("Migration complete")
		return nil
	},
}
