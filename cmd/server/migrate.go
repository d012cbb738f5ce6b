package main

import (
	"context"

	"github.com/spf13/cobra"

	"cms/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database tables and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		conn, err := db.Open(cfg.DB.Driver, cfg.DB.DSN)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx, cancel := db.WithTimeout(context.Background())
		defer cancel()
		if err := db.Migrate(ctx, conn, cfg.DB.Driver); err != nil {
			return err
		}
		log.WithField("driver", cfg.DB.Driver).Info("database migrated")
		return nil
	},
}
