package main

import (
	"github.com/spf13/cobra"

	"resource-board/internal/bootstrap"
)

// migrate creates the tables or indexes of the configured storage driver
// without starting the server.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create storage tables or indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig()
		if err != nil {
			return err
		}

		storage, err := bootstrap.OpenStorage(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer func() {
			if err := storage.Close(cmd.Context()); err != nil {
				log.WithError(err).Warn("close storage failed")
			}
		}()

		if err := storage.Migrate(cmd.Context()); err != nil {
			return err
		}
		log.WithField("storage", storage.Driver).Info("migration complete")
		return nil
	},
}
