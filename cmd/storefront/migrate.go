package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/vigor_shop/internal/models"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			if err := models.Migrate(env.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			env.logger.Info("migrate_success")
			return nil
		},
	}
}
