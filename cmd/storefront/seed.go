package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/seed"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

func seedCmd() *cobra.Command {
	opts := seed.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load demo products, categories, blog posts and accounts",
		Long: `Load the demo catalogue into the configured database.

Existing rows are kept unless --reset is given. Accounts, orders and
payments are never deleted.

Examples:
  storefront seed
  storefront seed --reset --admin-password 'S3cure!pass'`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			if err := models.Migrate(env.db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			ctx := logging.IntoContext(cmd.Context(), env.logger)
			if err := seed.Run(ctx, env.db, opts); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			if opts.AdminPassword == seed.DefaultOptions().AdminPassword {
				env.logger.Warn("seed_default_admin_password", "email", opts.AdminEmail)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&opts.Reset, "reset", false, "delete catalogue and blog posts first")
	cmd.Flags().StringVar(&opts.AdminEmail, "admin-email", opts.AdminEmail, "admin account email")
	cmd.Flags().StringVar(&opts.AdminPassword, "admin-password", opts.AdminPassword, "admin account password")
	cmd.Flags().StringVar(&opts.UserEmail, "user-email", opts.UserEmail, "demo customer email")
	cmd.Flags().StringVar(&opts.UserPassword, "user-password", opts.UserPassword, "demo customer password")
	return cmd
}
