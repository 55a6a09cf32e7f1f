package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/vigor_shop/internal/repo"
	"github.com/Skotchmaster/vigor_shop/internal/service"
	"github.com/Skotchmaster/vigor_shop/pkg/events"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

func reindexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reindex",
		Short: "Push every product into the Elasticsearch index",
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			ix, err := productIndex(cmd.Context(), env.cfg)
			if err != nil {
				return fmt.Errorf("search index: %w", err)
			}
			if ix == nil {
				return errors.New("ES_URL is not set")
			}

			catalog := service.NewCatalogService(repo.New(env.db), nil, events.Noop{})
			catalog.Index = ix

			ctx := logging.IntoContext(cmd.Context(), env.logger)
			n, err := catalog.Reindex(ctx)
			if err != nil {
				return fmt.Errorf("reindex after %d products: %w", n, err)
			}
			env.logger.Info("reindex_success", "products", n, "index", env.cfg.ElasticsearchIndex)
			return nil
		},
	}
}
