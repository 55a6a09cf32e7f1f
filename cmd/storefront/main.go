package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/vigor_shop/internal/config"
	"github.com/Skotchmaster/vigor_shop/internal/search"
	pkgdb "github.com/Skotchmaster/vigor_shop/pkg/db"
	"github.com/Skotchmaster/vigor_shop/pkg/logging"
)

var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:           "storefront",
		Short:         "Vigor Ayurveda storefront API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		// bare invocation serves, so the container entrypoint needs no args
		RunE: runServe,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(reindexCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type env struct {
	cfg    config.ServiceConfig
	logger *slog.Logger
	db     *gorm.DB
}

// bootstrap loads config, installs the logger and opens the database.
func bootstrap(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	openCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	db, err := pkgdb.Open(openCtx, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	return &env{cfg: cfg, logger: logger, db: db}, nil
}

func (e *env) close() {
	if err := pkgdb.Close(e.db); err != nil {
		e.logger.Error("db_close_error", "error", err)
	}
}

// productIndex returns nil when no Elasticsearch URL is configured.
func productIndex(ctx context.Context, cfg config.ServiceConfig) (*search.Index, error) {
	if cfg.ElasticsearchURL == "" {
		return nil, nil
	}
	client, err := search.NewClient(cfg.ElasticsearchURL, cfg.ElasticsearchUser, cfg.ElasticsearchPassword)
	if err != nil {
		return nil, err
	}
	ix := search.NewIndex(client, cfg.ElasticsearchIndex)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := ix.Ping(pingCtx); err != nil {
		return nil, err
	}
	return ix, nil
}
