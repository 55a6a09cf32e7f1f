package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Skotchmaster/vigor_shop/internal/httpserver"
	"github.com/Skotchmaster/vigor_shop/internal/models"
	"github.com/Skotchmaster/vigor_shop/internal/payment"
	"github.com/Skotchmaster/vigor_shop/internal/repo"
	"github.com/Skotchmaster/vigor_shop/internal/service"
	"github.com/Skotchmaster/vigor_shop/internal/worker"
	"github.com/Skotchmaster/vigor_shop/pkg/cache"
	"github.com/Skotchmaster/vigor_shop/pkg/cookie"
	pkgdb "github.com/Skotchmaster/vigor_shop/pkg/db"
	"github.com/Skotchmaster/vigor_shop/pkg/events"
	middleware "github.com/Skotchmaster/vigor_shop/pkg/middleware/auth"
	"github.com/Skotchmaster/vigor_shop/pkg/tokens"
)

var serveMigrate = true

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the payment reconcile worker",
		RunE:  runServe,
	}
	cmd.Flags().BoolVar(&serveMigrate, "migrate", true, "apply schema migrations before serving")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer env.close()
	cfg, logger := env.cfg, env.logger

	if serveMigrate {
		if err := models.Migrate(env.db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	pub := events.New(cfg.KafkaBrokers)
	defer func() {
		if err := pub.Close(); err != nil {
			logger.Error("kafka_close_error", "error", err)
		}
	}()

	catalogCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, "vigor:catalog:", cfg.CatalogCacheTTL)
	defer func() {
		if err := catalogCache.Close(); err != nil {
			logger.Error("redis_close_error", "error", err)
		}
	}()
	if catalogCache.Enabled() {
		if err := catalogCache.Ping(ctx); err != nil {
			logger.Warn("redis_unreachable", "error", err)
		}
	}

	var provider payment.Provider = payment.NewLocalProvider(payment.Razorpay, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	if cfg.RazorpayAPIURL != "" {
		provider = payment.NewRazorpayClient(cfg.RazorpayAPIURL, cfg.RazorpayKeyID, cfg.RazorpayKeySecret)
	}
	logger.Info("payment_provider", "provider", provider.Name(), "remote", cfg.RazorpayAPIURL != "")

	store := repo.New(env.db)
	signer := tokens.NewSigner(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)

	catalog := service.NewCatalogService(store, catalogCache, pub)
	if ix, err := productIndex(ctx, cfg); err != nil {
		logger.Warn("search_index_disabled", "error", err)
	} else if ix != nil {
		catalog.Index = ix
		logger.Info("search_index_enabled", "index", cfg.ElasticsearchIndex)
	}
	orders := service.NewOrderService(store, pub)
	orders.Pricer = catalog
	orders.StrictPricing = cfg.StrictPricing
	payments := service.NewPaymentService(payment.NewRegistry(provider), store, store, pub, service.PaymentConfig{
		Currency:        cfg.PaymentCurrency,
		ProviderTimeout: cfg.ProviderTimeout,
		IntentTTL:       cfg.PaymentIntentTTL,
	})

	e := httpserver.New(&httpserver.Deps{
		Auth: &httpserver.AuthHTTP{
			Svc:    service.NewAuthService(store, signer, pub),
			Cookie: cookie.Options{Path: "/api/v1/auth", Secure: cfg.IsProduction()},
		},
		Catalog:     &httpserver.CatalogHTTP{Svc: catalog},
		Blog:        &httpserver.BlogHTTP{Svc: service.NewBlogService(store)},
		Orders:      &httpserver.OrderHTTP{Svc: orders},
		Payment:     &httpserver.PaymentHTTP{Svc: payments},
		Admin:       &httpserver.AdminHTTP{Svc: service.NewAdminService(store, store)},
		Guard:       middleware.NewGuard(cfg.JWTAccessSecret, cfg.JWTRefreshSecret),
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
		Ready:       func(ctx context.Context) error { return pkgdb.Ping(ctx, env.db) },
	})

	workerCtx, cancelWorker := context.WithCancel(ctx)
	workerDone := make(chan struct{})
	go func() {
		defer close(workerDone)
		worker.NewReconcileWorker(payments, cfg.ReconcileInterval, logger).Run(workerCtx)
	}()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http_listening", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		logger.Info("shutdown_requested")
	case serveErr = <-errCh:
		logger.Error("http_server_error", "error", serveErr)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_shutdown_error", "error", err)
	}

	cancelWorker()
	<-workerDone

	logger.Info("shutdown_complete")
	return serveErr
}
