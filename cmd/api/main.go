package main

import (
	"context"
	"net/http"
	"os"

	"github.com/glambook/glambook-backend/api/routes"
	"github.com/glambook/glambook-backend/internal/bookings"
	"github.com/glambook/glambook-backend/internal/cart"
	checkoutsvc "github.com/glambook/glambook-backend/internal/checkout"
	"github.com/glambook/glambook-backend/internal/ledger"
	"github.com/glambook/glambook-backend/internal/notifications"
	"github.com/glambook/glambook-backend/internal/partners"
	"github.com/glambook/glambook-backend/internal/stock"
	"github.com/glambook/glambook-backend/internal/wallet"
	"github.com/glambook/glambook-backend/pkg/config"
	"github.com/glambook/glambook-backend/pkg/db"
	"github.com/glambook/glambook-backend/pkg/logger"
	"github.com/glambook/glambook-backend/pkg/migrate"
	"github.com/glambook/glambook-backend/pkg/redis"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	gormDB := dbClient.DB()
	partnerRepo := partners.NewRepository(gormDB)
	stockRepo := stock.NewRepository(gormDB)
	balanceRepo := wallet.NewBalanceRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	bookingRepo := bookings.NewRepository(gormDB)
	ledgerRepo := ledger.NewRepository(gormDB)
	notificationRepo := notifications.NewRepository(gormDB)

	notificationSvc, err := notifications.NewService(notificationRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	ledgerSvc, err := ledger.NewService(ledger.ServiceParams{
		Tx:               dbClient,
		Repo:             ledgerRepo,
		Partners:         partnerRepo,
		Balances:         balanceRepo,
		Bookings:         bookingRepo,
		Notifier:         notificationSvc,
		MaxRechargePaise: cfg.Wallet.MaxRechargePaise,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create ledger service", err)
		os.Exit(1)
	}

	cartSvc, err := cart.NewService(cartRepo, partnerRepo, stockRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	checkoutSvc, err := checkoutsvc.NewService(checkoutsvc.ServiceParams{
		Tx:       dbClient,
		Cart:     cartRepo,
		Partners: partnerRepo,
		Stock:    stockRepo,
		Balances: balanceRepo,
		Ledger:   ledgerSvc,
		Bookings: bookingRepo,
		Notifier: notificationSvc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	bookingSvc, err := bookings.NewService(bookings.ServiceParams{
		Tx:       dbClient,
		Repo:     bookingRepo,
		Partners: partnerRepo,
		Stock:    stockRepo,
		Balances: balanceRepo,
		Ledger:   ledgerSvc,
		Notifier: notificationSvc,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create bookings service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:        cfg,
			Logger:        logg,
			DB:            dbClient,
			Redis:         redisClient,
			Cart:          cartSvc,
			Checkout:      checkoutSvc,
			Bookings:      bookingSvc,
			Ledger:        ledgerSvc,
			Notifications: notificationSvc,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
