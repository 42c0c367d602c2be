package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/stockmasterhq/stockmaster-backend/api/routes"
	"github.com/stockmasterhq/stockmaster-backend/internal/auth"
	locations "github.com/stockmasterhq/stockmaster-backend/internal/locations"
	moves "github.com/stockmasterhq/stockmaster-backend/internal/moves"
	products "github.com/stockmasterhq/stockmaster-backend/internal/products"
	"github.com/stockmasterhq/stockmaster-backend/internal/users"
	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/metrics"
	"github.com/stockmasterhq/stockmaster-backend/pkg/migrate"
	"github.com/stockmasterhq/stockmaster-backend/pkg/redis"
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

	httpMetrics := metrics.NewHTTPMetrics()
	ledgerMetrics := metrics.NewLedgerMetrics(httpMetrics.Registry())

	userRepo := users.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	locationRepo := locations.NewRepository(dbClient.DB())
	moveRepo := moves.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		OTPStore:       redisClient,
		PasswordConfig: cfg.Password,
		OTPConfig:      cfg.OTP,
		Logger:         logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	productService, err := products.NewService(productRepo, dbClient, locationRepo, cfg.Inventory.DefaultLowStockThreshold)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	locationService, err := locations.NewService(locationRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create location service", err)
		os.Exit(1)
	}

	moveService, err := moves.NewService(moveRepo, dbClient, productRepo, locationRepo, ledgerMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create move service", err)
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
		Handler: routes.NewRouter(
			cfg,
			logg,
			httpMetrics,
			dbClient,
			redisClient,
			authService,
			registerService,
			productService,
			locationService,
			moveService,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
