package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dromero-dev/storefront-backend/api/routes"
	authsvc "github.com/dromero-dev/storefront-backend/internal/auth"
	cartsvc "github.com/dromero-dev/storefront-backend/internal/cart"
	checkoutsvc "github.com/dromero-dev/storefront-backend/internal/checkout"
	orderssvc "github.com/dromero-dev/storefront-backend/internal/orders"
	productssvc "github.com/dromero-dev/storefront-backend/internal/products"
	reportssvc "github.com/dromero-dev/storefront-backend/internal/reports"
	"github.com/dromero-dev/storefront-backend/internal/users"
	"github.com/dromero-dev/storefront-backend/pkg/auth/session"
	"github.com/dromero-dev/storefront-backend/pkg/config"
	"github.com/dromero-dev/storefront-backend/pkg/db"
	"github.com/dromero-dev/storefront-backend/pkg/env"
	"github.com/dromero-dev/storefront-backend/pkg/logger"
	"github.com/dromero-dev/storefront-backend/pkg/metrics"
	"github.com/dromero-dev/storefront-backend/pkg/migrate"
	"github.com/dromero-dev/storefront-backend/pkg/redis"
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

	activityManager, err := session.NewActivityManager(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create activity manager", err)
		os.Exit(1)
	}

	usersRepo := users.NewRepository(dbClient.DB())

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		UserRepo:        usersRepo,
		ActivityManager: activityManager,
		JWTConfig:       cfg.JWT,
		PasswordConfig:  cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	productService, err := productssvc.NewService(productssvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	ledgerStore := cartsvc.NewLedgerStore()
	cartService, err := cartsvc.NewService(ledgerStore, productService, nil, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersRepo := orderssvc.NewRepository(dbClient.DB())
	ordersService, err := orderssvc.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	checkoutService, err := checkoutsvc.NewService(cartService, ordersRepo, dbClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	reportsService, err := reportssvc.NewService(reportssvc.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create reports service", err)
		os.Exit(1)
	}

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	port := env.Get("PORT", cfg.App.Port)
	addr := ":" + port
	id := env.Get("DYNO", "local")
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": id,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Params{
			Config:          cfg,
			Logger:          logg,
			DB:              dbClient,
			Redis:           redisClient,
			ActivityManager: activityManager,
			HTTPMetrics:     httpMetrics,
			AuthService:     authService,
			UsersRepo:       usersRepo,
			ProductService:  productService,
			CartService:     cartService,
			CheckoutService: checkoutService,
			OrdersService:   ordersService,
			ReportsService:  reportsService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
