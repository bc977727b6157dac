package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/agrisetu/agrisetu-backend/api/routes"
	"github.com/agrisetu/agrisetu-backend/internal/advisor"
	"github.com/agrisetu/agrisetu-backend/internal/auth"
	"github.com/agrisetu/agrisetu-backend/internal/cart"
	"github.com/agrisetu/agrisetu-backend/internal/fieldscans"
	"github.com/agrisetu/agrisetu-backend/internal/orders"
	"github.com/agrisetu/agrisetu-backend/internal/plans"
	"github.com/agrisetu/agrisetu-backend/internal/products"
	"github.com/agrisetu/agrisetu-backend/internal/soiltests"
	"github.com/agrisetu/agrisetu-backend/internal/users"
	"github.com/agrisetu/agrisetu-backend/pkg/auth/session"
	"github.com/agrisetu/agrisetu-backend/pkg/config"
	"github.com/agrisetu/agrisetu-backend/pkg/db"
	"github.com/agrisetu/agrisetu-backend/pkg/gemini"
	"github.com/agrisetu/agrisetu-backend/pkg/logger"
	"github.com/agrisetu/agrisetu-backend/pkg/metrics"
	"github.com/agrisetu/agrisetu-backend/pkg/migrate"
	"github.com/agrisetu/agrisetu-backend/pkg/outbox"
	"github.com/agrisetu/agrisetu-backend/pkg/redis"
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

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	geminiClient, err := gemini.New(context.Background(), cfg.Gemini, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap gemini client", err)
		os.Exit(1)
	}

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	sessionNotifier := auth.NewSessionNotifier()
	unsubscribe := sessionNotifier.Subscribe(func(u *users.UserDTO) {
		if u == nil {
			logg.Debug(context.Background(), "session ended")
			return
		}
		logg.Debug(logg.WithUserID(context.Background(), u.ID.String()), "session established")
	})
	defer unsubscribe()

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		Notifier:       sessionNotifier,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		Outbox:         outboxService,
		PasswordConfig: cfg.Password,
		Notifier:       sessionNotifier,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.NewRepository(dbClient.DB()), logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	productsRepo := products.NewRepository(dbClient.DB())
	productsService, err := products.NewService(productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create products service", err)
		os.Exit(1)
	}

	cartRepo := cart.NewRepository(dbClient.DB())
	cartService, err := cart.NewService(cartRepo, productsRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		DB:       dbClient,
		Repo:     orders.NewRepository(dbClient.DB()),
		CartRepo: cartRepo,
		Outbox:   outboxService,
		Logger:   logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	soilTestsService, err := soiltests.NewService(soiltests.NewRepository(dbClient.DB()), geminiClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create soil tests service", err)
		os.Exit(1)
	}

	scansService, err := fieldscans.NewService(fieldscans.NewRepository(dbClient.DB()), geminiClient, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create field scans service", err)
		os.Exit(1)
	}

	plansService, err := plans.NewService(plans.NewRepository(dbClient.DB()), geminiClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create plans service", err)
		os.Exit(1)
	}

	advisorService, err := advisor.NewService(advisor.ServiceParams{
		AI:       geminiClient,
		Products: productsService,
		Cart:     cartService,
		Orders:   ordersService,
		Plans:    plansService,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create advisor service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Handler: routes.NewRouter(routes.Deps{
			Config:         cfg,
			Logger:         logg,
			DB:             dbClient,
			Redis:          redisClient,
			SessionChecker: sessionManager,
			Registry:       registry,
			HTTPMetrics:    httpMetrics,
			Auth:           authService,
			Register:       registerService,
			Users:          usersService,
			Products:       productsService,
			Cart:           cartService,
			Orders:         ordersService,
			SoilTests:      soilTestsService,
			Scans:          scansService,
			Plans:          plansService,
			Advisor:        advisorService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
