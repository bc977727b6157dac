package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agrisetu/agrisetu-backend/api/controllers"
	"github.com/agrisetu/agrisetu-backend/api/middleware"
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
	"github.com/agrisetu/agrisetu-backend/pkg/enums"
	"github.com/agrisetu/agrisetu-backend/pkg/logger"
	"github.com/agrisetu/agrisetu-backend/pkg/metrics"
	"github.com/agrisetu/agrisetu-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             db.Pinger
	Redis          *redis.Client
	SessionChecker session.AccessSessionChecker
	Registry       *prometheus.Registry
	HTTPMetrics    *metrics.HTTPMetrics

	Auth      auth.Service
	Register  auth.RegisterService
	Users     users.Service
	Products  products.Service
	Cart      cart.Service
	Orders    orders.Service
	SoilTests soiltests.Service
	Scans     fieldscans.Service
	Plans     plans.Service
	Advisor   advisor.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readyChecks(deps)))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.Register, deps.Auth, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Auth, cfg.JWT, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))

		r.Route("/profile", func(r chi.Router) {
			r.Get("/", controllers.ProfileFetch(deps.Users, logg))
			r.Put("/", controllers.ProfileUpdate(deps.Users, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(deps.Products, logg))
			r.Get("/{productId}", controllers.ProductDetail(deps.Products, logg))
		})
		r.Route("/crops", func(r chi.Router) {
			r.Get("/", controllers.CropProfileList(deps.Products, logg))
			r.Get("/{cropName}", controllers.CropProfileDetail(deps.Products, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(deps.Cart, logg))
			r.Put("/items", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.Orders, logg))
		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderList(deps.Orders, logg))
			r.Get("/orphans", controllers.OrderOrphans(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrderDetail(deps.Orders, logg))
		})

		r.Route("/soil-tests", func(r chi.Router) {
			r.Post("/", controllers.SoilTestAnalyze(deps.SoilTests, logg))
			r.Get("/", controllers.SoilTestHistory(deps.SoilTests, logg))
			r.Patch("/{testId}", controllers.SoilTestUpdate(deps.SoilTests, logg))
			r.Delete("/{testId}", controllers.SoilTestDelete(deps.SoilTests, logg))
		})
		r.Route("/field-scans", func(r chi.Router) {
			r.Post("/", controllers.FieldScanCreate(deps.Scans, logg))
			r.Get("/", controllers.FieldScanHistory(deps.Scans, logg))
		})
		r.Route("/plans", func(r chi.Router) {
			r.Post("/", controllers.PlanGenerate(deps.Plans, logg))
			r.Get("/", controllers.PlanList(deps.Plans, logg))
			r.Get("/{planId}", controllers.PlanDetail(deps.Plans, logg))
			r.Post("/{planId}/status", controllers.PlanAdvanceStatus(deps.Plans, logg))
		})

		r.Route("/advisor", func(r chi.Router) {
			r.Post("/crop-intelligence", controllers.AdvisorCropIntelligence(deps.Advisor, logg))
			r.Post("/advisory", controllers.AdvisorCropAdvisory(deps.Advisor, logg))
			r.Post("/market-insights", controllers.AdvisorMarketInsights(deps.Advisor, logg))
			r.Post("/weather-alert", controllers.AdvisorWeatherAlert(deps.Advisor, logg))
		})
		r.Get("/dashboard", controllers.AdvisorDashboard(deps.Advisor, logg))
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.SessionChecker, logg))
		r.Use(middleware.RequireRole(string(enums.UserRoleAdmin), logg))
		r.Get("/orders/orphans", controllers.AdminOrphanOrders(deps.Orders, logg))
		r.Post("/products", controllers.AdminProductCreate(deps.Products, logg))
		r.Patch("/products/{productId}", controllers.AdminProductUpdate(deps.Products, logg))
	})

	return r
}

func readyChecks(deps Deps) map[string]controllers.Pinger {
	checks := map[string]controllers.Pinger{}
	if deps.DB != nil {
		checks["database"] = deps.DB
	}
	if deps.Redis != nil {
		checks["redis"] = deps.Redis
	}
	return checks
}
