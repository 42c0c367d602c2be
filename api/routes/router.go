package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stockmasterhq/stockmaster-backend/api/controllers"
	"github.com/stockmasterhq/stockmaster-backend/api/middleware"
	authsvc "github.com/stockmasterhq/stockmaster-backend/internal/auth"
	locationsvc "github.com/stockmasterhq/stockmaster-backend/internal/locations"
	movesvc "github.com/stockmasterhq/stockmaster-backend/internal/moves"
	productsvc "github.com/stockmasterhq/stockmaster-backend/internal/products"
	"github.com/stockmasterhq/stockmaster-backend/pkg/config"
	"github.com/stockmasterhq/stockmaster-backend/pkg/db"
	"github.com/stockmasterhq/stockmaster-backend/pkg/logger"
	"github.com/stockmasterhq/stockmaster-backend/pkg/metrics"
	"github.com/stockmasterhq/stockmaster-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	dbP db.Pinger,
	redisClient *redis.Client,
	authService authsvc.Service,
	registerService authsvc.RegisterService,
	productService productsvc.Service,
	locationService locationsvc.Service,
	moveService movesvc.Service,
) http.Handler {
	var idemStore redis.IdempotencyStore
	var limiterStore middleware.RateLimiterStore
	var redisPinger redis.Pinger
	if redisClient != nil {
		idemStore = redisClient
		limiterStore = redisClient
		redisPinger = redisClient
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg, httpMetrics),
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
		r.Get("/ready", controllers.HealthReady(cfg, dbP, redisPinger))
	})

	if httpMetrics != nil {
		r.Handle("/metrics", httpMetrics.Handler())
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(
			middleware.AuthRateLimit(registerPolicy, limiterStore, logg),
			middleware.Idempotency(idemStore, logg),
		).Post("/register", controllers.Register(registerService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, limiterStore, logg)).Post("/verify", controllers.VerifyEmail(registerService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, limiterStore, logg)).Post("/login", controllers.Login(authService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idemStore, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Route("/users/profile", func(r chi.Router) {
			r.Get("/", controllers.Profile(authService, logg))
			r.Put("/", controllers.UpdateProfile(authService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", controllers.CreateProduct(productService, logg))
			r.Get("/", controllers.ListProducts(productService, logg))
			r.Route("/{productID}", func(r chi.Router) {
				r.Get("/", controllers.GetProduct(productService, logg))
				r.Patch("/", controllers.UpdateProduct(productService, logg))
				r.With(middleware.RequireManager(logg)).Delete("/", controllers.DeleteProduct(productService, logg))
				r.Get("/stock-by-location", controllers.StockByLocation(moveService, logg))
			})
		})

		r.Route("/locations", func(r chi.Router) {
			r.Post("/", controllers.CreateLocation(locationService, logg))
			r.Get("/", controllers.ListLocations(locationService, logg))
			r.Route("/{locationID}", func(r chi.Router) {
				r.Get("/", controllers.GetLocation(locationService, logg))
				r.Patch("/", controllers.UpdateLocation(locationService, logg))
				r.With(middleware.RequireManager(logg)).Delete("/", controllers.DeleteLocation(locationService, logg))
			})
		})

		r.Route("/stock-moves", func(r chi.Router) {
			r.Post("/", controllers.CreateMove(moveService, logg))
			r.Get("/", controllers.ListMoves(moveService, logg))
			r.Route("/{moveID}", func(r chi.Router) {
				r.Get("/", controllers.GetMove(moveService, logg))
				r.Patch("/status", controllers.SetMoveStatus(moveService, logg))
				r.With(middleware.RequireManager(logg)).Post("/validate", controllers.ValidateMove(moveService, logg))
			})
		})

		r.Get("/dashboard/stats", controllers.DashboardStats(moveService, logg))
	})

	return r
}
