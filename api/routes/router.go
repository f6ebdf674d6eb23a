package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/storeratehq/storerate-backend/api/controllers"
	"github.com/storeratehq/storerate-backend/api/middleware"
	"github.com/storeratehq/storerate-backend/internal/auth"
	"github.com/storeratehq/storerate-backend/internal/ratings"
	"github.com/storeratehq/storerate-backend/internal/stores"
	"github.com/storeratehq/storerate-backend/internal/users"
	"github.com/storeratehq/storerate-backend/pkg/auth/session"
	"github.com/storeratehq/storerate-backend/pkg/config"
	"github.com/storeratehq/storerate-backend/pkg/db"
	"github.com/storeratehq/storerate-backend/pkg/enums"
	"github.com/storeratehq/storerate-backend/pkg/logger"
	"github.com/storeratehq/storerate-backend/pkg/metrics"
	"github.com/storeratehq/storerate-backend/pkg/redis"
)

// Params bundles everything the router wires together.
type Params struct {
	Config          *config.Config
	Logger          *logger.Logger
	DBPinger        db.Pinger
	RedisClient     *redis.Client
	SessionManager  session.AccessSessionChecker
	HTTPMetrics     *metrics.HTTPMetrics
	MetricsGatherer prometheus.Gatherer

	AuthService     auth.Service
	RegisterService auth.RegisterService
	UserService     users.Service
	StoreService    stores.Service
	RatingService   ratings.Service
}

func NewRouter(p Params) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
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
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.RedisClient))
	})

	if p.MetricsGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.MetricsGatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, p.RedisClient, logg)).Post("/register", controllers.Register(p.RegisterService, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, p.RedisClient, logg)).Post("/login", controllers.Login(p.AuthService, logg))
		r.Post("/refresh", controllers.Refresh(p.AuthService, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))

		r.Get("/ping", controllers.PrivatePing())
		r.Post("/auth/logout", controllers.Logout(p.AuthService, logg))
		r.Get("/me", controllers.Me(p.UserService, logg))
		r.Post("/me/password", controllers.ChangePassword(p.UserService, logg))

		r.Route("/stores", func(r chi.Router) {
			r.Get("/", controllers.ListStores(p.StoreService, cfg.Listing, logg))
			r.Get("/{storeID}/ratings/summary", controllers.StoreRatingSummary(p.RatingService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(enums.RoleNormalUser, logg))
				r.Post("/{storeID}/ratings", controllers.SubmitRating(p.RatingService, logg))
			})
		})

		r.Route("/owner", func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.RoleStoreOwner, logg))
			r.Get("/dashboard", controllers.OwnerDashboard(p.StoreService, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Use(middleware.RequireRole(enums.RoleAdmin, logg))
		r.Get("/ping", controllers.AdminPing())

		r.Route("/v1", func(r chi.Router) {
			r.Get("/dashboard", controllers.AdminDashboard(p.UserService, logg))

			r.Route("/users", func(r chi.Router) {
				r.Get("/", controllers.AdminListUsers(p.UserService, cfg.Listing, logg))
				r.Post("/", controllers.AdminCreateUser(p.UserService, logg))
				r.Get("/{userID}", controllers.AdminGetUser(p.UserService, logg))
			})

			r.Route("/stores", func(r chi.Router) {
				r.Get("/", controllers.AdminListStores(p.StoreService, cfg.Listing, logg))
				r.Post("/", controllers.CreateStore(p.StoreService, logg))
				r.Get("/{storeID}/ratings", controllers.ListStoreRatings(p.RatingService, cfg.Listing, logg))
			})
		})
	})

	return r
}
