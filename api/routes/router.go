package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dromero-dev/storefront-backend/api/controllers"
	"github.com/dromero-dev/storefront-backend/api/middleware"
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
	"github.com/dromero-dev/storefront-backend/pkg/logger"
	"github.com/dromero-dev/storefront-backend/pkg/metrics"
	"github.com/dromero-dev/storefront-backend/pkg/redis"
)

// SessionGate is the activity surface the router wires in: admission for the
// inactivity gate plus a passive read for the countdown endpoint.
type SessionGate interface {
	session.Admitter
	Remaining(ctx context.Context, accessID string, now time.Time) (time.Duration, error)
}

// Params bundles everything the router wires together.
type Params struct {
	Config          *config.Config
	Logger          *logger.Logger
	DB              db.Pinger
	Redis           *redis.Client
	ActivityManager SessionGate
	HTTPMetrics     *metrics.HTTPMetrics

	AuthService     authsvc.Service
	UsersRepo       *users.Repository
	ProductService  productssvc.Service
	CartService     cartsvc.Service
	CheckoutService checkoutsvc.Service
	OrdersService   orderssvc.Service
	ReportsService  reportssvc.Service
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

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.Post("/login", controllers.AuthLogin(p.AuthService, logg))
		// Logout stays outside the activity gate so an idle session can
		// still be closed cleanly.
		r.With(middleware.Auth(cfg.JWT, logg)).Post("/logout", controllers.AuthLogout(p.AuthService, logg))
	})

	// Catalog browsing is anonymous, like the storefront page itself.
	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(p.ProductService, logg))
		r.Get("/{productId}", controllers.ProductDetail(p.ProductService, logg))
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		// The countdown endpoint must not register as activity itself.
		r.Get("/api/v1/session/remaining", controllers.SessionRemaining(p.ActivityManager, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.ActivityGate(p.ActivityManager, cfg.App.LoginPageURL, logg))

			r.Get("/api/v1/session", controllers.SessionInfo(p.UsersRepo, logg))

			r.Route("/api/v1/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(p.CartService, logg))
				r.Put("/items", controllers.CartSetQuantity(p.CartService, logg))
			})

			r.Post("/api/v1/checkout", controllers.Checkout(p.CheckoutService, logg))

			r.Route("/api/v1/orders", func(r chi.Router) {
				r.Get("/", controllers.OrdersList(p.OrdersService, logg))
				r.Post("/{orderId}/status", controllers.OrderStatusUpdate(p.OrdersService, logg))
			})

			r.Route("/api/admin/v1", func(r chi.Router) {
				r.Use(middleware.RequireRole("admin", logg))
				r.Get("/reports/sales", controllers.ReportSales(p.ReportsService, logg))
			})
		})
	})

	return r
}
