package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ovenshare/storefront/pkg/health"
	"github.com/ovenshare/storefront/pkg/middleware"
)

// RouterConfig carries the handlers and settings the router wires together.
type RouterConfig struct {
	Cart           *CartHandler
	Checkout       *CheckoutHandler
	Catalog        *CatalogHandler
	Health         *health.Handler
	Logger         *slog.Logger
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger))

	// Health check endpoints
	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Catalog reads need a session for auth passthrough but no device
	// binding.
	r.Group(func(r chi.Router) {
		r.Use(Session)

		r.Get("/api/v1/bakeries", cfg.Catalog.ListVendors)
		r.Get("/api/v1/bakeries/{id}", cfg.Catalog.GetVendor)
		r.Get("/api/v1/bakeries/{id}/reviews", cfg.Catalog.ListVendorReviews)
		r.Get("/api/v1/products", cfg.Catalog.ListProducts)
		r.Get("/api/v1/surplus-bags", cfg.Catalog.ListSurplusBags)
		r.Get("/api/v1/orders", cfg.Catalog.ListOrders)

		r.Group(func(r chi.Router) {
			r.Use(ContentTypeJSON)
			r.Post("/api/v1/reviews", cfg.Catalog.CreateReview)
		})
	})

	// Cart and checkout endpoints are scoped to a device.
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(Session)
		r.Use(DeviceIDFromHeader)

		r.Get("/", cfg.Cart.GetCart)
		r.Delete("/", cfg.Cart.ClearCart)

		r.Post("/items", cfg.Cart.AddItem)
		r.Put("/items/{itemType}/{vendorId}/{itemId}", cfg.Cart.UpdateQuantity)
		r.Delete("/items/{itemType}/{vendorId}/{itemId}", cfg.Cart.RemoveItem)
	})

	r.Group(func(r chi.Router) {
		r.Use(Session)
		r.Use(DeviceIDFromHeader)

		r.Post("/api/v1/checkout", cfg.Checkout.Checkout)
		r.Post("/api/v1/session/logout", cfg.Cart.Logout)
	})

	return r
}
