package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookverse/bookcart/internal/auth"
	"github.com/bookverse/bookcart/internal/service"
	"github.com/bookverse/bookcart/pkg/health"
	"github.com/bookverse/bookcart/pkg/middleware"
)

// NewRouter creates a chi router with all cart and wishlist routes registered.
func NewRouter(
	cartService *service.CartService,
	wishlistService *service.WishlistService,
	jwtManager *auth.JWTManager,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("bookcart"))
	r.Use(middleware.Tracing("bookcart"))
	r.Use(middleware.RequestLogger(logger))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cartService, logger)
	wishlistHandler := NewWishlistHandler(wishlistService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Use(Auth(jwtManager, logger))

		r.Route("/cart", func(r chi.Router) {
			r.Post("/", cartHandler.AddToCart)
			r.Patch("/", cartHandler.UpdateCart)
			r.Get("/", cartHandler.ListCart)
			r.Delete("/{bookID}", cartHandler.RemoveFromCart)
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Post("/", wishlistHandler.AddToWishlist)
			r.Get("/", wishlistHandler.ListWishlist)
			r.Delete("/{bookID}", wishlistHandler.RemoveFromWishlist)
		})
	})

	return r
}
