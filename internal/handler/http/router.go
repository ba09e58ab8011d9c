package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopworks/ecommerce-api/internal/domain"
	"github.com/shopworks/ecommerce-api/internal/service"
	"github.com/shopworks/ecommerce-api/pkg/health"
	"github.com/shopworks/ecommerce-api/pkg/middleware"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	AuthService     *service.AuthService
	CatalogService  *service.CatalogService
	CartService     *service.CartService
	WishlistService *service.WishlistService
	OrderService    *service.OrderService
	ReviewService   *service.ReviewService
	TokenValidator  middleware.TokenValidator
	HealthHandler   *health.Handler
	CORSConfig      middleware.CORSConfig
	Logger          *slog.Logger
}

// NewRouter creates a chi router with all API routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(deps.CORSConfig))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.Tracing("ecommerce-api"))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.PrometheusMetrics())

	// Health check endpoints
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	authHandler := NewAuthHandler(deps.AuthService, deps.Logger)
	categoryHandler := NewCategoryHandler(deps.CatalogService, deps.Logger)
	productHandler := NewProductHandler(deps.CatalogService, deps.Logger)
	cartHandler := NewCartHandler(deps.CartService, deps.Logger)
	wishlistHandler := NewWishlistHandler(deps.WishlistService, deps.Logger)
	orderHandler := NewOrderHandler(deps.OrderService, deps.Logger)
	reviewHandler := NewReviewHandler(deps.ReviewService, deps.Logger)

	requireAuth := middleware.Auth(deps.TokenValidator)
	requireAdmin := middleware.RequireRole(domain.RoleAdmin)

	// Public auth endpoints
	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(ContentTypeJSON).Post("/register", authHandler.Register)
		r.With(ContentTypeJSON).Post("/login", authHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authHandler.Me)
		})
	})

	// Catalog: reads are public, mutations are admin-only.
	r.Route("/api/v1/categories", func(r chi.Router) {
		r.Get("/", categoryHandler.List)
		r.Get("/{id}", categoryHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin, ContentTypeJSON)
			r.Post("/", categoryHandler.Create)
			r.Put("/{id}", categoryHandler.Update)
			r.Delete("/{id}", categoryHandler.Delete)
		})
	})

	r.Route("/api/v1/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Get("/{id}", productHandler.Get)
		r.Get("/{id}/reviews", reviewHandler.ListByProduct)
		r.Get("/{id}/reviews/summary", reviewHandler.Summary)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth, requireAdmin, ContentTypeJSON)
			r.Post("/", productHandler.Create)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})
	})

	// Per-user resources
	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/", cartHandler.Get)
		r.With(ContentTypeJSON).Post("/items", cartHandler.AddItem)
		r.Delete("/items/{productId}", cartHandler.RemoveItem)
	})

	r.Route("/api/v1/wishlist", func(r chi.Router) {
		r.Use(requireAuth)

		r.Get("/", wishlistHandler.Get)
		r.With(ContentTypeJSON).Post("/items", wishlistHandler.AddItem)
		r.Delete("/items/{productId}", wishlistHandler.RemoveItem)
	})

	r.Route("/api/v1/orders", func(r chi.Router) {
		r.Use(requireAuth)

		r.Post("/", orderHandler.Checkout)
		r.Get("/", orderHandler.List)
		r.Get("/{id}", orderHandler.Get)

		r.Group(func(r chi.Router) {
			r.Use(requireAdmin, ContentTypeJSON)
			r.Put("/{id}/status", orderHandler.UpdateStatus)
		})
	})

	r.Route("/api/v1/reviews", func(r chi.Router) {
		r.Use(requireAuth)

		r.With(ContentTypeJSON).Post("/", reviewHandler.Submit)
		r.Delete("/{id}", reviewHandler.Delete)
	})

	// Admin-only endpoints
	r.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(requireAuth, requireAdmin)

		r.Get("/verify", authHandler.VerifyAdmin)
		r.Get("/orders", orderHandler.ListAll)
	})

	return r
}
