package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/auth"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	"github.com/angelmondragon/storefront-backend/internal/catalog"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	"github.com/angelmondragon/storefront-backend/internal/filter"
	"github.com/angelmondragon/storefront-backend/internal/wishlist"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/snapshot"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config    *config.Config
	Logger    *logger.Logger
	Snapshots snapshot.Pinger
	Cache     snapshot.Pinger // nil when redis is not configured
	Registry  *prometheus.Registry
	HTTP      *metrics.HTTPMetrics

	Catalog  *catalog.Service
	Filters  *filter.Store
	Cart     *cart.Engine
	Drawer   *cart.Drawer
	Checkout checkoutsvc.Service
	Wishlist *wishlist.Store
	Auth     auth.Service
}

func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(deps.Logger),
		middleware.RequestID(deps.Logger),
		middleware.Logging(deps.Logger),
		middleware.Metrics(deps.HTTP),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(deps.Config))
		r.Get("/ready", controllers.HealthReady(deps.Config, deps.Logger, deps.Snapshots, deps.Cache))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Catalog, deps.Filters, deps.Logger))
			r.Post("/refresh", controllers.RefreshProducts(deps.Catalog, deps.Logger))
			r.Get("/categories", controllers.ListCategories(deps.Catalog, deps.Logger))
			r.Get("/compare", controllers.CompareProducts(deps.Catalog, deps.Logger))
			r.Get("/{id}", controllers.GetProduct(deps.Catalog, deps.Logger))
			r.Get("/{id}/recommendations", controllers.ProductRecommendations(deps.Catalog, deps.Logger))
		})

		r.Route("/filters", func(r chi.Router) {
			r.Get("/", controllers.GetFilters(deps.Filters))
			r.Post("/actions", controllers.DispatchFilterAction(deps.Filters, deps.Logger))
			r.Post("/reset", controllers.ResetFilters(deps.Filters))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.GetCart(deps.Cart, deps.Drawer))
			r.Delete("/", controllers.ClearCart(deps.Cart, deps.Drawer))
			r.Post("/items", controllers.AddCartItem(deps.Cart, deps.Drawer, deps.Catalog, deps.Logger))
			r.Patch("/items/{productId}", controllers.UpdateCartItem(deps.Cart, deps.Drawer, deps.Logger))
			r.Delete("/items/{productId}", controllers.RemoveCartItem(deps.Cart, deps.Drawer, deps.Logger))
			r.Post("/drawer/toggle", controllers.ToggleDrawer(deps.Cart, deps.Drawer))

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/methods", controllers.ShippingMethods(deps.Checkout))
				r.Post("/start", controllers.StartCheckout(deps.Checkout, deps.Cart, deps.Drawer))
				r.Post("/cancel", controllers.CancelCheckout(deps.Checkout, deps.Cart, deps.Drawer))
				r.Post("/", controllers.SubmitCheckout(deps.Checkout, deps.Logger))
			})
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.GetWishlist(deps.Wishlist, deps.Catalog, deps.Logger))
			r.Delete("/", controllers.ClearWishlist(deps.Wishlist))
			r.Post("/items", controllers.AddWishlistItem(deps.Wishlist, deps.Logger))
			r.Post("/items/{productId}/toggle", controllers.ToggleWishlistItem(deps.Wishlist, deps.Logger))
			r.Delete("/items/{productId}", controllers.RemoveWishlistItem(deps.Wishlist, deps.Logger))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", controllers.AuthLogin(deps.Auth, deps.Logger))
			r.Post("/register", controllers.AuthRegister(deps.Auth, deps.Logger))
			r.Post("/logout", controllers.AuthLogout(deps.Auth, deps.Logger))
			r.Get("/me", controllers.AuthMe(deps.Auth, deps.Logger))
		})
	})

	return r
}
