package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/loyafu/storefront-backend/api/controllers"
	"github.com/loyafu/storefront-backend/api/middleware"
	"github.com/loyafu/storefront-backend/internal/auth"
	"github.com/loyafu/storefront-backend/internal/cart"
	"github.com/loyafu/storefront-backend/internal/categories"
	"github.com/loyafu/storefront-backend/internal/exchangerate"
	"github.com/loyafu/storefront-backend/internal/faq"
	"github.com/loyafu/storefront-backend/internal/favorites"
	"github.com/loyafu/storefront-backend/internal/featured"
	products "github.com/loyafu/storefront-backend/internal/products"
	"github.com/loyafu/storefront-backend/internal/settings"
	"github.com/loyafu/storefront-backend/internal/testimonials"
	"github.com/loyafu/storefront-backend/pkg/auth/session"
	"github.com/loyafu/storefront-backend/pkg/config"
	"github.com/loyafu/storefront-backend/pkg/enums"
	"github.com/loyafu/storefront-backend/pkg/logger"
	"github.com/loyafu/storefront-backend/pkg/redis"
)

// Services groups the domain services the router dispatches to. A nil
// service makes its endpoints answer 500.
type Services struct {
	Auth         auth.Service
	Products     products.Service
	Categories   categories.Service
	Testimonials testimonials.Service
	FAQ          faq.Service
	Settings     settings.Service
	Featured     featured.Service
	ExchangeRate exchangerate.Service
	Cart         cart.Service
	Favorites    favorites.Service
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	deps map[string]controllers.Pinger,
	redisClient *redis.Client,
	sessionManager session.AccessSessionChecker,
	metricsHandler http.Handler,
	svc Services,
) http.Handler {
	var (
		limits  middleware.RateLimitStore
		replays middleware.IdempotencyStore
	)
	if redisClient != nil {
		limits, replays = redisClient, redisClient
	}
	idempotent := middleware.Idempotency(replays, middleware.DefaultIdempotencyTTL, logg)

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	loginPolicy := middleware.NewRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	testimonialPolicy := middleware.NewRateLimitPolicy(
		"testimonial",
		cfg.AuthRateLimit.TestimonialWindow,
		cfg.AuthRateLimit.TestimonialIPLimit,
		0,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})
	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(svc.Products, logg))
		r.Get("/products/{productId}", controllers.ProductDetail(svc.Products, logg))
		r.Get("/categories", controllers.CategoryList(svc.Categories, logg))
		r.Get("/testimonials", controllers.TestimonialList(svc.Testimonials, logg))
		r.With(middleware.RateLimit(testimonialPolicy, limits, logg), idempotent).
			Post("/testimonials", controllers.TestimonialSubmit(svc.Testimonials, logg))
		r.Get("/faq", controllers.FAQList(svc.FAQ, logg))
		r.Get("/settings", controllers.SettingsGet(svc.Settings, logg))
		r.Get("/featured", controllers.FeaturedGet(svc.Featured, logg))
		r.Get("/exchange-rate", controllers.ExchangeRateCurrent(svc.ExchangeRate, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.CartSession(logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartGet(svc.Cart, logg))
				r.Delete("/", controllers.CartClear(svc.Cart, logg))
				r.Post("/items", controllers.CartAddItem(svc.Cart, logg))
				r.Patch("/items", controllers.CartUpdateQuantity(svc.Cart, logg))
				r.Delete("/items", controllers.CartRemoveItem(svc.Cart, logg))
				r.Patch("/items/color", controllers.CartUpdateColor(svc.Cart, logg))
				r.Put("/preferences", controllers.CartPreferences(svc.Cart, logg))
				r.Get("/quote", controllers.CartQuote(svc.Cart, logg))
				r.With(idempotent).Post("/checkout", controllers.CartCheckout(svc.Cart, logg))
			})

			r.Route("/favorites", func(r chi.Router) {
				r.Get("/", controllers.FavoritesList(svc.Favorites, logg))
				r.Post("/", controllers.FavoritesAdd(svc.Favorites, logg))
				r.Delete("/", controllers.FavoritesRemove(svc.Favorites, logg))
			})
		})
	})

	r.Route("/api/admin/v1/auth", func(r chi.Router) {
		r.With(middleware.RateLimit(loginPolicy, limits, logg)).Post("/login", controllers.AdminAuthLogin(svc.Auth, logg))
		r.Post("/refresh", controllers.AdminAuthRefresh(svc.Auth, logg))
		r.Post("/logout", controllers.AdminAuthLogout(svc.Auth, cfg.JWT, logg))
		if !cfg.App.IsProd() {
			r.Post("/register", controllers.AdminAuthRegister(svc.Auth, logg))
		}
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, sessionManager, logg))
		r.Use(middleware.RequireRole(logg, enums.RoleAdmin))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(svc.Products, logg))
			r.With(idempotent).Post("/", controllers.AdminProductCreate(svc.Products, logg))
			r.Patch("/{productId}", controllers.AdminProductUpdate(svc.Products, logg))
			r.Delete("/{productId}", controllers.AdminProductDelete(svc.Products, logg))
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", controllers.AdminCategoryCreate(svc.Categories, logg))
			r.Patch("/{categoryId}", controllers.AdminCategoryUpdate(svc.Categories, logg))
			r.Delete("/{categoryId}", controllers.AdminCategoryDelete(svc.Categories, logg))
		})

		r.Route("/testimonials", func(r chi.Router) {
			r.Get("/", controllers.AdminTestimonialList(svc.Testimonials, logg))
			r.Patch("/{testimonialId}", controllers.AdminTestimonialApprove(svc.Testimonials, logg))
			r.Delete("/{testimonialId}", controllers.AdminTestimonialDelete(svc.Testimonials, logg))
		})

		r.Route("/faq", func(r chi.Router) {
			r.Post("/", controllers.AdminFAQCreate(svc.FAQ, logg))
			r.Patch("/{faqId}", controllers.AdminFAQUpdate(svc.FAQ, logg))
			r.Delete("/{faqId}", controllers.AdminFAQDelete(svc.FAQ, logg))
		})

		r.Put("/settings", controllers.AdminSettingsUpdate(svc.Settings, logg))

		r.Get("/featured", controllers.AdminFeaturedGet(svc.Featured, logg))
		r.Put("/featured", controllers.AdminFeaturedUpsert(svc.Featured, logg))

		r.Route("/exchange-rate", func(r chi.Router) {
			r.Post("/", controllers.AdminExchangeRateSet(svc.ExchangeRate, logg))
			r.Post("/refresh", controllers.AdminExchangeRateRefresh(svc.ExchangeRate, logg))
			r.Get("/history", controllers.AdminExchangeRateHistory(svc.ExchangeRate, logg))
		})
	})

	return r
}
