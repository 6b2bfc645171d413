package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/multierr"

	"github.com/loyafu/storefront-backend/api/controllers"
	"github.com/loyafu/storefront-backend/api/routes"
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
	"github.com/loyafu/storefront-backend/internal/users"
	"github.com/loyafu/storefront-backend/pkg/auth/session"
	"github.com/loyafu/storefront-backend/pkg/config"
	"github.com/loyafu/storefront-backend/pkg/db"
	"github.com/loyafu/storefront-backend/pkg/logger"
	"github.com/loyafu/storefront-backend/pkg/metrics"
	"github.com/loyafu/storefront-backend/pkg/migrate"
	"github.com/loyafu/storefront-backend/pkg/rates"
	"github.com/loyafu/storefront-backend/pkg/redis"
)

const shutdownTimeout = 15 * time.Second

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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	services, sessionManager, err := buildServices(cfg, logg, dbClient, redisClient, registry)
	if err != nil {
		logg.Error(context.Background(), "failed to wire services", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	deps := map[string]controllers.Pinger{"postgres": dbClient, "redis": redisClient}
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps, redisClient, sessionManager, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}), services),
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	exitCode := 0
	select {
	case err := <-serveErr:
		if err != nil {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			exitCode = 1
		}
	case <-sigCtx.Done():
		logg.Info(ctx, "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	closeErr := multierr.Combine(
		server.Shutdown(shutdownCtx),
		redisClient.Close(),
		dbClient.Close(),
	)
	if closeErr != nil {
		logg.Error(ctx, "error during shutdown", closeErr)
		exitCode = 1
	}
	logg.Info(ctx, "api server stopped")
	os.Exit(exitCode)
}

func buildServices(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, reg prometheus.Registerer) (routes.Services, *session.Manager, error) {
	var out routes.Services

	sessionManager, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		return out, nil, err
	}

	if out.Auth, err = auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		AppConfig:      cfg.App,
		RegisterToken:  cfg.FeatureFlags.AdminRegisterToken,
		Logger:         logg,
	}); err != nil {
		return out, nil, err
	}

	productService, err := products.NewService(products.NewRepository(dbClient.DB()))
	if err != nil {
		return out, nil, err
	}
	out.Products = productService

	if out.Categories, err = categories.NewService(categories.NewRepository(dbClient.DB())); err != nil {
		return out, nil, err
	}
	if out.Testimonials, err = testimonials.NewService(testimonials.NewRepository(dbClient.DB())); err != nil {
		return out, nil, err
	}
	if out.FAQ, err = faq.NewService(faq.NewRepository(dbClient.DB())); err != nil {
		return out, nil, err
	}
	if out.Featured, err = featured.NewService(featured.NewRepository(dbClient.DB())); err != nil {
		return out, nil, err
	}
	settingsService, err := settings.NewService(settings.NewRepository(dbClient.DB()), cfg.Store)
	if err != nil {
		return out, nil, err
	}
	out.Settings = settingsService

	rateService, err := newExchangeRateService(cfg, logg, dbClient, redisClient)
	if err != nil {
		return out, nil, err
	}
	out.ExchangeRate = rateService

	store, err := cart.NewSessionStore(redisClient, cfg.Cart.SessionTTL)
	if err != nil {
		return out, nil, err
	}
	if out.Cart, err = cart.NewService(cart.ServiceParams{
		Store:           store,
		Catalog:         productService,
		Rates:           rateService,
		Identity:        settingsService,
		Metrics:         metrics.NewCheckoutMetrics(reg),
		Logger:          logg,
		CheckoutBaseURL: cfg.Cart.CheckoutBaseURL,
	}); err != nil {
		return out, nil, err
	}

	if out.Favorites, err = favorites.NewService(favorites.ServiceParams{
		Store:    redisClient,
		Products: productService,
		TTL:      cfg.Cart.SessionTTL,
	}); err != nil {
		return out, nil, err
	}

	return out, sessionManager, nil
}

// newExchangeRateService wires the upstream source only when one is configured.
func newExchangeRateService(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (exchangerate.Service, error) {
	params := exchangerate.ServiceParams{
		Repo:   exchangerate.NewRepository(dbClient.DB()),
		Cache:  redisClient,
		Config: cfg.ExchangeRate,
		Logger: logg,
	}
	if cfg.ExchangeRate.SourceURL != "" {
		client, err := rates.NewClient(cfg.ExchangeRate.SourceURL, cfg.ExchangeRate.APIKey)
		if err != nil {
			return nil, err
		}
		params.Source = client
	}
	return exchangerate.NewService(params)
}
