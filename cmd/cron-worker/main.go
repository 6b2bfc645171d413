package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/loyafu/storefront-backend/internal/cron"
	"github.com/loyafu/storefront-backend/internal/exchangerate"
	"github.com/loyafu/storefront-backend/pkg/config"
	"github.com/loyafu/storefront-backend/pkg/db"
	"github.com/loyafu/storefront-backend/pkg/logger"
	"github.com/loyafu/storefront-backend/pkg/metrics"
	"github.com/loyafu/storefront-backend/pkg/migrate"
	"github.com/loyafu/storefront-backend/pkg/rates"
	"github.com/loyafu/storefront-backend/pkg/redis"
)

func main() {
	once := flag.Bool("once", false, "run a single cycle and exit")
	jobs := flag.String("job", "", "comma separated job names to run (default: all)")
	flag.Parse()

	logg := logger.New(logger.Options{ServiceName: "cron-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	cfg.Service.Kind = "cron-worker"

	logg = logger.New(logger.Options{
		ServiceName: "cron-worker",
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

	service, err := buildCron(cfg, logg, dbClient, redisClient, splitJobs(*jobs))
	if err != nil {
		logg.Error(context.Background(), "failed to create cron service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":         cfg.App.Env,
		"serviceKind": cfg.Service.Kind,
		"once":        *once,
	})
	logg.Info(ctx, "starting cron worker")

	var runErr error
	if *once {
		runErr = service.RunOnce(ctx)
	} else {
		runErr = service.Run(ctx)
		if errors.Is(runErr, context.Canceled) {
			runErr = nil
		}
	}

	exitCode := 0
	if err := multierr.Combine(runErr, redisClient.Close(), dbClient.Close()); err != nil {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		exitCode = 1
	}
	logg.Info(ctx, "cron worker shutting down gracefully")
	os.Exit(exitCode)
}

func buildCron(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, only []string) (*cron.Service, error) {
	repo := exchangerate.NewRepository(dbClient.DB())
	params := exchangerate.ServiceParams{
		Repo:   repo,
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
	rateService, err := exchangerate.NewService(params)
	if err != nil {
		return nil, err
	}

	refreshJob, err := cron.NewExchangeRateJob(cron.ExchangeRateJobParams{
		Logger:  logg,
		Rates:   rateService,
		Metrics: metrics.NewExchangeRateMetrics(prometheus.DefaultRegisterer),
	})
	if err != nil {
		return nil, err
	}
	retentionJob, err := cron.NewRateRetentionJob(cron.RateRetentionJobParams{
		Logger:     logg,
		DB:         dbClient,
		Repository: repo,
		Retention:  cfg.ExchangeRate.Retention,
	})
	if err != nil {
		return nil, err
	}

	registry, err := cron.NewRegistry(refreshJob, retentionJob)
	if err != nil {
		return nil, err
	}
	if registry, err = registry.Only(only...); err != nil {
		return nil, err
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.CronLockKey(cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		return nil, err
	}

	return cron.NewService(cron.ServiceParams{
		Logger:     logg,
		Registry:   registry,
		Lock:       lock,
		Metrics:    metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval:   cfg.Cron.Interval,
		JobTimeout: cfg.Cron.JobTimeout,
	})
}

func splitJobs(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
