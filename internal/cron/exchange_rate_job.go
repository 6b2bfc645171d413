package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/loyafu/storefront-backend/internal/exchangerate"
	"github.com/loyafu/storefront-backend/pkg/logger"
)

const ExchangeRateRefreshJobName = "exchange-rate-refresh"

type rateRefresher interface {
	Refresh(ctx context.Context) (exchangerate.Rate, error)
	Current(ctx context.Context) (exchangerate.Rate, error)
}

type ExchangeRateJobParams struct {
	Logger  *logger.Logger
	Rates   rateRefresher
	Metrics rateRecorder
}

// rateRecorder publishes the rate shoppers are priced with.
type rateRecorder interface {
	SetRate(source string, value decimal.Decimal, fetchedAt time.Time)
}

func NewExchangeRateJob(params ExchangeRateJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Rates == nil {
		return nil, fmt.Errorf("exchange rate service required")
	}
	return &exchangeRateJob{
		logg:    params.Logger,
		rates:   params.Rates,
		metrics: params.Metrics,
	}, nil
}

type exchangeRateJob struct {
	logg    *logger.Logger
	rates   rateRefresher
	metrics rateRecorder
}

func (j *exchangeRateJob) Name() string { return ExchangeRateRefreshJobName }

// Run refreshes the rate from the upstream source. When the refresh fails the
// gauge still reports the rate currently served, and both errors are returned.
func (j *exchangeRateJob) Run(ctx context.Context) error {
	rate, err := j.rates.Refresh(ctx)
	if err != nil {
		current, currentErr := j.rates.Current(ctx)
		if currentErr == nil {
			j.record(current)
		}
		return multierr.Append(fmt.Errorf("refresh exchange rate: %w", err), currentErr)
	}
	j.record(rate)
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"rate":       rate.Value.String(),
		"source":     rate.Source,
		"fetched_at": rate.FetchedAt,
	})
	j.logg.Info(logCtx, "exchange rate refreshed")
	return nil
}

func (j *exchangeRateJob) record(rate exchangerate.Rate) {
	if j.metrics == nil {
		return
	}
	j.metrics.SetRate(rate.Source, rate.Value, rate.FetchedAt)
}
