package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/loyafu/storefront-backend/internal/exchangerate"
	"github.com/loyafu/storefront-backend/pkg/logger"
)

type fakeRates struct {
	refreshErr error
	currentErr error
	rate       exchangerate.Rate
}

func (f *fakeRates) Refresh(context.Context) (exchangerate.Rate, error) {
	if f.refreshErr != nil {
		return exchangerate.Rate{}, f.refreshErr
	}
	return f.rate, nil
}

func (f *fakeRates) Current(context.Context) (exchangerate.Rate, error) {
	if f.currentErr != nil {
		return exchangerate.Rate{}, f.currentErr
	}
	return f.rate, nil
}

type fakeGauge struct {
	source string
	value  decimal.Decimal
	calls  int
}

func (g *fakeGauge) SetRate(source string, value decimal.Decimal, _ time.Time) {
	g.source = source
	g.value = value
	g.calls++
}

func newRateJob(t *testing.T, rates *fakeRates, gauge *fakeGauge) Job {
	t.Helper()
	job, err := NewExchangeRateJob(ExchangeRateJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "test"}),
		Rates:   rates,
		Metrics: gauge,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	return job
}

func TestExchangeRateJobRecordsRefreshedRate(t *testing.T) {
	gauge := &fakeGauge{}
	rates := &fakeRates{rate: exchangerate.Rate{Value: decimal.RequireFromString("36.5"), Source: "bcv"}}
	job := newRateJob(t, rates, gauge)

	if job.Name() != ExchangeRateRefreshJobName {
		t.Fatalf("unexpected job name %q", job.Name())
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if gauge.calls != 1 || gauge.source != "bcv" || !gauge.value.Equal(decimal.RequireFromString("36.5")) {
		t.Fatalf("unexpected gauge state %+v", gauge)
	}
}

func TestExchangeRateJobFallsBackToCurrentOnFailure(t *testing.T) {
	gauge := &fakeGauge{}
	rates := &fakeRates{
		refreshErr: errors.New("upstream down"),
		rate:       exchangerate.Rate{Value: decimal.NewFromInt(40), Source: "fallback", Stale: true},
	}
	err := newRateJob(t, rates, gauge).Run(context.Background())
	if err == nil {
		t.Fatal("expected refresh error")
	}
	if len(multierr.Errors(err)) != 1 {
		t.Fatalf("expected a single error, got %v", err)
	}
	if gauge.calls != 1 || gauge.source != "fallback" {
		t.Fatalf("expected gauge to report served rate, got %+v", gauge)
	}

	rates.currentErr = errors.New("no rate")
	err = newRateJob(t, rates, &fakeGauge{}).Run(context.Background())
	if len(multierr.Errors(err)) != 2 {
		t.Fatalf("expected combined errors, got %v", err)
	}
}

type passthroughTx struct{}

func (passthroughTx) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type fakeHistoryRepo struct {
	cutoff time.Time
	err    error
	called int
}

func (f *fakeHistoryRepo) DeleteFetchedBefore(_ context.Context, _ *gorm.DB, cutoff time.Time) (int64, error) {
	f.called++
	f.cutoff = cutoff
	return 3, f.err
}

func TestRateRetentionJobUsesRetentionWindow(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	repo := &fakeHistoryRepo{}
	jobIface, err := NewRateRetentionJob(RateRetentionJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		DB:         passthroughTx{},
		Repository: repo,
	})
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	job := jobIface.(*rateRetentionJob)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !repo.cutoff.Equal(now.Add(-defaultRateRetention)) {
		t.Fatalf("unexpected cutoff %s", repo.cutoff)
	}

	repo.err = errors.New("boom")
	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}
