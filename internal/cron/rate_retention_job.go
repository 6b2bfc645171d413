package cron

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/loyafu/storefront-backend/pkg/logger"
)

const (
	RateRetentionJobName = "exchange-rate-retention"
	defaultRateRetention = 90 * 24 * time.Hour
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type rateHistoryRepo interface {
	DeleteFetchedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error)
}

type RateRetentionJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository rateHistoryRepo
	Retention  time.Duration
}

func NewRateRetentionJob(params RateRetentionJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("exchange rate repository required")
	}
	retention := params.Retention
	if retention <= 0 {
		retention = defaultRateRetention
	}
	return &rateRetentionJob{
		logg:      params.Logger,
		db:        params.DB,
		repo:      params.Repository,
		retention: retention,
		now:       time.Now,
	}, nil
}

type rateRetentionJob struct {
	logg      *logger.Logger
	db        txRunner
	repo      rateHistoryRepo
	retention time.Duration
	now       func() time.Time
}

func (j *rateRetentionJob) Name() string { return RateRetentionJobName }

func (j *rateRetentionJob) Run(ctx context.Context) error {
	cutoff := j.now().UTC().Add(-j.retention)
	var deleted int64
	err := j.db.WithTx(ctx, func(tx *gorm.DB) error {
		rows, err := j.repo.DeleteFetchedBefore(ctx, tx, cutoff)
		if err != nil {
			return err
		}
		deleted = rows
		return nil
	})
	if err != nil {
		return fmt.Errorf("exchange rate retention: %w", err)
	}
	logCtx := j.logg.WithFields(ctx, map[string]any{
		"cutoff":       cutoff,
		"rows_deleted": deleted,
	})
	j.logg.Info(logCtx, "exchange rate history cleanup complete")
	return nil
}
