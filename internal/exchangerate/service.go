package exchangerate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/pkg/config"
	"github.com/loyafu/storefront-backend/pkg/db"
	"github.com/loyafu/storefront-backend/pkg/db/models"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
	"github.com/loyafu/storefront-backend/pkg/logger"
	"github.com/loyafu/storefront-backend/pkg/pagination"
	"github.com/loyafu/storefront-backend/pkg/rates"
	"github.com/loyafu/storefront-backend/pkg/redis"
)

const (
	SourceManual   = "manual"
	SourceFallback = "fallback"
)

// Rate is the value the storefront prices with, in local units per USD.
type Rate struct {
	Value     decimal.Decimal `json:"rate"`
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
	Stale     bool            `json:"stale"`
}

// HistoryPage is one page of recorded rates.
type HistoryPage struct {
	Items      []Rate `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type Service interface {
	Current(ctx context.Context) (Rate, error)
	Refresh(ctx context.Context) (Rate, error)
	SetManual(ctx context.Context, value decimal.Decimal) (Rate, error)
	History(ctx context.Context, params pagination.Params) (*HistoryPage, error)
}

type rateStore interface {
	Create(ctx context.Context, row *models.ExchangeRate) error
	Latest(ctx context.Context) (*models.ExchangeRate, error)
	List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.ExchangeRate, error)
}

type rateCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	ExchangeRateKey() string
}

type rateSource interface {
	Fetch(ctx context.Context) (rates.Quote, error)
}

type ServiceParams struct {
	Repo   rateStore
	Cache  rateCache
	Source rateSource
	Config config.ExchangeRateConfig
	Logger *logger.Logger
}

type service struct {
	repo   rateStore
	cache  rateCache
	source rateSource
	cfg    config.ExchangeRateConfig
	logg   *logger.Logger
	now    func() time.Time
}

// NewService wires the rate service. Source may be nil when no upstream is configured.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("exchange rate repository required")
	}
	if params.Cache == nil {
		return nil, fmt.Errorf("exchange rate cache required")
	}
	return &service{
		repo:   params.Repo,
		cache:  params.Cache,
		source: params.Source,
		cfg:    params.Config,
		logg:   params.Logger,
		now:    time.Now,
	}, nil
}

type cachedRate struct {
	Rate      string    `json:"rate"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

func (s *service) Current(ctx context.Context) (Rate, error) {
	if rate, ok := s.readCache(ctx); ok {
		return s.withStaleness(rate), nil
	}

	row, err := s.repo.Latest(ctx)
	switch {
	case err == nil:
		rate := fromModel(row)
		s.writeCache(ctx, rate)
		return s.withStaleness(rate), nil
	case db.IsNotFound(err):
	default:
		s.logg.Error(ctx, "load latest exchange rate failed", err)
	}

	fallback := s.cfg.Fallback()
	if !fallback.IsPositive() {
		return Rate{}, pkgerrors.New(pkgerrors.CodeDependency, "exchange rate unavailable")
	}
	return Rate{Value: fallback, Source: SourceFallback, FetchedAt: s.now().UTC(), Stale: true}, nil
}

func (s *service) Refresh(ctx context.Context) (Rate, error) {
	if s.source == nil {
		return Rate{}, pkgerrors.New(pkgerrors.CodeDependency, "exchange rate source not configured")
	}
	quote, err := s.source.Fetch(ctx)
	if err != nil {
		return Rate{}, err
	}
	return s.record(ctx, quote.Rate, quote.Source, quote.FetchedAt)
}

func (s *service) SetManual(ctx context.Context, value decimal.Decimal) (Rate, error) {
	return s.record(ctx, value, SourceManual, s.now().UTC())
}

func (s *service) History(ctx context.Context, params pagination.Params) (*HistoryPage, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)
	rows, err := s.repo.List(ctx, limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list exchange rates")
	}

	rows, more := pagination.SplitPage(rows, limit)
	page := &HistoryPage{Items: make([]Rate, 0, len(rows))}
	if more {
		last := rows[len(rows)-1]
		page.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for i := range rows {
		page.Items = append(page.Items, fromModel(&rows[i]))
	}
	return page, nil
}

func (s *service) record(ctx context.Context, value decimal.Decimal, source string, fetchedAt time.Time) (Rate, error) {
	if !value.IsPositive() {
		return Rate{}, pkgerrors.New(pkgerrors.CodeValidation, "exchange rate must be greater than zero")
	}
	row := &models.ExchangeRate{
		ID:        uuid.New(),
		Rate:      value,
		Source:    source,
		FetchedAt: fetchedAt,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return Rate{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store exchange rate")
	}
	rate := fromModel(row)
	s.writeCache(ctx, rate)

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"rate":   rate.Value.String(),
		"source": rate.Source,
	})
	s.logg.Info(logCtx, "exchange rate recorded")
	return rate, nil
}

func (s *service) readCache(ctx context.Context) (Rate, bool) {
	raw, err := s.cache.Get(ctx, s.cache.ExchangeRateKey())
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "exchange rate cache read failed")
		}
		return Rate{}, false
	}
	var cached cachedRate
	if err := json.Unmarshal([]byte(raw), &cached); err != nil {
		return Rate{}, false
	}
	value, err := decimal.NewFromString(cached.Rate)
	if err != nil || !value.IsPositive() {
		return Rate{}, false
	}
	return Rate{Value: value, Source: cached.Source, FetchedAt: cached.FetchedAt}, true
}

func (s *service) writeCache(ctx context.Context, rate Rate) {
	payload, err := json.Marshal(cachedRate{
		Rate:      rate.Value.String(),
		Source:    rate.Source,
		FetchedAt: rate.FetchedAt,
	})
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.cache.ExchangeRateKey(), string(payload), s.cfg.CacheTTL); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "exchange rate cache write failed")
	}
}

func (s *service) withStaleness(rate Rate) Rate {
	if s.cfg.MaxStaleness > 0 && s.now().Sub(rate.FetchedAt) > s.cfg.MaxStaleness {
		rate.Stale = true
	}
	return rate
}

func fromModel(row *models.ExchangeRate) Rate {
	return Rate{Value: row.Rate, Source: row.Source, FetchedAt: row.FetchedAt.UTC()}
}
