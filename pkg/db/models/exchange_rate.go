package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExchangeRate records one observation of local-currency units per USD.
type ExchangeRate struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Rate      decimal.Decimal `gorm:"column:rate;type:numeric(18,6);not null"`
	Source    string          `gorm:"column:source;not null"`
	FetchedAt time.Time       `gorm:"column:fetched_at;not null;index:exchange_rates_fetched_at_idx"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
}
