package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/pkg/types"
)

// Product is a catalog listing. Ids are text so legacy "prod_<millis>" ids survive.
type Product struct {
	ID                string           `gorm:"column:id;type:text;primaryKey"`
	Name              string           `gorm:"column:name;not null"`
	Description       string           `gorm:"column:description;not null;default:''"`
	Category          string           `gorm:"column:category;not null;index:products_category_idx"`
	ImageURL          string           `gorm:"column:image_url;not null;default:''"`
	PriceUSD          decimal.Decimal  `gorm:"column:price_usd;type:numeric(12,2);not null"`
	WholesalePriceUSD *decimal.Decimal `gorm:"column:wholesale_price_usd;type:numeric(12,2)"`
	WholesaleMin      *int             `gorm:"column:wholesale_min"`
	Colors            types.StringList `gorm:"column:colors;type:jsonb;not null;default:'[]'"`
	IsActive          bool             `gorm:"column:is_active;not null"`
	CreatedAt         time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// HasWholesale reports whether both wholesale fields are set.
func (p Product) HasWholesale() bool {
	return p.WholesalePriceUSD != nil && p.WholesaleMin != nil
}
