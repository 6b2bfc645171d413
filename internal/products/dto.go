package product

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/internal/cart"
	"github.com/loyafu/storefront-backend/pkg/db/models"
	"github.com/loyafu/storefront-backend/pkg/pagination"
)

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description"`
	Category          string           `json:"category"`
	ImageURL          string           `json:"image_url"`
	PriceUSD          decimal.Decimal  `json:"price_usd"`
	WholesalePriceUSD *decimal.Decimal `json:"wholesale_price_usd,omitempty"`
	WholesaleMin      *int             `json:"wholesale_min,omitempty"`
	Colors            []string         `json:"colors"`
	IsActive          bool             `json:"is_active"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ListResult is one page of the catalog.
type ListResult struct {
	Items []ProductDTO        `json:"items"`
	Page  pagination.PageInfo `json:"page"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(p *models.Product) ProductDTO {
	dto := ProductDTO{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		ImageURL:    p.ImageURL,
		PriceUSD:    p.PriceUSD,
		Colors:      append([]string{}, p.Colors...),
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.HasWholesale() {
		dto.WholesalePriceUSD = p.WholesalePriceUSD
		dto.WholesaleMin = p.WholesaleMin
	}
	return dto
}

// toCartProduct copies the fields the cart snapshots into a line.
func toCartProduct(p *models.Product) cart.Product {
	out := cart.Product{
		ID:       p.ID,
		Name:     p.Name,
		Category: p.Category,
		ImageURL: p.ImageURL,
		PriceUSD: p.PriceUSD,
		Colors:   append([]string{}, p.Colors...),
	}
	if p.HasWholesale() {
		price := *p.WholesalePriceUSD
		min := *p.WholesaleMin
		out.WholesalePriceUSD = &price
		out.WholesaleMin = &min
	}
	return out
}
