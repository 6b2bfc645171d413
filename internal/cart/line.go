package cart

import (
	"strings"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

// LineKey identifies a cart line. Two selections of the same product with
// different colors are different lines.
type LineKey struct {
	ProductID string `json:"product_id"`
	Color     string `json:"color,omitempty"`
}

// String renders the key as "<product>" or "<product>#<color>".
func (k LineKey) String() string {
	if k.Color == "" {
		return k.ProductID
	}
	return k.ProductID + "#" + k.Color
}

// ParseLineKey reverses String.
func ParseLineKey(value string) LineKey {
	productID, color, _ := strings.Cut(value, "#")
	return LineKey{ProductID: productID, Color: color}.normalized()
}

func (k LineKey) normalized() LineKey {
	return LineKey{
		ProductID: strings.TrimSpace(k.ProductID),
		Color:     strings.TrimSpace(k.Color),
	}
}

// Product is the catalog view the cart copies into a line when an item is added.
type Product struct {
	ID                string
	Name              string
	Category          string
	ImageURL          string
	PriceUSD          decimal.Decimal
	WholesalePriceUSD *decimal.Decimal
	WholesaleMin      *int
	Colors            []string
}

// Line is one product selection held by the cart.
type Line struct {
	ProductID             string           `json:"product_id"`
	Name                  string           `json:"name"`
	Category              string           `json:"category,omitempty"`
	ImageURL              string           `json:"image_url,omitempty"`
	UnitPriceUSD          decimal.Decimal  `json:"unit_price_usd"`
	WholesaleUnitPriceUSD *decimal.Decimal `json:"wholesale_unit_price_usd,omitempty"`
	WholesaleMinQuantity  *int             `json:"wholesale_min_quantity,omitempty"`
	AvailableColors       []string         `json:"available_colors,omitempty"`
	SelectedColor         string           `json:"selected_color,omitempty"`
	Quantity              int              `json:"quantity"`
}

// Key returns the identity of the line.
func (l Line) Key() LineKey {
	return LineKey{ProductID: l.ProductID, Color: l.SelectedColor}
}

// IsWholesale reports whether the whole line is priced at the wholesale tier.
func (l Line) IsWholesale() bool {
	if l.WholesaleMinQuantity == nil || l.WholesaleUnitPriceUSD == nil {
		return false
	}
	return l.Quantity >= *l.WholesaleMinQuantity
}

// EffectiveUnitPriceUSD is the unit price after tier selection.
func (l Line) EffectiveUnitPriceUSD() decimal.Decimal {
	if l.IsWholesale() {
		return *l.WholesaleUnitPriceUSD
	}
	return l.UnitPriceUSD
}

// TotalUSD is the unrounded line total.
func (l Line) TotalUSD() decimal.Decimal {
	return l.EffectiveUnitPriceUSD().Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// UnitsToWholesale returns how many more units unlock the wholesale tier, or
// zero when the line has no tier or already qualifies.
func (l Line) UnitsToWholesale() int {
	if l.WholesaleMinQuantity == nil || l.WholesaleUnitPriceUSD == nil || l.IsWholesale() {
		return 0
	}
	return *l.WholesaleMinQuantity - l.Quantity
}

func (l Line) hasColor(color string) bool {
	for _, candidate := range l.AvailableColors {
		if candidate == color {
			return true
		}
	}
	return false
}

func (l Line) validate() error {
	if strings.TrimSpace(l.ProductID) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if l.Quantity < 1 {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "quantity for %s must be at least 1", l.Key())
	}
	if l.UnitPriceUSD.IsNegative() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "price for %s must not be negative", l.ProductID)
	}
	if l.WholesaleUnitPriceUSD != nil && l.WholesaleUnitPriceUSD.IsNegative() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "wholesale price for %s must not be negative", l.ProductID)
	}
	if l.WholesaleMinQuantity != nil && *l.WholesaleMinQuantity < 1 {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "wholesale minimum for %s must be positive", l.ProductID)
	}
	if l.SelectedColor != "" && !l.hasColor(l.SelectedColor) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "color %q is not available for %s", l.SelectedColor, l.ProductID)
	}
	return nil
}

func (l Line) clone() Line {
	out := l
	if l.WholesaleUnitPriceUSD != nil {
		price := *l.WholesaleUnitPriceUSD
		out.WholesaleUnitPriceUSD = &price
	}
	if l.WholesaleMinQuantity != nil {
		min := *l.WholesaleMinQuantity
		out.WholesaleMinQuantity = &min
	}
	if l.AvailableColors != nil {
		out.AvailableColors = append([]string(nil), l.AvailableColors...)
	}
	return out
}

func lineFromProduct(p Product, color string, qty int) Line {
	colors := make([]string, 0, len(p.Colors))
	for _, c := range p.Colors {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			colors = append(colors, trimmed)
		}
	}
	line := Line{
		ProductID:       strings.TrimSpace(p.ID),
		Name:            p.Name,
		Category:        p.Category,
		ImageURL:        p.ImageURL,
		UnitPriceUSD:    p.PriceUSD,
		AvailableColors: colors,
		SelectedColor:   strings.TrimSpace(color),
		Quantity:        qty,
	}
	if p.WholesalePriceUSD != nil && p.WholesaleMin != nil {
		line.WholesaleUnitPriceUSD = p.WholesalePriceUSD
		line.WholesaleMinQuantity = p.WholesaleMin
	}
	return line.clone()
}
