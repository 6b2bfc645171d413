package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/pkg/enums"
)

// LineView is a priced cart line with display strings in the cart currency.
type LineView struct {
	Key                   string           `json:"key"`
	ProductID             string           `json:"product_id"`
	Name                  string           `json:"name"`
	Category              string           `json:"category,omitempty"`
	ImageURL              string           `json:"image_url,omitempty"`
	SelectedColor         string           `json:"selected_color,omitempty"`
	AvailableColors       []string         `json:"available_colors"`
	Quantity              int              `json:"quantity"`
	UnitPriceUSD          decimal.Decimal  `json:"unit_price_usd"`
	WholesaleUnitPriceUSD *decimal.Decimal `json:"wholesale_unit_price_usd,omitempty"`
	WholesaleMinQuantity  *int             `json:"wholesale_min_quantity,omitempty"`
	EffectiveUnitPriceUSD decimal.Decimal  `json:"effective_unit_price_usd"`
	TotalUSD              decimal.Decimal  `json:"total_usd"`
	Wholesale             bool             `json:"wholesale"`
	UnitsToWholesale      int              `json:"units_to_wholesale"`
	DisplayUnitPrice      string           `json:"display_unit_price"`
	DisplayTotal          string           `json:"display_total"`
}

// TotalsView carries totals plus their display strings.
type TotalsView struct {
	SubtotalUSD       decimal.Decimal `json:"subtotal_usd"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
	TotalUSD          decimal.Decimal `json:"total_usd"`
	TotalLocal        decimal.Decimal `json:"total_local"`
	DiscountApplied   bool            `json:"discount_applied"`
	DisplaySubtotal   string          `json:"display_subtotal"`
	DisplayDiscount   string          `json:"display_discount"`
	DisplayTotal      string          `json:"display_total"`
	DisplayTotalLocal string          `json:"display_total_local"`
}

// RateView describes the exchange rate the cart was priced with.
type RateView struct {
	Value     decimal.Decimal `json:"value"`
	Source    string          `json:"source"`
	FetchedAt time.Time       `json:"fetched_at"`
	Stale     bool            `json:"stale"`
}

// View is the cart as returned to the storefront.
type View struct {
	SessionID       string                `json:"session_id"`
	Lines           []LineView            `json:"lines"`
	ItemCount       int                   `json:"item_count"`
	DisplayCurrency enums.Currency        `json:"display_currency"`
	DeliveryMethod  enums.DeliveryMethod  `json:"delivery_method"`
	DeliveryDetails *DeliveryDetails      `json:"delivery_details,omitempty"`
	PaymentMethod   enums.PaymentMethod   `json:"payment_method"`
	PaymentMethods  []enums.PaymentMethod `json:"payment_methods"`
	Totals          TotalsView            `json:"totals"`
	ExchangeRate    RateView              `json:"exchange_rate"`
}

// CheckoutResult is the chat deep link together with the text it carries.
type CheckoutResult struct {
	URL     string     `json:"url"`
	Message string     `json:"message"`
	Totals  TotalsView `json:"totals"`
}

func newTotalsView(totals Totals, currency enums.Currency) TotalsView {
	return TotalsView{
		SubtotalUSD:       totals.SubtotalUSD,
		DiscountAmount:    totals.DiscountAmount,
		TotalUSD:          totals.TotalUSD,
		TotalLocal:        totals.TotalLocal,
		DiscountApplied:   totals.DiscountApplied,
		DisplaySubtotal:   FormatMoney(totals.InCurrency(totals.SubtotalUSD, currency), currency),
		DisplayDiscount:   FormatMoney(totals.InCurrency(totals.DiscountAmount, currency), currency),
		DisplayTotal:      FormatMoney(totals.InCurrency(totals.TotalUSD, currency), currency),
		DisplayTotalLocal: FormatMoney(totals.TotalLocal, enums.CurrencyLocal),
	}
}

func newView(sessionID string, snap Snapshot, totals Totals, payment enums.PaymentMethod, rate RateView) *View {
	currency := snap.DisplayCurrency
	lines := make([]LineView, 0, len(snap.Lines))
	for i, line := range snap.Lines {
		priced := totals.Lines[i]
		colors := line.AvailableColors
		if colors == nil {
			colors = []string{}
		}
		lines = append(lines, LineView{
			Key:                   line.Key().String(),
			ProductID:             line.ProductID,
			Name:                  line.Name,
			Category:              line.Category,
			ImageURL:              line.ImageURL,
			SelectedColor:         line.SelectedColor,
			AvailableColors:       colors,
			Quantity:              line.Quantity,
			UnitPriceUSD:          line.UnitPriceUSD,
			WholesaleUnitPriceUSD: line.WholesaleUnitPriceUSD,
			WholesaleMinQuantity:  line.WholesaleMinQuantity,
			EffectiveUnitPriceUSD: priced.EffectiveUnitPriceUSD,
			TotalUSD:              priced.TotalUSD,
			Wholesale:             priced.Wholesale,
			UnitsToWholesale:      line.UnitsToWholesale(),
			DisplayUnitPrice:      FormatMoney(totals.InCurrency(priced.EffectiveUnitPriceUSD, currency), currency),
			DisplayTotal:          FormatMoney(totals.InCurrency(priced.TotalUSD, currency), currency),
		})
	}

	return &View{
		SessionID:       sessionID,
		Lines:           lines,
		ItemCount:       snap.ItemCount(),
		DisplayCurrency: currency,
		DeliveryMethod:  snap.DeliveryMethod,
		DeliveryDetails: snap.DeliveryDetails,
		PaymentMethod:   payment,
		PaymentMethods:  enums.PaymentMethodsFor(snap.DeliveryMethod),
		Totals:          newTotalsView(totals, currency),
		ExchangeRate:    rate,
	}
}
