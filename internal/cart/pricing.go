package cart

import (
	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

// DiscountRate is the fraction taken off the subtotal when the delivery and
// payment pairing qualifies.
var DiscountRate = decimal.RequireFromString("0.25")

// localDivisionPrecision bounds the digits kept when converting local amounts back to USD.
const localDivisionPrecision = 16

// LineTotal is the priced form of one cart line.
type LineTotal struct {
	Key                   LineKey         `json:"key"`
	Quantity              int             `json:"quantity"`
	EffectiveUnitPriceUSD decimal.Decimal `json:"effective_unit_price_usd"`
	TotalUSD              decimal.Decimal `json:"total_usd"`
	Wholesale             bool            `json:"wholesale"`
}

// Totals is the result of pricing a snapshot for a payment method. Amounts
// keep full precision. Rounding only happens when formatting.
type Totals struct {
	Lines           []LineTotal     `json:"lines"`
	SubtotalUSD     decimal.Decimal `json:"subtotal_usd"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TotalUSD        decimal.Decimal `json:"total_usd"`
	TotalLocal      decimal.Decimal `json:"total_local"`
	DiscountApplied bool            `json:"discount_applied"`
	ExchangeRate    decimal.Decimal `json:"exchange_rate"`
}

// IsWholesale reports whether the line identified by key was priced at the
// wholesale tier.
func (t Totals) IsWholesale(key LineKey) bool {
	for _, line := range t.Lines {
		if line.Key == key {
			return line.Wholesale
		}
	}
	return false
}

// InCurrency converts a USD amount computed for these totals into currency.
func (t Totals) InCurrency(amountUSD decimal.Decimal, currency enums.Currency) decimal.Decimal {
	if currency == enums.CurrencyLocal {
		return ToLocal(amountUSD, t.ExchangeRate)
	}
	return amountUSD
}

// DiscountEligible reports whether the delivery and payment pairing earns
// the discount. Pickup and local delivery reward cash and stablecoin.
// National shipping rewards stablecoin and mobile payment.
func DiscountEligible(delivery enums.DeliveryMethod, payment enums.PaymentMethod) bool {
	switch delivery {
	case enums.DeliveryMethodPickup, enums.DeliveryMethodLocalDelivery:
		return payment == enums.PaymentMethodCryptoStablecoin || payment == enums.PaymentMethodCashForeignCurrency
	case enums.DeliveryMethodNationalShipping:
		return payment == enums.PaymentMethodCryptoStablecoin || payment == enums.PaymentMethodMobilePayment
	default:
		return false
	}
}

// ValidatePaymentMethod rejects unknown methods and pairings the store does not offer.
func ValidatePaymentMethod(delivery enums.DeliveryMethod, payment enums.PaymentMethod) error {
	if !payment.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported payment method %q", payment)
	}
	if !payment.IsOfferedFor(delivery) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "payment method %s is not available for %s", payment, delivery)
	}
	return nil
}

// ToLocal converts a USD amount into local currency.
func ToLocal(amountUSD, rate decimal.Decimal) decimal.Decimal {
	return amountUSD.Mul(rate)
}

// ToUSD converts a local amount into USD. A non-positive rate yields zero.
func ToUSD(amountLocal, rate decimal.Decimal) decimal.Decimal {
	if !rate.IsPositive() {
		return decimal.Zero
	}
	return amountLocal.DivRound(rate, localDivisionPrecision)
}

// Price computes line totals, subtotal, discount and the final totals for
// the snapshot. The snapshot must carry a positive exchange rate.
func Price(snap Snapshot, payment enums.PaymentMethod) (Totals, error) {
	if err := snap.Validate(); err != nil {
		return Totals{}, err
	}

	totals := Totals{
		Lines:        make([]LineTotal, 0, len(snap.Lines)),
		SubtotalUSD:  decimal.Zero,
		ExchangeRate: snap.ExchangeRate,
	}
	for _, line := range snap.Lines {
		lineTotal := line.TotalUSD()
		totals.Lines = append(totals.Lines, LineTotal{
			Key:                   line.Key(),
			Quantity:              line.Quantity,
			EffectiveUnitPriceUSD: line.EffectiveUnitPriceUSD(),
			TotalUSD:              lineTotal,
			Wholesale:             line.IsWholesale(),
		})
		totals.SubtotalUSD = totals.SubtotalUSD.Add(lineTotal)
	}

	totals.DiscountAmount = decimal.Zero
	if DiscountEligible(snap.DeliveryMethod, payment) {
		totals.DiscountApplied = true
		totals.DiscountAmount = totals.SubtotalUSD.Mul(DiscountRate)
	}
	totals.TotalUSD = totals.SubtotalUSD.Sub(totals.DiscountAmount)
	totals.TotalLocal = ToLocal(totals.TotalUSD, snap.ExchangeRate)
	return totals, nil
}
