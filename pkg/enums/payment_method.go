package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod describes how a buyer intends to settle an order.
type PaymentMethod string

const (
	PaymentMethodMobilePayment       PaymentMethod = "MOBILE_PAYMENT"
	PaymentMethodCashForeignCurrency PaymentMethod = "CASH_FOREIGN_CURRENCY"
	PaymentMethodCryptoStablecoin    PaymentMethod = "CRYPTO_STABLECOIN"
)

var validPaymentMethods = []PaymentMethod{
	PaymentMethodMobilePayment,
	PaymentMethodCashForeignCurrency,
	PaymentMethodCryptoStablecoin,
}

// String implements fmt.Stringer.
func (p PaymentMethod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentMethod.
func (p PaymentMethod) IsValid() bool {
	for _, candidate := range validPaymentMethods {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentMethod converts raw input into a PaymentMethod.
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validPaymentMethods {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}

// PaymentMethodsFor lists the methods offered for a delivery method.
// Cash in foreign currency is never offered for national shipping.
func PaymentMethodsFor(delivery DeliveryMethod) []PaymentMethod {
	if delivery == DeliveryMethodNationalShipping {
		return []PaymentMethod{PaymentMethodMobilePayment, PaymentMethodCryptoStablecoin}
	}
	out := make([]PaymentMethod, len(validPaymentMethods))
	copy(out, validPaymentMethods)
	return out
}

// IsOfferedFor reports whether p can be selected together with delivery.
func (p PaymentMethod) IsOfferedFor(delivery DeliveryMethod) bool {
	for _, candidate := range PaymentMethodsFor(delivery) {
		if candidate == p {
			return true
		}
	}
	return false
}
