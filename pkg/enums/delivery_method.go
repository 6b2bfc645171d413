package enums

import (
	"fmt"
	"strings"
)

// DeliveryMethod describes how an order reaches the buyer.
type DeliveryMethod string

const (
	DeliveryMethodPickup           DeliveryMethod = "PICKUP"
	DeliveryMethodLocalDelivery    DeliveryMethod = "LOCAL_DELIVERY"
	DeliveryMethodNationalShipping DeliveryMethod = "NATIONAL_SHIPPING"
)

var validDeliveryMethods = []DeliveryMethod{
	DeliveryMethodPickup,
	DeliveryMethodLocalDelivery,
	DeliveryMethodNationalShipping,
}

// String implements fmt.Stringer.
func (d DeliveryMethod) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DeliveryMethod.
func (d DeliveryMethod) IsValid() bool {
	for _, candidate := range validDeliveryMethods {
		if candidate == d {
			return true
		}
	}
	return false
}

// RequiresDetails reports whether delivery details must be collected.
func (d DeliveryMethod) RequiresDetails() bool {
	return d == DeliveryMethodLocalDelivery || d == DeliveryMethodNationalShipping
}

// ParseDeliveryMethod converts raw input into a DeliveryMethod.
func ParseDeliveryMethod(value string) (DeliveryMethod, error) {
	trimmed := strings.TrimSpace(value)
	for _, candidate := range validDeliveryMethods {
		if strings.EqualFold(string(candidate), trimmed) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid delivery method %q", value)
}
