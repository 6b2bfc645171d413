package enums

import (
	"fmt"
	"strings"
)

// ProductSort enumerates the catalog orderings.
type ProductSort string

const (
	ProductSortDefault   ProductSort = "default"
	ProductSortPriceAsc  ProductSort = "price-asc"
	ProductSortPriceDesc ProductSort = "price-desc"
	ProductSortNameAsc   ProductSort = "name-asc"
)

var validProductSorts = []ProductSort{
	ProductSortDefault,
	ProductSortPriceAsc,
	ProductSortPriceDesc,
	ProductSortNameAsc,
}

// String implements fmt.Stringer.
func (s ProductSort) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductSort.
func (s ProductSort) IsValid() bool {
	for _, candidate := range validProductSorts {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductSort converts raw input into a ProductSort; empty input maps to default.
func ParseProductSort(value string) (ProductSort, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if trimmed == "" {
		return ProductSortDefault, nil
	}
	for _, candidate := range validProductSorts {
		if string(candidate) == trimmed {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product sort %q", value)
}
