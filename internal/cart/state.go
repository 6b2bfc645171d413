package cart

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

// State is the mutable cart held for one shopper session. Lines keep the
// order in which they were first added. State is not safe for concurrent use.
type State struct {
	lines           []Line
	displayCurrency enums.Currency
	exchangeRate    decimal.Decimal
	deliveryMethod  enums.DeliveryMethod
	deliveryDetails *DeliveryDetails
}

// NewState returns an empty cart showing USD with store pickup selected.
// The exchange rate stays unset until SetExchangeRate is called.
func NewState() *State {
	return &State{
		displayCurrency: enums.CurrencyUSD,
		deliveryMethod:  enums.DeliveryMethodPickup,
	}
}

func (s *State) indexOf(key LineKey) int {
	for i, line := range s.lines {
		if line.Key() == key {
			return i
		}
	}
	return -1
}

// AddItem adds qty units of product with the given color. An existing line
// with the same product and color absorbs the quantity.
func (s *State) AddItem(product Product, color string, qty int) error {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	line := lineFromProduct(product, color, qty)
	if line.Name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if err := line.validate(); err != nil {
		return err
	}

	if idx := s.indexOf(line.Key()); idx >= 0 {
		s.lines[idx].Quantity += qty
		return nil
	}
	s.lines = append(s.lines, line)
	return nil
}

// RemoveItem deletes the line identified by key.
func (s *State) RemoveItem(key LineKey) error {
	idx := s.indexOf(key.normalized())
	if idx < 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "cart line %s not found", key)
	}
	s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
	return nil
}

// UpdateQuantity sets the quantity of a line. Quantities below 1 remove it.
func (s *State) UpdateQuantity(key LineKey, qty int) error {
	idx := s.indexOf(key.normalized())
	if idx < 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "cart line %s not found", key)
	}
	if qty < 1 {
		s.lines = append(s.lines[:idx], s.lines[idx+1:]...)
		return nil
	}
	s.lines[idx].Quantity = qty
	return nil
}

// AdjustQuantity moves the quantity of a line by delta.
func (s *State) AdjustQuantity(key LineKey, delta int) error {
	idx := s.indexOf(key.normalized())
	if idx < 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "cart line %s not found", key)
	}
	return s.UpdateQuantity(s.lines[idx].Key(), s.lines[idx].Quantity+delta)
}

// UpdateColor changes the selected color of a line. When another line
// already holds the target color the two are merged and the first keeps its
// position.
func (s *State) UpdateColor(key LineKey, color string) error {
	key = key.normalized()
	idx := s.indexOf(key)
	if idx < 0 {
		return pkgerrors.Newf(pkgerrors.CodeNotFound, "cart line %s not found", key)
	}
	color = strings.TrimSpace(color)
	line := s.lines[idx]
	if color != "" && !line.hasColor(color) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "color %q is not available for %s", color, line.ProductID)
	}

	target := LineKey{ProductID: line.ProductID, Color: color}
	if target == key {
		return nil
	}
	if other := s.indexOf(target); other >= 0 {
		keep, drop := other, idx
		if idx < other {
			keep, drop = idx, other
		}
		merged := s.lines[idx].Quantity + s.lines[other].Quantity
		s.lines[keep] = s.lines[other]
		s.lines[keep].Quantity = merged
		s.lines = append(s.lines[:drop], s.lines[drop+1:]...)
		return nil
	}
	s.lines[idx].SelectedColor = color
	return nil
}

// SetDisplayCurrency changes the primary currency shown to the shopper.
func (s *State) SetDisplayCurrency(currency enums.Currency) error {
	if !currency.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported currency %q", currency)
	}
	s.displayCurrency = currency
	return nil
}

// SetExchangeRate stores the local-currency units per USD.
func (s *State) SetExchangeRate(rate decimal.Decimal) error {
	if !rate.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "exchange rate must be positive")
	}
	s.exchangeRate = rate
	return nil
}

// SetDeliveryMethod selects how the order is fulfilled. Previously captured
// details are kept so switching back does not lose them.
func (s *State) SetDeliveryMethod(method enums.DeliveryMethod) error {
	if !method.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported delivery method %q", method)
	}
	s.deliveryMethod = method
	return nil
}

// SetDeliveryDetails replaces the captured details. nil clears them.
func (s *State) SetDeliveryDetails(details *DeliveryDetails) {
	if details == nil {
		s.deliveryDetails = nil
		return
	}
	normalized := details.normalized()
	s.deliveryDetails = &normalized
}

// Clear removes every line. Preferences survive.
func (s *State) Clear() {
	s.lines = nil
}

// Len returns the number of distinct lines.
func (s *State) Len() int {
	return len(s.lines)
}

// ItemCount returns the sum of all quantities.
func (s *State) ItemCount() int {
	count := 0
	for _, line := range s.lines {
		count += line.Quantity
	}
	return count
}

// Snapshot returns an independent copy of the cart.
func (s *State) Snapshot() Snapshot {
	lines := make([]Line, 0, len(s.lines))
	for _, line := range s.lines {
		lines = append(lines, line.clone())
	}
	var details *DeliveryDetails
	if s.deliveryDetails != nil {
		copied := *s.deliveryDetails
		details = &copied
	}
	return Snapshot{
		Lines:           lines,
		DisplayCurrency: s.displayCurrency,
		ExchangeRate:    s.exchangeRate,
		DeliveryMethod:  s.deliveryMethod,
		DeliveryDetails: details,
	}
}

// Snapshot is an immutable view of a cart used for pricing and checkout.
type Snapshot struct {
	Lines           []Line               `json:"lines"`
	DisplayCurrency enums.Currency       `json:"display_currency"`
	ExchangeRate    decimal.Decimal      `json:"exchange_rate"`
	DeliveryMethod  enums.DeliveryMethod `json:"delivery_method"`
	DeliveryDetails *DeliveryDetails     `json:"delivery_details,omitempty"`
}

// IsEmpty reports whether the snapshot has no lines.
func (s Snapshot) IsEmpty() bool {
	return len(s.Lines) == 0
}

// ItemCount sums the quantities of every line.
func (s Snapshot) ItemCount() int {
	count := 0
	for _, line := range s.Lines {
		count += line.Quantity
	}
	return count
}

// Validate checks the invariants pricing relies on.
func (s Snapshot) Validate() error {
	if !s.ExchangeRate.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "exchange rate must be positive")
	}
	if !s.DisplayCurrency.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported currency %q", s.DisplayCurrency)
	}
	if !s.DeliveryMethod.IsValid() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported delivery method %q", s.DeliveryMethod)
	}
	seen := make(map[LineKey]struct{}, len(s.Lines))
	for _, line := range s.Lines {
		if err := line.validate(); err != nil {
			return err
		}
		if _, dup := seen[line.Key()]; dup {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "duplicate cart line %s", line.Key())
		}
		seen[line.Key()] = struct{}{}
	}
	return nil
}

// MarshalJSON persists the cart through its snapshot form.
func (s *State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

// UnmarshalJSON restores a cart persisted with MarshalJSON. Lines that no
// longer satisfy the cart invariants are rejected.
func (s *State) UnmarshalJSON(data []byte) error {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}
	restored := NewState()
	if snap.DisplayCurrency != "" {
		if err := restored.SetDisplayCurrency(snap.DisplayCurrency); err != nil {
			return err
		}
	}
	if snap.DeliveryMethod != "" {
		if err := restored.SetDeliveryMethod(snap.DeliveryMethod); err != nil {
			return err
		}
	}
	if snap.ExchangeRate.IsPositive() {
		restored.exchangeRate = snap.ExchangeRate
	}
	restored.SetDeliveryDetails(snap.DeliveryDetails)
	for _, line := range snap.Lines {
		if err := line.validate(); err != nil {
			return err
		}
		if restored.indexOf(line.Key()) >= 0 {
			return pkgerrors.Newf(pkgerrors.CodeValidation, "duplicate cart line %s", line.Key())
		}
		restored.lines = append(restored.lines, line.clone())
	}
	*s = *restored
	return nil
}
