package cart

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/loyafu/storefront-backend/internal/exchangerate"
	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
	"github.com/loyafu/storefront-backend/pkg/logger"
)

// DefaultPaymentMethod is assumed when the shopper has not picked one yet.
const DefaultPaymentMethod = enums.PaymentMethodMobilePayment

type productCatalog interface {
	CartProduct(ctx context.Context, id string) (Product, error)
}

type rateProvider interface {
	Current(ctx context.Context) (exchangerate.Rate, error)
}

type identityProvider interface {
	Identity(ctx context.Context) (StoreIdentity, error)
}

type checkoutRecorder interface {
	RecordCheckout(delivery enums.DeliveryMethod, payment enums.PaymentMethod, units int)
}

type sessionStore interface {
	Load(ctx context.Context, sessionID string) (*State, error)
	Save(ctx context.Context, sessionID string, state *State) error
}

// Service runs cart operations for anonymous shopper sessions. Concurrent
// writes to the same session are last-write-wins.
type Service interface {
	Get(ctx context.Context, sessionID string, payment enums.PaymentMethod) (*View, error)
	AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, sessionID string, key LineKey, quantity int) (*View, error)
	UpdateColor(ctx context.Context, sessionID string, key LineKey, color string) (*View, error)
	RemoveItem(ctx context.Context, sessionID string, key LineKey) (*View, error)
	Clear(ctx context.Context, sessionID string) (*View, error)
	SetPreferences(ctx context.Context, sessionID string, input PreferencesInput) (*View, error)
	Quote(ctx context.Context, sessionID string, payment enums.PaymentMethod) (*TotalsView, error)
	Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*CheckoutResult, error)
}

type AddItemInput struct {
	ProductID string
	Color     string
	Quantity  int
}

// PreferencesInput updates only the fields that are set. ClearDetails drops
// stored delivery details.
type PreferencesInput struct {
	DisplayCurrency *enums.Currency
	DeliveryMethod  *enums.DeliveryMethod
	DeliveryDetails *DeliveryDetails
	ClearDetails    bool
}

type CheckoutInput struct {
	PaymentMethod enums.PaymentMethod
	ClearCart     bool
}

type ServiceParams struct {
	Store           sessionStore
	Catalog         productCatalog
	Rates           rateProvider
	Identity        identityProvider
	Metrics         checkoutRecorder
	Logger          *logger.Logger
	CheckoutBaseURL string
}

type service struct {
	store    sessionStore
	catalog  productCatalog
	rates    rateProvider
	identity identityProvider
	metrics  checkoutRecorder
	logg     *logger.Logger
	baseURL  string
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("cart session store required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("product catalog required")
	}
	if params.Rates == nil {
		return nil, fmt.Errorf("exchange rate provider required")
	}
	if params.Identity == nil {
		return nil, fmt.Errorf("store identity provider required")
	}
	return &service{
		store:    params.Store,
		catalog:  params.Catalog,
		rates:    params.Rates,
		identity: params.Identity,
		metrics:  params.Metrics,
		logg:     params.Logger,
		baseURL:  params.CheckoutBaseURL,
	}, nil
}

// ValidateSessionID reports whether id is a usable cart session identifier.
func ValidateSessionID(id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid cart session")
	}
	return nil
}

func (s *service) Get(ctx context.Context, sessionID string, payment enums.PaymentMethod) (*View, error) {
	state, rate, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.view(sessionID, state, payment, rate)
}

func (s *service) AddItem(ctx context.Context, sessionID string, input AddItemInput) (*View, error) {
	qty := input.Quantity
	if qty == 0 {
		qty = 1
	}
	if qty < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}
	product, err := s.catalog.CartProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	return s.mutate(ctx, sessionID, func(state *State) error {
		return state.AddItem(product, input.Color, qty)
	})
}

func (s *service) UpdateQuantity(ctx context.Context, sessionID string, key LineKey, quantity int) (*View, error) {
	return s.mutate(ctx, sessionID, func(state *State) error {
		return state.UpdateQuantity(key, quantity)
	})
}

func (s *service) UpdateColor(ctx context.Context, sessionID string, key LineKey, color string) (*View, error) {
	return s.mutate(ctx, sessionID, func(state *State) error {
		return state.UpdateColor(key, color)
	})
}

func (s *service) RemoveItem(ctx context.Context, sessionID string, key LineKey) (*View, error) {
	return s.mutate(ctx, sessionID, func(state *State) error {
		return state.RemoveItem(key)
	})
}

func (s *service) Clear(ctx context.Context, sessionID string) (*View, error) {
	return s.mutate(ctx, sessionID, func(state *State) error {
		state.Clear()
		return nil
	})
}

func (s *service) SetPreferences(ctx context.Context, sessionID string, input PreferencesInput) (*View, error) {
	return s.mutate(ctx, sessionID, func(state *State) error {
		if input.DisplayCurrency != nil {
			if err := state.SetDisplayCurrency(*input.DisplayCurrency); err != nil {
				return err
			}
		}
		if input.DeliveryMethod != nil {
			if err := state.SetDeliveryMethod(*input.DeliveryMethod); err != nil {
				return err
			}
		}
		if input.ClearDetails {
			state.SetDeliveryDetails(nil)
		} else if input.DeliveryDetails != nil {
			state.SetDeliveryDetails(input.DeliveryDetails)
		}
		return nil
	})
}

func (s *service) Quote(ctx context.Context, sessionID string, payment enums.PaymentMethod) (*TotalsView, error) {
	state, _, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap := state.Snapshot()
	if err := ValidatePaymentMethod(snap.DeliveryMethod, payment); err != nil {
		return nil, err
	}
	totals, err := Price(snap, payment)
	if err != nil {
		return nil, err
	}
	view := newTotalsView(totals, snap.DisplayCurrency)
	return &view, nil
}

func (s *service) Checkout(ctx context.Context, sessionID string, input CheckoutInput) (*CheckoutResult, error) {
	state, _, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	snap := state.Snapshot()
	if snap.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	totals, err := Price(snap, input.PaymentMethod)
	if err != nil {
		return nil, err
	}
	identity, err := s.identity.Identity(ctx)
	if err != nil {
		return nil, err
	}
	message, err := ComposeMessage(snap, totals, input.PaymentMethod, identity)
	if err != nil {
		return nil, err
	}
	link, err := BuildCheckoutURL(s.baseURL, identity.WhatsAppNumber, message)
	if err != nil {
		return nil, err
	}

	if input.ClearCart {
		state.Clear()
		if err := s.store.Save(ctx, sessionID, state); err != nil {
			return nil, err
		}
	}
	if s.metrics != nil {
		s.metrics.RecordCheckout(snap.DeliveryMethod, input.PaymentMethod, snap.ItemCount())
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"delivery_method": snap.DeliveryMethod.String(),
		"payment_method":  input.PaymentMethod.String(),
		"lines":           len(snap.Lines),
		"total_usd":       FormatAmount(totals.TotalUSD),
		"discount":        totals.DiscountApplied,
	})
	s.logg.Info(logCtx, "checkout link generated")

	return &CheckoutResult{
		URL:     link,
		Message: message,
		Totals:  newTotalsView(totals, snap.DisplayCurrency),
	}, nil
}

func (s *service) mutate(ctx context.Context, sessionID string, fn func(*State) error) (*View, error) {
	state, rate, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(state); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return s.view(sessionID, state, "", rate)
}

// load restores the session and stamps it with the current exchange rate.
func (s *service) load(ctx context.Context, sessionID string) (*State, RateView, error) {
	if err := ValidateSessionID(sessionID); err != nil {
		return nil, RateView{}, err
	}
	rate, err := s.rates.Current(ctx)
	if err != nil {
		return nil, RateView{}, err
	}
	state, err := s.store.Load(ctx, sessionID)
	if err != nil {
		return nil, RateView{}, err
	}
	if err := state.SetExchangeRate(rate.Value); err != nil {
		return nil, RateView{}, err
	}
	return state, RateView{
		Value:     rate.Value,
		Source:    rate.Source,
		FetchedAt: rate.FetchedAt,
		Stale:     rate.Stale,
	}, nil
}

// view prices the cart for payment, falling back to the default method when
// payment is unset or not offered for the selected delivery.
func (s *service) view(sessionID string, state *State, payment enums.PaymentMethod, rate RateView) (*View, error) {
	snap := state.Snapshot()
	if payment == "" || !payment.IsOfferedFor(snap.DeliveryMethod) {
		payment = DefaultPaymentMethod
	}
	totals, err := Price(snap, payment)
	if err != nil {
		return nil, err
	}
	return newView(sessionID, snap, totals, payment, rate), nil
}
