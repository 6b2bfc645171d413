package controllers

import (
	"net/http"
	"strings"

	"github.com/loyafu/storefront-backend/api/middleware"
	"github.com/loyafu/storefront-backend/api/responses"
	"github.com/loyafu/storefront-backend/api/validators"
	cartsvc "github.com/loyafu/storefront-backend/internal/cart"
	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
	"github.com/loyafu/storefront-backend/pkg/logger"
)

type addItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity" validate:"min=0,max=999"`
}

type lineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Color     string `json:"color"`
}

func (l lineRequest) key() cartsvc.LineKey {
	return cartsvc.LineKey{ProductID: l.ProductID, Color: l.Color}
}

type updateQuantityRequest struct {
	lineRequest
	Quantity int `json:"quantity" validate:"min=0,max=999"`
}

type updateColorRequest struct {
	lineRequest
	NewColor string `json:"new_color" validate:"required"`
}

type preferencesRequest struct {
	DisplayCurrency *string                  `json:"display_currency"`
	DeliveryMethod  *string                  `json:"delivery_method"`
	DeliveryDetails *cartsvc.DeliveryDetails `json:"delivery_details"`
	ClearDetails    bool                     `json:"clear_details"`
}

func (p preferencesRequest) toInput() (cartsvc.PreferencesInput, error) {
	input := cartsvc.PreferencesInput{
		DeliveryDetails: p.DeliveryDetails,
		ClearDetails:    p.ClearDetails,
	}
	if p.DisplayCurrency != nil {
		currency, err := enums.ParseCurrency(*p.DisplayCurrency)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid display_currency")
		}
		input.DisplayCurrency = &currency
	}
	if p.DeliveryMethod != nil {
		method, err := enums.ParseDeliveryMethod(*p.DeliveryMethod)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid delivery_method")
		}
		input.DeliveryMethod = &method
	}
	return input, nil
}

type checkoutRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required"`
	ClearCart     bool   `json:"clear_cart"`
}

// paymentFromQuery reads ?payment_method=, defaulting to mobile payment.
func paymentFromQuery(r *http.Request) (enums.PaymentMethod, error) {
	if strings.TrimSpace(r.URL.Query().Get("payment_method")) == "" {
		return cartsvc.DefaultPaymentMethod, nil
	}
	return validators.ParseQueryEnum(r, "payment_method", enums.ParsePaymentMethod)
}

// cartHandler resolves the session and delegates to fn. CartSession must run first.
func cartHandler(svc cartsvc.Service, logg *logger.Logger, fn func(w http.ResponseWriter, r *http.Request, sessionID string) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "cart")
			return
		}
		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}
		result, err := fn(w, r, sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CartGet(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, sessionID string) (any, error) {
		payment, err := paymentFromQuery(r)
		if err != nil {
			return nil, err
		}
		return svc.Get(r.Context(), sessionID, payment)
	})
}

func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, sessionID string) (any, error) {
		return svc.Clear(r.Context(), sessionID)
	})
}

func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, sessionID string) (any, error) {
		var payload addItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.AddItem(r.Context(), sessionID, cartsvc.AddItemInput{
			ProductID: payload.ProductID,
			Color:     payload.Color,
			Quantity:  payload.Quantity,
		})
	})
}

// CartUpdateQuantity sets a line quantity; zero removes the line.
func CartUpdateQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, sessionID string) (any, error) {
		var payload updateQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateQuantity(r.Context(), sessionID, payload.key(), payload.Quantity)
	})
}

func CartUpdateColor(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, sessionID string) (any, error) {
		var payload updateColorRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.UpdateColor(r.Context(), sessionID, payload.key(), payload.NewColor)
	})
}

func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, sessionID string) (any, error) {
		var payload lineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		return svc.RemoveItem(r.Context(), sessionID, payload.key())
	})
}

func CartPreferences(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, sessionID string) (any, error) {
		var payload preferencesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		input, err := payload.toInput()
		if err != nil {
			return nil, err
		}
		return svc.SetPreferences(r.Context(), sessionID, input)
	})
}

func CartQuote(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, sessionID string) (any, error) {
		payment, err := paymentFromQuery(r)
		if err != nil {
			return nil, err
		}
		return svc.Quote(r.Context(), sessionID, payment)
	})
}

// CartCheckout builds the chat order link.
func CartCheckout(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return cartHandler(svc, logg, func(w http.ResponseWriter, r *http.Request, sessionID string) (any, error) {
		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			return nil, err
		}
		payment, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment_method")
		}
		return svc.Checkout(r.Context(), sessionID, cartsvc.CheckoutInput{
			PaymentMethod: payment,
			ClearCart:     payload.ClearCart,
		})
	})
}
