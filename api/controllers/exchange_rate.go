package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/api/responses"
	"github.com/loyafu/storefront-backend/api/validators"
	"github.com/loyafu/storefront-backend/internal/exchangerate"
	"github.com/loyafu/storefront-backend/pkg/logger"
	"github.com/loyafu/storefront-backend/pkg/pagination"
)

type manualRateRequest struct {
	Rate decimal.Decimal `json:"rate"`
}

// ExchangeRateCurrent returns the rate the storefront prices with.
func ExchangeRateCurrent(svc exchangerate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "exchange rate")
			return
		}
		rate, err := svc.Current(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rate)
	}
}

// AdminExchangeRateSet records a manual override.
func AdminExchangeRateSet(svc exchangerate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "exchange rate")
			return
		}
		var payload manualRateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		rate, err := svc.SetManual(r.Context(), payload.Rate)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, rate)
	}
}

// AdminExchangeRateRefresh pulls a fresh quote from the upstream source.
func AdminExchangeRateRefresh(svc exchangerate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "exchange rate")
			return
		}
		rate, err := svc.Refresh(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rate)
	}
}

func AdminExchangeRateHistory(svc exchangerate.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "exchange rate")
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.History(r.Context(), pagination.Params{
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
