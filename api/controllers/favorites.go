package controllers

import (
	"net/http"

	"github.com/loyafu/storefront-backend/api/middleware"
	"github.com/loyafu/storefront-backend/api/responses"
	"github.com/loyafu/storefront-backend/api/validators"
	"github.com/loyafu/storefront-backend/internal/favorites"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
	"github.com/loyafu/storefront-backend/pkg/logger"
)

type favoriteRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

func FavoritesList(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "favorites")
			return
		}
		list, err := svc.List(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// FavoritesAdd stores a product and returns the updated list.
func FavoritesAdd(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return favoriteMutation(svc, logg, false)
}

// FavoritesRemove drops a product; removing an absent one is not an error.
func FavoritesRemove(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return favoriteMutation(svc, logg, true)
}

func favoriteMutation(svc favorites.Service, logg *logger.Logger, remove bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "favorites")
			return
		}
		sessionID := middleware.CartSessionFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart session missing"))
			return
		}
		var payload favoriteRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		apply := svc.Add
		if remove {
			apply = svc.Remove
		}
		if err := apply(r.Context(), sessionID, payload.ProductID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.List(r.Context(), sessionID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
