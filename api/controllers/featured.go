package controllers

import (
	"net/http"

	"github.com/loyafu/storefront-backend/api/responses"
	"github.com/loyafu/storefront-backend/api/validators"
	"github.com/loyafu/storefront-backend/internal/featured"
	"github.com/loyafu/storefront-backend/pkg/logger"
)

type bannerRequest struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Description string  `json:"description"`
	ButtonText  string  `json:"button_text" validate:"omitempty,max=60"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	ProductID   *string `json:"product_id"`
	IsActive    *bool   `json:"is_active"`
}

func FeaturedGet(svc featured.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "featured")
			return
		}
		banner, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, banner)
	}
}

func AdminFeaturedGet(svc featured.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "featured")
			return
		}
		banner, err := svc.GetForAdmin(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, banner)
	}
}

// AdminFeaturedUpsert replaces the hero banner. Omitted is_active means active.
func AdminFeaturedUpsert(svc featured.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "featured")
			return
		}
		var payload bannerRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		active := true
		if payload.IsActive != nil {
			active = *payload.IsActive
		}
		banner, err := svc.Upsert(r.Context(), featured.BannerInput{
			Title:       payload.Title,
			Description: payload.Description,
			ButtonText:  payload.ButtonText,
			ImageURL:    payload.ImageURL,
			ProductID:   payload.ProductID,
			IsActive:    active,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, banner)
	}
}
