package controllers

import (
	"net/http"

	"github.com/loyafu/storefront-backend/api/responses"
	"github.com/loyafu/storefront-backend/api/validators"
	"github.com/loyafu/storefront-backend/internal/settings"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
	"github.com/loyafu/storefront-backend/pkg/logger"
)

type updateSettingsRequest struct {
	WhatsAppNumber  *string `json:"whatsapp_number" validate:"omitempty,max=20"`
	StoreName       *string `json:"store_name" validate:"omitempty,max=100"`
	WelcomeMessage  *string `json:"welcome_message"`
	DeliveryMessage *string `json:"delivery_message"`
}

func (u updateSettingsRequest) values() map[string]string {
	out := map[string]string{}
	set := func(key string, v *string) {
		if v != nil {
			out[key] = *v
		}
	}
	set(settings.KeyWhatsAppNumber, u.WhatsAppNumber)
	set(settings.KeyStoreName, u.StoreName)
	set(settings.KeyWelcomeMessage, u.WelcomeMessage)
	set(settings.KeyDeliveryMessage, u.DeliveryMessage)
	return out
}

// SettingsGet returns the public store identity.
func SettingsGet(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "settings")
			return
		}
		current, err := svc.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, current)
	}
}

func AdminSettingsUpdate(svc settings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "settings")
			return
		}
		var payload updateSettingsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		values := payload.values()
		if len(values) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "no settings provided"))
			return
		}
		updated, err := svc.Update(r.Context(), values)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}
