package controllers

import (
	"net/http"

	"github.com/loyafu/storefront-backend/api/responses"
	"github.com/loyafu/storefront-backend/api/validators"
	"github.com/loyafu/storefront-backend/internal/testimonials"
	"github.com/loyafu/storefront-backend/pkg/enums"
	"github.com/loyafu/storefront-backend/pkg/logger"
)

type submitTestimonialRequest struct {
	Name   string  `json:"name" validate:"required,max=100"`
	Text   string  `json:"text" validate:"required"`
	Rating int     `json:"rating" validate:"required,min=1,max=5"`
	Badge  *string `json:"badge" validate:"omitempty,max=60"`
}

type approveTestimonialRequest struct {
	IsApproved *bool `json:"is_approved" validate:"required"`
}

// TestimonialList returns approved testimonials, newest first.
func TestimonialList(svc testimonials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "testimonial")
			return
		}
		limit, err := validators.ParseQueryInt(r, "limit", 20, 1, 100)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListApproved(r.Context(), limit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// TestimonialSubmit stores a shopper review pending moderation.
func TestimonialSubmit(svc testimonials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "testimonial")
			return
		}
		var payload submitTestimonialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		created, err := svc.Submit(r.Context(), testimonials.SubmitInput{
			Name:   validators.SanitizeString(payload.Name, 100),
			Text:   payload.Text,
			Rating: payload.Rating,
			Badge:  payload.Badge,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func AdminTestimonialList(svc testimonials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "testimonial")
			return
		}
		status, err := validators.ParseQueryEnum(r, "status", enums.ParseTestimonialStatus)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		list, err := svc.ListForAdmin(r.Context(), status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminTestimonialApprove(svc testimonials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "testimonial")
			return
		}
		id, err := uuidParam(r, "testimonialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload approveTestimonialRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		updated, err := svc.SetApproved(r.Context(), id, *payload.IsApproved)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, updated)
	}
}

func AdminTestimonialDelete(svc testimonials.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "testimonial")
			return
		}
		id, err := uuidParam(r, "testimonialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}
