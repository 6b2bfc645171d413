package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/api/responses"
	"github.com/loyafu/storefront-backend/api/validators"
	productsvc "github.com/loyafu/storefront-backend/internal/products"
	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
	"github.com/loyafu/storefront-backend/pkg/logger"
	"github.com/loyafu/storefront-backend/pkg/pagination"
)

// ProductList serves the public catalog with filters, sort and page.
func ProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listProducts(svc, logg, false)
}

// AdminProductList includes inactive products.
func AdminProductList(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return listProducts(svc, logg, true)
}

func listProducts(svc productsvc.Service, logg *logger.Logger, includeInactive bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product")
			return
		}

		sort, err := validators.ParseQueryEnum(r, "sort", enums.ParseProductSort)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := validators.ParseQueryInt(r, "page", 1, 1, 10000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		size, err := validators.ParseQueryInt(r, "page_size", pagination.DefaultPageSize, 1, pagination.MaxPageSize)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.List(r.Context(), productsvc.ListInput{
			Categories:      validators.ParseQueryList(r, "category"),
			Search:          validators.SanitizeString(r.URL.Query().Get("q"), 100),
			Sort:            sort,
			Page:            pagination.PageParams{Page: page, PageSize: size},
			IncludeInactive: includeInactive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProductDetail returns one active product.
func ProductDetail(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product")
			return
		}
		id, err := textParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !product.IsActive {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "product not found"))
			return
		}
		responses.WriteSuccess(w, product)
	}
}

type createProductRequest struct {
	ID                string           `json:"id" validate:"omitempty,max=64"`
	Name              string           `json:"name" validate:"required,max=200"`
	Description       string           `json:"description"`
	Category          string           `json:"category" validate:"required"`
	ImageURL          string           `json:"image_url" validate:"omitempty,url"`
	PriceUSD          decimal.Decimal  `json:"price_usd"`
	WholesalePriceUSD *decimal.Decimal `json:"wholesale_price_usd"`
	WholesaleMin      *int             `json:"wholesale_min"`
	Colors            []string         `json:"colors" validate:"omitempty,dive,required"`
	IsActive          *bool            `json:"is_active"`
}

func (p createProductRequest) toInput() productsvc.CreateProductInput {
	return productsvc.CreateProductInput{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Category:          strings.ToLower(p.Category),
		ImageURL:          p.ImageURL,
		PriceUSD:          p.PriceUSD,
		WholesalePriceUSD: p.WholesalePriceUSD,
		WholesaleMin:      p.WholesaleMin,
		Colors:            p.Colors,
		IsActive:          p.IsActive,
	}
}

type updateProductRequest struct {
	Name              *string          `json:"name" validate:"omitempty,max=200"`
	Description       *string          `json:"description"`
	Category          *string          `json:"category"`
	ImageURL          *string          `json:"image_url" validate:"omitempty,url"`
	PriceUSD          *decimal.Decimal `json:"price_usd"`
	WholesalePriceUSD *decimal.Decimal `json:"wholesale_price_usd"`
	WholesaleMin      *int             `json:"wholesale_min"`
	ClearWholesale    bool             `json:"clear_wholesale"`
	Colors            *[]string        `json:"colors"`
	IsActive          *bool            `json:"is_active"`
}

func (p updateProductRequest) toInput() productsvc.UpdateProductInput {
	input := productsvc.UpdateProductInput{
		Name:              p.Name,
		Description:       p.Description,
		ImageURL:          p.ImageURL,
		PriceUSD:          p.PriceUSD,
		WholesalePriceUSD: p.WholesalePriceUSD,
		WholesaleMin:      p.WholesaleMin,
		ClearWholesale:    p.ClearWholesale,
		Colors:            p.Colors,
		IsActive:          p.IsActive,
	}
	if p.Category != nil {
		category := strings.ToLower(*p.Category)
		input.Category = &category
	}
	return input
}

// AdminProductCreate adds a catalog product.
func AdminProductCreate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product")
			return
		}
		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminProductUpdate applies a partial update.
func AdminProductUpdate(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product")
			return
		}
		id, err := textParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := svc.Update(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, product)
	}
}

func AdminProductDelete(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			unavailable(w, r, logg, "product")
			return
		}
		id, err := textParam(r, "productId")
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
