package product

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loyafu/storefront-backend/internal/cart"
	"github.com/loyafu/storefront-backend/pkg/db"
	"github.com/loyafu/storefront-backend/pkg/db/models"
	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
	"github.com/loyafu/storefront-backend/pkg/pagination"
	"github.com/loyafu/storefront-backend/pkg/types"
)

const idPrefix = "prod_"

// Service exposes catalog reads for shoppers and product management for admins.
type Service interface {
	List(ctx context.Context, input ListInput) (*ListResult, error)
	Get(ctx context.Context, id string) (*ProductDTO, error)
	GetMany(ctx context.Context, ids []string) ([]ProductDTO, error)
	CartProduct(ctx context.Context, id string) (cart.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	Update(ctx context.Context, id string, input UpdateProductInput) (*ProductDTO, error)
	Delete(ctx context.Context, id string) error
}

// ListInput captures catalog filters, sort and page.
type ListInput struct {
	Categories      []string
	Search          string
	Sort            enums.ProductSort
	Page            pagination.PageParams
	IncludeInactive bool
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	ID                string
	Name              string
	Description       string
	Category          string
	ImageURL          string
	PriceUSD          decimal.Decimal
	WholesalePriceUSD *decimal.Decimal
	WholesaleMin      *int
	Colors            []string
	IsActive          *bool
}

// UpdateProductInput holds optional mutation values for a product.
// ClearWholesale drops both wholesale fields.
type UpdateProductInput struct {
	Name              *string
	Description       *string
	Category          *string
	ImageURL          *string
	PriceUSD          *decimal.Decimal
	WholesalePriceUSD *decimal.Decimal
	WholesaleMin      *int
	ClearWholesale    bool
	Colors            *[]string
	IsActive          *bool
}

type productStore interface {
	FindByID(ctx context.Context, id string) (*models.Product, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, q listQuery) ([]models.Product, int64, error)
}

type service struct {
	repo productStore
	now  func() time.Time
}

// NewService constructs a product service instance.
func NewService(repo productStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) List(ctx context.Context, input ListInput) (*ListResult, error) {
	sort := input.Sort
	if sort == "" {
		sort = enums.ProductSortDefault
	}
	if !sort.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported sort %q", sort)
	}
	page := input.Page.Normalize()

	rows, total, err := s.repo.List(ctx, listQuery{
		Categories:      normalizeCategories(input.Categories),
		Search:          input.Search,
		Sort:            sort,
		Page:            page,
		IncludeInactive: input.IncludeInactive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	items := make([]ProductDTO, 0, len(rows))
	for i := range rows {
		items = append(items, NewProductDTO(&rows[i]))
	}
	return &ListResult{Items: items, Page: pagination.NewPageInfo(page, total)}, nil
}

func (s *service) Get(ctx context.Context, id string) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := NewProductDTO(product)
	return &dto, nil
}

// GetMany resolves ids in the given order, skipping unknown or inactive products.
func (s *service) GetMany(ctx context.Context, ids []string) ([]ProductDTO, error) {
	rows, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	byID := make(map[string]*models.Product, len(rows))
	for i := range rows {
		byID[rows[i].ID] = &rows[i]
	}
	out := make([]ProductDTO, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, NewProductDTO(p))
		}
	}
	return out, nil
}

// CartProduct loads an active product in the shape the cart copies into lines.
func (s *service) CartProduct(ctx context.Context, id string) (cart.Product, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return cart.Product{}, err
	}
	if !product.IsActive {
		return cart.Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return toCartProduct(product), nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	product := &models.Product{
		ID:                strings.TrimSpace(input.ID),
		Name:              strings.TrimSpace(input.Name),
		Description:       strings.TrimSpace(input.Description),
		Category:          strings.TrimSpace(input.Category),
		ImageURL:          strings.TrimSpace(input.ImageURL),
		PriceUSD:          input.PriceUSD,
		WholesalePriceUSD: input.WholesalePriceUSD,
		WholesaleMin:      input.WholesaleMin,
		Colors:            types.Normalize(input.Colors),
		IsActive:          true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	generated := product.ID == ""
	if generated {
		product.ID = fmt.Sprintf("%s%d", idPrefix, s.now().UnixMilli())
	}
	created, err := s.repo.Create(ctx, product)
	if err != nil && generated && db.IsUniqueViolation(err, "") {
		product.ID = fmt.Sprintf("%s%d_%s", idPrefix, s.now().UnixMilli(), uuid.NewString()[:8])
		created, err = s.repo.Create(ctx, product)
	}
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "product %s already exists", product.ID)
		}
		if db.IsCheckViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	dto := NewProductDTO(created)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id string, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	applyUpdate(product, input)
	if err := validateProduct(product); err != nil {
		return nil, err
	}
	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		if db.IsCheckViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	dto := NewProductDTO(updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, strings.TrimSpace(id)); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) load(ctx context.Context, id string) (*models.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.ImageURL != nil {
		product.ImageURL = strings.TrimSpace(*input.ImageURL)
	}
	if input.PriceUSD != nil {
		product.PriceUSD = *input.PriceUSD
	}
	if input.ClearWholesale {
		product.WholesalePriceUSD = nil
		product.WholesaleMin = nil
	} else {
		if input.WholesalePriceUSD != nil {
			product.WholesalePriceUSD = input.WholesalePriceUSD
		}
		if input.WholesaleMin != nil {
			product.WholesaleMin = input.WholesaleMin
		}
	}
	if input.Colors != nil {
		product.Colors = types.Normalize(*input.Colors)
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}

func validateProduct(p *models.Product) error {
	details := map[string]string{}
	if p.Name == "" {
		details["name"] = "is required"
	}
	if p.Category == "" {
		details["category"] = "is required"
	}
	if !p.PriceUSD.IsPositive() {
		details["price_usd"] = "must be greater than zero"
	}
	if (p.WholesalePriceUSD == nil) != (p.WholesaleMin == nil) {
		details["wholesale"] = "wholesale price and minimum must be set together"
	}
	if p.WholesalePriceUSD != nil {
		if !p.WholesalePriceUSD.IsPositive() {
			details["wholesale_price_usd"] = "must be greater than zero"
		} else if p.WholesalePriceUSD.GreaterThan(p.PriceUSD) {
			details["wholesale_price_usd"] = "must not exceed price_usd"
		}
	}
	if p.WholesaleMin != nil && *p.WholesaleMin < 2 {
		details["wholesale_min"] = "must be at least 2"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(details)
	}
	return nil
}

func normalizeCategories(values []string) []string {
	return []string(types.Normalize(values))
}
