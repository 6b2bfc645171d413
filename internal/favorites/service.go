package favorites

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/loyafu/storefront-backend/internal/cart"
	product "github.com/loyafu/storefront-backend/internal/products"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

type setStore interface {
	SAdd(ctx context.Context, key string, ttl time.Duration, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	FavoritesKey(sessionID string) string
}

type productLookup interface {
	Get(ctx context.Context, id string) (*product.ProductDTO, error)
	GetMany(ctx context.Context, ids []string) ([]product.ProductDTO, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Store    setStore
	Products productLookup
	TTL      time.Duration
}

// ListDTO is the resolved favorites of one session. IDs keeps every stored id,
// including products that are no longer listed.
type ListDTO struct {
	IDs   []string             `json:"ids"`
	Items []product.ProductDTO `json:"items"`
}

// Service manages the favorite products of a cart session.
type Service interface {
	List(ctx context.Context, sessionID string) (ListDTO, error)
	Add(ctx context.Context, sessionID, productID string) error
	Remove(ctx context.Context, sessionID, productID string) error
}

type service struct {
	store    setStore
	products productLookup
	ttl      time.Duration
}

func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites store is required")
	}
	if params.Products == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product service is required")
	}
	return &service{store: params.Store, products: params.Products, ttl: params.TTL}, nil
}

func (s *service) List(ctx context.Context, sessionID string) (ListDTO, error) {
	if err := cart.ValidateSessionID(sessionID); err != nil {
		return ListDTO{}, err
	}
	ids, err := s.store.SMembers(ctx, s.store.FavoritesKey(sessionID))
	if err != nil {
		return ListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load favorites")
	}
	sort.Strings(ids)
	items, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return ListDTO{}, err
	}
	return ListDTO{IDs: ids, Items: items}, nil
}

// Add stores productID after checking it exists in the catalog.
func (s *service) Add(ctx context.Context, sessionID, productID string) error {
	if err := cart.ValidateSessionID(sessionID); err != nil {
		return err
	}
	productID = strings.TrimSpace(productID)
	dto, err := s.products.Get(ctx, productID)
	if err != nil {
		return err
	}
	if !dto.IsActive {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if err := s.store.SAdd(ctx, s.store.FavoritesKey(sessionID), s.ttl, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return nil
}

// Remove is idempotent.
func (s *service) Remove(ctx context.Context, sessionID, productID string) error {
	if err := cart.ValidateSessionID(sessionID); err != nil {
		return err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := s.store.SRem(ctx, s.store.FavoritesKey(sessionID), productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	return nil
}
