package featured

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/loyafu/storefront-backend/pkg/db"
	"github.com/loyafu/storefront-backend/pkg/db/models"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

const DefaultButtonText = "Comprar Ahora"

type Service interface {
	// Get returns the active banner for the storefront.
	Get(ctx context.Context) (*BannerDTO, error)
	// GetForAdmin returns the banner regardless of its active flag.
	GetForAdmin(ctx context.Context) (*BannerDTO, error)
	Upsert(ctx context.Context, input BannerInput) (*BannerDTO, error)
}

type BannerInput struct {
	Title       string
	Description string
	ButtonText  string
	ImageURL    string
	ProductID   *string
	IsActive    bool
}

type BannerDTO struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	ButtonText  string  `json:"button_text"`
	ImageURL    string  `json:"image_url"`
	ProductID   *string `json:"product_id,omitempty"`
	IsActive    bool    `json:"is_active"`
}

type bannerStore interface {
	Current(ctx context.Context) (*models.FeaturedProduct, error)
	Save(ctx context.Context, row *models.FeaturedProduct) error
}

type service struct {
	repo bannerStore
}

func NewService(repo bannerStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("featured repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context) (*BannerDTO, error) {
	dto, err := s.GetForAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if !dto.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "featured product not found")
	}
	return dto, nil
}

func (s *service) GetForAdmin(ctx context.Context) (*BannerDTO, error) {
	row, err := s.repo.Current(ctx)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "featured product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load featured product")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) Upsert(ctx context.Context, input BannerInput) (*BannerDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	row, err := s.repo.Current(ctx)
	switch {
	case err == nil:
	case db.IsNotFound(err):
		row = &models.FeaturedProduct{ID: uuid.New()}
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load featured product")
	}

	row.Title = title
	row.Description = strings.TrimSpace(input.Description)
	row.ButtonText = strings.TrimSpace(input.ButtonText)
	if row.ButtonText == "" {
		row.ButtonText = DefaultButtonText
	}
	row.ImageURL = strings.TrimSpace(input.ImageURL)
	row.ProductID = nil
	if input.ProductID != nil {
		if id := strings.TrimSpace(*input.ProductID); id != "" {
			row.ProductID = &id
		}
	}
	row.IsActive = input.IsActive

	if err := s.repo.Save(ctx, row); err != nil {
		if db.IsForeignKeyViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product_id does not match a product")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save featured product")
	}
	dto := toDTO(row)
	return &dto, nil
}

func toDTO(row *models.FeaturedProduct) BannerDTO {
	return BannerDTO{
		Title:       row.Title,
		Description: row.Description,
		ButtonText:  row.ButtonText,
		ImageURL:    row.ImageURL,
		ProductID:   row.ProductID,
		IsActive:    row.IsActive,
	}
}
