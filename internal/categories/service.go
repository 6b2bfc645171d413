package categories

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loyafu/storefront-backend/pkg/db"
	"github.com/loyafu/storefront-backend/pkg/db/models"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

// Service manages storefront categories.
type Service interface {
	List(ctx context.Context) ([]CategoryDTO, error)
	Create(ctx context.Context, input CategoryInput) (*CategoryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CategoryInput is the admin payload. An empty slug is derived from the name.
type CategoryInput struct {
	Name      string
	Slug      string
	SortOrder int
	ImageURL  *string
}

// CategoryDTO is returned to clients.
type CategoryDTO struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	SortOrder int       `json:"order"`
	ImageURL  *string   `json:"image_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type categoryStore interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo categoryStore
}

// NewService constructs the category service.
func NewService(repo categoryStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("category repository required")
	}
	return &service{repo: repo}, nil
}

var whitespace = regexp.MustCompile(`\s+`)

// Slugify lowercases name and joins words with "-".
func Slugify(name string) string {
	return whitespace.ReplaceAllString(strings.ToLower(strings.TrimSpace(name)), "-")
}

func (s *service) List(ctx context.Context) ([]CategoryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	out := make([]CategoryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input CategoryInput) (*CategoryDTO, error) {
	row := &models.Category{ID: uuid.New()}
	if err := apply(row, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, translateWriteErr(err, row.Slug, "create category")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input CategoryInput) (*CategoryDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load category")
	}
	if err := apply(row, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, translateWriteErr(err, row.Slug, "update category")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "category not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func apply(row *models.Category, input CategoryInput) error {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	slug := Slugify(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	row.Name = name
	row.Slug = slug
	row.SortOrder = input.SortOrder
	row.ImageURL = nil
	if input.ImageURL != nil {
		if trimmed := strings.TrimSpace(*input.ImageURL); trimmed != "" {
			row.ImageURL = &trimmed
		}
	}
	return nil
}

func translateWriteErr(err error, slug, action string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Newf(pkgerrors.CodeConflict, "category slug %q already exists", slug)
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func toDTO(row *models.Category) CategoryDTO {
	return CategoryDTO{
		ID:        row.ID,
		Name:      row.Name,
		Slug:      row.Slug,
		SortOrder: row.SortOrder,
		ImageURL:  row.ImageURL,
		CreatedAt: row.CreatedAt,
	}
}
