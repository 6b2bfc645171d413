package featured

import (
	"context"

	"gorm.io/gorm"

	"github.com/loyafu/storefront-backend/pkg/db/models"
)

// Repository stores the single hero banner row.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Current returns the most recently updated banner, if any.
func (r *Repository) Current(ctx context.Context) (*models.FeaturedProduct, error) {
	var row models.FeaturedProduct
	if err := r.db.WithContext(ctx).Order("updated_at DESC").First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) Save(ctx context.Context, row *models.FeaturedProduct) error {
	return r.db.WithContext(ctx).Save(row).Error
}
