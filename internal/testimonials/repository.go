package testimonials

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loyafu/storefront-backend/pkg/db/models"
	"github.com/loyafu/storefront-backend/pkg/enums"
)

// Repository persists testimonials.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns testimonials matching status, newest first. limit <= 0 means no limit.
func (r *Repository) List(ctx context.Context, status enums.TestimonialStatus, limit int) ([]models.Testimonial, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC, id ASC")
	switch status {
	case enums.TestimonialStatusApproved:
		q = q.Where("is_approved = ?", true)
	case enums.TestimonialStatusPending:
		q = q.Where("is_approved = ?", false)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	var rows []models.Testimonial
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) Create(ctx context.Context, row *models.Testimonial) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error) {
	var row models.Testimonial
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// SetApproved flips the approval flag. It returns gorm.ErrRecordNotFound when nothing matched.
func (r *Repository) SetApproved(ctx context.Context, id uuid.UUID, approved bool) error {
	res := r.db.WithContext(ctx).Model(&models.Testimonial{}).Where("id = ?", id).Update("is_approved", approved)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Testimonial{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
