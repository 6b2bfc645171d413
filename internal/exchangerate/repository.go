package exchangerate

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/loyafu/storefront-backend/pkg/db/models"
	"github.com/loyafu/storefront-backend/pkg/pagination"
)

// Repository stores the rate history.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, row *models.ExchangeRate) error {
	return r.db.WithContext(ctx).Create(row).Error
}

// Latest returns the most recently fetched observation.
func (r *Repository) Latest(ctx context.Context) (*models.ExchangeRate, error) {
	var row models.ExchangeRate
	if err := r.db.WithContext(ctx).
		Order("fetched_at DESC").
		Order("id DESC").
		First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns rows newest first, starting after the cursor. It fetches one extra row so the
// caller can tell whether another page exists.
func (r *Repository) List(ctx context.Context, limit int, cursor *pagination.Cursor) ([]models.ExchangeRate, error) {
	query := r.db.WithContext(ctx).Model(&models.ExchangeRate{})
	if cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	var rows []models.ExchangeRate
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DeleteFetchedBefore removes observations older than cutoff. The newest row
// is always kept so Current has something to fall back on.
func (r *Repository) DeleteFetchedBefore(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int64, error) {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	newest := conn.Model(&models.ExchangeRate{}).Select("id").Order("fetched_at DESC").Limit(1)
	res := conn.WithContext(ctx).
		Where("fetched_at < ?", cutoff).
		Where("id NOT IN (?)", newest).
		Delete(&models.ExchangeRate{})
	return res.RowsAffected, res.Error
}
