package models

import (
	"time"

	"github.com/google/uuid"
)

// FeaturedProduct is the hero banner content.
type FeaturedProduct struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Title       string    `gorm:"column:title;not null"`
	Description string    `gorm:"column:description;not null;default:''"`
	ButtonText  string    `gorm:"column:button_text;not null"`
	ImageURL    string    `gorm:"column:image_url;not null;default:''"`
	ProductID   *string   `gorm:"column:product_id;type:text"`
	IsActive    bool      `gorm:"column:is_active;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
