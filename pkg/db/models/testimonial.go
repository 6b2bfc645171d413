package models

import (
	"time"

	"github.com/google/uuid"
)

// Testimonial is a customer review. Only approved ones are public.
type Testimonial struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name       string    `gorm:"column:name;not null"`
	Text       string    `gorm:"column:text;not null"`
	Rating     int       `gorm:"column:rating;not null"`
	Badge      *string   `gorm:"column:badge"`
	IsApproved bool      `gorm:"column:is_approved;not null;default:false"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
