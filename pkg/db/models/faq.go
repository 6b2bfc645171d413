package models

import (
	"time"

	"github.com/google/uuid"
)

// FAQ is a question and answer pair shown on the help page.
type FAQ struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Question  string    `gorm:"column:question;not null"`
	Answer    string    `gorm:"column:answer;not null"`
	Category  *string   `gorm:"column:category"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (FAQ) TableName() string { return "faqs" }
