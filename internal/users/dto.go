package users

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loyafu/storefront-backend/pkg/db/models"
)

// CreateAdminDTO carries the fields required to insert an admin.
type CreateAdminDTO struct {
	Email        string
	PasswordHash string
	Name         string
}

// ToModel converts the DTO into a persisted model. Email is lowercased.
func (d CreateAdminDTO) ToModel() *models.AdminUser {
	return &models.AdminUser{
		ID:           uuid.New(),
		Email:        strings.ToLower(strings.TrimSpace(d.Email)),
		PasswordHash: d.PasswordHash,
		Name:         strings.TrimSpace(d.Name),
		IsActive:     true,
	}
}

// AdminDTO is the public view of an admin account.
type AdminDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func FromModel(m *models.AdminUser) *AdminDTO {
	if m == nil {
		return nil
	}
	return &AdminDTO{
		ID:          m.ID,
		Email:       m.Email,
		Name:        m.Name,
		IsActive:    m.IsActive,
		LastLoginAt: m.LastLoginAt,
		CreatedAt:   m.CreatedAt,
	}
}
