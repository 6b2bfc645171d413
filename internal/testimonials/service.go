package testimonials

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/loyafu/storefront-backend/pkg/db"
	"github.com/loyafu/storefront-backend/pkg/db/models"
	"github.com/loyafu/storefront-backend/pkg/enums"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

const (
	minRating     = 1
	maxRating     = 5
	maxTextLength = 1000
)

// Service manages customer testimonials.
type Service interface {
	ListApproved(ctx context.Context, limit int) ([]TestimonialDTO, error)
	Submit(ctx context.Context, input SubmitInput) (*TestimonialDTO, error)
	ListForAdmin(ctx context.Context, status enums.TestimonialStatus) ([]TestimonialDTO, error)
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) (*TestimonialDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubmitInput is a shopper-submitted review. It is stored pending approval.
type SubmitInput struct {
	Name   string
	Text   string
	Rating int
	Badge  *string
}

// TestimonialDTO is returned to clients.
type TestimonialDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Text       string    `json:"text"`
	Rating     int       `json:"rating"`
	Badge      *string   `json:"badge,omitempty"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

type testimonialStore interface {
	List(ctx context.Context, status enums.TestimonialStatus, limit int) ([]models.Testimonial, error)
	Create(ctx context.Context, row *models.Testimonial) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Testimonial, error)
	SetApproved(ctx context.Context, id uuid.UUID, approved bool) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo testimonialStore
}

// NewService constructs the testimonial service.
func NewService(repo testimonialStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("testimonial repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListApproved(ctx context.Context, limit int) ([]TestimonialDTO, error) {
	return s.list(ctx, enums.TestimonialStatusApproved, limit)
}

func (s *service) ListForAdmin(ctx context.Context, status enums.TestimonialStatus) ([]TestimonialDTO, error) {
	if status == "" {
		status = enums.TestimonialStatusAll
	}
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "unsupported status %q", status)
	}
	return s.list(ctx, status, 0)
}

func (s *service) list(ctx context.Context, status enums.TestimonialStatus, limit int) ([]TestimonialDTO, error) {
	rows, err := s.repo.List(ctx, status, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list testimonials")
	}
	out := make([]TestimonialDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (*TestimonialDTO, error) {
	details := map[string]string{}
	name := strings.TrimSpace(input.Name)
	text := strings.TrimSpace(input.Text)
	if name == "" {
		details["name"] = "is required"
	}
	if text == "" {
		details["text"] = "is required"
	} else if len([]rune(text)) > maxTextLength {
		details["text"] = fmt.Sprintf("must be at most %d characters", maxTextLength)
	}
	if input.Rating < minRating || input.Rating > maxRating {
		details["rating"] = fmt.Sprintf("must be between %d and %d", minRating, maxRating)
	}
	if len(details) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid testimonial").WithDetails(details)
	}

	row := &models.Testimonial{
		ID:     uuid.New(),
		Name:   name,
		Text:   text,
		Rating: input.Rating,
	}
	if input.Badge != nil {
		if badge := strings.TrimSpace(*input.Badge); badge != "" {
			row.Badge = &badge
		}
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create testimonial")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) SetApproved(ctx context.Context, id uuid.UUID, approved bool) (*TestimonialDTO, error) {
	if err := s.repo.SetApproved(ctx, id, approved); err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "testimonial not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update testimonial")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load testimonial")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "testimonial not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete testimonial")
	}
	return nil
}

func toDTO(row *models.Testimonial) TestimonialDTO {
	return TestimonialDTO{
		ID:         row.ID,
		Name:       row.Name,
		Text:       row.Text,
		Rating:     row.Rating,
		Badge:      row.Badge,
		IsApproved: row.IsApproved,
		CreatedAt:  row.CreatedAt,
	}
}
