package faq

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/loyafu/storefront-backend/pkg/db"
	"github.com/loyafu/storefront-backend/pkg/db/models"
	pkgerrors "github.com/loyafu/storefront-backend/pkg/errors"
)

type Service interface {
	List(ctx context.Context) ([]EntryDTO, error)
	Create(ctx context.Context, input EntryInput) (*EntryDTO, error)
	Update(ctx context.Context, id uuid.UUID, input EntryInput) (*EntryDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type EntryInput struct {
	Question  string
	Answer    string
	Category  *string
	SortOrder int
}

type EntryDTO struct {
	ID        uuid.UUID `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Category  *string   `json:"category,omitempty"`
	SortOrder int       `json:"order"`
}

type faqStore interface {
	List(ctx context.Context) ([]models.FAQ, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.FAQ, error)
	Create(ctx context.Context, row *models.FAQ) error
	Update(ctx context.Context, row *models.FAQ) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo faqStore
}

func NewService(repo faqStore) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("faq repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context) ([]EntryDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list faq")
	}
	out := make([]EntryDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Create(ctx context.Context, input EntryInput) (*EntryDTO, error) {
	row := &models.FAQ{ID: uuid.New()}
	if err := apply(row, input); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create faq")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input EntryInput) (*EntryDTO, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "faq entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load faq")
	}
	if err := apply(row, input); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update faq")
	}
	dto := toDTO(row)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if db.IsNotFound(err) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "faq entry not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete faq")
	}
	return nil
}

func apply(row *models.FAQ, input EntryInput) error {
	question := strings.TrimSpace(input.Question)
	answer := strings.TrimSpace(input.Answer)
	if question == "" || answer == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "question and answer are required")
	}
	row.Question = question
	row.Answer = answer
	row.SortOrder = input.SortOrder
	row.Category = nil
	if input.Category != nil {
		if c := strings.TrimSpace(*input.Category); c != "" {
			row.Category = &c
		}
	}
	return nil
}

func toDTO(row *models.FAQ) EntryDTO {
	return EntryDTO{
		ID:        row.ID,
		Question:  row.Question,
		Answer:    row.Answer,
		Category:  row.Category,
		SortOrder: row.SortOrder,
	}
}
