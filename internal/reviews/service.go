package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/validation"
)

const (
	minRating = 1
	maxRating = 5
)

// CreateInput is a customer's product review.
type CreateInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Product string `json:"product" validate:"required"`
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Review  string `json:"review" validate:"required"`
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Product *string `json:"product,omitempty"`
	Rating  *int    `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	Review  *string `json:"review,omitempty"`
	Status  *string `json:"status,omitempty"`
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Review, error)
	List(ctx context.Context) ([]models.Review, error)
	Get(ctx context.Context, id string) (*models.Review, error)
	Update(ctx context.Context, id string, input UpdateInput) (*models.Review, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Review, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Review, error) {
	fields := map[string]string{}
	for field, value := range map[string]string{
		"name":    input.Name,
		"email":   input.Email,
		"product": input.Product,
		"review":  input.Review,
	} {
		if strings.TrimSpace(value) == "" {
			fields[field] = "required"
		}
	}
	if _, ok := fields["email"]; !ok && !validation.Email(input.Email) {
		fields["email"] = "must be a valid email address"
	}
	if input.Rating < minRating || input.Rating > maxRating {
		fields["rating"] = "must be between 1 and 5"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid review").WithDetails(fields)
	}

	review := &models.Review{
		Name:    strings.TrimSpace(input.Name),
		Email:   strings.ToLower(strings.TrimSpace(input.Email)),
		Product: strings.TrimSpace(input.Product),
		Rating:  input.Rating,
		Review:  strings.TrimSpace(input.Review),
		Status:  enums.ReviewStatusPending,
	}
	if _, err := s.repo.Create(ctx, review); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return review, nil
}

func (s *service) List(ctx context.Context) ([]models.Review, error) {
	reviews, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return reviews, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Review, error) {
	reviewID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return s.load(ctx, reviewID)
}

func (s *service) Update(ctx context.Context, id string, input UpdateInput) (*models.Review, error) {
	reviewID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	updates := map[string]any{}
	text := func(field, column string, value *string) {
		if value == nil {
			return
		}
		if strings.TrimSpace(*value) == "" {
			fields[field] = "must not be empty"
			return
		}
		updates[column] = strings.TrimSpace(*value)
	}
	text("name", "name", input.Name)
	text("product", "product", input.Product)
	text("review", "review", input.Review)
	if input.Email != nil {
		if !validation.Email(*input.Email) {
			fields["email"] = "must be a valid email address"
		} else {
			updates["email"] = strings.ToLower(strings.TrimSpace(*input.Email))
		}
	}
	if input.Rating != nil {
		if *input.Rating < minRating || *input.Rating > maxRating {
			fields["rating"] = "must be between 1 and 5"
		} else {
			updates["rating"] = *input.Rating
		}
	}
	if input.Status != nil {
		status, err := enums.ParseReviewStatus(strings.TrimSpace(*input.Status))
		if err != nil {
			fields["status"] = "must be Pending or Solved"
		} else {
			updates["status"] = status
		}
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid review update").WithDetails(fields)
	}
	return s.apply(ctx, reviewID, updates)
}

func (s *service) UpdateStatus(ctx context.Context, id, status string) (*models.Review, error) {
	reviewID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	parsed, err := enums.ParseReviewStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status").
			WithDetails(map[string]any{"allowed": []enums.ReviewStatus{enums.ReviewStatusPending, enums.ReviewStatusSolved}})
	}
	return s.apply(ctx, reviewID, map[string]any{"status": parsed})
}

func (s *service) Delete(ctx context.Context, id string) error {
	reviewID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, reviewID); err != nil {
		return mapErr(err, "delete review")
	}
	return nil
}

func (s *service) apply(ctx context.Context, id uuid.UUID, updates map[string]any) (*models.Review, error) {
	if len(updates) == 0 {
		return s.load(ctx, id)
	}
	if err := s.repo.Update(ctx, id, updates); err != nil {
		return nil, mapErr(err, "update review")
	}
	return s.load(ctx, id)
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapErr(err, "load review")
	}
	return review, nil
}

func mapErr(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid review id")
	}
	return id, nil
}
