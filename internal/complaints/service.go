package complaints

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

type CreateInput struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	OrderRef string `json:"orderRef"`
	Subject  string `json:"subject" validate:"required"`
	Message  string `json:"message" validate:"required"`
}

type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Complaint, error)
	List(ctx context.Context, status string) ([]models.Complaint, error)
	Get(ctx context.Context, id string) (*models.Complaint, error)
	UpdateStatus(ctx context.Context, id, status string) (*models.Complaint, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("complaints repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Complaint, error) {
	fields := map[string]string{}
	for field, value := range map[string]string{
		"name":    input.Name,
		"subject": input.Subject,
		"message": input.Message,
	} {
		if strings.TrimSpace(value) == "" {
			fields[field] = "required"
		}
	}
	if !validation.Email(input.Email) {
		fields["email"] = "must be a valid email address"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid complaint").WithDetails(fields)
	}

	complaint := &models.Complaint{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		OrderRef: strings.TrimSpace(input.OrderRef),
		Subject:  strings.TrimSpace(input.Subject),
		Message:  strings.TrimSpace(input.Message),
		Status:   enums.ComplaintStatusOpen,
	}
	if _, err := s.repo.Create(ctx, complaint); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create complaint")
	}
	return complaint, nil
}

func (s *service) List(ctx context.Context, status string) ([]models.Complaint, error) {
	var filter *enums.ComplaintStatus
	if raw := strings.TrimSpace(status); raw != "" {
		parsed, err := enums.ParseComplaintStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filter = &parsed
	}
	complaints, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list complaints")
	}
	return complaints, nil
}

func (s *service) Get(ctx context.Context, id string) (*models.Complaint, error) {
	complaintID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	complaint, err := s.repo.FindByID(ctx, complaintID)
	if err != nil {
		return nil, mapErr(err, "load complaint")
	}
	return complaint, nil
}

func (s *service) UpdateStatus(ctx context.Context, id, status string) (*models.Complaint, error) {
	complaintID, err := parseID(id)
	if err != nil {
		return nil, err
	}
	parsed, err := enums.ParseComplaintStatus(strings.TrimSpace(status))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
	}
	if err := s.repo.UpdateStatus(ctx, complaintID, parsed); err != nil {
		return nil, mapErr(err, "update complaint status")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	complaintID, err := parseID(id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, complaintID); err != nil {
		return mapErr(err, "delete complaint")
	}
	return nil
}

func mapErr(err error, action string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "complaint not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid complaint id")
	}
	return id, nil
}
