package customorders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/internal/events"
	"github.com/crumbhouse/bakery-backend/internal/sequence"
	"github.com/crumbhouse/bakery-backend/pkg/db"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
)

type idAssigner interface {
	Assign(ctx context.Context, f sequence.Format, target *string)
}

type eventEmitter interface {
	Emit(ctx context.Context, eventType events.Type, aggregateID string, data any)
}

// Service handles custom cake requests.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.CustomOrder, error)
	List(ctx context.Context, status string) ([]models.CustomOrder, error)
	Get(ctx context.Context, ref string) (*models.CustomOrder, error)
	UpdateStatus(ctx context.Context, ref string, input StatusInput) (*models.CustomOrder, error)
	Delete(ctx context.Context, ref string) (*models.CustomOrder, error)
}

type service struct {
	repo   Repository
	ids    idAssigner
	events eventEmitter
	now    func() time.Time
}

// NewService builds a custom order service.
func NewService(repo Repository, ids idAssigner, emitter eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("custom orders repository required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id allocator required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{repo: repo, ids: ids, events: emitter, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.CustomOrder, error) {
	order, err := input.toModel(s.now())
	if err != nil {
		return nil, err
	}

	s.ids.Assign(ctx, sequence.CustomOrderFormat, &order.RequestID)

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if db.IsUniqueViolation(err, "request_id") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "request id already exists").
				WithDetails(map[string]string{"requestId": order.RequestID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create custom order")
	}

	s.events.Emit(ctx, events.CustomOrderCreated, created.ID.String(), map[string]any{
		"id":          created.ID,
		"requestId":   created.RequestID,
		"releaseDate": created.ReleaseDate,
		"cake":        created.Cake,
	})
	return created, nil
}

func (s *service) List(ctx context.Context, status string) ([]models.CustomOrder, error) {
	var filter *enums.CustomOrderStatus
	if raw := strings.TrimSpace(status); raw != "" {
		parsed, err := enums.ParseCustomOrderStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filter = &parsed
	}
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list custom orders")
	}
	return orders, nil
}

func (s *service) Get(ctx context.Context, ref string) (*models.CustomOrder, error) {
	return loadCustomOrder(ctx, s.repo, ref)
}

func (s *service) UpdateStatus(ctx context.Context, ref string, input StatusInput) (*models.CustomOrder, error) {
	target, err := enums.ParseCustomOrderStatus(strings.TrimSpace(input.Status))
	if err != nil || !target.IsReviewDecision() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").
			WithDetails(map[string]any{"allowed": []enums.CustomOrderStatus{
				enums.CustomOrderStatusPending,
				enums.CustomOrderStatusAccepted,
				enums.CustomOrderStatusRejected,
			}})
	}
	if input.Price != nil && input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be zero or greater")
	}

	order, err := loadCustomOrder(ctx, s.repo, ref)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{"status": target}
	if input.Price != nil {
		updates["price"] = input.Price.Round(2)
	}
	if err := s.repo.Update(ctx, order.ID, updates); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "custom order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update custom order status")
	}

	updated, err := loadCustomOrder(ctx, s.repo, order.ID.String())
	if err != nil {
		return nil, err
	}
	if order.Status != target {
		s.events.Emit(ctx, events.CustomOrderStatusChanged, updated.ID.String(), StatusChange{
			ID:        updated.ID.String(),
			RequestID: updated.RequestID,
			From:      order.Status,
			To:        target,
			Source:    "review",
		})
	}
	return updated, nil
}

// Delete removes the custom order only. Its dashboard entry stays behind.
func (s *service) Delete(ctx context.Context, ref string) (*models.CustomOrder, error) {
	order, err := loadCustomOrder(ctx, s.repo, ref)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, order.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "custom order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete custom order")
	}
	return order, nil
}

func loadCustomOrder(ctx context.Context, repo Repository, ref string) (*models.CustomOrder, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "custom order reference required")
	}
	order, err := repo.FindByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "custom order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load custom order")
	}
	return order, nil
}
