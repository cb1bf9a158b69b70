package customorders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
)

// Repository persists custom cake requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.CustomOrder) (*models.CustomOrder, error)
	FindByRef(ctx context.Context, ref string) (*models.CustomOrder, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.CustomOrder, error)
	List(ctx context.Context, status *enums.CustomOrderStatus) ([]models.CustomOrder, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

// DashRepository persists dashboard entries and their notes.
type DashRepository interface {
	WithTx(tx *gorm.DB) DashRepository
	Create(ctx context.Context, entry *models.CustomOrderDash) (*models.CustomOrderDash, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CustomOrderDash, error)
	List(ctx context.Context, status *enums.DashStatus) ([]models.CustomOrderDash, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	AppendNotes(ctx context.Context, notes []models.DashNote) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountBy(ctx context.Context, column string) (map[string]int64, error)
	SumAmounts(ctx context.Context) (total, paid decimal.Decimal, err error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
