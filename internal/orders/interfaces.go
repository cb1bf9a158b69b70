package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

// Repository defines persistence operations for standard orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByRef(ctx context.Context, ref string) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, status *enums.OrderStatus) ([]models.Order, int64, error)
	Search(ctx context.Context, filters SearchFilters) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error)
	SumRevenue(ctx context.Context, from, until *time.Time) (decimal.Decimal, error)
	RevenueSince(ctx context.Context, since time.Time) ([]RevenuePoint, error)
}

// SearchFilters narrows the dashboard search. Zero values disable a filter.
type SearchFilters struct {
	Status *enums.OrderStatus
	Query  string
	From   *time.Time
	// Until is exclusive.
	Until *time.Time
	Limit int
}

// RevenuePoint is one non-cancelled order's contribution to revenue.
type RevenuePoint struct {
	CreatedAt time.Time
	Total     decimal.Decimal
}
