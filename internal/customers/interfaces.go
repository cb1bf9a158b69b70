package customers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

// Repository persists CRM profiles and their addresses.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, customer *models.Customer) (*models.Customer, error)
	FindByRef(ctx context.Context, ref string) (*models.Customer, error)
	List(ctx context.Context, query string, params pagination.Params) ([]models.Customer, int64, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	UpdatePreferences(ctx context.Context, id uuid.UUID, prefs models.CustomerPreferences) error
	Delete(ctx context.Context, id uuid.UUID) error
	CreateAddress(ctx context.Context, address *models.CustomerAddress) error
	ClearDefaultAddress(ctx context.Context, customerID uuid.UUID) error
	MarkDefaultAddress(ctx context.Context, customerID, addressID uuid.UUID) error
	IncrementPurchase(ctx context.Context, id uuid.UUID, amount decimal.Decimal, points int64, at time.Time) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
