package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

// ListFilters narrow the catalog listing. Nil fields are ignored.
type ListFilters struct {
	Category  *enums.ProductCategory
	Available *bool
	Featured  *bool
	Query     string
}

// Repository persists catalog items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	FindByRef(ctx context.Context, ref string) (*models.Product, error)
	List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddRating(ctx context.Context, id uuid.UUID, rating int) error
}
