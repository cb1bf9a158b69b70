package customers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/crumbhouse/bakery-backend/internal/repo"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

func (r *repository) Create(ctx context.Context, customer *models.Customer) (*models.Customer, error) {
	if err := r.DB(ctx).Create(customer).Error; err != nil {
		return nil, err
	}
	return customer, nil
}

func (r *repository) FindByRef(ctx context.Context, ref string) (*models.Customer, error) {
	var customer models.Customer
	err := r.DB(ctx).
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_default DESC").Order("created_at ASC")
		}).
		Scopes(repo.ByRef(ref, "customer_id")).
		First(&customer).Error
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

func (r *repository) List(ctx context.Context, query string, params pagination.Params) ([]models.Customer, int64, error) {
	q := r.DB(ctx).Model(&models.Customer{})
	if query != "" {
		pattern := repo.ContainsPattern(query)
		q = q.Where(
			"LOWER(name) LIKE ? "+repo.LikeEscape+" OR LOWER(phone) LIKE ? "+repo.LikeEscape+" OR LOWER(customer_id) LIKE ? "+repo.LikeEscape,
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	customers := []models.Customer{}
	err := q.
		Preload("Addresses", func(db *gorm.DB) *gorm.DB {
			return db.Order("is_default DESC").Order("created_at ASC")
		}).
		Scopes(repo.Page(params)).
		Order("created_at DESC").
		Find(&customers).Error
	if err != nil {
		return nil, 0, err
	}
	return customers, total, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	updates["updated_at"] = time.Now()
	res := r.DB(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePreferences writes through the model so the JSON serializer applies.
func (r *repository) UpdatePreferences(ctx context.Context, id uuid.UUID, prefs models.CustomerPreferences) error {
	res := r.DB(ctx).Model(&models.Customer{ID: id}).
		Select("preferences", "updated_at").
		Omit(clause.Associations).
		Updates(&models.Customer{Preferences: prefs, UpdatedAt: time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.DB(ctx).Where("customer_id = ?", id).Delete(&models.CustomerAddress{}).Error; err != nil {
		return err
	}
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Customer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CreateAddress(ctx context.Context, address *models.CustomerAddress) error {
	return r.DB(ctx).Create(address).Error
}

func (r *repository) ClearDefaultAddress(ctx context.Context, customerID uuid.UUID) error {
	return r.DB(ctx).Model(&models.CustomerAddress{}).
		Where("customer_id = ? AND is_default = ?", customerID, true).
		Update("is_default", false).Error
}

func (r *repository) MarkDefaultAddress(ctx context.Context, customerID, addressID uuid.UUID) error {
	res := r.DB(ctx).Model(&models.CustomerAddress{}).
		Where("id = ? AND customer_id = ?", addressID, customerID).
		Update("is_default", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementPurchase bumps the spend counters in a single statement.
func (r *repository) IncrementPurchase(ctx context.Context, id uuid.UUID, amount decimal.Decimal, points int64, at time.Time) error {
	res := r.DB(ctx).Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"total_orders":   gorm.Expr("total_orders + 1"),
			"total_spent":    gorm.Expr("total_spent + ?", amount),
			"loyalty_points": gorm.Expr("loyalty_points + ?", points),
			"last_order_at":  at,
			"updated_at":     at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
