package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/internal/repo"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

type repository struct {
	repo.Base
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.DB(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByRef(ctx context.Context, ref string) (*models.Order, error) {
	var order models.Order
	if err := r.DB(ctx).Scopes(repo.ByRef(ref, "order_id")).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *repository) List(ctx context.Context, params pagination.Params, status *enums.OrderStatus) ([]models.Order, int64, error) {
	query := r.DB(ctx).Model(&models.Order{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := []models.Order{}
	err := query.
		Scopes(repo.Page(params)).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *repository) Search(ctx context.Context, filters SearchFilters) ([]models.Order, error) {
	query := r.DB(ctx).Model(&models.Order{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Query != "" {
		pattern := repo.ContainsPattern(filters.Query)
		query = query.Where(
			"LOWER(order_id) LIKE ? "+repo.LikeEscape+
				" OR LOWER(customer_name) LIKE ? "+repo.LikeEscape+
				" OR LOWER(customer_phone) LIKE ? "+repo.LikeEscape,
			pattern, pattern, pattern,
		)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.Until != nil {
		query = query.Where("created_at < ?", *filters.Until)
	}

	limit := filters.Limit
	if limit <= 0 || limit > SearchLimit {
		limit = SearchLimit
	}

	orders := []models.Order{}
	if err := query.Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	res := r.DB(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[enums.OrderStatus]int64, error) {
	var rows []struct {
		Status enums.OrderStatus
		Count  int64
	}
	err := r.DB(ctx).Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[enums.OrderStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) SumRevenue(ctx context.Context, from, until *time.Time) (decimal.Decimal, error) {
	query := r.DB(ctx).Model(&models.Order{}).
		Where("status <> ?", enums.OrderStatusCancelled)
	if from != nil {
		query = query.Where("created_at >= ?", *from)
	}
	if until != nil {
		query = query.Where("created_at < ?", *until)
	}

	var total decimal.NullDecimal
	if err := query.Select("SUM(payment_total)").Row().Scan(&total); err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *repository) RevenueSince(ctx context.Context, since time.Time) ([]RevenuePoint, error) {
	points := []RevenuePoint{}
	err := r.DB(ctx).Model(&models.Order{}).
		Select("created_at, payment_total AS total").
		Where("status <> ?", enums.OrderStatusCancelled).
		Where("created_at >= ?", since).
		Scan(&points).Error
	if err != nil {
		return nil, err
	}
	return points, nil
}
