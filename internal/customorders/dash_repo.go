package customorders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/internal/repo"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
)

var dashGroupColumns = map[string]bool{
	"status":         true,
	"priority":       true,
	"payment_status": true,
}

type dashRepository struct {
	repo.Base
}

// NewDashRepository builds a dashboard entry repository bound to the provided DB.
func NewDashRepository(db *gorm.DB) DashRepository {
	return &dashRepository{Base: repo.NewBase(db)}
}

func (r *dashRepository) WithTx(tx *gorm.DB) DashRepository {
	return &dashRepository{Base: r.Base.WithTx(tx)}
}

func (r *dashRepository) Create(ctx context.Context, entry *models.CustomOrderDash) (*models.CustomOrderDash, error) {
	if err := r.DB(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *dashRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.CustomOrderDash, error) {
	var entry models.CustomOrderDash
	err := r.DB(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("added_at ASC") }).
		Where("id = ?", id).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *dashRepository) List(ctx context.Context, status *enums.DashStatus) ([]models.CustomOrderDash, error) {
	query := r.DB(ctx).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("added_at ASC") })
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	entries := []models.CustomOrderDash{}
	if err := query.Order("created_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *dashRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	updates["updated_at"] = time.Now()
	res := r.DB(ctx).Model(&models.CustomOrderDash{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *dashRepository) AppendNotes(ctx context.Context, notes []models.DashNote) error {
	if len(notes) == 0 {
		return nil
	}
	return r.DB(ctx).Create(&notes).Error
}

func (r *dashRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.CustomOrderDash{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return r.DB(ctx).Where("dash_id = ?", id).Delete(&models.DashNote{}).Error
}

func (r *dashRepository) CountBy(ctx context.Context, column string) (map[string]int64, error) {
	if !dashGroupColumns[column] {
		return nil, fmt.Errorf("unsupported group column %q", column)
	}
	return countBy(r.DB(ctx).Model(&models.CustomOrderDash{}), column)
}

func (r *dashRepository) SumAmounts(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	var total, paid decimal.NullDecimal
	err := r.DB(ctx).Model(&models.CustomOrderDash{}).
		Select("SUM(total_amount), SUM(amount_paid)").
		Row().Scan(&total, &paid)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return total.Decimal, paid.Decimal, nil
}
