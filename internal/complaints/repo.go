package complaints

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/internal/repo"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
)

// Repository persists customer complaints.
type Repository interface {
	Create(ctx context.Context, complaint *models.Complaint) (*models.Complaint, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error)
	List(ctx context.Context, status *enums.ComplaintStatus) ([]models.Complaint, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ComplaintStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) Create(ctx context.Context, complaint *models.Complaint) (*models.Complaint, error) {
	if err := r.DB(ctx).Create(complaint).Error; err != nil {
		return nil, err
	}
	return complaint, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Complaint, error) {
	var complaint models.Complaint
	if err := r.DB(ctx).Where("id = ?", id).First(&complaint).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *repository) List(ctx context.Context, status *enums.ComplaintStatus) ([]models.Complaint, error) {
	query := r.DB(ctx).Model(&models.Complaint{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	complaints := []models.Complaint{}
	if err := query.Order("created_at DESC").Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.ComplaintStatus) error {
	res := r.DB(ctx).Model(&models.Complaint{}).
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
	res := r.DB(ctx).Where("id = ?", id).Delete(&models.Complaint{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
