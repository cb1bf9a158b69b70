package product

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/internal/repo"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

type repository struct {
	repo.Base
}

// NewRepository builds a product repository bound to db.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

func (r *repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.DB(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repository) FindByRef(ctx context.Context, ref string) (*models.Product, error) {
	var product models.Product
	if err := r.DB(ctx).Scopes(repo.ByRef(ref, "product_id")).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) List(ctx context.Context, filters ListFilters, params pagination.Params) ([]models.Product, int64, error) {
	q := r.DB(ctx).Model(&models.Product{})
	if filters.Category != nil {
		q = q.Where("category = ?", *filters.Category)
	}
	if filters.Available != nil {
		q = q.Where("is_available = ?", *filters.Available)
	}
	if filters.Featured != nil {
		q = q.Where("is_featured = ?", *filters.Featured)
	}
	if filters.Query != "" {
		pattern := repo.ContainsPattern(filters.Query)
		q = q.Where("LOWER(name) LIKE ? "+repo.LikeEscape+" OR LOWER(product_id) LIKE ? "+repo.LikeEscape, pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	products := []models.Product{}
	err := q.
		Scopes(repo.Page(params)).
		Order("is_featured DESC").
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// Update writes every mutable column of product, including zero values.
func (r *repository) Update(ctx context.Context, product *models.Product) error {
	res := r.DB(ctx).
		Model(product).
		Select("name", "description", "category", "base_price", "size_multipliers",
			"frosting_options", "ingredients", "allergens", "is_available", "is_featured", "updated_at").
		Updates(product)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.DB(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// AddRating folds rating into the running average. Average and count move
// together in one statement.
func (r *repository) AddRating(ctx context.Context, id uuid.UUID, rating int) error {
	res := r.DB(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rating_average": gorm.Expr("ROUND((rating_average * rating_count + ?) * 1.0 / (rating_count + 1), 2)", rating),
			"rating_count":   gorm.Expr("rating_count + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
