package product

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/internal/sequence"
	"github.com/crumbhouse/bakery-backend/pkg/db"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

type idAssigner interface {
	Assign(ctx context.Context, f sequence.Format, target *string)
}

// Service exposes catalog management, pricing and rating.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Product, error)
	List(ctx context.Context, input ListInput, params pagination.Params) (*ProductPage, error)
	Get(ctx context.Context, ref string) (*models.Product, error)
	Update(ctx context.Context, ref string, input UpdateInput) (*models.Product, error)
	Delete(ctx context.Context, ref string) error
	Quote(ctx context.Context, ref string, input QuoteInput) (*Quote, error)
	Rate(ctx context.Context, ref string, rating int) (*models.Product, error)
}

type service struct {
	repo Repository
	ids  idAssigner
}

func NewService(repo Repository, ids idAssigner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id allocator required")
	}
	return &service{repo: repo, ids: ids}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Product, error) {
	product, err := input.toModel()
	if err != nil {
		return nil, err
	}
	s.ids.Assign(ctx, sequence.ProductFormat, &product.ProductID)
	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, mapWriteErr(err, "create product")
	}
	return created, nil
}

func (s *service) List(ctx context.Context, input ListInput, params pagination.Params) (*ProductPage, error) {
	params = params.Normalize()
	filters := ListFilters{
		Available: input.Available,
		Featured:  input.Featured,
		Query:     strings.TrimSpace(input.Query),
	}
	if raw := strings.TrimSpace(input.Category); raw != "" {
		category, err := enums.ParseProductCategory(strings.ToLower(raw))
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid category filter").
				WithDetails(map[string]string{"category": err.Error()})
		}
		filters.Category = &category
	}

	products, total, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return &ProductPage{
		Products:    products,
		Total:       total,
		CurrentPage: params.Page,
		TotalPages:  pagination.TotalPages(total, params.Limit),
	}, nil
}

func (s *service) Get(ctx context.Context, ref string) (*models.Product, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product reference required")
	}
	product, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, ref string, input UpdateInput) (*models.Product, error) {
	product, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := input.apply(product); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, mapWriteErr(err, "update product")
	}
	return s.Get(ctx, product.ID.String())
}

func (s *service) Delete(ctx context.Context, ref string) error {
	product, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, product.ID); err != nil {
		return mapWriteErr(err, "delete product")
	}
	return nil
}

// Quote prices quantity units of the product: (basePrice × size multiplier +
// frosting cost) × quantity.
func (s *service) Quote(ctx context.Context, ref string, input QuoteInput) (*Quote, error) {
	fields := map[string]string{}
	size, err := enums.ParseCakeSize(strings.ToLower(strings.TrimSpace(input.Size)))
	if err != nil {
		fields["size"] = "must be one of small, medium, large, xlarge"
	}
	if input.Quantity < minQuantity || input.Quantity > maxQuantity {
		fields["quantity"] = fmt.Sprintf("must be between %d and %d", minQuantity, maxQuantity)
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid quote").WithDetails(fields)
	}

	product, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if !product.IsAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is not available")
	}

	quote := &Quote{
		ProductID:    product.ProductID,
		Size:         size,
		Multiplier:   product.SizeMultipliers.For(size),
		FrostingCost: decimal.Zero,
		Quantity:     input.Quantity,
	}
	if name := strings.TrimSpace(input.Frosting); name != "" {
		option, ok := findFrosting(product.FrostingOptions, name)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid quote").
				WithDetails(map[string]string{"frosting": fmt.Sprintf("unknown frosting %q", name)})
		}
		quote.Frosting = option.Name
		quote.FrostingCost = option.AdditionalCost
	}
	quote.UnitPrice = product.BasePrice.Mul(quote.Multiplier).Add(quote.FrostingCost).Round(2)
	quote.Total = quote.UnitPrice.Mul(decimal.NewFromInt(int64(input.Quantity))).Round(2)
	return quote, nil
}

func (s *service) Rate(ctx context.Context, ref string, rating int) (*models.Product, error) {
	if rating < minRating || rating > maxRating {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid rating").
			WithDetails(map[string]string{"rating": fmt.Sprintf("must be between %d and %d", minRating, maxRating)})
	}
	product, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddRating(ctx, product.ID, rating); err != nil {
		return nil, mapWriteErr(err, "rate product")
	}
	updated, err := s.Get(ctx, product.ID.String())
	if err != nil {
		return nil, err
	}
	updated.Rating.Average = updated.Rating.Average.Round(2)
	return updated, nil
}

func findFrosting(options []models.FrostingOption, name string) (models.FrostingOption, bool) {
	for _, opt := range options {
		if strings.EqualFold(opt.Name, name) {
			return opt, true
		}
	}
	return models.FrostingOption{}, false
}

func mapWriteErr(err error, action string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	if db.IsUniqueViolation(err, "product_id") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "product id already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}
