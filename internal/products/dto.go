package product

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
)

const (
	minQuantity = 1
	maxQuantity = 50
	minRating   = 1
	maxRating   = 5
)

type CreateInput struct {
	Name            string                `json:"name" validate:"required"`
	Description     string                `json:"description"`
	Category        string                `json:"category" validate:"required"`
	BasePrice       decimal.Decimal       `json:"basePrice" validate:"dgte=0"`
	SizeMultipliers *SizeMultipliersInput `json:"sizeMultipliers,omitempty"`
	FrostingOptions []FrostingOptionInput `json:"frostingOptions" validate:"dive"`
	Ingredients     []string              `json:"ingredients"`
	Allergens       []string              `json:"allergens"`
	IsAvailable     *bool                 `json:"isAvailable,omitempty"`
	IsFeatured      bool                  `json:"isFeatured"`
}

// UpdateInput replaces only the fields that are present.
type UpdateInput struct {
	Name            *string                `json:"name,omitempty"`
	Description     *string                `json:"description,omitempty"`
	Category        *string                `json:"category,omitempty"`
	BasePrice       *decimal.Decimal       `json:"basePrice,omitempty"`
	SizeMultipliers *SizeMultipliersInput  `json:"sizeMultipliers,omitempty"`
	FrostingOptions *[]FrostingOptionInput `json:"frostingOptions,omitempty"`
	Ingredients     *[]string              `json:"ingredients,omitempty"`
	Allergens       *[]string              `json:"allergens,omitempty"`
	IsAvailable     *bool                  `json:"isAvailable,omitempty"`
	IsFeatured      *bool                  `json:"isFeatured,omitempty"`
}

type SizeMultipliersInput struct {
	Small  decimal.Decimal `json:"small"`
	Medium decimal.Decimal `json:"medium"`
	Large  decimal.Decimal `json:"large"`
	XLarge decimal.Decimal `json:"xlarge"`
}

type FrostingOptionInput struct {
	Name           string          `json:"name" validate:"required"`
	AdditionalCost decimal.Decimal `json:"additionalCost" validate:"dgte=0"`
}

type ListInput struct {
	Category  string
	Available *bool
	Featured  *bool
	Query     string
}

type QuoteInput struct {
	Size     string `json:"size" validate:"required"`
	Frosting string `json:"frosting"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=50"`
}

type RateInput struct {
	Rating int `json:"rating" validate:"required,min=1,max=5"`
}

type ProductPage struct {
	Products    []models.Product `json:"products"`
	Total       int64            `json:"total"`
	CurrentPage int              `json:"currentPage"`
	TotalPages  int              `json:"totalPages"`
}

// Quote is a priced line for one product configuration.
type Quote struct {
	ProductID    string          `json:"productId"`
	Size         enums.CakeSize  `json:"size"`
	Multiplier   decimal.Decimal `json:"multiplier"`
	Frosting     string          `json:"frosting,omitempty"`
	FrostingCost decimal.Decimal `json:"frostingCost"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	Total        decimal.Decimal `json:"total"`
}

func (in CreateInput) toModel() (*models.Product, error) {
	fields := map[string]string{}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		fields["name"] = "required"
	}
	category, err := enums.ParseProductCategory(strings.ToLower(strings.TrimSpace(in.Category)))
	if err != nil {
		fields["category"] = "must be one of cakes, cupcakes, cookies, breads, pastries, custom"
	}
	if in.BasePrice.IsNegative() {
		fields["basePrice"] = "must be zero or greater"
	}
	multipliers := buildMultipliers(fields, in.SizeMultipliers)
	frostings := buildFrostings(fields, in.FrostingOptions)
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid product").WithDetails(fields)
	}

	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	return &models.Product{
		Name:            name,
		Description:     strings.TrimSpace(in.Description),
		Category:        category,
		BasePrice:       in.BasePrice.Round(2),
		SizeMultipliers: multipliers,
		FrostingOptions: frostings,
		Ingredients:     cleanList(in.Ingredients),
		Allergens:       cleanList(in.Allergens),
		IsAvailable:     available,
		IsFeatured:      in.IsFeatured,
	}, nil
}

// apply copies the present fields of in onto product.
func (in UpdateInput) apply(product *models.Product) error {
	fields := map[string]string{}
	if in.Name != nil {
		if name := strings.TrimSpace(*in.Name); name == "" {
			fields["name"] = "must not be empty"
		} else {
			product.Name = name
		}
	}
	if in.Description != nil {
		product.Description = strings.TrimSpace(*in.Description)
	}
	if in.Category != nil {
		category, err := enums.ParseProductCategory(strings.ToLower(strings.TrimSpace(*in.Category)))
		if err != nil {
			fields["category"] = "must be one of cakes, cupcakes, cookies, breads, pastries, custom"
		} else {
			product.Category = category
		}
	}
	if in.BasePrice != nil {
		if in.BasePrice.IsNegative() {
			fields["basePrice"] = "must be zero or greater"
		} else {
			product.BasePrice = in.BasePrice.Round(2)
		}
	}
	if in.SizeMultipliers != nil {
		product.SizeMultipliers = buildMultipliers(fields, in.SizeMultipliers)
	}
	if in.FrostingOptions != nil {
		product.FrostingOptions = buildFrostings(fields, *in.FrostingOptions)
	}
	if in.Ingredients != nil {
		product.Ingredients = cleanList(*in.Ingredients)
	}
	if in.Allergens != nil {
		product.Allergens = cleanList(*in.Allergens)
	}
	if in.IsAvailable != nil {
		product.IsAvailable = *in.IsAvailable
	}
	if in.IsFeatured != nil {
		product.IsFeatured = *in.IsFeatured
	}
	if len(fields) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product update").WithDetails(fields)
	}
	return nil
}

func buildMultipliers(fields map[string]string, in *SizeMultipliersInput) models.SizeMultipliers {
	one := decimal.NewFromInt(1)
	out := models.SizeMultipliers{Small: one, Medium: one, Large: one, XLarge: one}
	if in == nil {
		return out
	}
	set := func(key string, v decimal.Decimal, dst *decimal.Decimal) {
		switch {
		case v.IsZero():
		case v.IsNegative():
			fields["sizeMultipliers."+key] = "must be greater than zero"
		default:
			*dst = v
		}
	}
	set("small", in.Small, &out.Small)
	set("medium", in.Medium, &out.Medium)
	set("large", in.Large, &out.Large)
	set("xlarge", in.XLarge, &out.XLarge)
	return out
}

func buildFrostings(fields map[string]string, in []FrostingOptionInput) []models.FrostingOption {
	out := make([]models.FrostingOption, 0, len(in))
	seen := map[string]bool{}
	for i, opt := range in {
		name := strings.TrimSpace(opt.Name)
		key := fmt.Sprintf("frostingOptions[%d]", i)
		switch {
		case name == "":
			fields[key] = "name required"
			continue
		case seen[strings.ToLower(name)]:
			fields[key] = fmt.Sprintf("duplicate frosting %q", name)
			continue
		case opt.AdditionalCost.IsNegative():
			fields[key] = "additionalCost must be zero or greater"
			continue
		}
		seen[strings.ToLower(name)] = true
		out = append(out, models.FrostingOption{Name: name, AdditionalCost: opt.AdditionalCost.Round(2)})
	}
	return out
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
