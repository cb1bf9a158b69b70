package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/enums"
)

// Product is a catalog item.
type Product struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ProductID       string                `gorm:"column:product_id;not null;uniqueIndex:uq_products_product_id" json:"productId"`
	Name            string                `gorm:"column:name;not null" json:"name"`
	Description     string                `gorm:"column:description" json:"description,omitempty"`
	Category        enums.ProductCategory `gorm:"column:category;not null;index" json:"category"`
	BasePrice       decimal.Decimal       `gorm:"column:base_price;type:numeric(12,2);not null" json:"basePrice"`
	SizeMultipliers SizeMultipliers       `gorm:"column:size_multipliers;type:jsonb;serializer:json" json:"sizeMultipliers"`
	FrostingOptions []FrostingOption      `gorm:"column:frosting_options;type:jsonb;serializer:json" json:"frostingOptions"`
	Ingredients     []string              `gorm:"column:ingredients;type:jsonb;serializer:json" json:"ingredients"`
	Allergens       []string              `gorm:"column:allergens;type:jsonb;serializer:json" json:"allergens"`
	Rating          ProductRating         `gorm:"embedded;embeddedPrefix:rating_" json:"rating"`
	IsAvailable     bool                  `gorm:"column:is_available;not null" json:"isAvailable"`
	IsFeatured      bool                  `gorm:"column:is_featured;not null" json:"isFeatured"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

// SizeMultipliers scale the base price per cake size. A zero entry means 1.
type SizeMultipliers struct {
	Small  decimal.Decimal `json:"small"`
	Medium decimal.Decimal `json:"medium"`
	Large  decimal.Decimal `json:"large"`
	XLarge decimal.Decimal `json:"xlarge"`
}

// For returns the multiplier for size, defaulting to 1.
func (m SizeMultipliers) For(size enums.CakeSize) decimal.Decimal {
	var v decimal.Decimal
	switch size {
	case enums.CakeSizeSmall:
		v = m.Small
	case enums.CakeSizeMedium:
		v = m.Medium
	case enums.CakeSizeLarge:
		v = m.Large
	case enums.CakeSizeXLarge:
		v = m.XLarge
	}
	if v.IsZero() {
		return decimal.NewFromInt(1)
	}
	return v
}

type FrostingOption struct {
	Name           string          `json:"name"`
	AdditionalCost decimal.Decimal `json:"additionalCost"`
}

type ProductRating struct {
	Average decimal.Decimal `gorm:"column:average;type:numeric(3,2);not null;default:0" json:"average"`
	Count   int             `gorm:"column:count;not null;default:0" json:"count"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	ensureID(&p.ID)
	return nil
}
