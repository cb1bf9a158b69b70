package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/enums"
)

// Customer is a CRM profile. It is not linked to orders by foreign key.
type Customer struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID    string              `gorm:"column:customer_id;not null;uniqueIndex:uq_customers_customer_id" json:"customerId"`
	Name          string              `gorm:"column:name;not null" json:"name"`
	Phone         string              `gorm:"column:phone;not null;uniqueIndex:uq_customers_phone" json:"phone"`
	Email         *string             `gorm:"column:email" json:"email,omitempty"`
	Addresses     []CustomerAddress   `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE" json:"addresses"`
	Preferences   CustomerPreferences `gorm:"column:preferences;type:jsonb;serializer:json" json:"preferences"`
	TotalOrders   int                 `gorm:"column:total_orders;not null;default:0" json:"totalOrders"`
	TotalSpent    decimal.Decimal     `gorm:"column:total_spent;type:numeric(12,2);not null;default:0" json:"totalSpent"`
	LoyaltyPoints int                 `gorm:"column:loyalty_points;not null;default:0" json:"loyaltyPoints"`
	LastOrderAt   *time.Time          `gorm:"column:last_order_at" json:"lastOrderAt,omitempty"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

type CustomerPreferences struct {
	FavoriteFlavors []enums.CakeFlavor   `json:"favoriteFlavors,omitempty"`
	DietaryNotes    string               `json:"dietaryNotes,omitempty"`
	ContactChannel  enums.ContactChannel `json:"contactChannel,omitempty"`
}

type CustomerAddress struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CustomerID uuid.UUID `gorm:"column:customer_id;type:uuid;not null;index" json:"-"`
	Label      string    `gorm:"column:label" json:"label,omitempty"`
	Street     string    `gorm:"column:street;not null" json:"street"`
	City       string    `gorm:"column:city;not null" json:"city"`
	PostalCode string    `gorm:"column:postal_code" json:"postalCode,omitempty"`
	IsDefault  bool      `gorm:"column:is_default;not null" json:"isDefault"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}

func (a *CustomerAddress) BeforeCreate(*gorm.DB) error {
	ensureID(&a.ID)
	return nil
}
