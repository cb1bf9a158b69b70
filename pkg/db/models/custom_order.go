package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/enums"
)

// CustomOrder is a bespoke cake request reviewed by staff before pricing.
type CustomOrder struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	RequestID   string                  `gorm:"column:request_id;not null;uniqueIndex:uq_custom_orders_request_id" json:"requestId"`
	Customer    CustomOrderCustomer     `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	ReleaseDate time.Time               `gorm:"column:release_date;type:date;not null" json:"releaseDate"`
	Cake        CakeSpec                `gorm:"embedded;embeddedPrefix:cake_" json:"cake"`
	Design      CakeDesign              `gorm:"embedded;embeddedPrefix:design_" json:"design"`
	Status      enums.CustomOrderStatus `gorm:"column:status;not null;default:'pending';index" json:"status"`
	Price       decimal.Decimal         `gorm:"column:price;type:numeric(12,2);not null;default:0" json:"price"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

type CustomOrderCustomer struct {
	Name    string `gorm:"column:name;not null" json:"name"`
	Phone   string `gorm:"column:phone;not null" json:"phone"`
	Email   string `gorm:"column:email;not null" json:"email"`
	Address string `gorm:"column:address" json:"address,omitempty"`
}

type CakeSpec struct {
	Size       enums.CakeSize    `gorm:"column:size;not null" json:"size"`
	Flavor     enums.CakeFlavor  `gorm:"column:flavor;not null" json:"flavor"`
	Filling    enums.CakeFilling `gorm:"column:filling;not null" json:"filling"`
	Faculty    string            `gorm:"column:faculty" json:"faculty,omitempty"`
	Addons     string            `gorm:"column:addons" json:"addons,omitempty"`
	Exclusions string            `gorm:"column:exclusions" json:"exclusions,omitempty"`
}

type CakeDesign struct {
	Theme       string `gorm:"column:theme" json:"theme,omitempty"`
	Colors      string `gorm:"column:colors" json:"colors,omitempty"`
	Inscription string `gorm:"column:inscription" json:"inscription,omitempty"`
	// Image is a base64 encoded reference picture.
	Image string `gorm:"column:image" json:"image,omitempty"`
}

func (c *CustomOrder) BeforeCreate(*gorm.DB) error {
	ensureID(&c.ID)
	return nil
}
