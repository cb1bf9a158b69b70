package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/enums"
)

// CustomOrderDash carries staff workflow metadata for a custom order. OrderID
// is a plain reference; deleting the order leaves the entry in place.
type CustomOrderDash struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID       uuid.UUID           `gorm:"column:order_id;type:uuid;not null;uniqueIndex:uq_custom_order_dash_order_id" json:"orderId"`
	Status        enums.DashStatus    `gorm:"column:status;not null;default:'pending';index" json:"status"`
	AssignedTo    string              `gorm:"column:assigned_to" json:"assignedTo,omitempty"`
	Priority      enums.DashPriority  `gorm:"column:priority;not null;default:'medium'" json:"priority"`
	Notes         []DashNote          `gorm:"foreignKey:DashID;constraint:OnDelete:CASCADE" json:"notes"`
	PaymentStatus enums.PaymentStatus `gorm:"column:payment_status;not null;default:'pending'" json:"paymentStatus"`
	AmountPaid    decimal.Decimal     `gorm:"column:amount_paid;type:numeric(12,2);not null;default:0" json:"amountPaid"`
	TotalAmount   decimal.Decimal     `gorm:"column:total_amount;type:numeric(12,2);not null" json:"totalAmount"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`

	// Order is the linked custom order, nil when it no longer exists.
	Order *CustomOrder `gorm:"-" json:"order"`
}

func (CustomOrderDash) TableName() string { return "custom_order_dash" }

func (d *CustomOrderDash) BeforeCreate(*gorm.DB) error {
	ensureID(&d.ID)
	return nil
}

// DashNote is an append-only staff note on a dashboard entry.
type DashNote struct {
	ID      uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	DashID  uuid.UUID `gorm:"column:dash_id;type:uuid;not null;index" json:"-"`
	Content string    `gorm:"column:content;not null" json:"content"`
	AddedBy string    `gorm:"column:added_by" json:"addedBy,omitempty"`
	AddedAt time.Time `gorm:"column:added_at;not null" json:"addedAt"`
}

func (DashNote) TableName() string { return "custom_order_dash_notes" }

func (n *DashNote) BeforeCreate(*gorm.DB) error {
	ensureID(&n.ID)
	if n.AddedAt.IsZero() {
		n.AddedAt = time.Now().UTC()
	}
	return nil
}
