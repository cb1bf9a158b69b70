package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/pkg/enums"
)

// Order is a standard catalog cake order placed at checkout.
type Order struct {
	ID        uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderID   string            `gorm:"column:order_id;not null;uniqueIndex:uq_orders_order_id" json:"orderId"`
	Customer  OrderCustomer     `gorm:"embedded;embeddedPrefix:customer_" json:"customer"`
	Item      OrderItem         `gorm:"embedded;embeddedPrefix:item_" json:"item"`
	Delivery  OrderDelivery     `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery"`
	Payment   OrderPayment      `gorm:"embedded;embeddedPrefix:payment_" json:"payment"`
	Status    enums.OrderStatus `gorm:"column:status;not null;default:'Preparing';index" json:"status"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

type OrderCustomer struct {
	Name    string `gorm:"column:name;not null" json:"name"`
	Phone   string `gorm:"column:phone;not null" json:"phone"`
	Address string `gorm:"column:address;not null" json:"address"`
}

type OrderItem struct {
	Name     string         `gorm:"column:name;not null" json:"name"`
	Size     enums.ItemSize `gorm:"column:size;not null" json:"size"`
	Quantity int            `gorm:"column:quantity;not null" json:"quantity"`
	Frosting string         `gorm:"column:frosting" json:"frosting,omitempty"`
}

type OrderDelivery struct {
	Date         time.Time          `gorm:"column:date;not null" json:"date"`
	Time         enums.DeliveryTime `gorm:"column:time;not null" json:"time"`
	Instructions string             `gorm:"column:instructions" json:"instructions,omitempty"`
}

type OrderPayment struct {
	Subtotal    decimal.Decimal `gorm:"column:subtotal;type:numeric(12,2);not null" json:"subtotal"`
	Tax         decimal.Decimal `gorm:"column:tax;type:numeric(12,2);not null" json:"tax"`
	DeliveryFee decimal.Decimal `gorm:"column:delivery_fee;type:numeric(12,2);not null" json:"deliveryFee"`
	Total       decimal.Decimal `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	ensureID(&o.ID)
	return nil
}
