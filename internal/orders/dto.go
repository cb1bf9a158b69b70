package orders

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/types"
)

const (
	minQuantity = 1
	maxQuantity = 50
	// SearchLimit caps dashboard search results.
	SearchLimit = 100
	statsMonths = 6
)

// CreateOrderInput is the checkout payload for a standard order.
type CreateOrderInput struct {
	Customer CustomerInput `json:"customer" validate:"required"`
	Item     ItemInput     `json:"item" validate:"required"`
	Delivery DeliveryInput `json:"delivery" validate:"required"`
	Payment  PaymentInput  `json:"payment" validate:"required"`
}

type CustomerInput struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address" validate:"required"`
}

type ItemInput struct {
	Name     string `json:"name" validate:"required"`
	Size     string `json:"size" validate:"required,oneof=small medium large"`
	Quantity int    `json:"quantity" validate:"required,min=1,max=50"`
	Frosting string `json:"frosting"`
}

type DeliveryInput struct {
	Date         types.Date `json:"date"`
	Time         string     `json:"time" validate:"required,oneof=morning afternoon evening"`
	Instructions string     `json:"instructions"`
}

type PaymentInput struct {
	Subtotal    decimal.Decimal `json:"subtotal" validate:"dgte=0"`
	Tax         decimal.Decimal `json:"tax" validate:"dgte=0"`
	DeliveryFee decimal.Decimal `json:"deliveryFee" validate:"dgte=0"`
	Total       decimal.Decimal `json:"total" validate:"dgte=0"`
}

// toModel validates the input against now and maps it onto a new order.
func (in CreateOrderInput) toModel(now time.Time) (*models.Order, error) {
	fields := map[string]string{}
	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			fields[field] = "required"
		}
	}
	require("customer.name", in.Customer.Name)
	require("customer.phone", in.Customer.Phone)
	require("customer.address", in.Customer.Address)
	require("item.name", in.Item.Name)

	size, err := enums.ParseItemSize(strings.TrimSpace(in.Item.Size))
	if err != nil {
		fields["item.size"] = "must be one of small, medium, large"
	}
	if in.Item.Quantity < minQuantity || in.Item.Quantity > maxQuantity {
		fields["item.quantity"] = "must be between 1 and 50"
	}
	slot, err := enums.ParseDeliveryTime(strings.TrimSpace(in.Delivery.Time))
	if err != nil {
		fields["delivery.time"] = "must be one of morning, afternoon, evening"
	}
	switch {
	case in.Delivery.Date.IsZero():
		fields["delivery.date"] = "required"
	case !in.Delivery.Date.After(now):
		fields["delivery.date"] = "must be in the future"
	}

	money := map[string]decimal.Decimal{
		"payment.subtotal":    in.Payment.Subtotal,
		"payment.tax":         in.Payment.Tax,
		"payment.deliveryFee": in.Payment.DeliveryFee,
		"payment.total":       in.Payment.Total,
	}
	for field, amount := range money {
		if amount.IsNegative() {
			fields[field] = "must be zero or greater"
		}
	}

	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order").WithDetails(fields)
	}

	return &models.Order{
		Customer: models.OrderCustomer{
			Name:    strings.TrimSpace(in.Customer.Name),
			Phone:   strings.TrimSpace(in.Customer.Phone),
			Address: strings.TrimSpace(in.Customer.Address),
		},
		Item: models.OrderItem{
			Name:     strings.TrimSpace(in.Item.Name),
			Size:     size,
			Quantity: in.Item.Quantity,
			Frosting: strings.TrimSpace(in.Item.Frosting),
		},
		Delivery: models.OrderDelivery{
			Date:         in.Delivery.Date.Time,
			Time:         slot,
			Instructions: strings.TrimSpace(in.Delivery.Instructions),
		},
		Payment: models.OrderPayment{
			Subtotal:    in.Payment.Subtotal.Round(2),
			Tax:         in.Payment.Tax.Round(2),
			DeliveryFee: in.Payment.DeliveryFee.Round(2),
			Total:       in.Payment.Total.Round(2),
		},
		Status: enums.OrderStatusPreparing,
	}, nil
}

// SearchInput carries raw dashboard search parameters.
type SearchInput struct {
	Query     string
	Status    string
	StartDate string
	EndDate   string
}

// OrderPage is one page of the dashboard order list.
type OrderPage struct {
	Orders      []models.Order `json:"orders"`
	TotalOrders int64          `json:"totalOrders"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
}

// Stats aggregates the dashboard overview.
type Stats struct {
	StatusCounts map[enums.OrderStatus]int64 `json:"statusCounts"`
	TotalOrders  int64                       `json:"totalOrders"`
	Revenue      RevenueStats                `json:"revenue"`
}

type RevenueStats struct {
	Total   decimal.Decimal  `json:"total"`
	Today   decimal.Decimal  `json:"today"`
	Monthly []MonthlyRevenue `json:"monthly"`
}

type MonthlyRevenue struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int64           `json:"orders"`
}

// StatusChange is the payload of order.status_changed.
type StatusChange struct {
	ID      string            `json:"id"`
	OrderID string            `json:"orderId"`
	From    enums.OrderStatus `json:"from"`
	To      enums.OrderStatus `json:"to"`
}
