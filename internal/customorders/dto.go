package customorders

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/types"
	"github.com/crumbhouse/bakery-backend/pkg/validation"
)

// MaxImageBytes bounds the decoded reference image.
const MaxImageBytes = 2 << 20

// CreateInput is the public custom cake request form.
type CreateInput struct {
	Customer    CustomerInput `json:"customer" validate:"required"`
	ReleaseDate types.Date    `json:"releaseDate"`
	Cake        CakeInput     `json:"cake" validate:"required"`
	Design      DesignInput   `json:"design"`
}

type CustomerInput struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Address string `json:"address"`
}

type CakeInput struct {
	Size       string `json:"size" validate:"required"`
	Flavor     string `json:"flavor" validate:"required"`
	Filling    string `json:"filling" validate:"required"`
	Faculty    string `json:"faculty"`
	Addons     string `json:"addons"`
	Exclusions string `json:"exclusions"`
}

type DesignInput struct {
	Theme       string `json:"theme"`
	Colors      string `json:"colors"`
	Inscription string `json:"inscription"`
	Image       string `json:"image"`
}

func (in CreateInput) toModel(now time.Time) (*models.CustomOrder, error) {
	fields := map[string]string{}
	require := func(field, value string) {
		if strings.TrimSpace(value) == "" {
			fields[field] = "required"
		}
	}
	require("customer.name", in.Customer.Name)
	require("customer.phone", in.Customer.Phone)
	if strings.TrimSpace(in.Customer.Email) == "" {
		fields["customer.email"] = "required"
	} else if !validation.Email(in.Customer.Email) {
		fields["customer.email"] = "must be a valid email address"
	}

	switch {
	case in.ReleaseDate.IsZero():
		fields["releaseDate"] = "required"
	case in.ReleaseDate.Before(types.StartOfDay(now)):
		fields["releaseDate"] = "must be today or later"
	}

	size, err := enums.ParseCakeSize(strings.TrimSpace(in.Cake.Size))
	if err != nil {
		fields["cake.size"] = "must be one of small, medium, large, xlarge"
	}
	flavor, err := enums.ParseCakeFlavor(strings.TrimSpace(in.Cake.Flavor))
	if err != nil {
		fields["cake.flavor"] = "unknown flavor"
	}
	filling, err := enums.ParseCakeFilling(strings.TrimSpace(in.Cake.Filling))
	if err != nil {
		fields["cake.filling"] = "unknown filling"
	}

	image := strings.TrimSpace(in.Design.Image)
	if image != "" {
		if msg := checkImage(image); msg != "" {
			fields["design.image"] = msg
		}
	}

	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid custom order").WithDetails(fields)
	}

	release := in.ReleaseDate.In(time.Local)
	return &models.CustomOrder{
		Customer: models.CustomOrderCustomer{
			Name:    strings.TrimSpace(in.Customer.Name),
			Phone:   strings.TrimSpace(in.Customer.Phone),
			Email:   strings.ToLower(strings.TrimSpace(in.Customer.Email)),
			Address: strings.TrimSpace(in.Customer.Address),
		},
		ReleaseDate: time.Date(release.Year(), release.Month(), release.Day(), 0, 0, 0, 0, time.Local),
		Cake: models.CakeSpec{
			Size:       size,
			Flavor:     flavor,
			Filling:    filling,
			Faculty:    strings.TrimSpace(in.Cake.Faculty),
			Addons:     strings.TrimSpace(in.Cake.Addons),
			Exclusions: strings.TrimSpace(in.Cake.Exclusions),
		},
		Design: models.CakeDesign{
			Theme:       strings.TrimSpace(in.Design.Theme),
			Colors:      strings.TrimSpace(in.Design.Colors),
			Inscription: strings.TrimSpace(in.Design.Inscription),
			Image:       image,
		},
		Status: enums.CustomOrderStatusPending,
		Price:  decimal.Zero,
	}, nil
}

// checkImage accepts raw base64 or a data URL and returns a problem description.
func checkImage(image string) string {
	payload := image
	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return "must be a base64 data URL"
		}
		payload = payload[comma+1:]
	}
	if base64.StdEncoding.DecodedLen(len(payload)) > MaxImageBytes+2 {
		return "must not exceed 2 MiB"
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "must be base64 encoded"
	}
	if len(decoded) > MaxImageBytes {
		return "must not exceed 2 MiB"
	}
	return ""
}

// StatusInput is the staff review decision on a custom order.
type StatusInput struct {
	Status string           `json:"status" validate:"required"`
	Price  *decimal.Decimal `json:"price,omitempty"`
}

// CreateDashInput opens a dashboard entry for a custom order.
type CreateDashInput struct {
	OrderID       string           `json:"orderId" validate:"required"`
	Status        string           `json:"status"`
	AssignedTo    string           `json:"assignedTo"`
	Priority      string           `json:"priority"`
	Notes         []NoteInput      `json:"notes" validate:"dive"`
	PaymentStatus string           `json:"paymentStatus"`
	AmountPaid    *decimal.Decimal `json:"amountPaid"`
	TotalAmount   *decimal.Decimal `json:"totalAmount" validate:"required"`
}

type NoteInput struct {
	Content string `json:"content" validate:"required"`
	AddedBy string `json:"addedBy"`
}

// UpdateDashInput changes workflow fields. Nil fields are left untouched and
// notes are appended.
type UpdateDashInput struct {
	Status        *string          `json:"status,omitempty"`
	AssignedTo    *string          `json:"assignedTo,omitempty"`
	Priority      *string          `json:"priority,omitempty"`
	Notes         []NoteInput      `json:"notes,omitempty" validate:"omitempty,dive"`
	PaymentStatus *string          `json:"paymentStatus,omitempty"`
	AmountPaid    *decimal.Decimal `json:"amountPaid,omitempty"`
}

// DashStats summarises the custom order workflow.
type DashStats struct {
	TotalEntries    int64                             `json:"totalEntries"`
	ByStatus        map[enums.DashStatus]int64        `json:"byStatus"`
	ByPriority      map[enums.DashPriority]int64      `json:"byPriority"`
	ByPaymentStatus map[enums.PaymentStatus]int64     `json:"byPaymentStatus"`
	TotalAmount     decimal.Decimal                   `json:"totalAmount"`
	AmountPaid      decimal.Decimal                   `json:"amountPaid"`
	Outstanding     decimal.Decimal                   `json:"outstanding"`
	Orders          map[enums.CustomOrderStatus]int64 `json:"orders"`
}

// StatusChange is the payload of custom_order.status_changed.
type StatusChange struct {
	ID        string                  `json:"id"`
	RequestID string                  `json:"requestId"`
	From      enums.CustomOrderStatus `json:"from"`
	To        enums.CustomOrderStatus `json:"to"`
	Source    string                  `json:"source"`
}
