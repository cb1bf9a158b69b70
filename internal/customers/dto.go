package customers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/crumbhouse/bakery-backend/pkg/db/models"
)

type CreateInput struct {
	Name        string           `json:"name" validate:"required"`
	Phone       string           `json:"phone" validate:"required"`
	Email       *string          `json:"email,omitempty" validate:"omitempty,email"`
	Addresses   []AddressInput   `json:"addresses" validate:"dive"`
	Preferences PreferencesInput `json:"preferences"`
}

// UpdateInput is a partial profile update. Addresses change through the
// address endpoints.
type UpdateInput struct {
	Name        *string           `json:"name,omitempty"`
	Phone       *string           `json:"phone,omitempty"`
	Email       *string           `json:"email,omitempty" validate:"omitempty,email"`
	Preferences *PreferencesInput `json:"preferences,omitempty"`
}

type AddressInput struct {
	Label      string `json:"label"`
	Street     string `json:"street" validate:"required"`
	City       string `json:"city" validate:"required"`
	PostalCode string `json:"postalCode"`
	IsDefault  bool   `json:"isDefault"`
}

type PreferencesInput struct {
	FavoriteFlavors []string `json:"favoriteFlavors"`
	DietaryNotes    string   `json:"dietaryNotes"`
	ContactChannel  string   `json:"contactChannel"`
}

// PurchaseInput records a completed sale against the profile.
type PurchaseInput struct {
	Amount decimal.Decimal `json:"amount" validate:"dgte=0"`
	At     *time.Time      `json:"at,omitempty"`
}

type CustomerPage struct {
	Customers   []models.Customer `json:"customers"`
	Total       int64             `json:"total"`
	CurrentPage int               `json:"currentPage"`
	TotalPages  int               `json:"totalPages"`
}
