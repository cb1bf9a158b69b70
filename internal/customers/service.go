package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/internal/sequence"
	"github.com/crumbhouse/bakery-backend/pkg/db"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
	"github.com/crumbhouse/bakery-backend/pkg/validation"
)

type idAssigner interface {
	Assign(ctx context.Context, f sequence.Format, target *string)
}

// Service manages CRM profiles.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Customer, error)
	List(ctx context.Context, query string, params pagination.Params) (*CustomerPage, error)
	Get(ctx context.Context, ref string) (*models.Customer, error)
	Update(ctx context.Context, ref string, input UpdateInput) (*models.Customer, error)
	Delete(ctx context.Context, ref string) error
	AddAddress(ctx context.Context, ref string, input AddressInput) (*models.Customer, error)
	SetDefaultAddress(ctx context.Context, ref, addressID string) (*models.Customer, error)
	RecordPurchase(ctx context.Context, ref string, input PurchaseInput) (*models.Customer, error)
}

type service struct {
	repo Repository
	tx   txRunner
	ids  idAssigner
	now  func() time.Time
}

func NewService(repo Repository, tx txRunner, ids idAssigner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id allocator required")
	}
	return &service{repo: repo, tx: tx, ids: ids, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Customer, error) {
	fields := map[string]string{}
	name := strings.TrimSpace(input.Name)
	phone := strings.TrimSpace(input.Phone)
	if name == "" {
		fields["name"] = "required"
	}
	if phone == "" {
		fields["phone"] = "required"
	}
	email := normalizeEmail(fields, input.Email)
	prefs := buildPreferences(fields, input.Preferences)

	addresses := make([]models.CustomerAddress, 0, len(input.Addresses))
	defaults := 0
	for i, in := range input.Addresses {
		address, ok := buildAddress(in)
		if !ok {
			fields[fmt.Sprintf("addresses[%d]", i)] = "street and city required"
			continue
		}
		if address.IsDefault {
			defaults++
		}
		addresses = append(addresses, address)
	}
	if defaults > 1 {
		fields["addresses"] = "only one address may be the default"
	}
	if defaults == 0 && len(addresses) > 0 {
		addresses[0].IsDefault = true
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid customer").WithDetails(fields)
	}

	customer := &models.Customer{
		Name:        name,
		Phone:       phone,
		Email:       email,
		Addresses:   addresses,
		Preferences: prefs,
	}
	s.ids.Assign(ctx, sequence.CustomerFormat, &customer.CustomerID)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, customer)
		return err
	})
	if err != nil {
		return nil, mapWriteErr(err, "create customer")
	}
	return s.Get(ctx, customer.ID.String())
}

func (s *service) List(ctx context.Context, query string, params pagination.Params) (*CustomerPage, error) {
	params = params.Normalize()
	customers, total, err := s.repo.List(ctx, strings.TrimSpace(query), params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return &CustomerPage{
		Customers:   customers,
		Total:       total,
		CurrentPage: params.Page,
		TotalPages:  pagination.TotalPages(total, params.Limit),
	}, nil
}

func (s *service) Get(ctx context.Context, ref string) (*models.Customer, error) {
	return s.load(ctx, s.repo, ref)
}

func (s *service) Update(ctx context.Context, ref string, input UpdateInput) (*models.Customer, error) {
	fields := map[string]string{}
	updates := map[string]any{}
	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			fields["name"] = "must not be empty"
		} else {
			updates["name"] = strings.TrimSpace(*input.Name)
		}
	}
	if input.Phone != nil {
		if strings.TrimSpace(*input.Phone) == "" {
			fields["phone"] = "must not be empty"
		} else {
			updates["phone"] = strings.TrimSpace(*input.Phone)
		}
	}
	if input.Email != nil {
		updates["email"] = normalizeEmail(fields, input.Email)
	}
	var prefs *models.CustomerPreferences
	if input.Preferences != nil {
		built := buildPreferences(fields, *input.Preferences)
		prefs = &built
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid customer update").WithDetails(fields)
	}

	customer, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if len(updates) > 0 {
			if err := repo.Update(ctx, customer.ID, updates); err != nil {
				return err
			}
		}
		if prefs != nil {
			return repo.UpdatePreferences(ctx, customer.ID, *prefs)
		}
		return nil
	})
	if err != nil {
		return nil, mapWriteErr(err, "update customer")
	}
	return s.Get(ctx, customer.ID.String())
}

func (s *service) Delete(ctx context.Context, ref string) error {
	customer, err := s.Get(ctx, ref)
	if err != nil {
		return err
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, customer.ID)
	})
	if err != nil {
		return mapWriteErr(err, "delete customer")
	}
	return nil
}

// AddAddress appends an address. The first address, or one flagged default,
// becomes the only default.
func (s *service) AddAddress(ctx context.Context, ref string, input AddressInput) (*models.Customer, error) {
	address, ok := buildAddress(input)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "street and city required")
	}

	var customerID uuid.UUID
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customer, err := s.load(ctx, repo, ref)
		if err != nil {
			return err
		}
		customerID = customer.ID
		if len(customer.Addresses) == 0 {
			address.IsDefault = true
		}
		if address.IsDefault {
			if err := repo.ClearDefaultAddress(ctx, customer.ID); err != nil {
				return err
			}
		}
		address.CustomerID = customer.ID
		return repo.CreateAddress(ctx, &address)
	})
	if err != nil {
		return nil, mapWriteErr(err, "add address")
	}
	return s.Get(ctx, customerID.String())
}

func (s *service) SetDefaultAddress(ctx context.Context, ref, addressID string) (*models.Customer, error) {
	id, err := uuid.Parse(strings.TrimSpace(addressID))
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid address id")
	}

	var customerID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		customer, err := s.load(ctx, repo, ref)
		if err != nil {
			return err
		}
		customerID = customer.ID
		if err := repo.ClearDefaultAddress(ctx, customer.ID); err != nil {
			return err
		}
		if err := repo.MarkDefaultAddress(ctx, customer.ID, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, mapWriteErr(err, "set default address")
	}
	return s.Get(ctx, customerID.String())
}

// RecordPurchase adds one order and its amount to the profile counters,
// earning one loyalty point per whole currency unit.
func (s *service) RecordPurchase(ctx context.Context, ref string, input PurchaseInput) (*models.Customer, error) {
	if input.Amount.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be zero or greater")
	}
	customer, err := s.Get(ctx, ref)
	if err != nil {
		return nil, err
	}
	at := s.now()
	if input.At != nil && !input.At.IsZero() {
		at = *input.At
	}
	amount := input.Amount.Round(2)
	points := amount.Floor().IntPart()
	if err := s.repo.IncrementPurchase(ctx, customer.ID, amount, points, at); err != nil {
		return nil, mapWriteErr(err, "record purchase")
	}
	return s.Get(ctx, customer.ID.String())
}

func (s *service) load(ctx context.Context, repo Repository, ref string) (*models.Customer, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer reference required")
	}
	customer, err := repo.FindByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func mapWriteErr(err error, action string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
	}
	if db.IsUniqueViolation(err, "phone") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "phone number already registered")
	}
	if db.IsUniqueViolation(err, "customer_id") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "customer id already exists")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action)
}

func normalizeEmail(fields map[string]string, raw *string) *string {
	if raw == nil {
		return nil
	}
	email := strings.ToLower(strings.TrimSpace(*raw))
	if email == "" {
		return nil
	}
	if !validation.Email(email) {
		fields["email"] = "must be a valid email address"
		return nil
	}
	return &email
}

func buildPreferences(fields map[string]string, in PreferencesInput) models.CustomerPreferences {
	prefs := models.CustomerPreferences{DietaryNotes: strings.TrimSpace(in.DietaryNotes)}
	for _, raw := range in.FavoriteFlavors {
		flavor, err := enums.ParseCakeFlavor(strings.TrimSpace(raw))
		if err != nil {
			fields["preferences.favoriteFlavors"] = fmt.Sprintf("unknown flavor %q", raw)
			continue
		}
		prefs.FavoriteFlavors = append(prefs.FavoriteFlavors, flavor)
	}
	if raw := strings.TrimSpace(in.ContactChannel); raw != "" {
		channel, err := enums.ParseContactChannel(strings.ToLower(raw))
		if err != nil {
			fields["preferences.contactChannel"] = "must be one of phone, sms, email"
		}
		prefs.ContactChannel = channel
	}
	return prefs
}

func buildAddress(in AddressInput) (models.CustomerAddress, bool) {
	street := strings.TrimSpace(in.Street)
	city := strings.TrimSpace(in.City)
	if street == "" || city == "" {
		return models.CustomerAddress{}, false
	}
	return models.CustomerAddress{
		Label:      strings.TrimSpace(in.Label),
		Street:     street,
		City:       city,
		PostalCode: strings.TrimSpace(in.PostalCode),
		IsDefault:  in.IsDefault,
	}, true
}
