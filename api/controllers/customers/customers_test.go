package customers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crumbhouse/bakery-backend/internal/customers"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/logger"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

type stubService struct {
	create         func(ctx context.Context, input customers.CreateInput) (*models.Customer, error)
	list           func(ctx context.Context, query string, params pagination.Params) (*customers.CustomerPage, error)
	get            func(ctx context.Context, ref string) (*models.Customer, error)
	update         func(ctx context.Context, ref string, input customers.UpdateInput) (*models.Customer, error)
	del            func(ctx context.Context, ref string) error
	addAddress     func(ctx context.Context, ref string, input customers.AddressInput) (*models.Customer, error)
	setDefault     func(ctx context.Context, ref, addressID string) (*models.Customer, error)
	recordPurchase func(ctx context.Context, ref string, input customers.PurchaseInput) (*models.Customer, error)
}

func (s *stubService) Create(ctx context.Context, input customers.CreateInput) (*models.Customer, error) {
	return s.create(ctx, input)
}

func (s *stubService) List(ctx context.Context, query string, params pagination.Params) (*customers.CustomerPage, error) {
	return s.list(ctx, query, params)
}

func (s *stubService) Get(ctx context.Context, ref string) (*models.Customer, error) {
	return s.get(ctx, ref)
}

func (s *stubService) Update(ctx context.Context, ref string, input customers.UpdateInput) (*models.Customer, error) {
	return s.update(ctx, ref, input)
}

func (s *stubService) Delete(ctx context.Context, ref string) error { return s.del(ctx, ref) }

func (s *stubService) AddAddress(ctx context.Context, ref string, input customers.AddressInput) (*models.Customer, error) {
	return s.addAddress(ctx, ref, input)
}

func (s *stubService) SetDefaultAddress(ctx context.Context, ref, addressID string) (*models.Customer, error) {
	return s.setDefault(ctx, ref, addressID)
}

func (s *stubService) RecordPurchase(ctx context.Context, ref string, input customers.PurchaseInput) (*models.Customer, error) {
	return s.recordPurchase(ctx, ref, input)
}

func withParams(req *http.Request, kv ...string) *http.Request {
	rc := chi.NewRouteContext()
	for i := 0; i+1 < len(kv); i += 2 {
		rc.URLParams.Add(kv[i], kv[i+1])
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestListSearchesAndPaginates(t *testing.T) {
	var gotQuery string
	var gotParams pagination.Params
	svc := &stubService{list: func(_ context.Context, query string, params pagination.Params) (*customers.CustomerPage, error) {
		gotQuery, gotParams = query, params
		return &customers.CustomerPage{Customers: []models.Customer{{CustomerID: "CUST0001"}}, Total: 1, CurrentPage: 1, TotalPages: 1}, nil
	}}

	rec := httptest.NewRecorder()
	List(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/customers?q=555&limit=5", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "555", gotQuery)
	assert.Equal(t, pagination.Params{Page: 1, Limit: 5}, gotParams)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["total"])
	assert.Len(t, body["customers"], 1)
}

func TestCreateValidatesAddresses(t *testing.T) {
	svc := &stubService{create: func(_ context.Context, input customers.CreateInput) (*models.Customer, error) {
		return &models.Customer{CustomerID: "CUST0001", Name: input.Name}, nil
	}}
	handler := Create(svc, logger.Nop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana","phone":"555-1","addresses":[{"street":"1 Elm","city":"Quezon"}]}`)))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "CUST0001", decode(t, rec)["data"].(map[string]any)["customerId"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana","phone":"555-1","addresses":[{"street":"1 Elm"}]}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["details"], "addresses[0].city")
}

func TestCreateMapsDuplicatePhone(t *testing.T) {
	svc := &stubService{create: func(context.Context, customers.CreateInput) (*models.Customer, error) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "phone already registered")
	}}
	rec := httptest.NewRecorder()
	Create(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Ana","phone":"555-1"}`)))
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSetDefaultAddressReadsBothParams(t *testing.T) {
	addressID := uuid.NewString()
	svc := &stubService{setDefault: func(_ context.Context, ref, id string) (*models.Customer, error) {
		assert.Equal(t, "CUST0002", ref)
		assert.Equal(t, addressID, id)
		return &models.Customer{CustomerID: ref}, nil
	}}

	rec := httptest.NewRecorder()
	req := withParams(httptest.NewRequest(http.MethodPatch, "/", nil), "ref", "CUST0002", "addressId", addressID)
	SetDefaultAddress(svc, logger.Nop()).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	SetDefaultAddress(svc, logger.Nop()).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodPatch, "/", nil), "ref", "CUST0002"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordPurchaseRejectsNegativeAmount(t *testing.T) {
	var got customers.PurchaseInput
	svc := &stubService{recordPurchase: func(_ context.Context, ref string, input customers.PurchaseInput) (*models.Customer, error) {
		got = input
		return &models.Customer{CustomerID: ref, TotalOrders: 1, TotalSpent: input.Amount, LoyaltyPoints: int(input.Amount.IntPart())}, nil
	}}
	handler := RecordPurchase(svc, logger.Nop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"249.99"}`)), "ref", "CUST0003"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, got.Amount.Equal(decimal.RequireFromString("249.99")))
	assert.Equal(t, float64(249), decode(t, rec)["data"].(map[string]any)["loyaltyPoints"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"amount":"-5"}`)), "ref", "CUST0003"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddAddressAndDelete(t *testing.T) {
	svc := &stubService{
		addAddress: func(_ context.Context, ref string, input customers.AddressInput) (*models.Customer, error) {
			return &models.Customer{CustomerID: ref, Addresses: []models.CustomerAddress{{Street: input.Street, City: input.City, IsDefault: true}}}, nil
		},
		del: func(context.Context, string) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		},
	}

	rec := httptest.NewRecorder()
	AddAddress(svc, logger.Nop()).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"street":"2 Oak","city":"Manila"}`)), "ref", "CUST0001"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	Delete(svc, logger.Nop()).ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodDelete, "/", nil), "ref", "CUST0404"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateRejectsDisplayNameEmail(t *testing.T) {
	called := false
	svc := &stubService{update: func(_ context.Context, ref string, input customers.UpdateInput) (*models.Customer, error) {
		called = true
		return &models.Customer{CustomerID: ref, Email: input.Email}, nil
	}}
	handler := Update(svc, logger.Nop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"email":"Rosa Cruz <rosa@example.com>"}`)), "ref", "CUST0001"))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["details"], "email")
	assert.False(t, called)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withParams(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"email":"rosa@example.com"}`)), "ref", "CUST0001"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
