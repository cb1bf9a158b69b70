package orders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	internalorders "github.com/crumbhouse/bakery-backend/internal/orders"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/logger"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

type stubService struct {
	create       func(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error)
	get          func(ctx context.Context, ref string) (*models.Order, error)
	list         func(ctx context.Context, params pagination.Params, status string) (*internalorders.OrderPage, error)
	search       func(ctx context.Context, input internalorders.SearchInput) ([]models.Order, error)
	stats        func(ctx context.Context) (*internalorders.Stats, error)
	updateStatus func(ctx context.Context, ref, status string) (*models.Order, error)
	cancel       func(ctx context.Context, ref string) (*models.Order, error)
	del          func(ctx context.Context, ref string) (*models.Order, error)
}

func (s *stubService) Create(ctx context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
	return s.create(ctx, input)
}

func (s *stubService) Get(ctx context.Context, ref string) (*models.Order, error) {
	return s.get(ctx, ref)
}

func (s *stubService) List(ctx context.Context, params pagination.Params, status string) (*internalorders.OrderPage, error) {
	return s.list(ctx, params, status)
}

func (s *stubService) Search(ctx context.Context, input internalorders.SearchInput) ([]models.Order, error) {
	return s.search(ctx, input)
}

func (s *stubService) Stats(ctx context.Context) (*internalorders.Stats, error) {
	return s.stats(ctx)
}

func (s *stubService) UpdateStatus(ctx context.Context, ref, status string) (*models.Order, error) {
	return s.updateStatus(ctx, ref, status)
}

func (s *stubService) Cancel(ctx context.Context, ref string) (*models.Order, error) {
	return s.cancel(ctx, ref)
}

func (s *stubService) Delete(ctx context.Context, ref string) (*models.Order, error) {
	return s.del(ctx, ref)
}

func withRef(req *http.Request, ref string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("ref", ref)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const checkoutBody = `{
	"customer": {"name": "Ana", "phone": "555-1234", "address": "1 Elm"},
	"item": {"name": "Ube Cake", "size": "large", "quantity": 50},
	"delivery": {"date": "2099-01-01", "time": "morning"},
	"payment": {"subtotal": "100", "tax": "12", "deliveryFee": "5", "total": "117"}
}`

func TestCheckoutReturnsCreatedOrder(t *testing.T) {
	var got internalorders.CreateOrderInput
	svc := &stubService{create: func(_ context.Context, input internalorders.CreateOrderInput) (*models.Order, error) {
		got = input
		return &models.Order{ID: uuid.New(), OrderID: "ORD0001", Status: enums.OrderStatusPreparing}, nil
	}}

	rec := httptest.NewRecorder()
	Checkout(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(checkoutBody)))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ORD0001", body["order"].(map[string]any)["orderId"])
	assert.Equal(t, 50, got.Item.Quantity)
	assert.Equal(t, "117", got.Payment.Total.String())
}

func TestCheckoutRejectsQuantityAboveFiftyBeforeService(t *testing.T) {
	svc := &stubService{create: func(context.Context, internalorders.CreateOrderInput) (*models.Order, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}
	payload := strings.Replace(checkoutBody, `"quantity": 50`, `"quantity": 51`, 1)

	rec := httptest.NewRecorder()
	Checkout(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(payload)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body["details"], "item.quantity")
}

func TestCheckoutRejectsNegativeTotal(t *testing.T) {
	svc := &stubService{}
	payload := strings.Replace(checkoutBody, `"total": "117"`, `"total": "-1"`, 1)

	rec := httptest.NewRecorder()
	Checkout(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/orders", strings.NewReader(payload)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListPassesPaginationAndStatus(t *testing.T) {
	var gotParams pagination.Params
	var gotStatus string
	svc := &stubService{list: func(_ context.Context, params pagination.Params, status string) (*internalorders.OrderPage, error) {
		gotParams, gotStatus = params, status
		return &internalorders.OrderPage{Orders: []models.Order{}, TotalOrders: 23, CurrentPage: 2, TotalPages: 3}, nil
	}}

	rec := httptest.NewRecorder()
	List(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/orders?page=2&limit=10&status=Delivered", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, pagination.Params{Page: 2, Limit: 10}, gotParams)
	assert.Equal(t, "Delivered", gotStatus)
	body := decode(t, rec)
	assert.Equal(t, float64(23), body["totalOrders"])
	assert.Equal(t, float64(2), body["currentPage"])
	assert.Equal(t, float64(3), body["totalPages"])
	assert.NotNil(t, body["orders"])

	rec = httptest.NewRecorder()
	List(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/orders?limit=abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchReturnsCount(t *testing.T) {
	var got internalorders.SearchInput
	svc := &stubService{search: func(_ context.Context, input internalorders.SearchInput) ([]models.Order, error) {
		got = input
		return []models.Order{{OrderID: "ORD0001"}, {OrderID: "ORD0002"}}, nil
	}}

	rec := httptest.NewRecorder()
	Search(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/search?query=555&startDate=2026-10-01&endDate=2026-10-16", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "555", got.Query)
	assert.Equal(t, "2026-10-01", got.StartDate)
	body := decode(t, rec)
	assert.Equal(t, float64(2), body["count"])
	assert.Len(t, body["orders"], 2)
}

func TestStatsEnvelope(t *testing.T) {
	svc := &stubService{stats: func(context.Context) (*internalorders.Stats, error) {
		return &internalorders.Stats{TotalOrders: 4}, nil
	}}
	rec := httptest.NewRecorder()
	Stats(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, float64(4), body["stats"].(map[string]any)["totalOrders"])
}

func TestUpdateStatusMapsServiceErrors(t *testing.T) {
	svc := &stubService{updateStatus: func(_ context.Context, ref, status string) (*models.Order, error) {
		if ref == "ORD9999" {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		if status != "Delivered" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status")
		}
		return &models.Order{OrderID: ref, Status: enums.OrderStatusDelivered}, nil
	}}
	handler := UpdateStatus(svc, logger.Nop())

	cases := []struct {
		ref, body string
		want      int
	}{
		{"ORD0001", `{"status":"Delivered"}`, http.StatusOK},
		{"ORD0001", `{"status":"Baking"}`, http.StatusBadRequest},
		{"ORD0001", `{}`, http.StatusBadRequest},
		{"ORD9999", `{"status":"Delivered"}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := withRef(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(tc.body)), tc.ref)
		handler.ServeHTTP(rec, req)
		assert.Equal(t, tc.want, rec.Code, tc.body)
	}
}

func TestCancelAndDelete(t *testing.T) {
	svc := &stubService{
		cancel: func(_ context.Context, ref string) (*models.Order, error) {
			return &models.Order{OrderID: ref, Status: enums.OrderStatusCancelled}, nil
		},
		del: func(_ context.Context, ref string) (*models.Order, error) {
			return &models.Order{OrderID: ref}, nil
		},
	}

	rec := httptest.NewRecorder()
	Cancel(svc, logger.Nop()).ServeHTTP(rec, withRef(httptest.NewRequest(http.MethodPatch, "/", nil), "ORD0003"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Cancelled", decode(t, rec)["order"].(map[string]any)["status"])

	rec = httptest.NewRecorder()
	Delete(svc, logger.Nop()).ServeHTTP(rec, withRef(httptest.NewRequest(http.MethodDelete, "/", nil), "ORD0003"))
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "Order deleted successfully", body["message"])
	assert.Equal(t, "ORD0003", body["deletedOrder"].(map[string]any)["orderId"])
}

func TestDetailRequiresRef(t *testing.T) {
	rec := httptest.NewRecorder()
	Detail(&stubService{}, logger.Nop()).ServeHTTP(rec, withRef(httptest.NewRequest(http.MethodGet, "/", nil), " "))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
