package products

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	product "github.com/crumbhouse/bakery-backend/internal/products"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/logger"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
)

type stubService struct {
	create func(ctx context.Context, input product.CreateInput) (*models.Product, error)
	list   func(ctx context.Context, input product.ListInput, params pagination.Params) (*product.ProductPage, error)
	get    func(ctx context.Context, ref string) (*models.Product, error)
	update func(ctx context.Context, ref string, input product.UpdateInput) (*models.Product, error)
	del    func(ctx context.Context, ref string) error
	quote  func(ctx context.Context, ref string, input product.QuoteInput) (*product.Quote, error)
	rate   func(ctx context.Context, ref string, rating int) (*models.Product, error)
}

func (s *stubService) Create(ctx context.Context, input product.CreateInput) (*models.Product, error) {
	return s.create(ctx, input)
}

func (s *stubService) List(ctx context.Context, input product.ListInput, params pagination.Params) (*product.ProductPage, error) {
	return s.list(ctx, input, params)
}

func (s *stubService) Get(ctx context.Context, ref string) (*models.Product, error) {
	return s.get(ctx, ref)
}

func (s *stubService) Update(ctx context.Context, ref string, input product.UpdateInput) (*models.Product, error) {
	return s.update(ctx, ref, input)
}

func (s *stubService) Delete(ctx context.Context, ref string) error { return s.del(ctx, ref) }

func (s *stubService) Quote(ctx context.Context, ref string, input product.QuoteInput) (*product.Quote, error) {
	return s.quote(ctx, ref, input)
}

func (s *stubService) Rate(ctx context.Context, ref string, rating int) (*models.Product, error) {
	return s.rate(ctx, ref, rating)
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

func TestListParsesFilters(t *testing.T) {
	var got product.ListInput
	svc := &stubService{list: func(_ context.Context, input product.ListInput, params pagination.Params) (*product.ProductPage, error) {
		got = input
		return &product.ProductPage{Products: []models.Product{}, Total: 0, CurrentPage: params.Page}, nil
	}}
	handler := List(svc, logger.Nop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?category=cakes&available=true&q=ube", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cakes", got.Category)
	require.NotNil(t, got.Available)
	assert.True(t, *got.Available)
	assert.Nil(t, got.Featured)
	assert.Equal(t, "ube", got.Query)
	assert.Equal(t, true, decode(t, rec)["success"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/products?featured=maybe", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRejectsNegativeFrostingCost(t *testing.T) {
	svc := &stubService{create: func(context.Context, product.CreateInput) (*models.Product, error) {
		t.Fatal("service must not be called")
		return nil, nil
	}}

	rec := httptest.NewRecorder()
	body := `{"name":"Ube Cake","category":"cakes","basePrice":"800","frostingOptions":[{"name":"Cream","additionalCost":"-1"}]}`
	Create(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["details"], "frostingOptions[0].additionalCost")
}

func TestQuoteValidatesQuantity(t *testing.T) {
	svc := &stubService{quote: func(_ context.Context, ref string, input product.QuoteInput) (*product.Quote, error) {
		return &product.Quote{
			ProductID: ref,
			Size:      enums.CakeSize(input.Size),
			Quantity:  input.Quantity,
			UnitPrice: decimal.NewFromInt(800),
			Total:     decimal.NewFromInt(800).Mul(decimal.NewFromInt(int64(input.Quantity))),
		}, nil
	}}
	handler := Quote(svc, logger.Nop())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withRef(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"size":"small","quantity":2}`)), "PROD0001"))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1600), decode(t, rec)["data"].(map[string]any)["total"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withRef(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"size":"small","quantity":0}`)), "PROD0001"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRateAndDelete(t *testing.T) {
	svc := &stubService{
		rate: func(_ context.Context, ref string, rating int) (*models.Product, error) {
			return &models.Product{ProductID: ref, Rating: models.ProductRating{Average: decimal.NewFromInt(int64(rating)), Count: 1}}, nil
		},
		del: func(context.Context, string) error {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		},
	}

	rec := httptest.NewRecorder()
	Rate(svc, logger.Nop()).ServeHTTP(rec, withRef(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":5}`)), "PROD0001"))
	require.Equal(t, http.StatusOK, rec.Code)
	rating := decode(t, rec)["data"].(map[string]any)["rating"].(map[string]any)
	assert.Equal(t, float64(1), rating["count"])

	rec = httptest.NewRecorder()
	Rate(svc, logger.Nop()).ServeHTTP(rec, withRef(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"rating":9}`)), "PROD0001"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	Delete(svc, logger.Nop()).ServeHTTP(rec, withRef(httptest.NewRequest(http.MethodDelete, "/", nil), "PROD0404"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateConflictOnDuplicate(t *testing.T) {
	svc := &stubService{update: func(context.Context, string, product.UpdateInput) (*models.Product, error) {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already exists")
	}}
	rec := httptest.NewRecorder()
	Update(svc, logger.Nop()).ServeHTTP(rec, withRef(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"name":"Mocha Roll"}`)), "PROD0002"))
	assert.Equal(t, http.StatusConflict, rec.Code)
}
