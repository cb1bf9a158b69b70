package reviews

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

	"github.com/crumbhouse/bakery-backend/internal/reviews"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/logger"
)

type stubService struct {
	create       func(ctx context.Context, input reviews.CreateInput) (*models.Review, error)
	list         func(ctx context.Context) ([]models.Review, error)
	get          func(ctx context.Context, id string) (*models.Review, error)
	update       func(ctx context.Context, id string, input reviews.UpdateInput) (*models.Review, error)
	updateStatus func(ctx context.Context, id, status string) (*models.Review, error)
	del          func(ctx context.Context, id string) error
}

func (s *stubService) Create(ctx context.Context, input reviews.CreateInput) (*models.Review, error) {
	return s.create(ctx, input)
}

func (s *stubService) List(ctx context.Context) ([]models.Review, error) { return s.list(ctx) }

func (s *stubService) Get(ctx context.Context, id string) (*models.Review, error) {
	return s.get(ctx, id)
}

func (s *stubService) Update(ctx context.Context, id string, input reviews.UpdateInput) (*models.Review, error) {
	return s.update(ctx, id, input)
}

func (s *stubService) UpdateStatus(ctx context.Context, id, status string) (*models.Review, error) {
	return s.updateStatus(ctx, id, status)
}

func (s *stubService) Delete(ctx context.Context, id string) error { return s.del(ctx, id) }

func withID(req *http.Request, id string) *http.Request {
	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", id)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))
}

func TestListReturnsBareArray(t *testing.T) {
	svc := &stubService{list: func(context.Context) ([]models.Review, error) {
		return []models.Review{{ID: uuid.New(), Name: "Mia", Rating: 5}}, nil
	}}

	rec := httptest.NewRecorder()
	List(svc, logger.Nop()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/reviews", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body, 1)
	assert.Equal(t, "Mia", body[0]["name"])
}

func TestCreateValidatesRatingRange(t *testing.T) {
	svc := &stubService{create: func(_ context.Context, input reviews.CreateInput) (*models.Review, error) {
		return &models.Review{ID: uuid.New(), Name: input.Name, Rating: input.Rating, Status: enums.ReviewStatusPending}, nil
	}}
	handler := Create(svc, logger.Nop())

	valid := `{"name":"Mia","email":"mia@example.com","product":"Ube Roll","rating":4,"review":"Lovely"}`
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(valid)))
	require.Equal(t, http.StatusCreated, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Review created successfully", body["message"])
	assert.Equal(t, "Pending", body["review"].(map[string]any)["status"])

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/reviews", strings.NewReader(strings.Replace(valid, `"rating":4`, `"rating":6`, 1))))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatusRejectsUnknownValue(t *testing.T) {
	svc := &stubService{updateStatus: func(_ context.Context, id, status string) (*models.Review, error) {
		if status != "Pending" && status != "Solved" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid review status")
		}
		return &models.Review{Status: enums.ReviewStatus(status)}, nil
	}}
	handler := UpdateStatus(svc, logger.Nop())
	id := uuid.NewString()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, withID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"Solved"}`)), id))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, withID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"Archived"}`)), id))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDetailNotFoundAndDelete(t *testing.T) {
	svc := &stubService{
		get: func(context.Context, string) (*models.Review, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		},
		del: func(context.Context, string) error { return nil },
	}

	rec := httptest.NewRecorder()
	Detail(svc, logger.Nop()).ServeHTTP(rec, withID(httptest.NewRequest(http.MethodGet, "/", nil), uuid.NewString()))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	Delete(svc, logger.Nop()).ServeHTTP(rec, withID(httptest.NewRequest(http.MethodDelete, "/", nil), uuid.NewString()))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Review deleted successfully"}`, rec.Body.String())
}

func TestUpdatePassesPartialInput(t *testing.T) {
	var got reviews.UpdateInput
	svc := &stubService{update: func(_ context.Context, id string, input reviews.UpdateInput) (*models.Review, error) {
		got = input
		return &models.Review{Review: *input.Review}, nil
	}}

	rec := httptest.NewRecorder()
	Update(svc, logger.Nop()).ServeHTTP(rec, withID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"review":"Even better"}`)), uuid.NewString()))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, got.Rating)
	require.NotNil(t, got.Review)
	assert.Equal(t, "Even better", *got.Review)
}

func TestUpdateValidatesEmailAndRating(t *testing.T) {
	called := false
	svc := &stubService{update: func(context.Context, string, reviews.UpdateInput) (*models.Review, error) {
		called = true
		return &models.Review{}, nil
	}}
	handler := Update(svc, logger.Nop())

	for _, body := range []string{`{"email":"Ben Baker <ben@example.com>"}`, `{"rating":7}`} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, withID(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(body)), uuid.NewString()))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.False(t, called)
}
