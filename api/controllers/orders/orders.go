package orders

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/crumbhouse/bakery-backend/api/responses"
	"github.com/crumbhouse/bakery-backend/api/validators"
	internalorders "github.com/crumbhouse/bakery-backend/internal/orders"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/logger"
)

type orderResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message,omitempty"`
	Order   *models.Order `json:"order"`
}

type pageResponse struct {
	Success bool `json:"success"`
	*internalorders.OrderPage
}

type statsResponse struct {
	Success bool                   `json:"success"`
	Stats   *internalorders.Stats `json:"stats"`
}

type searchResponse struct {
	Success bool           `json:"success"`
	Count   int            `json:"count"`
	Orders  []models.Order `json:"orders"`
}

type deleteResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	DeletedOrder *models.Order `json:"deletedOrder,omitempty"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// Checkout places a standard order.
func Checkout(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input internalorders.CreateOrderInput
		if err := validators.DecodeJSONBody(r, &input); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, orderResponse{Success: true, Message: "Order placed successfully", Order: order})
	}
}

// Detail fetches one order by UUID or orderId.
func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := refParam(w, r, logg)
		if !ok {
			return
		}
		order, err := svc.Get(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, orderResponse{Success: true, Order: order})
	}
}

// List is the paginated dashboard order table.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		page, err := svc.List(r.Context(), params, strings.TrimSpace(r.URL.Query().Get("status")))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, pageResponse{Success: true, OrderPage: page})
	}
}

func Stats(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, statsResponse{Success: true, Stats: stats})
	}
}

func Search(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		found, err := svc.Search(r.Context(), internalorders.SearchInput{
			Query:     q.Get("query"),
			Status:    q.Get("status"),
			StartDate: q.Get("startDate"),
			EndDate:   q.Get("endDate"),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, searchResponse{Success: true, Count: len(found), Orders: found})
	}
}

// UpdateStatus moves an order to Preparing, Out for Delivery or Delivered.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := refParam(w, r, logg)
		if !ok {
			return
		}
		var body statusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.UpdateStatus(r.Context(), ref, body.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, orderResponse{Success: true, Message: "Order status updated", Order: order})
	}
}

// Cancel marks the order Cancelled and keeps the record.
func Cancel(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := refParam(w, r, logg)
		if !ok {
			return
		}
		order, err := svc.Cancel(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, orderResponse{Success: true, Message: "Order cancelled", Order: order})
	}
}

// Delete removes the order permanently.
func Delete(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ref, ok := refParam(w, r, logg)
		if !ok {
			return
		}
		order, err := svc.Delete(r.Context(), ref)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, deleteResponse{Success: true, Message: "Order deleted successfully", DeletedOrder: order})
	}
}

func refParam(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (string, bool) {
	ref := strings.TrimSpace(chi.URLParam(r, "ref"))
	if ref == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order reference is required"))
		return "", false
	}
	return ref, true
}
