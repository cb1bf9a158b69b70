package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/internal/events"
	"github.com/crumbhouse/bakery-backend/internal/sequence"
	"github.com/crumbhouse/bakery-backend/pkg/db"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/pagination"
	"github.com/crumbhouse/bakery-backend/pkg/types"
)

type idAssigner interface {
	Assign(ctx context.Context, f sequence.Format, target *string)
}

type eventEmitter interface {
	Emit(ctx context.Context, eventType events.Type, aggregateID string, data any)
}

// Service exposes checkout and dashboard operations for standard orders.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*models.Order, error)
	Get(ctx context.Context, ref string) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, status string) (*OrderPage, error)
	Search(ctx context.Context, input SearchInput) ([]models.Order, error)
	Stats(ctx context.Context) (*Stats, error)
	UpdateStatus(ctx context.Context, ref, status string) (*models.Order, error)
	Cancel(ctx context.Context, ref string) (*models.Order, error)
	Delete(ctx context.Context, ref string) (*models.Order, error)
}

type service struct {
	repo   Repository
	ids    idAssigner
	events eventEmitter
	now    func() time.Time
}

// NewService builds an order service with the required dependencies.
func NewService(repo Repository, ids idAssigner, emitter eventEmitter) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if ids == nil {
		return nil, fmt.Errorf("id allocator required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	return &service{
		repo:   repo,
		ids:    ids,
		events: emitter,
		now:    time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateOrderInput) (*models.Order, error) {
	order, err := input.toModel(s.now())
	if err != nil {
		return nil, err
	}

	s.ids.Assign(ctx, sequence.OrderFormat, &order.OrderID)

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		if db.IsUniqueViolation(err, "order_id") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "order id already exists").
				WithDetails(map[string]string{"orderId": order.OrderID})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
	}

	s.events.Emit(ctx, events.OrderCreated, created.ID.String(), created)
	return created, nil
}

func (s *service) Get(ctx context.Context, ref string) (*models.Order, error) {
	return s.load(ctx, ref)
}

func (s *service) List(ctx context.Context, params pagination.Params, status string) (*OrderPage, error) {
	filter, err := parseStatusFilter(status)
	if err != nil {
		return nil, err
	}

	params = params.Normalize()
	orders, total, err := s.repo.List(ctx, params, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return &OrderPage{
		Orders:      orders,
		TotalOrders: total,
		CurrentPage: params.Page,
		TotalPages:  pagination.TotalPages(total, params.Limit),
	}, nil
}

func (s *service) Search(ctx context.Context, input SearchInput) ([]models.Order, error) {
	filter, err := parseStatusFilter(input.Status)
	if err != nil {
		return nil, err
	}
	filters := SearchFilters{
		Status: filter,
		Query:  strings.TrimSpace(input.Query),
		Limit:  SearchLimit,
	}

	if raw := strings.TrimSpace(input.StartDate); raw != "" {
		start, err := types.ParseDate(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid startDate")
		}
		from := start.In(time.Local)
		filters.From = &from
	}
	if raw := strings.TrimSpace(input.EndDate); raw != "" {
		end, err := types.ParseDate(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid endDate")
		}
		until := end.EndOfRange().In(time.Local)
		filters.Until = &until
	}
	if filters.From != nil && filters.Until != nil && !filters.From.Before(*filters.Until) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "startDate must not be after endDate")
	}

	orders, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search orders")
	}
	return orders, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count orders by status")
	}

	stats := &Stats{StatusCounts: make(map[enums.OrderStatus]int64)}
	for _, status := range enums.OrderStatuses() {
		stats.StatusCounts[status] = counts[status]
		stats.TotalOrders += counts[status]
	}

	total, err := s.repo.SumRevenue(ctx, nil, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum revenue")
	}

	now := s.now()
	startOfToday := types.StartOfDay(now)
	startOfTomorrow := startOfToday.AddDate(0, 0, 1)
	today, err := s.repo.SumRevenue(ctx, &startOfToday, &startOfTomorrow)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum today revenue")
	}

	monthly, err := s.monthly(ctx, now)
	if err != nil {
		return nil, err
	}

	stats.Revenue = RevenueStats{
		Total:   total.Round(2),
		Today:   today.Round(2),
		Monthly: monthly,
	}
	return stats, nil
}

// monthly buckets revenue for the current month and the five before it,
// oldest first, with empty months reported as zero.
func (s *service) monthly(ctx context.Context, now time.Time) ([]MonthlyRevenue, error) {
	local := now.In(time.Local)
	currentMonth := time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, time.Local)
	since := currentMonth.AddDate(0, -(statsMonths - 1), 0)

	buckets := make([]MonthlyRevenue, statsMonths)
	index := make(map[[2]int]int, statsMonths)
	for i := range buckets {
		month := since.AddDate(0, i, 0)
		buckets[i] = MonthlyRevenue{Year: month.Year(), Month: int(month.Month()), Revenue: decimal.Zero}
		index[[2]int{month.Year(), int(month.Month())}] = i
	}

	points, err := s.repo.RevenueSince(ctx, since)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load monthly revenue")
	}
	for _, point := range points {
		at := point.CreatedAt.In(time.Local)
		i, ok := index[[2]int{at.Year(), int(at.Month())}]
		if !ok {
			continue
		}
		buckets[i].Revenue = buckets[i].Revenue.Add(point.Total)
		buckets[i].Orders++
	}
	for i := range buckets {
		buckets[i].Revenue = buckets[i].Revenue.Round(2)
	}
	return buckets, nil
}

func (s *service) UpdateStatus(ctx context.Context, ref, status string) (*models.Order, error) {
	target, err := enums.ParseOrderStatus(strings.TrimSpace(status))
	if err != nil || !target.IsDashboardSettable() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status").
			WithDetails(map[string]any{"allowed": []enums.OrderStatus{
				enums.OrderStatusPreparing,
				enums.OrderStatusOutForDelivery,
				enums.OrderStatusDelivered,
			}})
	}
	return s.setStatus(ctx, ref, target)
}

func (s *service) Cancel(ctx context.Context, ref string) (*models.Order, error) {
	return s.setStatus(ctx, ref, enums.OrderStatusCancelled)
}

func (s *service) setStatus(ctx context.Context, ref string, target enums.OrderStatus) (*models.Order, error) {
	order, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	previous := order.Status
	if err := s.repo.UpdateStatus(ctx, order.ID, target); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}

	updated, err := s.load(ctx, order.ID.String())
	if err != nil {
		return nil, err
	}
	if previous != target {
		s.events.Emit(ctx, events.OrderStatusChanged, updated.ID.String(), StatusChange{
			ID:      updated.ID.String(),
			OrderID: updated.OrderID,
			From:    previous,
			To:      target,
		})
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, ref string) (*models.Order, error) {
	order, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Delete(ctx, order.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	s.events.Emit(ctx, events.OrderDeleted, order.ID.String(), order)
	return order, nil
}

func (s *service) load(ctx context.Context, ref string) (*models.Order, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order reference required")
	}
	order, err := s.repo.FindByRef(ctx, ref)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func parseStatusFilter(raw string) (*enums.OrderStatus, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	status, err := enums.ParseOrderStatus(raw)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
	}
	return &status, nil
}
