package customorders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/internal/events"
	"github.com/crumbhouse/bakery-backend/pkg/db"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/logger"
)

// DashService manages the staff workflow layered over custom orders.
type DashService interface {
	Create(ctx context.Context, input CreateDashInput) (*models.CustomOrderDash, error)
	List(ctx context.Context, status string) ([]models.CustomOrderDash, error)
	Get(ctx context.Context, id string) (*models.CustomOrderDash, error)
	Update(ctx context.Context, id string, input UpdateDashInput) (*models.CustomOrderDash, error)
	Delete(ctx context.Context, id string) (*models.CustomOrderDash, error)
	Stats(ctx context.Context) (*DashStats, error)
}

type dashService struct {
	dash   DashRepository
	orders Repository
	tx     txRunner
	events eventEmitter
	logg   *logger.Logger
}

// NewDashService builds the dashboard service.
func NewDashService(dash DashRepository, orders Repository, tx txRunner, emitter eventEmitter, logg *logger.Logger) (DashService, error) {
	if dash == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	if orders == nil {
		return nil, fmt.Errorf("custom orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if emitter == nil {
		return nil, fmt.Errorf("event emitter required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &dashService{dash: dash, orders: orders, tx: tx, events: emitter, logg: logg}, nil
}

func (s *dashService) Create(ctx context.Context, input CreateDashInput) (*models.CustomOrderDash, error) {
	fields := map[string]string{}
	entry := &models.CustomOrderDash{
		Status:        enums.DashStatusPending,
		AssignedTo:    strings.TrimSpace(input.AssignedTo),
		Priority:      enums.DashPriorityMedium,
		PaymentStatus: enums.PaymentStatusPending,
		AmountPaid:    decimal.Zero,
	}
	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := enums.ParseDashStatus(raw)
		if err != nil {
			fields["status"] = "must be one of pending, in_progress, completed, cancelled"
		}
		entry.Status = status
	}
	if raw := strings.TrimSpace(input.Priority); raw != "" {
		priority, err := enums.ParseDashPriority(raw)
		if err != nil {
			fields["priority"] = "must be one of low, medium, high"
		}
		entry.Priority = priority
	}
	if raw := strings.TrimSpace(input.PaymentStatus); raw != "" {
		paymentStatus, err := enums.ParsePaymentStatus(raw)
		if err != nil {
			fields["paymentStatus"] = "must be one of pending, partial, paid"
		}
		entry.PaymentStatus = paymentStatus
	}
	if input.TotalAmount == nil {
		fields["totalAmount"] = "required"
	} else {
		entry.TotalAmount = input.TotalAmount.Round(2)
	}
	if input.AmountPaid != nil {
		entry.AmountPaid = input.AmountPaid.Round(2)
	}
	checkAmounts(fields, entry.AmountPaid, entry.TotalAmount, input.TotalAmount != nil)
	notes, msg := buildNotes(input.Notes)
	if msg != "" {
		fields["notes"] = msg
	}
	entry.Notes = notes
	if strings.TrimSpace(input.OrderID) == "" {
		fields["orderId"] = "required"
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid dashboard entry").WithDetails(fields)
	}

	order, err := loadCustomOrder(ctx, s.orders, input.OrderID)
	if err != nil {
		return nil, err
	}
	entry.OrderID = order.ID

	if _, err := s.dash.Create(ctx, entry); err != nil {
		if db.IsUniqueViolation(err, "order_id") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "dashboard entry already exists for this order").
				WithDetails(map[string]string{"orderId": order.ID.String()})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create dashboard entry")
	}

	created, err := s.load(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	created.Order = order
	return created, nil
}

func (s *dashService) List(ctx context.Context, status string) ([]models.CustomOrderDash, error) {
	var filter *enums.DashStatus
	if raw := strings.TrimSpace(status); raw != "" {
		parsed, err := enums.ParseDashStatus(raw)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter")
		}
		filter = &parsed
	}

	entries, err := s.dash.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list dashboard entries")
	}
	if err := s.populate(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *dashService) Get(ctx context.Context, id string) (*models.CustomOrderDash, error) {
	entryID, err := parseDashID(id)
	if err != nil {
		return nil, err
	}
	entry, err := s.load(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entries := []models.CustomOrderDash{*entry}
	if err := s.populate(ctx, entries); err != nil {
		return nil, err
	}
	return &entries[0], nil
}

// Update applies the workflow change and mirrors a status change onto the
// linked custom order in the same transaction.
func (s *dashService) Update(ctx context.Context, id string, input UpdateDashInput) (*models.CustomOrderDash, error) {
	entryID, err := parseDashID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]string{}
	updates := map[string]any{}
	var newStatus *enums.DashStatus
	if input.Status != nil {
		status, err := enums.ParseDashStatus(strings.TrimSpace(*input.Status))
		if err != nil {
			fields["status"] = "must be one of pending, in_progress, completed, cancelled"
		} else {
			updates["status"] = status
			newStatus = &status
		}
	}
	if input.Priority != nil {
		priority, err := enums.ParseDashPriority(strings.TrimSpace(*input.Priority))
		if err != nil {
			fields["priority"] = "must be one of low, medium, high"
		} else {
			updates["priority"] = priority
		}
	}
	if input.PaymentStatus != nil {
		paymentStatus, err := enums.ParsePaymentStatus(strings.TrimSpace(*input.PaymentStatus))
		if err != nil {
			fields["paymentStatus"] = "must be one of pending, partial, paid"
		} else {
			updates["payment_status"] = paymentStatus
		}
	}
	if input.AssignedTo != nil {
		updates["assigned_to"] = strings.TrimSpace(*input.AssignedTo)
	}
	notes, msg := buildNotes(input.Notes)
	if msg != "" {
		fields["notes"] = msg
	}
	if len(fields) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid dashboard update").WithDetails(fields)
	}

	var (
		linked     *models.CustomOrder
		prevStatus enums.CustomOrderStatus
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		dash := s.dash.WithTx(tx)
		orders := s.orders.WithTx(tx)

		entry, err := dash.FindByID(ctx, entryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "dashboard entry not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard entry")
		}

		if input.AmountPaid != nil {
			paid := input.AmountPaid.Round(2)
			amountFields := map[string]string{}
			checkAmounts(amountFields, paid, entry.TotalAmount, true)
			if len(amountFields) > 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "invalid dashboard update").WithDetails(amountFields)
			}
			updates["amount_paid"] = paid
		}

		if len(updates) > 0 {
			if err := dash.Update(ctx, entry.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update dashboard entry")
			}
		}
		for i := range notes {
			notes[i].DashID = entry.ID
		}
		if err := dash.AppendNotes(ctx, notes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "append dashboard notes")
		}

		if newStatus == nil {
			return nil
		}
		order, err := orders.FindByRef(ctx, entry.OrderID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				s.logg.Warn(s.logg.WithField(ctx, "order_id", entry.OrderID.String()), "custom_orders.dash_orphaned")
				return nil
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load linked custom order")
		}
		mirrored := newStatus.Mirror()
		if err := orders.Update(ctx, order.ID, map[string]any{"status": mirrored}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update linked custom order status")
		}
		prevStatus = order.Status
		order.Status = mirrored
		linked = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	if linked != nil && prevStatus != linked.Status {
		s.events.Emit(ctx, events.CustomOrderStatusChanged, linked.ID.String(), StatusChange{
			ID:        linked.ID.String(),
			RequestID: linked.RequestID,
			From:      prevStatus,
			To:        linked.Status,
			Source:    "dashboard",
		})
	}
	return s.Get(ctx, entryID.String())
}

func (s *dashService) Delete(ctx context.Context, id string) (*models.CustomOrderDash, error) {
	entryID, err := parseDashID(id)
	if err != nil {
		return nil, err
	}
	var deleted *models.CustomOrderDash
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		dash := s.dash.WithTx(tx)
		entry, err := dash.FindByID(ctx, entryID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "dashboard entry not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard entry")
		}
		if err := dash.Delete(ctx, entry.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete dashboard entry")
		}
		deleted = entry
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (s *dashService) Stats(ctx context.Context) (*DashStats, error) {
	byStatus, err := s.dash.CountBy(ctx, "status")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count dashboard entries by status")
	}
	byPriority, err := s.dash.CountBy(ctx, "priority")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count dashboard entries by priority")
	}
	byPayment, err := s.dash.CountBy(ctx, "payment_status")
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count dashboard entries by payment status")
	}
	total, paid, err := s.dash.SumAmounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum dashboard amounts")
	}
	orderCounts, err := s.orders.CountByStatus(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count custom orders by status")
	}

	stats := &DashStats{
		ByStatus:        make(map[enums.DashStatus]int64),
		ByPriority:      make(map[enums.DashPriority]int64),
		ByPaymentStatus: make(map[enums.PaymentStatus]int64),
		Orders:          make(map[enums.CustomOrderStatus]int64),
		TotalAmount:     total.Round(2),
		AmountPaid:      paid.Round(2),
		Outstanding:     total.Sub(paid).Round(2),
	}
	for _, status := range enums.DashStatuses() {
		stats.ByStatus[status] = byStatus[string(status)]
		stats.TotalEntries += byStatus[string(status)]
	}
	for _, priority := range enums.DashPriorities() {
		stats.ByPriority[priority] = byPriority[string(priority)]
	}
	for _, paymentStatus := range enums.PaymentStatuses() {
		stats.ByPaymentStatus[paymentStatus] = byPayment[string(paymentStatus)]
	}
	for _, status := range enums.CustomOrderStatuses() {
		stats.Orders[status] = orderCounts[string(status)]
	}
	return stats, nil
}

func (s *dashService) load(ctx context.Context, id uuid.UUID) (*models.CustomOrderDash, error) {
	entry, err := s.dash.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "dashboard entry not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load dashboard entry")
	}
	return entry, nil
}

// populate attaches each entry's custom order; orphaned entries keep a nil Order.
func (s *dashService) populate(ctx context.Context, entries []models.CustomOrderDash) error {
	ids := make([]uuid.UUID, 0, len(entries))
	for _, entry := range entries {
		ids = append(ids, entry.OrderID)
	}
	orders, err := s.orders.FindByIDs(ctx, ids)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load linked custom orders")
	}
	for i := range entries {
		if order, ok := orders[entries[i].OrderID]; ok {
			entries[i].Order = &order
		}
	}
	return nil
}

func parseDashID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid dashboard entry id")
	}
	return id, nil
}

func checkAmounts(fields map[string]string, paid, total decimal.Decimal, haveTotal bool) {
	if paid.IsNegative() {
		fields["amountPaid"] = "must be zero or greater"
	}
	if !haveTotal {
		return
	}
	if total.IsNegative() {
		fields["totalAmount"] = "must be zero or greater"
		return
	}
	if paid.GreaterThan(total) {
		fields["amountPaid"] = "must not exceed totalAmount"
	}
}

func buildNotes(inputs []NoteInput) ([]models.DashNote, string) {
	notes := make([]models.DashNote, 0, len(inputs))
	for _, in := range inputs {
		content := strings.TrimSpace(in.Content)
		if content == "" {
			return nil, "note content required"
		}
		notes = append(notes, models.DashNote{Content: content, AddedBy: strings.TrimSpace(in.AddedBy)})
	}
	return notes, ""
}
