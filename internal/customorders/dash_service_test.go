package customorders

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/crumbhouse/bakery-backend/internal/events"
	"github.com/crumbhouse/bakery-backend/pkg/db/models"
	"github.com/crumbhouse/bakery-backend/pkg/enums"
	pkgerrors "github.com/crumbhouse/bakery-backend/pkg/errors"
	"github.com/crumbhouse/bakery-backend/pkg/logger"
)

func strPtr(v string) *string { return &v }

func dec(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func createEntry(t *testing.T, h *harness, total string) (*models.CustomOrder, *models.CustomOrderDash) {
	t.Helper()
	ctx := context.Background()
	order, err := h.orders.Create(ctx, validCreateInput())
	require.NoError(t, err)
	entry, err := h.dash.Create(ctx, CreateDashInput{
		OrderID:     order.ID.String(),
		AssignedTo:  "chef-ana",
		TotalAmount: dec(total),
		Notes:       []NoteInput{{Content: "Call to confirm colors", AddedBy: "front"}},
	})
	require.NoError(t, err)
	return order, entry
}

func TestCreateDashDefaultsAndJoin(t *testing.T) {
	h := newHarness(t)
	order, entry := createEntry(t, h, "120")

	assert.Equal(t, enums.DashStatusPending, entry.Status)
	assert.Equal(t, enums.DashPriorityMedium, entry.Priority)
	assert.Equal(t, enums.PaymentStatusPending, entry.PaymentStatus)
	assert.True(t, entry.AmountPaid.IsZero())
	require.Len(t, entry.Notes, 1)
	require.NotNil(t, entry.Order)
	assert.Equal(t, order.RequestID, entry.Order.RequestID)
}

func TestCreateDashRejectsDuplicatesAndUnknownOrders(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	order, _ := createEntry(t, h, "50")

	_, err := h.dash.Create(ctx, CreateDashInput{OrderID: order.RequestID, TotalAmount: dec("50")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConflict))

	_, err = h.dash.Create(ctx, CreateDashInput{OrderID: uuid.NewString(), TotalAmount: dec("50")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = h.dash.Create(ctx, CreateDashInput{OrderID: order.RequestID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = h.dash.Create(ctx, CreateDashInput{OrderID: order.RequestID, TotalAmount: dec("50"), AmountPaid: dec("60")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateDashCascadesStatusToOrder(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	order, entry := createEntry(t, h, "120")
	h.emitter.emitted = nil

	updated, err := h.dash.Update(ctx, entry.ID.String(), UpdateDashInput{
		Status:        strPtr("completed"),
		Priority:      strPtr("high"),
		PaymentStatus: strPtr("paid"),
		AmountPaid:    dec("120"),
		Notes:         []NoteInput{{Content: "Picked up", AddedBy: "counter"}},
	})
	require.NoError(t, err)
	assert.Equal(t, enums.DashStatusCompleted, updated.Status)
	assert.Equal(t, enums.DashPriorityHigh, updated.Priority)
	assert.Equal(t, enums.PaymentStatusPaid, updated.PaymentStatus)
	require.Len(t, updated.Notes, 2)
	assert.Equal(t, "Call to confirm colors", updated.Notes[0].Content)
	assert.Equal(t, "Picked up", updated.Notes[1].Content)
	require.NotNil(t, updated.Order)
	assert.Equal(t, enums.CustomOrderStatusCompleted, updated.Order.Status)

	reloaded, err := h.orders.Get(ctx, order.RequestID)
	require.NoError(t, err)
	assert.Equal(t, enums.CustomOrderStatusCompleted, reloaded.Status)

	require.Len(t, h.emitter.emitted, 1)
	assert.Equal(t, events.CustomOrderStatusChanged, h.emitter.emitted[0].Type)
	change := h.emitter.emitted[0].Data.(StatusChange)
	assert.Equal(t, "dashboard", change.Source)
}

func TestUpdateDashValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	order, entry := createEntry(t, h, "100")

	_, err := h.dash.Update(ctx, entry.ID.String(), UpdateDashInput{Status: strPtr("done")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = h.dash.Update(ctx, entry.ID.String(), UpdateDashInput{AmountPaid: dec("100.01")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
	_, err = h.dash.Update(ctx, uuid.NewString(), UpdateDashInput{Priority: strPtr("low")})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = h.dash.Update(ctx, "not-a-uuid", UpdateDashInput{})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	unchanged, err := h.dash.Get(ctx, entry.ID.String())
	require.NoError(t, err)
	assert.Equal(t, enums.DashStatusPending, unchanged.Status)
	assert.True(t, unchanged.AmountPaid.IsZero())
	reloaded, err := h.orders.Get(ctx, order.RequestID)
	require.NoError(t, err)
	assert.Equal(t, enums.CustomOrderStatusPending, reloaded.Status)
}

// failingOrders breaks the linked order write inside transactions.
type failingOrders struct {
	Repository
}

func (f failingOrders) WithTx(tx *gorm.DB) Repository {
	return failingOrders{Repository: f.Repository.WithTx(tx)}
}

func (f failingOrders) Update(context.Context, uuid.UUID, map[string]any) error {
	return errors.New("injected failure")
}

func TestUpdateDashRollsBackWhenCascadeFails(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	order, entry := createEntry(t, h, "80")

	conn := h.client.DB()
	broken, err := NewDashService(NewDashRepository(conn), failingOrders{Repository: NewRepository(conn)}, h.client, h.emitter, logger.Nop())
	require.NoError(t, err)
	h.emitter.emitted = nil

	_, err = broken.Update(ctx, entry.ID.String(), UpdateDashInput{
		Status: strPtr("completed"),
		Notes:  []NoteInput{{Content: "should vanish"}},
	})
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeDependency))
	assert.Equal(t, 500, pkgerrors.MetadataFor(pkgerrors.As(err).Code()).HTTPStatus)

	after, err := h.dash.Get(ctx, entry.ID.String())
	require.NoError(t, err)
	assert.Equal(t, enums.DashStatusPending, after.Status)
	assert.Len(t, after.Notes, 1)

	linked, err := h.orders.Get(ctx, order.ID.String())
	require.NoError(t, err)
	assert.Equal(t, enums.CustomOrderStatusPending, linked.Status)
	assert.Empty(t, h.emitter.emitted)
}

func TestUpdateOrphanedEntrySkipsCascade(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	order, entry := createEntry(t, h, "80")
	_, err := h.orders.Delete(ctx, order.ID.String())
	require.NoError(t, err)

	updated, err := h.dash.Update(ctx, entry.ID.String(), UpdateDashInput{Status: strPtr("cancelled")})
	require.NoError(t, err)
	assert.Equal(t, enums.DashStatusCancelled, updated.Status)
	assert.Nil(t, updated.Order)
}

func TestDashListFilterDeleteAndStats(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	_, first := createEntry(t, h, "100")
	_, second := createEntry(t, h, "60.50")

	_, err := h.dash.Update(ctx, first.ID.String(), UpdateDashInput{
		Status:        strPtr("in_progress"),
		PaymentStatus: strPtr("partial"),
		AmountPaid:    dec("40"),
	})
	require.NoError(t, err)

	inProgress, err := h.dash.List(ctx, "in_progress")
	require.NoError(t, err)
	require.Len(t, inProgress, 1)
	assert.Equal(t, first.ID, inProgress[0].ID)
	require.NotNil(t, inProgress[0].Order)

	stats, err := h.dash.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalEntries)
	assert.EqualValues(t, 1, stats.ByStatus[enums.DashStatusInProgress])
	assert.EqualValues(t, 0, stats.ByStatus[enums.DashStatusCompleted])
	assert.EqualValues(t, 2, stats.ByPriority[enums.DashPriorityMedium])
	assert.EqualValues(t, 1, stats.ByPaymentStatus[enums.PaymentStatusPartial])
	assert.Equal(t, "160.5", stats.TotalAmount.String())
	assert.Equal(t, "40", stats.AmountPaid.String())
	assert.Equal(t, "120.5", stats.Outstanding.String())
	assert.EqualValues(t, 1, stats.Orders[enums.CustomOrderStatusInProgress])
	assert.EqualValues(t, 1, stats.Orders[enums.CustomOrderStatusPending])

	deleted, err := h.dash.Delete(ctx, second.ID.String())
	require.NoError(t, err)
	assert.Equal(t, second.ID, deleted.ID)
	_, err = h.dash.Get(ctx, second.ID.String())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	_, err = h.dash.Delete(ctx, second.ID.String())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}
