//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"shop-order-engine/internal/domain/order"
	reqdto "shop-order-engine/internal/handler/dto/request"
	"shop-order-engine/internal/pkg/clock"
	"shop-order-engine/internal/usecase/commands"
	"shop-order-engine/internal/usecase/queries"
	"shop-order-engine/tests/common/builder"
	queriesmock "shop-order-engine/tests/mock/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type lifecycleEnv struct {
	state    *fakeState
	uow      *fakeUoW
	queries  *queriesmock.MockOrderQueries
	commands commands.LifecycleCommands
	ownerID  uuid.UUID
	orderID  uuid.UUID
}

func newLifecycleEnv(t *testing.T, status order.Status) *lifecycleEnv {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	state := &fakeState{}
	ownerID := uuid.New()
	orderID := uuid.New()
	now := time.Date(2026, 8, 30, 11, 0, 0, 0, time.UTC)
	state.storedOrder = order.ReconstructOrder(
		orderID, "20260830-120000-A1B2C3", ownerID, status,
		order.Amounts{}, nil, uuid.New(), nil, now, now,
	)

	uow := &fakeUoW{s: state}
	mockQueries := queriesmock.NewMockOrderQueries(ctrl)
	clk := clock.NewMockClock(time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))

	return &lifecycleEnv{
		state:    state,
		uow:      uow,
		queries:  mockQueries,
		commands: commands.NewLifecycleCommands(uow, mockQueries, clk),
		ownerID:  ownerID,
		orderID:  orderID,
	}
}

func (e *lifecycleEnv) expectView(t *testing.T) *queries.OrderView {
	t.Helper()
	view := builder.NewOrderBuilder().WithUserID(e.ownerID).BuildView()
	e.queries.EXPECT().GetByIDSystem(gomock.Any(), e.orderID).Return(view, nil).Times(1)
	return view
}

// one line item: qty units at 2500 list / 2000 sale
func (e *lifecycleEnv) seedLineItem(qty int32) order.LineItem {
	li := order.LineItem{
		ID:             uuid.New(),
		OrderID:        e.orderID,
		VariantID:      uuid.New(),
		ProductName:    "Basic Tee",
		SKU:            "TEE-BLK-M",
		Quantity:       qty,
		PriceCents:     2500,
		SalePriceCents: 2000,
	}
	e.state.lineItems = []order.LineItem{li}
	return li
}

func staffActor() commands.Actor {
	return commands.Actor{ID: uuid.New(), IsStaff: true}
}

// =============================================================================
// AdvanceStatus
// =============================================================================

func TestLifecycle_AdvanceStatus_Success(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusPending)
	view := env.expectView(t)
	actor := staffActor()
	note := "packed at warehouse B"

	result, err := env.commands.AdvanceStatus(ctx, env.orderID, actor, &note)
	require.NoError(t, err)
	assert.Equal(t, view, result)

	require.Equal(t, []order.Status{order.StatusPacked}, env.state.statusUpdates)
	require.Len(t, env.state.historyActors, 1)
	require.NotNil(t, env.state.historyActors[0])
	assert.Equal(t, actor.ID, *env.state.historyActors[0])
	assert.Contains(t, env.state.historyNotes, note)
	assert.Equal(t, []string{"order_status_changed"}, env.state.notificationTopics)
}

func TestLifecycle_AdvanceStatus_WalksTheSequence(t *testing.T) {
	ctx := context.Background()
	cases := []struct {
		from order.Status
		next order.Status
	}{
		{order.StatusPending, order.StatusPacked},
		{order.StatusPacked, order.StatusDelivering},
		{order.StatusDelivering, order.StatusDelivered},
	}
	for _, tc := range cases {
		t.Run(string(tc.from), func(t *testing.T) {
			env := newLifecycleEnv(t, tc.from)
			env.expectView(t)

			_, err := env.commands.AdvanceStatus(ctx, env.orderID, staffActor(), nil)
			require.NoError(t, err)
			assert.Equal(t, []order.Status{tc.next}, env.state.statusUpdates)
		})
	}
}

func TestLifecycle_AdvanceStatus_FinalStatusRejected(t *testing.T) {
	ctx := context.Background()
	for _, status := range []order.Status{order.StatusDelivered, order.StatusCancelled, order.StatusReturned} {
		t.Run(string(status), func(t *testing.T) {
			env := newLifecycleEnv(t, status)

			_, err := env.commands.AdvanceStatus(ctx, env.orderID, staffActor(), nil)
			require.ErrorIs(t, err, commands.ErrOrderNotAdvancable)
			assert.Empty(t, env.state.statusUpdates)
		})
	}
}

func TestLifecycle_AdvanceStatus_NonStaff(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusPending)

	_, err := env.commands.AdvanceStatus(ctx, env.orderID, commands.Actor{ID: env.ownerID}, nil)
	require.ErrorIs(t, err, commands.ErrPermissionDenied)
	assert.Zero(t, env.uow.withinCalls, "permission check must run before the transaction opens")
}

func TestLifecycle_AdvanceStatus_NotFound(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusPending)

	_, err := env.commands.AdvanceStatus(ctx, uuid.New(), staffActor(), nil)
	require.ErrorIs(t, err, commands.ErrOrderNotFound)
}

// =============================================================================
// CancelOrder
// =============================================================================

func TestLifecycle_CancelOrder_ByOwner(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusDelivering)
	view := env.expectView(t)
	li := env.seedLineItem(2)
	reason := "changed my mind"

	result, err := env.commands.CancelOrder(ctx, env.orderID, commands.Actor{ID: env.ownerID}, &reason)
	require.NoError(t, err)
	assert.Equal(t, view, result)

	assert.Equal(t, []order.Status{order.StatusCancelled}, env.state.statusUpdates)
	assert.Equal(t, 1, env.state.cancellations)
	assert.Nil(t, env.state.cancelActor, "customer cancellations carry no staff actor")
	require.NotNil(t, env.state.cancelReason)
	assert.Equal(t, reason, *env.state.cancelReason)
	assert.Equal(t, int32(-2), env.state.reserved[li.VariantID], "every ordered unit goes back on the shelf")
	require.Len(t, env.state.historyActors, 1)
	assert.Nil(t, env.state.historyActors[0])
	assert.Equal(t, []string{"order_status_changed"}, env.state.notificationTopics)
}

func TestLifecycle_CancelOrder_ByStaff(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusPending)
	env.expectView(t)
	env.seedLineItem(1)
	actor := staffActor()

	_, err := env.commands.CancelOrder(ctx, env.orderID, actor, nil)
	require.NoError(t, err)

	require.NotNil(t, env.state.cancelActor)
	assert.Equal(t, actor.ID, *env.state.cancelActor)
	require.Len(t, env.state.historyActors, 1)
	require.NotNil(t, env.state.historyActors[0])
	assert.Equal(t, actor.ID, *env.state.historyActors[0])
}

func TestLifecycle_CancelOrder_NotOwner(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusPending)

	_, err := env.commands.CancelOrder(ctx, env.orderID, commands.Actor{ID: uuid.New()}, nil)
	require.ErrorIs(t, err, commands.ErrOrderNotFound)
	assert.Zero(t, env.state.cancellations)
}

func TestLifecycle_CancelOrder_TooLate(t *testing.T) {
	ctx := context.Background()
	for _, status := range []order.Status{order.StatusDelivered, order.StatusCancelled, order.StatusReturned} {
		t.Run(string(status), func(t *testing.T) {
			env := newLifecycleEnv(t, status)

			_, err := env.commands.CancelOrder(ctx, env.orderID, commands.Actor{ID: env.ownerID}, nil)
			require.ErrorIs(t, err, commands.ErrOrderNotCancelable)
			assert.Empty(t, env.state.statusUpdates)
		})
	}
}

func TestLifecycle_CancelOrder_NotFound(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusPending)

	_, err := env.commands.CancelOrder(ctx, uuid.New(), staffActor(), nil)
	require.ErrorIs(t, err, commands.ErrOrderNotFound)
}

// =============================================================================
// ReturnOrder
// =============================================================================

func TestLifecycle_ReturnOrder_Success(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusDelivered)
	view := env.expectView(t)
	li := env.seedLineItem(2)

	req := reqdto.ReturnOrderRequest{
		Items: []reqdto.ReturnOrderItemRequest{{LineItemID: li.ID, Quantity: 1}},
	}
	result, err := env.commands.ReturnOrder(ctx, env.orderID, commands.Actor{ID: env.ownerID}, req)
	require.NoError(t, err)
	assert.Equal(t, view, result)

	require.Len(t, env.state.returnLines, 1)
	assert.Equal(t, li.ID, env.state.returnLines[0].LineItemID)
	assert.Equal(t, int32(1), env.state.returnLines[0].Quantity)
	assert.Equal(t, int64(2000), env.state.returnLines[0].RefundCents, "refund uses the sale price paid at checkout")
	assert.Equal(t, int64(2000), env.state.returnRefund)
	assert.Equal(t, int32(-1), env.state.reserved[li.VariantID], "only the returned units restock")
	assert.Equal(t, []order.Status{order.StatusReturned}, env.state.statusUpdates)
	assert.Equal(t, []string{"order_status_changed"}, env.state.notificationTopics)
}

func TestLifecycle_ReturnOrder_NotDelivered(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusDelivering)
	li := env.seedLineItem(2)

	req := reqdto.ReturnOrderRequest{
		Items: []reqdto.ReturnOrderItemRequest{{LineItemID: li.ID, Quantity: 1}},
	}
	_, err := env.commands.ReturnOrder(ctx, env.orderID, commands.Actor{ID: env.ownerID}, req)
	require.ErrorIs(t, err, commands.ErrOrderNotReturnable)
	assert.Empty(t, env.state.statusUpdates)
}

func TestLifecycle_ReturnOrder_QuantityExceedsOrdered(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusDelivered)
	li := env.seedLineItem(2)

	req := reqdto.ReturnOrderRequest{
		Items: []reqdto.ReturnOrderItemRequest{{LineItemID: li.ID, Quantity: 3}},
	}
	_, err := env.commands.ReturnOrder(ctx, env.orderID, commands.Actor{ID: env.ownerID}, req)
	require.ErrorIs(t, err, commands.ErrInvalidReturn)
	assert.Empty(t, env.state.returnLines)
}

func TestLifecycle_ReturnOrder_UnknownLineItem(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusDelivered)
	env.seedLineItem(2)

	req := reqdto.ReturnOrderRequest{
		Items: []reqdto.ReturnOrderItemRequest{{LineItemID: uuid.New(), Quantity: 1}},
	}
	_, err := env.commands.ReturnOrder(ctx, env.orderID, commands.Actor{ID: env.ownerID}, req)
	require.ErrorIs(t, err, commands.ErrInvalidReturn)
}

func TestLifecycle_ReturnOrder_NotOwner(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusDelivered)
	li := env.seedLineItem(2)

	req := reqdto.ReturnOrderRequest{
		Items: []reqdto.ReturnOrderItemRequest{{LineItemID: li.ID, Quantity: 1}},
	}
	_, err := env.commands.ReturnOrder(ctx, env.orderID, commands.Actor{ID: uuid.New()}, req)
	require.ErrorIs(t, err, commands.ErrOrderNotFound)
}

// =============================================================================
// DeleteOrder
// =============================================================================

func TestLifecycle_DeleteOrder_Success(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusCancelled)

	err := env.commands.DeleteOrder(ctx, env.orderID, staffActor())
	require.NoError(t, err)
	assert.True(t, env.state.orderDeleted)
}

func TestLifecycle_DeleteOrder_NonStaff(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusCancelled)

	err := env.commands.DeleteOrder(ctx, env.orderID, commands.Actor{ID: env.ownerID})
	require.ErrorIs(t, err, commands.ErrPermissionDenied)
	assert.False(t, env.state.orderDeleted)
	assert.Zero(t, env.uow.withinCalls)
}

func TestLifecycle_DeleteOrder_NotFound(t *testing.T) {
	ctx := context.Background()
	env := newLifecycleEnv(t, order.StatusCancelled)

	err := env.commands.DeleteOrder(ctx, uuid.New(), staffActor())
	require.ErrorIs(t, err, commands.ErrOrderNotFound)
	assert.False(t, env.state.orderDeleted)
}