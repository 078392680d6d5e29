package commands

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"shop-order-engine/internal/domain/order"
	reqdto "shop-order-engine/internal/handler/dto/request"
	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/pkg/clock"
	"shop-order-engine/internal/pkg/errs"
	"shop-order-engine/internal/usecase/queries"
	"shop-order-engine/internal/usecase/shared"
)

var (
	ErrOrderNotFound      = errs.New("order not found")
	ErrOrderNotAdvancable = errs.New("order cannot advance further")
	ErrOrderNotCancelable = errs.New("order can no longer be cancelled")
	ErrOrderNotReturnable = errs.New("order cannot be returned")
	ErrInvalidReturn      = errs.New("invalid return request")
	ErrPermissionDenied   = errs.New("permission denied")
)

// Actor identifies who is driving a lifecycle transition.
type Actor struct {
	ID      uuid.UUID
	IsStaff bool
}

type LifecycleCommands interface {
	AdvanceStatus(ctx context.Context, orderID uuid.UUID, actor Actor, note *string) (*queries.OrderView, error)
	CancelOrder(ctx context.Context, orderID uuid.UUID, actor Actor, reason *string) (*queries.OrderView, error)
	ReturnOrder(ctx context.Context, orderID uuid.UUID, actor Actor, req reqdto.ReturnOrderRequest) (*queries.OrderView, error)
	// DeleteOrder is the administrative purge. It removes the order and its
	// dependent rows outright; audit records go with it.
	DeleteOrder(ctx context.Context, orderID uuid.UUID, actor Actor) error
}

type lifecycleCommandsImpl struct {
	uow          shared.UnitOfWork
	orderQueries queries.OrderQueries
	clock        clock.Clock
}

func NewLifecycleCommands(uow shared.UnitOfWork, orderQueries queries.OrderQueries, clk clock.Clock) LifecycleCommands {
	return &lifecycleCommandsImpl{
		uow:          uow,
		orderQueries: orderQueries,
		clock:        clk,
	}
}

func (l *lifecycleCommandsImpl) AdvanceStatus(
	ctx context.Context,
	orderID uuid.UUID,
	actor Actor,
	note *string,
) (*queries.OrderView, error) {
	if !actor.IsStaff {
		return nil, ErrPermissionDenied
	}

	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := l.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}

		next, err := o.Advance()
		if err != nil {
			return errs.Mark(err, ErrOrderNotAdvancable)
		}

		if err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, next); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Orders().AppendHistory(ctx, tx.DB(), orderID, next, &actor.ID, note); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return l.createStatusNotification(ctx, tx, orderID, o.Code(), next)
	})
	if err != nil {
		return nil, err
	}

	return l.orderQueries.GetByIDSystem(ctx, orderID)
}

func (l *lifecycleCommandsImpl) CancelOrder(
	ctx context.Context,
	orderID uuid.UUID,
	actor Actor,
	reason *string,
) (*queries.OrderView, error) {
	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := l.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		// Ownership failures read as "does not exist" to non-owners.
		if !actor.IsStaff && o.UserID() != actor.ID {
			return ErrOrderNotFound
		}

		if err := o.Cancel(); err != nil {
			return errs.Mark(err, ErrOrderNotCancelable)
		}

		if err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, order.StatusCancelled); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Orders().CreateCancellation(ctx, tx.DB(), orderID, historyActor(actor), reason); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Cancellation returns the reserved stock to the shelf.
		items, err := tx.Reads().OrderLineItems(ctx, orderID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, item := range items {
			if err := tx.Stock().Restock(ctx, tx.DB(), item.VariantID, item.Quantity); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		if err := tx.Orders().AppendHistory(ctx, tx.DB(), orderID, order.StatusCancelled, historyActor(actor), reason); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return l.createStatusNotification(ctx, tx, orderID, o.Code(), order.StatusCancelled)
	})
	if err != nil {
		return nil, err
	}

	return l.orderQueries.GetByIDSystem(ctx, orderID)
}

func (l *lifecycleCommandsImpl) ReturnOrder(
	ctx context.Context,
	orderID uuid.UUID,
	actor Actor,
	req reqdto.ReturnOrderRequest,
) (*queries.OrderView, error) {
	requested := make([]order.ReturnItem, 0, len(req.Items))
	for _, item := range req.Items {
		requested = append(requested, order.ReturnItem{
			LineItemID: item.LineItemID,
			Quantity:   item.Quantity,
		})
	}

	err := l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		o, err := l.lockOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !actor.IsStaff && o.UserID() != actor.ID {
			return ErrOrderNotFound
		}

		items, err := tx.Reads().OrderLineItems(ctx, orderID)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		lines, totalRefund, err := o.BuildReturn(items, requested)
		if err != nil {
			if errors.Is(err, order.ErrNotReturnable) {
				return errs.Mark(err, ErrOrderNotReturnable)
			}
			return errs.Mark(err, ErrInvalidReturn)
		}

		if _, err := tx.Orders().CreateReturn(ctx, tx.DB(), orderID, lines, totalRefund, req.Reason); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		for _, line := range lines {
			if err := tx.Stock().Restock(ctx, tx.DB(), line.VariantID, line.Quantity); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		if err := tx.Orders().UpdateStatus(ctx, tx.DB(), orderID, order.StatusReturned); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if err := tx.Orders().AppendHistory(ctx, tx.DB(), orderID, order.StatusReturned, historyActor(actor), req.Reason); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return l.createStatusNotification(ctx, tx, orderID, o.Code(), order.StatusReturned)
	})
	if err != nil {
		return nil, err
	}

	return l.orderQueries.GetByIDSystem(ctx, orderID)
}

func (l *lifecycleCommandsImpl) DeleteOrder(ctx context.Context, orderID uuid.UUID, actor Actor) error {
	if !actor.IsStaff {
		return ErrPermissionDenied
	}

	return l.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if _, err := l.lockOrder(ctx, tx, orderID); err != nil {
			return err
		}
		if err := tx.Orders().Delete(ctx, tx.DB(), orderID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (l *lifecycleCommandsImpl) lockOrder(ctx context.Context, tx shared.Tx, orderID uuid.UUID) (*order.Order, error) {
	o, err := tx.Orders().FindByIDForUpdate(ctx, tx.DB(), orderID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return o, nil
}

func (l *lifecycleCommandsImpl) createStatusNotification(
	ctx context.Context,
	tx shared.Tx,
	orderID uuid.UUID,
	code string,
	status order.Status,
) error {
	payload, err := json.Marshal(map[string]any{
		"order_id":   orderID,
		"order_code": code,
		"status":     status.String(),
		"type":       "order_status_changed",
	})
	if err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Notifications().CreateJob(ctx, tx.DB(), "email", "order_status_changed", payload, l.clock.Now()); err != nil {
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func historyActor(actor Actor) *uuid.UUID {
	if actor.IsStaff {
		id := actor.ID
		return &id
	}
	return nil
}
