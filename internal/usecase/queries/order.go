package queries

import (
	"context"

	"github.com/google/uuid"

	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/pkg/errs"
)

var (
	ErrOrderNotFound = errs.New("order not found")
	ErrOrderAccess   = errs.New("order access denied")
	ErrOrderQuery    = errs.New("order query failed")
)

type OrderQueries interface {
	// GetByID is ownership-checked: non-owners without the staff flag see the
	// order as absent, not forbidden.
	GetByID(ctx context.Context, id, requestingUserID uuid.UUID, isStaff bool) (*OrderView, error)
	// GetByIDSystem skips the ownership check for internal flows such as
	// idempotency replay.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
	// ListAll is the staff listing across every user, optionally narrowed to
	// one status. Callers gate it behind the staff check.
	ListAll(ctx context.Context, status *string, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
	History(ctx context.Context, orderID, requestingUserID uuid.UUID, isStaff bool) ([]*OrderHistoryView, error)
}

type OrderReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindByUserIDPaginated(ctx context.Context, userID uuid.UUID, limit int32, after string) ([]*OrderListItem, error)
	FindAllPaginated(ctx context.Context, status *string, limit int32, after string) ([]*OrderListItem, error)
	FindHistory(ctx context.Context, orderID uuid.UUID) ([]*OrderHistoryView, error)
}

type orderQueriesImpl struct {
	readStore OrderReadStore
}

func NewOrderQueries(readStore OrderReadStore) OrderQueries {
	return &orderQueriesImpl{readStore: readStore}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id, requestingUserID uuid.UUID, isStaff bool) (*OrderView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && view.UserID != requestingUserID {
		return nil, ErrOrderNotFound
	}
	return view, nil
}

func (q *orderQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	view, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, errs.Mark(err, ErrOrderQuery)
	}
	return view, nil
}

func (q *orderQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	afterToken := ""
	if after != nil {
		afterToken = after.After
	}

	rows, err := q.readStore.FindByUserIDPaginated(ctx, userID, int32(limit), afterToken)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrOrderQuery)
	}

	var next *Cursor
	if len(rows) == limit {
		last := rows[len(rows)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}
	return rows, next, nil
}

func (q *orderQueriesImpl) ListAll(ctx context.Context, status *string, after *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	afterToken := ""
	if after != nil {
		afterToken = after.After
	}

	rows, err := q.readStore.FindAllPaginated(ctx, status, int32(limit), afterToken)
	if err != nil {
		return nil, nil, errs.Mark(err, ErrOrderQuery)
	}

	var next *Cursor
	if len(rows) == limit {
		last := rows[len(rows)-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
	}
	return rows, next, nil
}

func (q *orderQueriesImpl) History(ctx context.Context, orderID, requestingUserID uuid.UUID, isStaff bool) ([]*OrderHistoryView, error) {
	if _, err := q.GetByID(ctx, orderID, requestingUserID, isStaff); err != nil {
		return nil, err
	}

	entries, err := q.readStore.FindHistory(ctx, orderID)
	if err != nil {
		return nil, errs.Mark(err, ErrOrderQuery)
	}
	return entries, nil
}
