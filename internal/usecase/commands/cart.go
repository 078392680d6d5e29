package commands

import (
	"context"

	"github.com/google/uuid"

	reqdto "shop-order-engine/internal/handler/dto/request"
	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/pkg/errs"
	"shop-order-engine/internal/usecase/shared"
)

var (
	ErrCartVariantNotFound = errs.New("variant not found")
	ErrCartQuantityInvalid = errs.New("cart quantity invalid")
)

type CartCommands interface {
	AddItem(ctx context.Context, userID uuid.UUID, req reqdto.AddCartItemRequest) (uuid.UUID, error)
	UpdateItemQuantity(ctx context.Context, userID, cartLineID uuid.UUID, req reqdto.UpdateCartItemRequest) error
	RemoveItems(ctx context.Context, userID uuid.UUID, cartLineIDs []uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
}

type cartCommandsImpl struct {
	uow shared.UnitOfWork
}

func NewCartCommands(uow shared.UnitOfWork) CartCommands {
	return &cartCommandsImpl{uow: uow}
}

// AddItem sets the cart line for the variant to the requested quantity.
// Quantity zero removes the line; the returned line ID is then uuid.Nil.
func (c *cartCommandsImpl) AddItem(ctx context.Context, userID uuid.UUID, req reqdto.AddCartItemRequest) (uuid.UUID, error) {
	if req.Quantity < 0 {
		return uuid.Nil, ErrCartQuantityInvalid
	}

	var lineID uuid.UUID
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		variant, err := tx.Reads().VariantByID(ctx, req.VariantID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCartVariantNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		// An inactive or unpublished variant reads the same as a missing one.
		if !variant.IsActive || !variant.ProductPublished {
			return ErrCartVariantNotFound
		}

		if req.Quantity == 0 {
			if err := tx.Carts().DeleteByVariant(ctx, tx.DB(), userID, req.VariantID); err != nil {
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
			return nil
		}

		if req.Quantity > variant.Stock {
			return errs.MarkNew("insufficient stock for "+variant.ProductName, ErrInsufficientStock)
		}

		id, err := tx.Carts().Upsert(ctx, tx.DB(), userID, req.VariantID, req.Quantity)
		if err != nil {
			if infra.IsKind(err, infra.KindForeignKeyViolated) {
				return ErrCartVariantNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		lineID = id
		return nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	return lineID, nil
}

func (c *cartCommandsImpl) UpdateItemQuantity(ctx context.Context, userID, cartLineID uuid.UUID, req reqdto.UpdateCartItemRequest) error {
	if req.Quantity <= 0 {
		return ErrCartQuantityInvalid
	}

	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Carts().UpdateQuantity(ctx, tx.DB(), userID, cartLineID, req.Quantity); err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrCartLineNotFound
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *cartCommandsImpl) RemoveItems(ctx context.Context, userID uuid.UUID, cartLineIDs []uuid.UUID) error {
	if len(cartLineIDs) == 0 {
		return nil
	}
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Carts().DeleteByIDs(ctx, tx.DB(), userID, cartLineIDs); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}

func (c *cartCommandsImpl) ClearCart(ctx context.Context, userID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Carts().DeleteAll(ctx, tx.DB(), userID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		return nil
	})
}
