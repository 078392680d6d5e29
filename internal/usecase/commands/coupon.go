package commands

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"shop-order-engine/internal/domain/coupon"
	reqdto "shop-order-engine/internal/handler/dto/request"
	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/pkg/clock"
	"shop-order-engine/internal/pkg/errs"
	"shop-order-engine/internal/usecase/shared"
)

// CouponValidationResult is a structured verdict, not an error: a coupon that
// fails a business rule yields Valid=false with a human-readable reason, so
// the storefront can show it inline.
type CouponValidationResult struct {
	Valid          bool
	Message        string
	CouponID       *uuid.UUID
	Code           string
	DiscountCents  int64
	WaivesShipping bool
}

type CouponCommands interface {
	ValidateCoupon(ctx context.Context, userID uuid.UUID, req reqdto.ValidateCouponRequest) (*CouponValidationResult, error)
}

type couponCommandsImpl struct {
	uow   shared.UnitOfWork
	clock clock.Clock
}

func NewCouponCommands(uow shared.UnitOfWork, clk clock.Clock) CouponCommands {
	return &couponCommandsImpl{uow: uow, clock: clk}
}

func (c *couponCommandsImpl) ValidateCoupon(
	ctx context.Context,
	userID uuid.UUID,
	req reqdto.ValidateCouponRequest,
) (*CouponValidationResult, error) {
	code, err := coupon.NewCode(req.Code)
	if err != nil {
		return invalidResult(req.Code, "invalid coupon code format"), nil
	}

	reads := c.uow.CommandReads()

	cpn, err := reads.CouponByCode(ctx, code.String())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return invalidResult(code.String(), "coupon not found"), nil
		}
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	usageCount, err := reads.CouponUsageCount(ctx, cpn.ID(), userID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}

	orderAmount := int64(0)
	if req.OrderAmountCents != nil {
		orderAmount = *req.OrderAmountCents
	}

	if err := cpn.ValidateAt(c.clock.Now(), orderAmount, usageCount); err != nil {
		// Skip the minimum-order check when the caller did not supply an amount.
		if req.OrderAmountCents != nil || !errors.Is(err, coupon.ErrBelowMinOrderAmount) {
			return invalidResult(code.String(), err.Error()), nil
		}
	}

	var discount int64
	if req.OrderAmountCents != nil {
		discount, err = cpn.DiscountCents(*req.OrderAmountCents)
		if err != nil {
			return nil, errs.Mark(err, ErrDomainValidation)
		}
	}

	couponID := cpn.ID()
	return &CouponValidationResult{
		Valid:          true,
		Message:        "coupon is valid",
		CouponID:       &couponID,
		Code:           cpn.Code().String(),
		DiscountCents:  discount,
		WaivesShipping: cpn.WaivesShipping(),
	}, nil
}

func invalidResult(code, message string) *CouponValidationResult {
	return &CouponValidationResult{
		Valid:   false,
		Message: message,
		Code:    code,
	}
}
