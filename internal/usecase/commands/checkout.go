package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"

	"shop-order-engine/internal/domain/coupon"
	"shop-order-engine/internal/domain/order"
	"shop-order-engine/internal/domain/pricing"
	reqdto "shop-order-engine/internal/handler/dto/request"
	"shop-order-engine/internal/infra"
	"shop-order-engine/internal/pkg/clock"
	"shop-order-engine/internal/pkg/config"
	"shop-order-engine/internal/pkg/errs"
	"shop-order-engine/internal/usecase/queries"
	"shop-order-engine/internal/usecase/shared"
)

var (
	ErrCartEmpty               = errs.New("cart is empty")
	ErrCartLineNotFound        = errs.New("cart line not found")
	ErrVariantUnavailable      = errs.New("variant unavailable")
	ErrInsufficientStock       = errs.New("insufficient stock")
	ErrAddressNotFound         = errs.New("delivery address not found")
	ErrPaymentMethodInvalid    = errs.New("payment method invalid")
	ErrCouponNotFound          = errs.New("coupon not found")
	ErrInvalidCoupon           = errs.New("invalid coupon")
	ErrCouponUsageExceeded     = errs.New("coupon usage limit reached")
	ErrOrderCodeExhausted      = errs.New("order code generation exhausted")
	ErrDuplicateRequest        = errs.New("duplicate request")
	ErrIdempotencyInProgress   = errs.New("idempotency in progress")
	ErrIdempotencyCheckFailed  = errs.New("idempotency check failed")
	ErrDomainValidation        = errs.New("domain validation error")
	ErrSystemConfig            = errs.New("system configuration error")
	ErrDatabaseOperationFailed = errs.New("database operation failed")
)

const createOrderEndpoint = "POST /orders"

type CreateOrderResult struct {
	Order      *queries.OrderView
	IsReplayed bool
}

type CheckoutCommands interface {
	CreateOrder(ctx context.Context, req reqdto.CreateOrderRequest, userID uuid.UUID, idempotencyKey uuid.UUID) (*CreateOrderResult, error)
}

type checkoutCommandsImpl struct {
	uow          shared.UnitOfWork
	orderQueries queries.OrderQueries
	clock        clock.Clock
	cfg          config.CheckoutConfig
}

func NewCheckoutCommands(
	uow shared.UnitOfWork,
	orderQueries queries.OrderQueries,
	clk clock.Clock,
	cfg config.CheckoutConfig,
) CheckoutCommands {
	return &checkoutCommandsImpl{
		uow:          uow,
		orderQueries: orderQueries,
		clock:        clk,
		cfg:          cfg,
	}
}

func (c *checkoutCommandsImpl) CreateOrder(
	ctx context.Context,
	req reqdto.CreateOrderRequest,
	userID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*CreateOrderResult, error) {
	requestHash := calculateRequestHash(req)

	replayed, proceed, err := c.handleIdempotency(ctx, idempotencyKey, userID, requestHash)
	if err != nil {
		return nil, err
	}
	if !proceed {
		return &CreateOrderResult{Order: replayed, IsReplayed: true}, nil
	}

	view, err := c.createNewOrder(ctx, req, userID, idempotencyKey)
	if err != nil {
		return nil, err
	}
	return &CreateOrderResult{Order: view, IsReplayed: false}, nil
}

// handleIdempotency claims the key or resolves what happened to the request
// that holds it. Returns proceed=false with the stored order view on replay.
func (c *checkoutCommandsImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
) (*queries.OrderView, bool, error) {
	expiresAt := c.clock.Now().Add(c.cfg.IdempotencyTTL)

	var record *shared.IdempotencyRecord
	var claimed bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		inserted, err := tx.Idempotency().TryInsert(ctx, tx.DB(), idempotencyKey, userID, createOrderEndpoint, requestHash, expiresAt)
		if err != nil {
			return err
		}
		if inserted {
			claimed = true
			return nil
		}

		existing, err := tx.Reads().IdempotencyByKey(ctx, idempotencyKey, userID)
		if err != nil {
			return err
		}

		if existing.Status == "processing" && existing.ExpiresAt.Before(c.clock.Now()) {
			// The previous attempt died without completing; take over its key.
			n, err := tx.Idempotency().ClaimExpiredKey(ctx, tx.DB(), idempotencyKey, userID, requestHash, expiresAt)
			if err != nil {
				return err
			}
			if n > 0 {
				claimed = true
				return nil
			}
		}

		record = existing
		return nil
	})
	if err != nil {
		return nil, false, errs.Mark(err, ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, true, nil
	}

	switch record.Status {
	case "completed":
		if record.RequestHash != requestHash {
			return nil, false, ErrDuplicateRequest
		}
		if record.ResultOrderID == nil {
			return nil, false, errs.New("completed request missing result order ID")
		}
		view, err := c.orderQueries.GetByIDSystem(ctx, *record.ResultOrderID)
		if err != nil {
			return nil, false, errs.Mark(err, ErrIdempotencyCheckFailed)
		}
		return view, false, nil

	case "processing":
		if record.RequestHash != requestHash {
			return nil, false, ErrDuplicateRequest
		}
		return nil, false, ErrIdempotencyInProgress

	default:
		return nil, false, errs.New("invalid idempotency key status")
	}
}

func (c *checkoutCommandsImpl) createNewOrder(
	ctx context.Context,
	req reqdto.CreateOrderRequest,
	userID, idempotencyKey uuid.UUID,
) (*queries.OrderView, error) {
	initialStatus, err := order.ParseStatus(c.cfg.InitialOrderStatus)
	if err != nil {
		return nil, errs.Mark(err, ErrSystemConfig)
	}

	var (
		orderID       uuid.UUID
		consumedLines []uuid.UUID
	)
	explicitSubset := len(req.CartLineIDs) > 0

	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if req.DeliveryAddressID != nil {
			if _, err := tx.Reads().AddressByID(ctx, *req.DeliveryAddressID, userID); err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return ErrAddressNotFound
				}
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		pm, err := tx.Reads().PaymentMethodByID(ctx, req.PaymentMethodID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrPaymentMethodInvalid
			}
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !pm.IsActive {
			return ErrPaymentMethodInvalid
		}

		snapshots, err := tx.Reads().CartLinesForCheckout(ctx, userID, req.CartLineIDs)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if explicitSubset && len(snapshots) != len(req.CartLineIDs) {
			return ErrCartLineNotFound
		}
		if len(snapshots) == 0 {
			return ErrCartEmpty
		}

		lines, err := validateAndPriceLines(snapshots)
		if err != nil {
			return err
		}

		coupons, err := c.lockAndValidateCoupons(ctx, tx, userID, req.NormalizedCouponCodes(), postPromotionAmount(lines))
		if err != nil {
			return err
		}

		totals, err := pricing.ComputeTotals(lines, coupons, c.cfg.ShippingFeeCents, c.cfg.TaxRatePercent)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}

		code, err := c.generateUniqueCode(ctx, tx)
		if err != nil {
			return err
		}

		newOrder, err := order.NewOrder(code, userID, initialStatus, order.Amounts{
			TotalCents:    totals.TotalCents,
			DiscountCents: totals.DiscountCents,
			ShippingCents: totals.ShippingCents,
			TaxCents:      totals.TaxCents,
			FinalCents:    totals.FinalCents,
		}, req.DeliveryAddressID, req.PaymentMethodID, req.Note)
		if err != nil {
			return errs.Mark(err, ErrDomainValidation)
		}
		items, err := buildLineItems(snapshots)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		orderID, err = tx.Orders().Create(ctx, tx.DB(), newOrder, items)
		if err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		for _, snap := range snapshots {
			if err := tx.Stock().Reserve(ctx, tx.DB(), snap.VariantID, snap.Quantity); err != nil {
				if infra.IsKind(err, infra.KindInsufficientStock) {
					return errs.MarkNew("insufficient stock for "+snap.ProductName, ErrInsufficientStock)
				}
				return errs.Mark(err, ErrDatabaseOperationFailed)
			}
		}

		note := "Order created"
		if err := tx.Orders().AppendHistory(ctx, tx.DB(), orderID, initialStatus, nil, &note); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		// Only coupons that actually took part in the totals consume usage.
		// A coupon skipped mid-stack for missing its minimum stays unspent.
		couponsByID := make(map[uuid.UUID]*coupon.Coupon, len(coupons))
		for _, cpn := range coupons {
			couponsByID[cpn.ID()] = cpn
		}
		for _, id := range totals.AppliedCouponIDs {
			if err := c.recordCouponUsage(ctx, tx, userID, couponsByID[id], orderID); err != nil {
				return err
			}
		}

		if err := tx.Idempotency().UpdateStatusCompleted(ctx, tx.DB(), idempotencyKey, userID, calculateIDHash(orderID), orderID); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := c.createOrderNotification(ctx, tx, orderID, code); err != nil {
			return errs.Mark(err, ErrDatabaseOperationFailed)
		}

		consumedLines = make([]uuid.UUID, 0, len(snapshots))
		for _, snap := range snapshots {
			consumedLines = append(consumedLines, snap.CartLineID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.cleanupCart(ctx, userID, consumedLines, explicitSubset)

	view, err := c.orderQueries.GetByIDSystem(ctx, orderID)
	if err != nil {
		return nil, errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return view, nil
}

func validateAndPriceLines(snapshots []shared.CartLineSnapshot) ([]pricing.Line, error) {
	lines := make([]pricing.Line, 0, len(snapshots))
	for _, snap := range snapshots {
		if !snap.VariantActive || !snap.ProductPublished {
			return nil, errs.MarkNew(snap.ProductName+" is no longer available", ErrVariantUnavailable)
		}
		// Pre-check only. The atomic decrement is the final authority.
		if snap.Quantity > snap.Stock {
			return nil, errs.MarkNew("insufficient stock for "+snap.ProductName, ErrInsufficientStock)
		}
		lines = append(lines, pricing.Line{
			VariantID:      snap.VariantID,
			Quantity:       snap.Quantity,
			ListPriceCents: snap.ListPriceCents,
			SalePriceCents: snap.SalePriceCents,
		})
	}
	return lines, nil
}

func buildLineItems(snapshots []shared.CartLineSnapshot) ([]order.LineItem, error) {
	items := make([]order.LineItem, 0, len(snapshots))
	for _, snap := range snapshots {
		var item order.LineItem
		if err := copier.Copy(&item, &snap); err != nil {
			return nil, errs.Wrap(err, "failed to build line item snapshot")
		}
		// List price is the price of record; the sale price rides along.
		item.PriceCents = snap.ListPriceCents
		items = append(items, item)
	}
	return items, nil
}

func postPromotionAmount(lines []pricing.Line) int64 {
	var amount int64
	for _, l := range lines {
		amount += int64(l.Quantity) * l.EffectiveUnitPriceCents()
	}
	return amount
}

// lockAndValidateCoupons takes the coupon row locks in code order so two
// checkouts holding overlapping coupon sets cannot deadlock each other.
// Application order for stacking follows the request order.
func (c *checkoutCommandsImpl) lockAndValidateCoupons(
	ctx context.Context,
	tx shared.Tx,
	userID uuid.UUID,
	codes []string,
	orderAmountCents int64,
) ([]*coupon.Coupon, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	normalized := make([]coupon.Code, 0, len(codes))
	for _, raw := range codes {
		code, err := coupon.NewCode(raw)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidCoupon)
		}
		normalized = append(normalized, code)
	}

	lockOrder := make([]coupon.Code, len(normalized))
	copy(lockOrder, normalized)
	sort.Slice(lockOrder, func(i, j int) bool { return lockOrder[i] < lockOrder[j] })

	locked := make(map[coupon.Code]*coupon.Coupon, len(lockOrder))
	for _, code := range lockOrder {
		if _, dup := locked[code]; dup {
			return nil, errs.Mark(coupon.ErrDuplicateCoupon, ErrInvalidCoupon)
		}
		cpn, err := tx.Coupons().FindByCodeForUpdate(ctx, tx.DB(), code.String())
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return nil, errs.MarkNew("coupon "+code.String()+" not found", ErrCouponNotFound)
			}
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}

		usageCount, err := tx.Coupons().CountUsagesByUser(ctx, tx.DB(), cpn.ID(), userID)
		if err != nil {
			return nil, errs.Mark(err, ErrDatabaseOperationFailed)
		}

		if err := cpn.ValidateAt(c.clock.Now(), orderAmountCents, usageCount); err != nil {
			return nil, errs.Mark(err, ErrInvalidCoupon)
		}
		locked[code] = cpn
	}

	coupons := make([]*coupon.Coupon, 0, len(normalized))
	for _, code := range normalized {
		coupons = append(coupons, locked[code])
	}
	return coupons, nil
}

func (c *checkoutCommandsImpl) generateUniqueCode(ctx context.Context, tx shared.Tx) (string, error) {
	for attempt := 0; attempt < c.cfg.OrderCodeMaxAttempts; attempt++ {
		code, err := order.GenerateCode(c.cfg.OrderCodePrefix, c.clock.Now())
		if err != nil {
			return "", errs.Mark(err, ErrDatabaseOperationFailed)
		}
		exists, err := tx.Orders().CodeExists(ctx, tx.DB(), code)
		if err != nil {
			return "", errs.Mark(err, ErrDatabaseOperationFailed)
		}
		if !exists {
			return code, nil
		}
	}
	return "", ErrOrderCodeExhausted
}

// recordCouponUsage increments the locked counter and appends the ledger row.
// Both statements are guarded so a cap can never be overshot even if the
// earlier validation raced.
func (c *checkoutCommandsImpl) recordCouponUsage(
	ctx context.Context,
	tx shared.Tx,
	userID uuid.UUID,
	cpn *coupon.Coupon,
	orderID uuid.UUID,
) error {
	if err := tx.Coupons().IncrementUsage(ctx, tx.DB(), cpn.ID()); err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return errs.MarkNew("coupon "+cpn.Code().String()+" usage limit reached", ErrCouponUsageExceeded)
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	if err := tx.Coupons().InsertUsage(ctx, tx.DB(), userID, cpn.ID(), orderID); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return errs.MarkNew("coupon "+cpn.Code().String()+" already recorded for this order", ErrCouponUsageExceeded)
		}
		return errs.Mark(err, ErrDatabaseOperationFailed)
	}
	return nil
}

func (c *checkoutCommandsImpl) createOrderNotification(ctx context.Context, tx shared.Tx, orderID uuid.UUID, code string) error {
	payload, err := json.Marshal(map[string]any{
		"order_id":   orderID,
		"order_code": code,
		"type":       "order_created",
	})
	if err != nil {
		return err
	}
	return tx.Notifications().CreateJob(ctx, tx.DB(), "email", "order_created", payload, c.clock.Now())
}

// cleanupCart is best-effort: the order is already committed, so a failure
// here is logged and left for the next checkout or an explicit clear.
func (c *checkoutCommandsImpl) cleanupCart(ctx context.Context, userID uuid.UUID, consumed []uuid.UUID, explicitSubset bool) {
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if explicitSubset {
			return tx.Carts().DeleteByIDs(ctx, tx.DB(), userID, consumed)
		}
		return tx.Carts().DeleteAll(ctx, tx.DB(), userID)
	})
	if err != nil {
		slog.Warn("failed to clear cart after checkout",
			"user_id", userID,
			"error", err.Error())
	}
}

func calculateRequestHash(req reqdto.CreateOrderRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}
