package shared

import (
	"context"
	"time"

	"shop-order-engine/internal/domain/coupon"
	"shop-order-engine/internal/domain/order"
	"shop-order-engine/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Orders() OrderRepository
	Stock() StockRepository
	Coupons() CouponRepository
	Carts() CartRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Users() UserRepository
	Reads() CommandReads
	DB() db.DBTX
}

type CommandReads interface {
	CartLinesForCheckout(ctx context.Context, userID uuid.UUID, cartLineIDs []uuid.UUID) ([]CartLineSnapshot, error)
	AddressByID(ctx context.Context, id, userID uuid.UUID) (*AddressSnapshot, error)
	PaymentMethodByID(ctx context.Context, id uuid.UUID) (*PaymentMethodSnapshot, error)
	VariantByID(ctx context.Context, id uuid.UUID) (*VariantSnapshot, error)
	CouponByCode(ctx context.Context, code string) (*coupon.Coupon, error)
	CouponUsageCount(ctx context.Context, couponID, userID uuid.UUID) (int64, error)
	OrderByID(ctx context.Context, id uuid.UUID) (*order.Order, error)
	OrderLineItems(ctx context.Context, orderID uuid.UUID) ([]order.LineItem, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
}

type OrderRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, o *order.Order, items []order.LineItem) (uuid.UUID, error)
	CodeExists(ctx context.Context, dbtx db.DBTX, code string) (bool, error)
	FindByIDForUpdate(ctx context.Context, dbtx db.DBTX, id uuid.UUID) (*order.Order, error)
	UpdateStatus(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID, status order.Status) error
	AppendHistory(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID, status order.Status, actorID *uuid.UUID, note *string) error
	CreateCancellation(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID, actorID *uuid.UUID, reason *string) error
	CreateReturn(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID, lines []order.ReturnLine, totalRefundCents int64, reason *string) (uuid.UUID, error)
	Delete(ctx context.Context, dbtx db.DBTX, orderID uuid.UUID) error
}

type StockRepository interface {
	// Reserve decrements atomically and fails if stock would go negative.
	Reserve(ctx context.Context, dbtx db.DBTX, variantID uuid.UUID, quantity int32) error
	Restock(ctx context.Context, dbtx db.DBTX, variantID uuid.UUID, quantity int32) error
}

type CouponRepository interface {
	// FindByCodeForUpdate takes an exclusive row lock on the coupon.
	FindByCodeForUpdate(ctx context.Context, dbtx db.DBTX, code string) (*coupon.Coupon, error)
	CountUsagesByUser(ctx context.Context, dbtx db.DBTX, couponID, userID uuid.UUID) (int64, error)
	IncrementUsage(ctx context.Context, dbtx db.DBTX, couponID uuid.UUID) error
	InsertUsage(ctx context.Context, dbtx db.DBTX, userID, couponID, orderID uuid.UUID) error
}

type CartRepository interface {
	// Upsert sets the line to the given quantity; an existing line for the
	// variant is overwritten, not accumulated.
	Upsert(ctx context.Context, dbtx db.DBTX, userID, variantID uuid.UUID, quantity int32) (uuid.UUID, error)
	UpdateQuantity(ctx context.Context, dbtx db.DBTX, userID, cartLineID uuid.UUID, quantity int32) error
	DeleteByVariant(ctx context.Context, dbtx db.DBTX, userID, variantID uuid.UUID) error
	DeleteByIDs(ctx context.Context, dbtx db.DBTX, userID uuid.UUID, cartLineIDs []uuid.UUID) error
	DeleteAll(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error
}

type IdempotencyRepository interface {
	// TryInsert reports whether this call claimed the key. false means a row
	// for (key, user) already existed.
	TryInsert(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	UpdateStatusCompleted(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, resultHash string, orderID uuid.UUID) error
	ClaimExpiredKey(ctx context.Context, dbtx db.DBTX, key, userID uuid.UUID, requestHash string, expiresAt time.Time) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, dbtx db.DBTX, kind, topic string, payload []byte, runAt time.Time) error
}

type UserRepository interface {
	Create(ctx context.Context, dbtx db.DBTX, email, passwordHash string, isStaff bool) (uuid.UUID, error)
	UpdateLastLogin(ctx context.Context, dbtx db.DBTX, userID uuid.UUID) error
}
