//go:build unit || e2e

package dbtest

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// bcrypt hash of "password123"
const testPasswordHash = "$2a$12$uhAjVE9f92IGYv3E25pJNetg.27lVt0p7jmLWjqjmhOg92ldPS0A."

func CreateTestUser(t *testing.T, db DBLike, email string, isStaff bool) uuid.UUID {
	t.Helper()

	userID := uuid.New()
	ctx := context.Background()

	tag, err := db.Exec(ctx,
		"INSERT INTO users (id, email, password_hash, is_staff, is_active) VALUES ($1, $2, $3, $4, TRUE) ON CONFLICT (email) WHERE is_active = TRUE DO NOTHING",
		userID, email, testPasswordHash, isStaff)
	require.NoError(t, err)

	if tag.RowsAffected() == 0 {
		_ = db.QueryRow(ctx, "SELECT id FROM users WHERE email = $1 AND is_active = TRUE", email).Scan(&userID)
	}

	return userID
}

// CreateTestVariant creates a published product with one active variant and
// returns the variant id.
func CreateTestVariant(t *testing.T, db DBLike, name, sku string, priceCents, salePriceCents int64, stock int32) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	productID := uuid.New()
	variantID := uuid.New()

	_, err := db.Exec(ctx,
		"INSERT INTO products (id, name, is_published) VALUES ($1, $2, TRUE)",
		productID, name)
	require.NoError(t, err)

	_, err = db.Exec(ctx,
		`INSERT INTO product_variants (id, product_id, sku, price_cents, sale_price_cents, stock, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
		variantID, productID, sku, priceCents, salePriceCents, stock)
	require.NoError(t, err)

	return variantID
}

func CreateTestCoupon(t *testing.T, db DBLike, code, discountType string, valueCents int64) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	couponID := uuid.New()

	now := time.Now().UTC()
	_, err := db.Exec(ctx,
		`INSERT INTO coupons (id, code, discount_type, value_cents, starts_at, ends_at, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, TRUE)`,
		couponID, code, discountType, valueCents, now.Add(-time.Hour), now.Add(24*time.Hour))
	require.NoError(t, err)

	return couponID
}

// CreateTestCouponWithLimits creates a coupon carrying usage caps. A nil cap
// means unlimited.
func CreateTestCouponWithLimits(t *testing.T, db DBLike, code, discountType string, valueCents int64, perCoupon, perUser *int32) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	couponID := uuid.New()

	now := time.Now().UTC()
	_, err := db.Exec(ctx,
		`INSERT INTO coupons (id, code, discount_type, value_cents, starts_at, ends_at, usage_limit_per_coupon, usage_limit_per_user, is_active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)`,
		couponID, code, discountType, valueCents, now.Add(-time.Hour), now.Add(24*time.Hour), perCoupon, perUser)
	require.NoError(t, err)

	return couponID
}

func CreateTestAddress(t *testing.T, db DBLike, userID uuid.UUID) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	addressID := uuid.New()

	_, err := db.Exec(ctx,
		`INSERT INTO delivery_addresses (id, user_id, recipient_name, phone_number, address_line)
		 VALUES ($1, $2, 'Test Recipient', '0900000000', '1 Test Street')`,
		addressID, userID)
	require.NoError(t, err)

	return addressID
}

func AddCartItem(t *testing.T, db DBLike, userID, variantID uuid.UUID, quantity int32) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	var lineID uuid.UUID
	err := db.QueryRow(ctx,
		"INSERT INTO cart_items (user_id, variant_id, quantity) VALUES ($1, $2, $3) RETURNING id",
		userID, variantID, quantity).Scan(&lineID)
	require.NoError(t, err)

	return lineID
}

func ActivePaymentMethodID(t *testing.T, db DBLike) uuid.UUID {
	t.Helper()

	var id uuid.UUID
	err := db.QueryRow(context.Background(),
		"SELECT id FROM payment_methods WHERE is_active = TRUE ORDER BY method_code LIMIT 1").Scan(&id)
	require.NoError(t, err)
	return id
}

// inserts basic reference data needed by tests
func SeedReferenceData(pool *pgxpool.Pool) error {
	ctx := context.Background()

	_, err := pool.Exec(ctx, `
		INSERT INTO payment_methods (id, method_code, method_name, is_active) VALUES
		    (gen_random_uuid(), 'card', 'Credit Card', TRUE),
		    (gen_random_uuid(), 'cod', 'Cash on Delivery', TRUE)
		ON CONFLICT (method_code) DO NOTHING;
	`)
	return err
}

var (
	buildTruncateOnce sync.Once
	truncateSQL       atomic.Value // string
)

// truncates all tables and reseeds reference data
func ResetDB(pool *pgxpool.Pool) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	buildTruncateOnce.Do(func() {
		rows, err := pool.Query(ctx, `
		  SELECT 'public.' || quote_ident(tablename)
		  FROM pg_tables
		  WHERE schemaname = 'public'
		    AND tablename NOT IN ('schema_migrations')`)
		if err != nil {
			truncateSQL.Store("")
			return
		}
		defer rows.Close()
		var tables []string
		for rows.Next() {
			var tbl string
			if err := rows.Scan(&tbl); err != nil {
				truncateSQL.Store("")
				return
			}
			tables = append(tables, tbl)
		}
		if rows.Err() != nil {
			truncateSQL.Store("")
			return
		}
		if len(tables) == 0 {
			truncateSQL.Store("SELECT 1")
			return
		}
		truncateSQL.Store("TRUNCATE " + strings.Join(tables, ", ") + " RESTART IDENTITY CASCADE;")
	})
	sqlAny := truncateSQL.Load()
	if sqlAny == nil || sqlAny.(string) == "" {
		return fmt.Errorf("failed to build TRUNCATE SQL")
	}
	if _, err := pool.Exec(ctx, sqlAny.(string)); err != nil {
		return err
	}

	return SeedReferenceData(pool)
}
