//go:build e2e

package order_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	nethttptest "net/http/httptest"
	"sync"
	"testing"

	"shop-order-engine/internal/handler/dto/request"
	"shop-order-engine/tests/common/authtest"
	"shop-order-engine/tests/common/dbtest"
	"shop-order-engine/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type concurrencySuite struct {
	e2e.SharedSuite
}

func TestConcurrencySuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(concurrencySuite))
}

// checkoutAttempt is one pre-built checkout request to be fired in parallel.
type checkoutAttempt struct {
	token string
	body  request.CreateOrderRequest
}

// raceCheckouts fires every attempt at the same time and collects the status
// codes. The requests run in goroutines, so all assertions stay out here.
func (s *concurrencySuite) raceCheckouts(attempts []checkoutAttempt) []int {
	t := s.T()

	payloads := make([][]byte, len(attempts))
	for i, a := range attempts {
		raw, err := json.Marshal(a.body)
		require.NoError(t, err)
		payloads[i] = raw
	}

	codes := make(chan int, len(attempts))
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i, a := range attempts {
		wg.Add(1)
		go func(token string, payload []byte) {
			defer wg.Done()
			req := nethttptest.NewRequest(http.MethodPost, ordersURL, bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			req.Header.Set("Idempotency-Key", uuid.NewString())
			w := nethttptest.NewRecorder()
			<-start
			s.Router.ServeHTTP(w, req)
			codes <- w.Code
		}(a.token, payloads[i])
	}
	close(start)
	wg.Wait()
	close(codes)

	var results []int
	for code := range codes {
		results = append(results, code)
	}
	return results
}

func countCreated(codes []int) (created int, rest []int) {
	for _, code := range codes {
		if code == http.StatusCreated {
			created++
		} else {
			rest = append(rest, code)
		}
	}
	return created, rest
}

func (s *concurrencySuite) TestCheckoutRaces() {
	s.Run("two checkouts racing the last unit", func() {
		t := s.T()
		buyerA := authtest.CreateAndLogin(t, s.DB, s.Router, "racer-a@example.com", false)
		buyerB := authtest.CreateAndLogin(t, s.DB, s.Router, "racer-b@example.com", false)

		variantID := dbtest.CreateTestVariant(t, s.DB, "Last Unit Tee", "TEE-LAST-1", 2500, 2000, 1)
		for _, email := range []string{"racer-a@example.com", "racer-b@example.com"} {
			var buyerID uuid.UUID
			err := s.DB.QueryRow(context.Background(), "SELECT id FROM users WHERE email = $1", email).Scan(&buyerID)
			require.NoError(t, err)
			dbtest.AddCartItem(t, s.DB, buyerID, variantID, 1)
		}
		pmID := dbtest.ActivePaymentMethodID(t, s.DB)

		codes := s.raceCheckouts([]checkoutAttempt{
			{token: buyerA, body: request.CreateOrderRequest{PaymentMethodID: pmID}},
			{token: buyerB, body: request.CreateOrderRequest{PaymentMethodID: pmID}},
		})

		created, rest := countCreated(codes)
		require.Equal(t, 1, created, "exactly one checkout may win the last unit: %v", codes)
		require.Equal(t, []int{http.StatusConflict}, rest)

		var stock int32
		err := s.DB.QueryRow(context.Background(),
			"SELECT stock FROM product_variants WHERE id = $1", variantID).Scan(&stock)
		require.NoError(t, err)
		require.Equal(t, int32(0), stock, "stock must never go negative")
	})

	s.Run("coupon capped at one use raced by two buyers", func() {
		t := s.T()
		buyerA := authtest.CreateAndLogin(t, s.DB, s.Router, "racer-a@example.com", false)
		buyerB := authtest.CreateAndLogin(t, s.DB, s.Router, "racer-b@example.com", false)

		variantID := dbtest.CreateTestVariant(t, s.DB, "Plenty Tee", "TEE-PLENTY-1", 2500, 2000, 100)
		for _, email := range []string{"racer-a@example.com", "racer-b@example.com"} {
			var buyerID uuid.UUID
			err := s.DB.QueryRow(context.Background(), "SELECT id FROM users WHERE email = $1", email).Scan(&buyerID)
			require.NoError(t, err)
			dbtest.AddCartItem(t, s.DB, buyerID, variantID, 2)
		}
		pmID := dbtest.ActivePaymentMethodID(t, s.DB)

		perCoupon := int32(1)
		couponID := dbtest.CreateTestCouponWithLimits(t, s.DB, "ONCE", "fixed", 500, &perCoupon, nil)

		codes := s.raceCheckouts([]checkoutAttempt{
			{token: buyerA, body: request.CreateOrderRequest{PaymentMethodID: pmID, CouponCodes: []string{"ONCE"}}},
			{token: buyerB, body: request.CreateOrderRequest{PaymentMethodID: pmID, CouponCodes: []string{"ONCE"}}},
		})

		created, rest := countCreated(codes)
		require.Equal(t, 1, created, "the single-use coupon may back exactly one order: %v", codes)
		require.Len(t, rest, 1)
		require.Contains(t, []int{http.StatusConflict, http.StatusUnprocessableEntity}, rest[0])

		var currentUsage int32
		err := s.DB.QueryRow(context.Background(),
			"SELECT current_usage FROM coupons WHERE id = $1", couponID).Scan(&currentUsage)
		require.NoError(t, err)
		require.Equal(t, int32(1), currentUsage, "usage counter must never overshoot its cap")
	})

	s.Run("per-user cap raced by one buyer over two cart lines", func() {
		t := s.T()
		token := authtest.CreateAndLogin(t, s.DB, s.Router, "eager@example.com", false)

		var buyerID uuid.UUID
		err := s.DB.QueryRow(context.Background(),
			"SELECT id FROM users WHERE email = 'eager@example.com'").Scan(&buyerID)
		require.NoError(t, err)

		variantA := dbtest.CreateTestVariant(t, s.DB, "Tee A", "TEE-A-1", 2500, 2000, 100)
		variantB := dbtest.CreateTestVariant(t, s.DB, "Tee B", "TEE-B-1", 2500, 2000, 100)
		lineA := dbtest.AddCartItem(t, s.DB, buyerID, variantA, 2)
		lineB := dbtest.AddCartItem(t, s.DB, buyerID, variantB, 2)
		pmID := dbtest.ActivePaymentMethodID(t, s.DB)

		perUser := int32(1)
		couponID := dbtest.CreateTestCouponWithLimits(t, s.DB, "PERUSER", "fixed", 500, nil, &perUser)

		codes := s.raceCheckouts([]checkoutAttempt{
			{token: token, body: request.CreateOrderRequest{
				PaymentMethodID: pmID, CouponCodes: []string{"PERUSER"}, CartLineIDs: []uuid.UUID{lineA},
			}},
			{token: token, body: request.CreateOrderRequest{
				PaymentMethodID: pmID, CouponCodes: []string{"PERUSER"}, CartLineIDs: []uuid.UUID{lineB},
			}},
		})

		created, rest := countCreated(codes)
		require.Equal(t, 1, created, "the per-user cap allows exactly one of the racing checkouts: %v", codes)
		require.Len(t, rest, 1)
		require.Contains(t, []int{http.StatusConflict, http.StatusUnprocessableEntity}, rest[0])

		var usages int
		err = s.DB.QueryRow(context.Background(),
			"SELECT COUNT(*) FROM coupon_usages WHERE coupon_id = $1 AND user_id = $2",
			couponID, buyerID).Scan(&usages)
		require.NoError(t, err)
		require.Equal(t, 1, usages)
	})
}
