//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"shop-order-engine/internal/handler/api"
	resdto "shop-order-engine/internal/handler/dto/response"
	"shop-order-engine/internal/usecase/commands"
	"shop-order-engine/internal/usecase/queries"
	"shop-order-engine/tests/common/httptest"
	commandsmock "shop-order-engine/tests/mock/commands"
	queriesmock "shop-order-engine/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type CouponHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCouponCommands
	mockQueries  *queriesmock.MockCouponQueries
	handler      *api.CouponHandler
	userID       uuid.UUID
}

func (s *CouponHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.userID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCouponCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCouponQueries(s.mockCtrl)
	s.handler = api.NewCouponHandler(s.mockCommands, s.mockQueries)

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", s.userID)
		c.Set("is_staff", false)
		c.Next()
	}

	s.router.GET("/coupons", s.handler.ListActive)
	s.router.GET("/coupons/:code", s.handler.GetByCode)
	s.router.POST("/coupons/validate", authMiddleware, s.handler.Validate)
}

func (s *CouponHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCouponHandlerSuite(t *testing.T) {
	suite.Run(t, new(CouponHandlerTestSuite))
}

func couponView(code string) *queries.CouponView {
	now := time.Now()
	return &queries.CouponView{
		ID:         uuid.New(),
		Code:       code,
		Type:       "percentage",
		Value:      10,
		ValidFrom:  now.Add(-time.Hour),
		ValidUntil: now.Add(24 * time.Hour),
		IsActive:   true,
	}
}

// ================================================================================
// TestValidate
// ================================================================================

func (s *CouponHandlerTestSuite) TestValidate() {
	url := "/coupons/validate"
	reqBody := map[string]any{"code": "SAVE10"}

	s.Run("success: returns 200 OK for a usable coupon", func() {
		couponID := uuid.New()
		result := &commands.CouponValidationResult{
			Valid:         true,
			Message:       "coupon is valid",
			CouponID:      &couponID,
			Code:          "SAVE10",
			DiscountCents: 500,
		}
		s.mockCommands.EXPECT().ValidateCoupon(gomock.Any(), s.userID, gomock.Any()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.CouponValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.True(response.Valid)
		s.Equal("SAVE10", response.Code)
		s.Equal(int64(500), response.DiscountCents)
	})

	s.Run("success: a failed business rule is still a 200 with valid=false", func() {
		result := &commands.CouponValidationResult{
			Valid:   false,
			Message: "coupon has expired",
			Code:    "SAVE10",
		}
		s.mockCommands.EXPECT().ValidateCoupon(gomock.Any(), s.userID, gomock.Any()).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response resdto.CouponValidationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.False(response.Valid)
		s.Contains(response.Message, "expired")
	})

	s.Run("error: 400 Bad Request when code is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 500 Internal Server Error on command failure", func() {
		s.mockCommands.EXPECT().ValidateCoupon(gomock.Any(), s.userID, gomock.Any()).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestGetByCode
// ================================================================================

func (s *CouponHandlerTestSuite) TestGetByCode() {
	view := couponView("SAVE10")
	url := "/coupons/SAVE10"

	s.Run("success: returns 200 OK with CouponResponse", func() {
		s.mockQueries.EXPECT().GetByCode(gomock.Any(), "SAVE10").
			Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")

		var response resdto.CouponResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Equal(view.ID.String(), response.ID)
		s.Equal("SAVE10", response.Code)
		s.Equal("percentage", response.Type)
	})

	s.Run("error: 404 Not Found for unknown code", func() {
		s.mockQueries.EXPECT().GetByCode(gomock.Any(), "SAVE10").
			Return(nil, queries.ErrCouponNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Coupon not found")
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockQueries.EXPECT().GetByCode(gomock.Any(), "SAVE10").
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestListActive
// ================================================================================

func (s *CouponHandlerTestSuite) TestListActive() {
	baseURL := "/coupons"

	items := []*queries.CouponView{
		couponView("SAVE10"),
		couponView("FREESHIP"),
	}

	s.Run("success: returns active coupons with default limit", func() {
		s.mockQueries.EXPECT().ListActive(gomock.Any(), 20).
			Return(items, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL, nil, "")

		var response map[string]any
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		coupons, ok := response["coupons"].([]any)
		s.True(ok)
		s.Equal(len(items), len(coupons))
	})

	s.Run("success: limit parameter is honored", func() {
		s.mockQueries.EXPECT().ListActive(gomock.Any(), 5).
			Return(items[:1], nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL+"?limit=5", nil, "")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, nil)
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockQueries.EXPECT().ListActive(gomock.Any(), 20).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, baseURL, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
