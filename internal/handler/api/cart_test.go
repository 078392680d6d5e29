//go:build unit

package api_test

import (
	"errors"
	"net/http"
	"testing"

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

type CartHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockCartCommands
	mockQueries  *queriesmock.MockCartQueries
	handler      *api.CartHandler
	userID       uuid.UUID
}

func (s *CartHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()
	s.userID = uuid.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockCartCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockCartQueries(s.mockCtrl)
	s.handler = api.NewCartHandler(s.mockCommands, s.mockQueries)

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

	s.router.GET("/cart", authMiddleware, s.handler.Get)
	s.router.DELETE("/cart", authMiddleware, s.handler.Clear)
	s.router.POST("/cart/items", authMiddleware, s.handler.AddItem)
	s.router.DELETE("/cart/items", authMiddleware, s.handler.RemoveItems)
	s.router.PUT("/cart/items/:id", authMiddleware, s.handler.UpdateItem)
}

func (s *CartHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestCartHandlerSuite(t *testing.T) {
	suite.Run(t, new(CartHandlerTestSuite))
}

func cartSummary() *queries.CartSummaryView {
	return &queries.CartSummaryView{
		Lines: []*queries.CartLineView{
			{
				ID:             uuid.New(),
				VariantID:      uuid.New(),
				ProductName:    "Basic Tee",
				SKU:            "TEE-BLK-M",
				Quantity:       2,
				ListPriceCents: 2500,
				SalePriceCents: 2000,
				Stock:          10,
			},
		},
		SubtotalCents:  5000,
		PromotionCents: 1000,
	}
}

// ================================================================================
// TestGet
// ================================================================================

func (s *CartHandlerTestSuite) TestGet() {
	url := "/cart"

	s.Run("success: returns 200 OK with the cart summary", func() {
		summary := cartSummary()
		s.mockQueries.EXPECT().GetCart(gomock.Any(), s.userID).
			Return(summary, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.CartSummaryResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Len(response.Lines, 1)
		s.Equal(int64(5000), response.SubtotalCents)
		s.Equal(int64(1000), response.PromotionCents)
	})

	s.Run("success: empty cart yields zero subtotal", func() {
		s.mockQueries.EXPECT().GetCart(gomock.Any(), s.userID).
			Return(&queries.CartSummaryView{Lines: []*queries.CartLineView{}}, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")

		var response resdto.CartSummaryResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &response)
		s.Empty(response.Lines)
		s.Zero(response.SubtotalCents)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 500 Internal Server Error on query failure", func() {
		s.mockQueries.EXPECT().GetCart(gomock.Any(), s.userID).
			Return(nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestAddItem
// ================================================================================

func (s *CartHandlerTestSuite) TestAddItem() {
	url := "/cart/items"
	reqBody := map[string]any{"variant_id": uuid.New().String(), "quantity": 2}

	s.Run("success: returns 201 Created with the cart line ID", func() {
		lineID := uuid.New()
		s.mockCommands.EXPECT().AddItem(gomock.Any(), s.userID, gomock.Any()).
			Return(lineID, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")

		var response map[string]string
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &response)
		s.Equal(lineID.String(), response["cart_line_id"])
	})

	s.Run("success: returns 204 No Content when quantity zero removes the line", func() {
		s.mockCommands.EXPECT().AddItem(gomock.Any(), s.userID, gomock.Any()).
			Return(uuid.Nil, nil).Times(1)

		body := map[string]any{"variant_id": uuid.New().String(), "quantity": 0}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
		s.Empty(rec.Body.String())
	})

	s.Run("error: 400 Bad Request on validation errors", func() {
		testCases := []struct {
			name string
			body map[string]any
		}{
			{name: "missing variant_id", body: map[string]any{"quantity": 2}},
			{name: "negative quantity", body: map[string]any{"variant_id": uuid.New().String(), "quantity": -1}},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, tc.body, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
			})
		}
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 404 Not Found for unknown variant", func() {
		s.mockCommands.EXPECT().AddItem(gomock.Any(), s.userID, gomock.Any()).
			Return(uuid.Nil, commands.ErrCartVariantNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Variant not found")
	})

	s.Run("error: 409 Conflict when the quantity exceeds stock", func() {
		s.mockCommands.EXPECT().AddItem(gomock.Any(), s.userID, gomock.Any()).
			Return(uuid.Nil, commands.ErrInsufficientStock).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusConflict, "exceeds available stock")
	})

	s.Run("error: 500 Internal Server Error on command failure", func() {
		s.mockCommands.EXPECT().AddItem(gomock.Any(), s.userID, gomock.Any()).
			Return(uuid.Nil, errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}

// ================================================================================
// TestUpdateItem
// ================================================================================

func (s *CartHandlerTestSuite) TestUpdateItem() {
	lineID := uuid.New()
	url := "/cart/items/" + lineID.String()
	reqBody := map[string]any{"quantity": 3}

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().UpdateItemQuantity(gomock.Any(), s.userID, lineID, gomock.Any()).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for invalid UUID", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, "/cart/items/invalid-uuid", reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid cart line ID")
	})

	s.Run("error: 400 Bad Request for non-positive quantity", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, map[string]any{"quantity": 0}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "")
	})

	s.Run("error: 404 Not Found when line belongs to another cart", func() {
		s.mockCommands.EXPECT().UpdateItemQuantity(gomock.Any(), s.userID, lineID, gomock.Any()).
			Return(commands.ErrCartLineNotFound).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPut, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusNotFound, "Cart line not found")
	})
}

// ================================================================================
// TestRemoveItems
// ================================================================================

func (s *CartHandlerTestSuite) TestRemoveItems() {
	url := "/cart/items"

	s.Run("success: returns 204 No Content", func() {
		lineIDs := []uuid.UUID{uuid.New(), uuid.New()}
		s.mockCommands.EXPECT().RemoveItems(gomock.Any(), s.userID, lineIDs).
			Return(nil).Times(1)

		reqBody := map[string]any{"cart_line_ids": []string{lineIDs[0].String(), lineIDs[1].String()}}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, reqBody, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 400 Bad Request for empty ID list", func() {
		reqBody := map[string]any{"cart_line_ids": []string{}}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, reqBody, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		reqBody := map[string]any{"cart_line_ids": []string{uuid.New().String()}}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestClear
// ================================================================================

func (s *CartHandlerTestSuite) TestClear() {
	url := "/cart"

	s.Run("success: returns 204 No Content", func() {
		s.mockCommands.EXPECT().ClearCart(gomock.Any(), s.userID).
			Return(nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		s.Equal(http.StatusNoContent, rec.Code)
	})

	s.Run("error: 401 Unauthorized when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})

	s.Run("error: 500 Internal Server Error on command failure", func() {
		s.mockCommands.EXPECT().ClearCart(gomock.Any(), s.userID).
			Return(errors.New("database error")).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodDelete, url, nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})
}
