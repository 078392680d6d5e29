package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"shop-order-engine/internal/domain/order"
	reqdto "shop-order-engine/internal/handler/dto/request"
	resdto "shop-order-engine/internal/handler/dto/response"
	"shop-order-engine/internal/handler/httperr"
	"shop-order-engine/internal/handler/middleware"
	"shop-order-engine/internal/usecase/commands"
	"shop-order-engine/internal/usecase/queries"
)

var errIdempotencyKeyRequired = errors.New("Idempotency-Key header is required")

type OrderHandler struct {
	checkout  commands.CheckoutCommands
	lifecycle commands.LifecycleCommands
	q         queries.OrderQueries
}

func NewOrderHandler(checkout commands.CheckoutCommands, lifecycle commands.LifecycleCommands, q queries.OrderQueries) *OrderHandler {
	return &OrderHandler{checkout: checkout, lifecycle: lifecycle, q: q}
}

// @Summary Create order
// @Description Place an order from the cart with an idempotency key
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key for duplicate prevention"
// @Param request body reqdto.CreateOrderRequest true "Create order request"
// @Success 201 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	idempotencyKey, err := getIdempotencyKey(c)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, err.Error(), nil)
		return
	}

	var req reqdto.CreateOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request format", nil)
		return
	}

	result, err := h.checkout.CreateOrder(c.Request.Context(), req, userID, idempotencyKey)
	if err != nil {
		h.abortCheckoutError(c, err)
		return
	}

	status := http.StatusCreated
	if result.IsReplayed {
		status = http.StatusOK
	}
	c.JSON(status, resdto.FromOrderView(result.Order))
}

func (h *OrderHandler) abortCheckoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrCartEmpty):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Cart is empty", nil)
	case errors.Is(err, commands.ErrCartLineNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Cart line not found", nil)
	case errors.Is(err, commands.ErrVariantUnavailable):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Item no longer available", nil)
	case errors.Is(err, commands.ErrInsufficientStock):
		httperr.AbortWithError(c, http.StatusConflict, err, "Insufficient stock", nil)
	case errors.Is(err, commands.ErrAddressNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Delivery address not found", nil)
	case errors.Is(err, commands.ErrPaymentMethodInvalid):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Payment method invalid", nil)
	case errors.Is(err, commands.ErrCouponNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Coupon not found", nil)
	case errors.Is(err, commands.ErrInvalidCoupon):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid or expired coupon", nil)
	case errors.Is(err, commands.ErrCouponUsageExceeded):
		httperr.AbortWithError(c, http.StatusConflict, err, "Coupon usage limit reached", nil)
	case errors.Is(err, commands.ErrDuplicateRequest):
		httperr.AbortWithError(c, http.StatusConflict, err, "Duplicate request with different parameters", nil)
	case errors.Is(err, commands.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Request is currently being processed", nil)
	case errors.Is(err, commands.ErrDomainValidation):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Order validation failed", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

// @Summary Get order
// @Description Get order by ID (owners and staff only)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order ID format", nil)
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	isStaff, _ := middleware.GetIsStaff(c)

	view, err := h.q.GetByID(c.Request.Context(), orderID, userID, isStaff)
	if err != nil {
		if errors.Is(err, queries.ErrOrderNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary List own orders
// @Description List the current user's orders with keyset pagination
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {array} resdto.OrderListItemResponse
// @Failure 401 {object} map[string]string
// @Router /orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.ListByUser(c.Request.Context(), userID, cursor, limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	resp := gin.H{"orders": resdto.FromOrderList(items)}
	if next != nil {
		resp["next_cursor"] = next.After
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List all orders
// @Description List every user's orders with keyset pagination, optionally filtered by status (staff only)
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by order status"
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {array} resdto.OrderListItemResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /orders/all [get]
func (h *OrderHandler) ListAll(c *gin.Context) {
	var status *string
	if raw := c.Query("status"); raw != "" {
		parsed, err := order.ParseStatus(raw)
		if err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order status", nil)
			return
		}
		s := parsed.String()
		status = &s
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if iv, e := strconv.Atoi(v); e == nil {
			limit = queries.ValidateLimit(iv)
		}
	}
	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.ListAll(c.Request.Context(), status, cursor, limit)
	if err != nil {
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	resp := gin.H{"orders": resdto.FromOrderList(items)}
	if next != nil {
		resp["next_cursor"] = next.After
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Order history
// @Description Get the status transition history of an order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {array} resdto.OrderHistoryResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id}/history [get]
func (h *OrderHandler) History(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order ID format", nil)
		return
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return
	}
	isStaff, _ := middleware.GetIsStaff(c)

	entries, err := h.q.History(c.Request.Context(), orderID, userID, isStaff)
	if err != nil {
		if errors.Is(err, queries.ErrOrderNotFound) {
			httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
			return
		}
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": resdto.FromOrderHistory(entries)})
}

// @Summary Advance order status
// @Description Move the order one step forward in its processing sequence (staff only)
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.AdvanceOrderRequest false "Optional note"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/advance [post]
func (h *OrderHandler) Advance(c *gin.Context) {
	orderID, actor, ok := h.orderActor(c)
	if !ok {
		return
	}

	var req reqdto.AdvanceOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
			return
		}
	}

	view, err := h.lifecycle.AdvanceStatus(c.Request.Context(), orderID, actor, req.Note)
	if err != nil {
		h.abortLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary Cancel order
// @Description Cancel an order that has not been delivered; reserved stock is returned
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.CancelOrderRequest false "Optional reason"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) Cancel(c *gin.Context) {
	orderID, actor, ok := h.orderActor(c)
	if !ok {
		return
	}

	var req reqdto.CancelOrderRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
			return
		}
	}

	view, err := h.lifecycle.CancelOrder(c.Request.Context(), orderID, actor, req.Reason)
	if err != nil {
		h.abortLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary Return order
// @Description Return delivered items for a refund; returned stock goes back to the shelf
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param request body reqdto.ReturnOrderRequest true "Return request"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id}/return [post]
func (h *OrderHandler) Return(c *gin.Context) {
	orderID, actor, ok := h.orderActor(c)
	if !ok {
		return
	}

	var req reqdto.ReturnOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request format", nil)
		return
	}

	view, err := h.lifecycle.ReturnOrder(c.Request.Context(), orderID, actor, req)
	if err != nil {
		h.abortLifecycleError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromOrderView(view))
}

// @Summary Delete order
// @Description Administrative purge of an order and its dependent rows (staff only)
// @Tags orders
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	orderID, actor, ok := h.orderActor(c)
	if !ok {
		return
	}

	if err := h.lifecycle.DeleteOrder(c.Request.Context(), orderID, actor); err != nil {
		h.abortLifecycleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *OrderHandler) orderActor(c *gin.Context) (uuid.UUID, commands.Actor, bool) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order ID format", nil)
		return uuid.Nil, commands.Actor{}, false
	}
	userID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, nil, "Unauthorized", nil)
		return uuid.Nil, commands.Actor{}, false
	}
	isStaff, _ := middleware.GetIsStaff(c)
	return orderID, commands.Actor{ID: userID, IsStaff: isStaff}, true
}

func (h *OrderHandler) abortLifecycleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrOrderNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
	case errors.Is(err, commands.ErrPermissionDenied):
		httperr.AbortWithError(c, http.StatusForbidden, err, "Insufficient permissions", nil)
	case errors.Is(err, commands.ErrOrderNotAdvancable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Order cannot advance further", nil)
	case errors.Is(err, commands.ErrOrderNotCancelable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Order can no longer be cancelled", nil)
	case errors.Is(err, commands.ErrOrderNotReturnable):
		httperr.AbortWithError(c, http.StatusConflict, err, "Order cannot be returned", nil)
	case errors.Is(err, commands.ErrInvalidReturn):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid return request", nil)
	default:
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func getIdempotencyKey(c *gin.Context) (uuid.UUID, error) {
	keyStr := c.GetHeader("Idempotency-Key")
	if keyStr == "" {
		return uuid.Nil, errIdempotencyKeyRequired
	}

	key, err := uuid.Parse(keyStr)
	if err != nil {
		return uuid.Nil, errors.New("invalid idempotency key format")
	}

	return key, nil
}
